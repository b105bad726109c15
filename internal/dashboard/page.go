package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"strconv"

	"github.com/sustrend/zeroe-viz/internal/format"
	"github.com/sustrend/zeroe-viz/internal/model"
	"github.com/sustrend/zeroe-viz/internal/simulate"
)

// logoErrorMessage prefixes the footer notice shown when a logo download fails.
const logoErrorMessage = "Could not load the logos from their URLs. Please check the links"

// sliderView shadows the numeric bounds with plain decimal strings so
// large values never render in exponent form.
type sliderView struct {
	model.Parameter
	Min     string
	Max     string
	Step    string
	Value   string
	Display string
}

type downloadView struct {
	Title    string
	URL      string
	FileName string
}

type logoView struct {
	Name string
	URL  string
}

type pageView struct {
	Title        string
	Subtitle     string
	Version      string
	Intro        template.HTML
	Info         template.HTML
	Params       []sliderView
	Cards        []format.Card
	CompositeURL string
	Downloads    []downloadView
	Logos        []logoView
	LogoError    string
}

func (s *Server) buildPage(ctx context.Context, res simulate.Result) pageView {
	q := Query(res.Inputs)
	view := pageView{
		Title:        "Impact Visualizer - Project P10",
		Subtitle:     "Zero-E: Regenerative Livestock",
		Version:      Version,
		Intro:        s.intro,
		Info:         s.info,
		Cards:        format.Cards(res.Outputs),
		CompositeURL: "/charts/composite.png?" + q,
	}

	for _, p := range model.Parameters() {
		v := res.Inputs.Value(p.Key)
		view.Params = append(view.Params, sliderView{
			Parameter: p,
			Min:       plain(p.Min),
			Max:       plain(p.Max),
			Step:      plain(p.Step),
			Value:     plain(v),
			Display:   format.Parameter(p, v),
		})
	}

	for _, d := range res.Datasets {
		view.Downloads = append(view.Downloads, downloadView{
			Title:    d.Title,
			URL:      fmt.Sprintf("/charts/%s.png?download=1&%s", d.Metric, q),
			FileName: d.FileName(),
		})
	}

	if s.logos != nil {
		logos, err := s.logos.Available(ctx)
		for _, l := range logos {
			view.Logos = append(view.Logos, logoView{Name: l.Name, URL: logoURL(l)})
		}
		if err != nil {
			view.LogoError = fmt.Sprintf("%s: %v", logoErrorMessage, err)
		}
	}
	return view
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
