package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sustrend/zeroe-viz/internal/branding"
	"github.com/sustrend/zeroe-viz/internal/format"
	"github.com/sustrend/zeroe-viz/internal/model"
	"github.com/sustrend/zeroe-viz/internal/monitoring"
	"github.com/sustrend/zeroe-viz/internal/report"
	"github.com/sustrend/zeroe-viz/internal/simulate"
)

// compositeName is the chart route name for the three-panel image.
const compositeName = "composite"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SimulateResponse is the body of /api/simulate.
type SimulateResponse struct {
	Inputs   model.SimulationInputs    `json:"inputs"`
	Outputs  model.SimulationOutputs   `json:"outputs"`
	Cards    []format.Card             `json:"cards"`
	Datasets []model.ComparisonDataset `json:"datasets"`
	Charts   map[string]string         `json:"charts"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("dashboard: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParameters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, model.Parameters())
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var (
		in  model.SimulationInputs
		err error
	)
	if r.Method == http.MethodPost {
		in, err = ParseBody(r.Body)
	} else {
		in, err = ParseQuery(r.URL.Query())
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.run(in, "api")
	q := Query(res.Inputs)
	charts := map[string]string{compositeName: "/charts/composite.png?" + q}
	for _, d := range res.Datasets {
		charts[string(d.Metric)] = fmt.Sprintf("/charts/%s.png?%s", d.Metric, q)
	}

	respondJSON(w, http.StatusOK, SimulateResponse{
		Inputs:   res.Inputs,
		Outputs:  res.Outputs,
		Cards:    format.Cards(res.Outputs),
		Datasets: res.Datasets,
		Charts:   charts,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name != compositeName && !model.Metric(name).Valid() {
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown chart %q", name))
		return
	}

	in, err := ParseQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := s.run(in, "chart")

	if name == compositeName {
		img, err := s.render.CompositePNG(res.Datasets)
		if err != nil {
			s.internalError(w, "render composite", err)
			return
		}
		writePNG(w, img, "")
		return
	}

	d, _ := res.Dataset(model.Metric(name))
	img, err := s.render.PNG(d)
	if err != nil {
		s.internalError(w, "render chart", err)
		return
	}
	filename := ""
	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		filename = d.FileName()
	}
	writePNG(w, img, filename)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	in, err := ParseQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := s.run(in, "report")

	var buf bytes.Buffer
	if err := report.Write(&buf, res, report.NewMeta(s.opts.ReportTitle, "dashboard")); err != nil {
		s.internalError(w, "build report", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="zeroe-report.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleLogo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if s.logos == nil || !slices.Contains(s.logos.Names(), name) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown logo %q", name))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.LogoTimeout)
	defer cancel()
	logo, err := s.logos.Fetch(ctx, name)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", logo.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(logo.Data)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	in, err := ParseQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := s.run(in, "dashboard")

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.LogoTimeout)
	defer cancel()
	view := s.buildPage(ctx, res)

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, view); err != nil {
		s.internalError(w, "render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) run(in model.SimulationInputs, surface string) simulate.Result {
	monitoring.SimulationsTotal.WithLabelValues(surface).Inc()
	return s.calc.Run(in)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	zap.L().Error("dashboard: "+op, zap.Error(err))
	respondError(w, http.StatusInternalServerError, op+" failed")
}

func writePNG(w http.ResponseWriter, img []byte, filename string) {
	w.Header().Set("Content-Type", "image/png")
	if filename != "" {
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	_, _ = w.Write(img)
}

// logoURL is the dashboard-local path for a cached logo.
func logoURL(l branding.Logo) string {
	return "/logos/" + l.Name
}
