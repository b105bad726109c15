package dashboard

import (
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sustrend/zeroe-viz/internal/model"
)

// maxBodyBytes bounds POST /api/simulate payloads.
const maxBodyBytes = 64 << 10

// ParseQuery reads simulation inputs from a query string. Missing
// parameters keep their defaults; a present but non-numeric value is an
// error. Range clamping happens later, in the calculator.
func ParseQuery(q url.Values) (model.SimulationInputs, error) {
	in := model.DefaultInputs()
	for _, p := range model.Parameters() {
		raw := strings.TrimSpace(q.Get(string(p.Key)))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, eris.Errorf("invalid value %q for %s", raw, p.Key)
		}
		in = in.With(p.Key, p.Clamp(v))
	}
	return in, nil
}

// ParseBody reads simulation inputs from a JSON object keyed like the
// query string. Missing keys keep their defaults.
func ParseBody(r io.Reader) (model.SimulationInputs, error) {
	in := model.DefaultInputs()

	var raw map[string]float64
	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(&raw); err != nil {
		return in, eris.Wrap(err, "invalid request body")
	}
	for key, v := range raw {
		p, ok := model.LookupParameter(model.ParamKey(key))
		if !ok {
			return in, eris.Errorf("unknown parameter %q", key)
		}
		in = in.With(p.Key, p.Clamp(v))
	}
	return in, nil
}

// Query encodes in as a query string for chart and report links.
func Query(in model.SimulationInputs) string {
	q := url.Values{}
	for _, p := range model.Parameters() {
		q.Set(string(p.Key), strconv.FormatFloat(in.Value(p.Key), 'f', -1, 64))
	}
	return q.Encode()
}
