package dashboard

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sustrend/zeroe-viz/internal/model"
)

func TestParseQuery_Defaults(t *testing.T) {
	t.Parallel()
	in, err := ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultInputs(), in)
}

func TestParseQuery_ValuesAndClamping(t *testing.T) {
	t.Parallel()
	in, err := ParseQuery(url.Values{
		"animals":          {"2000"},
		"emission_factor":  {" 22.5 "},
		"additive_price":   {"9000000"},
		"byproduct_volume": {"17.6"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2000, in.Animals)
	assert.Equal(t, 22.5, in.EmissionFactor)
	assert.Equal(t, 3_000_000, in.AdditivePrice)
	assert.Equal(t, 18, in.ByproductVolume)
	assert.Equal(t, 30.0, in.ReductionRate)
}

func TestParseQuery_Invalid(t *testing.T) {
	t.Parallel()
	_, err := ParseQuery(url.Values{"reduction_rate": {"thirty"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reduction_rate")
}

func TestParseBody(t *testing.T) {
	t.Parallel()
	in, err := ParseBody(strings.NewReader(`{"animals": 50, "valorization_rate": 95}`))
	require.NoError(t, err)
	assert.Equal(t, 50, in.Animals)
	assert.Equal(t, 95.0, in.ValorizationRate)
	assert.Equal(t, 15, in.ByproductVolume)
}

func TestParseBody_Errors(t *testing.T) {
	t.Parallel()
	_, err := ParseBody(strings.NewReader(`{"cows": 10}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parameter")

	_, err = ParseBody(strings.NewReader(`not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request body")
}

func TestQuery_RoundTrip(t *testing.T) {
	t.Parallel()
	in := model.DefaultInputs().With(model.ParamEmissionFactor, 17.5)
	q := Query(in)
	assert.Contains(t, q, "additive_price=2000000")
	assert.Contains(t, q, "emission_factor=17.5")

	values, err := url.ParseQuery(q)
	require.NoError(t, err)
	out, err := ParseQuery(values)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
