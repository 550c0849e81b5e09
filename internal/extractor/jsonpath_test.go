package extractor

import (
	"encoding/json"
	"testing"

	"github.com/quantmind-br/loanrates-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ratesPayload = `{
  "rates": [
    {"apr": 0.045, "label": "fixed"},
    {"apr": "0.039", "label": "variable"}
  ],
  "summary": {"aprs": [3.5, "n/a", 4.1, null, true], "empty": null, "name": "home"}
}`

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		params domain.JSONAPI
		want   []float64
	}{
		{"index into list with multiplier", domain.JSONAPI{Field: "rates.0.apr", Multiplier: 100}, []float64{4.5}},
		{"numeric string coerced", domain.JSONAPI{Field: "rates.1.apr", Multiplier: 100}, []float64{3.9}},
		{"negative index", domain.JSONAPI{Field: "rates.-1.apr", Multiplier: 100}, []float64{3.9}},
		{"list keeps coercible items", domain.JSONAPI{Field: "summary.aprs", Multiplier: 1}, []float64{3.5, 4.1, 1}},
		{"zero multiplier zeroes candidates", domain.JSONAPI{Field: "summary.aprs.0"}, []float64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON([]byte(ratesPayload), tt.params)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestExtractJSON_ZeroMultiplierYieldsNoRate(t *testing.T) {
	spec := domain.ExtractorSpec{
		Params:        domain.JSONAPI{Field: "rates.0.apr", Multiplier: 0},
		PercentFormat: domain.PercentPlain,
		Take:          domain.TakeMin,
	}
	candidates, err := Extract([]byte(ratesPayload), spec)
	require.NoError(t, err)

	_, ok := Process(candidates, spec.PercentFormat, spec.Take)
	assert.False(t, ok)
}

func TestExtractJSON_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		wantErr error
	}{
		{"missing field", ratesPayload, "", domain.ErrMissingField},
		{"not json", "<html>4%</html>", "rates", domain.ErrNotJSON},
		{"unknown key", ratesPayload, "rates.0.rate", domain.ErrPathNotFound},
		{"index out of range", ratesPayload, "rates.5.apr", domain.ErrPathNotFound},
		{"non-integer index", ratesPayload, "rates.first.apr", domain.ErrPathNotFound},
		{"key on scalar", ratesPayload, "summary.name.x", domain.ErrPathNotFound},
		{"null value", ratesPayload, "summary.empty", domain.ErrPathNotFound},
		{"object is not a number", ratesPayload, "summary", domain.ErrNoCandidates},
		{"non-numeric string", ratesPayload, "rates.0.label", domain.ErrNoCandidates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON([]byte(tt.body), domain.JSONAPI{Field: tt.field, Multiplier: 1})
			assert.Empty(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolvePath(t *testing.T) {
	var root any
	require.NoError(t, json.Unmarshal([]byte(`{"a": {"b": [10, {"c": "x"}]}}`), &root))

	tests := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{"a.b.0", float64(10), true},
		{"a.b.1.c", "x", true},
		{"a.b.-2", float64(10), true},
		{"a.b.-3", nil, false},
		{"a.missing", nil, false},
		{"a.b.0.c", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ResolvePath(root, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
