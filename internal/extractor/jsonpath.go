package extractor

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/quantmind-br/loanrates-go/internal/domain"
)

// extractJSON resolves a dot path in a JSON payload and scales the numbers found there
func extractJSON(body []byte, p domain.JSONAPI) ([]float64, error) {
	if strings.TrimSpace(p.Field) == "" {
		return nil, domain.NewExtractionError(domain.KindJSONAPI, domain.ErrMissingField, "")
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewExtractionError(domain.KindJSONAPI, domain.ErrNotJSON, err.Error())
	}

	node, ok := ResolvePath(payload, p.Field)
	if !ok {
		return nil, domain.NewExtractionError(domain.KindJSONAPI, domain.ErrPathNotFound, p.Field)
	}

	var values []float64
	if items, isList := node.([]any); isList {
		for _, item := range items {
			if v, ok := toFloat(item); ok {
				values = append(values, v)
			}
		}
	} else if v, ok := toFloat(node); ok {
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, domain.NewExtractionError(domain.KindJSONAPI, domain.ErrNoCandidates, p.Field)
	}

	for i := range values {
		values[i] *= p.Multiplier
	}
	return values, nil
}

// ResolvePath walks a decoded JSON value along a dot-delimited path. On a
// list the segment must be an integer index (negative counts from the end);
// on an object it is a key. A null result counts as not found.
func ResolvePath(root any, path string) (any, bool) {
	cur := root
	for _, segment := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case []any:
			idx, err := strconv.Atoi(strings.TrimSpace(segment))
			if err != nil {
				return nil, false
			}
			if idx < 0 {
				idx += len(node)
			}
			if idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			cur = next
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// toFloat coerces a scalar JSON value to a finite float
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
