package extractor

import (
	"slices"

	"github.com/quantmind-br/loanrates-go/internal/domain"
)

// Process converts candidates to percentages, drops values outside the
// plausible (0, 200) band and reduces the rest to one rate. The conversion
// happens before the range check. It reports false when nothing survives.
func Process(candidates []float64, format domain.PercentFormat, take domain.Take) (float64, bool) {
	values := make([]float64, 0, len(candidates))
	for _, v := range candidates {
		if format == domain.PercentBasis {
			v *= 100
		}
		if domain.ValidAPR(v) {
			values = append(values, v)
		}
	}
	return Aggregate(values, take)
}

// Aggregate reduces values with the given mode. Unknown modes behave like min.
func Aggregate(values []float64, take domain.Take) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	switch take {
	case domain.TakeFirst:
		return values[0], true
	case domain.TakeMax:
		return slices.Max(values), true
	case domain.TakeAvg:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), true
	default:
		return slices.Min(values), true
	}
}
