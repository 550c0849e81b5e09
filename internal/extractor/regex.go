package extractor

import (
	"regexp"

	"github.com/quantmind-br/loanrates-go/internal/domain"
)

// extractRegex scans the raw document with a case-insensitive pattern in
// which "." also matches newlines.
func extractRegex(body []byte, p domain.Regex) ([]float64, error) {
	if p.Pattern == "" {
		return nil, domain.NewExtractionError(domain.KindRegex, domain.ErrInvalidPattern, "empty pattern")
	}

	// "multiline" matching means dot-matches-newline (s), not line anchors (m)
	rx, err := regexp.Compile("(?is)" + p.Pattern)
	if err != nil {
		return nil, domain.NewExtractionError(domain.KindRegex, domain.ErrInvalidPattern, err.Error())
	}

	values := ScanNumbers(rx, []string{string(body)})
	if len(values) == 0 {
		return nil, domain.NewExtractionError(domain.KindRegex, domain.ErrNoCandidates, p.Pattern)
	}
	return values, nil
}
