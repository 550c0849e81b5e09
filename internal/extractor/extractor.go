// Package extractor turns fetched documents into rate candidates and reduces
// them to a single rate.
//
// Three strategies are supported, one per domain.ExtractorParams variant:
//
//   - html_css: CSS selection (with an optional case-insensitive
//     :contains('text') filter) followed by a numeric scan of node text
//   - regex: a pattern applied to the raw document
//   - json_api: a dot path such as "rates.0.apr" resolved in a JSON payload
//
// Strategies report failure as an empty candidate set plus a
// *domain.ExtractionError; they never panic on bad input.
package extractor

import (
	"fmt"

	"github.com/quantmind-br/loanrates-go/internal/domain"
)

// Engine dispatches an ExtractorSpec to its strategy
type Engine struct{}

// New creates an extraction engine
func New() *Engine {
	return &Engine{}
}

// Extract implements domain.Extractor
func (e *Engine) Extract(body []byte, spec domain.ExtractorSpec) ([]float64, error) {
	return Extract(body, spec)
}

// Extract runs the strategy selected by spec.Params against body
func Extract(body []byte, spec domain.ExtractorSpec) ([]float64, error) {
	switch p := spec.Params.(type) {
	case domain.HTMLCSS:
		return extractHTMLCSS(body, p)
	case domain.Regex:
		return extractRegex(body, p)
	case domain.JSONAPI:
		return extractJSON(body, p)
	case domain.Unsupported:
		return nil, domain.NewExtractionError(p.Kind(), domain.ErrUnsupportedExtractor, fmt.Sprintf("type %q", p.Type))
	default:
		return nil, domain.NewExtractionError(spec.Kind(), domain.ErrUnsupportedExtractor, fmt.Sprintf("%T", spec.Params))
	}
}
