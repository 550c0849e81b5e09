package sources

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/loanrates-go/internal/domain"
)

// File represents a complete sources file
type File struct {
	Banks []Bank `yaml:"banks" json:"banks"`
}

// Bank represents one bank/product entry
type Bank struct {
	Bank       string      `yaml:"bank" json:"bank"`
	Country    string      `yaml:"country,omitempty" json:"country,omitempty"`
	Product    string      `yaml:"product,omitempty" json:"product,omitempty"`
	Term       string      `yaml:"term,omitempty" json:"term,omitempty"`
	Currency   string      `yaml:"currency,omitempty" json:"currency,omitempty"`
	SourceURL  string      `yaml:"source_url" json:"source_url"`
	Extractors []Extractor `yaml:"extractors" json:"extractors"`
}

// Extractor is the flat on-disk form of a domain.ExtractorSpec
type Extractor struct {
	Type          string   `yaml:"type" json:"type"`
	Selector      string   `yaml:"selector,omitempty" json:"selector,omitempty"`
	ValuePattern  string   `yaml:"value_pattern,omitempty" json:"value_pattern,omitempty"`
	Pattern       string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Field         string   `yaml:"field,omitempty" json:"field,omitempty"`
	Multiplier    *float64 `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`
	PercentFormat string   `yaml:"percent_format,omitempty" json:"percent_format,omitempty"`
	Take          string   `yaml:"take,omitempty" json:"take,omitempty"`
}

// Validate validates the sources file. Unknown extractor types are not
// errors; see Warnings.
func (f *File) Validate() error {
	if len(f.Banks) == 0 {
		return ErrNoBanks
	}
	for i, b := range f.Banks {
		if strings.TrimSpace(b.Bank) == "" {
			return fmt.Errorf("bank %d: %w", i, ErrEmptyBank)
		}
		if strings.TrimSpace(b.SourceURL) == "" {
			return fmt.Errorf("bank %d (%s): %w", i, b.Bank, ErrEmptyURL)
		}
	}
	return nil
}

// Warnings lists extractors whose type no strategy recognises. They are kept
// in the chain and fail at run time, so the next extractor is tried.
func (f *File) Warnings() []error {
	var warnings []error
	for i, b := range f.Banks {
		for j, e := range b.Extractors {
			if !e.Supported() {
				warnings = append(warnings, fmt.Errorf("bank %d (%s) extractor %d: %w: %q", i, b.Bank, j, ErrUnknownExtractor, e.Type))
			}
		}
	}
	return warnings
}

// Sources converts the file into pipeline sources with extractor defaults applied
func (f *File) Sources() []domain.Source {
	out := make([]domain.Source, 0, len(f.Banks))
	for _, b := range f.Banks {
		out = append(out, b.Source())
	}
	return out
}

// Source converts one bank entry
func (b Bank) Source() domain.Source {
	specs := make([]domain.ExtractorSpec, 0, len(b.Extractors))
	for _, e := range b.Extractors {
		specs = append(specs, e.Spec())
	}

	return domain.Source{
		Bank:       strings.TrimSpace(b.Bank),
		Country:    b.Country,
		Product:    b.Product,
		Term:       b.Term,
		Currency:   b.Currency,
		URL:        strings.TrimSpace(b.SourceURL),
		Extractors: specs,
	}
}

// Supported reports whether Type names a known strategy
func (e Extractor) Supported() bool {
	_, ok := e.Params().(domain.Unsupported)
	return !ok
}

// Params returns the variant selected by Type. An unknown type yields
// domain.Unsupported. An unset multiplier is 1; an explicit 0 is kept.
func (e Extractor) Params() domain.ExtractorParams {
	switch domain.ExtractorKind(strings.ToLower(strings.TrimSpace(e.Type))) {
	case domain.KindHTMLCSS:
		return domain.HTMLCSS{Selector: e.Selector, ValuePattern: e.ValuePattern}
	case domain.KindRegex:
		return domain.Regex{Pattern: e.Pattern}
	case domain.KindJSONAPI:
		multiplier := domain.DefaultMultiplier
		if e.Multiplier != nil {
			multiplier = *e.Multiplier
		}
		return domain.JSONAPI{Field: e.Field, Multiplier: multiplier}
	default:
		return domain.Unsupported{Type: strings.TrimSpace(e.Type)}
	}
}

// Spec converts the extractor into a domain.ExtractorSpec. An unset
// percent_format is plain and an unset take is min; other values are passed
// through and interpreted by the post-processor.
func (e Extractor) Spec() domain.ExtractorSpec {
	params := e.Params()

	format := domain.PercentFormat(strings.ToLower(strings.TrimSpace(e.PercentFormat)))
	if format == "" {
		format = domain.DefaultPercentFormat
	}
	take := domain.Take(strings.ToLower(strings.TrimSpace(e.Take)))
	if take == "" {
		take = domain.DefaultTake
	}

	return domain.ExtractorSpec{Params: params, PercentFormat: format, Take: take}
}
