package domain

import "time"

// ExtractorKind names an extraction strategy as it appears in source files
type ExtractorKind string

const (
	KindHTMLCSS ExtractorKind = "html_css"
	KindRegex   ExtractorKind = "regex"
	KindJSONAPI ExtractorKind = "json_api"
)

// PercentFormat tells how a source encodes its rates
type PercentFormat string

const (
	// PercentPlain means values are already percentages (4.5 = 4.5%)
	PercentPlain PercentFormat = "plain"
	// PercentBasis means values are fractions that need scaling by 100 (0.045 = 4.5%)
	PercentBasis PercentFormat = "basis"
)

// Take is the aggregation mode reducing a candidate set to one rate
type Take string

const (
	TakeFirst Take = "first"
	TakeMin   Take = "min"
	TakeMax   Take = "max"
	TakeAvg   Take = "avg"
)

// Default extractor settings
const (
	DefaultPercentFormat = PercentPlain
	DefaultTake          = TakeMin
	DefaultMultiplier    = 1.0
)

// ExtractorParams is the strategy-specific payload of an ExtractorSpec.
// The set of implementations is closed: HTMLCSS, Regex, JSONAPI and
// Unsupported.
type ExtractorParams interface {
	Kind() ExtractorKind
	sealed()
}

// HTMLCSS selects document nodes with a CSS selector and scans their text
type HTMLCSS struct {
	// Selector may end with :contains('needle'); empty selects the document root
	Selector string
	// ValuePattern overrides the default "number followed by %" scan
	ValuePattern string
}

func (HTMLCSS) Kind() ExtractorKind { return KindHTMLCSS }
func (HTMLCSS) sealed()             {}

// Regex scans the raw document text with a regular expression
type Regex struct {
	Pattern string
}

func (Regex) Kind() ExtractorKind { return KindRegex }
func (Regex) sealed()             {}

// JSONAPI resolves a dot-delimited path in a JSON payload
type JSONAPI struct {
	// Field is a path such as "rates.0.apr"
	Field string
	// Multiplier scales every candidate; zero scales them all to zero
	Multiplier float64
}

func (JSONAPI) Kind() ExtractorKind { return KindJSONAPI }
func (JSONAPI) sealed()             {}

// Unsupported carries an extractor type no strategy recognises. It always
// fails extraction so the next extractor of the source is tried.
type Unsupported struct {
	Type string
}

func (u Unsupported) Kind() ExtractorKind { return ExtractorKind(u.Type) }
func (Unsupported) sealed()               {}

// ExtractorSpec is one configured extraction attempt for a source
type ExtractorSpec struct {
	Params        ExtractorParams
	PercentFormat PercentFormat
	Take          Take
}

// Kind returns the kind of the active variant
func (s ExtractorSpec) Kind() ExtractorKind {
	if s.Params == nil {
		return ""
	}
	return s.Params.Kind()
}

// Source is one bank/product/term combination with its own fetch target
type Source struct {
	Bank       string
	Country    string
	Product    string
	Term       string
	Currency   string
	URL        string
	Extractors []ExtractorSpec
}

// Record is the normalized rate collected from one source
type Record struct {
	Bank      string    `json:"bank"`
	Country   string    `json:"country"`
	Product   string    `json:"product"`
	Term      string    `json:"term"`
	Currency  string    `json:"currency"`
	APR       float64   `json:"apr"`
	SourceURL string    `json:"source_url"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Rate bounds; a valid APR lies strictly between them
const (
	MinAPR = 0.0
	MaxAPR = 200.0
)

// ValidAPR reports whether v is a plausible percentage rate
func ValidAPR(v float64) bool {
	return v > MinAPR && v < MaxAPR
}

// NewRecord builds a record for src. It returns false when apr is outside
// the plausible range, so an invalid record is never constructed.
func NewRecord(src Source, apr float64, fetchedAt time.Time) (Record, bool) {
	if !ValidAPR(apr) {
		return Record{}, false
	}
	return Record{
		Bank:      src.Bank,
		Country:   src.Country,
		Product:   src.Product,
		Term:      src.Term,
		Currency:  src.Currency,
		APR:       apr,
		SourceURL: src.URL,
		FetchedAt: fetchedAt.UTC().Truncate(time.Second),
	}, true
}
