// Package sources loads the list of banks to scrape. A sources file names
// each bank, the page or endpoint that publishes its rate and an ordered
// list of extractors to try against that document.
//
// # File Format
//
// Sources files can be written in YAML or JSON format:
//
//	banks:
//	  - bank: Example Bank
//	    country: PT
//	    product: mortgage
//	    term: 30y
//	    currency: EUR
//	    source_url: https://bank.example/rates
//	    extractors:
//	      - type: html_css
//	        selector: "table.rates tr:contains('Fixed')"
//	      - type: regex
//	        pattern: 'TAEG\s*([\d,]+)\s*%'
//	        take: first
//	  - bank: Example API
//	    source_url: https://api.example/rates.json
//	    extractors:
//	      - type: json_api
//	        field: rates.0.apr
//	        multiplier: 100
//
// Extractor fields not used by a type are ignored. percent_format defaults
// to plain and take to min.
//
// # Usage
//
//	loader := sources.NewLoader()
//	file, err := loader.Load("banks.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srcs := file.Sources()
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrNoBanks: file has no banks defined
//   - ErrEmptyBank: a bank entry has no name
//   - ErrEmptyURL: a bank entry is missing source_url
//   - ErrUnknownExtractor: an extractor type is not html_css, regex or json_api
//   - ErrInvalidFormat: file is not valid YAML/JSON
//   - ErrFileNotFound: sources file does not exist
//   - ErrUnsupportedExt: unsupported file extension
package sources
