package sources

import "errors"

// Sentinel errors for the sources package
var (
	// ErrNoBanks indicates the file has no banks defined
	ErrNoBanks = errors.New("sources file must contain at least one bank")

	// ErrEmptyBank indicates a bank entry has no name
	ErrEmptyBank = errors.New("bank name cannot be empty")

	// ErrEmptyURL indicates a bank entry is missing the required source_url field
	ErrEmptyURL = errors.New("source_url cannot be empty")

	// ErrUnknownExtractor indicates an extractor type that cannot be run
	ErrUnknownExtractor = errors.New("unknown extractor type (use html_css, regex or json_api)")

	// ErrInvalidFormat indicates the file is not valid YAML or JSON
	ErrInvalidFormat = errors.New("sources file must be valid YAML or JSON")

	// ErrFileNotFound indicates the sources file does not exist
	ErrFileNotFound = errors.New("sources file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, or .json)")
)
