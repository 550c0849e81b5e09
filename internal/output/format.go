package output

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/quantmind-br/loanrates-go/internal/domain"
)

// Format is an output rendering
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ErrUnknownFormat is returned for a format other than table, csv or json
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat parses a format name case-insensitively; empty means table
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// SortByAPR returns a copy of records ordered by ascending APR. Records with
// equal APR keep their relative order.
func SortByAPR(records []domain.Record) []domain.Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b domain.Record) int {
		switch {
		case a.APR < b.APR:
			return -1
		case a.APR > b.APR:
			return 1
		default:
			return 0
		}
	})
	return sorted
}
