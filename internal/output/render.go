package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/quantmind-br/loanrates-go/internal/domain"
)

// CSVHeader is the column order of CSV output
var CSVHeader = []string{"bank", "country", "product", "term", "currency", "apr", "source_url", "fetched_at"}

// Render writes records to w in the given format
func Render(w io.Writer, format Format, records []domain.Record) error {
	switch format {
	case FormatTable, "":
		return RenderTable(w, records)
	case FormatCSV:
		return RenderCSV(w, records)
	case FormatJSON:
		return RenderJSON(w, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// RenderTable writes an aligned console table
func RenderTable(w io.Writer, records []domain.Record) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Bank", "Country", "Product", "Term", "Currency", "APR", "Source URL", "Fetched At"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "APR", Align: text.AlignRight},
	})

	for _, r := range records {
		t.AppendRow(table.Row{
			r.Bank,
			r.Country,
			r.Product,
			r.Term,
			r.Currency,
			fmt.Sprintf("%.2f%%", r.APR),
			r.SourceURL,
			formatTime(r.FetchedAt),
		})
	}

	t.Render()
	return nil
}

// RenderCSV writes records with CSVHeader as the first row
func RenderCSV(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Bank,
			r.Country,
			r.Product,
			r.Term,
			r.Currency,
			strconv.FormatFloat(r.APR, 'f', -1, 64),
			r.SourceURL,
			formatTime(r.FetchedAt),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderJSON writes records as an indented JSON array
func RenderJSON(w io.Writer, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
