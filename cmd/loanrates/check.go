package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/quantmind-br/loanrates-go/internal/domain"
	"github.com/quantmind-br/loanrates-go/internal/utils"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a sources file without fetching",
		Long: `check loads the sources file given with --config, validates it and prints
one row per source with its host and extractor chain. Nothing is fetched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadSources(opts)
			if err != nil {
				return err
			}
			warnings := renderSourceSummary(cmd.OutOrStdout(), file.Sources())
			fmt.Fprintf(cmd.OutOrStdout(), "%d sources loaded, %d with warnings\n", len(file.Banks), warnings)
			return nil
		},
	}
}

// renderSourceSummary prints a table of sources and returns the number of
// sources with a problem: a non-HTTP URL, no extractors or an unknown
// extractor type
func renderSourceSummary(w io.Writer, srcs []domain.Source) int {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Bank", "Product", "Term", "Host", "Extractors", "Notes"})

	warnings := 0
	for i, src := range srcs {
		var notes []string
		if !utils.IsHTTPURL(src.URL) {
			notes = append(notes, "not an http(s) URL")
		}
		if len(src.Extractors) == 0 {
			notes = append(notes, "no extractors")
		}
		for _, spec := range src.Extractors {
			if u, ok := spec.Params.(domain.Unsupported); ok {
				notes = append(notes, fmt.Sprintf("unknown extractor %q skipped", u.Type))
			}
		}
		if len(notes) > 0 {
			warnings++
		}

		t.AppendRow(table.Row{
			i + 1,
			src.Bank,
			src.Product,
			src.Term,
			utils.GetDomain(src.URL),
			describeExtractors(src.Extractors),
			strings.Join(notes, "; "),
		})
	}

	t.Render()
	return warnings
}

// describeExtractors renders the chain as "html_css > regex(first)"
func describeExtractors(specs []domain.ExtractorSpec) string {
	parts := make([]string, 0, len(specs))
	for _, spec := range specs {
		part := string(spec.Kind())
		if spec.Take != "" && spec.Take != domain.DefaultTake {
			part += "(" + string(spec.Take) + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " > ")
}
