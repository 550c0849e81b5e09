package utils

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// DescFetching labels the bar shown while sources are fetched
const DescFetching = "Fetching rates"

// NewProgressBar creates a consistently styled progress bar on stderr.
//
// A negative total renders a spinner; a known total shows the count and
// sources per second. The bar clears itself on Finish so it never mixes with
// the table written to stdout.
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	return NewProgressBarTo(os.Stderr, total, description)
}

// NewProgressBarTo is NewProgressBar with an explicit writer
func NewProgressBarTo(w io.Writer, total int, description string) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("sources"),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
