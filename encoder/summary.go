package encoder

import (
	"github.com/boljen/go-bitmap"
)

// PageSummary describes what happened to one page.
type PageSummary struct {
	// Number is the 1-based index of the page in the job.
	Number int
	// RowsDeclared is the height from the page header.
	RowsDeclared int
	// RowsRead is the number of rows taken from the row source and processed.
	RowsRead int
	// RowsEncoded is the number of rows whose content was sent to the printer.
	RowsEncoded int
	// RowsBlank is the number of blank rows that were left out.
	RowsBlank int
	// RowsRepeated is the number of rows sent as a repeat marker.
	RowsRepeated int
	// FeedCommands is the number of "advance N rows" commands sent.
	FeedCommands int
	// BytesWritten counts everything written for the page, including the
	// setup and finalization commands.
	BytesWritten int64
	// Truncated is set if the row source ran out before RowsDeclared rows.
	Truncated bool
	// Canceled is set if the page was cut short by the cancel flag.
	Canceled bool

	encoded   bitmap.Bitmap
	sourceErr error
}

func newPageSummary(number, height int) PageSummary {
	return PageSummary{
		Number:       number,
		RowsDeclared: height,
		encoded:      bitmap.New(height),
	}
}

// RowEncoded returns true if the content of row `y` was sent to the printer.
// Skipped and repeated rows return false.
func (summary *PageSummary) RowEncoded(y int) bool {
	if y < 0 || y >= summary.RowsDeclared || summary.encoded == nil {
		return false
	}
	return summary.encoded.Get(y)
}

func (summary *PageSummary) markEncoded(y int) {
	summary.RowsEncoded++
	summary.encoded.Set(y, true)
}
