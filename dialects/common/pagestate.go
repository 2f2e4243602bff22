package common

import (
	"github.com/dargueta/labelraster"
	"github.com/dargueta/labelraster/utilities/compression"
)

// PageState is all the mutable state of one page. It's created when the page
// opens and released when it closes; nothing in it survives to the next page.
type PageState struct {
	Header labelraster.PageHeader
	// Number is the 1-based index of the page within the job.
	Number int
	Rows   *ScanlineBuffer
	// Scratch is sized for the worst-case expansion of one row by any of the
	// codecs. It's only valid for the duration of a single row.
	Scratch []byte
	// PendingFeed is the number of blank rows skipped since the last row that
	// was sent. It's always zero for dialects that don't feed blank rows.
	PendingFeed int
}

// NewPageState validates the header and allocates the buffers for one page.
// Failures wrap [labelraster.ErrAllocation].
func NewPageState(header labelraster.PageHeader, number int) (*PageState, error) {
	err := header.Validate()
	if err != nil {
		return nil, err
	}

	return &PageState{
		Header:  header,
		Number:  number,
		Rows:    NewScanlineBuffer(header.BytesPerLine),
		Scratch: make([]byte, compression.MaxRunLengthSize(header.BytesPerLine)),
	}, nil
}

// TakePendingFeed returns the pending feed count and resets it to zero.
func (page *PageState) TakePendingFeed() int {
	feed := page.PendingFeed
	page.PendingFeed = 0
	return feed
}

// Release drops the page buffers. The state must not be used afterwards.
func (page *PageState) Release() {
	page.Rows = nil
	page.Scratch = nil
	page.PendingFeed = 0
}
