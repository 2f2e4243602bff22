// Package common contains the per-page state shared by all printer dialects:
// the scanline buffers, the compression scratch space, and the change detector
// that decides whether a row has to be sent at all.
package common

import (
	"fmt"

	"github.com/dargueta/labelraster"
)

// ScanlineBuffer holds the current row of a page and a copy of the previous
// row for comparison.
type ScanlineBuffer struct {
	current      []byte
	previous     []byte
	historyValid bool
}

// NewScanlineBuffer creates a buffer for rows of exactly `rowLength` bytes.
// History starts out invalid.
func NewScanlineBuffer(rowLength int) *ScanlineBuffer {
	return &ScanlineBuffer{
		current:  make([]byte, rowLength),
		previous: make([]byte, rowLength),
	}
}

// RowLength returns the fixed length of a row, in bytes.
func (buffer *ScanlineBuffer) RowLength() int {
	return len(buffer.current)
}

// Load copies `row` into the current row. A row of the wrong length fails with
// [labelraster.ErrRowLength] and leaves the buffer unmodified.
func (buffer *ScanlineBuffer) Load(row []byte) error {
	if len(row) != len(buffer.current) {
		return labelraster.ErrRowLength.WithMessage(
			fmt.Sprintf("expected %d bytes, got %d", len(buffer.current), len(row)))
	}
	copy(buffer.current, row)
	return nil
}

// Current returns the row most recently passed to Load. The slice is owned by
// the buffer and is overwritten by the next call to Load.
func (buffer *ScanlineBuffer) Current() []byte {
	return buffer.current
}

// Previous returns the last committed row. The second return value is false if
// no row has been committed since the buffer was created or reset.
func (buffer *ScanlineBuffer) Previous() ([]byte, bool) {
	if !buffer.historyValid {
		return nil, false
	}
	return buffer.previous, true
}

// CommitHistory copies the current row into the previous row and marks the
// history as valid.
func (buffer *ScanlineBuffer) CommitHistory() {
	copy(buffer.previous, buffer.current)
	buffer.historyValid = true
}

// InvalidateHistory marks the previous row as untrustworthy without touching
// the current row.
func (buffer *ScanlineBuffer) InvalidateHistory() {
	buffer.historyValid = false
}

// Reset clears both rows and invalidates the history.
func (buffer *ScanlineBuffer) Reset() {
	for i := range buffer.current {
		buffer.current[i] = 0
		buffer.previous[i] = 0
	}
	buffer.historyValid = false
}
