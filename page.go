package labelraster

import "fmt"

// MaxBytesPerLine is the largest row length the encoder will allocate buffers
// for. The widest supported printers are well under 1,000 bytes per row, so
// anything larger is almost certainly a corrupt page header.
const MaxBytesPerLine = 0xffff

// MaxHeight is the largest number of rows a page may declare. At 600 dpi this
// is over 40 meters of media.
const MaxHeight = 1 << 20

// PageHeader describes the geometry and print settings of one page. It holds
// the subset of the CUPS raster page header that the printer dialects use.
type PageHeader struct {
	// BytesPerLine is the fixed length of every scanline on the page.
	BytesPerLine int
	// Width is the width of the page in dots.
	Width int
	// Height is the declared number of scanlines on the page.
	Height int
	// Resolution is the horizontal and vertical resolution, in dots per inch.
	Resolution [2]int
	// Copies is the number of copies to print. Values less than 1 are treated
	// as 1.
	Copies int
	// Darkness is the print darkness as a percentage. 0 means the printer
	// default.
	Darkness int
	// MediaType is the CUPS media type, e.g. "Direct" or "Thermal".
	MediaType string
}

// Validate checks that buffers can be sized for the header. Failures wrap
// [ErrAllocation].
func (h PageHeader) Validate() error {
	if h.BytesPerLine <= 0 || h.BytesPerLine > MaxBytesPerLine {
		return ErrAllocation.WithMessage(
			fmt.Sprintf(
				"bytes per line must be in [1, %d], got %d",
				MaxBytesPerLine,
				h.BytesPerLine,
			),
		)
	}
	if h.Height <= 0 || h.Height > MaxHeight {
		return ErrAllocation.WithMessage(
			fmt.Sprintf("page height must be in [1, %d], got %d", MaxHeight, h.Height))
	}
	if h.Width < 0 || h.Width > h.BytesPerLine*8 {
		return ErrAllocation.WithMessage(
			fmt.Sprintf(
				"page width %d doesn't fit in %d bytes per line",
				h.Width,
				h.BytesPerLine,
			),
		)
	}
	return nil
}

// NumCopies returns the number of copies, never less than 1.
func (h PageHeader) NumCopies() int {
	if h.Copies < 1 {
		return 1
	}
	return h.Copies
}

// DotWidth returns the page width in dots. If Width is unset, it's derived from
// the row length.
func (h PageHeader) DotWidth() int {
	if h.Width > 0 {
		return h.Width
	}
	return h.BytesPerLine * 8
}

// ScaledDarkness maps Darkness onto a printer's own darkness range [0, max].
// The second return value is false if the printer default should be used.
func (h PageHeader) ScaledDarkness(max int) (int, bool) {
	if h.Darkness <= 0 || h.Darkness > 100 {
		return 0, false
	}
	return max * h.Darkness / 100, true
}
