package dialects

import (
	"errors"
	"io"

	"github.com/dargueta/labelraster"
	"github.com/dargueta/labelraster/dialects/common"
	"github.com/dargueta/labelraster/utilities/compression"
)

// graphicName is the printer-side name of the downloaded page image.
const graphicName = "R:CUPS.GRF"

// ZPL downloads the page as a hex-encoded graphic, then prints it from a
// label format. Repeated rows collapse to a single marker.
type zplDialect struct {
	baseDialect
}

func (zplDialect) Model() labelraster.Model {
	return labelraster.ZebraZPL
}

func (zplDialect) Policy() common.Policy {
	return common.Policy{SkipRepeat: true}
}

func (zplDialect) StartPage(w io.Writer, page *common.PageState) error {
	header := page.Header
	cw := newCommandWriter(w)
	if darkness, ok := header.ScaledDarkness(30); ok {
		cw.printf("~SD%02d\n", darkness)
	}
	cw.printf(
		"~DG%s,%d,%d,\n",
		graphicName,
		int64(header.Height)*int64(header.BytesPerLine),
		header.BytesPerLine,
	)
	return cw.done()
}

func (zplDialect) EncodeRow(w io.Writer, page *common.PageState, y int) error {
	_, err := compression.EncodeHexRLE(page.Rows.Current(), page.Scratch, w)
	if err != nil {
		if errors.Is(err, labelraster.ErrScratchOverflow) {
			return err
		}
		return labelraster.ErrOutputFailed.Wrap(err)
	}
	return nil
}

func (zplDialect) RepeatRow(w io.Writer, page *common.PageState) error {
	cw := newCommandWriter(w)
	cw.write([]byte{compression.RepeatRowMarker})
	return cw.done()
}

func (zplDialect) EndPage(w io.Writer, page *common.PageState, canceled bool) error {
	header := page.Header
	cw := newCommandWriter(w)
	if canceled {
		// Abort the graphic download.
		cw.printf("~DN\n")
		return cw.done()
	}

	cw.printf("^XA\n")
	cw.printf("^PW%d\n", header.DotWidth())
	cw.printf("^LL%d\n", header.Height)
	cw.printf("^PQ%d, 0, 0, N\n", header.NumCopies())
	cw.printf("^FO0,0^XG%s,1,1^FS\n", graphicName)
	// Delete the graphic once it's printed.
	cw.printf("^ID%s^FS\n", graphicName)
	cw.printf("^XZ\n")
	return cw.done()
}
