package dialects

import (
	"io"

	"github.com/dargueta/labelraster"
	"github.com/dargueta/labelraster/dialects/common"
	"github.com/dargueta/labelraster/utilities/compression"
)

// PanelsPerCard is the number of raster pages that make up one card on the
// P330i: yellow, magenta and cyan panels followed by black.
const PanelsPerCard = 4

// EPCL for the Zebra P330i card printer. Each page of the job is one colour
// panel; the card is only printed once its last panel has been downloaded.
type epclDialect struct {
	baseDialect
}

func (epclDialect) Model() labelraster.Model {
	return labelraster.ZebraEPCL
}

func (epclDialect) Policy() common.Policy {
	return common.Policy{SkipBlank: true}
}

func (epclDialect) StartJob(w io.Writer) error {
	cw := newCommandWriter(w)
	// Eject any card left in the print path.
	cw.printf("\033MC\r\n")
	return cw.done()
}

// Panel returns the colour panel index [0, PanelsPerCard) of a page.
func Panel(pageNumber int) int {
	return (pageNumber - 1) % PanelsPerCard
}

func (epclDialect) StartPage(w io.Writer, page *common.PageState) error {
	cw := newCommandWriter(w)
	// Clear the varnish, black, and colour buffers.
	cw.printf("\033vF\r")
	cw.printf("\033F\r\n")
	cw.printf("\033$F\r\n")
	return cw.done()
}

func (epclDialect) EncodeRow(w io.Writer, page *common.PageState, y int) error {
	data, err := compressRow(page, compression.EncodeRunLength)
	if err != nil {
		return err
	}

	cw := newCommandWriter(w)
	cw.printf("\033GS %d %d %d ", Panel(page.Number), y, len(data))
	cw.write(data)
	cw.printf("\r")
	return cw.done()
}

func (epclDialect) EndPage(w io.Writer, page *common.PageState, canceled bool) error {
	if Panel(page.Number) != PanelsPerCard-1 {
		return nil
	}

	cw := newCommandWriter(w)
	cw.printf("\033M %d IS 0[IS 1[IS 2[I[IV 1\r", page.Header.NumCopies())
	return cw.done()
}
