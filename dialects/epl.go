package dialects

import (
	"fmt"
	"io"

	"github.com/dargueta/labelraster"
	"github.com/dargueta/labelraster/dialects/common"
)

// maxEPLLineBytes is the longest row that fits the three-digit length field of
// the EPL line mode graphics command.
const maxEPLLineBytes = 999

// EPL line mode sends every row as-is, blank or not.
type eplLineDialect struct {
	baseDialect
}

func (eplLineDialect) Model() labelraster.Model {
	return labelraster.ZebraEPLLine
}

func (eplLineDialect) StartPage(w io.Writer, page *common.PageState) error {
	if page.Rows.RowLength() > maxEPLLineBytes {
		return labelraster.ErrAllocation.WithMessage(
			fmt.Sprintf(
				"EPL line mode rows are at most %d bytes, got %d",
				maxEPLLineBytes,
				page.Rows.RowLength(),
			),
		)
	}

	cw := newCommandWriter(w)
	if darkness, ok := page.Header.ScaledDarkness(7); ok {
		cw.printf("\033D%d", darkness)
	}
	// Left margin 0, then start buffered output.
	cw.printf("\033M01")
	cw.printf("\033B")
	return cw.done()
}

func (eplLineDialect) EncodeRow(w io.Writer, page *common.PageState, y int) error {
	cw := newCommandWriter(w)
	cw.printf("\033g%03d", page.Rows.RowLength())
	cw.write(page.Rows.Current())
	return cw.done()
}

func (eplLineDialect) EndPage(w io.Writer, page *common.PageState, canceled bool) error {
	cw := newCommandWriter(w)
	// End buffered output and eject the label.
	cw.printf("\033E\014")
	return cw.done()
}

// -----------------------------------------------------------------------------

// EPL page mode addresses every row by its position, so blank rows can simply
// be left out. The printer's bitmap polarity is the inverse of the raster's.
type eplPageDialect struct {
	baseDialect
}

func (eplPageDialect) Model() labelraster.Model {
	return labelraster.ZebraEPLPage
}

func (eplPageDialect) Policy() common.Policy {
	return common.Policy{SkipBlank: true}
}

func (eplPageDialect) StartPage(w io.Writer, page *common.PageState) error {
	cw := newCommandWriter(w)
	cw.printf("\nN\n")
	if page.Header.MediaType == "Direct" {
		cw.printf("OD\n")
	}
	if darkness, ok := page.Header.ScaledDarkness(15); ok {
		cw.printf("D%d\n", darkness)
	}
	cw.printf("q%d\n", (page.Header.DotWidth()+7)&^7)
	return cw.done()
}

func (eplPageDialect) EncodeRow(w io.Writer, page *common.PageState, y int) error {
	row := page.Rows.Current()
	inverted := page.Scratch[:len(row)]
	for i, b := range row {
		inverted[i] = ^b
	}

	cw := newCommandWriter(w)
	cw.printf("GW0,%d,%d,1\n", y, len(row))
	cw.write(inverted)
	cw.printf("\n")
	return cw.done()
}

func (eplPageDialect) EndPage(w io.Writer, page *common.PageState, canceled bool) error {
	cw := newCommandWriter(w)
	cw.printf("P%d\n", page.Header.NumCopies())
	return cw.done()
}
