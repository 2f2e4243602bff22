package dialects

import (
	"io"

	"github.com/dargueta/labelraster"
	"github.com/dargueta/labelraster/dialects/common"
	"github.com/dargueta/labelraster/utilities/compression"
)

// PCL raster graphics with PackBits (mode 2) compression. Runs of blank rows
// become a single vertical move.
type pclDialect struct {
	baseDialect
}

func (pclDialect) Model() labelraster.Model {
	return labelraster.IntellitechPCL
}

func (pclDialect) Policy() common.Policy {
	return common.Policy{SkipBlank: true, FeedBlank: true}
}

func (pclDialect) StartPage(w io.Writer, page *common.PageState) error {
	header := page.Header
	cw := newCommandWriter(w)
	cw.printf("\033E")
	cw.printf("\033*t%dR", header.Resolution[0])
	cw.printf("\033*r%dS", header.DotWidth())
	cw.printf("\033*r%dT", header.Height)
	cw.printf("\033&a0H")
	cw.printf("\033&a0V")
	cw.printf("\033*r1A")
	cw.printf("\033*b2M")
	return cw.done()
}

func (pclDialect) Feed(w io.Writer, page *common.PageState, rows int) error {
	cw := newCommandWriter(w)
	cw.printf("\033*b%dY", rows)
	return cw.done()
}

func (pclDialect) EncodeRow(w io.Writer, page *common.PageState, y int) error {
	data, err := compressRow(page, compression.EncodePackBits)
	if err != nil {
		return err
	}

	cw := newCommandWriter(w)
	cw.printf("\033*b%dW", len(data))
	cw.write(data)
	return cw.done()
}

func (pclDialect) EndPage(w io.Writer, page *common.PageState, canceled bool) error {
	cw := newCommandWriter(w)
	// End graphics, then eject the page.
	cw.printf("\033*rB")
	cw.printf("\033\014")
	return cw.done()
}
