package dialects

import (
	"io"

	"github.com/dargueta/labelraster"
	"github.com/dargueta/labelraster/dialects/common"
)

type cpclDialect struct {
	baseDialect
}

func (cpclDialect) Model() labelraster.Model {
	return labelraster.ZebraCPCL
}

func (cpclDialect) Policy() common.Policy {
	return common.Policy{SkipBlank: true}
}

func (cpclDialect) StartPage(w io.Writer, page *common.PageState) error {
	header := page.Header
	cw := newCommandWriter(w)
	cw.printf(
		"! 0 %d %d %d %d\r\n",
		header.Resolution[0],
		header.Resolution[1],
		header.Height,
		header.NumCopies(),
	)
	cw.printf("PAGE-WIDTH %d\r\n", header.DotWidth())
	cw.printf("PAGE-HEIGHT %d\r\n", header.Height)
	return cw.done()
}

func (cpclDialect) EncodeRow(w io.Writer, page *common.PageState, y int) error {
	cw := newCommandWriter(w)
	cw.printf("CG %d 1 0 %d ", page.Rows.RowLength(), y)
	cw.write(page.Rows.Current())
	cw.printf("\r\n")
	return cw.done()
}

func (cpclDialect) EndPage(w io.Writer, page *common.PageState, canceled bool) error {
	cw := newCommandWriter(w)
	cw.printf("FORM\r\n")
	cw.printf("PRINT\r\n")
	return cw.done()
}
