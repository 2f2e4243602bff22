// Package dialects implements the printer command languages. Each supported
// [labelraster.Model] has exactly one [Dialect], chosen once per job.
package dialects

import (
	"fmt"
	"io"

	"github.com/dargueta/labelraster"
	"github.com/dargueta/labelraster/dialects/common"
	"github.com/noxer/bytewriter"
)

// Dialect encodes pages for one printer command language. The encoder calls
// the methods in this order for every page: StartPage, then one of EncodeRow,
// RepeatRow, or Feed as rows come in, then EndPage.
type Dialect interface {
	Model() labelraster.Model
	// Policy tells the change detector which rows can be left out.
	Policy() common.Policy
	// StartJob writes anything the printer needs once before the first page.
	StartJob(w io.Writer) error
	StartPage(w io.Writer, page *common.PageState) error
	// EncodeRow writes the current row of `page`, which is row `y` of the page.
	EncodeRow(w io.Writer, page *common.PageState, y int) error
	// RepeatRow tells the printer to repeat the previous row. Only called if
	// the policy sets SkipRepeat.
	RepeatRow(w io.Writer, page *common.PageState) error
	// Feed advances the paper by `rows` blank rows. Only called if the policy
	// sets FeedBlank.
	Feed(w io.Writer, page *common.PageState, rows int) error
	// EndPage finalizes the page. If `canceled` is true the job is being
	// canceled and this is the last page.
	EndPage(w io.Writer, page *common.PageState, canceled bool) error
	EndJob(w io.Writer) error
}

// New returns the dialect for a printer model. Unknown models fail with
// [labelraster.ErrConfiguration].
func New(model labelraster.Model) (Dialect, error) {
	switch model {
	case labelraster.ZebraEPLLine:
		return eplLineDialect{}, nil
	case labelraster.ZebraEPLPage:
		return eplPageDialect{}, nil
	case labelraster.ZebraZPL:
		return zplDialect{}, nil
	case labelraster.ZebraCPCL:
		return cpclDialect{}, nil
	case labelraster.IntellitechPCL:
		return pclDialect{}, nil
	case labelraster.ZebraEPCL:
		return epclDialect{}, nil
	}
	return nil, labelraster.ErrConfiguration.WithMessage(
		fmt.Sprintf("no dialect for model %s", model))
}

// -----------------------------------------------------------------------------

// baseDialect provides defaults for the optional parts of [Dialect].
type baseDialect struct{}

func (baseDialect) Policy() common.Policy {
	return common.Policy{}
}

func (baseDialect) StartJob(w io.Writer) error {
	return nil
}

func (baseDialect) EndJob(w io.Writer) error {
	return nil
}

func (baseDialect) RepeatRow(w io.Writer, page *common.PageState) error {
	return labelraster.ErrInvalidState.WithMessage("dialect can't repeat rows")
}

func (baseDialect) Feed(w io.Writer, page *common.PageState, rows int) error {
	return labelraster.ErrInvalidState.WithMessage("dialect can't feed blank rows")
}

// -----------------------------------------------------------------------------

// commandWriter remembers the first write error so a command sequence can be
// written without checking every call.
type commandWriter struct {
	w   io.Writer
	err error
}

func newCommandWriter(w io.Writer) *commandWriter {
	return &commandWriter{w: w}
}

func (cw *commandWriter) printf(format string, args ...interface{}) {
	if cw.err == nil {
		_, cw.err = fmt.Fprintf(cw.w, format, args...)
	}
}

func (cw *commandWriter) write(data []byte) {
	if cw.err == nil {
		_, cw.err = cw.w.Write(data)
	}
}

func (cw *commandWriter) done() error {
	if cw.err != nil {
		return labelraster.ErrOutputFailed.Wrap(cw.err)
	}
	return nil
}

type encodeFunc func(input []byte, output io.Writer) (int, error)

// compressRow encodes the current row into the page's scratch buffer and
// returns the encoded bytes. The result is only valid until the next row.
func compressRow(page *common.PageState, encode encodeFunc) ([]byte, error) {
	n, err := encode(page.Rows.Current(), bytewriter.New(page.Scratch))
	if err != nil {
		return nil, labelraster.ErrScratchOverflow.Wrap(err)
	}
	return page.Scratch[:n], nil
}
