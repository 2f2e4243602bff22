// Package encoder turns pages of scanlines into a printer command stream.
//
// An [Encoder] drives one [dialects.Dialect] for a whole job. Pages are encoded
// one at a time, rows strictly in order, and every row is either fully
// written or not written at all.
package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/dargueta/labelraster"
	"github.com/dargueta/labelraster/dialects"
	"github.com/dargueta/labelraster/dialects/common"
)

// State is the position of the encoder in the page lifecycle.
type State int

const (
	Idle State = iota
	PageOpen
	RowStreaming
	PageClosed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PageOpen:
		return "page-open"
	case RowStreaming:
		return "row-streaming"
	case PageClosed:
		return "page-closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// progressInterval is how often, in rows, page progress is logged.
const progressInterval = 16

// Option configures an [Encoder].
type Option func(*Encoder)

// WithLogger sends progress and diagnostic messages to `logger`. Messages use
// the CUPS filter prefixes DEBUG:, INFO: and WARNING:.
func WithLogger(logger *log.Logger) Option {
	return func(e *Encoder) {
		e.logger = logger
	}
}

// WithCancelFlag makes the encoder stop at the next row boundary once `flag`
// is set.
func WithCancelFlag(flag *CancelFlag) Option {
	return func(e *Encoder) {
		e.cancel = flag
	}
}

// Encoder writes a print job for one printer model.
type Encoder struct {
	dialect    dialects.Dialect
	detector   common.ChangeDetector
	sink       *countingWriter
	logger     *log.Logger
	cancel     *CancelFlag
	state      State
	pages      int
	jobStarted bool
	jobEnded   bool
}

// New creates an encoder that writes to `sink` using the command language of
// `model`. An unsupported model fails with [labelraster.ErrConfiguration]
// before anything is written.
func New(model labelraster.Model, sink io.Writer, options ...Option) (*Encoder, error) {
	dialect, err := dialects.New(model)
	if err != nil {
		return nil, err
	}

	e := &Encoder{
		dialect:  dialect,
		detector: common.ChangeDetector{Policy: dialect.Policy()},
		sink:     &countingWriter{w: sink},
	}
	for _, option := range options {
		option(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	return e, nil
}

// Model returns the printer model the encoder was created for.
func (e *Encoder) Model() labelraster.Model {
	return e.dialect.Model()
}

// State returns the current lifecycle state. Outside of EncodePage this is
// always [Idle].
func (e *Encoder) State() State {
	return e.state
}

// PagesEncoded returns the number of pages that have been opened so far.
func (e *Encoder) PagesEncoded() int {
	return e.pages
}

// Canceled returns true if the cancel flag has been set.
func (e *Encoder) Canceled() bool {
	return e.cancel.IsSet()
}

// BytesWritten returns the total number of bytes written to the sink.
func (e *Encoder) BytesWritten() int64 {
	return e.sink.n
}

// StartJob writes the job preamble. EncodePage calls it automatically if it
// hasn't been called yet.
func (e *Encoder) StartJob() error {
	if e.jobEnded {
		return labelraster.ErrInvalidState.WithMessage("job already ended")
	}
	if e.jobStarted {
		return nil
	}
	e.jobStarted = true
	return e.dialect.StartJob(e.sink)
}

// EndJob writes the job trailer. No more pages can be encoded afterwards.
func (e *Encoder) EndJob() error {
	if e.state != Idle {
		return labelraster.ErrInvalidState.WithMessage(
			fmt.Sprintf("can't end job in state %s", e.state))
	}
	if e.jobEnded {
		return nil
	}
	e.jobEnded = true

	if e.pages == 0 {
		e.logger.Printf("ERROR: No pages found!")
	} else {
		e.logger.Printf("INFO: Ready to print.")
	}
	return e.dialect.EndJob(e.sink)
}

// EncodePage reads up to `header.Height` rows from `source` and writes one
// complete page.
//
// If the source runs out early, the page is still finalized and the returned
// error wraps [labelraster.ErrTruncatedPage]; the job can continue with the
// next page. If the cancel flag is set, the page is finalized after the
// current row and the summary has Canceled set; this is not an error. A page
// that can't be allocated fails with [labelraster.ErrAllocation] and the job
// can also continue. Use [labelraster.IsJobFatal] to tell the two kinds of
// failure apart.
func (e *Encoder) EncodePage(
	header labelraster.PageHeader, source RowSource,
) (PageSummary, error) {
	if e.state != Idle {
		return PageSummary{}, labelraster.ErrInvalidState.WithMessage(
			fmt.Sprintf("can't start a page in state %s", e.state))
	}
	if err := e.StartJob(); err != nil {
		return PageSummary{}, err
	}
	if e.cancel.IsSet() {
		return PageSummary{Number: e.pages + 1, Canceled: true}, nil
	}

	page, err := common.NewPageState(header, e.pages+1)
	if err != nil {
		e.logger.Printf("ERROR: page %d: %s", e.pages+1, err.Error())
		return PageSummary{}, err
	}
	e.pages++

	// Whatever happens, the page buffers don't outlive this call.
	defer func() {
		page.Release()
		e.state = Idle
	}()

	summary := newPageSummary(page.Number, header.Height)
	startBytes := e.sink.n

	e.state = PageOpen
	// Page accounting for the CUPS scheduler. Copies are made by the printer,
	// so every page counts once.
	e.logger.Printf("PAGE: %d 1", page.Number)
	e.logger.Printf(
		"DEBUG: StartPage %d: %d bytes per line, %d rows, %d copies",
		page.Number,
		header.BytesPerLine,
		header.Height,
		header.NumCopies(),
	)
	if err := e.dialect.StartPage(e.sink, page); err != nil {
		return summary, err
	}

	e.state = RowStreaming
	if err := e.streamRows(page, source, &summary); err != nil {
		return summary, err
	}

	e.state = PageClosed
	if err := e.closePage(page, &summary); err != nil {
		return summary, err
	}
	summary.BytesWritten = e.sink.n - startBytes

	if summary.Truncated {
		e.logger.Printf(
			"WARNING: page %d truncated after %d of %d rows",
			page.Number,
			summary.RowsRead,
			header.Height,
		)
		truncErr := labelraster.ErrTruncatedPage.WithMessage(
			fmt.Sprintf(
				"page %d has %d of %d rows", page.Number, summary.RowsRead, header.Height))
		if summary.sourceErr != nil && !errors.Is(summary.sourceErr, io.EOF) {
			return summary, truncErr.Wrap(summary.sourceErr)
		}
		return summary, truncErr
	}
	return summary, nil
}

// streamRows runs the RowStreaming state. Running out of rows isn't an error
// here; it's recorded in the summary.
func (e *Encoder) streamRows(
	page *common.PageState, source RowSource, summary *PageSummary,
) error {
	policy := e.detector.Policy
	height := page.Header.Height

	for y := 0; y < height; y++ {
		if e.cancel.IsSet() {
			summary.Canceled = true
			e.logger.Printf("INFO: page %d canceled after %d rows", page.Number, y)
			return nil
		}

		if y%progressInterval == 0 {
			e.logger.Printf(
				"INFO: Printing page %d, %d%% complete...", page.Number, 100*y/height)
		}

		row, readErr := source.NextRow()
		if readErr != nil {
			summary.Truncated = true
			summary.sourceErr = readErr
			return nil
		}
		if err := page.Rows.Load(row); err != nil {
			return err
		}
		summary.RowsRead++

		switch e.detector.Inspect(page.Rows) {
		case common.SkipBlankRow:
			summary.RowsBlank++
			if policy.FeedBlank {
				page.PendingFeed++
			}

		case common.RepeatPrevious:
			summary.RowsRepeated++
			if err := e.dialect.RepeatRow(e.sink, page); err != nil {
				return err
			}

		case common.Emit:
			if err := e.flushFeed(page, summary); err != nil {
				return err
			}
			if err := e.dialect.EncodeRow(e.sink, page, y); err != nil {
				return err
			}
			if policy.SkipRepeat {
				page.Rows.CommitHistory()
			}
			summary.markEncoded(y)
		}
	}
	return nil
}

func (e *Encoder) flushFeed(page *common.PageState, summary *PageSummary) error {
	feed := page.TakePendingFeed()
	if feed == 0 {
		return nil
	}

	e.logger.Printf("DEBUG: page %d: feeding %d blank rows", page.Number, feed)
	summary.FeedCommands++
	// A feed moves the printer past rows it never saw, so the previous row is
	// no longer the one right above.
	page.Rows.InvalidateHistory()
	return e.dialect.Feed(e.sink, page, feed)
}

func (e *Encoder) closePage(page *common.PageState, summary *PageSummary) error {
	if err := e.flushFeed(page, summary); err != nil {
		return err
	}
	if err := e.dialect.EndPage(e.sink, page, summary.Canceled); err != nil {
		return err
	}
	e.logger.Printf(
		"DEBUG: EndPage %d: %d rows read, %d encoded, %d blank, %d repeated",
		page.Number,
		summary.RowsRead,
		summary.RowsEncoded,
		summary.RowsBlank,
		summary.RowsRepeated,
	)
	return nil
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
