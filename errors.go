package labelraster

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// EncoderError is the interface implemented by every error returned from this
// module. The root kinds below can be matched with [errors.Is] no matter how
// many messages or causes have been attached to them.
type EncoderError interface {
	error
	WithMessage(message string) EncoderError
	Wrap(err error) EncoderError
	// Kind returns the error kind this error was derived from, e.g.
	// [ErrTruncatedPage]. Kinds return themselves.
	Kind() EncoderError
}

type baseEncoderError string

const rootError = baseEncoderError("")

// ErrConfiguration is returned for an unsupported or unrecognized printer
// model. It is fatal for the whole job.
var ErrConfiguration = rootError.WithMessage("Unsupported printer model")

// ErrAllocation is returned when the per-page buffers can't be sized for the
// page header. It is fatal for the current page only.
var ErrAllocation = rootError.WithMessage("Cannot allocate page buffers")

// ErrTruncatedPage is returned when the row source ends before the declared
// number of rows. The page has already been finalized when this is returned.
var ErrTruncatedPage = rootError.WithMessage("Page truncated")

var ErrRowLength = rootError.WithMessage("Row length does not match page")
var ErrScratchOverflow = rootError.WithMessage("Compression buffer overflow")
var ErrOutputFailed = rootError.WithMessage("Failed to write printer output")
var ErrInvalidState = rootError.WithMessage("Operation not valid in current state")
var ErrCorruptStream = rootError.WithMessage("Corrupt compressed stream")

// IsJobFatal returns true if `err` must end the whole job. Allocation failures
// and truncated pages only affect the page they happened on, so encoding can
// go on with the next page. Errors that didn't come from this module are
// always fatal.
func IsJobFatal(err error) bool {
	if err == nil {
		return false
	}

	var encoderErr EncoderError
	if !errors.As(err, &encoderErr) {
		return true
	}
	switch encoderErr.Kind() {
	case ErrAllocation, ErrTruncatedPage:
		return false
	}
	return true
}

func (e baseEncoderError) Error() string {
	return string(e)
}

func (e baseEncoderError) Kind() EncoderError {
	return e
}

func (e baseEncoderError) WithMessage(message string) EncoderError {
	return customEncoderError{
		message:       message,
		originalError: e,
	}
}

func (e baseEncoderError) Wrap(err error) EncoderError {
	return customEncoderError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customEncoderError struct {
	message       string
	originalError error
	// kind is nil for the kinds themselves.
	kind EncoderError
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customEncoderError) Error() string {
	return e.message
}

func (e customEncoderError) WithMessage(message string) EncoderError {
	return customEncoderError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
		kind:          e.Kind(),
	}
}

func (e customEncoderError) Wrap(err error) EncoderError {
	return customEncoderError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
		kind:          e.Kind(),
	}
}

func (e customEncoderError) Kind() EncoderError {
	if e.kind == nil {
		return e
	}
	return e.kind
}

func (e customEncoderError) Unwrap() error {
	return e.originalError
}
