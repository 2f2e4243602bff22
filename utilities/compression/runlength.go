package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/labelraster"
)

// RepeatFlag marks a control byte as a repeat token.
const RepeatFlag = 0x80

// MaxRepeatRun is the longest run a single repeat token can encode.
const MaxRepeatRun = 127

// MaxLiteralRun is the longest run a single literal token can encode.
const MaxLiteralRun = 31

// MaxRunLengthSize returns the largest possible size of the output of
// [EncodeRunLength] for an input of `inputLength` bytes.
func MaxRunLengthSize(inputLength int) int {
	return 2*inputLength + 1
}

// EncodeRunLength compresses `input` with the card printer run-length scheme
// and writes the tokens to `output`. The return value is the number of bytes
// written, only valid if no error occurred.
//
// Repeated bytes always become repeat tokens and isolated bytes always become
// literal tokens; the two kinds are never merged.
func EncodeRunLength(input []byte, output io.Writer) (int, error) {
	grouper := NewRunLengthGrouper(input)
	totalBytesWritten := 0
	literalStart := 0
	literalLength := 0

	write := func(data []byte) error {
		n, err := output.Write(data)
		totalBytesWritten += n
		return err
	}

	flushLiteral := func() error {
		if literalLength == 0 {
			return nil
		}
		err := write([]byte{byte(literalLength)})
		if err == nil {
			err = write(input[literalStart : literalStart+literalLength])
		}
		literalLength = 0
		return err
	}

	for {
		run, ok := grouper.NextRun()
		if !ok {
			break
		}

		if run.RunLength == 1 {
			if literalLength == 0 {
				literalStart = run.Offset
			}
			literalLength++
			if literalLength == MaxLiteralRun {
				if err := flushLiteral(); err != nil {
					return totalBytesWritten, err
				}
			}
			continue
		}

		if err := flushLiteral(); err != nil {
			return totalBytesWritten, err
		}

		// Runs longer than MaxRepeatRun are split. A leftover single byte still
		// goes out as a repeat token with a length of 1.
		for remaining := run.RunLength; remaining > 0; {
			count := remaining
			if count > MaxRepeatRun {
				count = MaxRepeatRun
			}
			err := write([]byte{RepeatFlag | byte(count-1), run.Byte})
			if err != nil {
				return totalBytesWritten, err
			}
			remaining -= count
		}
	}

	return totalBytesWritten, flushLiteral()
}

// DecodeRunLength expands a stream produced by [EncodeRunLength]. The returned
// int64 gives the number of bytes written to the output.
func DecodeRunLength(input io.Reader, output io.Writer) (int64, error) {
	source := bufio.NewReader(input)
	totalBytesWritten := int64(0)

	for {
		control, err := source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return totalBytesWritten, nil
			}
			return totalBytesWritten, fmt.Errorf("error reading input: %w", err)
		}

		var currentOutput []byte
		if control&RepeatFlag != 0 {
			value, err := source.ReadByte()
			if err != nil {
				return totalBytesWritten, truncatedToken(err, control)
			}
			currentOutput = bytes.Repeat([]byte{value}, int(control&^RepeatFlag)+1)
		} else {
			if control > MaxLiteralRun {
				return totalBytesWritten, labelraster.ErrCorruptStream.WithMessage(
					fmt.Sprintf("literal run of %d bytes exceeds %d", control, MaxLiteralRun))
			}
			currentOutput = make([]byte, control)
			if _, err := io.ReadFull(source, currentOutput); err != nil {
				return totalBytesWritten, truncatedToken(err, control)
			}
		}

		n, err := output.Write(currentOutput)
		totalBytesWritten += int64(n)
		if err != nil {
			return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}
}

func truncatedToken(err error, control byte) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return labelraster.ErrCorruptStream.WithMessage(
		fmt.Sprintf("missing data after control byte %02x", control),
	).Wrap(err)
}

// DecodeRunLengthToBytes is a convenience wrapper around [DecodeRunLength] that
// returns the expanded data in a new byte slice.
func DecodeRunLengthToBytes(compressed []byte) ([]byte, error) {
	var buffer bytes.Buffer
	_, err := DecodeRunLength(bytes.NewReader(compressed), &buffer)
	return buffer.Bytes(), err
}
