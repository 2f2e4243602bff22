package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const maxPackBitsRun = 128

// EncodePackBits compresses `input` with PackBits (PCL compression mode 2) and
// writes it to `output`. The return value is the number of bytes written.
func EncodePackBits(input []byte, output io.Writer) (int, error) {
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
		err := write([]byte{byte(literalLength - 1)})
		if err == nil {
			err = write(input[literalStart : literalStart+literalLength])
		}
		literalLength = 0
		return err
	}

	addLiteral := func(offset int) error {
		if literalLength == 0 {
			literalStart = offset
		}
		literalLength++
		if literalLength == maxPackBitsRun {
			return flushLiteral()
		}
		return nil
	}

	for {
		run, ok := grouper.NextRun()
		if !ok {
			break
		}

		remaining := run.RunLength
		if remaining >= 2 {
			if err := flushLiteral(); err != nil {
				return totalBytesWritten, err
			}
		}

		for remaining >= 2 {
			count := remaining
			if count > maxPackBitsRun {
				count = maxPackBitsRun
			}
			if err := write([]byte{byte(257 - count), run.Byte}); err != nil {
				return totalBytesWritten, err
			}
			remaining -= count
		}

		// A lone byte, or the odd byte left over from splitting a long run.
		if remaining == 1 {
			if err := addLiteral(run.Offset + run.RunLength - 1); err != nil {
				return totalBytesWritten, err
			}
		}
	}

	return totalBytesWritten, flushLiteral()
}

// DecodePackBits expands PackBits data from `input`.
func DecodePackBits(input io.Reader, output io.Writer) (int64, error) {
	source := bufio.NewReader(input)
	totalBytesWritten := int64(0)

	for {
		header, err := source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return totalBytesWritten, nil
			}
			return totalBytesWritten, fmt.Errorf("error reading input: %w", err)
		}

		var currentOutput []byte
		switch {
		case header < 128:
			currentOutput = make([]byte, int(header)+1)
			if _, err := io.ReadFull(source, currentOutput); err != nil {
				return totalBytesWritten, truncatedToken(err, header)
			}
		case header > 128:
			value, err := source.ReadByte()
			if err != nil {
				return totalBytesWritten, truncatedToken(err, header)
			}
			currentOutput = bytes.Repeat([]byte{value}, 257-int(header))
		default:
			continue
		}

		n, err := output.Write(currentOutput)
		totalBytesWritten += int64(n)
		if err != nil {
			return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}
}
