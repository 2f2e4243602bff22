package compression

import (
	"fmt"
	"io"

	"github.com/dargueta/labelraster"
)

const hexDigits = "0123456789ABCDEF"

// ZPL row control characters.
const (
	// RepeatRowMarker tells the printer to copy the previous row.
	RepeatRowMarker = ':'
	// ZeroFillMarker fills the rest of the row with zero digits.
	ZeroFillMarker = ','
	// OneFillMarker fills the rest of the row with F digits.
	OneFillMarker = '!'
)

// MaxHexRLEScratchSize returns the size of the scratch buffer [EncodeHexRLE]
// needs for a row of `rowLength` bytes.
func MaxHexRLEScratchSize(rowLength int) int {
	return 2*rowLength + 1
}

// ExpandHex writes two uppercase hex digits per input byte into `scratch`,
// followed by a NUL byte, and returns the digits (without the NUL). `scratch`
// must hold at least [MaxHexRLEScratchSize] bytes.
func ExpandHex(row, scratch []byte) ([]byte, error) {
	needed := MaxHexRLEScratchSize(len(row))
	if len(scratch) < needed {
		return nil, labelraster.ErrScratchOverflow.WithMessage(
			fmt.Sprintf(
				"hex expansion of %d bytes needs %d bytes of scratch, have %d",
				len(row),
				needed,
				len(scratch),
			),
		)
	}

	for i, b := range row {
		scratch[2*i] = hexDigits[b>>4]
		scratch[2*i+1] = hexDigits[b&15]
	}
	scratch[2*len(row)] = 0
	return scratch[:2*len(row)], nil
}

// AppendZPLRun appends the ZPL encoding of `count` copies of the hex digit
// `digit` to `dst`.
func AppendZPLRun(dst []byte, digit byte, count int) []byte {
	if count > 1 {
		for count >= 400 {
			dst = append(dst, 'z')
			count -= 400
		}
		if count >= 20 {
			dst = append(dst, byte('f'+count/20))
			count %= 20
		}
		if count > 0 {
			dst = append(dst, byte('F'+count))
		}
	}
	return append(dst, digit)
}

// EncodeHexRLE writes the ZPL hex run-length encoding of one row to `output`,
// using `scratch` for the nibble expansion. It returns the number of bytes
// written.
//
// A trailing run of zero digits isn't written out in full. If it has an odd
// length one literal 0 is written first, so the fill marker that follows
// always starts on a byte boundary.
func EncodeHexRLE(row, scratch []byte, output io.Writer) (int, error) {
	hex, err := ExpandHex(row, scratch)
	if err != nil {
		return 0, err
	}

	encoded := make([]byte, 0, len(hex)+1)
	grouper := NewRunLengthGrouper(hex)
	pending, ok := grouper.NextRun()
	for ok {
		var next ByteRun
		next, ok = grouper.NextRun()
		if ok {
			encoded = AppendZPLRun(encoded, pending.Byte, pending.RunLength)
			pending = next
		}
	}

	if pending.RunLength > 0 {
		if pending.Byte == '0' {
			count := pending.RunLength
			if count&1 != 0 {
				count--
				encoded = append(encoded, '0')
			}
			if count > 0 {
				encoded = append(encoded, ZeroFillMarker)
			}
		} else {
			encoded = AppendZPLRun(encoded, pending.Byte, pending.RunLength)
		}
	}

	return output.Write(encoded)
}

// DecodeHexRLE expands a sequence of ZPL-encoded rows, each `rowLength` bytes
// long once decoded. Rows are delimited only by their length and by the
// fill and repeat markers, exactly as the printer sees them.
func DecodeHexRLE(data []byte, rowLength int) ([][]byte, error) {
	rowDigits := 2 * rowLength
	rows := [][]byte{}
	current := make([]byte, 0, rowDigits)
	count := 0

	finishRow := func() {
		row := make([]byte, rowLength)
		for i := range row {
			row[i] = hexValue(current[2*i])<<4 | hexValue(current[2*i+1])
		}
		rows = append(rows, row)
		current = current[:0]
	}

	fill := func(digit byte) {
		for len(current) < rowDigits {
			current = append(current, digit)
		}
		finishRow()
	}

	for i, c := range data {
		switch {
		case c >= 'G' && c <= 'Y':
			count += int(c - 'F')
		case c >= 'g' && c <= 'z':
			count += 20 * int(c - 'f')
		case c == RepeatRowMarker:
			if len(current) != 0 || len(rows) == 0 || count != 0 {
				return rows, labelraster.ErrCorruptStream.WithMessage(
					fmt.Sprintf("unexpected repeat marker at offset %d", i))
			}
			previous := rows[len(rows)-1]
			rows = append(rows, append([]byte(nil), previous...))
		case c == ZeroFillMarker || c == OneFillMarker:
			if count != 0 {
				return rows, labelraster.ErrCorruptStream.WithMessage(
					fmt.Sprintf("count prefix before fill marker at offset %d", i))
			}
			if c == ZeroFillMarker {
				fill('0')
			} else {
				fill('F')
			}
		case hexValue(c) != 0xff:
			if count == 0 {
				count = 1
			}
			if len(current)+count > rowDigits {
				return rows, labelraster.ErrCorruptStream.WithMessage(
					fmt.Sprintf("run at offset %d overflows the row", i))
			}
			for ; count > 0; count-- {
				current = append(current, c)
			}
			if len(current) == rowDigits {
				finishRow()
			}
		default:
			return rows, labelraster.ErrCorruptStream.WithMessage(
				fmt.Sprintf("invalid character %q at offset %d", c, i))
		}
	}

	if len(current) != 0 || count != 0 {
		return rows, labelraster.ErrCorruptStream.WithMessage("incomplete final row")
	}
	return rows, nil
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0xff
}
