// Package testing provides fixtures shared by the tests of several packages.
package testing

import (
	"crypto/rand"
	"io"
	"testing"

	"github.com/dargueta/labelraster/encoder"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// LoadRaster concatenates `rows` into a raw raster image and returns a stream
// to read it back from.
//
//   - Every row must have the same length.
//   - Writes to the stream do not affect `rows`.
func LoadRaster(t *testing.T, rows [][]byte) io.ReadWriteSeeker {
	image := []byte{}
	for i, row := range rows {
		require.Lenf(t, row, len(rows[0]), "row %d has the wrong length", i)
		image = append(image, row...)
	}
	return bytesextra.NewReadWriteSeeker(image)
}

// RandomRow returns a row of random bytes that is guaranteed not to be blank.
func RandomRow(t *testing.T, rowLength int) []byte {
	row := make([]byte, rowLength)
	_, err := rand.Read(row)
	require.NoErrorf(t, err, "failed to generate %d random bytes", rowLength)
	row[0] |= 0x80
	return row
}

// FilledRow returns a row with every byte set to `value`.
func FilledRow(rowLength int, value byte) []byte {
	row := make([]byte, rowLength)
	for i := range row {
		row[i] = value
	}
	return row
}

// CancelingSource wraps a row source and sets a cancel flag right after handing
// out row `CancelAfter` (0-based), as if a signal arrived while the encoder was
// working on that row.
type CancelingSource struct {
	Source      encoder.RowSource
	Flag        *encoder.CancelFlag
	CancelAfter int
	served      int
}

func (source *CancelingSource) NextRow() ([]byte, error) {
	row, err := source.Source.NextRow()
	if err == nil {
		if source.served == source.CancelAfter {
			source.Flag.Cancel()
		}
		source.served++
	}
	return row, err
}

// RowsServed returns the number of rows handed out so far.
func (source *CancelingSource) RowsServed() int {
	return source.served
}
