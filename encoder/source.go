package encoder

import (
	"errors"
	"io"
)

// RowSource hands the encoder one scanline at a time.
//
// NextRow returns the next row of the page. It returns [io.EOF] once the source
// has no more rows; any other error also ends the page. The returned slice
// only needs to stay valid until the next call.
type RowSource interface {
	NextRow() ([]byte, error)
}

// ReaderSource reads fixed-length rows from a stream of raw scanlines.
type ReaderSource struct {
	reader io.Reader
	row    []byte
}

// NewReaderSource reads rows of `rowLength` bytes from `reader`. Several pages
// can be read from the same reader by creating one source per page.
func NewReaderSource(reader io.Reader, rowLength int) *ReaderSource {
	return &ReaderSource{reader: reader, row: make([]byte, rowLength)}
}

// NextRow reads one row. A partial row at the end of the stream is dropped and
// reported as [io.ErrUnexpectedEOF].
func (source *ReaderSource) NextRow() ([]byte, error) {
	_, err := io.ReadFull(source.reader, source.row)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return source.row, nil
}

// SliceSource serves rows from memory.
type SliceSource struct {
	rows [][]byte
	next int
}

func NewSliceSource(rows [][]byte) *SliceSource {
	return &SliceSource{rows: rows}
}

func (source *SliceSource) NextRow() ([]byte, error) {
	if source.next >= len(source.rows) {
		return nil, io.EOF
	}
	row := source.rows[source.next]
	source.next++
	return row, nil
}
