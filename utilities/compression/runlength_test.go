package compression_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/dargueta/labelraster"
	c "github.com/dargueta/labelraster/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type CodecTestCase struct {
	Input          []byte
	ExpectedOutput []byte
	Name           string
}

func TestEncodeRunLength__Basic(t *testing.T) {
	tests := []CodecTestCase{
		{[]byte{}, []byte{}, "empty"},
		{[]byte{7}, []byte{1, 7}, "single byte"},
		{[]byte{4, 4}, []byte{0x81, 4}, "run with two only"},
		{[]byte{0, 1, 2, 3, 4}, []byte{5, 0, 1, 2, 3, 4}, "no runs"},
		{
			[]byte{0, 0, 0, 0, 0xff, 0xff, 0, 0},
			[]byte{0x83, 0, 0x81, 0xff, 0x81, 0},
			"adjacent runs",
		},
		{
			[]byte{9, 5, 5, 5, 3, 7},
			[]byte{1, 9, 0x82, 5, 2, 3, 7},
			"literal runs around a repeat",
		},
		{
			bytes.Repeat([]byte{8}, 127),
			[]byte{0xfe, 8},
			"127",
		},
		{
			bytes.Repeat([]byte{8}, 128),
			[]byte{0xfe, 8, 0x80, 8},
			"128",
		},
		{
			bytes.Repeat([]byte{8}, 300),
			[]byte{0xfe, 8, 0xfe, 8, 0xad, 8},
			"300",
		},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				runEncodeTestCase(t, c.EncodeRunLength, test)
			},
		)
	}
}

func TestEncodeRunLength__LongLiteralIsSplit(t *testing.T) {
	input := make([]byte, 40)
	for i := range input {
		input[i] = byte(i)
	}

	output := bytes.Buffer{}
	n, err := c.EncodeRunLength(input, &output)
	require.NoError(t, err)

	expected := append([]byte{31}, input[:31]...)
	expected = append(expected, 9)
	expected = append(expected, input[31:]...)
	assert.Equal(t, len(expected), n)
	assert.Equal(t, expected, output.Bytes())
}

// Walk the token stream and make sure every token is within its legal range.
func TestEncodeRunLength__TokenBounds(t *testing.T) {
	inputs := map[string][]byte{
		"random": randomBytes(t, 2000),
		"zeros":  make([]byte, 1000),
		"mixed":  append(bytes.Repeat([]byte{1, 2}, 100), bytes.Repeat([]byte{3}, 500)...),
	}

	for name, input := range inputs {
		t.Run(
			name,
			func(t *testing.T) {
				output := bytes.Buffer{}
				_, err := c.EncodeRunLength(input, &output)
				require.NoError(t, err)

				encoded := output.Bytes()
				assert.LessOrEqual(t, len(encoded), c.MaxRunLengthSize(len(input)))
				for i := 0; i < len(encoded); {
					control := encoded[i]
					if control&c.RepeatFlag != 0 {
						runLength := int(control&^c.RepeatFlag) + 1
						assert.True(t, runLength >= 1 && runLength <= c.MaxRepeatRun)
						i += 2
					} else {
						assert.LessOrEqual(t, int(control), c.MaxLiteralRun)
						i += 1 + int(control)
					}
				}
			},
		)
	}
}

func TestEncodeRunLength__OutputTooSmall(t *testing.T) {
	input := []byte{1, 2, 3, 4, 5, 6}
	writer := bytewriter.New(make([]byte, 4))
	_, err := c.EncodeRunLength(input, writer)
	assert.Error(t, err, "writing past the end of the buffer should fail")
}

func TestRunLengthRoundTrip(t *testing.T) {
	tests := map[string][]byte{
		"empty":              {},
		"entirely nulls":     make([]byte, 571),
		"single long run":    bytes.Repeat([]byte{182}, 934),
		"completely random":  randomBytes(t, 1852),
		"alternating":        bytes.Repeat([]byte{0xaa, 0x55}, 97),
		"pairs and singles":  bytes.Repeat([]byte{1, 1, 2, 3, 3, 4}, 50),
		"literal max length": randomBytes(t, c.MaxLiteralRun),
	}

	for name, data := range tests {
		t.Run(
			name,
			func(t *testing.T) {
				runRoundTripTestCase(t, c.EncodeRunLength, c.DecodeRunLength, data)
			},
		)
	}
}

func TestDecodeRunLength__MissingRepeatValue(t *testing.T) {
	_, err := c.DecodeRunLength(bytes.NewReader([]byte{2, 9, 1, 0x84}), io.Discard)
	assert.ErrorIs(t, err, labelraster.ErrCorruptStream)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeRunLength__ShortLiteral(t *testing.T) {
	_, err := c.DecodeRunLength(bytes.NewReader([]byte{5, 1, 2}), io.Discard)
	assert.ErrorIs(t, err, labelraster.ErrCorruptStream)
}

func TestDecodeRunLength__LiteralTooLong(t *testing.T) {
	_, err := c.DecodeRunLength(bytes.NewReader([]byte{32}), io.Discard)
	assert.ErrorIs(t, err, labelraster.ErrCorruptStream)
}

func TestDecodeRunLengthToBytes(t *testing.T) {
	decoded, err := c.DecodeRunLengthToBytes([]byte{0x83, 0, 0x81, 0xff, 0x81, 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0xff, 0xff, 0, 0}, decoded)
}

////////////////////////////////////////////////////////////////////////////////
// Helper functions

type encodeFunc func(input []byte, output io.Writer) (int, error)
type decodeFunc func(input io.Reader, output io.Writer) (int64, error)

func randomBytes(t *testing.T, size int) []byte {
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err, "failed to generate random data")
	return data
}

func runEncodeTestCase(t *testing.T, encode encodeFunc, test CodecTestCase) {
	outputBuffer := make([]byte, c.MaxRunLengthSize(len(test.Input)))
	outputWriter := bytewriter.New(outputBuffer)

	n, err := encode(test.Input, outputWriter)
	require.NoError(t, err, "unexpected error")
	assert.Equal(t, len(test.ExpectedOutput), n, "bytes written is wrong")
	assert.Equal(t, test.ExpectedOutput, outputBuffer[:n], "output data is wrong")
}

func runRoundTripTestCase(
	t *testing.T, encode encodeFunc, decode decodeFunc, originalData []byte,
) {
	// Random data can come out larger than it went in, so size the buffer for
	// the worst case.
	compressedBuffer := make([]byte, c.MaxRunLengthSize(len(originalData)))
	compressedWriter := bytewriter.New(compressedBuffer)

	n, err := encode(originalData, compressedWriter)
	require.NoError(t, err, "unexpected error while compressing")
	t.Logf("compressed %d to %d", len(originalData), n)

	outputBuffer := make([]byte, len(originalData))
	outputWriter := bytewriter.New(outputBuffer)
	compressedReader := bytes.NewReader(compressedBuffer[:n])

	decodedSize, err := decode(compressedReader, outputWriter)
	require.NoError(t, err, "unexpected error while decompressing")
	assert.EqualValues(t, len(originalData), decodedSize, "decompressed size is wrong")
	assert.Equal(t, originalData, outputBuffer, "decompressed data doesn't match")
}
