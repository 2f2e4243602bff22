package dialects_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dargueta/labelraster"
	"github.com/dargueta/labelraster/dialects"
	"github.com/dargueta/labelraster/dialects/common"
	"github.com/dargueta/labelraster/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = labelraster.PageHeader{
	BytesPerLine: 4,
	Width:        30,
	Height:       10,
	Resolution:   [2]int{203, 203},
	Copies:       2,
	Darkness:     50,
}

func newPage(t *testing.T, number int, row []byte) *common.PageState {
	page, err := common.NewPageState(testHeader, number)
	require.NoError(t, err)
	if row != nil {
		require.NoError(t, page.Rows.Load(row))
	}
	return page
}

func mustDialect(t *testing.T, model labelraster.Model) dialects.Dialect {
	dialect, err := dialects.New(model)
	require.NoError(t, err)
	require.Equal(t, model, dialect.Model())
	return dialect
}

func TestNew__AllModels(t *testing.T) {
	for _, model := range labelraster.Models() {
		mustDialect(t, model)
	}
}

func TestNew__Unknown(t *testing.T) {
	_, err := dialects.New(labelraster.Model(0x99))
	assert.ErrorIs(t, err, labelraster.ErrConfiguration)
}

func TestPolicies(t *testing.T) {
	expected := map[labelraster.Model]common.Policy{
		labelraster.ZebraEPLLine:   {},
		labelraster.ZebraEPLPage:   {SkipBlank: true},
		labelraster.ZebraZPL:       {SkipRepeat: true},
		labelraster.ZebraCPCL:      {SkipBlank: true},
		labelraster.IntellitechPCL: {SkipBlank: true, FeedBlank: true},
		labelraster.ZebraEPCL:      {SkipBlank: true},
	}

	for model, policy := range expected {
		assert.Equalf(t, policy, mustDialect(t, model).Policy(), "model %s", model)
	}
}

type dialectTestCase struct {
	Model     labelraster.Model
	StartJob  string
	StartPage string
	Row       string
	EndPage   string
}

func TestDialectCommands(t *testing.T) {
	row := []byte{0xff, 0xff, 0x00, 0x00}

	tests := []dialectTestCase{
		{
			Model:     labelraster.ZebraEPLLine,
			StartPage: "\033D3\033M01\033B",
			Row:       "\033g004\xff\xff\x00\x00",
			EndPage:   "\033E\014",
		},
		{
			Model:     labelraster.ZebraEPLPage,
			StartPage: "\nN\nD7\nq32\n",
			Row:       "GW0,5,4,1\n\x00\x00\xff\xff\n",
			EndPage:   "P2\n",
		},
		{
			Model:     labelraster.ZebraZPL,
			StartPage: "~SD15\n~DGR:CUPS.GRF,40,4,\n",
			Row:       "JF,",
			EndPage: "^XA\n^PW30\n^LL10\n^PQ2, 0, 0, N\n" +
				"^FO0,0^XGR:CUPS.GRF,1,1^FS\n^IDR:CUPS.GRF^FS\n^XZ\n",
		},
		{
			Model:     labelraster.ZebraCPCL,
			StartPage: "! 0 203 203 10 2\r\nPAGE-WIDTH 30\r\nPAGE-HEIGHT 10\r\n",
			Row:       "CG 4 1 0 5 \xff\xff\x00\x00\r\n",
			EndPage:   "FORM\r\nPRINT\r\n",
		},
		{
			Model: labelraster.IntellitechPCL,
			StartPage: "\033E\033*t203R\033*r30S\033*r10T\033&a0H\033&a0V" +
				"\033*r1A\033*b2M",
			Row:     "\033*b4W\xff\xff\xff\x00",
			EndPage: "\033*rB\033\014",
		},
		{
			Model:     labelraster.ZebraEPCL,
			StartJob:  "\033MC\r\n",
			StartPage: "\033vF\r\033F\r\n\033$F\r\n",
			Row:       "\033GS 0 5 4 \x81\xff\x81\x00\r",
			EndPage:   "",
		},
	}

	for _, test := range tests {
		t.Run(
			test.Model.String(),
			func(t *testing.T) {
				dialect := mustDialect(t, test.Model)
				page := newPage(t, 1, row)

				output := bytes.Buffer{}
				require.NoError(t, dialect.StartJob(&output))
				assert.Equal(t, test.StartJob, output.String(), "job start is wrong")

				output.Reset()
				require.NoError(t, dialect.StartPage(&output, page))
				assert.Equal(t, test.StartPage, output.String(), "page start is wrong")

				output.Reset()
				require.NoError(t, dialect.EncodeRow(&output, page, 5))
				assert.Equal(t, test.Row, output.String(), "row is wrong")

				output.Reset()
				require.NoError(t, dialect.EndPage(&output, page, false))
				assert.Equal(t, test.EndPage, output.String(), "page end is wrong")

				output.Reset()
				require.NoError(t, dialect.EndJob(&output))
				assert.Zero(t, output.Len())
			},
		)
	}
}

func TestEPLPage__DirectThermal(t *testing.T) {
	header := testHeader
	header.MediaType = "Direct"
	header.Darkness = 0
	page, err := common.NewPageState(header, 1)
	require.NoError(t, err)

	output := bytes.Buffer{}
	require.NoError(t, mustDialect(t, labelraster.ZebraEPLPage).StartPage(&output, page))
	assert.Equal(t, "\nN\nOD\nq32\n", output.String())
}

func TestEPLLine__RowLengthLimit(t *testing.T) {
	dialect := mustDialect(t, labelraster.ZebraEPLLine)

	header := testHeader
	header.Width = 0
	header.BytesPerLine = 999
	page, err := common.NewPageState(header, 1)
	require.NoError(t, err)
	output := bytes.Buffer{}
	require.NoError(t, dialect.StartPage(&output, page))

	header.BytesPerLine = 1000
	page, err = common.NewPageState(header, 1)
	require.NoError(t, err)
	output.Reset()
	err = dialect.StartPage(&output, page)
	assert.ErrorIs(t, err, labelraster.ErrAllocation)
	assert.Zero(t, output.Len())
}

func TestZPL__RepeatAndCancel(t *testing.T) {
	dialect := mustDialect(t, labelraster.ZebraZPL)
	page := newPage(t, 1, nil)

	output := bytes.Buffer{}
	require.NoError(t, dialect.RepeatRow(&output, page))
	assert.Equal(t, string(compression.RepeatRowMarker), output.String())

	output.Reset()
	require.NoError(t, dialect.EndPage(&output, page, true))
	assert.Equal(t, "~DN\n", output.String())
}

func TestPCL__Feed(t *testing.T) {
	output := bytes.Buffer{}
	err := mustDialect(t, labelraster.IntellitechPCL).Feed(&output, newPage(t, 1, nil), 17)
	require.NoError(t, err)
	assert.Equal(t, "\033*b17Y", output.String())
}

func TestUnsupportedOperations(t *testing.T) {
	page := newPage(t, 1, nil)
	output := bytes.Buffer{}

	err := mustDialect(t, labelraster.ZebraCPCL).Feed(&output, page, 2)
	assert.ErrorIs(t, err, labelraster.ErrInvalidState)

	err = mustDialect(t, labelraster.ZebraEPLLine).RepeatRow(&output, page)
	assert.ErrorIs(t, err, labelraster.ErrInvalidState)
}

func TestEPCL__CardPrintedAfterLastPanel(t *testing.T) {
	dialect := mustDialect(t, labelraster.ZebraEPCL)

	for number := 1; number <= 8; number++ {
		output := bytes.Buffer{}
		require.NoError(t, dialect.EndPage(&output, newPage(t, number, nil), false))
		assert.Equal(t, (number-1)%4, dialects.Panel(number))

		if number%4 == 0 {
			assert.Equalf(t, "\033M 2 IS 0[IS 1[IS 2[I[IV 1\r", output.String(), "page %d", number)
		} else {
			assert.Zerof(t, output.Len(), "page %d shouldn't print the card", number)
		}
	}
}

type failingWriter struct{}

var errDeviceGone = errors.New("device gone")

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errDeviceGone
}

func TestWriteErrorsAreWrapped(t *testing.T) {
	for _, model := range labelraster.Models() {
		page := newPage(t, 1, []byte{1, 2, 3, 4})
		err := mustDialect(t, model).EncodeRow(failingWriter{}, page, 0)
		assert.ErrorIsf(t, err, labelraster.ErrOutputFailed, "model %s", model)
		assert.ErrorIsf(t, err, errDeviceGone, "model %s", model)
	}
}
