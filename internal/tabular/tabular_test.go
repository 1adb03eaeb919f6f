package tabular

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ps-assigner/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestReadHouses_CSV(t *testing.T) {
	data := "S_No,H_No,Ref_no\n1,H.No: 12-3,R1\n\n2, 30 ,R2\n3,1-2-3\n"
	houses, err := ReadHouses(strings.NewReader(data), FormatCSV)
	require.NoError(t, err)
	require.Len(t, houses, 3)

	assert.Equal(t, models.HouseRow{Row: 2, SNo: "1", HNo: "H.No: 12-3", RefNo: "R1"}, houses[0])
	assert.Equal(t, 4, houses[1].Row)
	assert.Equal(t, " 30 ", houses[1].HNo)
	assert.Equal(t, "", houses[2].RefNo)
}

func TestReadHouses_HeaderCaseInsensitive(t *testing.T) {
	data := "s_no, h_no ,REF_NO\n9,7,x\n"
	houses, err := ReadHouses(strings.NewReader(data), FormatCSV)
	require.NoError(t, err)
	require.Len(t, houses, 1)
	assert.Equal(t, "9", houses[0].SNo)
	assert.Equal(t, "7", houses[0].HNo)
	assert.Equal(t, "x", houses[0].RefNo)
}

func TestReadHouses_MissingColumn(t *testing.T) {
	_, err := ReadHouses(strings.NewReader("S_No,House\n1,2\n"), FormatCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)

	var mc *MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{"H_No"}, mc.Columns)
}

func TestReadRanges_CSV(t *testing.T) {
	data := "from,to,ps,sec\n1,50,10,1\n51,100,10.0,\n"
	ranges, err := ReadRanges(strings.NewReader(data), FormatCSV)
	require.NoError(t, err)
	require.Len(t, ranges, 2)

	assert.Equal(t, "1", ranges[0].RawFrom)
	assert.Equal(t, "50", ranges[0].RawTo)
	assert.Equal(t, 10, *ranges[0].PSCode)
	assert.Equal(t, 1, *ranges[0].SectionCode)

	assert.Equal(t, 10, *ranges[1].PSCode)
	assert.Nil(t, ranges[1].SectionCode)
	assert.Equal(t, 3, ranges[1].Row)
}

func TestReadRanges_NoCodeColumns(t *testing.T) {
	ranges, err := ReadRanges(strings.NewReader("from,to\n1,5\n"), FormatCSV)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Nil(t, ranges[0].PSCode)
	assert.Nil(t, ranges[0].SectionCode)
}

func TestReadRanges_MissingBothBoundaries(t *testing.T) {
	_, err := ReadRanges(strings.NewReader("start,end,ps\n1,2,3\n"), FormatCSV)
	var mc *MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "range", mc.Table)
	assert.Equal(t, []string{"from", "to"}, mc.Columns)
}

func TestReadRanges_InvalidCode(t *testing.T) {
	_, err := ReadRanges(strings.NewReader("from,to,ps,sec\n1,5,ten,1\n"), FormatCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCode)

	var ce *CodeError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2, ce.Row)
	assert.Equal(t, "ps", ce.Column)
	assert.Equal(t, "ten", ce.Value)
}

func TestReadTable_EmptyInput(t *testing.T) {
	_, err := ReadHouses(strings.NewReader(""), FormatCSV)
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestParseCode(t *testing.T) {
	testCases := []struct {
		in      string
		want    *int
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "  ", want: nil},
		{in: "NaN", want: nil},
		{in: "10", want: intPtr(10)},
		{in: "10.0", want: intPtr(10)},
		{in: "-3", want: intPtr(-3)},
		{in: "10.5", wantErr: true},
		{in: "x", wantErr: true},
		{in: "1e40", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseCode(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func sampleResults() []models.AssignmentResult {
	return []models.AssignmentResult{
		{SNo: "1", DhNo: "130 00", PS: intPtr(10), Sec: intPtr(1), OdhNo: "30", RefNo: "R1"},
		{SNo: "2", DhNo: "300 00", OdhNo: "200", RefNo: "R2"},
	}
}

func TestWriteResults_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, FormatCSV, sampleResults()))
	assert.Equal(t, "s_no,dh_no,ps,sec,odh_no,ref_no\n1,130 00,10,1,30,R1\n2,300 00,,,200,R2\n", buf.String())
}

func TestWriteResults_JSONNulls(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, FormatJSON, sampleResults()))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, float64(10), decoded[0]["ps"])
	assert.Nil(t, decoded[1]["ps"])
	assert.Nil(t, decoded[1]["sec"])
	assert.Contains(t, decoded[1], "sec")
}

func TestWriteResults_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, FormatNDJSON, sampleResults()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestWriteResults_XLSXReadsBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, FormatXLSX, sampleResults()))

	table, err := ReadTable(bytes.NewReader(buf.Bytes()), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, models.OutputColumns, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "130 00", "10", "1", "30", "R1"}, table.Rows[0])
	assert.Equal(t, "", cell(table.Rows[1], 2))
	assert.Equal(t, "200", cell(table.Rows[1], 4))
}

func TestWriteTemplate_ReadableAsInput(t *testing.T) {
	var houses, ranges bytes.Buffer
	require.NoError(t, WriteTemplate(&houses, TemplateHouses))
	require.NoError(t, WriteTemplate(&ranges, TemplateRanges))

	h, err := ReadHouses(bytes.NewReader(houses.Bytes()), FormatXLSX)
	require.NoError(t, err)
	assert.Len(t, h, 3)
	assert.Equal(t, "H.No: 12-3", h[0].HNo)

	r, err := ReadRanges(bytes.NewReader(ranges.Bytes()), FormatXLSX)
	require.NoError(t, err)
	require.Len(t, r, 2)
	assert.Equal(t, 2, *r[1].SectionCode)

	assert.Error(t, WriteTemplate(&bytes.Buffer{}, "nope.xlsx"))
	assert.Equal(t, []string{TemplateRanges, TemplateHouses}, TemplateNames())
}

func TestFormatFromName(t *testing.T) {
	f, err := FormatFromName("Ref_House.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = FormatFromName("ranges.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatFromName("ranges.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("NDJSON")
	require.NoError(t, err)
	assert.Equal(t, FormatNDJSON, f)

	_, err = ParseFormat("parquet")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
