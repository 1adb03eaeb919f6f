package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ps-assigner/app/models"
	"github.com/ps-assigner/internal/normalizer"
	"github.com/xuri/excelize/v2"
)

// Column names of the two input tables
const (
	ColHouseNo = "H_No"
	ColSNo     = "S_No"
	ColRefNo   = "Ref_no"

	ColFrom = "from"
	ColTo   = "to"
	ColPS   = "ps"
	ColSec  = "sec"
)

// Table bảng dữ liệu thô: header và các dòng.
// RowNumbers[i] là số dòng trong file của Rows[i] (header là dòng 1).
type Table struct {
	Header     []string
	Rows       [][]string
	RowNumbers []int
}

// ReadTable đọc bảng từ csv hoặc sheet đầu tiên của xlsx.
// Dòng trống hoàn toàn bị bỏ qua nhưng vẫn được tính vào số dòng.
func ReadTable(r io.Reader, format Format) (*Table, error) {
	var (
		records [][]string
		lines   []int
	)
	switch format {
	case FormatCSV:
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		for {
			rec, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("lỗi đọc csv: %w", err)
			}
			line, _ := reader.FieldPos(0)
			records = append(records, rec)
			lines = append(lines, line)
		}
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("lỗi mở file excel: %w", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &Table{}, nil
		}
		records, err = f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("lỗi đọc sheet %s: %w", sheets[0], err)
		}
		for i := range records {
			lines = append(lines, i+1)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	t := &Table{}
	for i, rec := range records {
		if i == 0 {
			t.Header = rec
			continue
		}
		if blank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
		t.RowNumbers = append(t.RowNumbers, lines[i])
	}
	return t, nil
}

// ColumnIndex tìm cột theo tên: khớp chính xác trước, sau đó không phân biệt
// hoa thường và khoảng trắng.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	want := normalizer.NormalizeHeader(name)
	for i, h := range t.Header {
		if normalizer.NormalizeHeader(h) == want {
			return i, true
		}
	}
	return -1, false
}

// require trả về index của các cột bắt buộc, hoặc lỗi liệt kê mọi cột thiếu
func (t *Table) require(table string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, name := range names {
		j, ok := t.ColumnIndex(name)
		if !ok {
			missing = append(missing, name)
		}
		idx[i] = j
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Table: table, Columns: missing}
	}
	return idx, nil
}

func (t *Table) optional(name string) int {
	j, _ := t.ColumnIndex(name)
	return j
}

// ReadHouses đọc bảng house (Ref_House). H_No bắt buộc; S_No, Ref_no tùy chọn.
func ReadHouses(r io.Reader, format Format) ([]models.HouseRow, error) {
	t, err := ReadTable(r, format)
	if err != nil {
		return nil, err
	}
	return HousesFromTable(t)
}

// HousesFromTable chuyển Table thành các HouseRow
func HousesFromTable(t *Table) ([]models.HouseRow, error) {
	req, err := t.require("house", ColHouseNo)
	if err != nil {
		return nil, err
	}
	hno, sno, ref := req[0], t.optional(ColSNo), t.optional(ColRefNo)

	houses := make([]models.HouseRow, 0, len(t.Rows))
	for i, rec := range t.Rows {
		houses = append(houses, models.HouseRow{
			Row:   t.RowNumbers[i],
			SNo:   cell(rec, sno),
			HNo:   rawCell(rec, hno),
			RefNo: cell(rec, ref),
		})
	}
	return houses, nil
}

// ReadRanges đọc bảng range (Main_assign). from, to bắt buộc; ps, sec tùy chọn.
func ReadRanges(r io.Reader, format Format) ([]models.RangeRecord, error) {
	t, err := ReadTable(r, format)
	if err != nil {
		return nil, err
	}
	return RangesFromTable(t)
}

// RangesFromTable chuyển Table thành các RangeRecord chưa mã hóa
func RangesFromTable(t *Table) ([]models.RangeRecord, error) {
	req, err := t.require("range", ColFrom, ColTo)
	if err != nil {
		return nil, err
	}
	from, to := req[0], req[1]
	ps, sec := t.optional(ColPS), t.optional(ColSec)

	ranges := make([]models.RangeRecord, 0, len(t.Rows))
	for i, rec := range t.Rows {
		row := t.RowNumbers[i]
		psCode, err := ParseCode(cell(rec, ps))
		if err != nil {
			return nil, &CodeError{Row: row, Column: ColPS, Value: cell(rec, ps)}
		}
		secCode, err := ParseCode(cell(rec, sec))
		if err != nil {
			return nil, &CodeError{Row: row, Column: ColSec, Value: cell(rec, sec)}
		}
		ranges = append(ranges, models.RangeRecord{
			Row:         row,
			RawFrom:     cell(rec, from),
			RawTo:       cell(rec, to),
			PSCode:      psCode,
			SectionCode: secCode,
		})
	}
	return ranges, nil
}

// ParseCode parse ô mã ps/sec: "" hoặc "nan" → nil, "10" và "10.0" → 10
func ParseCode(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	v := int(f)
	return &v, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// rawCell giữ nguyên giá trị, dùng cho H_No để xuất lại odh_no như gốc
func rawCell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
