package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ps-assigner/app/models"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet tên sheet của file xlsx xuất ra
const DefaultSheet = "Sheet1"

// DefaultOutputName tên file kết quả mặc định
const DefaultOutputName = "F_Output_Final.xlsx"

// WriteResults ghi kết quả theo format. Các dòng không match có ps/sec rỗng
// (csv, xlsx) hoặc null (json, ndjson).
func WriteResults(w io.Writer, format Format, results []models.AssignmentResult) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, results)
	case FormatXLSX:
		return writeXLSX(w, results)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if results == nil {
			results = []models.AssignmentResult{}
		}
		return enc.Encode(results)
	case FormatNDJSON:
		enc := json.NewEncoder(w)
		for i := range results {
			if err := enc.Encode(&results[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func writeCSV(w io.Writer, results []models.AssignmentResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.OutputColumns); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{r.SNo, r.DhNo, codeString(r.PS), codeString(r.Sec), r.OdhNo, r.RefNo}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, results []models.AssignmentResult) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(DefaultSheet)
	if err != nil {
		return fmt.Errorf("lỗi tạo stream writer: %w", err)
	}

	if err := sw.SetRow("A1", toRow(models.OutputColumns)); err != nil {
		return err
	}
	for i, r := range results {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.SNo, r.DhNo, codeCell(r.PS), codeCell(r.Sec), r.OdhNo, r.RefNo}
		if err := sw.SetRow(axis, row); err != nil {
			return fmt.Errorf("lỗi ghi dòng %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteSheet ghi một sheet đơn giản (header + rows) ra xlsx
func WriteSheet(w io.Writer, header []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return err
	}
	for i := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DefaultSheet, axis, &rows[i]); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func toRow(cols []string) []interface{} {
	row := make([]interface{}, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	return row
}

func codeString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func codeCell(p *int) interface{} {
	if p == nil {
		return ""
	}
	return *p
}
