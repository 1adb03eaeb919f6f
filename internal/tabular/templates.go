package tabular

import (
	"fmt"
	"io"
	"sort"
)

// Sample template names
const (
	TemplateHouses = "Ref_House.xlsx"
	TemplateRanges = "Main_assign.xlsx"
)

var templates = map[string]struct {
	header []string
	rows   [][]interface{}
}{
	TemplateHouses: {
		header: []string{ColSNo, ColHouseNo, ColRefNo},
		rows: [][]interface{}{
			{1, "H.No: 12-3", "R-001"},
			{2, "30", "R-002"},
			{3, "1-2-3-4", "R-003"},
		},
	},
	TemplateRanges: {
		header: []string{ColFrom, ColTo, ColPS, ColSec},
		rows: [][]interface{}{
			{"1", "50", 10, 1},
			{"51", "100", 10, 2},
		},
	},
}

// TemplateNames danh sách template mẫu
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteTemplate ghi file mẫu theo tên
func WriteTemplate(w io.Writer, name string) error {
	tpl, ok := templates[name]
	if !ok {
		return fmt.Errorf("tabular: unknown template %q", name)
	}
	return WriteSheet(w, tpl.header, tpl.rows)
}
