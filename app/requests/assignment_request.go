package requests

import (
	"fmt"
	"strings"

	"github.com/ps-assigner/app/models"
	"github.com/ps-assigner/internal/normalizer"
)

// EncodeRequest request mã hóa một H_No
type EncodeRequest struct {
	HouseNo string `json:"house_no" binding:"required"` // H_No cần mã hóa
}

// HouseInput một dòng house gửi trực tiếp bằng JSON.
// Các ô có thể là string hoặc number ({"h_no": 12}).
type HouseInput struct {
	SNo   any `json:"s_no"`
	HNo   any `json:"h_no"`
	RefNo any `json:"ref_no"`
}

// RangeInput một dòng range gửi trực tiếp bằng JSON
type RangeInput struct {
	From any  `json:"from"`
	To   any  `json:"to"`
	PS   *int `json:"ps"`
	Sec  *int `json:"sec"`
}

// AssignRequest request gán ps/sec bằng JSON thay vì upload file
type AssignRequest struct {
	Houses []HouseInput `json:"houses" binding:"required,dive"`
	Ranges []RangeInput `json:"ranges" binding:"required,dive"`
}

// AssignQuery query params của các endpoint gán
type AssignQuery struct {
	Format string `form:"format"` // json | csv | xlsx | ndjson
	Gzip   string `form:"gzip"`   // "1" để gzip NDJSON
}

// HouseRows chuyển input thành HouseRow, số dòng tính như file có header
func (r AssignRequest) HouseRows() []models.HouseRow {
	rows := make([]models.HouseRow, len(r.Houses))
	for i, h := range r.Houses {
		rows[i] = models.HouseRow{
			Row:   i + 2,
			SNo:   normalizer.ScalarString(h.SNo),
			HNo:   normalizer.ScalarString(h.HNo),
			RefNo: normalizer.ScalarString(h.RefNo),
		}
	}
	return rows
}

// RangeRows chuyển input thành RangeRecord chưa mã hóa.
// from và to bắt buộc, giá trị 0 hợp lệ.
func (r AssignRequest) RangeRows() ([]models.RangeRecord, error) {
	rows := make([]models.RangeRecord, len(r.Ranges))
	for i, rg := range r.Ranges {
		from := normalizer.ScalarString(rg.From)
		to := normalizer.ScalarString(rg.To)
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return nil, fmt.Errorf("ranges[%d]: thiếu from hoặc to", i)
		}
		rows[i] = models.RangeRecord{
			Row:         i + 2,
			RawFrom:     from,
			RawTo:       to,
			PSCode:      rg.PS,
			SectionCode: rg.Sec,
		}
	}
	return rows, nil
}
