package models

// RangeRecord một khoảng địa chỉ (from, to) gắn với cặp mã ps/sec.
//
// StartKey/EndKey là min/max của sort key hai đầu; nhãn from/to trong file
// không quy định thứ tự.
type RangeRecord struct {
	Row         int    `json:"row"`                    // Số thứ tự dòng trong file
	RawFrom     string `json:"raw_from"`               // Giá trị cột from
	RawTo       string `json:"raw_to"`                 // Giá trị cột to
	EncodedFrom string `json:"encoded_from,omitempty"` // from sau khi mã hóa
	EncodedTo   string `json:"encoded_to,omitempty"`   // to sau khi mã hóa
	StartKey    string `json:"start_key,omitempty"`
	EndKey      string `json:"end_key,omitempty"`
	PSCode      *int   `json:"ps"`  // PS_No, có thể thiếu
	SectionCode *int   `json:"sec"` // Section_No, có thể thiếu
}

// Contains kiểm tra sort key có nằm trong [StartKey, EndKey] không
func (r RangeRecord) Contains(key string) bool {
	return r.StartKey <= key && key <= r.EndKey
}
