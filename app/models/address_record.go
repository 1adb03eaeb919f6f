package models

// HouseRow một dòng của bảng house (Ref_House) như được đọc từ file
type HouseRow struct {
	Row   int    `json:"row"`    // Số thứ tự dòng trong file (tính từ 1, không kể header)
	SNo   string `json:"s_no"`   // S_No, passthrough
	HNo   string `json:"h_no"`   // H_No gốc
	RefNo string `json:"ref_no"` // Ref_no, passthrough
}

// AddressRecord house record sau khi chuẩn hóa và mã hóa.
// Immutable sau khi được tạo bởi AssignmentService.
type AddressRecord struct {
	RawHouseNo   string `json:"raw_house_no"`   // H_No gốc
	CleanHouseNo string `json:"clean_house_no"` // H_No sau khi bỏ nhãn "H.No:"
	EncodedKey   string `json:"encoded_key"`    // dh_no, structured key
	SortKey      string `json:"sort_key"`       // 30 chữ số, dùng để so sánh
	Depth        int    `json:"depth"`          // Số segment số khi mã hóa
}
