package models

// Output column names, theo đúng thứ tự xuất file
var OutputColumns = []string{"s_no", "dh_no", "ps", "sec", "odh_no", "ref_no"}

// AssignmentResult một dòng output
type AssignmentResult struct {
	SNo   string `json:"s_no" bson:"s_no" msgpack:"s_no"`       // passthrough S_No
	DhNo  string `json:"dh_no" bson:"dh_no" msgpack:"dh_no"`    // structured key (trước khi format)
	PS    *int   `json:"ps" bson:"ps" msgpack:"ps"`             // nil khi không match
	Sec   *int   `json:"sec" bson:"sec" msgpack:"sec"`          // nil khi không match
	OdhNo string `json:"odh_no" bson:"odh_no" msgpack:"odh_no"` // H_No gốc
	RefNo string `json:"ref_no" bson:"ref_no" msgpack:"ref_no"` // passthrough Ref_no

	// Found true khi sort key nằm trong một range, kể cả range không có ps/sec.
	// Không xuất ra file output.
	Found bool `json:"-" bson:"found" msgpack:"found"`
}

// Matched trả về true nếu record đã được gán vào một range
func (r AssignmentResult) Matched() bool {
	return r.Found
}

// BatchSummary thống kê một lần xử lý batch
type BatchSummary struct {
	Houses     int   `json:"houses" bson:"houses" msgpack:"houses"`
	Ranges     int   `json:"ranges" bson:"ranges" msgpack:"ranges"`
	Matched    int   `json:"matched" bson:"matched" msgpack:"matched"`
	Unmatched  int   `json:"unmatched" bson:"unmatched" msgpack:"unmatched"`
	DurationMs int64 `json:"duration_ms" bson:"duration_ms" msgpack:"duration_ms"`
	IndexHit   bool  `json:"index_cache_hit" bson:"index_cache_hit" msgpack:"index_cache_hit"`
}
