package normalizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanHouseNo_StripsLabel(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "dotted_colon", input: "H.No: 12", expected: "12"},
		{name: "lower_spaced", input: "h no 12", expected: "12"},
		{name: "compact", input: "HNO:12", expected: "12"},
		{name: "dot_after_no", input: "H No. 12-3", expected: "12-3"},
		{name: "surrounding_spaces", input: "   H . No :  4-5-6  ", expected: "4-5-6"},
		{name: "no_label", input: "12-3-45", expected: "12-3-45"},
		{name: "label_only", input: "H.No:", expected: ""},
		{name: "empty", input: "", expected: ""},
		{name: "street_kept", input: "H.No 7, Gandhi Road", expected: "7, Gandhi Road"},
		{name: "repeated_label", input: "H.No: H No 9", expected: "9"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanHouseNo(tc.input))
		})
	}
}

func TestCleanHouseNo_KeepsUnlabelledText(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "superscript", input: "12²"},
		{name: "vulgar_fraction", input: "5½"},
		{name: "full_width", input: "１２－３"},
		{name: "devanagari", input: "१२"},
		{name: "accented", input: "Nhà 5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.input, CleanHouseNo(tc.input))
			assert.Equal(t, tc.input, CleanHouseNo("  "+tc.input+" "))
		})
	}
	assert.Equal(t, "१२", CleanHouseNo("H.No: १२"))
}

func TestCleanHouseNo_Idempotent(t *testing.T) {
	inputs := []string{
		"H.No: 12", "h no h no 3", "HNO:12-3", "  hno. 5/A ", "12", "",
		"H. No: 1-2-3-4", "Flat 3", "hno", "H NO : H.NO: 8", " H.No 12",
		"１２－３", "no 5", "h", "H.No.:",
	}
	for _, in := range inputs {
		once := CleanHouseNo(in)
		assert.Equal(t, once, CleanHouseNo(once), "input %q", in)
	}
}

func TestScalarString(t *testing.T) {
	assert.Equal(t, "", ScalarString(nil))
	assert.Equal(t, "12", ScalarString(12))
	assert.Equal(t, "12", ScalarString(12.0))
	assert.Equal(t, "12.5", ScalarString(12.5))
	assert.Equal(t, "H.No: 7-1", ScalarString("H.No: 7-1"))
	assert.Equal(t, "42", ScalarString(int64(42)))
	assert.Equal(t, "", ScalarString(math.NaN()))
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "h_no", NormalizeHeader("  H_No "))
	assert.Equal(t, "ref_no", NormalizeHeader("\ufeffRef_no"))
	assert.Equal(t, "from", NormalizeHeader("FROM"))
	assert.Equal(t, "h_no", NormalizeHeader("Ｈ_Ｎｏ"))
}

func TestStripMarks(t *testing.T) {
	assert.Equal(t, "Nha so 5", StripMarks("Nhà số 5"))
	assert.Equal(t, "12-3", StripMarks("12-3"))
	assert.Equal(t, "H.No 5", FoldASCII("H.Nò 5"))
}
