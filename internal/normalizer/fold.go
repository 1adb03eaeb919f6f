package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldASCII chuyển tên cột về dạng ASCII tương đương.
//
// NFKC gom ký tự full-width về ASCII ("Ｈ_Ｎｏ" → "H_No"), dấu thanh bị loại
// bỏ, sau đó chữ ngoài ASCII được chuyển tự. Không dùng cho giá trị H_No:
// NFKC đổi "²" thành "2" và "½" thành "1⁄2".
// Chuỗi ASCII được trả về nguyên vẹn.
func FoldASCII(s string) string {
	if isASCII(s) {
		return s
	}
	s = norm.NFKC.String(s)
	if isASCII(s) {
		return s
	}
	s = StripMarks(s)
	if isASCII(s) {
		return s
	}
	return unidecode.Unidecode(s)
}

// StripMarks loại bỏ dấu (combining marks) một cách an toàn: "Nhà số 5" → "Nha so 5"
func StripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// collapseSpaces gom khoảng trắng liên tiếp
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
