// Package encoder turns house-number strings into structured keys whose
// digit-only form sorts in the same order as the house numbers.
//
// A house number such as "12-3-45" is scanned into runs of letters and
// digits. The first numeric run is offset by 100, the second is written as
// "-0<n>", and every later run is prefixed with its width minus one so that
// runs of different widths still compare correctly once the key is reduced
// to digits (see SortKey).
package encoder

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// sentinel is appended before scanning so the last real run is always
	// closed by a delimiter. Its own digit run is never emitted.
	sentinel = "-0"

	// primaryOffset is added to the first numeric run.
	primaryOffset = 100
)

// SegmentKind tags the outcome of closing a run.
type SegmentKind int

const (
	// SegmentNumeric is a run that parsed as a base-10 integer.
	SegmentNumeric SegmentKind = iota
	// SegmentFallback is a run kept verbatim because it is not an integer.
	SegmentFallback
)

func (k SegmentKind) String() string {
	if k == SegmentNumeric {
		return "numeric"
	}
	return "fallback"
}

// Segment is one closed run and the text it contributed to the key.
type Segment struct {
	Kind    SegmentKind
	Index   int    // 1-based position among numeric segments, 0 for fallback
	Text    string // run as scanned
	Emitted string // text appended to (or, for index 1, replacing) the key
}

// Result is the structured encoding of one house-number string.
type Result struct {
	Key      string // structured key without padding, e.g. "112-03-145"
	Depth    int    // number of numeric segments
	Segments []Segment
}

// Padding returns the depth-dependent suffix of the encoded key.
func (r Result) Padding() string {
	return PaddingFor(r.Depth)
}

// String returns the two-part encoded form "<key> <zeros>".
func (r Result) String() string {
	return r.Key + r.Padding()
}

// PaddingFor returns the padding suffix for a key of the given structural
// depth: a space followed by two zeros, plus one more zero for every numeric
// segment from the third on. Segments from the third on carry a width digit,
// and the extra zeros keep keys of different depth aligned after SortKey
// strips them down to digits.
func PaddingFor(depth int) string {
	zeros := 2
	if depth > 2 {
		zeros += depth - 2
	}
	return " " + strings.Repeat("0", zeros)
}

// Encode scans s and returns its structured key. It never fails: runs that
// are not integers are kept verbatim behind a dash.
//
// Scanning stops after the run closed by the first space or comma, so any
// street name that follows the number is ignored.
func Encode(s string) Result {
	sc := scanner{index: 1}
	var run strings.Builder

	for _, ch := range s + sentinel {
		if isAlnum(ch) {
			run.WriteRune(ch)
			continue
		}
		sc.close(run.String())
		run.Reset()
		if ch == ' ' || ch == ',' {
			break
		}
	}
	// whatever is left in run (normally the sentinel "0") is dropped

	return Result{
		Key:      sc.key.String(),
		Depth:    sc.index - 1,
		Segments: sc.segments,
	}
}

// EncodeString is Encode(s).String().
func EncodeString(s string) string {
	return Encode(s).String()
}

// scanner holds the accumulator state of a single Encode call.
type scanner struct {
	key      strings.Builder
	index    int // next numeric segment position
	segments []Segment
}

func (sc *scanner) close(run string) {
	digits, ok := decimalDigits(run)
	if !ok {
		emitted := "-" + run
		sc.key.WriteString(emitted)
		sc.segments = append(sc.segments, Segment{Kind: SegmentFallback, Text: run, Emitted: emitted})
		return
	}

	var emitted string
	value, _ := new(big.Int).SetString(digits, 10)
	switch sc.index {
	case 1:
		emitted = new(big.Int).Add(value, big.NewInt(primaryOffset)).String()
		// the primary number starts the key over
		sc.key.Reset()
	case 2:
		emitted = "-0" + value.String()
	default:
		emitted = "-" + strconv.Itoa(len(digits)-1) + digits
	}
	sc.key.WriteString(emitted)
	sc.segments = append(sc.segments, Segment{Kind: SegmentNumeric, Index: sc.index, Text: run, Emitted: emitted})
	sc.index++
}

// decimalDigits maps a non-empty run of Unicode decimal digits (category
// Nd, any script) to the ASCII digits of the same value, keeping leading
// zeros. Other numerals such as "²" or "½" are not decimal digits and make
// the run a fallback.
func decimalDigits(run string) (string, bool) {
	if run == "" {
		return "", false
	}
	out := make([]byte, 0, len(run))
	for _, r := range run {
		d, ok := digitValue(r)
		if !ok {
			return "", false
		}
		out = append(out, byte('0'+d))
	}
	return string(out), true
}

// digitValue returns the value of a decimal digit rune. Unicode assigns Nd
// characters in contiguous runs of ten from zero to nine, so every range of
// the Nd table starts at a zero.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if r < utf8.RuneSelf || !unicode.Is(unicode.Nd, r) {
		return 0, false
	}
	for _, rg := range unicode.Nd.R16 {
		if r >= rune(rg.Lo) && r <= rune(rg.Hi) && rg.Stride == 1 {
			return int(r-rune(rg.Lo)) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if r >= rune(rg.Lo) && r <= rune(rg.Hi) && rg.Stride == 1 {
			return int(r-rune(rg.Lo)) % 10, true
		}
	}
	return 0, false
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
