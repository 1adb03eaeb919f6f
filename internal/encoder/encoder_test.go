package encoder

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Vectors(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single", input: "12", expected: "112 00"},
		{name: "two_groups", input: "12-3", expected: "112-03 00"},
		{name: "three_groups", input: "12-3-45", expected: "112-03-145 000"},
		{name: "four_groups", input: "1-2-3-4", expected: "101-02-03-04 0000"},
		{name: "zero", input: "0", expected: "100 00"},
		{name: "slash_delimiter", input: "12/3", expected: "112-03 00"},
		{name: "second_group_leading_zero", input: "12-03", expected: "112-03 00"},
		{name: "third_group_keeps_width", input: "12-3-007", expected: "112-03-2007 000"},
		{name: "stops_at_comma", input: "12, MG Road", expected: "112 00"},
		{name: "stops_at_space", input: "12 3", expected: "112 00"},
		{name: "letter_group_fallback", input: "5-A", expected: "105-A 00"},
		{name: "letters_do_not_stop", input: "12-R-3", expected: "112-R-03 00"},
		{name: "alnum_run_fallback", input: "12-3R", expected: "112-3R 00"},
		{name: "fallback_before_primary", input: "12a-3", expected: "103 00"},
		{name: "empty", input: "", expected: "- 00"},
		{name: "large_primary", input: "99999999999999999999999", expected: "100000000000000000000099 00"},
		{name: "devanagari_digits", input: "१२", expected: "112 00"},
		{name: "devanagari_groups", input: "१२-३-४५", expected: "112-03-145 000"},
		{name: "arabic_indic_digits", input: "٤٥/٦", expected: "145-06 00"},
		{name: "full_width_digits", input: "１２－３", expected: "112-03 00"},
		{name: "superscript_fallback", input: "12²", expected: "-12² 00"},
		{name: "vulgar_fraction_fallback", input: "5½", expected: "-5½ 00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, EncodeString(tc.input))
		})
	}
}

func TestEncode_Segments(t *testing.T) {
	res := Encode("12a-3-4-56")

	require.Len(t, res.Segments, 4)
	assert.Equal(t, SegmentFallback, res.Segments[0].Kind)
	assert.Equal(t, "12a", res.Segments[0].Text)
	assert.Equal(t, 0, res.Segments[0].Index)

	assert.Equal(t, SegmentNumeric, res.Segments[1].Kind)
	assert.Equal(t, 1, res.Segments[1].Index)
	assert.Equal(t, "103", res.Segments[1].Emitted)

	assert.Equal(t, "-04", res.Segments[2].Emitted)
	assert.Equal(t, "-156", res.Segments[3].Emitted)

	assert.Equal(t, 3, res.Depth)
	assert.Equal(t, "103-04-156", res.Key)
	assert.Equal(t, "103-04-156 000", res.String())
}

func TestPaddingFor(t *testing.T) {
	table := map[int]string{
		0: " 00",
		1: " 00",
		2: " 00",
		3: " 000",
		4: " 0000",
		6: " 000000",
	}
	for depth, expected := range table {
		assert.Equal(t, expected, PaddingFor(depth), "depth %d", depth)
	}
}

func TestEncode_PaddingTracksLengthPrefixedGroups(t *testing.T) {
	for _, in := range []string{"7", "7-1", "7-1-2", "7-1-2-33", "x-7-1-y-2", "H-1", "1-2-3-4-5-6"} {
		res := Encode(in)
		prefixed := 0
		for _, seg := range res.Segments {
			if seg.Kind == SegmentNumeric && seg.Index >= 3 {
				prefixed++
			}
		}
		assert.Equal(t, " "+strings.Repeat("0", prefixed+2), res.Padding(), "input %q", in)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	for _, in := range []string{"12", "12-3-45", "H.No: 4", "5/A/7", "", "१२-३"} {
		assert.Equal(t, Encode(in), Encode(in))
	}
}

func TestSortKey(t *testing.T) {
	key, err := SortKey("112-03-145 000")
	require.NoError(t, err)
	assert.Len(t, key, SortKeyWidth)
	assert.Equal(t, strings.Repeat("0", 19)+"11203145000", key)

	key, err = SortKey("- 00")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", SortKeyWidth), key)
}

func TestSortKey_Overflow(t *testing.T) {
	encoded := EncodeString(strings.Repeat("9", 29))
	_, err := SortKey(encoded)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyOverflow)

	var overflow *OverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, encoded, overflow.Input)
	assert.Equal(t, 32, overflow.Digits)
}

func TestSortKey_FixedWidth(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		in := randomHouseNo(r)
		key, err := SortKey(EncodeString(in))
		if err != nil {
			assert.ErrorIs(t, err, ErrKeyOverflow)
			continue
		}
		assert.Len(t, key, SortKeyWidth, "input %q", in)
		assert.Equal(t, -1, strings.IndexFunc(key, func(r rune) bool { return r < '0' || r > '9' }))
	}
}

// Numbers with the same depth and group widths must sort like their groups.
func TestSortKey_MonotonicForSameShape(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		depth := 1 + r.Intn(5)
		widths := make([]int, depth)
		for j := range widths {
			widths[j] = 1 + r.Intn(4)
		}
		a := strings.Join(randomGroups(r, widths), "-")
		b := strings.Join(randomGroups(r, widths), "-")

		ka, err := SortKey(EncodeString(a))
		require.NoError(t, err, a)
		kb, err := SortKey(EncodeString(b))
		require.NoError(t, err, b)

		assert.Equal(t, strings.Compare(a, b), strings.Compare(ka, kb), "%q vs %q", a, b)
	}
}

func TestEncodeHouse(t *testing.T) {
	rec, err := EncodeHouse("H.No: 12-3")
	require.NoError(t, err)
	assert.Equal(t, "H.No: 12-3", rec.RawHouseNo)
	assert.Equal(t, "12-3", rec.CleanHouseNo)
	assert.Equal(t, "112-03 00", rec.EncodedKey)
	assert.Equal(t, strings.Repeat("0", 23)+"1120300", rec.SortKey)
	assert.Equal(t, 2, rec.Depth)

	_, err = EncodeHouse(strings.Repeat("1", 40))
	assert.ErrorIs(t, err, ErrKeyOverflow)
}

func TestEncodeHouse_DecimalDigitsOfAnyScript(t *testing.T) {
	ascii, err := EncodeHouse("12-3-45")
	require.NoError(t, err)

	for _, raw := range []string{"१२-३-४५", "H.No: ١٢-٣-٤٥", "１２－３－４５"} {
		rec, err := EncodeHouse(raw)
		require.NoError(t, err)
		assert.Equal(t, ascii.EncodedKey, rec.EncodedKey, raw)
		assert.Equal(t, ascii.SortKey, rec.SortKey, raw)
	}

	_, bkey, err := EncodeBoundary("१२-३-४५")
	require.NoError(t, err)
	assert.Equal(t, ascii.SortKey, bkey)
}

func TestEncodeHouse_NonDecimalNumeralsFallBack(t *testing.T) {
	rec, err := EncodeHouse("12²")
	require.NoError(t, err)
	assert.Equal(t, "12²", rec.CleanHouseNo)
	assert.Equal(t, "-12² 00", rec.EncodedKey)
	assert.Equal(t, strings.Repeat("0", 26)+"1200", rec.SortKey)
	assert.Equal(t, 0, rec.Depth)

	rec, err = EncodeHouse("5½")
	require.NoError(t, err)
	assert.Equal(t, "-5½ 00", rec.EncodedKey)
}

func TestEncodeBoundary(t *testing.T) {
	encoded, key, err := EncodeBoundary("50")
	require.NoError(t, err)
	assert.Equal(t, "150 00", encoded)
	assert.Equal(t, strings.Repeat("0", 25)+"15000", key)
}

// randomGroups returns digit groups of the given widths. The second group
// never has a leading zero since it is written by value, not by text.
func randomGroups(r *rand.Rand, widths []int) []string {
	groups := make([]string, len(widths))
	for i, w := range widths {
		b := make([]byte, w)
		for j := range b {
			b[j] = byte('0' + r.Intn(10))
		}
		if i == 1 && w > 1 && b[0] == '0' {
			b[0] = byte('1' + r.Intn(9))
		}
		groups[i] = string(b)
	}
	return groups
}

func randomHouseNo(r *rand.Rand) string {
	const alphabet = "0123456789-/ ,aBR."
	n := r.Intn(16)
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(b)
}
