package encoder

import (
	"fmt"

	"github.com/ps-assigner/app/models"
	"github.com/ps-assigner/internal/normalizer"
)

// EncodeHouse runs a raw H_No value through cleaning, encoding and sort-key
// formatting.
func EncodeHouse(raw string) (models.AddressRecord, error) {
	clean := normalizer.CleanHouseNo(raw)
	res := Encode(clean)
	encoded := res.String()
	key, err := SortKey(encoded)
	if err != nil {
		return models.AddressRecord{}, fmt.Errorf("house %q: %w", raw, err)
	}
	return models.AddressRecord{
		RawHouseNo:   raw,
		CleanHouseNo: clean,
		EncodedKey:   encoded,
		SortKey:      key,
		Depth:        res.Depth,
	}, nil
}

// EncodeBoundary encodes one range boundary. Boundaries are encoded as
// written; they are not cleaned of "H.No" labels.
func EncodeBoundary(raw string) (encoded, key string, err error) {
	encoded = EncodeString(raw)
	key, err = SortKey(encoded)
	if err != nil {
		return "", "", fmt.Errorf("boundary %q: %w", raw, err)
	}
	return encoded, key, nil
}
