package crawler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"etenders/internal/models"
)

// ErrParseFailed indicates the payload is not a JSON array.
var ErrParseFailed = errors.New("failed to parse tenders")

// Listing is the decoded opportunities payload.
type Listing struct {
	Tenders []models.RawTender
	// Skipped holds indexes of kept entries that were not JSON objects.
	Skipped []int
	Total   int
}

// ParseListing decodes a JSON array of tenders, keeping at most limit
// entries. Numbers are kept as json.Number so they render verbatim.
func ParseListing(payload []byte, limit int) (*Listing, error) {
	var items []json.RawMessage

	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	if items == nil {
		return nil, fmt.Errorf("%w: payload is null", ErrParseFailed)
	}

	listing := &Listing{Total: len(items)}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	for i, item := range items {
		raw, err := decodeTender(item)
		if err != nil {
			listing.Skipped = append(listing.Skipped, i)

			continue
		}

		listing.Tenders = append(listing.Tenders, raw)
	}

	return listing, nil
}

func decodeTender(item json.RawMessage) (models.RawTender, error) {
	var raw models.RawTender

	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()

	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	if raw == nil {
		return nil, errors.New("tender entry is null")
	}

	return raw, nil
}
