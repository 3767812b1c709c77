package crawler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func buildArray(n int) []byte {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"tender_No":"T%03d"}`, i+1)
	}

	return []byte("[" + strings.Join(items, ",") + "]")
}

func TestParseListing_Cap(t *testing.T) {
	listing, err := ParseListing(buildArray(250), 200)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	if listing.Total != 250 {
		t.Errorf("Total = %d, want 250", listing.Total)
	}

	if len(listing.Tenders) != 200 {
		t.Fatalf("Expected 200 tenders, got %d", len(listing.Tenders))
	}

	if got := listing.Tenders[199]["tender_No"]; got != "T200" {
		t.Errorf("Last kept tender = %v, want T200", got)
	}
}

func TestParseListing_UnderCap(t *testing.T) {
	listing, err := ParseListing(buildArray(3), 200)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	if len(listing.Tenders) != 3 {
		t.Errorf("Expected 3 tenders, got %d", len(listing.Tenders))
	}
}

func TestParseListing_Empty(t *testing.T) {
	listing, err := ParseListing([]byte(`[]`), 200)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	if listing.Total != 0 || len(listing.Tenders) != 0 {
		t.Errorf("Expected empty listing, got %+v", listing)
	}
}

func TestParseListing_Invalid(t *testing.T) {
	inputs := []string{
		`<html>Service Unavailable</html>`,
		`{"category":"not an array"}`,
		`null`,
		`[{"a":1}`,
		``,
	}

	for _, in := range inputs {
		_, err := ParseListing([]byte(in), 200)
		if !errors.Is(err, ErrParseFailed) {
			t.Errorf("ParseListing(%q) error = %v, want ErrParseFailed", in, err)
		}
	}
}

func TestParseListing_SkipsNonObjects(t *testing.T) {
	listing, err := ParseListing([]byte(`[{"tender_No":"A"}, 42, null, "x", {"tender_No":"B"}]`), 200)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	if len(listing.Tenders) != 2 {
		t.Fatalf("Expected 2 tenders, got %d", len(listing.Tenders))
	}

	if len(listing.Skipped) != 3 || listing.Skipped[0] != 1 {
		t.Errorf("Skipped = %v, want [1 2 3]", listing.Skipped)
	}
}

func TestParseListing_KeepsNumbersVerbatim(t *testing.T) {
	listing, err := ParseListing([]byte(`[{"telephone": 123456789012, "bc": true}]`), 200)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	num, ok := listing.Tenders[0]["telephone"].(json.Number)
	if !ok {
		t.Fatalf("Expected json.Number, got %T", listing.Tenders[0]["telephone"])
	}

	if num.String() != "123456789012" {
		t.Errorf("Number = %s", num)
	}

	if listing.Tenders[0]["bc"] != true {
		t.Errorf("bc = %v", listing.Tenders[0]["bc"])
	}
}
