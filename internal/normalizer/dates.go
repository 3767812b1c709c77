package normalizer

import (
	"strings"
	"time"
)

// Source and output date layouts.
const (
	PublishedLayout = "Monday, 2 January 2006"
	ClosingLayout   = "Monday, 2 January 2006 - 15:04"
	OutputLayout    = "02.01.2006"
)

// NormalizePublished turns "Monday, 04 September 2023" into "04.09.2023".
func NormalizePublished(s string) (string, error) {
	t, err := time.Parse(PublishedLayout, s)
	if err != nil {
		return "", err
	}

	return t.Format(OutputLayout), nil
}

// NormalizeClosing turns "Friday, 15 September 2023 - 11:00" into "15.09.2023".
// The time of day is parsed but dropped.
func NormalizeClosing(s string) (string, error) {
	t, err := time.Parse(ClosingLayout, s)
	if err != nil {
		return "", err
	}

	return t.Format(OutputLayout), nil
}

// DeriveDate converts a normalized published date into its slash form.
func DeriveDate(published string) string {
	return strings.ReplaceAll(published, ".", "/")
}
