package pipeline

import "etenders/internal/models"

// Dedup drops records equal to an earlier one in every field, keeping the
// first occurrence and the original order. It returns the kept records and
// how many were dropped.
func Dedup(records []models.Tender) ([]models.Tender, int) {
	seen := make(map[models.Tender]struct{}, len(records))
	kept := make([]models.Tender, 0, len(records))

	for _, rec := range records {
		if _, ok := seen[rec]; ok {
			continue
		}

		seen[rec] = struct{}{}
		kept = append(kept, rec)
	}

	return kept, len(records) - len(kept)
}
