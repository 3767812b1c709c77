package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"etenders/internal/models"
)

func TestDedup(t *testing.T) {
	a := models.Tender{TenderNumber: "T1", Description: "Alpha"}
	b := models.Tender{TenderNumber: "T2", Description: "Beta"}
	nearA := models.Tender{TenderNumber: "T1", Description: "Alpha", ContactFax: "1"}

	kept, dropped := Dedup([]models.Tender{a, b, a, nearA, b, a})

	assert.Equal(t, []models.Tender{a, b, nearA}, kept)
	assert.Equal(t, 3, dropped)
}

func TestDedup_Empty(t *testing.T) {
	kept, dropped := Dedup(nil)

	assert.Empty(t, kept)
	assert.Zero(t, dropped)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "fetching", Fetching.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, Done.Terminal())
	assert.False(t, Exporting.Terminal())
}
