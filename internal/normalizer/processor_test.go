package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"etenders/internal/models"
)

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(testDownloadURL)

	got := p.Process(fullRawTender())

	assert.Equal(t, "04/09/2023", got.Date)
	assert.Equal(t, "15.09.2023", got.ClosingDate)
	assert.Empty(t, got.BriefingDateTime)
	assert.Equal(t, testDownloadURL+"?blobName=ABC.pdf&downloadedFileName=Spec+Doc", got.TenderDocuments)
}

func TestProcessor_MapThenEnrich(t *testing.T) {
	p := NewProcessor(testDownloadURL)
	raw := fullRawTender()

	mapped, fields := p.Map(raw)
	assert.Empty(t, fields.Fallbacks)
	assert.Empty(t, mapped.TenderDocuments, "documents are built in the enrichment pass")

	enriched, docs := p.Enrich(mapped, raw)
	assert.Equal(t, 1, docs.Built)
	assert.NotEmpty(t, enriched.TenderDocuments)
	assert.Empty(t, mapped.TenderDocuments)
}

func TestProcessor_Process_Garbage(t *testing.T) {
	p := NewProcessor(testDownloadURL)

	got := p.Process(models.RawTender{
		"sd":          map[string]any{"supportDocumentID": "ABC"},
		"description": []any{1, 2},
		"dp":          true,
	})

	assert.Equal(t, "[1,2]", got.Description)
	assert.Equal(t, "True", got.DatePublished)
	assert.Empty(t, got.Date)
	assert.Empty(t, got.TenderDocuments)
}
