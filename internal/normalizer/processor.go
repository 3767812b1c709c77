// Package normalizer turns raw tender entries into normalized snapshot rows.
package normalizer

import "etenders/internal/models"

// Processor runs the mapping and enrichment passes for tender entries.
type Processor struct {
	mapper  *Mapper
	builder *DocumentBuilder
}

// NewProcessor creates a new processor building document URLs under downloadURL.
func NewProcessor(downloadURL string) *Processor {
	return &Processor{
		mapper:  NewMapper(),
		builder: NewDocumentBuilder(downloadURL),
	}
}

// Map maps one raw entry onto the fixed schema.
func (p *Processor) Map(raw models.RawTender) (models.Tender, FieldReport) {
	return p.mapper.MapWithReport(raw)
}

// Enrich builds the document URLs of a mapped record from its raw entry.
func (p *Processor) Enrich(rec models.Tender, raw models.RawTender) (models.Tender, DocumentReport) {
	return p.builder.Build(rec, ExtractDocuments(raw))
}

// Process maps and enriches one raw entry.
func (p *Processor) Process(raw models.RawTender) models.Tender {
	rec, _ := p.Map(raw)
	rec, _ = p.Enrich(rec, raw)

	return rec
}
