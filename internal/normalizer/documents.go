package normalizer

import (
	"fmt"
	"net/url"
	"strings"

	"etenders/internal/models"
)

// BriefingNotAvailable is the source's marker for a missing briefing date.
const BriefingNotAvailable = "<not available>"

// DocumentReport counts the outcome of building one record's document URLs.
type DocumentReport struct {
	Errors []error
	Built  int
}

// Skipped returns how many descriptors were dropped.
func (r DocumentReport) Skipped() int {
	return len(r.Errors)
}

// DocumentBuilder derives download URLs from document descriptors.
type DocumentBuilder struct {
	validator   *Validator
	downloadURL string
}

// NewDocumentBuilder creates a builder for the given download prefix,
// e.g. "https://www.etenders.gov.za/home/Download/".
func NewDocumentBuilder(downloadURL string) *DocumentBuilder {
	return &DocumentBuilder{
		validator:   NewValidator(),
		downloadURL: downloadURL,
	}
}

// BuildURL returns the absolute download URL for one descriptor.
func (b *DocumentBuilder) BuildURL(d models.DocumentDescriptor) (string, error) {
	if err := b.validator.ValidateDescriptor(d); err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("blobName", d.BlobName())
	query.Set("downloadedFileName", d.FileName)

	return b.downloadURL + "?" + query.Encode(), nil
}

// Build returns a copy of rec with Tender documents set to the comma-joined
// URLs of every usable descriptor. Unusable descriptors are skipped. The
// briefing "not available" marker is cleared.
func (b *DocumentBuilder) Build(rec models.Tender, docs []models.DocumentDescriptor) (models.Tender, DocumentReport) {
	var (
		report DocumentReport
		urls   []string
	)

	for i, d := range docs {
		u, err := b.BuildURL(d)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("document %d: %w", i, err))

			continue
		}

		urls = append(urls, u)
	}

	report.Built = len(urls)

	rec.TenderDocuments = strings.Join(urls, ", ")

	if rec.BriefingDateTime == BriefingNotAvailable {
		rec.BriefingDateTime = ""
	}

	return rec, report
}

// ExtractDocuments reads the raw document list of a tender. Fields that are
// absent or not strings are flagged in Missing, and entries that are not
// objects have every field flagged, so validation rejects them.
func ExtractDocuments(raw models.RawTender) []models.DocumentDescriptor {
	v, ok := raw.Lookup(models.KeyDocuments)
	if !ok {
		return nil
	}

	list, ok := v.([]any)
	if !ok {
		return nil
	}

	docs := make([]models.DocumentDescriptor, 0, len(list))

	for _, item := range list {
		obj, _ := item.(map[string]any)

		var d models.DocumentDescriptor

		d.ID = stringField(obj, "supportDocumentID", models.DescriptorID, &d.Missing)
		d.Extension = stringField(obj, "extension", models.DescriptorExtension, &d.Missing)
		d.FileName = stringField(obj, "fileName", models.DescriptorFileName, &d.Missing)

		docs = append(docs, d)
	}

	return docs
}

func stringField(obj map[string]any, key string, field models.DescriptorField, missing *models.DescriptorField) string {
	s, ok := obj[key].(string)
	if !ok {
		*missing |= field
	}

	return s
}
