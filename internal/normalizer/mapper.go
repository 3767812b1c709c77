package normalizer

import (
	"encoding/json"
	"strconv"

	"etenders/internal/models"
	"etenders/pkg/utils"
)

// fieldSource binds an output field to its source key.
type fieldSource struct {
	key   string
	field func(*models.Tender) *string
}

// sourceFields lists every field read straight from the payload. Date is
// derived and Tender documents is filled by the DocumentBuilder.
var sourceFields = []fieldSource{
	{models.KeyCategory, func(t *models.Tender) *string { return &t.Services }},
	{models.KeyDescription, func(t *models.Tender) *string { return &t.Description }},
	{models.KeyTenderNumber, func(t *models.Tender) *string { return &t.TenderNumber }},
	{models.KeyDepartment, func(t *models.Tender) *string { return &t.Department }},
	{models.KeyType, func(t *models.Tender) *string { return &t.TenderType }},
	{models.KeyProvince, func(t *models.Tender) *string { return &t.Province }},
	{models.KeyPublished, func(t *models.Tender) *string { return &t.DatePublished }},
	{models.KeyClosing, func(t *models.Tender) *string { return &t.ClosingDate }},
	{models.KeyDelivery, func(t *models.Tender) *string { return &t.PlaceRequired }},
	{models.KeyConditions, func(t *models.Tender) *string { return &t.SpecialConditions }},
	{models.KeyContactPerson, func(t *models.Tender) *string { return &t.ContactPerson }},
	{models.KeyEmail, func(t *models.Tender) *string { return &t.ContactEmail }},
	{models.KeyTelephone, func(t *models.Tender) *string { return &t.ContactPhone }},
	{models.KeyFax, func(t *models.Tender) *string { return &t.ContactFax }},
	{models.KeyBriefing, func(t *models.Tender) *string { return &t.BriefingSession }},
	{models.KeyBriefingReq, func(t *models.Tender) *string { return &t.BriefingRequired }},
	{models.KeyBriefingDate, func(t *models.Tender) *string { return &t.BriefingDateTime }},
	{models.KeyBriefingVenue, func(t *models.Tender) *string { return &t.BriefingVenue }},
}

// FieldReport lists the fields of one record that kept their raw value.
type FieldReport struct {
	Fallbacks []FieldError
}

// Mapper maps raw payload entries onto the fixed tender schema.
type Mapper struct {
	strings *utils.StringHelper
}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{
		strings: utils.NewStringHelper(),
	}
}

// Map normalizes one raw entry. It never fails: a field that cannot be
// transformed keeps its previous value.
func (m *Mapper) Map(raw models.RawTender) models.Tender {
	t, _ := m.MapWithReport(raw)

	return t
}

// MapWithReport is Map that also reports which fields fell back.
func (m *Mapper) MapWithReport(raw models.RawTender) (models.Tender, FieldReport) {
	var (
		t      models.Tender
		report FieldReport
	)

	for _, src := range sourceFields {
		v, ok := raw.Lookup(src.key)
		if !ok {
			continue
		}

		if src.key == models.KeyDescription {
			if s, isString := v.(string); isString {
				v = m.strings.CapitalizeFirst(s)
			}
		}

		*src.field(&t) = render(ScrubValue(v))
	}

	if published, ok := TryTransform(NormalizePublished, t.DatePublished); ok {
		t.DatePublished = published
		t.Date = DeriveDate(published)
	} else if t.DatePublished != "" {
		report.Fallbacks = append(report.Fallbacks, FieldError{Field: "Date published", Value: t.DatePublished})
	}

	if closing, ok := TryTransform(NormalizeClosing, t.ClosingDate); ok {
		t.ClosingDate = closing
	} else if t.ClosingDate != "" {
		report.Fallbacks = append(report.Fallbacks, FieldError{Field: "Closing date", Value: t.ClosingDate})
	}

	return t, report
}

// render turns a decoded JSON value into cell text.
func render(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "True"
		}

		return "False"
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}

		return string(b)
	}
}
