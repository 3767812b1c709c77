package normalizer

import (
	"encoding/json"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etenders/internal/models"
)

func fullRawTender() models.RawTender {
	return models.RawTender{
		"category":      "\tServices: Professional",
		"description":   "appointment of a service provider; phase 2 ",
		"tender_No":     "RFB 01/2023",
		"department":    "Department of Health",
		"type":          "Request for Bid(Open-Tender)",
		"province":      "Gauteng",
		"dp":            "Monday, 04 September 2023",
		"cd":            "Friday, 15 September 2023 - 11:00",
		"delivery":      "Pretoria",
		"conditions":    "N/A",
		"contactPerson": "J. Smith",
		"email":         "j.smith@example.gov.za",
		"telephone":     "012-345-6789",
		"fax":           "",
		"bf":            "No",
		"bc":            false,
		"brief":         "<not available>",
		"briefingVenue": "\t",
		"sd": []any{
			map[string]any{"supportDocumentID": "ABC", "extension": ".pdf", "fileName": "Spec Doc"},
		},
	}
}

func TestMapper_FullRecord(t *testing.T) {
	m := NewMapper()

	got, report := m.MapWithReport(fullRawTender())

	want := models.Tender{
		Services:          "Services: Professional",
		Description:       "Appointment of a service provider phase 2",
		Date:              "04/09/2023",
		TenderNumber:      "RFB 01/2023",
		Department:        "Department of Health",
		TenderType:        "Request for Bid(Open-Tender)",
		Province:          "Gauteng",
		DatePublished:     "04.09.2023",
		ClosingDate:       "15.09.2023",
		PlaceRequired:     "Pretoria",
		SpecialConditions: "N/A",
		ContactPerson:     "J. Smith",
		ContactEmail:      "j.smith@example.gov.za",
		ContactPhone:      "012-345-6789",
		ContactFax:        "",
		BriefingSession:   "No",
		BriefingRequired:  "False",
		BriefingDateTime:  "<not available>",
		BriefingVenue:     "",
		TenderDocuments:   "",
	}

	assert.Equal(t, want, got)
	assert.Empty(t, report.Fallbacks)
}

func TestMapper_EmptyRecord(t *testing.T) {
	got := NewMapper().Map(models.RawTender{})

	assert.Equal(t, models.Tender{}, got)
	assert.Len(t, got.AsMap(), len(models.Columns))
}

func TestMapper_NullValues(t *testing.T) {
	got := NewMapper().Map(models.RawTender{"description": nil, "dp": nil, "province": nil})

	assert.Equal(t, models.Tender{}, got)
}

func TestMapper_DescriptionCapitalization(t *testing.T) {
	m := NewMapper()

	got := m.Map(models.RawTender{"description": "supply of PPE to KZN clinics"})
	assert.Equal(t, "Supply of PPE to KZN clinics", got.Description)

	// Capitalization happens before scrubbing, so leading whitespace shields the first letter.
	got = m.Map(models.RawTender{"description": "\tsupply"})
	assert.Equal(t, "supply", got.Description)

	got = m.Map(models.RawTender{"description": json.Number("12")})
	assert.Equal(t, "12", got.Description)
}

func TestMapper_DateFallbacks(t *testing.T) {
	got, report := NewMapper().MapWithReport(models.RawTender{
		"dp": " 2023-09-04 ",
		"cd": "next Friday",
	})

	assert.Equal(t, "2023-09-04", got.DatePublished)
	assert.Equal(t, "next Friday", got.ClosingDate)
	assert.Empty(t, got.Date, "Date is only derived from a parsed published date")

	require.Len(t, report.Fallbacks, 2)
	assert.Equal(t, "Date published", report.Fallbacks[0].Field)
	assert.Equal(t, "Closing date", report.Fallbacks[1].Field)
}

func TestMapper_DateIsNeverSourced(t *testing.T) {
	got := NewMapper().Map(models.RawTender{"Date": "01/01/2020", "date": "01/01/2020"})

	assert.Empty(t, got.Date)
}

func TestMapper_NonStringScalars(t *testing.T) {
	got := NewMapper().Map(models.RawTender{
		"bc":        true,
		"telephone": json.Number("0123456789"),
		"fax":       3.5,
		"delivery":  []any{"a", "b"},
	})

	assert.Equal(t, "True", got.BriefingRequired)
	assert.Equal(t, "0123456789", got.ContactPhone)
	assert.Equal(t, "3.5", got.ContactFax)
	assert.Equal(t, `["a","b"]`, got.PlaceRequired)
}

func TestMapper_RandomRecordsAlwaysHaveEveryColumn(t *testing.T) {
	faker := gofakeit.New(42)
	m := NewMapper()

	generators := map[string]func() any{
		models.KeyCategory:      func() any { return faker.Word() },
		models.KeyDescription:   func() any { return faker.Sentence(6) },
		models.KeyTenderNumber:  func() any { return faker.UUID() },
		models.KeyDepartment:    func() any { return faker.Company() },
		models.KeyType:          func() any { return faker.Word() },
		models.KeyProvince:      func() any { return faker.State() },
		models.KeyPublished:     func() any { return faker.Date().Format(PublishedLayout) },
		models.KeyClosing:       func() any { return faker.Date().Format(ClosingLayout) },
		models.KeyDelivery:      func() any { return faker.City() },
		models.KeyConditions:    func() any { return faker.Sentence(3) },
		models.KeyContactPerson: func() any { return faker.Name() },
		models.KeyEmail:         func() any { return faker.Email() },
		models.KeyTelephone:     func() any { return faker.Phone() },
		models.KeyFax:           func() any { return nil },
		models.KeyBriefing:      func() any { return faker.Bool() },
		models.KeyBriefingReq:   func() any { return faker.Bool() },
		models.KeyBriefingDate:  func() any { return "<not available>" },
		models.KeyBriefingVenue: func() any { return faker.Street() },
	}

	for i := 0; i < 200; i++ {
		raw := models.RawTender{}

		for key, gen := range generators {
			if faker.Bool() {
				raw[key] = gen()
			}
		}

		got := m.Map(raw)

		row := got.AsMap()
		require.Len(t, row, len(models.Columns))

		for _, col := range models.Columns {
			_, ok := row[col]
			assert.True(t, ok, "column %q missing", col)
		}

		if _, ok := raw[models.KeyPublished]; ok {
			assert.Equal(t, DeriveDate(got.DatePublished), got.Date)
		} else {
			assert.Empty(t, got.Date)
		}

		for _, v := range got.Values() {
			assert.NotContains(t, v, "\t")
			assert.NotContains(t, v, ";")
		}
	}
}
