// Package models defines data structures for the scraper and normalizer.
package models

// Source keys of the tender opportunities payload.
const (
	KeyCategory      = "category"
	KeyDescription   = "description"
	KeyTenderNumber  = "tender_No"
	KeyDepartment    = "department"
	KeyType          = "type"
	KeyProvince      = "province"
	KeyPublished     = "dp"
	KeyClosing       = "cd"
	KeyDelivery      = "delivery"
	KeyConditions    = "conditions"
	KeyContactPerson = "contactPerson"
	KeyEmail         = "email"
	KeyTelephone     = "telephone"
	KeyFax           = "fax"
	KeyBriefing      = "bf"
	KeyBriefingReq   = "bc"
	KeyBriefingDate  = "brief"
	KeyBriefingVenue = "briefingVenue"
	KeyDocuments     = "sd"
)

// Columns is the header row of a snapshot, in output order.
var Columns = []string{
	"Services",
	"Description",
	"Date",
	"Tender Number",
	"Department",
	"Tender Type",
	"Province",
	"Date published",
	"Closing date",
	"Place where service will be required",
	"Special conditions",
	"Contact person",
	"Contact email",
	"Contact phone",
	"Contact fax",
	"Briefing Session",
	"Is briefing required",
	"Briefing date and time",
	"Briefing venue",
	"Tender documents",
}

// RawTender is one undecoded element of the opportunities listing.
// Any key may be missing or hold an unexpected type.
type RawTender map[string]any

// Lookup returns the value stored under key and whether it was present and non-null.
func (r RawTender) Lookup(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

// DescriptorField identifies one field of a DocumentDescriptor.
type DescriptorField uint8

// Descriptor fields, combinable as flags.
const (
	DescriptorID DescriptorField = 1 << iota
	DescriptorExtension
	DescriptorFileName
)

// DocumentDescriptor describes one supporting document attached to a tender.
// Empty strings are valid values; Missing flags fields the payload did not
// carry as strings.
type DocumentDescriptor struct {
	ID        string          `json:"supportDocumentID"`
	Extension string          `json:"extension"`
	FileName  string          `json:"fileName"`
	Missing   DescriptorField `json:"-"`
}

// Has reports whether field was present in the payload.
func (d DocumentDescriptor) Has(field DescriptorField) bool {
	return d.Missing&field == 0
}

// BlobName is the storage key used to request a document download.
func (d DocumentDescriptor) BlobName() string {
	return d.ID + d.Extension
}

// Tender is a normalized tender row. All fields are always present and the
// struct is comparable, so equal rows are equal values.
type Tender struct {
	Services          string `json:"services"`
	Description       string `json:"description"`
	Date              string `json:"date"`
	TenderNumber      string `json:"tenderNumber"`
	Department        string `json:"department"`
	TenderType        string `json:"tenderType"`
	Province          string `json:"province"`
	DatePublished     string `json:"datePublished"`
	ClosingDate       string `json:"closingDate"`
	PlaceRequired     string `json:"placeRequired"`
	SpecialConditions string `json:"specialConditions"`
	ContactPerson     string `json:"contactPerson"`
	ContactEmail      string `json:"contactEmail"`
	ContactPhone      string `json:"contactPhone"`
	ContactFax        string `json:"contactFax"`
	BriefingSession   string `json:"briefingSession"`
	BriefingRequired  string `json:"briefingRequired"`
	BriefingDateTime  string `json:"briefingDateTime"`
	BriefingVenue     string `json:"briefingVenue"`
	TenderDocuments   string `json:"tenderDocuments"`
}

// Values returns the row in Columns order.
func (t *Tender) Values() []string {
	return []string{
		t.Services,
		t.Description,
		t.Date,
		t.TenderNumber,
		t.Department,
		t.TenderType,
		t.Province,
		t.DatePublished,
		t.ClosingDate,
		t.PlaceRequired,
		t.SpecialConditions,
		t.ContactPerson,
		t.ContactEmail,
		t.ContactPhone,
		t.ContactFax,
		t.BriefingSession,
		t.BriefingRequired,
		t.BriefingDateTime,
		t.BriefingVenue,
		t.TenderDocuments,
	}
}

// Fields returns pointers to every field in Columns order.
func (t *Tender) Fields() []*string {
	return []*string{
		&t.Services,
		&t.Description,
		&t.Date,
		&t.TenderNumber,
		&t.Department,
		&t.TenderType,
		&t.Province,
		&t.DatePublished,
		&t.ClosingDate,
		&t.PlaceRequired,
		&t.SpecialConditions,
		&t.ContactPerson,
		&t.ContactEmail,
		&t.ContactPhone,
		&t.ContactFax,
		&t.BriefingSession,
		&t.BriefingRequired,
		&t.BriefingDateTime,
		&t.BriefingVenue,
		&t.TenderDocuments,
	}
}

// AsMap returns the row keyed by column name.
func (t *Tender) AsMap() map[string]string {
	values := t.Values()

	m := make(map[string]string, len(Columns))
	for i, col := range Columns {
		m[col] = values[i]
	}

	return m
}

// TenderFromValues builds a Tender from a row in Columns order. Missing
// trailing cells are left empty.
func TenderFromValues(values []string) Tender {
	var t Tender

	for i, field := range t.Fields() {
		if i < len(values) {
			*field = values[i]
		}
	}

	return t
}
