package normalizer

import (
	"errors"

	"etenders/internal/models"
)

// Descriptor validation errors.
var (
	ErrMissingDocumentID        = errors.New("document descriptor missing supportDocumentID")
	ErrMissingDocumentExtension = errors.New("document descriptor missing extension")
	ErrMissingDocumentFileName  = errors.New("document descriptor missing fileName")
)

// Validator checks document descriptors before a download URL is built.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDescriptor requires identifier, extension and file name to be
// present. Empty values are accepted.
func (v *Validator) ValidateDescriptor(d models.DocumentDescriptor) error {
	if !d.Has(models.DescriptorID) {
		return ErrMissingDocumentID
	}

	if !d.Has(models.DescriptorExtension) {
		return ErrMissingDocumentExtension
	}

	if !d.Has(models.DescriptorFileName) {
		return ErrMissingDocumentFileName
	}

	return nil
}
