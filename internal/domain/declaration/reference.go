package declaration

import (
	"fmt"
	"strings"

	"github.com/customs/backend/internal/domain/shared"
)

const (
	// CustomsReferencePrefix is the leading letter of every customs reference number
	CustomsReferencePrefix = "P"
	// AssessmentSerialPrefix is the leading letter of every assessment serial
	AssessmentSerialPrefix = "L"
	// SequenceName is the logical counter name backing customs reference numbers
	SequenceName = "customsRef"
)

// ErrInvalidReferenceFormat indicates a customs reference that does not carry the expected prefix
var ErrInvalidReferenceFormat = shared.NewDomainError("INVALID_REFERENCE_FORMAT", "Customs reference number must start with 'P'")

// SequenceKey builds the counter key for a given calendar year.
// Numbering restarts at 1 each year because the year is part of the key.
func SequenceKey(year int) string {
	return fmt.Sprintf("%s%d", SequenceName, year)
}

// FormatCustomsReference formats a counter value and year as a customs
// reference number, e.g. value 42 in 2024 yields "P422024". The counter
// value is rendered without zero-padding.
func FormatCustomsReference(value int64, year int) string {
	return fmt.Sprintf("%s%d%d", CustomsReferencePrefix, value, year)
}

// AssessmentSerialFor derives the assessment serial from a customs reference
// number by replacing the leading "P" with "L", leaving the rest unchanged.
func AssessmentSerialFor(customsReference string) (string, error) {
	if !strings.HasPrefix(customsReference, CustomsReferencePrefix) {
		return "", ErrInvalidReferenceFormat
	}
	return AssessmentSerialPrefix + customsReference[len(CustomsReferencePrefix):], nil
}

// ReferencePair is a customs reference number together with its derived
// assessment serial. Both are assigned atomically when a declaration is
// assessed and never change afterwards.
type ReferencePair struct {
	CustomsReferenceNumber string
	AssessmentSerial       string
}

// NewReferencePair builds a reference pair from a counter value and year
func NewReferencePair(value int64, year int) (ReferencePair, error) {
	ref := FormatCustomsReference(value, year)
	serial, err := AssessmentSerialFor(ref)
	if err != nil {
		return ReferencePair{}, err
	}
	return ReferencePair{
		CustomsReferenceNumber: ref,
		AssessmentSerial:       serial,
	}, nil
}
