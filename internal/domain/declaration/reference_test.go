package declaration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceKey(t *testing.T) {
	assert.Equal(t, "customsRef2024", SequenceKey(2024))
	assert.Equal(t, "customsRef2025", SequenceKey(2025))
}

func TestFormatCustomsReference(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		year  int
		want  string
	}{
		{"first value of year", 1, 2024, "P12024"},
		{"mid-range value", 42, 2024, "P422024"},
		{"no zero padding", 7, 2025, "P72025"},
		{"large value", 123456, 2024, "P1234562024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCustomsReference(tt.value, tt.year))
		})
	}
}

func TestAssessmentSerialFor(t *testing.T) {
	serial, err := AssessmentSerialFor("P422024")
	require.NoError(t, err)
	assert.Equal(t, "L422024", serial)

	serial, err = AssessmentSerialFor("P12025")
	require.NoError(t, err)
	assert.Equal(t, "L12025", serial)
}

func TestAssessmentSerialFor_InvalidFormat(t *testing.T) {
	for _, ref := range []string{"", "X422024", "422024", "L422024"} {
		_, err := AssessmentSerialFor(ref)
		assert.ErrorIs(t, err, ErrInvalidReferenceFormat, "reference %q", ref)
	}
}

func TestAssessmentSerialFor_MatchesReferenceExceptPrefix(t *testing.T) {
	ref := FormatCustomsReference(57, 2024)
	serial, err := AssessmentSerialFor(ref)
	require.NoError(t, err)

	assert.Equal(t, "L", serial[:1])
	assert.Equal(t, ref[1:], serial[1:])
}

func TestNewReferencePair(t *testing.T) {
	pair, err := NewReferencePair(1, 2024)
	require.NoError(t, err)
	assert.Equal(t, "P12024", pair.CustomsReferenceNumber)
	assert.Equal(t, "L12024", pair.AssessmentSerial)
}
