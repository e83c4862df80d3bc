package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentTypePrefix(t *testing.T) {
	assert.Equal(t, "ZC", DocumentTypeZoneClearance.Prefix())
	assert.Equal(t, "BI", DocumentTypeIndigency.Prefix())
	assert.Equal(t, "BC", DocumentTypeClearance.Prefix())
	assert.Empty(t, DocumentType("passport").Prefix())
}

func TestParseDocumentType(t *testing.T) {
	got, err := ParseDocumentType("indigency")
	require.NoError(t, err)
	assert.Equal(t, DocumentTypeIndigency, got)

	_, err = ParseDocumentType("passport")
	assert.Error(t, err)
}

func TestFormSpecs(t *testing.T) {
	for _, docType := range DocumentTypes {
		spec, ok := FormSpecFor(docType)
		require.True(t, ok, docType)

		bySlug, ok := FormSpecBySlug(spec.Slug)
		require.True(t, ok)
		assert.Equal(t, spec, bySlug)

		// only the zone clearance itself can be requested without one
		assert.Equal(t, docType != DocumentTypeZoneClearance, spec.RequiresZoneClearance)
	}

	_, ok := FormSpecBySlug("passport")
	assert.False(t, ok)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"zone_id": "Select a zone.", "age": "Required."}}
	assert.Equal(t, "validation failed: age: Required.; zone_id: Select a zone.", err.Error())
}

func TestFullName(t *testing.T) {
	middle := "Santos"
	r := &DocumentRequest{FirstName: "Juan", LastName: "Dela Cruz"}
	assert.Equal(t, "Juan Dela Cruz", r.FullName())

	r.MiddleName = &middle
	assert.Equal(t, "Juan Santos Dela Cruz", r.FullName())
}
