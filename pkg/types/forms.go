package types

import "time"

// RequestForm is the applicant form shared by every document type.
type RequestForm struct {
	FirstName     string        `form:"first_name" validate:"required,max=100"`
	MiddleName    string        `form:"middle_name" validate:"max=100"`
	LastName      string        `form:"last_name" validate:"required,max=100"`
	Age           int           `form:"age" validate:"required,min=1,max=150"`
	BirthDate     time.Time     `form:"birth_date" validate:"required"`
	Address       string        `form:"address" validate:"required,max=255"`
	ZoneID        string        `form:"zone_id" validate:"required"`
	Contact       string        `form:"contact" validate:"required,max=32"`
	Email         string        `form:"email" validate:"omitempty,email,max=255"`
	MaritalStatus MaritalStatus `form:"marital_status" validate:"required,oneof=single married widowed separated"`
	Purpose       string        `form:"purpose" validate:"required,max=255"`

	HasZoneClearance       bool   `form:"has_zone_clearance"`
	ZoneClearanceReference string `form:"zone_clearance_reference" validate:"max=32"`
}

// Upload is a file taken off a multipart form.
type Upload struct {
	FileName string
	Data     []byte
}

// Submission is one applicant submission for a document type.
type Submission struct {
	DocumentType DocumentType
	Form         RequestForm
	ProofFile    *Upload
	ValidIDFile  *Upload
}

// FormSpec describes how the request form behaves for a document type.
type FormSpec struct {
	DocumentType DocumentType
	Slug         string
	Title        string
	Description  string

	// RequiresZoneClearance gates submission on a verified, approved zone clearance.
	RequiresZoneClearance bool
	// OffersExistingClearance lets the applicant declare and attach an existing clearance.
	OffersExistingClearance bool
}

var FormSpecs = []FormSpec{
	{
		DocumentType:            DocumentTypeZoneClearance,
		Slug:                    "zone-clearance",
		Title:                   "Zone Clearance",
		Description:             "Certifies residency within a zone. Required before requesting an indigency certificate or barangay clearance.",
		OffersExistingClearance: true,
	},
	{
		DocumentType:          DocumentTypeIndigency,
		Slug:                  "indigency",
		Title:                 "Barangay Indigency",
		Description:           "Certifies financial-need status. Requires an approved zone clearance.",
		RequiresZoneClearance: true,
	},
	{
		DocumentType:          DocumentTypeClearance,
		Slug:                  "clearance",
		Title:                 "Barangay Clearance",
		Description:           "General-purpose certification. Requires an approved zone clearance.",
		RequiresZoneClearance: true,
	},
}

func FormSpecBySlug(slug string) (FormSpec, bool) {
	for _, spec := range FormSpecs {
		if spec.Slug == slug {
			return spec, true
		}
	}
	return FormSpec{}, false
}

func FormSpecFor(docType DocumentType) (FormSpec, bool) {
	for _, spec := range FormSpecs {
		if spec.DocumentType == docType {
			return spec, true
		}
	}
	return FormSpec{}, false
}
