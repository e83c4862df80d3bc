package types

import (
	"fmt"
	"time"
)

type DocumentType string

const (
	DocumentTypeZoneClearance DocumentType = "zone_clearance"
	DocumentTypeIndigency     DocumentType = "indigency"
	DocumentTypeClearance     DocumentType = "clearance"
)

var DocumentTypes = []DocumentType{
	DocumentTypeZoneClearance,
	DocumentTypeIndigency,
	DocumentTypeClearance,
}

// Prefix is the reference number prefix issued for the document type.
func (d DocumentType) Prefix() string {
	switch d {
	case DocumentTypeZoneClearance:
		return "ZC"
	case DocumentTypeClearance:
		return "BC"
	case DocumentTypeIndigency:
		return "BI"
	default:
		return ""
	}
}

func (d DocumentType) Label() string {
	switch d {
	case DocumentTypeZoneClearance:
		return "Zone Clearance"
	case DocumentTypeIndigency:
		return "Barangay Indigency"
	case DocumentTypeClearance:
		return "Barangay Clearance"
	default:
		return string(d)
	}
}

func (d DocumentType) Valid() bool {
	return d.Prefix() != ""
}

func ParseDocumentType(v string) (DocumentType, error) {
	d := DocumentType(v)
	if !d.Valid() {
		return "", fmt.Errorf("unknown document type %q", v)
	}
	return d, nil
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

var RequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusApproved,
	RequestStatusRejected,
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

type MaritalStatus string

const (
	MaritalStatusSingle    MaritalStatus = "single"
	MaritalStatusMarried   MaritalStatus = "married"
	MaritalStatusWidowed   MaritalStatus = "widowed"
	MaritalStatusSeparated MaritalStatus = "separated"
)

var MaritalStatuses = []MaritalStatus{
	MaritalStatusSingle,
	MaritalStatusMarried,
	MaritalStatusWidowed,
	MaritalStatusSeparated,
}

type DocumentRequest struct {
	ID              string `db:"id"`
	ReferenceNumber string `db:"reference_number"`

	FirstName     string        `db:"first_name"`
	MiddleName    *string       `db:"middle_name"`
	LastName      string        `db:"last_name"`
	Age           int           `db:"age"`
	BirthDate     time.Time     `db:"birth_date"`
	Address       string        `db:"address"`
	ZoneID        string        `db:"zone_id"`
	Contact       string        `db:"contact"`
	Email         *string       `db:"email"`
	MaritalStatus MaritalStatus `db:"marital_status"`

	DocumentType           DocumentType `db:"document_type"`
	Purpose                string       `db:"purpose"`
	HasZoneClearance       bool         `db:"has_zone_clearance"`
	ZoneClearanceFileID    *string      `db:"zone_clearance_file_id"`
	ZoneClearanceReference *string      `db:"zone_clearance_reference"`
	ValidIDFileID          *string      `db:"valid_id_file_id"`

	Status          RequestStatus `db:"status"`
	RejectionReason *string       `db:"rejection_reason"`
	RequestDate     time.Time     `db:"request_date"`
	ProcessedBy     *string       `db:"processed_by"`
	ProcessedAt     *time.Time    `db:"processed_at"`
	UpdatedAt       *time.Time    `db:"updated_at"`
}

func (r *DocumentRequest) FullName() string {
	if r.MiddleName != nil && *r.MiddleName != "" {
		return fmt.Sprintf("%s %s %s", r.FirstName, *r.MiddleName, r.LastName)
	}
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

// RequestPatch holds the fields an update may change. Nil fields are left
// untouched. ExpectStatus, when set, makes the update conditional on the
// row's current status.
type RequestPatch struct {
	Status          *RequestStatus
	RejectionReason *string
	ProcessedBy     *string
	ProcessedAt     *time.Time

	ExpectStatus *RequestStatus
}

type RequestFilter struct {
	Status RequestStatus
	Search string
}

// VerificationQuery identifies a zone clearance by reference number, email
// or phone. The first non-empty field wins.
type VerificationQuery struct {
	Reference string
	Email     string
	Phone     string
}

func (q VerificationQuery) Empty() bool {
	return q.Reference == "" && q.Email == "" && q.Phone == ""
}

type StatusCounts struct {
	Total    int
	Pending  int
	Approved int
	Rejected int
}

type RequestEvent struct {
	ID        string        `db:"id"`
	RequestID string        `db:"request_id"`
	Status    RequestStatus `db:"status"`
	Actor     string        `db:"actor"`
	Note      *string       `db:"note"`
	CreatedAt time.Time     `db:"created_at"`
}
