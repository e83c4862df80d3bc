package requests

import (
	"barangay/internal/utils"
	"barangay/pkg/types"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const referenceDigits = 4

var referencePattern = regexp.MustCompile(`^(ZC|BI|BC)-\d{8}-\d{4}$`)

// NewReferenceNumber formats {PREFIX}-{YYYYMMDD}-{NNNN} for the document
// type, dated at the given instant in its own location.
func NewReferenceNumber(docType types.DocumentType, at time.Time) (string, error) {
	prefix := docType.Prefix()
	if prefix == "" {
		return "", fmt.Errorf("unknown document type %q", docType)
	}

	suffix, err := utils.Digits(referenceDigits)
	if err != nil {
		return "", fmt.Errorf("failed to generate reference suffix: %w", err)
	}

	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102"), suffix), nil
}

// ValidReferenceNumber reports whether ref has the issued shape, ignoring case.
func ValidReferenceNumber(ref string) bool {
	return referencePattern.MatchString(strings.ToUpper(strings.TrimSpace(ref)))
}
