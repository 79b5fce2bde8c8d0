// Package validation provides custom validation rules for the application.
package validation

import (
	"path"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/quotelink/internal/errors"
)

var (
	// recordIDRegex matches CRM record ids, which end up as a URL path segment upstream.
	recordIDRegex = regexp.MustCompile(`^[0-9A-Za-z_-]{1,64}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput. Errors already
// classified as a missing or invalid parameter are returned unchanged.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.Is(err, apperrors.ErrMissingParameter) || apperrors.Is(err, apperrors.ErrInvalidParameter) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// ValidateRecordID checks a record id taken from a path, query or body field. A blank id is
// a missing parameter; anything RecordID rejects is an invalid one.
func ValidateRecordID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.Wrap(apperrors.ErrMissingParameter, field+": cannot be blank")
	}
	if err := validation.Validate(id, RecordID); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidParameter, field+": "+err.Error())
	}
	return nil
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// RecordID validates a CRM record id.
var RecordID = validation.NewStringRuleWithError(
	func(s string) bool {
		return recordIDRegex.MatchString(strings.TrimSpace(s))
	},
	validation.NewError("validation_record_id", "must be a valid record id"),
)

// PDFFilename validates a bare file name ending in .pdf.
var PDFFilename = validation.NewStringRuleWithError(
	func(s string) bool {
		if s != path.Base(s) || strings.ContainsAny(s, `/\`) {
			return false
		}
		return strings.HasSuffix(strings.ToLower(s), ".pdf") && len(s) > len(".pdf")
	},
	validation.NewError("validation_pdf_filename", "must be a file name ending in .pdf"),
)
