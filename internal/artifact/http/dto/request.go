// Package dto provides data transfer objects for the PDF endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/quotelink/internal/validation"
)

// ProposalRequest is the body of POST /v1/proposals/pdf.
type ProposalRequest struct {
	HTML     string `json:"html"`
	Filename string `json:"filename"`
}

// Validate checks if the proposal request is valid. A blank filename is allowed.
func (r *ProposalRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.HTML, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Filename, validation.Length(0, 255), customValidation.PDFFilename),
	)
}

// LegacyQuotePDFRequest names the quote of GET/POST /api/pdf in the query string.
type LegacyQuotePDFRequest struct {
	QID string `form:"qid"`
}

// Validate checks if the legacy request is valid.
func (r *LegacyQuotePDFRequest) Validate() error {
	return customValidation.ValidateRecordID("qid", r.QID)
}
