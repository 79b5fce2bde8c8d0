package dto

import (
	"encoding/base64"

	"github.com/allisson/quotelink/internal/artifact/domain"
)

// QuotePDFResponse reports a quote PDF generation. OK is false when the quote was skipped.
type QuotePDFResponse struct {
	OK       bool   `json:"ok"`
	QuoteID  string `json:"quote_id"`
	Status   string `json:"status"`
	Filename string `json:"filename,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ProposalResponse carries a rendered proposal as base64.
type ProposalResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Base64   string `json:"base64"`
}

// MapGenerationResultToResponse converts a generation result to its response.
func MapGenerationResultToResponse(result *domain.GenerationResult) QuotePDFResponse {
	return QuotePDFResponse{
		OK:       result.Generated,
		QuoteID:  result.QuoteID,
		Status:   result.Status,
		Filename: result.Filename,
		Message:  result.Message,
	}
}

// MapDocumentToProposalResponse converts a rendered document to its response.
func MapDocumentToProposalResponse(doc *domain.Document) ProposalResponse {
	return ProposalResponse{
		Status:   "success",
		Filename: doc.Filename,
		Base64:   base64.StdEncoding.EncodeToString(doc.Content),
	}
}
