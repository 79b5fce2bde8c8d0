package domain

import "fmt"

// DefaultProposalFilename is used when a proposal request names no file.
const DefaultProposalFilename = "Proposal.pdf"

// Document is a rendered PDF.
type Document struct {
	Filename string
	Content  []byte
}

// RenderRequest asks the renderer for a PDF of either a page URL or inline HTML.
type RenderRequest struct {
	URL      string
	HTML     string
	Filename string
}

// GenerationResult reports the outcome of a quote PDF generation.
type GenerationResult struct {
	QuoteID   string
	Status    string
	Generated bool
	Filename  string
	Message   string
}

// QuoteFilename is the attachment name used for a quote's PDF.
func QuoteFilename(quoteID string) string {
	return fmt.Sprintf("Quote_%s.pdf", quoteID)
}
