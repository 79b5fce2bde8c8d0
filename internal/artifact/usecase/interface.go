// Package usecase implements the PDF artifact pipeline: quote PDF generation with CRM upload,
// proposal rendering and the in-process job dispatcher that runs generation after acceptance.
package usecase

import (
	"context"

	"github.com/allisson/quotelink/internal/artifact/domain"
	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

// QuoteSource reads quotes and stores documents on them.
type QuoteSource interface {
	Get(ctx context.Context, quoteID string) (*quoteDomain.QuoteRecord, quoteDomain.Status, error)
	Attach(ctx context.Context, quoteID, filename string, content []byte) error
}

// Renderer turns a page URL or inline HTML into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, req domain.RenderRequest) ([]byte, error)
}

// JobProcessor runs a single queued job.
type JobProcessor interface {
	Process(ctx context.Context, job *domain.Job) error
}

// PDFUseCase generates PDF artifacts. It also processes queued quote PDF jobs.
type PDFUseCase interface {
	JobProcessor

	// GenerateQuotePDF renders the public page of an accepted quote and attaches it to the
	// record. Quotes in any other status are skipped with Generated=false.
	GenerateQuotePDF(ctx context.Context, quoteID string) (*domain.GenerationResult, error)

	// RenderProposal renders inline HTML. A blank filename becomes Proposal.pdf.
	RenderProposal(ctx context.Context, html, filename string) (*domain.Document, error)
}
