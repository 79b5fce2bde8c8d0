package usecase

import (
	"context"
	"time"

	"github.com/allisson/quotelink/internal/artifact/domain"
	"github.com/allisson/quotelink/internal/metrics"
)

// pdfUseCaseWithMetrics decorates PDFUseCase with metrics instrumentation.
type pdfUseCaseWithMetrics struct {
	next    PDFUseCase
	metrics metrics.BusinessMetrics
}

// NewPDFUseCaseWithMetrics wraps a PDFUseCase with metrics recording.
func NewPDFUseCaseWithMetrics(useCase PDFUseCase, m metrics.BusinessMetrics) PDFUseCase {
	return &pdfUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (p *pdfUseCaseWithMetrics) GenerateQuotePDF(
	ctx context.Context,
	quoteID string,
) (*domain.GenerationResult, error) {
	start := time.Now()
	result, err := p.next.GenerateQuotePDF(ctx, quoteID)
	p.record(ctx, "generate_pdf", start, err)
	return result, err
}

func (p *pdfUseCaseWithMetrics) RenderProposal(ctx context.Context, html, filename string) (*domain.Document, error) {
	start := time.Now()
	doc, err := p.next.RenderProposal(ctx, html, filename)
	p.record(ctx, "render_proposal", start, err)
	return doc, err
}

// Process is not instrumented here; the dispatcher records process_job itself.
func (p *pdfUseCaseWithMetrics) Process(ctx context.Context, job *domain.Job) error {
	return p.next.Process(ctx, job)
}

func (p *pdfUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	p.metrics.RecordOperation(ctx, "artifact", operation, status)
	p.metrics.RecordDuration(ctx, "artifact", operation, time.Since(start), status)
}
