package usecase

import (
	"context"
	"time"

	"github.com/allisson/quotelink/internal/metrics"
	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

// quoteUseCaseWithMetrics decorates QuoteUseCase with metrics instrumentation.
type quoteUseCaseWithMetrics struct {
	next    QuoteUseCase
	metrics metrics.BusinessMetrics
}

// NewQuoteUseCaseWithMetrics wraps a QuoteUseCase with metrics recording.
func NewQuoteUseCaseWithMetrics(useCase QuoteUseCase, m metrics.BusinessMetrics) QuoteUseCase {
	return &quoteUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (q *quoteUseCaseWithMetrics) FetchPublicView(
	ctx context.Context,
	quoteID, token string,
) (*quoteDomain.PublicView, error) {
	start := time.Now()
	view, err := q.next.FetchPublicView(ctx, quoteID, token)
	q.record(ctx, "fetch_public_view", start, err)
	return view, err
}

func (q *quoteUseCaseWithMetrics) SubmitDecision(
	ctx context.Context,
	quoteID string,
	decision quoteDomain.UpdateDecision,
) (*quoteDomain.Ack, error) {
	start := time.Now()
	ack, err := q.next.SubmitDecision(ctx, quoteID, decision)
	q.record(ctx, "submit_decision", start, err)
	return ack, err
}

func (q *quoteUseCaseWithMetrics) Get(
	ctx context.Context,
	quoteID string,
) (*quoteDomain.QuoteRecord, quoteDomain.Status, error) {
	start := time.Now()
	record, status, err := q.next.Get(ctx, quoteID)
	q.record(ctx, "get", start, err)
	return record, status, err
}

func (q *quoteUseCaseWithMetrics) Attach(ctx context.Context, quoteID, filename string, content []byte) error {
	start := time.Now()
	err := q.next.Attach(ctx, quoteID, filename, content)
	q.record(ctx, "attach_document", start, err)
	return err
}

func (q *quoteUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	q.metrics.RecordOperation(ctx, "quote", operation, status)
	q.metrics.RecordDuration(ctx, "quote", operation, time.Since(start), status)
}
