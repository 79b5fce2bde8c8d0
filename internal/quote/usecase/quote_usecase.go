package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/allisson/quotelink/internal/errors"
	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

// Config holds quote use case configuration.
type Config struct {
	// RequireToken makes SubmitDecision verify the link token even when none is supplied.
	RequireToken bool
	Clock        func() time.Time
}

type quoteUseCase struct {
	config  Config
	repo    QuoteRepository
	tokens  TokenProvider
	trigger ArtifactTrigger
	logger  *slog.Logger
}

// NewQuoteUseCase creates the workflow. trigger may be nil when PDF generation on accept is
// disabled.
func NewQuoteUseCase(
	config Config,
	repo QuoteRepository,
	tokens TokenProvider,
	trigger ArtifactTrigger,
	logger *slog.Logger,
) QuoteUseCase {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &quoteUseCase{
		config:  config,
		repo:    repo,
		tokens:  tokens,
		trigger: trigger,
		logger:  logger,
	}
}

func (q *quoteUseCase) FetchPublicView(
	ctx context.Context,
	quoteID, token string,
) (*quoteDomain.PublicView, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return nil, quoteDomain.ErrQuoteIDRequired
	}
	if strings.TrimSpace(token) == "" {
		return nil, quoteDomain.ErrLinkTokenRequired
	}

	record, err := q.fetch(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	now := q.config.Clock()
	status := quoteDomain.Resolve(record, now)

	// Answered quotes stay readable with the old link; their token was expired on purpose.
	if !status.IsFinal() {
		if err := checkLink(record, token, now); err != nil {
			return nil, err
		}
	}

	return quoteDomain.NewPublicView(record, status), nil
}

func (q *quoteUseCase) SubmitDecision(
	ctx context.Context,
	quoteID string,
	decision quoteDomain.UpdateDecision,
) (*quoteDomain.Ack, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return nil, quoteDomain.ErrQuoteIDRequired
	}
	if strings.TrimSpace(decision.Action) == "" {
		return nil, quoteDomain.ErrActionRequired
	}

	if err := q.checkWritable(ctx, quoteID, decision.Token); err != nil {
		return nil, err
	}

	status := quoteDomain.NormalizeAction(decision.Action)
	payload := quoteDomain.NewUpdatePayload(status, decision, q.config.Clock())

	err := q.withTokenRetry(ctx, func(accessToken string) error {
		return q.repo.Update(ctx, accessToken, quoteID, payload)
	})
	if err != nil {
		if errors.Is(err, errors.ErrUpstreamTokenInvalid) || errors.Is(err, errors.ErrUpstreamRejected) {
			return nil, fmt.Errorf("%w: %w", quoteDomain.ErrUpdateRejected, err)
		}
		return nil, err
	}

	q.logger.Info("quote decision recorded",
		slog.String("quote_id", quoteID),
		slog.String("status", string(status)),
	)

	if status == quoteDomain.StatusAccepted {
		q.scheduleArtifact(ctx, quoteID)
	}

	return &quoteDomain.Ack{Action: status, Sent: payload}, nil
}

func (q *quoteUseCase) Get(
	ctx context.Context,
	quoteID string,
) (*quoteDomain.QuoteRecord, quoteDomain.Status, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return nil, "", quoteDomain.ErrQuoteIDRequired
	}

	record, err := q.fetch(ctx, quoteID)
	if err != nil {
		return nil, "", err
	}
	return record, quoteDomain.Resolve(record, q.config.Clock()), nil
}

func (q *quoteUseCase) Attach(ctx context.Context, quoteID, filename string, content []byte) error {
	return q.withTokenRetry(ctx, func(accessToken string) error {
		return q.repo.Attach(ctx, accessToken, quoteID, filename, content)
	})
}

func (q *quoteUseCase) fetch(ctx context.Context, quoteID string) (*quoteDomain.QuoteRecord, error) {
	var record *quoteDomain.QuoteRecord
	err := q.withTokenRetry(ctx, func(accessToken string) error {
		var err error
		record, err = q.repo.Get(ctx, accessToken, quoteID)
		return err
	})
	return record, err
}

// checkWritable reads the quote before a write. A supplied (or required) link token gets the
// read checks without the answered-quote relaxation, and answered quotes are never rewritten.
func (q *quoteUseCase) checkWritable(ctx context.Context, quoteID, token string) error {
	verifyToken := token != "" || q.config.RequireToken
	if verifyToken && strings.TrimSpace(token) == "" {
		return quoteDomain.ErrLinkTokenRequired
	}

	record, err := q.fetch(ctx, quoteID)
	if err != nil {
		return err
	}

	now := q.config.Clock()
	if verifyToken {
		if err := checkLink(record, token, now); err != nil {
			return err
		}
	}
	if quoteDomain.Resolve(record, now).IsFinal() {
		return quoteDomain.ErrQuoteAnswered
	}
	return nil
}

func checkLink(record *quoteDomain.QuoteRecord, token string, now time.Time) error {
	if !quoteDomain.TokenMatches(token, record.AcceptanceToken) {
		return quoteDomain.ErrInvalidLinkToken
	}
	if record.LinkExpired(now) {
		return quoteDomain.ErrLinkTokenExpired
	}
	return nil
}

// withTokenRetry runs call with a cached access token. When the CRM rejects the token, it is
// invalidated and call runs exactly once more with a fresh one.
func (q *quoteUseCase) withTokenRetry(ctx context.Context, call func(accessToken string) error) error {
	accessToken, err := q.tokens.GetToken(ctx)
	if err != nil {
		return err
	}

	err = call(accessToken)
	if !errors.Is(err, errors.ErrUpstreamTokenInvalid) {
		return err
	}

	q.logger.Warn("crm rejected access token, retrying with a fresh one", slog.Any("error", err))
	q.tokens.Invalidate()

	accessToken, err = q.tokens.GetToken(ctx)
	if err != nil {
		return err
	}
	return call(accessToken)
}

func (q *quoteUseCase) scheduleArtifact(ctx context.Context, quoteID string) {
	if q.trigger == nil {
		return
	}
	if err := q.trigger.Trigger(context.WithoutCancel(ctx), quoteID); err != nil {
		q.logger.Error("failed to schedule quote pdf",
			slog.String("quote_id", quoteID),
			slog.Any("error", err),
		)
	}
}
