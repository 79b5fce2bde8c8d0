// Package usecase implements the quote acceptance workflow: the public read gateway, the
// decision coordinator and the record operations used by the PDF pipeline.
package usecase

import (
	"context"

	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

// QuoteRepository reads and writes quote records with an explicit CRM access token.
type QuoteRepository interface {
	// Get retrieves a quote. Returns ErrQuoteNotFound if the CRM has no such record.
	Get(ctx context.Context, accessToken, id string) (*quoteDomain.QuoteRecord, error)

	// Update writes decision fields to a quote.
	Update(ctx context.Context, accessToken, id string, payload quoteDomain.UpdatePayload) error

	// Attach uploads a file to a quote.
	Attach(ctx context.Context, accessToken, id, filename string, content []byte) error
}

// TokenProvider hands out CRM access tokens.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
	Invalidate()
}

// ArtifactTrigger schedules document generation for an accepted quote. Trigger must not block
// on the generation itself.
type ArtifactTrigger interface {
	Trigger(ctx context.Context, quoteID string) error
}

// QuoteUseCase is the quote acceptance workflow.
type QuoteUseCase interface {
	// FetchPublicView returns the quote as shown to the holder of its link token.
	//
	// Returns ErrMissingParameter for a blank id or token, ErrNotFound, ErrForbidden when the
	// token does not match (unless the quote is already Accepted or Denied) and ErrLinkExpired
	// when the token expiry has passed.
	FetchPublicView(ctx context.Context, quoteID, token string) (*quoteDomain.PublicView, error)

	// SubmitDecision normalizes and writes the customer's answer. An Accepted answer schedules
	// the PDF artifact; scheduling failures are logged and never fail the call.
	SubmitDecision(
		ctx context.Context,
		quoteID string,
		decision quoteDomain.UpdateDecision,
	) (*quoteDomain.Ack, error)

	// Get returns a record and its derived status without link token checks. For internal
	// callers only.
	Get(ctx context.Context, quoteID string) (*quoteDomain.QuoteRecord, quoteDomain.Status, error)

	// Attach uploads a document to the quote.
	Attach(ctx context.Context, quoteID, filename string, content []byte) error
}
