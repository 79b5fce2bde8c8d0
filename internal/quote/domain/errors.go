package domain

import (
	"github.com/allisson/quotelink/internal/errors"
)

// Quote workflow errors.
var (
	// ErrQuoteIDRequired indicates the request did not name a quote.
	ErrQuoteIDRequired = errors.Wrap(errors.ErrMissingParameter, "quote id is required")

	// ErrLinkTokenRequired indicates the request did not carry a link token.
	ErrLinkTokenRequired = errors.Wrap(errors.ErrMissingParameter, "link token is required")

	// ErrActionRequired indicates a decision without an action.
	ErrActionRequired = errors.Wrap(errors.ErrMissingParameter, "action is required")

	// ErrQuoteNotFound indicates the CRM has no quote with the given id.
	ErrQuoteNotFound = errors.Wrap(errors.ErrNotFound, "quote not found")

	// ErrInvalidLinkToken indicates the link token does not match the quote.
	ErrInvalidLinkToken = errors.Wrap(errors.ErrForbidden, "invalid link token")

	// ErrLinkTokenExpired indicates the quote's link token expiry has passed.
	ErrLinkTokenExpired = errors.Wrap(errors.ErrLinkExpired, "link token expired")

	// ErrQuoteAnswered indicates a decision for a quote that is already Accepted or Denied.
	ErrQuoteAnswered = errors.Wrap(errors.ErrForbidden, "quote was already answered")

	// ErrUpdateRejected indicates the CRM did not accept the decision write.
	ErrUpdateRejected = errors.Wrap(errors.ErrUpstreamRejected, "crm did not accept the update")
)
