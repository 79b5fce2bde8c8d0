package domain

import (
	"strings"
	"time"
)

// Status is a quote's acceptance status, either as stored or as derived.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusNegotiated Status = "Negotiated"
	StatusAccepted   Status = "Accepted"
	StatusDenied     Status = "Denied"
	StatusDiscarded  Status = "Discarded"
	// StatusExpired is never stored; it is derived from Valid_Till.
	StatusExpired Status = "Expired"
)

// IsFinal reports whether the customer already answered the quote.
func (s Status) IsFinal() bool {
	return s == StatusAccepted || s == StatusDenied
}

// IsMutable reports whether the quote page may still submit a decision.
func (s Status) IsMutable() bool {
	return s == StatusPending || s == StatusNegotiated
}

// Resolve derives the canonical status of a record at now. Finality outranks the validity
// deadline: an accepted quote stays Accepted after Valid_Till passes.
func Resolve(record *QuoteRecord, now time.Time) Status {
	raw := record.AcceptanceStatus

	switch raw {
	case StatusDiscarded, StatusAccepted, StatusDenied:
		return raw
	case StatusPending, StatusNegotiated, "":
		if record.ValidTill != nil && record.ValidTill.Before(now) {
			return StatusExpired
		}
	}

	if raw == "" {
		return StatusPending
	}
	return raw
}

// NormalizeAction maps free-form action text to a status by case-insensitive prefix.
// Unrecognized values pass through unchanged.
func NormalizeAction(action string) Status {
	lower := strings.ToLower(action)
	switch {
	case strings.HasPrefix(lower, "accept"):
		return StatusAccepted
	case strings.HasPrefix(lower, "deny"):
		return StatusDenied
	case strings.HasPrefix(lower, "nego"):
		return StatusNegotiated
	default:
		return Status(action)
	}
}
