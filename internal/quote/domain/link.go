package domain

import (
	"crypto/subtle"
	"net/url"
	"strings"
	"time"
)

// TokenMatches compares the link token from a request with the one stored on the record.
// The supplied value is URL-decoded once and both sides are trimmed before an exact,
// case-sensitive comparison. A record without a token matches nothing.
func TokenMatches(supplied, stored string) bool {
	if decoded, err := url.PathUnescape(supplied); err == nil {
		supplied = decoded
	}
	supplied = strings.TrimSpace(supplied)
	stored = strings.TrimSpace(stored)

	if stored == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
}

// LinkExpired reports whether the record's link token carries an expiry that has passed.
// It is unrelated to Valid_Till.
func (r *QuoteRecord) LinkExpired(now time.Time) bool {
	return r.AcceptanceTokenExpires != nil && r.AcceptanceTokenExpires.Before(now)
}
