// Package domain defines the CRM access token entity and its masking rules.
package domain

import (
	"strings"
	"time"
)

// AccessToken is a short-lived credential for the CRM API. It lives only in process memory.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// FreshAt reports whether the token can still be handed out at now, renewing skew early.
func (t *AccessToken) FreshAt(now time.Time, skew time.Duration) bool {
	if t == nil || t.Value == "" {
		return false
	}
	return now.Before(t.ExpiresAt.Add(-skew))
}

// MaskToken keeps the first and last four characters of a secret for logging.
func MaskToken(value string) string {
	const visible = 4
	if len(value) <= visible*2 {
		return strings.Repeat("*", len(value))
	}
	return value[:visible] + strings.Repeat("*", len(value)-visible*2) + value[len(value)-visible:]
}
