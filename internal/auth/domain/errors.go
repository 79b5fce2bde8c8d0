package domain

import (
	"github.com/allisson/quotelink/internal/errors"
)

// Access token lifecycle errors.
var (
	// ErrRefreshFailed indicates the OAuth refresh request did not yield an access token.
	ErrRefreshFailed = errors.Wrap(errors.ErrAuthFailure, "access token refresh failed")

	// ErrRefreshCoolingDown indicates refresh attempts are paused after a rate-limit reply.
	ErrRefreshCoolingDown = errors.Wrap(errors.ErrCooldownActive, "access token refresh rate limited")
)
