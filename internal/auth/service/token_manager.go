// Package service owns the CRM access token lifecycle and CRM credential decryption.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	authDomain "github.com/allisson/quotelink/internal/auth/domain"
	"github.com/allisson/quotelink/internal/crm"
	apperrors "github.com/allisson/quotelink/internal/errors"
	"github.com/allisson/quotelink/internal/metrics"
)

const (
	// DefaultRefreshSkew renews tokens five minutes before the provider expiry.
	DefaultRefreshSkew = 5 * time.Minute
	// DefaultCooldown pauses refresh attempts after a rate-limit reply.
	DefaultCooldown = 60 * time.Second

	refreshFlightKey = "access_token"
)

// Refresher obtains a new access token from the CRM accounts server.
type Refresher interface {
	RefreshAccessToken(ctx context.Context) (*crm.TokenResult, error)
}

// TokenProvider hands out CRM access tokens to gateways.
type TokenProvider interface {
	// GetToken returns a cached or freshly refreshed access token value.
	GetToken(ctx context.Context) (string, error)
	// Invalidate drops the cached token so the next GetToken refreshes.
	Invalidate()
}

// TokenManagerConfig tunes the token lifecycle. Zero values fall back to the defaults.
type TokenManagerConfig struct {
	Skew           time.Duration
	Cooldown       time.Duration
	RefreshTimeout time.Duration
	Clock          func() time.Time
}

// TokenManager is the process-wide cache of one CRM access token.
//
// Concurrent callers that miss the cache share a single refresh round-trip. A rate-limit
// reply starts a cooldown during which every call fails with ErrCooldownActive and nothing
// is cached. The manager is created on first use by the DI container and never persisted.
type TokenManager struct {
	refresher Refresher
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger

	skew           time.Duration
	cooldown       time.Duration
	refreshTimeout time.Duration
	now            func() time.Time

	group         singleflight.Group
	mu            sync.Mutex
	token         *authDomain.AccessToken
	cooldownUntil time.Time
}

// NewTokenManager creates a TokenManager around the given refresher.
func NewTokenManager(
	refresher Refresher,
	cfg TokenManagerConfig,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *TokenManager {
	if cfg.Skew <= 0 {
		cfg.Skew = DefaultRefreshSkew
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenManager{
		refresher:      refresher,
		metrics:        businessMetrics,
		logger:         logger,
		skew:           cfg.Skew,
		cooldown:       cfg.Cooldown,
		refreshTimeout: cfg.RefreshTimeout,
		now:            cfg.Clock,
	}
}

// GetToken returns the cached token while it is fresh, otherwise joins or starts the
// single in-flight refresh. Waiters give up when their own ctx is done; the refresh itself
// keeps running for the others.
func (m *TokenManager) GetToken(ctx context.Context) (string, error) {
	if value, ok, err := m.lookup(); ok {
		return value, err
	}

	ch := m.group.DoChan(refreshFlightKey, func() (any, error) {
		return m.refresh(ctx)
	})

	select {
	case result := <-ch:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Invalidate discards the cached token unconditionally. Safe to call repeatedly.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != nil {
		m.logger.Debug("invalidating crm access token",
			slog.String("token", authDomain.MaskToken(m.token.Value)))
	}
	m.token = nil
}

// lookup answers from the cache or the cooldown state. ok is false when a refresh is needed.
func (m *TokenManager) lookup() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.token.FreshAt(now, m.skew) {
		return m.token.Value, true, nil
	}
	if now.Before(m.cooldownUntil) {
		remaining := m.cooldownUntil.Sub(now)
		return "", true, &apperrors.RetryLaterError{
			Err:   fmt.Errorf("%w: retry after %s", authDomain.ErrRefreshCoolingDown, remaining.Round(time.Second)),
			After: remaining,
		}
	}
	return "", false, nil
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	// A caller may have missed the cache just before the previous flight stored its token.
	if value, ok, err := m.lookup(); ok {
		return value, err
	}

	refreshCtx, cancel := m.refreshContext(ctx)
	defer cancel()

	start := m.now()
	result, err := m.refresher.RefreshAccessToken(refreshCtx)
	if err != nil {
		if errors.Is(err, crm.ErrRateLimited) {
			m.mu.Lock()
			m.cooldownUntil = m.now().Add(m.cooldown)
			m.mu.Unlock()

			m.logger.Warn("crm token refresh rate limited",
				slog.Duration("cooldown", m.cooldown),
				slog.Any("error", err))
			m.record(ctx, start, "rate_limited")
			return "", &apperrors.RetryLaterError{
				Err:   fmt.Errorf("%w: %w", authDomain.ErrRefreshCoolingDown, err),
				After: m.cooldown,
			}
		}

		m.logger.Error("crm token refresh failed", slog.Any("error", err))
		m.record(ctx, start, "error")
		return "", fmt.Errorf("%w: %w", authDomain.ErrRefreshFailed, err)
	}

	token := &authDomain.AccessToken{
		Value:     result.AccessToken,
		ExpiresAt: m.now().Add(result.ExpiresIn),
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	m.logger.Info("crm access token refreshed",
		slog.String("token", authDomain.MaskToken(token.Value)),
		slog.Time("expires_at", token.ExpiresAt))
	m.record(ctx, start, "success")

	return token.Value, nil
}

// refreshContext detaches the refresh from the first caller's cancellation, since other
// callers may be waiting on the same flight, and bounds it by refreshTimeout.
func (m *TokenManager) refreshContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if m.refreshTimeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, m.refreshTimeout)
}

func (m *TokenManager) record(ctx context.Context, start time.Time, status string) {
	m.metrics.RecordOperation(ctx, "crm_auth", "token_refresh", status)
	m.metrics.RecordDuration(ctx, "crm_auth", "token_refresh", m.now().Sub(start), status)
}
