package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/quotelink/internal/errors"
	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

// mockQuoteRepository is a mock implementation of QuoteRepository for testing.
type mockQuoteRepository struct {
	mock.Mock
}

func (m *mockQuoteRepository) Get(ctx context.Context, accessToken, id string) (*quoteDomain.QuoteRecord, error) {
	args := m.Called(ctx, accessToken, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quoteDomain.QuoteRecord), args.Error(1)
}

func (m *mockQuoteRepository) Update(
	ctx context.Context,
	accessToken, id string,
	payload quoteDomain.UpdatePayload,
) error {
	args := m.Called(ctx, accessToken, id, payload)
	return args.Error(0)
}

func (m *mockQuoteRepository) Attach(ctx context.Context, accessToken, id, filename string, content []byte) error {
	args := m.Called(ctx, accessToken, id, filename, content)
	return args.Error(0)
}

// mockTokenProvider is a mock implementation of TokenProvider for testing.
type mockTokenProvider struct {
	mock.Mock
}

func (m *mockTokenProvider) GetToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockTokenProvider) Invalidate() {
	m.Called()
}

// mockArtifactTrigger is a mock implementation of ArtifactTrigger for testing.
type mockArtifactTrigger struct {
	mock.Mock
}

func (m *mockArtifactTrigger) Trigger(ctx context.Context, quoteID string) error {
	args := m.Called(ctx, quoteID)
	return args.Error(0)
}

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *mockQuoteRepository
	tokens  *mockTokenProvider
	trigger *mockArtifactTrigger
	useCase QuoteUseCase
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()

	f := &fixture{
		repo:    &mockQuoteRepository{},
		tokens:  &mockTokenProvider{},
		trigger: &mockArtifactTrigger{},
	}
	config.Clock = func() time.Time { return testNow }
	f.useCase = NewQuoteUseCase(
		config,
		f.repo,
		f.tokens,
		f.trigger,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.tokens.AssertExpectations(t)
	f.trigger.AssertExpectations(t)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func strPtr(s string) *string {
	return &s
}

func pendingRecord(id string) *quoteDomain.QuoteRecord {
	return &quoteDomain.QuoteRecord{ID: id, AcceptanceToken: "abc", AcceptanceStatus: quoteDomain.StatusPending}
}

func tokenInvalidError() error {
	return &apperrors.UpstreamError{
		Err:        apperrors.ErrUpstreamTokenInvalid,
		StatusCode: 401,
		Code:       "INVALID_TOKEN",
		Raw:        json.RawMessage(`{"code":"INVALID_TOKEN"}`),
	}
}

func TestQuoteUseCase_FetchPublicView(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Pending", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{
			ID:               "q1",
			AcceptanceToken:  "abc",
			AcceptanceStatus: quoteDomain.StatusPending,
			ValidTill:        timePtr(testNow.Add(48 * time.Hour)),
		}
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		view, err := f.useCase.FetchPublicView(ctx, "q1", " abc ")

		require.NoError(t, err)
		assert.Equal(t, quoteDomain.StatusPending, view.Status)
		assert.False(t, view.ReadOnly)
		f.assertExpectations(t)
	})

	t.Run("Success_ExpiredByValidTillIsReadOnly", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{
			ID:              "q1",
			AcceptanceToken: "abc",
			ValidTill:       timePtr(testNow.Add(-24 * time.Hour)),
		}
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		view, err := f.useCase.FetchPublicView(ctx, "q1", "abc")

		require.NoError(t, err)
		assert.Equal(t, quoteDomain.StatusExpired, view.Status)
		assert.True(t, view.ReadOnly)
	})

	t.Run("Success_URLEncodedToken", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{ID: "q1", AcceptanceToken: "a/b"}
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		_, err := f.useCase.FetchPublicView(ctx, "q1", "a%2Fb")
		require.NoError(t, err)
	})

	t.Run("Success_AnsweredQuoteReadableWithExpiredLink", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{
			ID:                     "q1",
			AcceptanceToken:        "abc",
			AcceptanceStatus:       quoteDomain.StatusAccepted,
			AcceptanceTokenExpires: timePtr(testNow.Add(-time.Hour)),
		}
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		view, err := f.useCase.FetchPublicView(ctx, "q1", "abc")

		require.NoError(t, err)
		assert.Equal(t, quoteDomain.StatusAccepted, view.Status)
		assert.True(t, view.ReadOnly)
	})

	t.Run("Success_DeniedQuoteReadableWithMismatchedToken", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{
			ID:               "q1",
			AcceptanceToken:  "abcd",
			AcceptanceStatus: quoteDomain.StatusDenied,
		}
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		view, err := f.useCase.FetchPublicView(ctx, "q1", "abc")

		require.NoError(t, err)
		assert.True(t, view.ReadOnly)
	})

	t.Run("Error_MissingParameters", func(t *testing.T) {
		f := newFixture(t, Config{})

		_, err := f.useCase.FetchPublicView(ctx, "", "abc")
		assert.ErrorIs(t, err, apperrors.ErrMissingParameter)

		_, err = f.useCase.FetchPublicView(ctx, "q1", "  ")
		assert.ErrorIs(t, err, apperrors.ErrMissingParameter)

		f.assertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(nil, quoteDomain.ErrQuoteNotFound).Once()

		_, err := f.useCase.FetchPublicView(ctx, "q1", "abc")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error_TokenMismatch", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{ID: "q1", AcceptanceToken: "abcd"}
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		_, err := f.useCase.FetchPublicView(ctx, "q1", "abc")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Error_LinkExpired", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{
			ID:                     "q1",
			AcceptanceToken:        "abc",
			AcceptanceStatus:       quoteDomain.StatusNegotiated,
			AcceptanceTokenExpires: timePtr(testNow.Add(-time.Minute)),
		}
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		_, err := f.useCase.FetchPublicView(ctx, "q1", "abc")
		assert.ErrorIs(t, err, apperrors.ErrLinkExpired)
		assert.NotErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Success_RetriesOnceAfterInvalidAccessToken", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{ID: "q1", AcceptanceToken: "abc"}
		f.tokens.On("GetToken", ctx).Return("stale", nil).Once()
		f.tokens.On("Invalidate").Return().Once()
		f.tokens.On("GetToken", ctx).Return("fresh", nil).Once()
		f.repo.On("Get", ctx, "stale", "q1").Return(nil, tokenInvalidError()).Once()
		f.repo.On("Get", ctx, "fresh", "q1").Return(record, nil).Once()

		_, err := f.useCase.FetchPublicView(ctx, "q1", "abc")

		require.NoError(t, err)
		f.repo.AssertNumberOfCalls(t, "Get", 2)
		f.assertExpectations(t)
	})

	t.Run("Error_TokenManagerFailurePropagates", func(t *testing.T) {
		f := newFixture(t, Config{})
		cooldown := fmt.Errorf("%w: retry after 42s", apperrors.ErrCooldownActive)
		f.tokens.On("GetToken", ctx).Return("", cooldown).Once()

		_, err := f.useCase.FetchPublicView(ctx, "q1", "abc")

		assert.ErrorIs(t, err, apperrors.ErrCooldownActive)
		f.repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestQuoteUseCase_SubmitDecision(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AcceptedSchedulesArtifact", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.tokens.On("GetToken", ctx).Return("access", nil).Twice()
		f.repo.On("Get", ctx, "access", "q1").Return(pendingRecord("q1"), nil).Once()
		f.repo.On("Update", ctx, "access", "q1", mock.MatchedBy(func(p quoteDomain.UpdatePayload) bool {
			return p.AcceptanceStatus == quoteDomain.StatusAccepted &&
				p.AcceptanceTokenExpires == "2026-10-17T12:00:00+00:00" &&
				*p.AcknowledgedBy == "Dana"
		})).Return(nil).Once()
		f.trigger.On("Trigger", mock.Anything, "q1").Return(nil).Once()

		ack, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{
			Action:    "accepted please",
			ActorName: strPtr("Dana"),
		})

		require.NoError(t, err)
		assert.Equal(t, quoteDomain.StatusAccepted, ack.Action)
		assert.Nil(t, ack.Sent.ClientResponse)
		f.assertExpectations(t)
	})

	t.Run("Success_TriggerFailureDoesNotFail", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.tokens.On("GetToken", ctx).Return("access", nil).Twice()
		f.repo.On("Get", ctx, "access", "q1").Return(pendingRecord("q1"), nil).Once()
		f.repo.On("Update", ctx, "access", "q1", mock.Anything).Return(nil).Once()
		f.trigger.On("Trigger", mock.Anything, "q1").Return(errors.New("queue full")).Once()

		ack, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "Accept"})

		require.NoError(t, err)
		assert.Equal(t, quoteDomain.StatusAccepted, ack.Action)
		f.assertExpectations(t)
	})

	t.Run("Success_NegotiatedDoesNotScheduleArtifact", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.tokens.On("GetToken", ctx).Return("access", nil).Twice()
		f.repo.On("Get", ctx, "access", "q1").Return(pendingRecord("q1"), nil).Once()
		f.repo.On("Update", ctx, "access", "q1", mock.MatchedBy(func(p quoteDomain.UpdatePayload) bool {
			return p.AcceptanceStatus == quoteDomain.StatusNegotiated &&
				p.AcceptanceTokenExpires == "" &&
				*p.ClientResponse == "Can you do 10% off?"
		})).Return(nil).Once()

		ack, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{
			Action:  "negotiate",
			Comment: strPtr("Can you do 10% off?"),
		})

		require.NoError(t, err)
		assert.Equal(t, quoteDomain.StatusNegotiated, ack.Action)
		f.trigger.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
	})

	t.Run("Success_UnknownActionPassesThrough", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.tokens.On("GetToken", ctx).Return("access", nil).Twice()
		f.repo.On("Get", ctx, "access", "q1").Return(pendingRecord("q1"), nil).Once()
		f.repo.On("Update", ctx, "access", "q1", mock.MatchedBy(func(p quoteDomain.UpdatePayload) bool {
			return p.AcceptanceStatus == "Maybe later"
		})).Return(nil).Once()

		ack, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "Maybe later"})

		require.NoError(t, err)
		assert.Equal(t, quoteDomain.Status("Maybe later"), ack.Action)
	})

	t.Run("Success_RetriedExactlyOnce", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.tokens.On("GetToken", ctx).Return("stale", nil).Twice()
		f.repo.On("Get", ctx, "stale", "q1").Return(pendingRecord("q1"), nil).Once()
		f.tokens.On("Invalidate").Return().Once()
		f.tokens.On("GetToken", ctx).Return("fresh", nil).Once()
		f.repo.On("Update", ctx, "stale", "q1", mock.Anything).Return(tokenInvalidError()).Once()
		f.repo.On("Update", ctx, "fresh", "q1", mock.Anything).Return(nil).Once()

		_, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "deny"})

		require.NoError(t, err)
		f.repo.AssertNumberOfCalls(t, "Update", 2)
		f.assertExpectations(t)
	})

	t.Run("Error_SecondInvalidTokenIsRejected", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.tokens.On("GetToken", ctx).Return("stale", nil).Twice()
		f.repo.On("Get", ctx, "stale", "q1").Return(pendingRecord("q1"), nil).Once()
		f.tokens.On("Invalidate").Return().Once()
		f.tokens.On("GetToken", ctx).Return("fresh", nil).Once()
		f.repo.On("Update", ctx, mock.Anything, "q1", mock.Anything).Return(tokenInvalidError()).Twice()

		ack, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "accept"})

		assert.Nil(t, ack)
		assert.ErrorIs(t, err, apperrors.ErrUpstreamRejected)
		assert.JSONEq(t, `{"code":"INVALID_TOKEN"}`, string(apperrors.RawPayload(err)))
		f.repo.AssertNumberOfCalls(t, "Update", 2)
		f.tokens.AssertNumberOfCalls(t, "Invalidate", 1)
		f.trigger.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
	})

	t.Run("Error_NonSuccessReplyIsRejected", func(t *testing.T) {
		f := newFixture(t, Config{})
		rejected := &apperrors.UpstreamError{
			Err:  apperrors.ErrUpstreamRejected,
			Code: "INVALID_DATA",
			Raw:  json.RawMessage(`{"data":[{"code":"INVALID_DATA"}]}`),
		}
		f.tokens.On("GetToken", ctx).Return("access", nil).Twice()
		f.repo.On("Get", ctx, "access", "q1").Return(pendingRecord("q1"), nil).Once()
		f.repo.On("Update", ctx, "access", "q1", mock.Anything).Return(rejected).Once()

		_, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "accept"})

		assert.ErrorIs(t, err, quoteDomain.ErrUpdateRejected)
		assert.Contains(t, string(apperrors.RawPayload(err)), "INVALID_DATA")
		f.tokens.AssertNotCalled(t, "Invalidate")
	})

	t.Run("Error_MissingParameters", func(t *testing.T) {
		f := newFixture(t, Config{})

		_, err := f.useCase.SubmitDecision(ctx, " ", quoteDomain.UpdateDecision{Action: "accept"})
		assert.ErrorIs(t, err, apperrors.ErrMissingParameter)

		_, err = f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: ""})
		assert.ErrorIs(t, err, apperrors.ErrMissingParameter)

		f.assertExpectations(t)
	})

	t.Run("Error_SuppliedTokenMismatch", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{ID: "q1", AcceptanceToken: "abcd"}
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		_, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "accept", Token: "abc"})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_AnsweredQuoteCannotBeFlippedWithOldLink", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{
			ID:                     "q1",
			AcceptanceToken:        "abc",
			AcceptanceStatus:       quoteDomain.StatusAccepted,
			AcceptanceTokenExpires: timePtr(testNow.Add(-time.Hour)),
		}
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		_, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "deny", Token: "abc"})

		assert.ErrorIs(t, err, apperrors.ErrLinkExpired)
	})

	t.Run("Error_AnsweredQuoteCannotBeFlippedWithoutToken", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := pendingRecord("q1")
		record.AcceptanceStatus = quoteDomain.StatusAccepted
		record.AcceptanceTokenExpires = timePtr(testNow.Add(-time.Hour))
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		ack, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "deny"})

		assert.Nil(t, ack)
		assert.ErrorIs(t, err, quoteDomain.ErrQuoteAnswered)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.trigger.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
	})

	t.Run("Error_DeniedQuoteWithLiveTokenCannotBeFlipped", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := pendingRecord("q1")
		record.AcceptanceStatus = quoteDomain.StatusDenied
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		_, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "accept", Token: "abc"})

		assert.ErrorIs(t, err, quoteDomain.ErrQuoteAnswered)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_ReadFailureBlocksWrite", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(nil, quoteDomain.ErrQuoteNotFound).Once()

		_, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "accept"})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_RequiredTokenMissing", func(t *testing.T) {
		f := newFixture(t, Config{RequireToken: true})

		_, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "accept"})

		assert.ErrorIs(t, err, apperrors.ErrMissingParameter)
		f.assertExpectations(t)
	})

	t.Run("Success_VerifiedTokenThenWrite", func(t *testing.T) {
		f := newFixture(t, Config{RequireToken: true})
		record := &quoteDomain.QuoteRecord{ID: "q1", AcceptanceToken: "abc"}
		f.tokens.On("GetToken", ctx).Return("access", nil).Twice()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()
		f.repo.On("Update", ctx, "access", "q1", mock.Anything).Return(nil).Once()

		_, err := f.useCase.SubmitDecision(ctx, "q1", quoteDomain.UpdateDecision{Action: "nego", Token: "abc"})

		require.NoError(t, err)
		f.assertExpectations(t)
	})
}

// A pending quote past its validity date is shown as Expired; the customer denies it and the
// next read shows Denied, since finality outranks the deadline.
func TestQuoteUseCase_ExpiredThenDenied(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})

	record := &quoteDomain.QuoteRecord{
		ID:               "Q1",
		AcceptanceToken:  "abc",
		AcceptanceStatus: quoteDomain.StatusPending,
		ValidTill:        timePtr(testNow.Add(-24 * time.Hour)),
	}
	f.tokens.On("GetToken", ctx).Return("access", nil)
	f.repo.On("Get", ctx, "access", "Q1").Return(record, nil).Once()

	view, err := f.useCase.FetchPublicView(ctx, "Q1", "abc")
	require.NoError(t, err)
	assert.Equal(t, quoteDomain.StatusExpired, view.Status)

	f.repo.On("Get", ctx, "access", "Q1").Return(record, nil).Once()

	var written quoteDomain.UpdatePayload
	f.repo.On("Update", ctx, "access", "Q1", mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(3).(quoteDomain.UpdatePayload) }).
		Return(nil).Once()

	ack, err := f.useCase.SubmitDecision(ctx, "Q1", quoteDomain.UpdateDecision{Action: "Deny"})
	require.NoError(t, err)
	assert.Equal(t, quoteDomain.StatusDenied, ack.Action)

	answered := *record
	answered.AcceptanceStatus = written.AcceptanceStatus
	answered.AcceptanceTokenExpires = quoteDomain.ParseCRMTime(written.AcceptanceTokenExpires)
	f.repo.On("Get", ctx, "access", "Q1").Return(&answered, nil).Once()

	view, err = f.useCase.FetchPublicView(ctx, "Q1", "abc")
	require.NoError(t, err)
	assert.Equal(t, quoteDomain.StatusDenied, view.Status)
	assert.True(t, view.ReadOnly)
}

func TestQuoteUseCase_GetAndAttach(t *testing.T) {
	ctx := context.Background()

	t.Run("Get_ReturnsDerivedStatusWithoutLinkCheck", func(t *testing.T) {
		f := newFixture(t, Config{})
		record := &quoteDomain.QuoteRecord{ID: "q1", AcceptanceStatus: quoteDomain.StatusAccepted}
		f.tokens.On("GetToken", ctx).Return("access", nil).Once()
		f.repo.On("Get", ctx, "access", "q1").Return(record, nil).Once()

		got, status, err := f.useCase.Get(ctx, "q1")

		require.NoError(t, err)
		assert.Same(t, record, got)
		assert.Equal(t, quoteDomain.StatusAccepted, status)
	})

	t.Run("Attach_RetriesOnInvalidToken", func(t *testing.T) {
		f := newFixture(t, Config{})
		content := []byte("%PDF")
		f.tokens.On("GetToken", ctx).Return("stale", nil).Once()
		f.tokens.On("Invalidate").Return().Once()
		f.tokens.On("GetToken", ctx).Return("fresh", nil).Once()
		f.repo.On("Attach", ctx, "stale", "q1", "Quote_q1.pdf", content).Return(tokenInvalidError()).Once()
		f.repo.On("Attach", ctx, "fresh", "q1", "Quote_q1.pdf", content).Return(nil).Once()

		err := f.useCase.Attach(ctx, "q1", "Quote_q1.pdf", content)

		require.NoError(t, err)
		f.assertExpectations(t)
	})
}
