// Package crm implements the Zoho CRM REST client used by the quote workflow.
// It talks to the accounts server and the record API and classifies replies into domain
// errors. Token caching lives in internal/auth/service; retries live in the use cases.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/allisson/quotelink/internal/errors"
)

const (
	// DefaultAuthScheme is the Authorization header scheme Zoho expects.
	DefaultAuthScheme = "Zoho-oauthtoken"

	maxResponseBytes     = 4 << 20
	defaultTokenLifetime = 3600 * time.Second
)

// ErrRateLimited indicates the accounts server throttled the refresh request.
var ErrRateLimited = errors.New("crm rate limited")

// invalidTokenCodes are the envelope codes Zoho uses when an access token is rejected.
var invalidTokenCodes = map[string]bool{
	"INVALID_TOKEN":          true,
	"AUTHENTICATION_FAILURE": true,
}

// Config holds the connection settings for the CRM.
type Config struct {
	AccountsURL    string
	APIBaseURL     string
	APIVersion     string
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	RedirectURI    string
	AuthScheme     string
	RequestTimeout time.Duration
}

// TokenResult is the decoded reply of the OAuth token endpoint.
type TokenResult struct {
	AccessToken  string
	RefreshToken string
	APIDomain    string
	ExpiresIn    time.Duration
}

// Client talks to the Zoho accounts server and CRM record API.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new CRM client. A nil httpClient falls back to http.DefaultClient.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = DefaultAuthScheme
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v2"
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	APIDomain        string `json:"api_domain"`
	ExpiresIn        int64  `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type dataEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

// RefreshAccessToken exchanges the configured refresh token for a new access token.
// Returns an error wrapping ErrRateLimited when the accounts server throttles the call.
func (c *Client) RefreshAccessToken(ctx context.Context) (*TokenResult, error) {
	values := url.Values{}
	values.Set("grant_type", "refresh_token")
	values.Set("refresh_token", c.config.RefreshToken)
	values.Set("client_id", c.config.ClientID)
	values.Set("client_secret", c.config.ClientSecret)
	return c.requestToken(ctx, values)
}

// ExchangeAuthorizationCode trades a one-time authorization code for a refresh token.
// Used once when bootstrapping a deployment.
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code string) (*TokenResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.Wrap(apperrors.ErrMissingParameter, "authorization code is required")
	}
	values := url.Values{}
	values.Set("grant_type", "authorization_code")
	values.Set("code", code)
	values.Set("client_id", c.config.ClientID)
	values.Set("client_secret", c.config.ClientSecret)
	if c.config.RedirectURI != "" {
		values.Set("redirect_uri", c.config.RedirectURI)
	}
	return c.requestToken(ctx, values)
}

func (c *Client) requestToken(ctx context.Context, values url.Values) (*TokenResult, error) {
	endpoint := strings.TrimRight(c.config.AccountsURL, "/") + "/oauth/v2/token?" + values.Encode()

	status, raw, err := c.do(ctx, http.MethodPost, endpoint, "", nil, "")
	if err != nil {
		return nil, err
	}

	var payload tokenResponse
	decodeErr := json.Unmarshal(raw, &payload)

	// A 429 is a rate limit regardless of the body.
	if status == http.StatusTooManyRequests || (decodeErr == nil && isRateLimitDescription(payload.ErrorDescription)) {
		return nil, &apperrors.UpstreamError{
			Err:        ErrRateLimited,
			StatusCode: status,
			Code:       payload.Error,
			Raw:        rawJSON(raw),
		}
	}

	if decodeErr != nil {
		return nil, &apperrors.UpstreamError{
			Err:        fmt.Errorf("decode token response: %w", decodeErr),
			StatusCode: status,
			Raw:        rawJSON(raw),
		}
	}

	if payload.AccessToken == "" {
		code := payload.Error
		if code == "" {
			code = "missing_access_token"
		}
		return nil, &apperrors.UpstreamError{
			Err:        errors.New("token request failed"),
			StatusCode: status,
			Code:       code,
			Raw:        rawJSON(raw),
		}
	}

	expiresIn := time.Duration(payload.ExpiresIn) * time.Second
	if expiresIn <= 0 {
		expiresIn = defaultTokenLifetime
	}

	return &TokenResult{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		APIDomain:    payload.APIDomain,
		ExpiresIn:    expiresIn,
	}, nil
}

// GetRecord fetches a single record and returns its raw JSON object.
// Returns ErrNotFound when the CRM has no such record and ErrUpstreamTokenInvalid when the
// access token was rejected.
func (c *Client) GetRecord(ctx context.Context, accessToken, module, id string) (json.RawMessage, error) {
	status, raw, err := c.do(ctx, http.MethodGet, c.recordURL(module, id), accessToken, nil, "")
	if err != nil {
		return nil, err
	}

	if status == http.StatusNoContent {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "%s %s", module, id)
	}
	if !isSuccess(status) {
		return nil, classify(status, raw, apperrors.ErrUpstreamFailure)
	}

	var envelope dataEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &apperrors.UpstreamError{
			Err:        apperrors.Wrap(apperrors.ErrUpstreamFailure, err.Error()),
			StatusCode: status,
			Raw:        rawJSON(raw),
		}
	}
	if len(envelope.Data) == 0 || string(envelope.Data[0]) == "null" {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "%s %s", module, id)
	}

	return envelope.Data[0], nil
}

// UpdateRecord writes fields to a record. The raw reply is returned on success so callers can
// log or echo it. A reply whose first item is not SUCCESS is reported as ErrUpstreamRejected.
func (c *Client) UpdateRecord(
	ctx context.Context,
	accessToken, module, id string,
	fields any,
) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{"data": []any{fields}})
	if err != nil {
		return nil, fmt.Errorf("encode update payload: %w", err)
	}

	status, raw, err := c.do(
		ctx,
		http.MethodPut,
		c.recordURL(module, id),
		accessToken,
		bytes.NewReader(body),
		"application/json",
	)
	if err != nil {
		return nil, err
	}

	if !isSuccess(status) {
		return nil, classify(status, raw, apperrors.ErrUpstreamRejected)
	}

	if err := firstItemResult(status, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// UploadAttachment attaches a file to a record.
func (c *Client) UploadAttachment(
	ctx context.Context,
	accessToken, module, id, filename string,
	content []byte,
) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create attachment part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write attachment part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close attachment body: %w", err)
	}

	status, raw, err := c.do(
		ctx,
		http.MethodPost,
		c.recordURL(module, id)+"/Attachments",
		accessToken,
		&buf,
		writer.FormDataContentType(),
	)
	if err != nil {
		return nil, err
	}

	if !isSuccess(status) {
		return nil, classify(status, raw, apperrors.ErrUpstreamRejected)
	}

	if err := firstItemResult(status, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) recordURL(module, id string) string {
	return fmt.Sprintf(
		"%s/crm/%s/%s/%s",
		strings.TrimRight(c.config.APIBaseURL, "/"),
		c.config.APIVersion,
		url.PathEscape(module),
		url.PathEscape(id),
	)
}

func (c *Client) do(
	ctx context.Context,
	method, endpoint, accessToken string,
	body io.Reader,
	contentType string,
) (int, []byte, error) {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create crm request: %w", err)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", c.config.AuthScheme+" "+accessToken)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, apperrors.Wrap(apperrors.ErrUpstreamFailure, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, apperrors.Wrap(apperrors.ErrUpstreamFailure, err.Error())
	}

	if c.logger != nil {
		c.logger.Debug("crm request",
			slog.String("method", method),
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
		)
	}

	return resp.StatusCode, raw, nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.RequestTimeout)
}

// classify turns a non-2xx reply into a domain error. fallback is used when the reply is
// neither an invalid-token signal nor anything else we recognize.
func classify(status int, raw []byte, fallback error) error {
	var envelope errorEnvelope
	_ = json.Unmarshal(raw, &envelope)

	target := fallback
	if status == http.StatusUnauthorized || invalidTokenCodes[envelope.Code] {
		target = apperrors.ErrUpstreamTokenInvalid
	}

	return &apperrors.UpstreamError{
		Err:        target,
		StatusCode: status,
		Code:       envelope.Code,
		Raw:        rawJSON(raw),
	}
}

// firstItemResult inspects the per-record result of a write reply.
func firstItemResult(status int, raw []byte) error {
	var envelope dataEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Data) == 0 {
		return &apperrors.UpstreamError{
			Err:        apperrors.ErrUpstreamRejected,
			StatusCode: status,
			Raw:        rawJSON(raw),
		}
	}

	var item errorEnvelope
	_ = json.Unmarshal(envelope.Data[0], &item)
	if item.Code == "SUCCESS" {
		return nil
	}

	target := apperrors.ErrUpstreamRejected
	if invalidTokenCodes[item.Code] {
		target = apperrors.ErrUpstreamTokenInvalid
	}
	return &apperrors.UpstreamError{
		Err:        target,
		StatusCode: status,
		Code:       item.Code,
		Raw:        rawJSON(raw),
	}
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func isRateLimitDescription(description string) bool {
	return strings.Contains(strings.ToLower(description), "too many requests")
}

// rawJSON keeps valid JSON as-is and quotes anything else so it can be embedded in responses.
func rawJSON(raw []byte) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
