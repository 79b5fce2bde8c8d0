package commands

import (
	"context"
	"fmt"
	"log/slog"

	authDomain "github.com/allisson/quotelink/internal/auth/domain"
	"github.com/allisson/quotelink/internal/crm"
)

// CodeExchanger trades a one-time authorization code for OAuth tokens.
type CodeExchanger interface {
	ExchangeAuthorizationCode(ctx context.Context, code string) (*crm.TokenResult, error)
}

// RunExchangeCode exchanges a Zoho self-client authorization code and prints the refresh token
// to store in ZOHO_REFRESH_TOKEN. The access token is never printed.
func RunExchangeCode(
	ctx context.Context,
	exchanger CodeExchanger,
	logger *slog.Logger,
	code string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	result, err := exchanger.ExchangeAuthorizationCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if result.RefreshToken == "" {
		return fmt.Errorf("accounts server returned no refresh token; generate a new code with offline access")
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]string{
			"refresh_token": result.RefreshToken,
			"api_domain":    result.APIDomain,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(io.Writer, "\nAuthorization code exchanged successfully!")
		_, _ = fmt.Fprintf(io.Writer, "Refresh token: %s\n", result.RefreshToken)
		if result.APIDomain != "" {
			_, _ = fmt.Fprintf(io.Writer, "API domain: %s\n", result.APIDomain)
		}
		_, _ = fmt.Fprintln(io.Writer, "\nStore the refresh token in ZOHO_REFRESH_TOKEN.")
	}

	logger.Info("authorization code exchanged",
		slog.String("refresh_token", authDomain.MaskToken(result.RefreshToken)),
	)

	return nil
}
