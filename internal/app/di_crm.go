package app

import (
	"context"
	"fmt"
	"net/http"

	authService "github.com/allisson/quotelink/internal/auth/service"
	"github.com/allisson/quotelink/internal/crm"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() authService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = authService.NewKMSService()
	})
	return c.kmsService
}

// CredentialCipher returns the cipher for CRM credentials stored as KMS ciphertext.
// It requires KMS_KEY_URI.
func (c *Container) CredentialCipher() (*authService.CredentialCipher, error) {
	var err error
	c.credentialCipherInit.Do(func() {
		c.credentialCipher, err = c.initCredentialCipher()
		if err != nil {
			c.initErrors["credentialCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialCipher"]; exists {
		return nil, storedErr
	}
	return c.credentialCipher, nil
}

// CRMClient returns the CRM client with decrypted credentials.
func (c *Container) CRMClient() (*crm.Client, error) {
	var err error
	c.crmClientInit.Do(func() {
		c.crmClient, err = c.initCRMClient()
		if err != nil {
			c.initErrors["crmClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["crmClient"]; exists {
		return nil, storedErr
	}
	return c.crmClient, nil
}

// TokenManager returns the process-wide CRM access token manager.
func (c *Container) TokenManager() (*authService.TokenManager, error) {
	var err error
	c.tokenManagerInit.Do(func() {
		c.tokenManager, err = c.initTokenManager()
		if err != nil {
			c.initErrors["tokenManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenManager"]; exists {
		return nil, storedErr
	}
	return c.tokenManager, nil
}

func (c *Container) initCredentialCipher() (*authService.CredentialCipher, error) {
	if c.config.KMSKeyURI == "" {
		return nil, fmt.Errorf("KMS_KEY_URI is not configured")
	}

	keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.kmsKeeper = keeper
	c.mu.Unlock()

	return authService.NewCredentialCipher(keeper), nil
}

func (c *Container) initCRMClient() (*crm.Client, error) {
	clientSecret := c.config.CRMClientSecret
	refreshToken := c.config.CRMRefreshToken

	if c.config.KMSKeyURI != "" {
		cipher, err := c.CredentialCipher()
		if err != nil {
			return nil, fmt.Errorf("failed to get credential cipher for crm client: %w", err)
		}

		ctx := context.Background()
		if clientSecret, err = decryptIfSet(ctx, cipher, clientSecret); err != nil {
			return nil, fmt.Errorf("failed to decrypt ZOHO_CLIENT_SECRET: %w", err)
		}
		if refreshToken, err = decryptIfSet(ctx, cipher, refreshToken); err != nil {
			return nil, fmt.Errorf("failed to decrypt ZOHO_REFRESH_TOKEN: %w", err)
		}
	}

	return crm.NewClient(
		crm.Config{
			AccountsURL:    c.config.CRMAccountsURL,
			APIBaseURL:     c.config.CRMAPIBaseURL,
			APIVersion:     c.config.CRMAPIVersion,
			ClientID:       c.config.CRMClientID,
			ClientSecret:   clientSecret,
			RefreshToken:   refreshToken,
			RedirectURI:    c.config.CRMRedirectURI,
			RequestTimeout: c.config.CRMRequestTimeout,
		},
		&http.Client{},
		c.Logger(),
	), nil
}

func (c *Container) initTokenManager() (*authService.TokenManager, error) {
	client, err := c.CRMClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get crm client for token manager: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token manager: %w", err)
	}

	return authService.NewTokenManager(
		client,
		authService.TokenManagerConfig{
			Skew:           c.config.TokenRefreshSkew,
			Cooldown:       c.config.TokenCooldown,
			RefreshTimeout: c.config.CRMRequestTimeout,
		},
		businessMetrics,
		c.Logger(),
	), nil
}

func decryptIfSet(ctx context.Context, cipher *authService.CredentialCipher, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return cipher.Decrypt(ctx, value)
}
