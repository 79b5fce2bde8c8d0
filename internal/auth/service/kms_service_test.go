package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"gocloud.dev/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		require.NotNil(t, keeper)
		defer func() {
			assert.NoError(t, keeper.Close())
		}()

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok, "keeper should be *secrets.Keeper")
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})

	t.Run("Error_EmptyURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "")
		assert.Error(t, err)
		assert.Nil(t, keeper)
	})
}

func TestCredentialCipher(t *testing.T) {
	ctx := context.Background()

	keeper, err := NewKMSService().OpenKeeper(ctx, generateLocalSecretsURI(t))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	cipher := NewCredentialCipher(keeper)

	t.Run("Success_RoundTrip", func(t *testing.T) {
		encoded, err := cipher.Encrypt(ctx, "1000.refresh.token")
		require.NoError(t, err)
		assert.NotContains(t, encoded, "1000.refresh.token")

		plaintext, err := cipher.Decrypt(ctx, "  "+encoded+"\n")
		require.NoError(t, err)
		assert.Equal(t, "1000.refresh.token", plaintext)
	})

	t.Run("Error_NotBase64", func(t *testing.T) {
		_, err := cipher.Decrypt(ctx, "not base64!")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode credential")
	})

	t.Run("Error_WrongKey", func(t *testing.T) {
		other, err := NewKMSService().OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, other.Close())
		}()

		encoded, err := NewCredentialCipher(other).Encrypt(ctx, "secret")
		require.NoError(t, err)

		_, err = cipher.Decrypt(ctx, encoded)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decrypt credential")
	})
}
