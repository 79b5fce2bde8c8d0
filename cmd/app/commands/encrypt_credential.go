package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// CredentialEncrypter seals a credential for storage in the environment.
type CredentialEncrypter interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
}

// RunEncryptCredential encrypts a CRM credential with the configured KMS key. When value is
// empty the credential is read from the first line of io.Reader, so it stays out of shell
// history.
func RunEncryptCredential(
	ctx context.Context,
	encrypter CredentialEncrypter,
	logger *slog.Logger,
	value string,
	io IOTuple,
) error {
	if value == "" {
		line, err := bufio.NewReader(io.Reader).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read credential: %w", err)
		}
		value = line
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("credential cannot be empty")
	}

	ciphertext, err := encrypter.Encrypt(ctx, value)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(io.Writer, ciphertext)

	logger.Info("credential encrypted")
	return nil
}
