package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/quotelink/cmd/app/commands"
	"github.com/allisson/quotelink/internal/app"
	"github.com/allisson/quotelink/internal/config"
)

func getCRMCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "exchange-code",
			Usage: "Exchange a Zoho self-client authorization code for a refresh token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "code",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "One-time authorization code from the Zoho API console",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				client, err := container.CRMClient()
				if err != nil {
					return err
				}

				return commands.RunExchangeCode(
					ctx,
					client,
					container.Logger(),
					cmd.String("code"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "encrypt-credential",
			Usage: "Encrypt a CRM credential with KMS_KEY_URI (reads stdin when --value is omitted)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "value",
					Aliases: []string{"v"},
					Usage:   "Plaintext client secret or refresh token",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				cipher, err := container.CredentialCipher()
				if err != nil {
					return err
				}

				return commands.RunEncryptCredential(
					ctx,
					cipher,
					container.Logger(),
					cmd.String("value"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
