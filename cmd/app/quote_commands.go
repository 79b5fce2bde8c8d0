package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/quotelink/cmd/app/commands"
	"github.com/allisson/quotelink/internal/app"
	"github.com/allisson/quotelink/internal/config"
)

func quoteIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "id",
		Aliases:  []string{"i"},
		Required: true,
		Usage:    "CRM quote record id",
	}
}

func getQuoteCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "quote-status",
			Usage: "Show the stored and derived status of a quote",
			Flags: []cli.Flag{quoteIDFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				quotes, err := container.QuoteSource()
				if err != nil {
					return err
				}

				return commands.RunQuoteStatus(
					ctx,
					quotes,
					container.Logger(),
					cmd.String("id"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "generate-pdf",
			Usage: "Render an accepted quote to PDF and attach it to the CRM record",
			Flags: []cli.Flag{quoteIDFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				pdfUseCase, err := container.PDFUseCase()
				if err != nil {
					return err
				}

				return commands.RunGeneratePDF(
					ctx,
					pdfUseCase,
					container.Logger(),
					cmd.String("id"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
