package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyrotator/cmd/app/commands"
	"github.com/allisson/keyrotator/internal/app"
	"github.com/allisson/keyrotator/internal/config"
)

func getEnvelopeCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt",
			Usage: "Encrypt a value into an envelope",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "plaintext",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Value to encrypt",
				},
				&cli.StringFlag{
					Name:    "key-set-id",
					Aliases: []string{"k"},
					Usage:   "Key set to encrypt with (defaults to the active key set)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				envelopeUseCase, err := container.EnvelopeUseCase()
				if err != nil {
					return err
				}

				keySetUseCase, err := container.KeySetUseCase()
				if err != nil {
					return err
				}

				return commands.RunEncrypt(
					ctx,
					envelopeUseCase,
					keySetUseCase,
					commands.DefaultIO().Writer,
					cmd.String("plaintext"),
					cmd.String("key-set-id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt an envelope with the key set it names",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "envelope",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Envelope to decrypt",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				envelopeUseCase, err := container.EnvelopeUseCase()
				if err != nil {
					return err
				}

				return commands.RunDecrypt(
					ctx,
					envelopeUseCase,
					commands.DefaultIO().Writer,
					cmd.String("envelope"),
					cmd.String("format"),
				)
			},
		},
	}
}
