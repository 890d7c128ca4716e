package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyrotator/cmd/app/commands"
	"github.com/allisson/keyrotator/internal/app"
	"github.com/allisson/keyrotator/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-keyset",
			Usage: "Generate a verified RSA/AES key set into the staging directory",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				if err := container.KeyStore().EnsureLayout(); err != nil {
					return err
				}

				keySetUseCase, err := container.KeySetUseCase()
				if err != nil {
					return err
				}

				return commands.RunGenerateKeySet(
					ctx,
					keySetUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "rotate-keys",
			Usage: "Promote staged key sets to active and retire the previous ones",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keySetUseCase, err := container.KeySetUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateKeys(
					ctx,
					keySetUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "active-keyset",
			Usage: "Print the identifier of the active key set",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keySetUseCase, err := container.KeySetUseCase()
				if err != nil {
					return err
				}

				return commands.RunActiveKeySet(
					ctx,
					keySetUseCase,
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-keysets",
			Usage: "List the complete key sets of a stage",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "stage",
					Aliases: []string{"s"},
					Value:   "active",
					Usage:   "Stage to list: staging, active or retired",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keySetUseCase, err := container.KeySetUseCase()
				if err != nil {
					return err
				}

				return commands.RunListKeySets(
					ctx,
					keySetUseCase,
					commands.DefaultIO().Writer,
					cmd.String("stage"),
					cmd.String("format"),
				)
			},
		},
	}
}
