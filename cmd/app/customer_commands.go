package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyrotator/cmd/app/commands"
	"github.com/allisson/keyrotator/internal/app"
	"github.com/allisson/keyrotator/internal/config"
)

func getCustomerCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "reencrypt-customers",
			Usage: "Re-encrypt customer emails that are not on the active key set",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "batch-size",
					Aliases: []string{"b"},
					Value:   0,
					Usage:   "Customers read per batch (0 uses REENCRYPT_BATCH_SIZE)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				customerUseCase, err := container.CustomerUseCase()
				if err != nil {
					return err
				}

				batchSize := int(cmd.Int("batch-size"))
				if batchSize == 0 {
					batchSize = cfg.ReEncryptBatchSize
				}

				return commands.RunReEncryptCustomers(
					ctx,
					customerUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					batchSize,
					cmd.String("format"),
				)
			},
		},
	}
}
