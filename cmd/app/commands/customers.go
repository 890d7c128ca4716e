package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	customerUseCase "github.com/allisson/keyrotator/internal/customer/usecase"
)

// RunReEncryptCustomers moves every customer email onto the active key set.
// A partial report is still printed when the run stops early.
func RunReEncryptCustomers(
	ctx context.Context,
	customers customerUseCase.CustomerUseCase,
	logger *slog.Logger,
	writer io.Writer,
	batchSize int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	report, runErr := customers.ReEncrypt(ctx, batchSize)
	if report == nil {
		return fmt.Errorf("failed to re-encrypt customers: %w", runErr)
	}

	logger.Info("customer re-encryption finished",
		slog.String("active_id", report.ActiveID),
		slog.Int("scanned", report.Scanned),
		slog.Int("re_encrypted", report.ReEncrypted),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)

	var err error
	if format == "json" {
		err = writeJSON(writer, report)
	} else {
		_, err = fmt.Fprintf(
			writer,
			"Active key set: %s\nScanned: %d\nRe-encrypted: %d\nSkipped: %d\nFailed: %d\n",
			report.ActiveID,
			report.Scanned,
			report.ReEncrypted,
			report.Skipped,
			report.Failed,
		)
	}
	if err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("re-encryption stopped early: %w", runErr)
	}
	return nil
}
