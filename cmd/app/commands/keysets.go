package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	keysetDTO "github.com/allisson/keyrotator/internal/keyset/http/dto"
	keysetUseCase "github.com/allisson/keyrotator/internal/keyset/usecase"
)

// ErrRotationDegraded is returned by RunRotateKeys when a promotion left the
// active stage half-written.
var ErrRotationDegraded = errors.New("rotation left the active key directory degraded")

// RunGenerateKeySet writes a new verified key set into the staging stage.
func RunGenerateKeySet(
	ctx context.Context,
	keySetUseCase keysetUseCase.KeySetUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	keySet, err := keySetUseCase.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate key set: %w", err)
	}

	logger.Info("key set generated", slog.String("key_set_id", keySet.ID))

	if format == "json" {
		return writeJSON(writer, keysetDTO.MapKeySetToResponse(keySet))
	}

	_, err = fmt.Fprintf(writer, "Generated key set %s in %s\n", keySet.ID, keySet.Stage)
	return err
}

// RunRotateKeys promotes every complete staged key set. Individual promotion
// failures are reported but only a degraded run makes the command fail.
func RunRotateKeys(
	ctx context.Context,
	keySetUseCase keysetUseCase.KeySetUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	report, err := keySetUseCase.RotatePending(ctx)
	if err != nil {
		return fmt.Errorf("failed to rotate key sets: %w", err)
	}

	logger.Info("rotation finished",
		slog.String("run_id", report.RunID.String()),
		slog.Int("promoted", len(report.Promoted())),
		slog.Int("failed", len(report.Failed())),
		slog.String("active_id", report.ActiveID),
	)

	if format == "json" {
		err = writeJSON(writer, keysetDTO.MapRotationReportToResponse(report))
	} else {
		err = writeRotationText(writer, report)
	}
	if err != nil {
		return err
	}

	if report.Degraded() {
		return ErrRotationDegraded
	}
	return nil
}

func writeRotationText(w io.Writer, report *keysetDomain.RotationReport) error {
	var b strings.Builder

	promoted := report.Promoted()
	if len(promoted) == 0 {
		b.WriteString("No key sets promoted\n")
	} else {
		fmt.Fprintf(&b, "Promoted: %s\n", strings.Join(promoted, ", "))
	}

	for _, outcome := range report.Failed() {
		fmt.Fprintf(&b, "Failed: %s (%s)", outcome.KeySetID, outcome.Error)
		if outcome.Degraded {
			b.WriteString(" [degraded]")
		}
		b.WriteString("\n")
	}

	for _, group := range report.Rejected {
		fmt.Fprintf(&b, "Rejected: %s (%s)\n", group.Token, group.Reason)
	}

	if report.ActiveID == "" {
		b.WriteString("Active: none\n")
	} else {
		fmt.Fprintf(&b, "Active: %s\n", report.ActiveID)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RunActiveKeySet prints the identifier of the active key set.
func RunActiveKeySet(
	ctx context.Context,
	keySetUseCase keysetUseCase.KeySetUseCase,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := keySetUseCase.CurrentActiveIdentifier(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve active key set: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, keysetDTO.ActiveKeySetResponse{ID: id})
	}

	_, err = fmt.Fprintln(writer, id)
	return err
}

// RunListKeySets prints the complete key sets of one stage, oldest first.
func RunListKeySets(
	ctx context.Context,
	keySetUseCase keysetUseCase.KeySetUseCase,
	writer io.Writer,
	stageName string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	stage, err := keysetDomain.ParseStage(stageName)
	if err != nil {
		return err
	}

	keySets, err := keySetUseCase.ListKeySets(ctx, stage)
	if err != nil {
		return fmt.Errorf("failed to list key sets: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, keysetDTO.MapKeySetsToListResponse(keySets))
	}

	if len(keySets) == 0 {
		_, err = fmt.Fprintf(writer, "No key sets in %s\n", stage)
		return err
	}

	for _, keySet := range keySets {
		if _, err := fmt.Fprintf(writer, "%s\t%s\n", keySet.ID, keySet.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}
