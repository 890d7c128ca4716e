package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// RotatePending scans the staging stage and promotes every complete key set in
// creation order, so the newest staged set ends up active. Incomplete groups
// are logged and left in staging. A failed promotion leaves its candidate in
// staging and does not stop the remaining candidates.
//
// The returned error is only set when the run could not start (the staging
// stage could not be listed). Everything else is recorded in the report.
func (k *keySetUseCase) RotatePending(ctx context.Context) (*keysetDomain.RotationReport, error) {
	k.rotationMu.Lock()
	defer k.rotationMu.Unlock()

	runID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate rotation run id: %w", err)
	}

	report := &keysetDomain.RotationReport{
		RunID:     runID,
		StartedAt: k.now().UTC(),
		Outcomes:  []keysetDomain.PromotionOutcome{},
		Rejected:  []keysetDomain.RejectedGroup{},
	}
	logger := k.logger.With(slog.String("run_id", runID.String()))

	if err := k.store.EnsureLayout(); err != nil {
		return nil, err
	}

	entries, err := k.store.List(keysetDomain.StageStaging)
	if err != nil {
		return nil, err
	}

	candidates, rejected := keysetDomain.GroupCandidates(
		keysetDomain.StageStaging,
		k.store.Dir(keysetDomain.StageStaging),
		entries,
	)
	for _, group := range rejected {
		logger.Warn("skipping incomplete staged key set",
			slog.String("token", group.Token),
			slog.Any("files", group.Files),
			slog.String("reason", group.Reason),
		)
		report.Rejected = append(report.Rejected, group)
	}

	for _, candidate := range candidates {
		outcome := k.promote(logger, candidate)
		report.Outcomes = append(report.Outcomes, outcome)
	}

	if keySets, _, err := k.store.ListKeySets(keysetDomain.StageActive); err == nil {
		if latest, ok := keysetDomain.Latest(keySets); ok {
			report.ActiveID = latest.ID
		}
	}

	report.FinishedAt = k.now().UTC()

	logger.Info("rotation finished",
		slog.Int("candidates", len(candidates)),
		slog.Int("promoted", len(report.Promoted())),
		slog.Int("failed", len(report.Failed())),
		slog.Int("rejected", len(report.Rejected)),
		slog.String("active_id", report.ActiveID),
	)

	return report, nil
}

// promote executes the promotion plan for one candidate: demote the active set,
// purge leftovers, then move the candidate in. The candidate's staging files
// are only gone once all three promotion moves succeed.
func (k *keySetUseCase) promote(logger *slog.Logger, candidate keysetDomain.KeySet) keysetDomain.PromotionOutcome {
	outcome := keysetDomain.PromotionOutcome{
		KeySetID:  candidate.ID,
		CreatedAt: candidate.CreatedAt,
	}
	logger = logger.With(slog.String("key_set_id", candidate.ID))

	active, err := k.store.List(keysetDomain.StageActive)
	if err != nil {
		outcome.Error = err.Error()
		logger.Error("failed to list active key set", slog.Any("error", err))
		return outcome
	}

	plan := keysetDomain.PlanPromotion(candidate, active)

	for _, move := range plan.Demotions {
		if err := k.store.Move(move); err != nil {
			outcome.Error = err.Error()
			outcome.Degraded = len(outcome.Demoted) > 0
			logger.Error("failed to retire active key set, promotion aborted",
				slog.String("file", move.Name),
				slog.Bool("degraded", outcome.Degraded),
				slog.Any("error", err),
			)
			return outcome
		}
		outcome.Demoted = append(outcome.Demoted, move.Name)
	}

	for _, name := range plan.Purges {
		if err := k.store.Remove(keysetDomain.StageActive, name); err != nil {
			outcome.PurgeFails = append(outcome.PurgeFails, name)
			logger.Warn("failed to purge stale active file", slog.String("file", name), slog.Any("error", err))
			continue
		}
		outcome.Purged = append(outcome.Purged, name)
	}

	for i, move := range plan.Promotions {
		if err := k.store.Move(move); err != nil {
			outcome.Error = err.Error()
			outcome.Degraded = i > 0 || len(outcome.Demoted) > 0 || len(outcome.Purged) > 0
			if outcome.Degraded {
				logger.Error("partial promotion left the active stage inconsistent, operator attention required",
					slog.String("file", move.Name),
					slog.Int("moved", i),
					slog.Any("error", err),
				)
			} else {
				logger.Error("failed to promote key set", slog.String("file", move.Name), slog.Any("error", err))
			}
			return outcome
		}
	}

	for _, move := range plan.Promotions {
		if err := k.store.Remove(keysetDomain.StageStaging, move.Name); err != nil {
			logger.Warn("failed to remove promoted staging file", slog.String("file", move.Name), slog.Any("error", err))
		}
	}

	outcome.Promoted = true
	logger.Info("key set promoted",
		slog.Any("demoted", outcome.Demoted),
		slog.Any("purged", outcome.Purged),
	)
	return outcome
}
