package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Move relocates one file between stages, keeping or renaming it.
type Move struct {
	From   Stage  `json:"from"`
	To     Stage  `json:"to"`
	Name   string `json:"name"`
	Target string `json:"target"`
}

// PromotionPlan is the ordered set of file operations that promotes one staged
// key set. It is executed as: every Demotion, then every Purge, then every
// Promotion. A failing demotion aborts the plan before anything else runs.
type PromotionPlan struct {
	Candidate KeySet

	// Demotions move the currently active set into the retired stage. The
	// wrapped key is demoted when present; the PEM pair only when both halves
	// are present, so a half key pair is never retired on its own.
	Demotions []Move

	// Purges lists active-stage key files that are neither being demoted nor
	// the candidate's target names. Failures here are advisory.
	Purges []string

	// Promotions move the candidate's staged files to their canonical names in
	// the active stage.
	Promotions []Move
}

// PlanPromotion computes the promote-and-retire transition for candidate given
// the current contents of the active stage.
func PlanPromotion(candidate KeySet, active []FileEntry) PromotionPlan {
	names := make([]string, 0, len(active))
	for _, entry := range active {
		names = append(names, entry.Name)
	}
	sort.Strings(names)

	var wrapped, public, private string
	for _, name := range names {
		switch KeyFileKind(name) {
		case FileKindWrappedKey:
			if wrapped == "" {
				wrapped = name
			}
		case FileKindPublicKey:
			if public == "" {
				public = name
			}
		case FileKindPrivateKey:
			if private == "" {
				private = name
			}
		}
	}

	plan := PromotionPlan{Candidate: candidate}
	demoted := make(map[string]bool)

	if wrapped != "" {
		plan.Demotions = append(plan.Demotions, retire(wrapped))
		demoted[wrapped] = true
	}
	if public != "" && private != "" {
		plan.Demotions = append(plan.Demotions, retire(public), retire(private))
		demoted[public] = true
		demoted[private] = true
	}

	targetWrapped, targetPublic, targetPrivate := CanonicalFiles(candidate.ID)
	targets := map[string]bool{targetWrapped: true, targetPublic: true, targetPrivate: true}

	for _, name := range names {
		if KeyFileKind(name) == FileKindUnknown || demoted[name] || targets[name] {
			continue
		}
		plan.Purges = append(plan.Purges, name)
	}

	plan.Promotions = []Move{
		{From: StageStaging, To: StageActive, Name: candidate.WrappedKeyFile, Target: targetWrapped},
		{From: StageStaging, To: StageActive, Name: candidate.PublicKeyFile, Target: targetPublic},
		{From: StageStaging, To: StageActive, Name: candidate.PrivateKeyFile, Target: targetPrivate},
	}

	return plan
}

func retire(name string) Move {
	return Move{From: StageActive, To: StageRetired, Name: name, Target: name}
}

// PromotionOutcome records what happened to one candidate during a rotation run.
type PromotionOutcome struct {
	KeySetID   string    `json:"key_set_id"`
	CreatedAt  time.Time `json:"created_at"`
	Promoted   bool      `json:"promoted"`
	Demoted    []string  `json:"demoted,omitempty"`
	Purged     []string  `json:"purged,omitempty"`
	PurgeFails []string  `json:"purge_failures,omitempty"`
	// Degraded is set when a promotion move failed after the active stage was
	// already changed. The active directory then needs operator attention.
	Degraded bool   `json:"degraded"`
	Error    string `json:"error,omitempty"`
}

// RotationReport summarises one RotatePending run.
type RotationReport struct {
	RunID      uuid.UUID          `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Outcomes   []PromotionOutcome `json:"outcomes"`
	Rejected   []RejectedGroup    `json:"rejected"`
	// ActiveID is the identifier in the active stage after the run, empty if none.
	ActiveID string `json:"active_id,omitempty"`
}

// Promoted returns the identifiers promoted during the run, in order.
func (r RotationReport) Promoted() []string {
	var ids []string
	for _, o := range r.Outcomes {
		if o.Promoted {
			ids = append(ids, o.KeySetID)
		}
	}
	return ids
}

// Failed returns the outcomes whose promotion did not complete.
func (r RotationReport) Failed() []PromotionOutcome {
	var failed []PromotionOutcome
	for _, o := range r.Outcomes {
		if !o.Promoted {
			failed = append(failed, o)
		}
	}
	return failed
}

// Degraded reports whether any promotion left the active stage half-written.
func (r RotationReport) Degraded() bool {
	for _, o := range r.Outcomes {
		if o.Degraded {
			return true
		}
	}
	return false
}
