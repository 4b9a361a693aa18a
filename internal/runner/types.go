package runner

// #region imports
import (
	"context"
	"time"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/history"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region outcome-kind

// OutcomeKind is the closed set of terminal run shapes. Callers switch on the
// kind instead of probing nullable attempt fields.
type OutcomeKind string

const (
	OutcomePassed             OutcomeKind = "passed"
	OutcomeRepairedThenPassed OutcomeKind = "repaired_then_passed"
	OutcomeRepairedStillFail  OutcomeKind = "repaired_still_failed"
	OutcomeRepairUnavailable  OutcomeKind = "repair_unavailable"
)

// #endregion outcome-kind

// #region request

// Request is one gate run for one externally-generated text.
type Request struct {
	ProjectID       string
	Lane            string
	Prompt          string
	Text            string // attempt-0 text from the external generator
	StoryEngine     narrative.StoryEngine
	CausalGrammar   narrative.CausalGrammar
	ConflictMode    narrative.ConflictMode // empty = lane default
	Restraint       float64                // 0-100, 50 neutral
	ForbiddenTropes []string
}

// #endregion request

// #region analysis

// Analysis bundles everything derived from one attempt's text.
type Analysis struct {
	Metrics        narrative.Metrics
	Scores         narrative.Scores
	Fingerprint    narrative.Fingerprint
	SimilarityRisk float64
	Attempt        narrative.GateAttempt
}

// #endregion analysis

// #region result

// Result is the two-attempt record persisted to run history.
// Attempt1 is non-nil iff a repair round ran; Final is taken from the last
// attempt executed.
type Result struct {
	RunID             string
	ProjectID         string
	Lane              string
	Kind              OutcomeKind
	Attempt0          Analysis
	Attempt1          *Analysis
	Final             narrative.GateAttempt
	RepairInstruction string // present iff attempt 0 failed
	CreatedAt         time.Time
}

// #endregion result

// #region generator

// Generator is the external text generator, invoked at most once per run to
// apply a repair instruction. Best-effort and possibly failing; timeout and
// retry policy belong to the implementation behind this interface.
type Generator interface {
	Repair(ctx context.Context, prompt, priorText, instruction string) (string, error)
}

// #endregion generator

// #region history-store

// HistoryStore is the append-only fingerprint and run persistence
// collaborator; *history.Store satisfies it.
type HistoryStore interface {
	Recent(projectID, lane string, n int) ([]narrative.Fingerprint, error)
	AppendFingerprint(projectID string, fp narrative.Fingerprint) error
	RecordRun(rec history.RunRecord) error
}

// #endregion history-store
