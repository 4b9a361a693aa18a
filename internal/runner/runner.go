package runner

// #region imports
import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/fingerprint"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/gate"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/history"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/laneconfig"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/metrics"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/repair"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/scoring"
)

// #endregion

// #region runner-struct

// defaultHistoryWindow bounds the recent-fingerprint read per run.
const defaultHistoryWindow = 20

// Runner composes extraction, scoring, fingerprinting, history comparison,
// the policy gate, and the single repair round. Everything it touches is
// immutable after creation except the append-only history log, which the
// store owns.
type Runner struct {
	table  laneconfig.Table
	gen    Generator
	store  HistoryStore
	log    *zap.Logger
	window int
}

// New wires a runner. gen may be nil (repair rounds become unavailable),
// logger may be nil.
func New(table laneconfig.Table, gen Generator, store HistoryStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		table:  table,
		gen:    gen,
		store:  store,
		log:    logger,
		window: defaultHistoryWindow,
	}
}

// #endregion runner-struct

// #region analyze

// Analyze runs the pure pipeline for one text against a snapshot of recent
// fingerprints: extract, score, classify, compare, gate. No side effects.
func Analyze(table laneconfig.Table, req Request, recent []narrative.Fingerprint) Analysis {
	m := metrics.Extract(req.Text)
	scores := narrative.Scores{
		Melodrama: scoring.Melodrama(m),
		Nuance:    scoring.Nuance(m),
	}

	mode := req.ConflictMode
	if mode == "" {
		mode = table.DefaultConflictMode(req.Lane)
	}
	fp := fingerprint.Classify(req.Text, req.Lane, req.StoryEngine, req.CausalGrammar, mode)

	risk := history.SimilarityRisk(fp, recent, req.Lane)

	attempt := gate.Evaluate(m, scores, gate.Config{
		Lane:                req.Lane,
		Caps:                table.CapsFor(req.Lane),
		Diversify:           table.DiversifyEnabled(req.Lane),
		SimilarityRisk:      risk,
		SimilarityThreshold: table.SimilarityThreshold(req.Lane),
		MelodramaThreshold:  table.MelodramaThreshold(req.Lane),
		Restraint:           req.Restraint,
	})

	return Analysis{
		Metrics:        m,
		Scores:         attempt.Scores,
		Fingerprint:    fp,
		SimilarityRisk: risk,
		Attempt:        attempt,
	}
}

// #endregion analyze

// #region run

// Run executes attempt 0 and, if it fails, exactly one repair round. The
// history window is snapshotted once at the start of the run; attempt 1 is
// compared against the same snapshot. Only the final attempt's fingerprint is
// historized; a rejected attempt-0 text is never appended, so it cannot
// penalize future similarity checks.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	recent, err := r.store.Recent(req.ProjectID, req.Lane, r.window)
	if err != nil {
		return Result{}, fmt.Errorf("read history: %w", err)
	}

	res := Result{
		RunID:     uuid.New().String(),
		ProjectID: req.ProjectID,
		Lane:      req.Lane,
		CreatedAt: time.Now().UTC(),
	}

	res.Attempt0 = Analyze(r.table, req, recent)
	r.log.Info("attempt evaluated",
		zap.String("run_id", res.RunID),
		zap.Int("attempt", 0),
		zap.Bool("pass", res.Attempt0.Attempt.Pass),
		zap.Float64("melodrama", res.Attempt0.Scores.Melodrama),
		zap.Float64("nuance", res.Attempt0.Scores.Nuance),
		zap.Float64("similarity_risk", res.Attempt0.SimilarityRisk))

	if res.Attempt0.Attempt.Pass {
		res.Kind = OutcomePassed
		res.Final = res.Attempt0.Attempt
		return res, r.persist(res, &res.Attempt0.Fingerprint)
	}

	res.RepairInstruction = repair.BuildInstruction(
		res.Attempt0.Attempt.Failures,
		r.table.CapsFor(req.Lane),
		req.ForbiddenTropes,
		req.Lane,
	)

	repaired, ok := r.requestRepair(ctx, req, res.RepairInstruction)
	if !ok {
		// The generator call is the caller's concern when it fails: the run
		// terminates at attempt 0 with pass=false and no attempt 1.
		res.Kind = OutcomeRepairUnavailable
		res.Final = res.Attempt0.Attempt
		return res, r.persist(res, nil)
	}

	repairedReq := req
	repairedReq.Text = repaired
	attempt1 := Analyze(r.table, repairedReq, recent)
	res.Attempt1 = &attempt1
	res.Final = attempt1.Attempt

	if attempt1.Attempt.Pass {
		res.Kind = OutcomeRepairedThenPassed
	} else {
		res.Kind = OutcomeRepairedStillFail
	}
	r.log.Info("attempt evaluated",
		zap.String("run_id", res.RunID),
		zap.Int("attempt", 1),
		zap.Bool("pass", attempt1.Attempt.Pass),
		zap.Float64("melodrama", attempt1.Scores.Melodrama),
		zap.Float64("nuance", attempt1.Scores.Nuance))

	return res, r.persist(res, &attempt1.Fingerprint)
}

// #endregion run

// #region repair-round

// requestRepair performs the single outward call of the pipeline.
func (r *Runner) requestRepair(ctx context.Context, req Request, instruction string) (string, bool) {
	if r.gen == nil {
		r.log.Warn("no generator wired, repair round unavailable")
		return "", false
	}
	text, err := r.gen.Repair(ctx, req.Prompt, req.Text, instruction)
	if err != nil {
		r.log.Warn("repair generation failed",
			zap.String("project", req.ProjectID),
			zap.String("lane", req.Lane),
			zap.Error(err))
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		r.log.Warn("repair generation returned empty text",
			zap.String("project", req.ProjectID),
			zap.String("lane", req.Lane))
		return "", false
	}
	return text, true
}

// #endregion repair-round

// #region persist

// persist records the run row and, when fp is non-nil, appends the final
// attempt's fingerprint to the project+lane log.
func (r *Runner) persist(res Result, fp *narrative.Fingerprint) error {
	risk := res.Attempt0.SimilarityRisk
	if res.Attempt1 != nil {
		risk = res.Attempt1.SimilarityRisk
	}
	rec := history.RunRecord{
		RunID:             res.RunID,
		ProjectID:         res.ProjectID,
		Lane:              res.Lane,
		Outcome:           string(res.Kind),
		Pass:              res.Final.Pass,
		Failures:          res.Final.Failures,
		Melodrama:         res.Final.Scores.Melodrama,
		Nuance:            res.Final.Scores.Nuance,
		SimilarityRisk:    risk,
		RepairInstruction: res.RepairInstruction,
		CreatedAt:         res.CreatedAt,
	}
	if err := r.store.RecordRun(rec); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	if fp != nil {
		if err := r.store.AppendFingerprint(res.ProjectID, *fp); err != nil {
			return fmt.Errorf("append fingerprint: %w", err)
		}
	}
	return nil
}

// #endregion persist
