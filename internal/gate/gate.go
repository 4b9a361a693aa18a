package gate

// #region imports
import (
	"math"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region fixed-literals

// The only numeric literals the gate owns; everything else comes from the
// lane policy table via Config.
const (
	earlyShockLimit     = 2 // shocks tolerated in the early window
	twistCapMultiplier  = 3 // rate ceiling = (cap+1) * multiplier
	meaningShiftMinimum = 1
)

// #endregion fixed-literals

// #region evaluate

// Evaluate runs the eight-category decision table over one attempt's metrics
// and scores. Checks are independent; any subset may fire, and pass is true
// iff the failure set is empty. Total, side-effect-free, and clock-free:
// identical inputs yield identical attempts.
func Evaluate(m narrative.Metrics, scores narrative.Scores, cfg Config) narrative.GateAttempt {
	caps := cfg.Caps
	var failures []narrative.FailureKind

	// Melodrama: restraint linearly rescales the lane tolerance.
	// restraint=50 is neutral, 100 halves tolerance, 0 doubles it.
	melodrama := clampScore(scores.Melodrama)
	threshold := cfg.MelodramaThreshold
	if threshold <= 0 {
		threshold = caps.DramaBudget
	}
	restraint := clampRestraint(cfg.Restraint)
	effective := threshold * (1 - (restraint-50)/200)
	if melodrama > effective {
		failures = append(failures, narrative.FailureMelodrama)
	}

	// Overcomplexity: any structural budget blown by 2x (or character density
	// over its cap) fails the attempt.
	if m.PlotThreads > 2*caps.PlotThreadCap ||
		m.NamedFactions > 2*caps.FactionCap ||
		m.NewCharacterDensity > caps.NewCharacterCap {
		failures = append(failures, narrative.FailureOvercomplexity)
	}

	// Template similarity: only when diversification is on for the lane.
	if cfg.Diversify && cfg.SimilarityRisk > cfg.SimilarityThreshold {
		failures = append(failures, narrative.FailureTemplateSimilarity)
	}

	// Stakes too big too early: lane must opt in via the caps flag.
	if caps.StakesScaleEarly && m.EarlyShockEvents > earlyShockLimit {
		failures = append(failures, narrative.FailureStakesTooEarly)
	}

	// Twist overuse: rate ceiling derived from the lane twist cap.
	if m.TwistKeywordRate > float64(caps.TwistCap+1)*twistCapMultiplier {
		failures = append(failures, narrative.FailureTwistOveruse)
	}

	if m.SubtextScenes < caps.SubtextScenesMin {
		failures = append(failures, narrative.FailureSubtextMissing)
	}

	if m.QuietBeats < caps.QuietBeatsMin {
		failures = append(failures, narrative.FailureQuietBeatsMissing)
	}

	if m.MeaningShifts < meaningShiftMinimum {
		failures = append(failures, narrative.FailureMeaningShiftMissing)
	}

	return narrative.GateAttempt{
		Pass:     len(failures) == 0,
		Failures: failures,
		Metrics:  m,
		Scores: narrative.Scores{
			Melodrama: melodrama,
			Nuance:    clampScore(scores.Nuance),
		},
	}
}

// #endregion evaluate

// #region helpers

// clampRestraint pins the dial to [0,100]; non-finite values become neutral.
func clampRestraint(v float64) float64 {
	if math.IsNaN(v) {
		return 50
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
