package gate

// #region imports
import (
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region gate-config

// Config carries everything one Evaluate call needs: the lane key, the
// lane-resolved thresholds and caps, the upstream similarity risk, and the
// caller's restraint dial. Thresholds are resolved from the lane policy table
// by the caller; Caps is the single source of truth for per-category budgets.
type Config struct {
	Lane                string
	Caps                narrative.Caps
	Diversify           bool
	SimilarityRisk      float64 // computed upstream by the history comparator
	SimilarityThreshold float64
	MelodramaThreshold  float64 // lane tolerance at restraint 50; 0 falls back to Caps.DramaBudget
	Restraint           float64 // 0-100 dial; 50 neutral, 100 halves tolerance, 0 doubles it
}

// DefaultConfig returns the documented default threshold set used when no
// lane policy is available.
func DefaultConfig() Config {
	return Config{
		Caps: narrative.Caps{
			DramaBudget:         0.60,
			TwistCap:            2,
			NewCharacterCap:     6,
			PlotThreadCap:       3,
			FactionCap:          3,
			SubtextScenesMin:    1,
			QuietBeatsMin:       1,
			StakesLateThreshold: 0.25,
		},
		Diversify:           true,
		SimilarityThreshold: 0.75,
		MelodramaThreshold:  0.60,
		Restraint:           50,
	}
}

// #endregion gate-config
