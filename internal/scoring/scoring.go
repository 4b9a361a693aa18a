package scoring

// #region imports
import (
	"math"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region weights

// Melodrama terms: weight * min(1, metric/saturation). Weights total 1.0.
const (
	absoluteRateSaturation = 10.0 // per 1,000 words
	absoluteRateWeight     = 0.20
	twistRateSaturation    = 8.0
	twistRateWeight        = 0.20
	conspiracySaturation   = 5.0
	conspiracyWeight       = 0.15
	earlyShockSaturation   = 3.0
	earlyShockWeight       = 0.20
	longSpeechSaturation   = 4.0
	longSpeechWeight       = 0.10
	factionSaturation      = 8.0
	factionWeight          = 0.15
)

// Nuance terms. Weights total 1.0.
const (
	subtextSaturation     = 3.0
	subtextWeight         = 0.25
	quietBeatSaturation   = 2.0
	quietBeatWeight       = 0.20
	meaningShiftWeight    = 0.20
	legitimacyWeight      = 0.15
	costMarkerSaturation  = 2.0
	costMarkerWeight      = 0.10
	lowTwistDensityWeight = 0.10
)

// #endregion weights

// #region melodrama

// Melodrama reduces the metrics record to a [0,1] melodrama score.
// Pure and total; negative inputs are treated as zero.
func Melodrama(m narrative.Metrics) float64 {
	score := absoluteRateWeight*saturate(m.AbsoluteWordRate, absoluteRateSaturation) +
		twistRateWeight*saturate(m.TwistKeywordRate, twistRateSaturation) +
		conspiracyWeight*saturate(float64(m.ConspiracyMarkers), conspiracySaturation) +
		earlyShockWeight*saturate(float64(m.EarlyShockEvents), earlyShockSaturation) +
		longSpeechWeight*saturate(float64(m.LongSpeeches), longSpeechSaturation) +
		factionWeight*saturate(float64(m.NamedFactions), factionSaturation)
	return clamp(score)
}

// #endregion melodrama

// #region nuance

// Nuance reduces the metrics record to a [0,1] nuance score. The final term
// rewards low twist/conspiracy density rather than penalizing its presence.
func Nuance(m narrative.Metrics) float64 {
	score := subtextWeight*saturate(float64(m.SubtextScenes), subtextSaturation) +
		quietBeatWeight*saturate(float64(m.QuietBeats), quietBeatSaturation) +
		costMarkerWeight*saturate(float64(m.CostOfActionMarkers), costMarkerSaturation)

	if m.MeaningShifts >= 1 {
		score += meaningShiftWeight
	}
	if m.AntagonistLegitimacy {
		score += legitimacyWeight
	}

	// Inverse term: full credit when twist and conspiracy density are both low.
	twistDensity := saturate(m.TwistKeywordRate, twistRateSaturation)
	conspiracyDensity := saturate(float64(m.ConspiracyMarkers), conspiracySaturation)
	score += lowTwistDensityWeight * (1.0 - maxOf(twistDensity, conspiracyDensity))

	return clamp(score)
}

// #endregion nuance

// #region helpers

// saturate returns min(1, value/threshold). Negative and non-finite values
// are treated as zero rather than propagated.
func saturate(value, threshold float64) float64 {
	if math.IsNaN(value) || value <= 0 || threshold <= 0 {
		return 0
	}
	r := value / threshold
	if r > 1 {
		return 1
	}
	return r
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// #endregion helpers
