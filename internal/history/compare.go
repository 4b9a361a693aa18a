package history

// #region imports
import (
	"sort"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region field-weights

// Similarity compares the eight single-valued categorical axes. Setting tags
// feed diversification hints only, so an identical fingerprint always scores
// exactly 1.0. Weights are lane-dependent:
//   - vertical upweights conflict mode and inciting incident (3 vs 1)
//   - feature upweights story engine and causal grammar (3 vs 1)
//   - every other lane weighs all eight fields equally
const (
	baseFieldWeight = 1.0
	laneFieldWeight = 3.0
)

type fieldWeights struct {
	storyEngine   float64
	causalGrammar float64
	conflictMode  float64
	stakesType    float64
	twistBucket   float64
	antagonist    float64
	ending        float64
	incident      float64
}

func weightsFor(lane string) fieldWeights {
	w := fieldWeights{
		storyEngine:   baseFieldWeight,
		causalGrammar: baseFieldWeight,
		conflictMode:  baseFieldWeight,
		stakesType:    baseFieldWeight,
		twistBucket:   baseFieldWeight,
		antagonist:    baseFieldWeight,
		ending:        baseFieldWeight,
		incident:      baseFieldWeight,
	}
	switch lane {
	case narrative.LaneVertical:
		w.conflictMode = laneFieldWeight
		w.incident = laneFieldWeight
	case narrative.LaneFeature:
		w.storyEngine = laneFieldWeight
		w.causalGrammar = laneFieldWeight
	}
	return w
}

func (w fieldWeights) total() float64 {
	return w.storyEngine + w.causalGrammar + w.conflictMode + w.stakesType +
		w.twistBucket + w.antagonist + w.ending + w.incident
}

// #endregion field-weights

// #region similarity-risk

// SimilarityRisk measures how closely current matches the recent window of
// prior fingerprints for the same project/lane. Empty window is defined as
// exactly 0. Bounded to [0,1] by construction: per-fingerprint match fractions
// are weight-normalized and then averaged.
func SimilarityRisk(current narrative.Fingerprint, recent []narrative.Fingerprint, lane string) float64 {
	if len(recent) == 0 {
		return 0
	}

	w := weightsFor(lane)
	total := w.total()

	var sum float64
	for _, prior := range recent {
		var matched float64
		if current.StoryEngine == prior.StoryEngine {
			matched += w.storyEngine
		}
		if current.CausalGrammar == prior.CausalGrammar {
			matched += w.causalGrammar
		}
		if current.ConflictMode == prior.ConflictMode {
			matched += w.conflictMode
		}
		if current.StakesType == prior.StakesType {
			matched += w.stakesType
		}
		if current.TwistBucket == prior.TwistBucket {
			matched += w.twistBucket
		}
		if current.AntagonistType == prior.AntagonistType {
			matched += w.antagonist
		}
		if current.EndingType == prior.EndingType {
			matched += w.ending
		}
		if current.IncidentCategory == prior.IncidentCategory {
			matched += w.incident
		}
		sum += matched / total
	}

	return sum / float64(len(recent))
}

// #endregion similarity-risk

// #region hints

// Hints lists overused categorical values to steer away from in the next
// generation attempt. Slices are sorted for deterministic output.
type Hints struct {
	StoryEngines       []string
	CausalGrammars     []string
	ConflictModes      []string
	StakesTypes        []string
	AntagonistTypes    []string
	EndingTypes        []string
	IncidentCategories []string
	SettingTags        []string
}

// Hint frequency thresholds: a value occurring in at least 40% of the window
// is flagged; 30% for conflict mode and inciting incident under a vertical
// lane. This is a coarser signal than SimilarityRisk and both are exposed.
const (
	hintThreshold         = 0.40
	verticalHintThreshold = 0.30
)

// DiversificationHints frequency-counts each categorical value across recent
// and returns the overused values per field.
func DiversificationHints(recent []narrative.Fingerprint, lane string) Hints {
	if len(recent) == 0 {
		return Hints{}
	}

	n := float64(len(recent))
	laneThreshold := hintThreshold
	if lane == narrative.LaneVertical {
		laneThreshold = verticalHintThreshold
	}

	engines := make(map[string]int)
	grammars := make(map[string]int)
	modes := make(map[string]int)
	stakes := make(map[string]int)
	antagonists := make(map[string]int)
	endings := make(map[string]int)
	incidents := make(map[string]int)
	tags := make(map[string]int)

	for _, fp := range recent {
		engines[string(fp.StoryEngine)]++
		grammars[string(fp.CausalGrammar)]++
		modes[string(fp.ConflictMode)]++
		stakes[string(fp.StakesType)]++
		antagonists[string(fp.AntagonistType)]++
		endings[string(fp.EndingType)]++
		incidents[string(fp.IncidentCategory)]++
		for _, tag := range fp.SettingTags {
			tags[tag]++
		}
	}

	return Hints{
		StoryEngines:       overused(engines, n, hintThreshold),
		CausalGrammars:     overused(grammars, n, hintThreshold),
		ConflictModes:      overused(modes, n, laneThreshold),
		StakesTypes:        overused(stakes, n, hintThreshold),
		AntagonistTypes:    overused(antagonists, n, hintThreshold),
		EndingTypes:        overused(endings, n, hintThreshold),
		IncidentCategories: overused(incidents, n, laneThreshold),
		SettingTags:        overused(tags, n, hintThreshold),
	}
}

// #endregion hints

// #region helpers

func overused(counts map[string]int, n, threshold float64) []string {
	var out []string
	for value, count := range counts {
		if value == "" {
			continue
		}
		if float64(count)/n >= threshold {
			out = append(out, value)
		}
	}
	sort.Strings(out)
	return out
}

// #endregion helpers
