package history

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

func baseFingerprint(lane string) narrative.Fingerprint {
	return narrative.Fingerprint{
		Lane:             lane,
		StoryEngine:      narrative.EngineHiddenTruth,
		CausalGrammar:    narrative.GrammarEscalation,
		ConflictMode:     narrative.ConflictInterpersonal,
		StakesType:       narrative.StakesPersonal,
		TwistBucket:      narrative.TwistNone,
		AntagonistType:   narrative.AntagonistPerson,
		EndingType:       narrative.EndingAmbiguous,
		IncidentCategory: narrative.IncidentDiscovery,
	}
}

func TestSimilarityRiskEmptyWindow(t *testing.T) {
	require.Zero(t, SimilarityRisk(baseFingerprint("drama"), nil, "drama"))
}

func TestSimilarityRiskIdenticalWindow(t *testing.T) {
	fp := baseFingerprint(narrative.LaneVertical)
	recent := []narrative.Fingerprint{fp, fp, fp}
	require.Equal(t, 1.0, SimilarityRisk(fp, recent, narrative.LaneVertical))
}

func TestSimilarityRiskLaneWeighting(t *testing.T) {
	current := baseFingerprint("drama")
	prior := current
	prior.ConflictMode = narrative.ConflictInternal
	recent := []narrative.Fingerprint{prior}

	// Unweighted lane: one mismatch out of eight equal fields.
	require.InDelta(t, 7.0/8.0, SimilarityRisk(current, recent, "drama"), 1e-9)

	// Vertical triples conflict mode, so the same mismatch costs more.
	require.InDelta(t, 9.0/12.0, SimilarityRisk(current, recent, narrative.LaneVertical), 1e-9)

	// Feature triples story engine and causal grammar instead; conflict mode
	// stays at base weight.
	require.InDelta(t, 11.0/12.0, SimilarityRisk(current, recent, narrative.LaneFeature), 1e-9)
}

func TestSimilarityRiskAveragesOverWindow(t *testing.T) {
	current := baseFingerprint("drama")
	same := current
	different := current
	different.StoryEngine = narrative.EngineRevenge
	different.CausalGrammar = narrative.GrammarReversal
	different.ConflictMode = narrative.ConflictSocietal
	different.StakesType = narrative.StakesExistential
	different.TwistBucket = narrative.TwistMultiple
	different.AntagonistType = narrative.AntagonistInstitution
	different.EndingType = narrative.EndingTragic
	different.IncidentCategory = narrative.IncidentBetrayal

	risk := SimilarityRisk(current, []narrative.Fingerprint{same, different}, "drama")
	require.InDelta(t, 0.5, risk, 1e-9)
}

func TestSimilarityRiskIgnoresSettingTags(t *testing.T) {
	current := baseFingerprint("drama")
	prior := current
	prior.SettingTags = []string{"urban", "medical"}
	require.Equal(t, 1.0, SimilarityRisk(current, []narrative.Fingerprint{prior}, "drama"))
}

func TestDiversificationHintsEmptyWindow(t *testing.T) {
	require.Equal(t, Hints{}, DiversificationHints(nil, "drama"))
}

func TestDiversificationHintsThreshold(t *testing.T) {
	a := baseFingerprint("drama")
	b := baseFingerprint("drama")
	b.StoryEngine = narrative.EngineRevenge
	c := baseFingerprint("drama")
	c.StoryEngine = narrative.EngineSurvival
	d := baseFingerprint("drama")
	d.StoryEngine = narrative.EngineRedemption
	e := baseFingerprint("drama")

	// hidden_truth appears 2/5 = 40%, exactly at the threshold; all others 20%.
	hints := DiversificationHints([]narrative.Fingerprint{a, b, c, d, e}, "drama")
	require.Equal(t, []string{string(narrative.EngineHiddenTruth)}, hints.StoryEngines)
}

func TestDiversificationHintsVerticalLowersConflictAndIncidentBar(t *testing.T) {
	a := baseFingerprint(narrative.LaneVertical)
	b := baseFingerprint(narrative.LaneVertical)
	b.ConflictMode = narrative.ConflictSocietal
	b.IncidentCategory = narrative.IncidentBetrayal
	c := baseFingerprint(narrative.LaneVertical)
	c.ConflictMode = narrative.ConflictInternal
	c.IncidentCategory = narrative.IncidentLoss

	window := []narrative.Fingerprint{a, b, c}

	// Every conflict mode and incident sits at 1/3, below 40% but at the
	// vertical 30% bar, so vertical flags all of them.
	vertical := DiversificationHints(window, narrative.LaneVertical)
	require.Equal(t, []string{
		string(narrative.ConflictInternal),
		string(narrative.ConflictInterpersonal),
		string(narrative.ConflictSocietal),
	}, vertical.ConflictModes)
	require.Equal(t, []string{
		string(narrative.IncidentBetrayal),
		string(narrative.IncidentDiscovery),
		string(narrative.IncidentLoss),
	}, vertical.IncidentCategories)

	// Other lanes keep the 40% bar, so none of the 1/3 values are flagged.
	feature := DiversificationHints(window, narrative.LaneFeature)
	require.Empty(t, feature.ConflictModes)
	require.Empty(t, feature.IncidentCategories)

	// Axes without the lane carve-out still use 40% under vertical: story
	// engine is identical across the window and is flagged on both lanes.
	require.Equal(t, []string{string(narrative.EngineHiddenTruth)}, vertical.StoryEngines)
	require.Equal(t, []string{string(narrative.EngineHiddenTruth)}, feature.StoryEngines)
}

func TestDiversificationHintsCountsSettingTags(t *testing.T) {
	a := baseFingerprint("drama")
	a.SettingTags = []string{"urban", "domestic"}
	b := baseFingerprint("drama")
	b.SettingTags = []string{"urban"}
	c := baseFingerprint("drama")
	c.SettingTags = []string{"rural"}

	hints := DiversificationHints([]narrative.Fingerprint{a, b, c}, "drama")
	require.Equal(t, []string{"urban"}, hints.SettingTags)
}

func TestDiversificationHintsSkipsEmptyValues(t *testing.T) {
	a := baseFingerprint("drama")
	a.ConflictMode = ""
	b := baseFingerprint("drama")
	b.ConflictMode = ""

	hints := DiversificationHints([]narrative.Fingerprint{a, b}, "drama")
	require.Empty(t, hints.ConflictModes)
}
