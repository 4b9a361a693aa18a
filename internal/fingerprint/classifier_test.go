package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

func classify(text string) narrative.Fingerprint {
	return Classify(text, "drama",
		narrative.EngineHiddenTruth, narrative.GrammarEscalation, narrative.ConflictInterpersonal)
}

func TestClassifyDefaults(t *testing.T) {
	fp := classify("Two neighbors argue about a fence and slowly make peace.")
	require.Equal(t, narrative.StakesPersonal, fp.StakesType)
	require.Equal(t, narrative.AntagonistPerson, fp.AntagonistType)
	require.Equal(t, narrative.EndingAmbiguous, fp.EndingType)
	require.Equal(t, narrative.IncidentDiscovery, fp.IncidentCategory)
	require.Equal(t, narrative.TwistNone, fp.TwistBucket)
}

func TestClassifyCopiesCallerSelections(t *testing.T) {
	fp := Classify("some text", "vertical",
		narrative.EngineRevenge, narrative.GrammarSpiral, narrative.ConflictSocietal)
	require.Equal(t, "vertical", fp.Lane)
	require.Equal(t, narrative.EngineRevenge, fp.StoryEngine)
	require.Equal(t, narrative.GrammarSpiral, fp.CausalGrammar)
	require.Equal(t, narrative.ConflictSocietal, fp.ConflictMode)
}

func TestClassifyStakesRuleOrder(t *testing.T) {
	// Existential outranks relational when both families match.
	fp := classify("The divorce no longer matters if this is the end of the world.")
	require.Equal(t, narrative.StakesExistential, fp.StakesType)

	fp = classify("She will be evicted if the rent rises again.")
	require.Equal(t, narrative.StakesLivelihood, fp.StakesType)
}

func TestClassifyAntagonist(t *testing.T) {
	fp := classify("The corporation buried the report and the board approved it.")
	require.Equal(t, narrative.AntagonistInstitution, fp.AntagonistType)

	fp = classify("It was the storm that took the harvest, no one's fault.")
	require.Equal(t, narrative.AntagonistCircumstance, fp.AntagonistType)

	fp = classify("He keeps losing to his own worst instincts.")
	require.Equal(t, narrative.AntagonistSelf, fp.AntagonistType)
}

func TestClassifyEnding(t *testing.T) {
	fp := classify("By the time she arrives it is too late, and the funeral is over.")
	require.Equal(t, narrative.EndingTragic, fp.EndingType)

	fp = classify("At last they are reunited at the harbor.")
	require.Equal(t, narrative.EndingHappy, fp.EndingType)
}

func TestClassifyIncident(t *testing.T) {
	fp := classify("It began when she learned he cheated on her with her business partner.")
	require.Equal(t, narrative.IncidentBetrayal, fp.IncidentCategory)

	fp = classify("Everything changed after the job offer from the capital.")
	require.Equal(t, narrative.IncidentOpportunity, fp.IncidentCategory)
}

func TestClassifyTwistBuckets(t *testing.T) {
	require.Equal(t, narrative.TwistSingle,
		classify("Turns out the letter was never sent.").TwistBucket)
	require.Equal(t, narrative.TwistMultiple,
		classify("Turns out she knew. Secretly, he did too.").TwistBucket)
}

func TestClassifySettingTagsDetectionOrderAndTruncation(t *testing.T) {
	// All seven vocabulary families present: tags truncate to the first five
	// in detection order.
	text := "From her city apartment she drives past farm fields to the office, " +
		"then home to the kitchen, then the hospital ward, the school, the courtroom."
	fp := classify(text)
	require.Equal(t, []string{"urban", "rural", "workplace", "domestic", "medical"}, fp.SettingTags)
}

func TestClassifyDeterministic(t *testing.T) {
	text := "The corporation fired her; meanwhile the end of the world crept closer."
	require.Equal(t, classify(text), classify(text))
}
