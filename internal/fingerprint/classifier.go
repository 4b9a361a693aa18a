package fingerprint

// #region imports
import (
	"regexp"
	"strings"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/metrics"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region rule-tables

// Each axis is an ordered list of (pattern, variant) pairs tested against the
// lowercased text; the first match wins and absence of any match yields the
// axis default. The order below is the documented contract.

type stakesRule struct {
	pattern *regexp.Regexp
	variant narrative.StakesType
}

var stakesRules = []stakesRule{
	{regexp.MustCompile(`\b(end of the world|apocalypse|extinction|all of humanity|the whole city will)\b`), narrative.StakesExistential},
	{regexp.MustCompile(`\b(bankrupt|evicted|foreclosure|lose the company|lose the business|fired|in debt|the mortgage)\b`), narrative.StakesLivelihood},
	{regexp.MustCompile(`\b(divorce|custody|break up|breaks up|estranged|disown(ed)?|the marriage|their friendship)\b`), narrative.StakesRelational},
}

type antagonistRule struct {
	pattern *regexp.Regexp
	variant narrative.AntagonistType
}

var antagonistRules = []antagonistRule{
	{regexp.MustCompile(`\b(the company|the hospital board|the board|the system|the corporation|the bureaucracy|the court|city hall|the administration)\b`), narrative.AntagonistInstitution},
	{regexp.MustCompile(`\b(the storm|the illness|the disease|the drought|the recession|the economy|no one's fault|the fire spread)\b`), narrative.AntagonistCircumstance},
	{regexp.MustCompile(`\b(her own worst|his own worst|self-sabotage|inner demons|against himself|against herself|her own doing|his own doing)\b`), narrative.AntagonistSelf},
}

type endingRule struct {
	pattern *regexp.Regexp
	variant narrative.EndingType
}

var endingRules = []endingRule{
	{regexp.MustCompile(`\b(dies|funeral|too late|lost everything|buried her|buried him|never came back)\b`), narrative.EndingTragic},
	{regexp.MustCompile(`\b(happily|reunited|wedding|at last they|finally together|came home for good)\b`), narrative.EndingHappy},
	{regexp.MustCompile(`\b(bittersweet|but at a cost|smiles through tears|won and lost|gone, but)\b`), narrative.EndingBittersweet},
	{regexp.MustCompile(`\b(of all people|the very thing|irony|ironically|exactly what (he|she|they) feared)\b`), narrative.EndingIronic},
	{regexp.MustCompile(`\b(to be continued|one last knock|the phone rings again|the door opens and|unanswered)\b`), narrative.EndingCliffhanger},
}

type incidentRule struct {
	pattern *regexp.Regexp
	variant narrative.IncidentCategory
}

var incidentRules = []incidentRule{
	{regexp.MustCompile(`\b(betray(ed|al)|the affair|cheated on|stabbed in the back|sold (him|her|them) out)\b`), narrative.IncidentBetrayal},
	{regexp.MustCompile(`\b(car crash|the accident|collapses|collapsed|explosion|caught fire)\b`), narrative.IncidentAccident},
	{regexp.MustCompile(`\b(passed away|death of|loses her|loses his|lost (his|her|their) job|the diagnosis)\b`), narrative.IncidentLoss},
	{regexp.MustCompile(`\b(arrives in|moves to town|new neighbor|new neighbour|returns to|comes back to town|transferred to)\b`), narrative.IncidentArrival},
	{regexp.MustCompile(`\b(job offer|promotion|inheritance|wins the|once-in-a-lifetime|the audition|scholarship)\b`), narrative.IncidentOpportunity},
}

// settingVocabulary is the fixed tag vocabulary, in detection order.
// Tags are truncated to narrative.MaxSettingTags in this order.
var settingVocabulary = []struct {
	tag     string
	pattern *regexp.Regexp
}{
	{"urban", regexp.MustCompile(`\b(city|downtown|skyline|subway|apartment block|traffic)\b`)},
	{"rural", regexp.MustCompile(`\b(village|farm|fields|countryside|barn|harvest)\b`)},
	{"workplace", regexp.MustCompile(`\b(office|boardroom|shift|coworker|co-worker|deadline|factory floor)\b`)},
	{"domestic", regexp.MustCompile(`\b(kitchen|living room|bedroom|dinner table|backyard|doorstep)\b`)},
	{"medical", regexp.MustCompile(`\b(hospital|clinic|ward|surgery|diagnosis|nurse|icu)\b`)},
	{"educational", regexp.MustCompile(`\b(school|classroom|campus|lecture|homework|principal)\b`)},
	{"legal", regexp.MustCompile(`\b(courtroom|lawsuit|verdict|lawyer|attorney|deposition|trial)\b`)},
}

// #endregion rule-tables

// #region classify

// Classify produces the discrete fingerprint for one piece of text.
// storyEngine, causalGrammar, and conflictMode are caller-supplied selections;
// an empty conflictMode is kept empty here and resolved to the lane default by
// the caller (the lane policy table owns that default).
func Classify(
	text, lane string,
	engine narrative.StoryEngine,
	grammar narrative.CausalGrammar,
	mode narrative.ConflictMode,
) narrative.Fingerprint {
	lower := strings.ToLower(text)

	return narrative.Fingerprint{
		Lane:             lane,
		StoryEngine:      engine,
		CausalGrammar:    grammar,
		ConflictMode:     mode,
		StakesType:       classifyStakes(lower),
		TwistBucket:      bucketTwists(metrics.CountTwistKeywords(text)),
		AntagonistType:   classifyAntagonist(lower),
		EndingType:       classifyEnding(lower),
		IncidentCategory: classifyIncident(lower),
		SettingTags:      collectSettingTags(lower),
	}
}

// #endregion classify

// #region axis-classifiers

func classifyStakes(lower string) narrative.StakesType {
	for _, r := range stakesRules {
		if r.pattern.MatchString(lower) {
			return r.variant
		}
	}
	return narrative.StakesPersonal
}

func classifyAntagonist(lower string) narrative.AntagonistType {
	for _, r := range antagonistRules {
		if r.pattern.MatchString(lower) {
			return r.variant
		}
	}
	return narrative.AntagonistPerson
}

func classifyEnding(lower string) narrative.EndingType {
	for _, r := range endingRules {
		if r.pattern.MatchString(lower) {
			return r.variant
		}
	}
	return narrative.EndingAmbiguous
}

func classifyIncident(lower string) narrative.IncidentCategory {
	for _, r := range incidentRules {
		if r.pattern.MatchString(lower) {
			return r.variant
		}
	}
	return narrative.IncidentDiscovery
}

func bucketTwists(count int) narrative.TwistBucket {
	switch {
	case count <= 0:
		return narrative.TwistNone
	case count == 1:
		return narrative.TwistSingle
	default:
		return narrative.TwistMultiple
	}
}

func collectSettingTags(lower string) []string {
	var tags []string
	for _, entry := range settingVocabulary {
		if entry.pattern.MatchString(lower) {
			tags = append(tags, entry.tag)
			if len(tags) == narrative.MaxSettingTags {
				break
			}
		}
	}
	return tags
}

// #endregion axis-classifiers
