package metrics

// #region imports
import (
	"regexp"
	"strings"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region pattern-tables

// Keyword families are fixed, case-insensitive, and evaluated against the
// whole text. Same text and same tables always yield identical output.

var wordPattern = regexp.MustCompile(`[A-Za-z']+`)

var absoluteWords = regexp.MustCompile(`(?i)\b(always|never|everyone|no one|nobody|everything|nothing|forever|completely|utterly|absolutely|ruined|destroyed|impossible|unforgivable)\b`)

var twistKeywords = regexp.MustCompile(`(?i)\b(turns out|secretly|all along|the truth is|little did|in reality|plot twist|unbeknownst|revealed that|actually the)\b`)

var conspiracyMarkers = regexp.MustCompile(`(?i)\b(conspiracy|cover-up|cabal|secret society|the syndicate|shadowy|in on it|pulling the strings|behind the scenes)\b`)

var shockEvents = regexp.MustCompile(`(?i)\b(murder(ed)?|kidnap(ped)?|explosion|suicide|car crash|overdose|shooting|shot dead|stabbed|plane crash|heart attack|fatal)\b`)

var factionNames = regexp.MustCompile(`\b[Tt]he ([A-Z][a-z]+) (family|group|corporation|clan|gang|order|foundation|syndicate|company)\b`)

var threadSwitches = regexp.MustCompile(`(?i)\b(meanwhile|elsewhere|at the same time|across town|back at|in another part)\b`)

var characterIntros = regexp.MustCompile(`(?i)\b(a (man|woman|stranger|girl|boy|figure) named|someone called|introduces (himself|herself|themselves)|a new (colleague|neighbor|neighbour|client|nurse|doctor|tenant))\b`)

var subtextMarkers = regexp.MustCompile(`(?i)\b(doesn't say|does not say|says nothing|looks away|changes the subject|unspoken|left unsaid|avoids the question|pretends not to|beneath the words)\b`)

var quietBeatMarkers = regexp.MustCompile(`(?i)\b(sits? in silence|a quiet moment|quiet beat|stillness|long pause|watch(es)? the rain|shared silence|slow breath)\b`)

var meaningShiftMarkers = regexp.MustCompile(`(?i)\b(realizes|realises|for the first time|sees it differently|in a new light|understands now|it meant something else|had it backwards)\b`)

var costMarkers = regexp.MustCompile(`(?i)\b(at a cost|the price of|costs? (him|her|them)|sacrifices?|sacrificed|gave up|at the expense of|consequences?)\b`)

var legitimacyMarkers = regexp.MustCompile(`(?i)\b(has a point|from (his|her|their) perspective|not wrong|own reasons|a fair point|understandably|believes (he|she|they) (is|are) right)\b`)

// Long speech: a quoted span over 150 characters, straight or curly quotes.
var longSpeech = regexp.MustCompile(`"[^"]{151,}"|\x{201C}[^\x{201D}]{151,}\x{201D}`)

// earlyWindowFraction bounds the "too big too early" shock scan.
const earlyWindowFraction = 0.2

// #endregion pattern-tables

// #region extract

// Extract scans text and produces the fixed-shape metrics record.
// Empty or whitespace-only text returns the zero record. No side effects,
// no error path.
func Extract(text string) narrative.Metrics {
	words := len(wordPattern.FindAllStringIndex(text, -1))
	if words == 0 {
		return narrative.Metrics{}
	}

	return narrative.Metrics{
		AbsoluteWordRate:     perThousand(countMatches(absoluteWords, text), words),
		TwistKeywordRate:     perThousand(countMatches(twistKeywords, text), words),
		ConspiracyMarkers:    countMatches(conspiracyMarkers, text),
		EarlyShockEvents:     countMatches(shockEvents, earlyWindow(text)),
		LongSpeeches:         countMatches(longSpeech, text),
		NamedFactions:        countDistinctFactions(text),
		PlotThreads:          1 + countMatches(threadSwitches, text),
		NewCharacterDensity:  perThousand(countMatches(characterIntros, text), words),
		SubtextScenes:        countMatches(subtextMarkers, text),
		QuietBeats:           countMatches(quietBeatMarkers, text),
		MeaningShifts:        countMatches(meaningShiftMarkers, text),
		CostOfActionMarkers:  countMatches(costMarkers, text),
		AntagonistLegitimacy: legitimacyMarkers.MatchString(text),
	}
}

// #endregion extract

// #region twist-count

// CountTwistKeywords exposes the raw twist-keyword count for the
// fingerprint twist bucket, using the same table as Extract.
func CountTwistKeywords(text string) int {
	return countMatches(twistKeywords, text)
}

// #endregion twist-count

// #region helpers

func countMatches(re *regexp.Regexp, text string) int {
	return len(re.FindAllStringIndex(text, -1))
}

// countDistinctFactions counts unique faction names, case-folded.
func countDistinctFactions(text string) int {
	seen := make(map[string]struct{})
	for _, m := range factionNames.FindAllStringSubmatch(text, -1) {
		seen[strings.ToLower(m[1]+" "+m[2])] = struct{}{}
	}
	return len(seen)
}

// earlyWindow returns the first 20% of text by character position.
func earlyWindow(text string) string {
	runes := []rune(text)
	cut := int(float64(len(runes)) * earlyWindowFraction)
	return string(runes[:cut])
}

func perThousand(count, words int) float64 {
	return float64(count) / float64(words) * 1000.0
}

// #endregion helpers
