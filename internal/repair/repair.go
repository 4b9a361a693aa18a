package repair

// #region imports
import (
	"strconv"
	"strings"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region directive-tables

// Directive blocks are fixed verbatim per failure category. MELODRAMA, STAKES,
// and TWIST carry lane-variant text for "vertical" and "feature"; every other
// lane takes the default block. Blocks are emitted in narrative.FailureOrder.

var melodramaDirectives = map[string][]string{
	narrative.LaneVertical: {
		"Keep the hook but ground it: trade screaming matches for leverage. Let characters apply pressure through what they know or control.",
		"Cut absolute language; one restrained line lands harder on a small screen than a tirade.",
	},
	narrative.LaneFeature: {
		"Lower the emotional temperature; let the scene hold on restraint instead of eruption.",
		"Cut absolute language and let specific, observed detail carry the weight.",
	},
	"": {
		"Lower the emotional temperature: replace shouted declarations with controlled, specific reactions.",
		"Cut absolute language unless a character's voice genuinely demands it.",
	},
}

var overcomplexityDirectives = []string{
	"Merge or remove plot threads until the spine of the story is unmistakable.",
	"Fold minor named factions into existing ones; keep only the opposition that matters.",
	"Cut incidental new characters; reassign their function to characters already on stage.",
}

var similarityDirectives = []string{
	"Rework the beats that repeat this project's recent work: change the texture, not the structure.",
	"Keep the same story engine but vary how the scenes express it.",
}

var stakesDirectives = map[string][]string{
	narrative.LaneVertical: {
		"Hold the biggest shock past the first act break; open on pressure, not catastrophe.",
	},
	narrative.LaneFeature: {
		"Move the major rupture later; spend the opening on texture and implication.",
	},
	"": {
		"Delay the largest consequence: let early scenes threaten rather than detonate.",
		"Rescale the opening so the stakes grow with the story instead of arriving fully formed.",
	},
}

var twistDirectives = map[string][]string{
	narrative.LaneVertical: {
		"Keep one sharp reversal at most; convert the rest into open moves the audience can track.",
	},
	narrative.LaneFeature: {
		"Strip the reveals down to one, and plant it early enough to be fair.",
	},
	"": {
		"Remove reveals until only the ones the story has earned remain.",
		"Replace withheld-information twists with consequences of what the audience already knows.",
	},
}

var subtextDirectives = []string{
	"Rewrite at least two exchanges so the characters talk around the real subject.",
	"Let a gesture or a silence carry what a line currently states outright.",
}

var quietBeatDirectives = []string{
	"Reclaim at least two moments of stillness between escalations.",
	"Give one scene room to breathe with no new information in it.",
}

var meaningShiftDirectives = []string{
	"Reframe one existing moment so a character understands something familiar differently.",
	"End a scene on a revaluation, not an event.",
}

// #endregion directive-tables

// #region priority-blocks

// Lane priority blocks are appended for the two documented lanes only.
var priorityBlocks = map[string]string{
	narrative.LaneVertical: "Vertical priority: pressure over spectacle. Every scene should move leverage between characters; keep the hook, lose the noise.",
	narrative.LaneFeature:  "Feature priority: quiet beats with teeth. Stillness must advance meaning; let subtext and consequence do the shouting.",
}

// closingRules are invariant and always terminate the instruction.
var closingRules = []string{
	"Never add new plot elements, characters, or subplots.",
	"Only remove, replace, or reframe existing material.",
	"Preserve the story structure and the emotional trajectory.",
	"Keep the opposition legitimate: no cartoonish antagonist.",
}

// #endregion priority-blocks

// #region build

// BuildInstruction composes the non-additive repair directive for a failed
// attempt. Purely a string-template composer: no generator call, no
// randomness, and identical inputs always produce an identical instruction.
func BuildInstruction(
	failures []narrative.FailureKind,
	caps narrative.Caps,
	forbiddenTropes []string,
	lane string,
) string {
	present := make(map[narrative.FailureKind]bool, len(failures))
	for _, f := range failures {
		present[f] = true
	}

	var lines []string
	for _, kind := range narrative.FailureOrder {
		if !present[kind] {
			continue
		}
		lines = append(lines, blockFor(kind, caps, lane)...)
	}

	for _, trope := range forbiddenTropes {
		lines = append(lines, "No "+strings.ReplaceAll(trope, "_", " ")+".")
	}

	if block, ok := priorityBlocks[lane]; ok {
		lines = append(lines, block)
	}

	lines = append(lines, closingRules...)

	return strings.Join(lines, "\n")
}

// #endregion build

// #region block-selection

func blockFor(kind narrative.FailureKind, caps narrative.Caps, lane string) []string {
	switch kind {
	case narrative.FailureMelodrama:
		return laneVariant(melodramaDirectives, lane)
	case narrative.FailureOvercomplexity:
		return overcomplexityDirectives
	case narrative.FailureTemplateSimilarity:
		return similarityDirectives
	case narrative.FailureStakesTooEarly:
		return laneVariant(stakesDirectives, lane)
	case narrative.FailureTwistOveruse:
		return laneVariant(twistDirectives, lane)
	case narrative.FailureSubtextMissing:
		return append(subtextDirectives[:len(subtextDirectives):len(subtextDirectives)],
			minimumLine("subtext scene", caps.SubtextScenesMin))
	case narrative.FailureQuietBeatsMissing:
		return append(quietBeatDirectives[:len(quietBeatDirectives):len(quietBeatDirectives)],
			minimumLine("quiet beat", caps.QuietBeatsMin))
	case narrative.FailureMeaningShiftMissing:
		return meaningShiftDirectives
	default:
		return nil
	}
}

func laneVariant(table map[string][]string, lane string) []string {
	if block, ok := table[lane]; ok {
		return block
	}
	return table[""]
}

// minimumLine names the lane minimum so the generator knows the target.
func minimumLine(unit string, minimum int) string {
	if minimum <= 1 {
		return "The lane requires at least 1 " + unit + "."
	}
	return "The lane requires at least " + strconv.Itoa(minimum) + " " + unit + "s."
}

// #endregion block-selection
