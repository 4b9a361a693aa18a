package narrative

// #region lanes

// The two lane keys with documented policy variants. Every other lane key is
// free-form and takes default policy.
const (
	LaneVertical = "vertical"
	LaneFeature  = "feature"
)

// #endregion lanes

// #region metrics

// Metrics is the fixed-shape signal record extracted from one piece of text.
// Rates are normalized per 1,000 words; a zero-word input yields the zero value.
type Metrics struct {
	AbsoluteWordRate     float64 // per 1,000 words
	TwistKeywordRate     float64 // per 1,000 words
	ConspiracyMarkers    int
	EarlyShockEvents     int // shock events in the first 20% of characters
	LongSpeeches         int // quoted spans over 150 characters
	NamedFactions        int // distinct named factions
	PlotThreads          int
	NewCharacterDensity  float64 // per 1,000 words
	SubtextScenes        int
	QuietBeats           int
	MeaningShifts        int
	CostOfActionMarkers  int
	AntagonistLegitimacy bool
}

// #endregion metrics

// #region scores

// Scores bundles the two bounded scalar scores derived from Metrics.
type Scores struct {
	Melodrama float64 // [0,1]
	Nuance    float64 // [0,1]
}

// #endregion scores

// #region story-engine

// StoryEngine is the caller-supplied core engine driving a story.
type StoryEngine string

const (
	EngineHiddenTruth   StoryEngine = "hidden_truth"
	EngineDesireVsDuty  StoryEngine = "desire_vs_duty"
	EngineRevenge       StoryEngine = "revenge"
	EngineRedemption    StoryEngine = "redemption"
	EngineRiseAndFall   StoryEngine = "rise_and_fall"
	EngineSurvival      StoryEngine = "survival"
	EngineForbiddenLove StoryEngine = "forbidden_love"
	EngineOutsider      StoryEngine = "outsider"
)

// #endregion story-engine

// #region causal-grammar

// CausalGrammar is the caller-supplied shape of cause and effect across scenes.
type CausalGrammar string

const (
	GrammarEscalation  CausalGrammar = "escalation"
	GrammarReversal    CausalGrammar = "reversal"
	GrammarRevelation  CausalGrammar = "revelation"
	GrammarConvergence CausalGrammar = "convergence"
	GrammarSpiral      CausalGrammar = "spiral"
	GrammarBargain     CausalGrammar = "bargain"
	GrammarContagion   CausalGrammar = "contagion"
	GrammarSiege       CausalGrammar = "siege"
)

// #endregion causal-grammar

// #region conflict-mode

// ConflictMode names the dominant axis of opposition. Caller-supplied,
// falling back to the lane default when empty.
type ConflictMode string

const (
	ConflictInterpersonal ConflictMode = "interpersonal"
	ConflictInternal      ConflictMode = "internal"
	ConflictSocietal      ConflictMode = "societal"
	ConflictInstitutional ConflictMode = "institutional"
	ConflictEnvironmental ConflictMode = "environmental"
)

// #endregion conflict-mode

// #region classified-axes

// StakesType classifies what is at risk. Default: StakesPersonal.
type StakesType string

const (
	StakesPersonal    StakesType = "personal"
	StakesRelational  StakesType = "relational"
	StakesLivelihood  StakesType = "livelihood"
	StakesExistential StakesType = "existential"
)

// TwistBucket buckets the twist-keyword count: 0, 1, or 2+.
type TwistBucket string

const (
	TwistNone     TwistBucket = "none"
	TwistSingle   TwistBucket = "single"
	TwistMultiple TwistBucket = "multiple"
)

// AntagonistType classifies the opposition. Default: AntagonistPerson.
type AntagonistType string

const (
	AntagonistPerson       AntagonistType = "person"
	AntagonistInstitution  AntagonistType = "institution"
	AntagonistCircumstance AntagonistType = "circumstance"
	AntagonistSelf         AntagonistType = "self"
)

// EndingType classifies the ending register. Default: EndingAmbiguous.
type EndingType string

const (
	EndingAmbiguous   EndingType = "ambiguous"
	EndingBittersweet EndingType = "bittersweet"
	EndingHappy       EndingType = "happy"
	EndingTragic      EndingType = "tragic"
	EndingIronic      EndingType = "ironic"
	EndingCliffhanger EndingType = "cliffhanger"
)

// IncidentCategory classifies the inciting incident. Default: IncidentDiscovery.
type IncidentCategory string

const (
	IncidentDiscovery   IncidentCategory = "discovery"
	IncidentArrival     IncidentCategory = "arrival"
	IncidentLoss        IncidentCategory = "loss"
	IncidentBetrayal    IncidentCategory = "betrayal"
	IncidentAccident    IncidentCategory = "accident"
	IncidentOpportunity IncidentCategory = "opportunity"
)

// #endregion classified-axes

// #region fingerprint

// MaxSettingTags caps the setting texture tag set, kept in detection order.
const MaxSettingTags = 5

// Fingerprint is the discrete signature of one piece of narrative text.
// Fingerprints are immutable once produced and appended to a project's
// history log, never edited in place.
type Fingerprint struct {
	Lane             string
	StoryEngine      StoryEngine
	CausalGrammar    CausalGrammar
	ConflictMode     ConflictMode
	StakesType       StakesType
	TwistBucket      TwistBucket
	AntagonistType   AntagonistType
	EndingType       EndingType
	IncidentCategory IncidentCategory
	SettingTags      []string // up to MaxSettingTags, detection order
}

// #endregion fingerprint

// #region failures

// FailureKind is one of the eight gate failure categories.
type FailureKind string

const (
	FailureMelodrama           FailureKind = "melodrama"
	FailureOvercomplexity      FailureKind = "overcomplexity"
	FailureTemplateSimilarity  FailureKind = "template_similarity"
	FailureStakesTooEarly      FailureKind = "stakes_too_big_too_early"
	FailureTwistOveruse        FailureKind = "twist_overuse"
	FailureSubtextMissing      FailureKind = "subtext_missing"
	FailureQuietBeatsMissing   FailureKind = "quiet_beats_missing"
	FailureMeaningShiftMissing FailureKind = "meaning_shift_missing"
)

// FailureOrder is the canonical check and reporting order.
var FailureOrder = []FailureKind{
	FailureMelodrama,
	FailureOvercomplexity,
	FailureTemplateSimilarity,
	FailureStakesTooEarly,
	FailureTwistOveruse,
	FailureSubtextMissing,
	FailureQuietBeatsMissing,
	FailureMeaningShiftMissing,
}

// #endregion failures

// #region caps

// Caps carries the lane-aware numeric budgets consumed by the gate and the
// repair synthesizer. Sourced from the lane policy table; the single source
// of truth for per-category minimums.
type Caps struct {
	DramaBudget         float64 // fallback melodrama threshold when no lane threshold is resolved
	TwistCap            int
	NewCharacterCap     float64 // per 1,000 words
	PlotThreadCap       int
	FactionCap          int
	SubtextScenesMin    int
	QuietBeatsMin       int
	StakesLateThreshold float64 // fraction of text before which major stakes should not land
	StakesScaleEarly    bool
}

// #endregion caps

// #region gate-attempt

// GateAttempt is the verdict for a single generation attempt.
// Produced once per attempt and never retried in place.
type GateAttempt struct {
	Pass     bool
	Failures []FailureKind // in FailureOrder; empty iff Pass
	Metrics  Metrics
	Scores   Scores
}

// #endregion gate-attempt
