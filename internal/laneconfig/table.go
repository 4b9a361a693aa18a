package laneconfig

// #region imports
import (
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region table-interface

// Table resolves lane-keyed policy. The engine treats it as an external,
// read-only collaborator; lookups never fail: unknown lanes resolve to the
// default policy so the gate is never blocked by missing policy data.
type Table interface {
	MelodramaThreshold(lane string) float64
	SimilarityThreshold(lane string) float64
	DefaultConflictMode(lane string) narrative.ConflictMode
	CapsFor(lane string) narrative.Caps
	DiversifyEnabled(lane string) bool
}

// #endregion table-interface

// #region lane-policy

// LanePolicy is the full policy record for one lane.
type LanePolicy struct {
	MelodramaThreshold  float64                `yaml:"melodrama_threshold"`
	SimilarityThreshold float64                `yaml:"similarity_threshold"`
	DefaultConflictMode narrative.ConflictMode `yaml:"default_conflict_mode"`
	Diversify           bool                   `yaml:"diversify"`
	Caps                CapsPolicy             `yaml:"caps"`
}

// CapsPolicy mirrors narrative.Caps with YAML tags.
type CapsPolicy struct {
	DramaBudget         float64 `yaml:"drama_budget"`
	TwistCap            int     `yaml:"twist_cap"`
	NewCharacterCap     float64 `yaml:"new_character_cap"`
	PlotThreadCap       int     `yaml:"plot_thread_cap"`
	FactionCap          int     `yaml:"faction_cap"`
	SubtextScenesMin    int     `yaml:"subtext_scenes_min"`
	QuietBeatsMin       int     `yaml:"quiet_beats_min"`
	StakesLateThreshold float64 `yaml:"stakes_late_threshold"`
	StakesScaleEarly    bool    `yaml:"stakes_scale_early"`
}

func (c CapsPolicy) caps() narrative.Caps {
	return narrative.Caps{
		DramaBudget:         c.DramaBudget,
		TwistCap:            c.TwistCap,
		NewCharacterCap:     c.NewCharacterCap,
		PlotThreadCap:       c.PlotThreadCap,
		FactionCap:          c.FactionCap,
		SubtextScenesMin:    c.SubtextScenesMin,
		QuietBeatsMin:       c.QuietBeatsMin,
		StakesLateThreshold: c.StakesLateThreshold,
		StakesScaleEarly:    c.StakesScaleEarly,
	}
}

// #endregion lane-policy

// #region static-table

// StaticTable is an immutable in-memory Table.
type StaticTable struct {
	lanes    map[string]LanePolicy
	fallback LanePolicy
}

// NewStaticTable builds a table from per-lane policies plus a fallback for
// unknown lanes.
func NewStaticTable(lanes map[string]LanePolicy, fallback LanePolicy) *StaticTable {
	copied := make(map[string]LanePolicy, len(lanes))
	for k, v := range lanes {
		copied[k] = v
	}
	return &StaticTable{lanes: copied, fallback: fallback}
}

func (t *StaticTable) policy(lane string) LanePolicy {
	if p, ok := t.lanes[lane]; ok {
		return p
	}
	return t.fallback
}

// MelodramaThreshold returns the lane's melodrama tolerance at restraint 50.
func (t *StaticTable) MelodramaThreshold(lane string) float64 {
	return t.policy(lane).MelodramaThreshold
}

// SimilarityThreshold returns the lane's template-similarity ceiling.
func (t *StaticTable) SimilarityThreshold(lane string) float64 {
	return t.policy(lane).SimilarityThreshold
}

// DefaultConflictMode returns the lane's conflict mode for callers that
// supply none.
func (t *StaticTable) DefaultConflictMode(lane string) narrative.ConflictMode {
	return t.policy(lane).DefaultConflictMode
}

// CapsFor returns the lane's caps record.
func (t *StaticTable) CapsFor(lane string) narrative.Caps {
	return t.policy(lane).Caps.caps()
}

// DiversifyEnabled reports whether template-similarity gating is on for the lane.
func (t *StaticTable) DiversifyEnabled(lane string) bool {
	return t.policy(lane).Diversify
}

// #endregion static-table

// #region builtin

// defaultPolicy is the documented fallback for unknown lane keys.
func defaultPolicy() LanePolicy {
	return LanePolicy{
		MelodramaThreshold:  0.60,
		SimilarityThreshold: 0.75,
		DefaultConflictMode: narrative.ConflictInterpersonal,
		Diversify:           true,
		Caps: CapsPolicy{
			DramaBudget:         0.60,
			TwistCap:            2,
			NewCharacterCap:     6,
			PlotThreadCap:       3,
			FactionCap:          3,
			SubtextScenesMin:    1,
			QuietBeatsMin:       1,
			StakesLateThreshold: 0.25,
			StakesScaleEarly:    false,
		},
	}
}

// Builtin returns the compiled-in policy table: a vertical lane that tolerates
// heat but guards its hook economy, a feature lane that demands quiet craft,
// and the default fallback for everything else.
func Builtin() *StaticTable {
	return NewStaticTable(map[string]LanePolicy{
		narrative.LaneVertical: {
			MelodramaThreshold:  0.75,
			SimilarityThreshold: 0.70,
			DefaultConflictMode: narrative.ConflictInterpersonal,
			Diversify:           true,
			Caps: CapsPolicy{
				DramaBudget:         0.75,
				TwistCap:            3,
				NewCharacterCap:     6,
				PlotThreadCap:       2,
				FactionCap:          2,
				SubtextScenesMin:    1,
				QuietBeatsMin:       1,
				StakesLateThreshold: 0.20,
				StakesScaleEarly:    true,
			},
		},
		narrative.LaneFeature: {
			MelodramaThreshold:  0.50,
			SimilarityThreshold: 0.80,
			DefaultConflictMode: narrative.ConflictInternal,
			Diversify:           true,
			Caps: CapsPolicy{
				DramaBudget:         0.50,
				TwistCap:            1,
				NewCharacterCap:     5,
				PlotThreadCap:       4,
				FactionCap:          3,
				SubtextScenesMin:    2,
				QuietBeatsMin:       2,
				StakesLateThreshold: 0.30,
				StakesScaleEarly:    false,
			},
		},
	}, defaultPolicy())
}

// #endregion builtin
