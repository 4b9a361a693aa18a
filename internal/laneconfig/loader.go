package laneconfig

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region file-format

// tableFile is the on-disk policy table format:
//
//	default:
//	  melodrama_threshold: 0.6
//	  similarity_threshold: 0.75
//	  default_conflict_mode: interpersonal
//	  diversify: true
//	  caps:
//	    twist_cap: 2
//	    ...
//	lanes:
//	  vertical: { ... }
//	  feature:  { ... }
type tableFile struct {
	Default *LanePolicy           `yaml:"default"`
	Lanes   map[string]LanePolicy `yaml:"lanes"`
}

// #endregion file-format

// #region load

// Load reads a policy table from a YAML file. Omitted lanes and an omitted
// default fall back to the built-in policy; present entries are validated.
func Load(path string) (*StaticTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy table: %w", err)
	}
	return Parse(data)
}

// Parse builds a table from raw YAML.
func Parse(data []byte) (*StaticTable, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse policy table: %w", err)
	}

	fallback := defaultPolicy()
	if file.Default != nil {
		if err := validatePolicy("default", *file.Default); err != nil {
			return nil, err
		}
		fallback = *file.Default
	}

	lanes := make(map[string]LanePolicy, len(file.Lanes))
	for lane, policy := range file.Lanes {
		if err := validatePolicy(lane, policy); err != nil {
			return nil, err
		}
		lanes[lane] = policy
	}

	return NewStaticTable(lanes, fallback), nil
}

// #endregion load

// #region validation

var validConflictModes = map[narrative.ConflictMode]struct{}{
	narrative.ConflictInterpersonal: {},
	narrative.ConflictInternal:      {},
	narrative.ConflictSocietal:      {},
	narrative.ConflictInstitutional: {},
	narrative.ConflictEnvironmental: {},
}

func validatePolicy(lane string, p LanePolicy) error {
	if p.MelodramaThreshold < 0 || p.MelodramaThreshold > 1 {
		return fmt.Errorf("lane %q: melodrama_threshold %.2f outside [0,1]", lane, p.MelodramaThreshold)
	}
	if p.SimilarityThreshold < 0 || p.SimilarityThreshold > 1 {
		return fmt.Errorf("lane %q: similarity_threshold %.2f outside [0,1]", lane, p.SimilarityThreshold)
	}
	if p.DefaultConflictMode != "" {
		if _, ok := validConflictModes[p.DefaultConflictMode]; !ok {
			return fmt.Errorf("lane %q: unknown default_conflict_mode %q", lane, p.DefaultConflictMode)
		}
	}
	if p.Caps.TwistCap < 0 || p.Caps.PlotThreadCap < 0 || p.Caps.FactionCap < 0 {
		return fmt.Errorf("lane %q: negative cap", lane)
	}
	if p.Caps.SubtextScenesMin < 0 || p.Caps.QuietBeatsMin < 0 {
		return fmt.Errorf("lane %q: negative minimum", lane)
	}
	return nil
}

// #endregion validation
