package laneconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

func TestBuiltinLanes(t *testing.T) {
	table := Builtin()

	require.Equal(t, 0.75, table.MelodramaThreshold(narrative.LaneVertical))
	require.Equal(t, 0.70, table.SimilarityThreshold(narrative.LaneVertical))
	require.Equal(t, narrative.ConflictInterpersonal, table.DefaultConflictMode(narrative.LaneVertical))
	require.True(t, table.DiversifyEnabled(narrative.LaneVertical))

	caps := table.CapsFor(narrative.LaneVertical)
	require.Equal(t, 3, caps.TwistCap)
	require.Equal(t, 2, caps.PlotThreadCap)
	require.True(t, caps.StakesScaleEarly)

	require.Equal(t, 0.50, table.MelodramaThreshold(narrative.LaneFeature))
	require.Equal(t, narrative.ConflictInternal, table.DefaultConflictMode(narrative.LaneFeature))
	require.Equal(t, 2, table.CapsFor(narrative.LaneFeature).SubtextScenesMin)
	require.False(t, table.CapsFor(narrative.LaneFeature).StakesScaleEarly)
}

func TestBuiltinUnknownLaneFallsBack(t *testing.T) {
	table := Builtin()

	require.Equal(t, 0.60, table.MelodramaThreshold("anthology"))
	require.Equal(t, 0.75, table.SimilarityThreshold("anthology"))
	require.Equal(t, narrative.ConflictInterpersonal, table.DefaultConflictMode("anthology"))
	require.True(t, table.DiversifyEnabled("anthology"))
	require.Equal(t, 2, table.CapsFor("anthology").TwistCap)
}

func TestParseOverridesLane(t *testing.T) {
	table, err := Parse([]byte(`
lanes:
  vertical:
    melodrama_threshold: 0.9
    similarity_threshold: 0.65
    default_conflict_mode: societal
    diversify: false
    caps:
      drama_budget: 0.9
      twist_cap: 4
      plot_thread_cap: 3
      subtext_scenes_min: 1
      quiet_beats_min: 1
`))
	require.NoError(t, err)

	require.Equal(t, 0.9, table.MelodramaThreshold(narrative.LaneVertical))
	require.Equal(t, narrative.ConflictSocietal, table.DefaultConflictMode(narrative.LaneVertical))
	require.False(t, table.DiversifyEnabled(narrative.LaneVertical))
	require.Equal(t, 4, table.CapsFor(narrative.LaneVertical).TwistCap)

	// Unlisted lanes take the built-in default, not the file's vertical entry.
	require.Equal(t, 0.60, table.MelodramaThreshold(narrative.LaneFeature))
}

func TestParseCustomDefault(t *testing.T) {
	table, err := Parse([]byte(`
default:
  melodrama_threshold: 0.55
  similarity_threshold: 0.8
  default_conflict_mode: internal
  diversify: true
  caps:
    twist_cap: 1
    subtext_scenes_min: 2
    quiet_beats_min: 1
`))
	require.NoError(t, err)
	require.Equal(t, 0.55, table.MelodramaThreshold("anything"))
	require.Equal(t, narrative.ConflictInternal, table.DefaultConflictMode("anything"))
}

func TestParseRejectsBadPolicy(t *testing.T) {
	_, err := Parse([]byte(`
lanes:
  vertical:
    melodrama_threshold: 1.4
    similarity_threshold: 0.7
`))
	require.ErrorContains(t, err, "melodrama_threshold")

	_, err = Parse([]byte(`
lanes:
  feature:
    melodrama_threshold: 0.5
    similarity_threshold: 0.8
    default_conflict_mode: cosmic
`))
	require.ErrorContains(t, err, "default_conflict_mode")

	_, err = Parse([]byte(`
lanes:
  feature:
    melodrama_threshold: 0.5
    similarity_threshold: 0.8
    caps:
      twist_cap: -1
`))
	require.ErrorContains(t, err, "negative cap")

	_, err = Parse([]byte(`lanes: [broken`))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestWatcherServesLoadedTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lanes:
  vertical:
    melodrama_threshold: 0.8
    similarity_threshold: 0.7
    default_conflict_mode: interpersonal
    diversify: true
    caps:
      twist_cap: 3
      subtext_scenes_min: 1
      quiet_beats_min: 1
`), 0o644))

	w, err := Watch(path, nil)
	require.NoError(t, err)
	defer w.Close()

	require.Equal(t, 0.8, w.MelodramaThreshold(narrative.LaneVertical))
	require.Equal(t, 3, w.CapsFor(narrative.LaneVertical).TwistCap)
	require.True(t, w.DiversifyEnabled(narrative.LaneVertical))
}

func TestWatcherRejectsBrokenInitialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`lanes: [broken`), 0o644))

	_, err := Watch(path, nil)
	require.Error(t, err)
}

func TestWatcherReloadKeepsPreviousOnParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lanes:
  feature:
    melodrama_threshold: 0.45
    similarity_threshold: 0.8
`), 0o644))

	w, err := Watch(path, nil)
	require.NoError(t, err)
	defer w.Close()
	require.Equal(t, 0.45, w.MelodramaThreshold(narrative.LaneFeature))

	// Drive the reload path directly rather than waiting on fs events.
	require.NoError(t, os.WriteFile(path, []byte(`lanes: [broken`), 0o644))
	w.reload()
	require.Equal(t, 0.45, w.MelodramaThreshold(narrative.LaneFeature))

	require.NoError(t, os.WriteFile(path, []byte(`
lanes:
  feature:
    melodrama_threshold: 0.35
    similarity_threshold: 0.8
`), 0o644))
	w.reload()
	require.Equal(t, 0.35, w.MelodramaThreshold(narrative.LaneFeature))
}
