package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/history"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the history database")
	project := flag.String("project", "", "project id")
	lane := flag.String("lane", narrative.LaneVertical, "release lane")
	last := flag.Int("last", 20, "show N most recent entries")
	jsonOut := flag.Bool("json", false, "output as JSON instead of tables")
	flag.Parse()

	if *dbPath == "" || *project == "" {
		fmt.Fprintln(os.Stderr, "usage: gate-inspect --db history.db --project id [--lane vertical] [--last N] [--json]")
		os.Exit(2)
	}

	store, err := history.Open(*dbPath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.ListRuns(*project, *lane, *last)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	prints, err := store.Recent(*project, *lane, *last)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	hints := history.DiversificationHints(prints, *lane)

	if *jsonOut {
		if err := printJSON(inspectOutput{Runs: runs, Fingerprints: prints, Hints: hints}); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printRuns(runs)
	printFingerprints(prints)
	printHints(hints)
}

type inspectOutput struct {
	Runs         []history.RunRecord     `json:"runs"`
	Fingerprints []narrative.Fingerprint `json:"fingerprints"`
	Hints        history.Hints           `json:"hints"`
}

// #endregion main

// #region tables

func printRuns(runs []history.RunRecord) {
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return
	}

	fmt.Printf("%-10s  %-22s  %9s  %6s  %10s  %-20s  %s\n",
		"Run", "Outcome", "Melodrama", "Nuance", "Similarity", "Time", "Failures")
	for _, r := range runs {
		fmt.Printf("%-10s  %-22s  %9.3f  %6.3f  %10.3f  %-20s  %s\n",
			shortID(r.RunID), r.Outcome, r.Melodrama, r.Nuance, r.SimilarityRisk,
			r.CreatedAt.Format(time.RFC3339), joinFailures(r.Failures))
	}
	fmt.Println()
}

func printFingerprints(prints []narrative.Fingerprint) {
	if len(prints) == 0 {
		fmt.Println("no fingerprints recorded")
		return
	}

	fmt.Printf("%-16s  %-12s  %-13s  %-11s  %-8s  %s\n",
		"Engine", "Grammar", "Conflict", "Stakes", "Twists", "Tags")
	for _, fp := range prints {
		fmt.Printf("%-16s  %-12s  %-13s  %-11s  %-8s  %s\n",
			fp.StoryEngine, fp.CausalGrammar, fp.ConflictMode, fp.StakesType,
			fp.TwistBucket, strings.Join(fp.SettingTags, ","))
	}
	fmt.Println()
}

func printHints(h history.Hints) {
	rows := []struct {
		label  string
		values []string
	}{
		{"story engines", h.StoryEngines},
		{"causal grammars", h.CausalGrammars},
		{"conflict modes", h.ConflictModes},
		{"stakes types", h.StakesTypes},
		{"antagonist types", h.AntagonistTypes},
		{"ending types", h.EndingTypes},
		{"incidents", h.IncidentCategories},
		{"setting tags", h.SettingTags},
	}

	printed := false
	for _, row := range rows {
		if len(row.values) == 0 {
			continue
		}
		if !printed {
			fmt.Println("Overused (diversify away from):")
			printed = true
		}
		fmt.Printf("  %-16s  %s\n", row.label, strings.Join(row.values, ", "))
	}
	if !printed {
		fmt.Println("no overused values in the window")
	}
}

// #endregion tables

// #region helpers

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func joinFailures(failures []narrative.FailureKind) string {
	if len(failures) == 0 {
		return "—"
	}
	parts := make([]string, len(failures))
	for i, f := range failures {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion helpers
