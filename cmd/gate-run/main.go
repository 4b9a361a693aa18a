package main

// #region imports
import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/history"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/laneconfig"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/runner"
)

// #endregion

// #region main

func main() {
	textPath := flag.String("text", "", "path to the generated text to evaluate")
	lane := flag.String("lane", narrative.LaneVertical, "release lane (vertical, feature, ...)")
	configPath := flag.String("config", "", "lane policy YAML (default: built-in table)")
	dbPath := flag.String("db", "", "history database; omit for a history-free dry run")
	project := flag.String("project", "local", "project id for history scoping")
	engine := flag.String("engine", string(narrative.EngineHiddenTruth), "story engine selection")
	grammar := flag.String("grammar", string(narrative.GrammarEscalation), "causal grammar selection")
	mode := flag.String("mode", "", "conflict mode (empty = lane default)")
	restraint := flag.Float64("restraint", 50, "restraint dial, 0-100")
	tropes := flag.String("forbid", "", "comma-separated forbidden tropes")
	jsonOut := flag.Bool("json", false, "output as JSON instead of a report")
	flag.Parse()

	if *textPath == "" {
		fmt.Fprintln(os.Stderr, "usage: gate-run --text story.txt [--lane vertical] [--config lanes.yaml] [--db history.db] [--project id] [--restraint N] [--json]")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*textPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read text: %v\n", err)
		os.Exit(2)
	}

	table := laneconfig.Table(laneconfig.Builtin())
	if *configPath != "" {
		loaded, err := laneconfig.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load policy: %v\n", err)
			os.Exit(2)
		}
		table = loaded
	}

	req := runner.Request{
		ProjectID:       *project,
		Lane:            *lane,
		Text:            string(raw),
		StoryEngine:     narrative.StoryEngine(*engine),
		CausalGrammar:   narrative.CausalGrammar(*grammar),
		ConflictMode:    narrative.ConflictMode(*mode),
		Restraint:       *restraint,
		ForbiddenTropes: splitTropes(*tropes),
	}

	res, err := evaluate(table, req, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		if err := printJSON(res); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		printReport(res)
	}

	if !res.Final.Pass {
		os.Exit(1)
	}
}

// evaluate runs the gate with persistence when a database is given, or as a
// pure history-free analysis otherwise. No generator is wired here, so failed
// attempts terminate without a repair round.
func evaluate(table laneconfig.Table, req runner.Request, dbPath string) (runner.Result, error) {
	if dbPath == "" {
		analysis := runner.Analyze(table, req, nil)
		res := runner.Result{
			ProjectID: req.ProjectID,
			Lane:      req.Lane,
			Kind:      runner.OutcomeRepairUnavailable,
			Attempt0:  analysis,
			Final:     analysis.Attempt,
		}
		if analysis.Attempt.Pass {
			res.Kind = runner.OutcomePassed
		}
		return res, nil
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	store, err := history.Open(dbPath, logger)
	if err != nil {
		return runner.Result{}, err
	}
	defer store.Close()

	r := runner.New(table, nil, store, logger)
	return r.Run(context.Background(), req)
}

// #endregion main

// #region output

func printReport(res runner.Result) {
	a := res.Attempt0
	fmt.Printf("Outcome:     %s\n", res.Kind)
	fmt.Printf("Lane:        %s\n", res.Lane)
	fmt.Printf("Melodrama:   %.3f\n", a.Scores.Melodrama)
	fmt.Printf("Nuance:      %.3f\n", a.Scores.Nuance)
	fmt.Printf("Similarity:  %.3f\n", a.SimilarityRisk)
	fmt.Printf("Fingerprint: %s / %s / %s / %s / %s\n",
		a.Fingerprint.StoryEngine, a.Fingerprint.CausalGrammar,
		a.Fingerprint.ConflictMode, a.Fingerprint.StakesType,
		a.Fingerprint.IncidentCategory)

	if len(res.Final.Failures) == 0 {
		fmt.Println("Failures:    none")
	} else {
		fmt.Println("Failures:")
		for _, f := range res.Final.Failures {
			fmt.Printf("  - %s\n", f)
		}
	}
	if res.RepairInstruction != "" {
		fmt.Println("Repair instruction:")
		for _, line := range strings.Split(res.RepairInstruction, "\n") {
			fmt.Printf("  %s\n", line)
		}
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func splitTropes(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// #endregion output
