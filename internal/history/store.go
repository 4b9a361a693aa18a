package history

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id        TEXT NOT NULL,
	lane              TEXT NOT NULL,
	story_engine      TEXT NOT NULL,
	causal_grammar    TEXT NOT NULL,
	conflict_mode     TEXT NOT NULL,
	stakes_type       TEXT NOT NULL,
	twist_bucket      TEXT NOT NULL,
	antagonist_type   TEXT NOT NULL,
	ending_type       TEXT NOT NULL,
	incident_category TEXT NOT NULL,
	setting_tags      TEXT NOT NULL,
	created_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fingerprints_lookup
ON fingerprints(project_id, lane, id);

CREATE TABLE IF NOT EXISTS gate_runs (
	run_id             TEXT PRIMARY KEY,
	project_id         TEXT NOT NULL,
	lane               TEXT NOT NULL,
	outcome            TEXT NOT NULL,
	pass               INTEGER NOT NULL,
	failures           TEXT NOT NULL,
	melodrama          REAL NOT NULL,
	nuance             REAL NOT NULL,
	similarity_risk    REAL NOT NULL,
	repair_instruction TEXT,
	created_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gate_runs_lookup
ON gate_runs(project_id, lane, created_at);
`

// #endregion schema

// #region run-record

// RunRecord is one persisted gate run. Failures and scores come from the
// final attempt executed.
type RunRecord struct {
	RunID             string
	ProjectID         string
	Lane              string
	Outcome           string
	Pass              bool
	Failures          []narrative.FailureKind
	Melodrama         float64
	Nuance            float64
	SimilarityRisk    float64
	RepairInstruction string
	CreatedAt         time.Time
}

// #endregion run-record

// #region store-struct

// Store is the append-only fingerprint and run-history store, keyed by
// (project, lane). Rows are appended, never edited.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens (or creates) the history database and runs migrations.
// logger may be nil.
func Open(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, log: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store-struct

// #region append-fingerprint

// AppendFingerprint appends one fingerprint to the project+lane log.
func (s *Store) AppendFingerprint(projectID string, fp narrative.Fingerprint) error {
	tagsJSON, err := json.Marshal(fp.SettingTags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO fingerprints
		(project_id, lane, story_engine, causal_grammar, conflict_mode,
		 stakes_type, twist_bucket, antagonist_type, ending_type,
		 incident_category, setting_tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		projectID,
		fp.Lane,
		string(fp.StoryEngine),
		string(fp.CausalGrammar),
		string(fp.ConflictMode),
		string(fp.StakesType),
		string(fp.TwistBucket),
		string(fp.AntagonistType),
		string(fp.EndingType),
		string(fp.IncidentCategory),
		string(tagsJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append fingerprint: %w", err)
	}

	s.log.Debug("fingerprint appended",
		zap.String("project", projectID),
		zap.String("lane", fp.Lane))
	return nil
}

// #endregion append-fingerprint

// #region recent

// Recent returns the most recent n fingerprints for a project+lane,
// newest first.
func (s *Store) Recent(projectID, lane string, n int) ([]narrative.Fingerprint, error) {
	rows, err := s.db.Query(`
		SELECT lane, story_engine, causal_grammar, conflict_mode, stakes_type,
		       twist_bucket, antagonist_type, ending_type, incident_category,
		       setting_tags
		FROM fingerprints
		WHERE project_id = ? AND lane = ?
		ORDER BY id DESC LIMIT ?`,
		projectID, lane, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var out []narrative.Fingerprint
	for rows.Next() {
		var fp narrative.Fingerprint
		var engine, grammar, mode, stakes, bucket, antagonist, ending, incident, tagsJSON string
		if err := rows.Scan(&fp.Lane, &engine, &grammar, &mode, &stakes,
			&bucket, &antagonist, &ending, &incident, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		fp.StoryEngine = narrative.StoryEngine(engine)
		fp.CausalGrammar = narrative.CausalGrammar(grammar)
		fp.ConflictMode = narrative.ConflictMode(mode)
		fp.StakesType = narrative.StakesType(stakes)
		fp.TwistBucket = narrative.TwistBucket(bucket)
		fp.AntagonistType = narrative.AntagonistType(antagonist)
		fp.EndingType = narrative.EndingType(ending)
		fp.IncidentCategory = narrative.IncidentCategory(incident)
		if err := json.Unmarshal([]byte(tagsJSON), &fp.SettingTags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
		out = append(out, fp)
	}
	return out, rows.Err()
}

// #endregion recent

// #region record-run

// RecordRun persists one completed gate run.
func (s *Store) RecordRun(rec RunRecord) error {
	failuresJSON, err := json.Marshal(rec.Failures)
	if err != nil {
		return fmt.Errorf("marshal failures: %w", err)
	}

	pass := 0
	if rec.Pass {
		pass = 1
	}

	var repairPtr interface{}
	if rec.RepairInstruction != "" {
		repairPtr = rec.RepairInstruction
	}

	_, err = s.db.Exec(`
		INSERT INTO gate_runs
		(run_id, project_id, lane, outcome, pass, failures,
		 melodrama, nuance, similarity_risk, repair_instruction, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.ProjectID,
		rec.Lane,
		rec.Outcome,
		pass,
		string(failuresJSON),
		rec.Melodrama,
		rec.Nuance,
		rec.SimilarityRisk,
		repairPtr,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	s.log.Debug("run recorded",
		zap.String("run_id", rec.RunID),
		zap.String("outcome", rec.Outcome),
		zap.Bool("pass", rec.Pass))
	return nil
}

// #endregion record-run

// #region list-runs

// ListRuns returns the most recent run rows for a project+lane, newest first.
func (s *Store) ListRuns(projectID, lane string, n int) ([]RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT run_id, project_id, lane, outcome, pass, failures,
		       melodrama, nuance, similarity_risk, repair_instruction, created_at
		FROM gate_runs
		WHERE project_id = ? AND lane = ?
		ORDER BY created_at DESC LIMIT ?`,
		projectID, lane, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var pass int
		var failuresJSON, createdStr string
		var repair sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.ProjectID, &rec.Lane, &rec.Outcome,
			&pass, &failuresJSON, &rec.Melodrama, &rec.Nuance,
			&rec.SimilarityRisk, &repair, &createdStr); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Pass = pass == 1
		if err := json.Unmarshal([]byte(failuresJSON), &rec.Failures); err != nil {
			return nil, fmt.Errorf("unmarshal failures: %w", err)
		}
		if repair.Valid {
			rec.RepairInstruction = repair.String
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion list-runs
