package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists session metrics to SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the metrics database and initializes the
// schema.
func OpenStore(ctx context.Context, dbPath string) (*Store, error) {
	// WAL mode allows readers alongside the single writer.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers well.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	-- One row per finished session
	CREATE TABLE IF NOT EXISTS sessions (
		session_id       TEXT PRIMARY KEY,
		problem          TEXT NOT NULL,
		started_at       INTEGER NOT NULL,
		duration_ms      INTEGER NOT NULL,
		total_steps      INTEGER NOT NULL,
		action_steps     INTEGER NOT NULL,
		reflection_steps INTEGER NOT NULL,
		oracle_calls     INTEGER NOT NULL,
		oracle_errors    INTEGER NOT NULL,
		oracle_ms        INTEGER NOT NULL,
		first_try        INTEGER NOT NULL,
		resolved         INTEGER NOT NULL,
		complexity       INTEGER NOT NULL,
		plan             TEXT NOT NULL
	);

	-- Individual tool calls within a session
	CREATE TABLE IF NOT EXISTS tool_runs (
		run_id      INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  TEXT NOT NULL,
		tool        TEXT NOT NULL,
		status      TEXT NOT NULL,
		started_at  INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
	);

	-- Failure-recovery activations within a session
	CREATE TABLE IF NOT EXISTS reflections (
		reflection_id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id    TEXT NOT NULL,
		reason        TEXT NOT NULL,
		original_tool TEXT NOT NULL,
		alternative   TEXT NOT NULL,
		at            INTEGER NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_tool_runs_session ON tool_runs(session_id);
	CREATE INDEX IF NOT EXISTS idx_tool_runs_tool ON tool_runs(tool);
	CREATE INDEX IF NOT EXISTS idx_reflections_session ON reflections(session_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveSession writes a finished session and its tool runs and reflections
// in one transaction.
func (s *Store) SaveSession(ctx context.Context, m *SessionMetrics) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (
			session_id, problem, started_at, duration_ms,
			total_steps, action_steps, reflection_steps,
			oracle_calls, oracle_errors, oracle_ms,
			first_try, resolved, complexity, plan
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Problem, m.StartedAt.UnixMilli(), m.Duration.Milliseconds(),
		m.TotalSteps, m.ActionSteps, m.ReflectionSteps,
		m.OracleCalls, m.OracleErrors, m.OracleLatency.Milliseconds(),
		boolToInt(m.FirstTrySuccess), boolToInt(m.Resolved),
		m.ComplexityScore(), m.Plan)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, run := range m.Tools {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tool_runs (session_id, tool, status, started_at, duration_ms)
			VALUES (?, ?, ?, ?, ?)`,
			m.ID, run.Tool, run.Status, run.StartedAt.UnixMilli(), run.Duration.Milliseconds())
		if err != nil {
			return fmt.Errorf("insert tool run: %w", err)
		}
	}

	for _, r := range m.Reflections {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reflections (session_id, reason, original_tool, alternative, at)
			VALUES (?, ?, ?, ?, ?)`,
			m.ID, r.Reason, r.OriginalTool, r.Alternative, r.At.UnixMilli())
		if err != nil {
			return fmt.Errorf("insert reflection: %w", err)
		}
	}

	return tx.Commit()
}

// ToolStats is the aggregated view of one tool across all sessions.
type ToolStats struct {
	Tool        string
	Uses        int
	SuccessRate float64 // percent
	AvgDuration time.Duration
}

// ToolPerformance aggregates usage, success rate and mean duration per
// tool, most used first.
func (s *Store) ToolPerformance(ctx context.Context) ([]ToolStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tool,
		       COUNT(*) AS uses,
		       100.0 * SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END) / COUNT(*),
		       AVG(duration_ms)
		FROM tool_runs
		GROUP BY tool
		ORDER BY uses DESC, tool ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tool performance: %w", err)
	}
	defer rows.Close()

	var out []ToolStats
	for rows.Next() {
		var st ToolStats
		var avgMs float64
		if err := rows.Scan(&st.Tool, &st.Uses, &st.SuccessRate, &avgMs); err != nil {
			return nil, fmt.Errorf("scan tool stats: %w", err)
		}
		st.AvgDuration = time.Duration(avgMs * float64(time.Millisecond))
		out = append(out, st)
	}
	return out, rows.Err()
}

// SessionSummary is the condensed row used for listings.
type SessionSummary struct {
	ID              string
	Problem         string
	StartedAt       time.Time
	Duration        time.Duration
	TotalSteps      int
	ReflectionSteps int
	Resolved        bool
	Complexity      int
}

// RecentSessions returns the newest finished sessions, newest first.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, problem, started_at, duration_ms,
		       total_steps, reflection_steps, resolved, complexity
		FROM sessions
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var startedMs, durationMs int64
		var resolved int
		if err := rows.Scan(&sum.ID, &sum.Problem, &startedMs, &durationMs,
			&sum.TotalSteps, &sum.ReflectionSteps, &resolved, &sum.Complexity); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sum.StartedAt = time.UnixMilli(startedMs)
		sum.Duration = time.Duration(durationMs) * time.Millisecond
		sum.Resolved = resolved != 0
		out = append(out, sum)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
