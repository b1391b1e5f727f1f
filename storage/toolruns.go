package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ToolRun records a single tool invocation made by the agent.
type ToolRun struct {
	ID        string
	SessionID string
	Tool      string
	Args      string // JSON-encoded arguments as parsed from the reply
	Result    string
	Status    string // "ok" or "error"
	CreatedAt time.Time
}

const (
	ToolRunStatusOK    = "ok"
	ToolRunStatusError = "error"
)

// ToolRunLog persists tool invocations to a local SQLite database so past
// agent activity can be inspected after the fact.
type ToolRunLog struct {
	db *sql.DB
}

func NewToolRunLog(dataDir string) (*ToolRunLog, error) {
	dbPath := filepath.Join(dataDir, "toolruns.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log := &ToolRunLog{db: db}

	if err := log.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return log, nil
}

func (tl *ToolRunLog) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tool_runs (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		tool TEXT NOT NULL,
		args TEXT NOT NULL,
		result TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tool_runs_session ON tool_runs(session_id);
	CREATE INDEX IF NOT EXISTS idx_tool_runs_created ON tool_runs(created_at);
	`

	_, err := tl.db.Exec(schema)
	return err
}

// Record inserts a tool run. A missing ID or timestamp is filled in.
func (tl *ToolRunLog) Record(run ToolRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = ToolRunStatusOK
	}

	query := `
	INSERT INTO tool_runs (id, session_id, tool, args, result, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tl.db.Exec(query,
		run.ID,
		run.SessionID,
		run.Tool,
		run.Args,
		run.Result,
		run.Status,
		run.CreatedAt,
	)

	return err
}

// ListBySession returns all tool runs for a session, oldest first.
func (tl *ToolRunLog) ListBySession(sessionID string) ([]ToolRun, error) {
	query := `
	SELECT id, session_id, tool, args, result, status, created_at
	FROM tool_runs
	WHERE session_id = ?
	ORDER BY created_at ASC
	`

	rows, err := tl.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanToolRuns(rows)
}

// ListRecent returns the most recent tool runs across all sessions.
func (tl *ToolRunLog) ListRecent(limit int) ([]ToolRun, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, session_id, tool, args, result, status, created_at
	FROM tool_runs
	ORDER BY created_at DESC
	LIMIT ?
	`

	rows, err := tl.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanToolRuns(rows)
}

// DeleteBySession removes all tool runs belonging to a session.
func (tl *ToolRunLog) DeleteBySession(sessionID string) error {
	_, err := tl.db.Exec(`DELETE FROM tool_runs WHERE session_id = ?`, sessionID)
	return err
}

func scanToolRuns(rows *sql.Rows) ([]ToolRun, error) {
	var runs []ToolRun
	for rows.Next() {
		var run ToolRun
		err := rows.Scan(
			&run.ID,
			&run.SessionID,
			&run.Tool,
			&run.Args,
			&run.Result,
			&run.Status,
			&run.CreatedAt,
		)
		if err != nil {
			continue
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (tl *ToolRunLog) Close() error {
	if tl.db != nil {
		return tl.db.Close()
	}
	return nil
}
