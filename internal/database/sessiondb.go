package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Risho92/rufus/internal/model"
)

// SessionDB provides SQLite-backed storage for crawl session history.
type SessionDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures SessionDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the session database under dbDir.
func Open(dbDir string, opts Options) (*SessionDB, error) {
	dbPath := filepath.Join(dbDir, "rufus.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rw prevents creating new files.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer; a single connection avoids lock errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SessionDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SessionDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (sdb *SessionDB) createTables() error {
	schema := `
	-- One row per crawl invocation
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		start_url TEXT NOT NULL,
		instructions TEXT,
		strategy_json TEXT,
		visited_count INTEGER DEFAULT 0,
		output_path TEXT,
		error_message TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);

	-- Accepted pages of a session
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		url TEXT NOT NULL,
		title TEXT,
		relevance_score REAL DEFAULT 0,
		content_type TEXT,
		depth INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_pages_session ON pages(session_id);

	-- Synthesized documents of a session
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		source_urls TEXT,
		creation_time DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_documents_session ON documents(session_id);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveSession stores a completed session with its kept pages and documents.
// The write is transactional so history never contains half a session.
func (sdb *SessionDB) SaveSession(ctx context.Context, session *model.CrawlSession) error {
	strategyJSON, err := json.Marshal(session.Strategy)
	if err != nil {
		return fmt.Errorf("failed to serialize strategy: %w", err)
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var finishedAt any
	if !session.FinishedAt.IsZero() {
		finishedAt = session.FinishedAt.UTC().Format(time.RFC3339Nano)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO sessions (id, start_url, instructions, strategy_json, visited_count, output_path, error_message, started_at, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.StartURL,
		session.Instructions,
		string(strategyJSON),
		session.VisitedCount,
		session.OutputPath,
		session.ErrorMessage,
		session.StartedAt.UTC().Format(time.RFC3339Nano),
		finishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for i := range session.Results {
		r := &session.Results[i]
		_, err = tx.ExecContext(ctx, `
		INSERT INTO pages (session_id, url, title, relevance_score, content_type, depth)
		VALUES (?, ?, ?, ?, ?, ?)`,
			session.ID, r.URL, r.Title, r.RelevanceScore, r.Metadata.ContentType, r.Metadata.Depth,
		)
		if err != nil {
			return fmt.Errorf("failed to insert page: %w", err)
		}
	}

	for i := range session.Documents {
		d := &session.Documents[i]
		sourceJSON, err := json.Marshal(d.Metadata.SourceURLs)
		if err != nil {
			return fmt.Errorf("failed to serialize source URLs: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (session_id, type, title, content, source_urls, creation_time)
		VALUES (?, ?, ?, ?, ?, ?)`,
			session.ID, d.Type, d.Title, d.Content, string(sourceJSON),
			d.Metadata.CreationTime.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// SessionSummary is the per-session row of the history listing.
type SessionSummary struct {
	// ID is the session identifier.
	ID string

	// StartURL is where the crawl began.
	StartURL string

	// Instructions is the user instruction string, possibly empty.
	Instructions string

	// VisitedCount is how many unique URLs the crawl visited.
	VisitedCount int

	// PageCount is how many pages were kept.
	PageCount int

	// DocumentCount is how many documents were synthesized.
	DocumentCount int

	// OutputPath is where the documents were saved.
	OutputPath string

	// ErrorMessage is set when the session failed.
	ErrorMessage string

	// StartedAt is when the session began.
	StartedAt time.Time
}

// ListSessions returns the most recent sessions, newest first.
func (sdb *SessionDB) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := sdb.db.QueryContext(ctx, `
	SELECT s.id, s.start_url, s.instructions, s.visited_count, s.output_path, s.error_message, s.started_at,
		(SELECT COUNT(*) FROM pages p WHERE p.session_id = s.id),
		(SELECT COUNT(*) FROM documents d WHERE d.session_id = s.id)
	FROM sessions s
	ORDER BY s.started_at DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var summaries []SessionSummary
	for rows.Next() {
		var s SessionSummary
		var startedAt string
		if err := rows.Scan(
			&s.ID, &s.StartURL, &s.Instructions, &s.VisitedCount,
			&s.OutputPath, &s.ErrorMessage, &startedAt,
			&s.PageCount, &s.DocumentCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.StartedAt = parseTimestamp(startedAt)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetSession reloads a stored session by ID. Pages and documents come back
// with the fields the database keeps; page content and raw HTML are not
// stored. Returns nil when the session does not exist.
func (sdb *SessionDB) GetSession(ctx context.Context, id string) (*model.CrawlSession, error) {
	var session model.CrawlSession
	var strategyJSON sql.NullString
	var startedAt string
	var finishedAt sql.NullString

	err := sdb.db.QueryRowContext(ctx, `
	SELECT id, start_url, instructions, strategy_json, visited_count, output_path, error_message, started_at, finished_at
	FROM sessions WHERE id = ?`, id).Scan(
		&session.ID, &session.StartURL, &session.Instructions, &strategyJSON,
		&session.VisitedCount, &session.OutputPath, &session.ErrorMessage,
		&startedAt, &finishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.StartedAt = parseTimestamp(startedAt)
	if finishedAt.Valid {
		session.FinishedAt = parseTimestamp(finishedAt.String)
	}
	if strategyJSON.Valid && strategyJSON.String != "" && strategyJSON.String != "null" {
		var strategy model.CrawlStrategy
		if err := json.Unmarshal([]byte(strategyJSON.String), &strategy); err == nil {
			session.Strategy = &strategy
		}
	}

	pages, err := sdb.db.QueryContext(ctx, `
	SELECT url, title, relevance_score, content_type, depth
	FROM pages WHERE session_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session pages: %w", err)
	}
	defer pages.Close()

	for pages.Next() {
		var r model.PageResult
		if err := pages.Scan(&r.URL, &r.Title, &r.RelevanceScore, &r.Metadata.ContentType, &r.Metadata.Depth); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		session.Results = append(session.Results, r)
	}
	if err := pages.Err(); err != nil {
		return nil, err
	}

	docs, err := sdb.db.QueryContext(ctx, `
	SELECT type, title, content, source_urls, creation_time
	FROM documents WHERE session_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session documents: %w", err)
	}
	defer docs.Close()

	for docs.Next() {
		var d model.Document
		var sourceJSON sql.NullString
		var created sql.NullString
		if err := docs.Scan(&d.Type, &d.Title, &d.Content, &sourceJSON, &created); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if sourceJSON.Valid && sourceJSON.String != "" {
			_ = json.Unmarshal([]byte(sourceJSON.String), &d.Metadata.SourceURLs) //nolint:errcheck // best-effort history field
		}
		if created.Valid {
			d.Metadata.CreationTime = parseTimestamp(created.String)
		}
		d.Metadata.InstructionPrompt = session.Instructions
		session.Documents = append(session.Documents, d)
	}
	if err := docs.Err(); err != nil {
		return nil, err
	}

	return &session, nil
}

// timestampFormats are the formats SQLite may hand back depending on how a
// value was written. More specific formats come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns zero time when none
// match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
