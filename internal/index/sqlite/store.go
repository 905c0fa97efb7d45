package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ctlgrep/internal/index/store"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Backend() string { return "sqlite" }

func (s *Store) EnsureSnapshot(id string, source string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is not open")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("snapshot id is required")
	}

	_, err := s.db.Exec(
		`INSERT INTO snapshots (id, source, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   source = CASE WHEN excluded.source != '' THEN excluded.source ELSE snapshots.source END`,
		id,
		source,
		time.Now().Unix(),
	)
	return err
}

func (s *Store) GetSnapshot(id string) (store.Snapshot, error) {
	if s == nil || s.db == nil {
		return store.Snapshot{}, fmt.Errorf("store is not open")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return store.Snapshot{}, fmt.Errorf("snapshot id is required")
	}

	var snap store.Snapshot
	err := s.db.QueryRow(
		`SELECT id, source, created_at FROM snapshots WHERE id = ?`,
		id,
	).Scan(&snap.ID, &snap.Source, &snap.CreatedAt)
	if err != nil {
		return store.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) ReplaceControls(snapshotID string, controls []store.Control) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is not open")
	}
	snapshotID = strings.TrimSpace(snapshotID)
	if snapshotID == "" {
		return fmt.Errorf("snapshot id is required")
	}

	if err := s.EnsureSnapshot(snapshotID, ""); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM controls WHERE snapshot_id = ?`, snapshotID); err != nil {
		return err
	}

	for _, c := range controls {
		if strings.TrimSpace(c.Component) == "" || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("control component and name are required")
		}
		if _, err := tx.Exec(
			`INSERT INTO controls (snapshot_id, component, name, text)
			 VALUES (?, ?, ?, ?)`,
			snapshotID,
			c.Component,
			c.Name,
			c.Text,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) Controls(snapshotID string) ([]store.Control, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not open")
	}
	snapshotID = strings.TrimSpace(snapshotID)
	if snapshotID == "" {
		return nil, fmt.Errorf("snapshot id is required")
	}

	rows, err := s.db.Query(
		`SELECT component, name, text
		 FROM controls
		 WHERE snapshot_id = ?
		 ORDER BY id`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Control
	for rows.Next() {
		var c store.Control
		if err := rows.Scan(&c.Component, &c.Name, &c.Text); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CountControls(snapshotID string) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("store is not open")
	}
	snapshotID = strings.TrimSpace(snapshotID)
	if snapshotID == "" {
		return 0, fmt.Errorf("snapshot id is required")
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM controls WHERE snapshot_id = ?`, snapshotID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return err
	}
	_, _ = s.db.Exec("PRAGMA journal_mode = WAL")

	return execStatements(s.db, schemaSQL)
}

func execStatements(db *sql.DB, sqlText string) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	sqlText = strings.ReplaceAll(sqlText, "\r\n", "\n")

	var cleaned strings.Builder
	for _, line := range strings.Split(sqlText, "\n") {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteString("\n")
	}

	for _, raw := range strings.Split(cleaned.String(), ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}
