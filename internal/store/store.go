// Package store persists completed classifications to SQLite.
//
// One row is written per classification the user chooses to save: which
// image was classified (path plus content hash), which tree, the group the
// session arrived at, and the full step trace as JSON.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS classifications (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    image_path    TEXT NOT NULL,
    image_hash    BLOB NOT NULL,
    tree_id       TEXT NOT NULL,
    group_code    TEXT NOT NULL,
    steps         TEXT NOT NULL,
    started_ns    INTEGER NOT NULL,
    finished_ns   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classifications_finished ON classifications(finished_ns);
CREATE INDEX IF NOT EXISTS idx_classifications_hash ON classifications(image_hash);
`

// Step is one confirmed decision in a classification's trace.
type Step struct {
	NodeID    string `json:"node"`
	AnswerKey string `json:"answer"`
}

// Classification is one saved result.
type Classification struct {
	ID         int64
	ImagePath  string
	ImageHash  []byte
	TreeID     string
	Group      string
	Steps      []Step
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store is the SQLite results store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save records a completed classification and returns its row id.
func (s *Store) Save(c *Classification) (int64, error) {
	steps, err := json.Marshal(c.Steps)
	if err != nil {
		return 0, fmt.Errorf("encode steps: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO classifications
			(image_path, image_hash, tree_id, group_code, steps, started_ns, finished_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ImagePath, c.ImageHash, c.TreeID, c.Group, string(steps),
		c.StartedAt.UnixNano(), c.FinishedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert classification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	c.ID = id
	return id, nil
}

// Recent returns the most recently finished classifications, newest first.
func (s *Store) Recent(limit int) ([]*Classification, error) {
	rows, err := s.db.Query(`
		SELECT id, image_path, image_hash, tree_id, group_code, steps, started_ns, finished_ns
		FROM classifications
		ORDER BY finished_ns DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}
	defer rows.Close()

	var out []*Classification
	for rows.Next() {
		var (
			c          Classification
			steps      string
			startedNs  int64
			finishedNs int64
		)
		if err := rows.Scan(&c.ID, &c.ImagePath, &c.ImageHash, &c.TreeID, &c.Group,
			&steps, &startedNs, &finishedNs); err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		if err := json.Unmarshal([]byte(steps), &c.Steps); err != nil {
			return nil, fmt.Errorf("decode steps: %w", err)
		}
		c.StartedAt = time.Unix(0, startedNs)
		c.FinishedAt = time.Unix(0, finishedNs)
		out = append(out, &c)
	}
	return out, rows.Err()
}
