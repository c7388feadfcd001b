/*
Package sqlite provides a SQLite-backed parameter store.

PURPOSE:
  Persists date-versioned parameter sets and serves them through the
  engine's ParameterResolver interface. In production, the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  engine.ParameterResolver: ParametersAt(period) for the evaluator

KEY TABLES:
  parameters: One row per leaf (effective_from, path, kind, payload).
              A set is the group of rows sharing an effective_from; the
              resolver serves the latest set at or before the requested
              period.

PAYLOADS:
  Leaves are stored as JSON: {"value": 10} for scalars,
  {"brackets": [{"threshold": 0, "rate": 0.1}, ...]} for scales. The
  tree structure is not stored; it is rebuilt from the dotted paths.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, plus an in-process cache of
  rebuilt trees keyed by effective_from. Parameter trees are immutable
  once built, so cached trees are shared freely across simulations.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/fiscal.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  sim := engine.NewSimulation(registry, store, population, inputs)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/parameters.go: The tree this store serves
  - engine/store/memory.go: In-memory implementation for testing
  - factory: YAML documents that seed this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/fiscal-engine/engine"
)

// Store implements engine.ParameterResolver on top of SQLite.
type Store struct {
	db    *sql.DB
	mu    sync.RWMutex
	trees map[string]*engine.ParameterNode // effective_from -> rebuilt tree
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, trees: make(map[string]*engine.ParameterNode)}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Parameter leaves, grouped into sets by effective_from
	CREATE TABLE IF NOT EXISTS parameters (
		effective_from TEXT NOT NULL,
		path TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('scalar', 'scale')),
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		PRIMARY KEY (effective_from, path)
	);

	-- Set lookup: latest effective_from at or before a period (hot path)
	CREATE INDEX IF NOT EXISTS idx_parameters_effective_from
		ON parameters(effective_from);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PAYLOADS
// =============================================================================

type scalarPayload struct {
	Value float64 `json:"value"`
}

type scalePayload struct {
	Brackets []bracketPayload `json:"brackets"`
}

type bracketPayload struct {
	Threshold float64 `json:"threshold"`
	Rate      float64 `json:"rate"`
}

// =============================================================================
// WRITING SETS
// =============================================================================

// SaveSet stores a whole parameter tree under an effective-from period,
// replacing any set previously stored for the same period. The write is
// atomic: a reader sees either the old set or the new one.
func (s *Store) SaveSet(ctx context.Context, from engine.Period, tree *engine.ParameterNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromKey := from.FirstMonth().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM parameters WHERE effective_from = ?", fromKey); err != nil {
		return fmt.Errorf("failed to clear set %s: %w", fromKey, err)
	}

	insert := `
		INSERT INTO parameters (effective_from, path, kind, payload)
		VALUES (?, ?, ?, ?)
	`
	for _, leaf := range tree.Leaves() {
		kind, payload, err := encodeLeaf(leaf)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insert, fromKey, leaf.Path, kind, payload); err != nil {
			return fmt.Errorf("failed to save %s: %w", leaf.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	delete(s.trees, fromKey)
	return nil
}

func encodeLeaf(leaf engine.Leaf) (kind string, payload []byte, err error) {
	if leaf.Scale != nil {
		p := scalePayload{}
		for _, b := range leaf.Scale.Brackets() {
			p.Brackets = append(p.Brackets, bracketPayload{Threshold: b.Threshold, Rate: b.Rate})
		}
		payload, err = json.Marshal(p)
		return "scale", payload, err
	}
	if leaf.Value == nil {
		return "", nil, fmt.Errorf("parameter %s has neither value nor scale", leaf.Path)
	}
	payload, err = json.Marshal(scalarPayload{Value: *leaf.Value})
	return "scalar", payload, err
}

// =============================================================================
// PARAMETER RESOLVER (engine.ParameterResolver interface)
// =============================================================================

// ParametersAt returns the parameter tree in effect for a period: the set
// with the latest effective_from at or before the period's first month.
func (s *Store) ParametersAt(period engine.Period) (*engine.ParameterNode, error) {
	at := period.FirstMonth().String()

	s.mu.RLock()
	fromKey, err := s.setFor(at)
	if err == nil {
		if tree, ok := s.trees[fromKey]; ok {
			s.mu.RUnlock()
			return tree, nil
		}
	}
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tree, ok := s.trees[fromKey]; ok {
		return tree, nil
	}
	tree, err := s.loadSet(fromKey)
	if err != nil {
		return nil, err
	}
	s.trees[fromKey] = tree
	return tree, nil
}

// setFor finds the effective_from of the set covering a month. Month keys
// are zero-padded YYYY-MM strings, so lexicographic order is date order.
func (s *Store) setFor(at string) (string, error) {
	var fromKey string
	err := s.db.QueryRow(
		"SELECT MAX(effective_from) FROM parameters WHERE effective_from <= ?",
		at,
	).Scan(&fromKey)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: nothing in effect at %s", engine.ErrNoParameters, at)
	}
	if err != nil {
		// MAX() over an empty table yields NULL, which fails the string scan.
		return "", fmt.Errorf("%w: nothing in effect at %s", engine.ErrNoParameters, at)
	}
	return fromKey, nil
}

func (s *Store) loadSet(fromKey string) (*engine.ParameterNode, error) {
	rows, err := s.db.Query(
		"SELECT path, kind, payload FROM parameters WHERE effective_from = ?",
		fromKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load set %s: %w", fromKey, err)
	}
	defer rows.Close()

	tree := engine.NewParameterTree()
	for rows.Next() {
		var path, kind, payload string
		if err := rows.Scan(&path, &kind, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		if err := decodeLeaf(tree, path, kind, payload); err != nil {
			return nil, fmt.Errorf("set %s: %w", fromKey, err)
		}
	}
	return tree, rows.Err()
}

func decodeLeaf(tree *engine.ParameterNode, path, kind, payload string) error {
	switch kind {
	case "scalar":
		var p scalarPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return fmt.Errorf("parameter %s: %w", path, err)
		}
		return tree.SetFloat(path, p.Value)
	case "scale":
		var p scalePayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return fmt.Errorf("parameter %s: %w", path, err)
		}
		brackets := make([]engine.Bracket, len(p.Brackets))
		for i, b := range p.Brackets {
			brackets[i] = engine.Bracket{Threshold: b.Threshold, Rate: b.Rate}
		}
		scale, err := engine.NewBracketScale(brackets...)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", path, err)
		}
		return tree.SetScale(path, scale)
	default:
		return fmt.Errorf("parameter %s has unknown kind %q", path, kind)
	}
}

// =============================================================================
// UTILITIES
// =============================================================================

// Sets returns the effective-from keys of all stored sets, oldest first.
func (s *Store) Sets(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT effective_from FROM parameters ORDER BY effective_from ASC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []string
	for rows.Next() {
		var from string
		if err := rows.Scan(&from); err != nil {
			return nil, err
		}
		sets = append(sets, from)
	}
	return sets, rows.Err()
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM parameters"); err != nil {
		return err
	}
	s.trees = make(map[string]*engine.ParameterNode)
	return nil
}
