// Package store provides a SQLite-backed store for named cost schedules.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/adsim/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNoScenario is returned when a named scenario has never been saved.
var ErrNoScenario = errors.New("store: no such scenario")

// Store persists CostOverrides per scenario.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Scenario describes a saved schedule.
type Scenario struct {
	Name      string
	Preset    string
	Overrides int
	UpdatedAt time.Time
}

// Run records one recommendation request.
type Run struct {
	ID              string
	Scenario        string
	Goal            model.Goal
	Source          string
	FallbackReason  string
	Recommendations int
	CreatedAt       time.Time
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadOverrides returns the saved schedule of scenario.
// A scenario that was never saved yields an empty schedule.
func (s *Store) LoadOverrides(ctx context.Context, scenario string) (model.CostOverrides, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, period, amount FROM overrides WHERE scenario = ?", scenario)
	if err != nil {
		return nil, fmt.Errorf("loading overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := model.CostOverrides{}
	for rows.Next() {
		var cat string
		var period int
		var amount float64
		if err := rows.Scan(&cat, &period, &amount); err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		c, err := model.ParseCategory(cat)
		if err != nil {
			return nil, fmt.Errorf("override of %s period %d: %w", scenario, period, err)
		}
		if period < 0 {
			return nil, fmt.Errorf("override of %s %s: negative period %d", scenario, c, period)
		}
		out.Set(c, period, amount)
	}
	return out, rows.Err()
}

// SaveOverrides replaces the saved schedule of scenario. preset records which
// preset the schedule came from; pass "" to keep the current one.
func (s *Store) SaveOverrides(ctx context.Context, scenario, preset string, o model.CostOverrides) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx, `INSERT INTO scenarios (name, preset, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			updated_at = excluded.updated_at,
			preset = CASE WHEN excluded.preset = '' THEN scenarios.preset ELSE excluded.preset END`,
		scenario, preset, now, now)
	if err != nil {
		return fmt.Errorf("saving scenario: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM overrides WHERE scenario = ?", scenario); err != nil {
		return fmt.Errorf("clearing overrides: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO overrides (scenario, category, period, amount) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, k := range o.Keys() {
		if _, err := stmt.ExecContext(ctx, scenario, string(k.Category), k.Period, o[k]); err != nil {
			return fmt.Errorf("saving override %s/%d: %w", k.Category, k.Period, err)
		}
	}

	return tx.Commit()
}

// ClearOverrides empties the schedule of scenario and forgets its preset.
func (s *Store) ClearOverrides(ctx context.Context, scenario string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM overrides WHERE scenario = ?", scenario); err != nil {
		return fmt.Errorf("clearing overrides: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE scenarios SET preset = '', updated_at = ? WHERE name = ?",
		s.now().UTC().Format(time.RFC3339), scenario); err != nil {
		return fmt.Errorf("updating scenario: %w", err)
	}
	return tx.Commit()
}

// DeleteScenario removes a scenario and its schedule.
func (s *Store) DeleteScenario(ctx context.Context, scenario string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE name = ?", scenario)
	if err != nil {
		return fmt.Errorf("deleting scenario: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNoScenario, scenario)
	}
	return nil
}

// ListScenarios returns every saved scenario ordered by name.
func (s *Store) ListScenarios(ctx context.Context) ([]Scenario, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT s.name, s.preset, s.updated_at, COUNT(o.period)
		FROM scenarios s LEFT JOIN overrides o ON o.scenario = s.name
		GROUP BY s.name ORDER BY s.name`)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Scenario
	for rows.Next() {
		var sc Scenario
		var updated string
		if err := rows.Scan(&sc.Name, &sc.Preset, &updated, &sc.Overrides); err != nil {
			return nil, err
		}
		sc.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, sc)
	}
	return out, rows.Err()
}

// RecordRun stores a recommendation run and returns its generated ID.
func (s *Store) RecordRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO recommendation_runs
		(run_id, scenario, goal, source, fallback_reason, recommendations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Scenario, string(r.Goal), r.Source, r.FallbackReason, r.Recommendations,
		r.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return r.ID, nil
}

// RecentRuns returns the latest runs of scenario, newest first.
func (s *Store) RecentRuns(ctx context.Context, scenario string, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, scenario, goal, source, fallback_reason, recommendations, created_at
		FROM recommendation_runs WHERE scenario = ? ORDER BY created_at DESC LIMIT ?`, scenario, limit)
	if err != nil {
		return nil, fmt.Errorf("loading runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		var r Run
		var goal, created string
		if err := rows.Scan(&r.ID, &r.Scenario, &goal, &r.Source, &r.FallbackReason, &r.Recommendations, &created); err != nil {
			return nil, err
		}
		r.Goal = model.Goal(goal)
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Preset returns the preset recorded for scenario, or "".
func (s *Store) Preset(ctx context.Context, scenario string) (string, error) {
	var preset string
	err := s.db.QueryRowContext(ctx, "SELECT preset FROM scenarios WHERE name = ?", scenario).Scan(&preset)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading preset: %w", err)
	}
	return preset, nil
}
