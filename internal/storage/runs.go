package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is the summary of a finished game.
type Run struct {
	ID        string
	Scenario  string
	Earned    float64 // lifetime currency earned
	PeakHarm  float64
	Ticks     uint64
	Clicks    uint64
	CreatedAt time.Time
}

// RecordRun stores a finished run and returns its ID.
func (s *Store) RecordRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		"INSERT INTO runs (id, scenario, earned, peak_harm, ticks, clicks) VALUES (?, ?, ?, ?, ?, ?)",
		r.ID, r.Scenario, r.Earned, r.PeakHarm, int64(r.Ticks), int64(r.Clicks),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot record run: %w", err)
	}
	return r.ID, nil
}

// TopRuns retrieves the top N runs for the given scenario.
// Results are ordered by earned currency descending.
func (s *Store) TopRuns(scenario string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, scenario, earned, peak_harm, ticks, clicks, created_at
		 FROM runs
		 WHERE scenario = ?
		 ORDER BY earned DESC, peak_harm ASC
		 LIMIT ?`,
		scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// BestRun returns the highest-earning run of the scenario, or nil if none
// has been recorded.
func (s *Store) BestRun(scenario string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, scenario, earned, peak_harm, ticks, clicks, created_at
		 FROM runs
		 WHERE scenario = ?
		 ORDER BY earned DESC, peak_harm ASC
		 LIMIT 1`,
		scenario,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ScenarioStats contains aggregated statistics for a scenario.
type ScenarioStats struct {
	Scenario   string
	RunsCount  int
	BestEarned float64
	AvgEarned  float64
	LastPlayed time.Time
}

// AllScenarioStats retrieves statistics for every scenario that has runs.
func (s *Store) AllScenarioStats() (map[string]*ScenarioStats, error) {
	rows, err := s.db.Query(
		`SELECT scenario, COUNT(*), MAX(earned), AVG(earned), MAX(created_at)
		 FROM runs
		 GROUP BY scenario`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ScenarioStats)
	for rows.Next() {
		var st ScenarioStats
		var lastPlayed any
		if err := rows.Scan(&st.Scenario, &st.RunsCount, &st.BestEarned, &st.AvgEarned, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Scenario] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var ticks, clicks int64
	var createdAt any
	if err := row.Scan(&r.ID, &r.Scenario, &r.Earned, &r.PeakHarm, &ticks, &clicks, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("storage: cannot scan run: %w", err)
	}
	r.Ticks = uint64(ticks)
	r.Clicks = uint64(clicks)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}
