package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-idle/internal/sim"
)

// ErrNoSave is returned by LoadGame when the slot is empty.
var ErrNoSave = errors.New("storage: no save in slot")

// SaveInfo describes one save slot without its payload.
type SaveInfo struct {
	ID        string
	Scenario  string
	Slot      string
	Tick      uint64
	Size      int // compressed payload bytes
	CreatedAt time.Time
}

// SaveGame writes s into the scenario's slot, replacing what was there.
// The payload is the JSON save compressed with zstd.
func (s *Store) SaveGame(scenario, slot string, save sim.Save) (SaveInfo, error) {
	raw, err := json.Marshal(save)
	if err != nil {
		return SaveInfo{}, fmt.Errorf("storage: cannot encode save: %w", err)
	}
	payload := s.enc.EncodeAll(raw, nil)

	info := SaveInfo{
		ID:       uuid.NewString(),
		Scenario: scenario,
		Slot:     slot,
		Tick:     save.Tick,
		Size:     len(payload),
	}
	_, err = s.db.Exec(
		`INSERT INTO saves (id, scenario, slot, tick, payload) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(scenario, slot) DO UPDATE SET
			id = excluded.id,
			tick = excluded.tick,
			payload = excluded.payload,
			created_at = CURRENT_TIMESTAMP`,
		info.ID, scenario, slot, int64(save.Tick), payload,
	)
	if err != nil {
		return SaveInfo{}, fmt.Errorf("storage: cannot save game: %w", err)
	}
	return info, nil
}

// LoadGame reads the save in the scenario's slot.
func (s *Store) LoadGame(scenario, slot string) (sim.Save, error) {
	var payload []byte
	err := s.db.QueryRow(
		`SELECT payload FROM saves WHERE scenario = ? AND slot = ?`,
		scenario, slot,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return sim.Save{}, ErrNoSave
	}
	if err != nil {
		return sim.Save{}, fmt.Errorf("storage: cannot load game: %w", err)
	}

	raw, err := s.dec.DecodeAll(payload, nil)
	if err != nil {
		return sim.Save{}, fmt.Errorf("storage: cannot decompress save: %w", err)
	}
	var save sim.Save
	if err := json.Unmarshal(raw, &save); err != nil {
		return sim.Save{}, fmt.Errorf("storage: cannot decode save: %w", err)
	}
	return save, nil
}

// ListSaves returns the save slots of a scenario, newest first. An empty
// scenario lists every slot.
func (s *Store) ListSaves(scenario string) ([]SaveInfo, error) {
	query := `SELECT id, scenario, slot, tick, length(payload), created_at FROM saves`
	var args []any
	if scenario != "" {
		query += ` WHERE scenario = ?`
		args = append(args, scenario)
	}
	query += ` ORDER BY created_at DESC, slot`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveInfo
	for rows.Next() {
		var info SaveInfo
		var tick int64
		var createdAt any
		if err := rows.Scan(&info.ID, &info.Scenario, &info.Slot, &tick, &info.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.Tick = uint64(tick)
		info.CreatedAt = parseTime(createdAt)
		saves = append(saves, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return saves, nil
}

// DeleteSave removes the scenario's slot. Deleting an empty slot is not
// an error.
func (s *Store) DeleteSave(scenario, slot string) error {
	_, err := s.db.Exec("DELETE FROM saves WHERE scenario = ? AND slot = ?", scenario, slot)
	if err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	return nil
}
