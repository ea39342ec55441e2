package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/qurandl/qurandl/internal/domain"
)

// ErrPresetNotFound indicates no preset row with the requested name.
var ErrPresetNotFound = errors.New("preset not found")

func (s *Store) SavePreset(p domain.Preset) error {
	query := `INSERT OR REPLACE INTO presets (name, reciter, surahs, output_dir, updated_at)
              VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`

	_, err := s.db.Exec(query, p.Name, p.Reciter, p.Surahs, p.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to save preset %s: %w", p.Name, err)
	}
	return nil
}

func (s *Store) GetPreset(name string) (domain.Preset, error) {
	query := `SELECT name, reciter, surahs, output_dir FROM presets WHERE name = ? LIMIT 1`

	var p domain.Preset
	err := s.db.QueryRow(query, name).Scan(&p.Name, &p.Reciter, &p.Surahs, &p.OutputDir)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	if err != nil {
		return domain.Preset{}, fmt.Errorf("failed to fetch preset %s: %w", name, err)
	}
	return p, nil
}

func (s *Store) ListPresets() ([]domain.Preset, error) {
	rows, err := s.db.Query(`SELECT name, reciter, surahs, output_dir FROM presets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []domain.Preset
	for rows.Next() {
		var p domain.Preset
		if err := rows.Scan(&p.Name, &p.Reciter, &p.Surahs, &p.OutputDir); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

func (s *Store) DeletePreset(name string) error {
	res, err := s.db.Exec(`DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return nil
}
