package repository

import (
	"database/sql"
	"errors"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

func (r *Repository) GetAllSettings() ([]*domain.Setting, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make([]*domain.Setting, 0)
	for rows.Next() {
		s := &domain.Setting{}
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

// GetSetting returns the stored value and whether the key exists at all.
func (r *Repository) GetSetting(key string) (string, bool, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	var value string
	err := r.dbpool.QueryRowContext(ctx, r.rebind(`SELECT value FROM settings WHERE key = ?`), key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return value, true, nil
}

func (r *Repository) PutSetting(key, value string) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	return r.exec(ctx, r.dbpool, query, key, value)
}
