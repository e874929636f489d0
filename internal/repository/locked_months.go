package repository

import (
	"context"
)

func (r *Repository) GetLockedMonths() ([]string, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.listLockedMonths(ctx, r.dbpool)
}

func (r *Repository) listLockedMonths(ctx context.Context, q querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT month FROM locked_months ORDER BY month`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	months := make([]string, 0)
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		months = append(months, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return months, nil
}

func (r *Repository) IsMonthLocked(month string) (bool, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.isMonthLocked(ctx, r.dbpool, month)
}

func (r *Repository) isMonthLocked(ctx context.Context, q querier, month string) (bool, error) {
	var locked bool
	query := r.rebind(`SELECT EXISTS (SELECT 1 FROM locked_months WHERE month = ?)`)
	if err := q.QueryRowContext(ctx, query, month).Scan(&locked); err != nil {
		return false, err
	}
	return locked, nil
}

// SetMonthLocked locks or unlocks a month. Locking twice is a no-op.
func (r *Repository) SetMonthLocked(month string, locked bool) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	if locked {
		return r.exec(ctx, r.dbpool, `INSERT INTO locked_months (month) VALUES (?) ON CONFLICT DO NOTHING`, month)
	}
	return r.exec(ctx, r.dbpool, `DELETE FROM locked_months WHERE month = ?`, month)
}
