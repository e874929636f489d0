package repository

import (
	"context"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

func (r *Repository) GetAllShifts() ([]*domain.Shift, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.listShifts(ctx, r.dbpool)
}

func (r *Repository) listShifts(ctx context.Context, q querier) ([]*domain.Shift, error) {
	query := `SELECT id, name, department, start_time, end_time, color, text_color FROM shifts ORDER BY id`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		s := &domain.Shift{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Department, &s.StartTime, &s.EndTime, &s.Color, &s.TextColor); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) CreateShift(s *domain.Shift) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	if s.Department == "" {
		s.Department = domain.DepartmentAll
	}

	query := `
		INSERT INTO shifts (name, department, start_time, end_time, color, text_color)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	args := []any{s.Name, s.Department, s.StartTime, s.EndTime, s.Color, s.TextColor}
	return r.dbpool.QueryRowContext(ctx, r.rebind(query), args...).Scan(&s.ID)
}

func (r *Repository) UpdateShift(s *domain.Shift) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	if s.Department == "" {
		s.Department = domain.DepartmentAll
	}

	query := `
		UPDATE shifts
		SET name = ?, department = ?, start_time = ?, end_time = ?, color = ?, text_color = ?
		WHERE id = ?
	`

	args := []any{s.Name, s.Department, s.StartTime, s.EndTime, s.Color, s.TextColor, s.ID}
	res, err := r.dbpool.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *Repository) DeleteShift(id int64) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.exec(ctx, r.dbpool, `DELETE FROM shifts WHERE id = ?`, id)
}
