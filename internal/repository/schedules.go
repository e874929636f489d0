package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

const dateLayout = "2006-01-02"

// GetSchedulesInRange lists entries with start <= date <= end, joined with
// their employee and shift. Entries pointing at a missing employee or shift
// are left out.
func (r *Repository) GetSchedulesInRange(start, end string) ([]*domain.ScheduleView, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		SELECT s.id, s.date, s.employee_id, s.shift_id, s.task, s.status, s.note,
		       e.name, e.department, sh.name, sh.start_time, sh.end_time, sh.color, sh.text_color
		FROM schedules s
		JOIN employees e ON s.employee_id = e.id
		JOIN shifts sh ON s.shift_id = sh.id
		WHERE s.date >= ? AND s.date <= ?
		ORDER BY s.date, s.employee_id
	`

	rows, err := r.dbpool.QueryContext(ctx, r.rebind(query), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]*domain.ScheduleView, 0)
	for rows.Next() {
		v := &domain.ScheduleView{}
		dst := []any{
			&v.ID, &v.Date, &v.EmployeeID, &v.ShiftID, &v.Task, &v.Status, &v.Note,
			&v.EmployeeName, &v.Department, &v.ShiftName, &v.StartTime, &v.EndTime, &v.Color, &v.TextColor,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}

func (r *Repository) listSchedules(ctx context.Context, q querier) ([]*domain.ScheduleEntry, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, date, employee_id, shift_id, task, status, note FROM schedules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScheduleEntries(rows)
}

func scanScheduleEntries(rows *sql.Rows) ([]*domain.ScheduleEntry, error) {
	entries := make([]*domain.ScheduleEntry, 0)
	for rows.Next() {
		s := &domain.ScheduleEntry{}
		if err := rows.Scan(&s.ID, &s.Date, &s.EmployeeID, &s.ShiftID, &s.Task, &s.Status, &s.Note); err != nil {
			return nil, err
		}
		entries = append(entries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) GetScheduleByID(id int64) (*domain.ScheduleEntry, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	s := &domain.ScheduleEntry{ID: id}
	query := r.rebind(`SELECT date, employee_id, shift_id, task, status, note FROM schedules WHERE id = ?`)
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&s.Date, &s.EmployeeID, &s.ShiftID, &s.Task, &s.Status, &s.Note); err != nil {
		return nil, err
	}

	return s, nil
}

// ensureUnlocked fails with ErrMonthLocked when any of the dates falls in a
// locked month.
func (r *Repository) ensureUnlocked(ctx context.Context, q querier, dates ...string) error {
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		month := domain.MonthOf(d)
		if seen[month] {
			continue
		}
		seen[month] = true

		locked, err := r.isMonthLocked(ctx, q, month)
		if err != nil {
			return err
		}
		if locked {
			return fmt.Errorf("%w: %s", ErrMonthLocked, month)
		}
	}
	return nil
}

// upsertSchedule keeps at most one entry per (date, employee): an existing
// entry is overwritten in place, otherwise a new one is inserted.
func (r *Repository) upsertSchedule(ctx context.Context, q querier, s *domain.ScheduleEntry) error {
	var id int64
	err := q.QueryRowContext(ctx, r.rebind(`SELECT id FROM schedules WHERE date = ? AND employee_id = ? ORDER BY id LIMIT 1`), s.Date, s.EmployeeID).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		query := `
			INSERT INTO schedules (date, employee_id, shift_id, task, status, note)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id
		`
		return q.QueryRowContext(ctx, r.rebind(query), s.Date, s.EmployeeID, s.ShiftID, s.Task, s.Status, s.Note).Scan(&s.ID)
	case err != nil:
		return err
	}

	s.ID = id
	return r.exec(ctx, q, `UPDATE schedules SET shift_id = ?, task = ?, status = ?, note = ? WHERE id = ?`,
		s.ShiftID, s.Task, s.Status, s.Note, id)
}

// UpsertSchedule assigns a shift to an employee on a date.
func (r *Repository) UpsertSchedule(s *domain.ScheduleEntry) error {
	return r.BulkUpsertSchedules([]*domain.ScheduleEntry{s})
}

// BulkUpsertSchedules applies every entry in one transaction. A single entry
// in a locked month rejects the whole batch.
func (r *Repository) BulkUpsertSchedules(entries []*domain.ScheduleEntry) error {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dates := make([]string, len(entries))
	for i, s := range entries {
		dates[i] = s.Date
	}
	if err := r.ensureUnlocked(ctx, tx, dates...); err != nil {
		return err
	}

	for _, s := range entries {
		if err := r.upsertSchedule(ctx, tx, s); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) DeleteSchedule(id int64) error {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var date string
	if err := tx.QueryRowContext(ctx, r.rebind(`SELECT date FROM schedules WHERE id = ?`), id).Scan(&date); err != nil {
		return err
	}
	if err := r.ensureUnlocked(ctx, tx, date); err != nil {
		return err
	}
	if err := r.exec(ctx, tx, `DELETE FROM schedules WHERE id = ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteSchedulesInRange clears start..end, optionally only for employees of
// one department.
func (r *Repository) DeleteSchedulesInRange(start, end, department string) error {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.ensureUnlocked(ctx, tx, start, end); err != nil {
		return err
	}

	if department != "" {
		query := `
			DELETE FROM schedules
			WHERE date >= ? AND date <= ?
			AND employee_id IN (SELECT id FROM employees WHERE department = ?)
		`
		err = r.exec(ctx, tx, query, start, end, department)
	} else {
		err = r.exec(ctx, tx, `DELETE FROM schedules WHERE date >= ? AND date <= ?`, start, end)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// CopyWeek copies the seven days starting at fromStart onto the week
// starting at toStart, overwriting what the target days already hold.
// It returns the number of entries copied.
func (r *Repository) CopyWeek(fromStart, toStart string) (int, error) {
	from, err := time.Parse(dateLayout, fromStart)
	if err != nil {
		return 0, err
	}
	to, err := time.Parse(dateLayout, toStart)
	if err != nil {
		return 0, err
	}
	shift := to.Sub(from)
	fromEnd := from.AddDate(0, 0, 6).Format(dateLayout)

	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, r.rebind(`
		SELECT id, date, employee_id, shift_id, task, status, note
		FROM schedules WHERE date >= ? AND date <= ?
		ORDER BY id
	`), fromStart, fromEnd)
	if err != nil {
		return 0, err
	}
	source, err := scanScheduleEntries(rows)
	rows.Close()
	if err != nil {
		return 0, err
	}

	dates := make([]string, 0, len(source))
	for _, s := range source {
		d, err := time.Parse(dateLayout, s.Date)
		if err != nil {
			return 0, fmt.Errorf("ngày không hợp lệ %q: %w", s.Date, err)
		}
		s.Date = d.Add(shift).Format(dateLayout)
		dates = append(dates, s.Date)
	}
	if err := r.ensureUnlocked(ctx, tx, dates...); err != nil {
		return 0, err
	}

	for _, s := range source {
		s.ID = 0
		if err := r.upsertSchedule(ctx, tx, s); err != nil {
			return 0, err
		}
	}

	return len(source), tx.Commit()
}
