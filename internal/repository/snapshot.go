package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

// Snapshot reads every synced collection inside one transaction, so the
// export sees a single consistent state.
func (r *Repository) Snapshot() (*domain.Snapshot, error) {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	snap := &domain.Snapshot{}
	if snap.Employees, err = r.listEmployees(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Shifts, err = r.listShifts(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Schedules, err = r.listSchedules(ctx, tx); err != nil {
		return nil, err
	}
	if snap.LockedMonths, err = r.listLockedMonths(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Announcements, err = r.listAnnouncements(ctx, tx); err != nil {
		return nil, err
	}
	if snap.AnnouncementViews, err = r.listAnnouncementViews(ctx, tx); err != nil {
		return nil, err
	}
	if snap.LeaveRequests, err = r.listLeaveRequests(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Tasks, err = r.listTasks(ctx, tx); err != nil {
		return nil, err
	}

	return snap, tx.Commit()
}

// ReplaceAll swaps the local content for snap in one transaction. Tasks are
// only replaced when snap carries some, every other collection is always
// replaced. Rows without an id get a fresh one; rows with an id keep it, a
// repeated id overwrites the earlier row. Among employees sharing a code the
// last one wins.
func (r *Repository) ReplaceAll(snap *domain.Snapshot) error {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	wipe := []string{"employees", "shifts", "schedules", "locked_months", "announcements", "announcement_views", "leave_requests"}
	if len(snap.Tasks) > 0 {
		wipe = append(wipe, "tasks")
	}
	for _, table := range wipe {
		if err := r.exec(ctx, tx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("xóa bảng %s: %w", table, err)
		}
	}

	unique := lastByCode(snap.Employees)
	employees := make([]keyedRow, len(unique))
	for i, e := range unique {
		employees[i] = keyedRow{e.ID, []any{nullable(e.Code), e.Name, e.Department, e.Role, e.Phone, e.Password}}
	}
	if err := r.putRows(ctx, tx, "employees", []string{"code", "name", "department", "role", "phone", "password"}, employees); err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateCode, err)
		}
		return err
	}

	shifts := make([]keyedRow, len(snap.Shifts))
	for i, s := range snap.Shifts {
		shifts[i] = keyedRow{s.ID, []any{s.Name, s.Department, s.StartTime, s.EndTime, s.Color, s.TextColor}}
	}
	if err := r.putRows(ctx, tx, "shifts", []string{"name", "department", "start_time", "end_time", "color", "text_color"}, shifts); err != nil {
		return err
	}

	schedules := make([]keyedRow, len(snap.Schedules))
	for i, s := range snap.Schedules {
		schedules[i] = keyedRow{s.ID, []any{s.Date, s.EmployeeID, s.ShiftID, s.Task, s.Status, s.Note}}
	}
	if err := r.putRows(ctx, tx, "schedules", []string{"date", "employee_id", "shift_id", "task", "status", "note"}, schedules); err != nil {
		return err
	}

	for _, m := range snap.LockedMonths {
		if m == "" {
			continue
		}
		if err := r.exec(ctx, tx, `INSERT INTO locked_months (month) VALUES (?) ON CONFLICT DO NOTHING`, m); err != nil {
			return err
		}
	}

	announcements := make([]keyedRow, len(snap.Announcements))
	for i, a := range snap.Announcements {
		announcements[i] = keyedRow{a.ID, []any{a.Type, a.TargetType, a.TargetValue, a.Message, a.StartTime, a.EndTime, a.CreatedBy, a.CreatedAt}}
	}
	if err := r.putRows(ctx, tx, "announcements", []string{"type", "target_type", "target_value", "message", "start_time", "end_time", "created_by", "created_at"}, announcements); err != nil {
		return err
	}

	for _, v := range snap.AnnouncementViews {
		query := `
			INSERT INTO announcement_views (announcement_id, employee_id, viewed_at)
			VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`
		if err := r.exec(ctx, tx, query, v.AnnouncementID, v.EmployeeID, v.ViewedAt); err != nil {
			return err
		}
	}

	leaveRequests := make([]keyedRow, len(snap.LeaveRequests))
	for i, lr := range snap.LeaveRequests {
		leaveRequests[i] = keyedRow{lr.ID, []any{lr.EmployeeID, lr.Date, lr.ShiftID, lr.Reason, lr.Status, lr.CreatedAt}}
	}
	if err := r.putRows(ctx, tx, "leave_requests", []string{"employee_id", "date", "shift_id", "reason", "status", "created_at"}, leaveRequests); err != nil {
		return err
	}

	tasks := make([]keyedRow, len(snap.Tasks))
	for i, t := range snap.Tasks {
		tasks[i] = keyedRow{t.ID, []any{t.Department, t.Name, t.Color, t.TextColor}}
	}
	if err := r.putRows(ctx, tx, "tasks", []string{"department", "name", "color", "text_color"}, tasks); err != nil {
		return err
	}

	return tx.Commit()
}

// lastByCode drops every employee whose code reappears further down the list.
// Employees without a code are all kept.
func lastByCode(employees []*domain.Employee) []*domain.Employee {
	last := make(map[string]int, len(employees))
	for i, e := range employees {
		if e.Code != "" {
			last[e.Code] = i
		}
	}

	out := make([]*domain.Employee, 0, len(last))
	for i, e := range employees {
		if e.Code != "" && last[e.Code] != i {
			continue
		}
		out = append(out, e)
	}
	return out
}

type keyedRow struct {
	id   int64
	vals []any
}

// putRows writes rows carrying an id first, so rows without one are numbered
// after the highest imported id instead of colliding with it.
func (r *Repository) putRows(ctx context.Context, q querier, table string, cols []string, rows []keyedRow) error {
	for _, row := range rows {
		if row.id == 0 {
			continue
		}
		if err := r.putRow(ctx, q, table, row.id, cols, row.vals); err != nil {
			return err
		}
	}
	if r.postgres() {
		if err := r.resetSequence(ctx, q, table); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if row.id != 0 {
			continue
		}
		if err := r.putRow(ctx, q, table, 0, cols, row.vals); err != nil {
			return err
		}
	}
	return nil
}

// putRow inserts a row under its own id, overwriting a row already holding
// that id, or lets the database pick an id when id is 0.
func (r *Repository) putRow(ctx context.Context, q querier, table string, id int64, cols []string, vals []any) error {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	if id == 0 {
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, table, strings.Join(cols, ", "), marks)
		return r.exec(ctx, q, query, vals...)
	}

	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = c + " = excluded." + c
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, %s) VALUES (?, %s) ON CONFLICT (id) DO UPDATE SET %s`,
		table, strings.Join(cols, ", "), marks, strings.Join(set, ", "))
	return r.exec(ctx, q, query, append([]any{id}, vals...)...)
}

// resetSequence moves a PostgreSQL id sequence past the highest id, needed
// after rows were inserted with explicit ids.
func (r *Repository) resetSequence(ctx context.Context, q querier, table string) error {
	query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`, table)
	_, err := q.ExecContext(ctx, query)
	return err
}
