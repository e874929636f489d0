package repository

import (
	"context"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

// GetAllLeaveRequests lists requests newest first, joined with the employee
// and the shift taken off.
func (r *Repository) GetAllLeaveRequests() ([]*domain.LeaveRequest, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		SELECT lr.id, lr.employee_id, lr.date, lr.shift_id, lr.reason, lr.status, lr.created_at,
		       e.name, e.department, s.name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN shifts s ON lr.shift_id = s.id
		ORDER BY lr.created_at DESC, lr.id DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.LeaveRequest, 0)
	for rows.Next() {
		lr := &domain.LeaveRequest{}
		dst := []any{&lr.ID, &lr.EmployeeID, &lr.Date, &lr.ShiftID, &lr.Reason, &lr.Status, &lr.CreatedAt, &lr.EmployeeName, &lr.Department, &lr.ShiftName}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) listLeaveRequests(ctx context.Context, q querier) ([]*domain.LeaveRequest, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, employee_id, date, shift_id, reason, status, created_at FROM leave_requests ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.LeaveRequest, 0)
	for rows.Next() {
		lr := &domain.LeaveRequest{}
		if err := rows.Scan(&lr.ID, &lr.EmployeeID, &lr.Date, &lr.ShiftID, &lr.Reason, &lr.Status, &lr.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) getLeaveRequest(ctx context.Context, q querier, id int64) (*domain.LeaveRequest, error) {
	lr := &domain.LeaveRequest{ID: id}
	query := r.rebind(`SELECT employee_id, date, shift_id, reason, status, created_at FROM leave_requests WHERE id = ?`)
	if err := q.QueryRowContext(ctx, query, id).Scan(&lr.EmployeeID, &lr.Date, &lr.ShiftID, &lr.Reason, &lr.Status, &lr.CreatedAt); err != nil {
		return nil, err
	}
	return lr, nil
}

func (r *Repository) GetLeaveRequestByID(id int64) (*domain.LeaveRequest, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.getLeaveRequest(ctx, r.dbpool, id)
}

// CreateLeaveRequest files a new request; it always starts pending.
func (r *Repository) CreateLeaveRequest(lr *domain.LeaveRequest) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	lr.Status = domain.LeavePending

	query := `
		INSERT INTO leave_requests (employee_id, date, shift_id, reason, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	args := []any{lr.EmployeeID, lr.Date, lr.ShiftID, lr.Reason, lr.Status, lr.CreatedAt}
	return r.dbpool.QueryRowContext(ctx, r.rebind(query), args...).Scan(&lr.ID)
}

// SetLeaveStatus changes the status and keeps the schedule in step: approval
// writes the leave shift into the employee's day, rejection removes the entry
// an earlier approval wrote. Both are refused in a locked month.
func (r *Repository) SetLeaveStatus(id int64, status domain.LeaveStatus) (*domain.LeaveRequest, error) {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lr, err := r.getLeaveRequest(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.LeaveApproved:
		if err := r.ensureUnlocked(ctx, tx, lr.Date); err != nil {
			return nil, err
		}
		entry := &domain.ScheduleEntry{
			Date:       lr.Date,
			EmployeeID: lr.EmployeeID,
			ShiftID:    lr.ShiftID,
			Task:       domain.ScheduleTaskNone,
			Status:     domain.ScheduleStatusPublished,
			Note:       domain.LeaveApprovedNote,
		}
		if err := r.upsertSchedule(ctx, tx, entry); err != nil {
			return nil, err
		}
	case domain.LeaveRejected:
		if err := r.ensureUnlocked(ctx, tx, lr.Date); err != nil {
			return nil, err
		}
		if err := r.removeLeaveEntry(ctx, tx, lr); err != nil {
			return nil, err
		}
	}

	if err := r.exec(ctx, tx, `UPDATE leave_requests SET status = ? WHERE id = ?`, status, id); err != nil {
		return nil, err
	}
	lr.Status = status

	return lr, tx.Commit()
}

// DeleteLeaveRequest removes the request; an approved one also takes its
// schedule entry with it.
func (r *Repository) DeleteLeaveRequest(id int64) error {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lr, err := r.getLeaveRequest(ctx, tx, id)
	if err != nil {
		return err
	}

	if lr.Status == domain.LeaveApproved {
		if err := r.ensureUnlocked(ctx, tx, lr.Date); err != nil {
			return err
		}
		if err := r.removeLeaveEntry(ctx, tx, lr); err != nil {
			return err
		}
	}

	if err := r.exec(ctx, tx, `DELETE FROM leave_requests WHERE id = ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// removeLeaveEntry deletes only entries carrying the approval note, so a shift
// planned by hand on that day survives.
func (r *Repository) removeLeaveEntry(ctx context.Context, q querier, lr *domain.LeaveRequest) error {
	query := `DELETE FROM schedules WHERE date = ? AND employee_id = ? AND note = ?`
	return r.exec(ctx, q, query, lr.Date, lr.EmployeeID, domain.LeaveApprovedNote)
}
