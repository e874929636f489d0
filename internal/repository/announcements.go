package repository

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

const announcementColumns = `a.id, a.type, a.target_type, a.target_value, a.message, a.start_time, a.end_time, a.created_by, a.created_at`

func announcementDst(a *domain.Announcement) []any {
	return []any{&a.ID, &a.Type, &a.TargetType, &a.TargetValue, &a.Message, &a.StartTime, &a.EndTime, &a.CreatedBy, &a.CreatedAt}
}

// GetAllAnnouncements lists every announcement, newest first, with the
// creator's name.
func (r *Repository) GetAllAnnouncements() ([]*domain.Announcement, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		SELECT ` + announcementColumns + `, COALESCE(e.name, '')
		FROM announcements a
		LEFT JOIN employees e ON a.created_by = e.id
		ORDER BY a.created_at DESC, a.id DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := make([]*domain.Announcement, 0)
	for rows.Next() {
		a := &domain.Announcement{}
		if err := rows.Scan(append(announcementDst(a), &a.CreatorName)...); err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return announcements, nil
}

// GetActiveAnnouncements lists what employeeID should see at now: the
// announcement window covers now and the target is everyone, one of the
// listed departments, or the employee by id. viewed_at is set once the
// employee acknowledged it.
func (r *Repository) GetActiveAnnouncements(employeeID int64, department, now string) ([]*domain.Announcement, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		SELECT ` + announcementColumns + `, COALESCE(e.name, ''), v.viewed_at
		FROM announcements a
		LEFT JOIN employees e ON a.created_by = e.id
		LEFT JOIN announcement_views v ON a.id = v.announcement_id AND v.employee_id = ?
		WHERE a.start_time <= ? AND a.end_time >= ?
		AND (
			a.target_type = 'All'
			OR (a.target_type = 'Department' AND (',' || a.target_value || ',') LIKE ('%,' || CAST(? AS TEXT) || ',%'))
			OR (a.target_type = 'Individual' AND (',' || a.target_value || ',') LIKE ('%,' || CAST(? AS TEXT) || ',%'))
		)
		ORDER BY a.created_at DESC, a.id DESC
	`

	args := []any{employeeID, now, now, department, strconv.FormatInt(employeeID, 10)}
	rows, err := r.dbpool.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := make([]*domain.Announcement, 0)
	for rows.Next() {
		a := &domain.Announcement{}
		var viewedAt sql.NullString
		if err := rows.Scan(append(announcementDst(a), &a.CreatorName, &viewedAt)...); err != nil {
			return nil, err
		}
		if viewedAt.Valid {
			a.ViewedAt = &viewedAt.String
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return announcements, nil
}

func (r *Repository) listAnnouncements(ctx context.Context, q querier) ([]*domain.Announcement, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+announcementColumns+` FROM announcements a ORDER BY a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := make([]*domain.Announcement, 0)
	for rows.Next() {
		a := &domain.Announcement{}
		if err := rows.Scan(announcementDst(a)...); err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return announcements, nil
}

func (r *Repository) CreateAnnouncement(a *domain.Announcement) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		INSERT INTO announcements (type, target_type, target_value, message, start_time, end_time, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	args := []any{a.Type, a.TargetType, a.TargetValue, a.Message, a.StartTime, a.EndTime, a.CreatedBy, a.CreatedAt}
	return r.dbpool.QueryRowContext(ctx, r.rebind(query), args...).Scan(&a.ID)
}

// UpdateAnnouncement rewrites the content and audience; creator and creation
// time stay.
func (r *Repository) UpdateAnnouncement(a *domain.Announcement) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		UPDATE announcements
		SET type = ?, target_type = ?, target_value = ?, message = ?, start_time = ?, end_time = ?
		WHERE id = ?
	`

	args := []any{a.Type, a.TargetType, a.TargetValue, a.Message, a.StartTime, a.EndTime, a.ID}
	res, err := r.dbpool.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *Repository) DeleteAnnouncement(id int64) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.exec(ctx, r.dbpool, `DELETE FROM announcements WHERE id = ?`, id)
}

// RecordAnnouncementView stores the first acknowledgement only.
func (r *Repository) RecordAnnouncementView(v *domain.AnnouncementView) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		INSERT INTO announcement_views (announcement_id, employee_id, viewed_at)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`
	return r.exec(ctx, r.dbpool, query, v.AnnouncementID, v.EmployeeID, v.ViewedAt)
}

// GetAnnouncementReaders lists every employee with the time they acknowledged
// the announcement, nil when they have not.
func (r *Repository) GetAnnouncementReaders(announcementID int64) ([]*domain.AnnouncementReader, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		SELECT e.id, e.name, COALESCE(e.code, ''), e.department, v.viewed_at
		FROM employees e
		LEFT JOIN announcement_views v ON e.id = v.employee_id AND v.announcement_id = ?
		WHERE e.role != 'Guest'
		ORDER BY e.id
	`

	rows, err := r.dbpool.QueryContext(ctx, r.rebind(query), announcementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readers := make([]*domain.AnnouncementReader, 0)
	for rows.Next() {
		rd := &domain.AnnouncementReader{}
		var viewedAt sql.NullString
		if err := rows.Scan(&rd.EmployeeID, &rd.Name, &rd.Code, &rd.Department, &viewedAt); err != nil {
			return nil, err
		}
		if viewedAt.Valid {
			rd.ViewedAt = &viewedAt.String
		}
		readers = append(readers, rd)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return readers, nil
}

func (r *Repository) listAnnouncementViews(ctx context.Context, q querier) ([]*domain.AnnouncementView, error) {
	rows, err := q.QueryContext(ctx, `SELECT announcement_id, employee_id, viewed_at FROM announcement_views ORDER BY announcement_id, employee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]*domain.AnnouncementView, 0)
	for rows.Next() {
		v := &domain.AnnouncementView{}
		if err := rows.Scan(&v.AnnouncementID, &v.EmployeeID, &v.ViewedAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
