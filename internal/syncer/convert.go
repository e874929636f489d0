package syncer

import (
	"fmt"
	"strings"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
	"github.com/lichlamviec/shift-scheduler/backend/internal/repository"
	"github.com/lichlamviec/shift-scheduler/backend/internal/sheets"
)

// toDataset lays the local snapshot out as remote records.
func toDataset(snap *domain.Snapshot) sheets.Dataset {
	ds := sheets.NewDataset()

	for _, e := range snap.Employees {
		ds[sheets.Employees.Field] = append(ds[sheets.Employees.Field], sheets.Record{
			"id": e.ID, "code": e.Code, "name": e.Name, "department": e.Department,
			"role": string(e.Role), "phone": e.Phone, "password": e.Password,
		})
	}
	for _, s := range snap.Shifts {
		ds[sheets.Shifts.Field] = append(ds[sheets.Shifts.Field], sheets.Record{
			"id": s.ID, "name": s.Name, "department": s.Department,
			"start_time": s.StartTime, "end_time": s.EndTime, "color": s.Color, "text_color": s.TextColor,
		})
	}
	for _, s := range snap.Schedules {
		ds[sheets.Schedules.Field] = append(ds[sheets.Schedules.Field], sheets.Record{
			"id": s.ID, "date": s.Date, "employee_id": s.EmployeeID, "shift_id": s.ShiftID,
			"task": s.Task, "status": s.Status, "note": s.Note,
		})
	}
	for _, m := range snap.LockedMonths {
		ds[sheets.LockedMonths.Field] = append(ds[sheets.LockedMonths.Field], sheets.Record{"month": m})
	}
	for _, a := range snap.Announcements {
		ds[sheets.Announcements.Field] = append(ds[sheets.Announcements.Field], sheets.Record{
			"id": a.ID, "type": a.Type, "target_type": a.TargetType, "target_value": a.TargetValue,
			"message": a.Message, "start_time": a.StartTime, "end_time": a.EndTime,
			"created_by": a.CreatedBy, "created_at": a.CreatedAt,
		})
	}
	for _, v := range snap.AnnouncementViews {
		ds[sheets.AnnouncementViews.Field] = append(ds[sheets.AnnouncementViews.Field], sheets.Record{
			"announcement_id": v.AnnouncementID, "employee_id": v.EmployeeID, "viewed_at": v.ViewedAt,
		})
	}
	for _, lr := range snap.LeaveRequests {
		ds[sheets.LeaveRequests.Field] = append(ds[sheets.LeaveRequests.Field], sheets.Record{
			"id": lr.ID, "employee_id": lr.EmployeeID, "date": lr.Date, "shift_id": lr.ShiftID,
			"reason": lr.Reason, "status": string(lr.Status), "created_at": lr.CreatedAt,
		})
	}
	for _, t := range snap.Tasks {
		ds[sheets.Tasks.Field] = append(ds[sheets.Tasks.Field], sheets.Record{
			"id": t.ID, "department": t.Department, "name": t.Name, "color": t.Color, "text_color": t.TextColor,
		})
	}

	return ds
}

// idReader collects the first id conversion error so a whole record can be
// read without checking after every field.
type idReader struct {
	table string
	row   int
	err   error
}

func (r *idReader) id(rec sheets.Record, col string) int64 {
	n, err := rec.ID(col)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s dòng %d: %w", r.table, r.row+1, err)
	}
	return n
}

// fromDataset turns remote records into a local snapshot, repairing what the
// spreadsheet mangles: roles are normalized, Admins get a password, clock
// values lose leaked date parts, dates lose leaked time parts. It reports
// whether any Admin came from the remote side. A non-numeric id fails the
// whole conversion.
func fromDataset(ds sheets.Dataset) (*domain.Snapshot, bool, error) {
	snap := &domain.Snapshot{}
	hasAdmin := false

	for i, rec := range ds[sheets.Employees.Field] {
		ids := idReader{table: sheets.Employees.Sheet, row: i}
		e := &domain.Employee{
			ID:         ids.id(rec, "id"),
			Code:       strings.TrimSpace(rec.Text("code")),
			Name:       rec.Text("name"),
			Department: rec.Text("department"),
			Role:       domain.NormalizeRole(rec.Text("role")),
			Phone:      rec.Text("phone"),
			Password:   rec.Text("password"),
		}
		if ids.err != nil {
			return nil, false, ids.err
		}
		if e.Role == domain.RoleAdmin {
			hasAdmin = true
			if e.Password == "" {
				e.Password = repository.DefaultAdminPassword
			}
		}
		snap.Employees = append(snap.Employees, e)
	}

	for i, rec := range ds[sheets.Shifts.Field] {
		ids := idReader{table: sheets.Shifts.Sheet, row: i}
		s := &domain.Shift{
			ID:         ids.id(rec, "id"),
			Name:       rec.Text("name"),
			Department: rec.Text("department"),
			StartTime:  sheets.NormalizeClock(rec.Text("start_time")),
			EndTime:    sheets.NormalizeClock(rec.Text("end_time")),
			Color:      rec.Text("color"),
			TextColor:  rec.Text("text_color"),
		}
		if ids.err != nil {
			return nil, false, ids.err
		}
		if s.Department == "" {
			s.Department = domain.DepartmentAll
		}
		snap.Shifts = append(snap.Shifts, s)
	}

	for i, rec := range ds[sheets.Schedules.Field] {
		ids := idReader{table: sheets.Schedules.Sheet, row: i}
		s := &domain.ScheduleEntry{
			ID:         ids.id(rec, "id"),
			Date:       sheets.NormalizeDate(rec.Text("date")),
			EmployeeID: ids.id(rec, "employee_id"),
			ShiftID:    ids.id(rec, "shift_id"),
			Task:       rec.Text("task"),
			Status:     rec.Text("status"),
			Note:       rec.Text("note"),
		}
		if ids.err != nil {
			return nil, false, ids.err
		}
		snap.Schedules = append(snap.Schedules, s)
	}

	for _, rec := range ds[sheets.LockedMonths.Field] {
		if m := normalizeMonth(rec.Text("month")); m != "" {
			snap.LockedMonths = append(snap.LockedMonths, m)
		}
	}

	for i, rec := range ds[sheets.Announcements.Field] {
		ids := idReader{table: sheets.Announcements.Sheet, row: i}
		a := &domain.Announcement{
			ID:          ids.id(rec, "id"),
			Type:        rec.Text("type"),
			TargetType:  rec.Text("target_type"),
			TargetValue: rec.Text("target_value"),
			Message:     rec.Text("message"),
			StartTime:   rec.Text("start_time"),
			EndTime:     rec.Text("end_time"),
			CreatedBy:   ids.id(rec, "created_by"),
			CreatedAt:   rec.Text("created_at"),
		}
		if ids.err != nil {
			return nil, false, ids.err
		}
		snap.Announcements = append(snap.Announcements, a)
	}

	for i, rec := range ds[sheets.AnnouncementViews.Field] {
		ids := idReader{table: sheets.AnnouncementViews.Sheet, row: i}
		v := &domain.AnnouncementView{
			AnnouncementID: ids.id(rec, "announcement_id"),
			EmployeeID:     ids.id(rec, "employee_id"),
			ViewedAt:       rec.Text("viewed_at"),
		}
		if ids.err != nil {
			return nil, false, ids.err
		}
		snap.AnnouncementViews = append(snap.AnnouncementViews, v)
	}

	for i, rec := range ds[sheets.LeaveRequests.Field] {
		ids := idReader{table: sheets.LeaveRequests.Sheet, row: i}
		lr := &domain.LeaveRequest{
			ID:         ids.id(rec, "id"),
			EmployeeID: ids.id(rec, "employee_id"),
			Date:       sheets.NormalizeDate(rec.Text("date")),
			ShiftID:    ids.id(rec, "shift_id"),
			Reason:     rec.Text("reason"),
			Status:     domain.LeaveStatus(rec.Text("status")),
			CreatedAt:  rec.Text("created_at"),
		}
		if ids.err != nil {
			return nil, false, ids.err
		}
		snap.LeaveRequests = append(snap.LeaveRequests, lr)
	}

	for i, rec := range ds[sheets.Tasks.Field] {
		ids := idReader{table: sheets.Tasks.Sheet, row: i}
		t := &domain.Task{
			ID:         ids.id(rec, "id"),
			Department: rec.Text("department"),
			Name:       rec.Text("name"),
			Color:      rec.Text("color"),
			TextColor:  rec.Text("text_color"),
		}
		if ids.err != nil {
			return nil, false, ids.err
		}
		snap.Tasks = append(snap.Tasks, t)
	}

	return snap, hasAdmin, nil
}

// normalizeMonth reduces a month the spreadsheet may have turned into a date
// back to YYYY-MM.
func normalizeMonth(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "T") {
		s = sheets.NormalizeDate(s)
	}
	if len(s) > 7 && s[4] == '-' {
		return s[:7]
	}
	return s
}
