package syncer

import (
	"encoding/json"
	"testing"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
	"github.com/lichlamviec/shift-scheduler/backend/internal/sheets"
)

func TestToDatasetCarriesEveryCollection(t *testing.T) {
	snap := &domain.Snapshot{
		Employees:    []*domain.Employee{{ID: 1, Code: "ADMIN", Role: domain.RoleAdmin}},
		LockedMonths: []string{"2024-01"},
		AnnouncementViews: []*domain.AnnouncementView{
			{AnnouncementID: 3, EmployeeID: 1, ViewedAt: "2024-03-01T02:00:00.000Z"},
		},
	}

	ds := toDataset(snap)
	for _, table := range sheets.Tables {
		if !ds.Has(table.Field) {
			t.Errorf("collection %s missing", table.Field)
		}
	}
	if got := ds[sheets.Employees.Field][0]["role"]; got != "Admin" {
		t.Errorf("role = %#v", got)
	}
	if got := ds[sheets.LockedMonths.Field][0]["month"]; got != "2024-01" {
		t.Errorf("month = %#v", got)
	}
	if len(ds[sheets.Shifts.Field]) != 0 {
		t.Errorf("shifts = %v, want empty", ds[sheets.Shifts.Field])
	}
}

func TestFromDataset(t *testing.T) {
	ds := sheets.Dataset{
		sheets.Employees.Field: {
			{"id": json.Number("1"), "code": " NV01 ", "role": "tổ trưởng"},
			{"id": "2", "code": "BOSS", "role": "ADMIN", "password": "secret"},
		},
		sheets.Shifts.Field: {
			{"id": json.Number("4.0"), "name": "CHIỀU", "start_time": "1899-12-30T06:00:00.000Z", "end_time": "21:30"},
		},
		sheets.LeaveRequests.Field: {
			{"id": json.Number("8"), "employee_id": json.Number("1"), "date": "2024-05-01T17:00:00.000Z", "status": "Chờ duyệt"},
		},
		sheets.LockedMonths.Field: {{"month": "2024-04"}, {"month": ""}},
	}

	snap, hasAdmin, err := fromDataset(ds)
	if err != nil {
		t.Fatalf("fromDataset: %v", err)
	}
	if !hasAdmin {
		t.Error("hasAdmin = false")
	}

	if e := snap.Employees[0]; e.ID != 1 || e.Code != "NV01" || e.Role != domain.RoleTeamLead {
		t.Errorf("employee 0 = %+v", e)
	}
	if e := snap.Employees[1]; e.ID != 2 || e.Role != domain.RoleAdmin || e.Password != "secret" {
		t.Errorf("employee 1 = %+v", e)
	}
	if s := snap.Shifts[0]; s.ID != 4 || s.StartTime != "06:00" || s.Department != domain.DepartmentAll {
		t.Errorf("shift = %+v", s)
	}
	if lr := snap.LeaveRequests[0]; lr.Date != "2024-05-02" || lr.Status != domain.LeavePending {
		t.Errorf("leave request = %+v", lr)
	}
	if len(snap.LockedMonths) != 1 || snap.LockedMonths[0] != "2024-04" {
		t.Errorf("locked months = %v", snap.LockedMonths)
	}
}

func TestFromDatasetRejectsBadID(t *testing.T) {
	ds := sheets.Dataset{
		sheets.Employees.Field: {{"id": json.Number("1"), "code": "A"}},
		sheets.Schedules.Field: {{"id": json.Number("1"), "date": "2024-03-01", "employee_id": "Nguyễn Văn A"}},
	}
	if _, _, err := fromDataset(ds); err == nil {
		t.Error("expected an error for a non-numeric employee_id")
	}
}

func TestNormalizeMonth(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03", "2024-03"},
		{" 2024-03 ", "2024-03"},
		{"2024-03-01", "2024-03"},
		{"2024-02-29T17:00:00.000Z", "2024-03"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeMonth(tt.in); got != tt.want {
			t.Errorf("normalizeMonth(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
