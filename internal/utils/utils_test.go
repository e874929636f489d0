package utils

import (
	"testing"

	"github.com/go-playground/locales/vi"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

func TestRegisterValidations(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())
	uni := ut.New(vi.New())
	trans, _ := uni.GetTranslator("vi")
	if err := RegisterValidations(v, trans); err != nil {
		t.Fatalf("RegisterValidations: %v", err)
	}

	type req struct {
		Start string `validate:"clock"`
		Date  string `validate:"date"`
		Month string `validate:"month"`
	}

	if err := v.Struct(req{Start: "08:30", Date: "2024-02-29", Month: "2024-02"}); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	err := v.Struct(req{Start: "8h30", Date: "2024-02-29", Month: "2024-02"})
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) != 1 {
		t.Fatalf("err = %v", err)
	}
	if got := verrs[0].Translate(trans); got != "Start phải có dạng HH:mm" {
		t.Errorf("message = %q", got)
	}

	if err := v.Struct(req{Start: "08:30", Date: "2023-02-29", Month: "2024-13"}); err == nil {
		t.Error("impossible date and month accepted")
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		start, end string
		ok         bool
	}{
		{"2024-03-01", "2024-03-07", true},
		{"2024-03-01", "2024-03-01", true},
		{"2024-03-07", "2024-03-01", false},
		{"2024-3-1", "2024-03-07", false},
	}
	for _, tt := range tests {
		err := ValidateDateRange(tt.start, tt.end)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateDateRange(%s, %s) = %v", tt.start, tt.end, err)
		}
	}
}

func TestValidateAnnouncementWindow(t *testing.T) {
	a := &domain.Announcement{StartTime: "2024-03-01T00:00:00.000Z", EndTime: "2024-03-02T00:00:00.000Z"}
	if err := ValidateAnnouncementWindow(a); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}
	a.EndTime = "2024-02-28T00:00:00.000Z"
	if err := ValidateAnnouncementWindow(a); err == nil {
		t.Error("reversed window accepted")
	}
}

func TestWeekStart(t *testing.T) {
	tests := map[string]string{
		"2024-03-04": "2024-03-04", // Monday
		"2024-03-06": "2024-03-04",
		"2024-03-10": "2024-03-04", // Sunday
		"2024-03-11": "2024-03-11",
	}
	for in, want := range tests {
		got, err := WeekStart(in)
		if err != nil || got != want {
			t.Errorf("WeekStart(%s) = %s, %v; want %s", in, got, err, want)
		}
	}
}

func TestGenerateRandomWeek(t *testing.T) {
	employees := []*domain.Employee{
		{ID: 1, Department: "Bán hàng"},
		{ID: 2, Department: "Kho"},
		{ID: 3, Department: "Kế toán"},
	}
	shifts := []*domain.Shift{
		{ID: 10, Department: "Bán hàng"},
		{ID: 11, Department: domain.DepartmentAll},
		{ID: 12, Department: "Kho"},
	}

	entries, err := GenerateRandomWeek("2024-12-30", employees, shifts)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 21 {
		t.Fatalf("got %d entries, want 21", len(entries))
	}

	seen := map[string]bool{}
	for _, e := range entries {
		key := e.Date + "/" + string(rune('0'+e.EmployeeID))
		if seen[key] {
			t.Errorf("two entries for %s", key)
		}
		seen[key] = true
		if e.EmployeeID == 2 && e.ShiftID == 10 {
			t.Error("Kho employee got a Bán hàng shift")
		}
		if e.EmployeeID == 3 && e.ShiftID != 11 {
			t.Errorf("Kế toán employee got shift %d", e.ShiftID)
		}
	}
	if !seen["2025-01-05/1"] {
		t.Error("week does not cross into the new year")
	}
}

func TestGenerateRandomEmployee(t *testing.T) {
	e := GenerateRandomEmployee(42, "Kho", "1234")
	if e.Code != "NV0042" || e.Department != "Kho" || e.Password != "1234" {
		t.Errorf("employee = %+v", e)
	}
	if e.Role == domain.RoleAdmin {
		t.Error("random employee is an Admin")
	}
	if len(e.Phone) != 10 {
		t.Errorf("phone = %q", e.Phone)
	}
}
