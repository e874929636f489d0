package repository

import (
	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

// DefaultAdminPassword is given to every Admin left without a password.
const DefaultAdminPassword = "1234"

// DefaultAdmin is the account that guarantees the system stays reachable.
func (r *Repository) DefaultAdmin() *domain.Employee {
	admin := r.cfg.InitialAdmin
	password := admin.Password
	if password == "" {
		password = DefaultAdminPassword
	}
	return &domain.Employee{
		Code:       admin.Code,
		Name:       admin.Name,
		Department: admin.Department,
		Role:       domain.RoleAdmin,
		Phone:      admin.Phone,
		Password:   password,
	}
}

// DefaultShifts is the catalogue a brand new store starts with.
func DefaultShifts() []*domain.Shift {
	const (
		morningColor, morningText     = "#e0f2fe", "#0369a1"
		afternoonColor, afternoonText = "#ffedd5", "#c2410c"
		offColor, offText             = "#fef08a", "#854d0e"
	)

	shifts := make([]*domain.Shift, 0, 20)
	add := func(name, department, start, end, color, text string) {
		shifts = append(shifts, &domain.Shift{Name: name, Department: department, StartTime: start, EndTime: end, Color: color, TextColor: text})
	}

	for _, dept := range []string{"Thu ngân", "Kỹ thuật", "Giao vận"} {
		add("SÁNG", dept, "08:30", "17:00", morningColor, morningText)
		add("CHIỀU", dept, "12:00", "21:00", afternoonColor, afternoonText)
	}
	add("SÁNG", "Kho", "08:30", "18:00", morningColor, morningText)
	add("CHIỀU", "Kho", "12:00", "21:00", afternoonColor, afternoonText)
	for _, dept := range []string{"Bán hàng", "Quản lý"} {
		add("SÁNG", dept, "08:30", "17:00", morningColor, morningText)
		add("CHIỀU", dept, "13:00", "21:00", afternoonColor, afternoonText)
	}

	add("LỠ", domain.DepartmentAll, "10:00", "19:00", "#d6c4b5", "#4a3b32")
	add("OFF TUẦN", domain.DepartmentAll, "00:00", "23:59", offColor, offText)
	add("OFF PHÉP", domain.DepartmentAll, "00:00", "23:59", offColor, offText)
	add("OFF KHÔNG LƯƠNG", domain.DepartmentAll, "00:00", "23:59", offColor, offText)
	add("TĂNG CA", domain.DepartmentAll, "08:30", "21:00", "#ef4444", "#ffffff")

	return shifts
}

// SeedDefaults prepares a fresh store: when there is no employee at all the
// default Admin and shift catalogue are inserted. Admins without a password
// get the default one in every case. It reports whether the store was empty.
func (r *Repository) SeedDefaults() (bool, error) {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if err := r.exec(ctx, tx, `UPDATE employees SET password = ? WHERE role = ? AND password = ''`, DefaultAdminPassword, domain.RoleAdmin); err != nil {
		return false, err
	}

	var n int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, tx.Commit()
	}

	admin := r.DefaultAdmin()
	if err := r.putRow(ctx, tx, "employees", 0, []string{"code", "name", "department", "role", "phone", "password"},
		[]any{nullable(admin.Code), admin.Name, admin.Department, admin.Role, admin.Phone, admin.Password}); err != nil {
		return false, err
	}

	for _, s := range DefaultShifts() {
		if err := r.putRow(ctx, tx, "shifts", 0, []string{"name", "department", "start_time", "end_time", "color", "text_color"},
			[]any{s.Name, s.Department, s.StartTime, s.EndTime, s.Color, s.TextColor}); err != nil {
			return false, err
		}
	}

	return true, tx.Commit()
}
