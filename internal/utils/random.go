package utils

import (
	"fmt"
	"math/rand"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

var commonSurnames = []string{
	"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Huỳnh", "Phan", "Vũ", "Võ", "Đặng",
	"Bùi", "Đỗ", "Hồ", "Ngô", "Dương", "Lý",
}

var commonMiddleNames = []string{"Văn", "Thị", "Minh", "Ngọc", "Thanh", "Đức", "Thu", "Hữu"}

var commonGivenNames = []string{
	"An", "Bình", "Châu", "Dũng", "Giang", "Hà", "Hải", "Hạnh", "Hiếu", "Hoa",
	"Hùng", "Khánh", "Lan", "Linh", "Long", "Mai", "Nam", "Nhung", "Phúc", "Quân",
	"Sơn", "Tâm", "Thảo", "Trang", "Tuấn", "Vy", "Yến",
}

func GenerateRandomVietnameseName() string {
	return commonSurnames[rand.Intn(len(commonSurnames))] + " " +
		commonMiddleNames[rand.Intn(len(commonMiddleNames))] + " " +
		commonGivenNames[rand.Intn(len(commonGivenNames))]
}

var roles = []domain.Role{
	domain.RoleStaff,
	domain.RoleStaff,
	domain.RoleStaff,
	domain.RoleTeamLead,
}

// GenerateRandomRole never returns Admin; staff is three times as likely as a
// team lead.
func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateRandomPhone() string {
	phone := []byte("09")
	for i := 0; i < 8; i++ {
		phone = append(phone, digits[rand.Intn(len(digits))])
	}
	return string(phone)
}

// GenerateEmployeeCode builds codes like NV0042.
func GenerateEmployeeCode(n int) string {
	return fmt.Sprintf("NV%04d", n)
}

func GenerateRandomEmployee(n int, department, password string) *domain.Employee {
	return &domain.Employee{
		Code:       GenerateEmployeeCode(n),
		Name:       GenerateRandomVietnameseName(),
		Department: department,
		Role:       GenerateRandomRole(),
		Phone:      GenerateRandomPhone(),
		Password:   password,
	}
}

// GenerateRandomWeek assigns each employee one shift per day for the seven days
// starting at start. Only shifts of the employee's department or shared ones
// are picked; an employee with no usable shift is skipped.
func GenerateRandomWeek(start string, employees []*domain.Employee, shifts []*domain.Shift) ([]*domain.ScheduleEntry, error) {
	dates, err := WeekDates(start)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.ScheduleEntry, 0, len(dates)*len(employees))
	for _, e := range employees {
		usable := make([]*domain.Shift, 0, len(shifts))
		for _, s := range shifts {
			if s.Department == domain.DepartmentAll || s.Department == e.Department {
				usable = append(usable, s)
			}
		}
		if len(usable) == 0 {
			continue
		}

		for _, date := range dates {
			s := usable[rand.Intn(len(usable))]
			entries = append(entries, &domain.ScheduleEntry{
				Date:       date,
				EmployeeID: e.ID,
				ShiftID:    s.ID,
				Task:       domain.ScheduleTaskNone,
				Status:     domain.ScheduleStatusPublished,
			})
		}
	}

	return entries, nil
}
