package domain

import "strings"

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleTeamLead Role = "Tổ trưởng"
	RoleStaff    Role = "Nhân viên"
)

// NormalizeRole maps free-text role values onto the closed role set; anything unrecognised is plain staff.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin
	case "tổ trưởng":
		return RoleTeamLead
	default:
		return RoleStaff
	}
}

type Employee struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       Role   `json:"role"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
}
