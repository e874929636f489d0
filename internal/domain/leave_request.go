package domain

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Chờ duyệt"
	LeaveApproved LeaveStatus = "Đã duyệt"
	LeaveRejected LeaveStatus = "Từ chối"
)

type LeaveRequest struct {
	ID         int64       `json:"id"`
	EmployeeID int64       `json:"employee_id"`
	Date       string      `json:"date"`
	ShiftID    int64       `json:"shift_id"`
	Reason     string      `json:"reason"`
	Status     LeaveStatus `json:"status"`
	CreatedAt  string      `json:"created_at"`

	EmployeeName string `json:"employee_name,omitempty"`
	Department   string `json:"department,omitempty"`
	ShiftName    string `json:"shift_name,omitempty"`
}
