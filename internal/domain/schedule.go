package domain

// LeaveApprovedNote marks schedule entries created by approving a leave request.
const LeaveApprovedNote = "Nghỉ phép đã duyệt"

const (
	ScheduleStatusPublished = "Published"
	ScheduleTaskNone        = "Không"
)

type ScheduleEntry struct {
	ID         int64  `json:"id"`
	Date       string `json:"date"`
	EmployeeID int64  `json:"employee_id"`
	ShiftID    int64  `json:"shift_id"`
	Task       string `json:"task"`
	Status     string `json:"status"`
	Note       string `json:"note"`
}

// ScheduleView is a schedule entry joined with its employee and shift for display.
type ScheduleView struct {
	ScheduleEntry
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	ShiftName    string `json:"shift_name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Color        string `json:"color"`
	TextColor    string `json:"text_color"`
}

// MonthOf returns the YYYY-MM key a date belongs to.
func MonthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
