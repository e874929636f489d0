package domain

const (
	TargetAll        = "All"
	TargetDepartment = "Department"
	TargetIndividual = "Individual"
)

type Announcement struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	TargetType  string `json:"target_type"`
	TargetValue string `json:"target_value"`
	Message     string `json:"message"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CreatedBy   int64  `json:"created_by"`
	CreatedAt   string `json:"created_at"`

	CreatorName string  `json:"creator_name,omitempty"`
	ViewedAt    *string `json:"viewed_at,omitempty"`
}

type AnnouncementView struct {
	AnnouncementID int64  `json:"announcement_id"`
	EmployeeID     int64  `json:"employee_id"`
	ViewedAt       string `json:"viewed_at"`
}

// AnnouncementReader is one employee and whether they acknowledged an announcement.
type AnnouncementReader struct {
	EmployeeID int64   `json:"id"`
	Name       string  `json:"name"`
	Code       string  `json:"code"`
	Department string  `json:"department"`
	ViewedAt   *string `json:"viewed_at"`
}
