package domain

// DepartmentAll marks a shift or task as usable by every department.
const DepartmentAll = "All"

type Shift struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Color      string `json:"color"`
	TextColor  string `json:"text_color"`
}

type Task struct {
	ID         int64  `json:"id"`
	Department string `json:"department"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	TextColor  string `json:"text_color"`
}
