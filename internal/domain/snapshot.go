package domain

// Snapshot is the full content of the local store, as exported to or
// imported from the remote spreadsheet.
type Snapshot struct {
	Employees         []*Employee
	Shifts            []*Shift
	Schedules         []*ScheduleEntry
	LockedMonths      []string
	Announcements     []*Announcement
	AnnouncementViews []*AnnouncementView
	LeaveRequests     []*LeaveRequest
	Tasks             []*Task
}
