package handler

type ContextKey string

var (
	EmployeeCtx     ContextKey = "employee"
	ScheduleCtx     ContextKey = "schedule"
	LeaveRequestCtx ContextKey = "leaveRequest"
)
