package handler

import (
	"net/http"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
	"github.com/lichlamviec/shift-scheduler/backend/internal/utils"
)

type scheduleRequest struct {
	Date       string `json:"date" validate:"required,date"`
	EmployeeID int64  `json:"employee_id" validate:"required"`
	ShiftID    int64  `json:"shift_id" validate:"required"`
	Task       string `json:"task"`
	Status     string `json:"status"`
	Note       string `json:"note"`
}

func (req *scheduleRequest) entry() *domain.ScheduleEntry {
	return &domain.ScheduleEntry{
		Date:       req.Date,
		EmployeeID: req.EmployeeID,
		ShiftID:    req.ShiftID,
		Task:       req.Task,
		Status:     req.Status,
		Note:       req.Note,
	}
}

func (h *Handler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if err := utils.ValidateDateRange(start, end); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedules, err := h.repository.GetSchedulesInRange(start, end)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lấy lịch làm việc thành công", schedules)
}

// GetWeekSchedules returns the Monday-to-Sunday week containing ?date.
func (h *Handler) GetWeekSchedules(w http.ResponseWriter, r *http.Request) {
	start, err := utils.WeekStart(r.URL.Query().Get("date"))
	if err != nil {
		h.errorResponse(w, r, "Ngày không hợp lệ")
		return
	}
	dates, _ := utils.WeekDates(start)

	schedules, err := h.repository.GetSchedulesInRange(dates[0], dates[6])
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lấy lịch tuần thành công", map[string]any{
		"dates":     dates,
		"schedules": schedules,
	})
}

func (h *Handler) UpsertSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s := req.entry()
	if err := h.repository.UpsertSchedule(s); err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Lưu lịch làm việc thành công", s)
}

func (h *Handler) BulkUpsertSchedules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Schedules []scheduleRequest `json:"schedules" validate:"required,dive"`
	}
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	entries := make([]*domain.ScheduleEntry, len(req.Schedules))
	for i := range req.Schedules {
		entries[i] = req.Schedules[i].entry()
	}
	if err := h.repository.BulkUpsertSchedules(entries); err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Lưu lịch làm việc thành công", map[string]int{"count": len(entries)})
}

func (h *Handler) CopyWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromStartDate string `json:"fromStartDate" validate:"required,date"`
		ToStartDate   string `json:"toStartDate" validate:"required,date"`
	}
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	n, err := h.repository.CopyWeek(req.FromStartDate, req.ToStartDate)
	if err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Sao chép lịch tuần thành công", map[string]int{"count": n})
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(ScheduleCtx).(*domain.ScheduleEntry)

	if err := h.repository.DeleteSchedule(s.ID); err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Xóa lịch làm việc thành công", nil)
}

func (h *Handler) DeleteSchedulesInRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		h.errorResponse(w, r, "Thiếu ngày bắt đầu hoặc kết thúc")
		return
	}
	if err := utils.ValidateDateRange(start, end); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.DeleteSchedulesInRange(start, end, q.Get("department")); err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Xóa lịch làm việc thành công", nil)
}
