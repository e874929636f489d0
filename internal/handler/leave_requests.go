package handler

import (
	"net/http"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

func (h *Handler) GetAllLeaveRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.repository.GetAllLeaveRequests()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lấy danh sách đơn xin nghỉ thành công", requests)
}

func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID int64  `json:"employee_id" validate:"required"`
		Date       string `json:"date" validate:"required,date"`
		ShiftID    int64  `json:"shift_id" validate:"required"`
		Reason     string `json:"reason"`
	}
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	lr := &domain.LeaveRequest{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		ShiftID:    req.ShiftID,
		Reason:     req.Reason,
		CreatedAt:  nowInstant(),
	}
	if err := h.repository.CreateLeaveRequest(lr); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Gửi đơn xin nghỉ thành công", lr)
}

// SetLeaveStatus approves or rejects a request; the schedule follows.
func (h *Handler) SetLeaveStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	status := domain.LeaveStatus(req.Status)
	switch status {
	case domain.LeavePending, domain.LeaveApproved, domain.LeaveRejected:
	default:
		h.errorResponse(w, r, "Trạng thái đơn không hợp lệ")
		return
	}

	current := r.Context().Value(LeaveRequestCtx).(*domain.LeaveRequest)
	lr, err := h.repository.SetLeaveStatus(current.ID, status)
	if err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Cập nhật trạng thái đơn thành công", lr)
}

func (h *Handler) DeleteLeaveRequest(w http.ResponseWriter, r *http.Request) {
	lr := r.Context().Value(LeaveRequestCtx).(*domain.LeaveRequest)

	if err := h.repository.DeleteLeaveRequest(lr.ID); err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Xóa đơn xin nghỉ thành công", nil)
}
