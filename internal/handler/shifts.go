package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

type shiftRequest struct {
	Name       string `json:"name" validate:"required"`
	Department string `json:"department"`
	StartTime  string `json:"start_time" validate:"required,clock"`
	EndTime    string `json:"end_time" validate:"required,clock"`
	Color      string `json:"color" validate:"omitempty,hexcolor"`
	TextColor  string `json:"text_color" validate:"omitempty,hexcolor"`
}

func (req *shiftRequest) shift(id int64) *domain.Shift {
	return &domain.Shift{
		ID:         id,
		Name:       req.Name,
		Department: req.Department,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Color:      req.Color,
		TextColor:  req.TextColor,
	}
}

func (h *Handler) GetAllShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.repository.GetAllShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lấy danh mục ca thành công", shifts)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s := req.shift(0)
	if err := h.repository.CreateShift(s); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Thêm ca thành công", s)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, "Mã ca không hợp lệ")
		return
	}

	var req shiftRequest
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s := req.shift(id)
	if err := h.repository.UpdateShift(s); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Không tìm thấy ca")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Cập nhật ca thành công", s)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, "Mã ca không hợp lệ")
		return
	}

	if err := h.repository.DeleteShift(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Xóa ca thành công", nil)
}
