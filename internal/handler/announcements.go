package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
	"github.com/lichlamviec/shift-scheduler/backend/internal/utils"
)

// instantLayout matches what the spreadsheet and the web client exchange.
const instantLayout = "2006-01-02T15:04:05.000Z"

func nowInstant() string {
	return time.Now().UTC().Format(instantLayout)
}

type announcementRequest struct {
	Type        string `json:"type" validate:"required"`
	TargetType  string `json:"target_type" validate:"required,oneof=All Department Individual"`
	TargetValue string `json:"target_value" validate:"required_unless=TargetType All"`
	Message     string `json:"message" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
}

func (req *announcementRequest) apply(a *domain.Announcement) {
	a.Type = req.Type
	a.TargetType = req.TargetType
	a.TargetValue = req.TargetValue
	a.Message = req.Message
	a.StartTime = req.StartTime
	a.EndTime = req.EndTime
}

// GetAnnouncements lists everything, or with ?employee_id only what is
// currently shown to that employee.
func (h *Handler) GetAnnouncements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if raw := q.Get("employee_id"); raw != "" {
		employeeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "Mã nhân viên không hợp lệ")
			return
		}
		announcements, err := h.repository.GetActiveAnnouncements(employeeID, q.Get("department"), nowInstant())
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "Lấy thông báo thành công", announcements)
		return
	}

	announcements, err := h.repository.GetAllAnnouncements()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lấy thông báo thành công", announcements)
}

func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		announcementRequest
		CreatedBy int64 `json:"created_by" validate:"required"`
	}
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	a := &domain.Announcement{CreatedBy: req.CreatedBy, CreatedAt: nowInstant()}
	req.apply(a)
	if err := utils.ValidateAnnouncementWindow(a); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateAnnouncement(a); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Tạo thông báo thành công", a)
}

func (h *Handler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, "Mã thông báo không hợp lệ")
		return
	}

	var req announcementRequest
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	a := &domain.Announcement{ID: id}
	req.apply(a)
	if err := utils.ValidateAnnouncementWindow(a); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateAnnouncement(a); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Không tìm thấy thông báo")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Cập nhật thông báo thành công", a)
}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, "Mã thông báo không hợp lệ")
		return
	}

	if err := h.repository.DeleteAnnouncement(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Xóa thông báo thành công", nil)
}

// ViewAnnouncement records that an employee acknowledged the announcement.
// Only the first acknowledgement is kept.
func (h *Handler) ViewAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, "Mã thông báo không hợp lệ")
		return
	}

	var req struct {
		EmployeeID int64 `json:"employee_id" validate:"required"`
	}
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	v := &domain.AnnouncementView{AnnouncementID: id, EmployeeID: req.EmployeeID, ViewedAt: nowInstant()}
	if err := h.repository.RecordAnnouncementView(v); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Đã xác nhận thông báo", nil)
}

func (h *Handler) GetAnnouncementViews(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, "Mã thông báo không hợp lệ")
		return
	}

	readers, err := h.repository.GetAnnouncementReaders(id)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lấy danh sách xác nhận thành công", readers)
}
