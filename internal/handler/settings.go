package handler

import (
	"net/http"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

func (h *Handler) GetLockedMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.repository.GetLockedMonths()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lấy danh sách tháng đã khóa thành công", months)
}

func (h *Handler) SetMonthLocked(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month  string `json:"month" validate:"required,month"`
		Locked bool   `json:"locked"`
	}
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.SetMonthLocked(req.Month, req.Locked); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	if req.Locked {
		h.successResponse(w, r, "Đã khóa lịch tháng "+req.Month, nil)
		return
	}
	h.successResponse(w, r, "Đã mở khóa lịch tháng "+req.Month, nil)
}

func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.repository.GetTasks(r.URL.Query().Get("department"))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lấy danh mục nhiệm vụ thành công", tasks)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Department string `json:"department" validate:"required"`
		Name       string `json:"name" validate:"required"`
		Color      string `json:"color" validate:"omitempty,hexcolor"`
		TextColor  string `json:"text_color" validate:"omitempty,hexcolor"`
	}
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	t := &domain.Task{Department: req.Department, Name: req.Name, Color: req.Color, TextColor: req.TextColor}
	if err := h.repository.CreateTask(t); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Thêm nhiệm vụ thành công", t)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, "Mã nhiệm vụ không hợp lệ")
		return
	}

	if err := h.repository.DeleteTask(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Xóa nhiệm vụ thành công", nil)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repository.GetAllSettings()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lấy cấu hình thành công", settings)
}

// PutSetting stores a setting. Settings are not synced, so no export is
// scheduled; changing the sheets URL goes through the orchestrator, which
// imports from the new endpoint.
func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key" validate:"required"`
		Value string `json:"value"`
	}
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var err error
	if req.Key == domain.SettingSheetsURL {
		err = h.sync.SetEndpoint(req.Value)
	} else {
		err = h.repository.PutSetting(req.Key, req.Value)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lưu cấu hình thành công", nil)
}
