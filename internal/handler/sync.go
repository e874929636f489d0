package handler

import (
	"errors"
	"net/http"

	"github.com/lichlamviec/shift-scheduler/backend/internal/syncer"
)

func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	url := h.sync.Endpoint()
	h.successResponse(w, r, "Lấy trạng thái đồng bộ thành công", map[string]any{
		"configured": url != "",
		"url":        url,
	})
}

// SyncFromSheets replaces local data with the spreadsheet. The caller always
// gets the outcome kind so the UI can tell a blocked import from a broken one.
func (h *Handler) SyncFromSheets(w http.ResponseWriter, r *http.Request) {
	res := h.sync.Import(r.Context())

	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	h.writeJSON(w, r, status, Response{
		Success: res.Success,
		Message: res.Message,
		Data:    res,
	})
}

// SyncToSheets pushes local data to the spreadsheet right away.
func (h *Handler) SyncToSheets(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.ExportNow(r.Context()); err != nil {
		var nonJSON *syncer.NonJSONError
		var remote *syncer.RemoteError
		switch {
		case errors.Is(err, syncer.ErrNoEndpoint):
			h.errorResponse(w, r, "Chưa cấu hình URL Google Sheets")
		case errors.As(err, &nonJSON):
			h.errorResponse(w, r, "URL trả về không phải dữ liệu JSON hợp lệ. Hãy kiểm tra lại bước Triển khai (Deploy) trong Apps Script.")
		case errors.As(err, &remote):
			h.errorResponse(w, r, remote.Error())
		default:
			h.errorResponse(w, r, "Lỗi kết nối máy chủ Google: "+err.Error())
		}
		return
	}

	h.successResponse(w, r, "Đã đồng bộ dữ liệu lên Google Sheets", nil)
}
