package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
	"github.com/lichlamviec/shift-scheduler/backend/internal/repository"
)

const msgDuplicateCode = "Mã nhân viên đã tồn tại"

type employeeRequest struct {
	Code       string `json:"code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Role       string `json:"role"`
	Phone      string `json:"phone"`
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Lấy danh sách nhân viên thành công", employees)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	e := &domain.Employee{
		Code:       strings.TrimSpace(req.Code),
		Name:       req.Name,
		Department: req.Department,
		Role:       domain.NormalizeRole(req.Role),
		Phone:      req.Phone,
	}
	if e.Role == domain.RoleAdmin {
		e.Password = repository.DefaultAdminPassword
	}

	if err := h.repository.CreateEmployee(e); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateCode):
			h.errorResponse(w, r, msgDuplicateCode)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Thêm nhân viên thành công", e)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e := r.Context().Value(EmployeeCtx).(*domain.Employee)
	h.successResponse(w, r, "Lấy thông tin nhân viên thành công", e)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	e := r.Context().Value(EmployeeCtx).(*domain.Employee)
	e.Code = strings.TrimSpace(req.Code)
	e.Name = req.Name
	e.Department = req.Department
	e.Role = domain.NormalizeRole(req.Role)
	e.Phone = req.Phone

	if err := h.repository.UpdateEmployee(e); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateCode):
			h.errorResponse(w, r, msgDuplicateCode)
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Cập nhật nhân viên thất bại, vui lòng thử lại")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Cập nhật nhân viên thành công", e)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	e := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(e.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Xóa nhân viên thành công", nil)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID  int64  `json:"employee_id" validate:"required"`
		NewPassword string `json:"new_password" validate:"required"`
	}
	if err := h.decode(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateEmployeePassword(req.EmployeeID, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Không tìm thấy nhân viên")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.sync.ScheduleExport()
	h.successResponse(w, r, "Đổi mật khẩu thành công", nil)
}
