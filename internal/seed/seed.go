package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
	"github.com/lichlamviec/shift-scheduler/backend/internal/repository"
)

// HeaderFieldMap maps the accepted CSV headers, lower-cased, onto employee
// fields.
var HeaderFieldMap = map[string]string{
	"mã nv":      "code",
	"mã":         "code",
	"code":       "code",
	"họ tên":     "name",
	"tên":        "name",
	"name":       "name",
	"bộ phận":    "department",
	"department": "department",
	"vai trò":    "role",
	"role":       "role",
	"sđt":        "phone",
	"điện thoại": "phone",
	"phone":      "phone",
}

// ImportEmployeesCSV creates one employee per CSV row. Rows whose code
// already exists are skipped. It returns how many employees were created.
func ImportEmployeesCSV(r *repository.Repository, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("đọc dòng tiêu đề: %w", err)
	}

	fields := make([]string, len(headers))
	hasCode, hasName := false, false
	for i, header := range headers {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
		fields[i] = HeaderFieldMap[key]
		hasCode = hasCode || fields[i] == "code"
		hasName = hasName || fields[i] == "name"
	}
	if !hasCode || !hasName {
		return 0, errors.New("thiếu cột mã nhân viên hoặc họ tên")
	}

	created := 0
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return created, fmt.Errorf("dòng %d: %w", line, err)
		}

		record := make(map[string]string)
		for i, value := range row {
			if i < len(fields) && fields[i] != "" {
				record[fields[i]] = strings.TrimSpace(value)
			}
		}
		if record["code"] == "" || record["name"] == "" {
			slog.Warn("bỏ qua dòng thiếu mã hoặc tên", "line", line)
			continue
		}

		e := &domain.Employee{
			Code:       record["code"],
			Name:       record["name"],
			Department: record["department"],
			Role:       domain.NormalizeRole(record["role"]),
			Phone:      record["phone"],
		}
		if e.Role == domain.RoleAdmin {
			e.Password = repository.DefaultAdminPassword
		}

		if err := r.CreateEmployee(e); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicateCode):
				slog.Info("nhân viên đã tồn tại, bỏ qua", "code", e.Code)
				continue
			default:
				return created, fmt.Errorf("dòng %d: %w", line, err)
			}
		}
		created++
	}

	return created, nil
}
