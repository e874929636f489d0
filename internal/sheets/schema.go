// Package sheets holds the contract between the local store and the remote
// spreadsheet: the fixed table layout, the cell normalizer, and a
// workbook-backed implementation of the remote endpoint.
package sheets

import "strings"

// Table binds one logical collection to its remote sheet.
type Table struct {
	Field   string // JSON field name on the wire
	Sheet   string
	Columns []string
}

var (
	Employees         = Table{"employees", "Nhan_Vien", []string{"id", "code", "name", "department", "role", "phone", "password"}}
	Shifts            = Table{"shifts", "DanhMuc_Ca", []string{"id", "name", "department", "start_time", "end_time", "color", "text_color"}}
	Schedules         = Table{"schedules", "Lich_Lam_Viec", []string{"id", "date", "employee_id", "shift_id", "task", "status", "note"}}
	LockedMonths      = Table{"lockedMonths", "Thang_Chot", []string{"month"}}
	Announcements     = Table{"announcements", "Thong_Bao", []string{"id", "type", "target_type", "target_value", "message", "start_time", "end_time", "created_by", "created_at"}}
	AnnouncementViews = Table{"announcementViews", "Xac_Nhan_Thong_Bao", []string{"announcement_id", "employee_id", "viewed_at"}}
	LeaveRequests     = Table{"leaveRequests", "Don_Xin_Nghi", []string{"id", "employee_id", "date", "shift_id", "reason", "status", "created_at"}}
	Tasks             = Table{"tasks", "DanhMuc_NhiemVu", []string{"id", "department", "name", "color", "text_color"}}
)

// Tables lists every synced collection in push order.
var Tables = []Table{
	Employees,
	Shifts,
	Schedules,
	LockedMonths,
	Announcements,
	AnnouncementViews,
	LeaveRequests,
	Tasks,
}

var numericColumns = map[string]bool{
	"id":              true,
	"employee_id":     true,
	"shift_id":        true,
	"created_by":      true,
	"announcement_id": true,
}

func IsNumericColumn(col string) bool { return numericColumns[col] }

// IsTimeColumn reports whether the column holds a clock value that the
// spreadsheet engine would otherwise turn into a 1899-based date serial.
func IsTimeColumn(col string) bool { return col == "start_time" || col == "end_time" }

// TableByField finds a table by its wire field name.
func TableByField(field string) (Table, bool) {
	for _, t := range Tables {
		if t.Field == field {
			return t, true
		}
	}
	return Table{}, false
}

// SameSheet compares sheet names the way the remote engine does.
func SameSheet(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}

// Dataset is the payload exchanged with the remote endpoint: one record list
// per collection, keyed by field name.
type Dataset map[string][]Record

// NewDataset returns a dataset with every collection present and empty.
func NewDataset() Dataset {
	ds := make(Dataset, len(Tables))
	for _, t := range Tables {
		ds[t.Field] = []Record{}
	}
	return ds
}

// Has reports whether the collection was present in the payload at all.
func (ds Dataset) Has(field string) bool {
	v, ok := ds[field]
	return ok && v != nil
}
