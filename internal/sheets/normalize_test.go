package sheets

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-10T17:00:00.000Z", "2024-03-11"},
		{"2024-03-10T17:00:00Z", "2024-03-11"},
		{"2024-03-10T03:15:00.000Z", "2024-03-10"},
		{"2024-03-10", "2024-03-10"},
		{"2024-03-10 08:00", "2024-03-10"},
		{"10/03/2024", "10/03/2024"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDate(tt.in); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"08:30", "08:30"},
		{"1899-12-30T08:30:00.000Z", "08:30"},
		{"T9", "9"},
	}
	for _, tt := range tests {
		if got := NormalizeClock(tt.in); got != tt.want {
			t.Errorf("NormalizeClock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromRemote(t *testing.T) {
	ict := time.FixedZone("ICT", 7*3600)
	tests := []struct {
		name   string
		col    string
		in     any
		want   any
		wantOK bool
	}{
		{"blank", "name", "", nil, false},
		{"whitespace", "phone", "   ", nil, false},
		{"nil", "id", nil, nil, false},
		{"numeric id", "id", "12", int64(12), true},
		{"numeric float text", "employee_id", "3.0", int64(3), true},
		{"numeric not parseable", "shift_id", "abc", "abc", true},
		{"text column keeps digits as text", "phone", "0901234567", "0901234567", true},
		{"native clock", "start_time", time.Date(1899, 12, 30, 8, 30, 0, 0, ict), "08:30", true},
		{"native date", "date", time.Date(2024, 3, 11, 0, 0, 0, 0, ict), "2024-03-10T17:00:00.000Z", true},
		{"date text with T", "date", "2024-03-10T17:00:00.000Z", "2024-03-11", true},
		{"clock text", "end_time", "17:45", "17:45", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromRemote(tt.col, tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestToRemote(t *testing.T) {
	tests := []struct {
		col  string
		in   any
		want string
	}{
		{"id", nil, ""},
		{"id", float64(1234567), "1234567"},
		{"id", int64(9), "9"},
		{"start_time", "08:00", "08:00"},
		{"name", "Nguyễn Văn A", "Nguyễn Văn A"},
	}
	for _, tt := range tests {
		if got := ToRemote(tt.col, tt.in); got != tt.want {
			t.Errorf("ToRemote(%q, %#v) = %q, want %q", tt.col, tt.in, got, tt.want)
		}
	}
}

func TestRowRecordHeaderDrift(t *testing.T) {
	header := []string{" Name ", "ID", "extra", "code"}
	row := []any{"Lan", "7", "ignored", ""}

	rec, ok := RowRecord(header, row, Employees.Columns)
	if !ok {
		t.Fatal("row with data was dropped")
	}
	if rec["name"] != "Lan" || rec["id"] != int64(7) {
		t.Errorf("unexpected record %#v", rec)
	}
	if _, present := rec["code"]; present {
		t.Error("blank code should be absent")
	}
	if _, present := rec["extra"]; present {
		t.Error("unknown column leaked into record")
	}
	if _, present := rec["phone"]; present {
		t.Error("column missing from header should be absent")
	}
}

func TestRowRecordEmptyRow(t *testing.T) {
	header := []string{"id", "name"}
	if _, ok := RowRecord(header, []any{"", " "}, Employees.Columns); ok {
		t.Error("empty row should be dropped")
	}
	if _, ok := RowRecord(header, nil, Employees.Columns); ok {
		t.Error("short row should be dropped")
	}
}

func TestRecordID(t *testing.T) {
	tests := []struct {
		rec     Record
		want    int64
		wantErr bool
	}{
		{Record{}, 0, false},
		{Record{"id": float64(4)}, 4, false},
		{Record{"id": "15"}, 15, false},
		{Record{"id": " "}, 0, false},
		{Record{"id": "x1"}, 0, true},
		{Record{"id": 1.5}, 0, true},
	}
	for _, tt := range tests {
		got, err := tt.rec.ID("id")
		if (err != nil) != tt.wantErr {
			t.Errorf("ID(%#v) error = %v, wantErr %v", tt.rec, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ID(%#v) = %d, want %d", tt.rec, got, tt.want)
		}
	}
}
