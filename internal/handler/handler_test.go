package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lichlamviec/shift-scheduler/backend/internal/config"
	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
	"github.com/lichlamviec/shift-scheduler/backend/internal/repository"
	"github.com/lichlamviec/shift-scheduler/backend/internal/syncer"
)

type fakeSync struct {
	mu        sync.Mutex
	scheduled int
	endpoint  string
	result    syncer.Result
	exportErr error
}

func (f *fakeSync) ScheduleExport() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled++
}

func (f *fakeSync) Import(ctx context.Context) syncer.Result { return f.result }
func (f *fakeSync) ExportNow(ctx context.Context) error     { return f.exportErr }
func (f *fakeSync) Endpoint() string                        { return f.endpoint }

func (f *fakeSync) SetEndpoint(url string) error {
	f.endpoint = url
	return nil
}

func (f *fakeSync) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scheduled
}

type testEnv struct {
	srv  *httptest.Server
	repo *repository.Repository
	sync *fakeSync
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Driver = repository.DriverSQLite
	cfg.Database.DSN = filepath.Join(t.TempDir(), "schedule.db")
	cfg.Database.ConnectTimeout = 5
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10
	cfg.Database.MaxIdleTime = 60

	dbpool, err := repository.OpenDB(cfg)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { dbpool.Close() })
	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	fs := &fakeSync{}
	h, err := NewHandler(cfg, repo, fs)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	h.RegisterRoutes()

	srv := httptest.NewServer(h.Mux)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, repo: repo, sync: fs}
}

func (env *testEnv) do(t *testing.T, method, path string, body any) (int, Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, env.srv.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func TestEmployeeCRUDSchedulesExport(t *testing.T) {
	env := newTestEnv(t)

	_, res := env.do(t, http.MethodPost, "/api/employees", map[string]string{
		"code": "NV01", "name": "Nguyễn Văn An", "department": "Bán hàng", "role": "admin",
	})
	if !res.Success {
		t.Fatalf("create: %+v", res)
	}
	data := res.Data.(map[string]any)
	if data["role"] != "Admin" || data["password"] != repository.DefaultAdminPassword {
		t.Errorf("created = %v", data)
	}
	id := int64(data["id"].(float64))

	_, res = env.do(t, http.MethodPost, "/api/employees", map[string]string{
		"code": "NV01", "name": "Trùng", "department": "Kho",
	})
	if res.Success || res.Message != msgDuplicateCode {
		t.Errorf("duplicate: %+v", res)
	}

	path := "/api/employees/" + jsonID(id)
	_, res = env.do(t, http.MethodPut, path, map[string]string{
		"code": "NV01", "name": "Nguyễn Văn An", "department": "Kho", "role": "Nhân viên",
	})
	if !res.Success {
		t.Fatalf("update: %+v", res)
	}

	_, res = env.do(t, http.MethodDelete, path, nil)
	if !res.Success {
		t.Fatalf("delete: %+v", res)
	}
	_, res = env.do(t, http.MethodGet, path, nil)
	if res.Success {
		t.Errorf("deleted employee still found: %+v", res)
	}

	if n := env.sync.count(); n != 3 {
		t.Errorf("ScheduleExport called %d times, want 3 (failed mutations do not count)", n)
	}
}

func TestValidationMessagesAreVietnamese(t *testing.T) {
	env := newTestEnv(t)

	_, res := env.do(t, http.MethodPost, "/api/shifts", map[string]string{
		"name": "SÁNG", "start_time": "8h", "end_time": "12:00",
	})
	if res.Success {
		t.Fatal("bad clock accepted")
	}
	if res.Message != "StartTime phải có dạng HH:mm" {
		t.Errorf("message = %q", res.Message)
	}
	if env.sync.count() != 0 {
		t.Error("export scheduled for a rejected request")
	}
}

func TestLockedMonthIsReported(t *testing.T) {
	env := newTestEnv(t)
	e := &domain.Employee{Code: "NV01", Name: "An", Department: "Kho", Role: domain.RoleStaff}
	if err := env.repo.CreateEmployee(e); err != nil {
		t.Fatal(err)
	}
	s := &domain.Shift{Name: "SÁNG", StartTime: "08:00", EndTime: "12:00"}
	if err := env.repo.CreateShift(s); err != nil {
		t.Fatal(err)
	}

	if _, res := env.do(t, http.MethodPost, "/api/locked-months", map[string]any{"month": "2024-03", "locked": true}); !res.Success {
		t.Fatalf("lock: %+v", res)
	}
	_, res := env.do(t, http.MethodPost, "/api/schedules", map[string]any{
		"date": "2024-03-05", "employee_id": e.ID, "shift_id": s.ID,
	})
	if res.Success || res.Message != "Tháng này đã khóa lịch, không thể sửa" {
		t.Errorf("upsert in locked month: %+v", res)
	}

	_, res = env.do(t, http.MethodPost, "/api/schedules", map[string]any{
		"date": "2024-04-05", "employee_id": e.ID, "shift_id": s.ID,
	})
	if !res.Success {
		t.Errorf("upsert in open month: %+v", res)
	}

	_, res = env.do(t, http.MethodGet, "/api/schedules/week?date=2024-04-07", nil)
	week := res.Data.(map[string]any)
	if dates := week["dates"].([]any); dates[0] != "2024-04-01" || len(week["schedules"].([]any)) != 1 {
		t.Errorf("week = %v", week)
	}
}

func TestLeaveRequestFlow(t *testing.T) {
	env := newTestEnv(t)
	e := &domain.Employee{Code: "NV01", Name: "An", Department: "Kho", Role: domain.RoleStaff}
	if err := env.repo.CreateEmployee(e); err != nil {
		t.Fatal(err)
	}
	s := &domain.Shift{Name: "OFF PHÉP", StartTime: "00:00", EndTime: "00:00"}
	if err := env.repo.CreateShift(s); err != nil {
		t.Fatal(err)
	}

	_, res := env.do(t, http.MethodPost, "/api/leave-requests", map[string]any{
		"employee_id": e.ID, "date": "2024-05-02", "shift_id": s.ID, "reason": "Việc gia đình",
	})
	if !res.Success {
		t.Fatalf("create: %+v", res)
	}
	lr := res.Data.(map[string]any)
	if lr["status"] != string(domain.LeavePending) {
		t.Errorf("status = %v", lr["status"])
	}
	path := "/api/leave-requests/" + jsonID(int64(lr["id"].(float64)))

	_, res = env.do(t, http.MethodPut, path+"/status", map[string]string{"status": "Sai"})
	if res.Success {
		t.Error("unknown status accepted")
	}

	_, res = env.do(t, http.MethodPut, path+"/status", map[string]string{"status": string(domain.LeaveApproved)})
	if !res.Success {
		t.Fatalf("approve: %+v", res)
	}
	entries, err := env.repo.GetSchedulesInRange("2024-05-02", "2024-05-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Note != domain.LeaveApprovedNote {
		t.Fatalf("entries after approval = %+v", entries)
	}

	if _, res = env.do(t, http.MethodDelete, path, nil); !res.Success {
		t.Fatalf("delete: %+v", res)
	}
	entries, err = env.repo.GetSchedulesInRange("2024-05-02", "2024-05-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("entries after delete = %+v", entries)
	}
}

func TestSyncRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.sync.result = syncer.Result{
		Kind:    syncer.KindDestructiveOverwriteBlocked,
		Message: "blocked",
	}

	status, res := env.do(t, http.MethodPost, "/api/sync", nil)
	if status != http.StatusBadRequest || res.Success {
		t.Fatalf("sync = %d %+v", status, res)
	}
	if kind := res.Data.(map[string]any)["kind"]; kind != string(syncer.KindDestructiveOverwriteBlocked) {
		t.Errorf("kind = %v", kind)
	}

	env.sync.exportErr = syncer.ErrNoEndpoint
	if _, res := env.do(t, http.MethodPost, "/api/sync/push", nil); res.Success {
		t.Errorf("push without endpoint succeeded: %+v", res)
	}

	if _, res := env.do(t, http.MethodPost, "/api/settings", map[string]string{
		"key": domain.SettingSheetsURL, "value": "https://script.example/exec",
	}); !res.Success {
		t.Fatalf("settings: %+v", res)
	}
	if env.sync.endpoint != "https://script.example/exec" {
		t.Errorf("endpoint = %q, want it routed through the orchestrator", env.sync.endpoint)
	}
	_, res = env.do(t, http.MethodGet, "/api/sync", nil)
	if res.Data.(map[string]any)["configured"] != true {
		t.Errorf("status = %+v", res)
	}
}

func TestRecovererCatchesPanic(t *testing.T) {
	env := newTestEnv(t)
	h, err := NewHandler(&config.Config{}, env.repo, env.sync)
	if err != nil {
		t.Fatal(err)
	}
	h.Mux.Use(h.recoverer)
	h.Mux.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
