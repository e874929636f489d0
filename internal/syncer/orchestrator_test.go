package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lichlamviec/shift-scheduler/backend/internal/config"
	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
	"github.com/lichlamviec/shift-scheduler/backend/internal/repository"
	"github.com/lichlamviec/shift-scheduler/backend/internal/sheets"
)

func startOrchestrator(t *testing.T, cfg *config.Config, repo *repository.Repository) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(cfg, repo, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		o.CancelPending()
		cancel()
	})
	go o.Run(ctx)
	return o
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDebouncedExportCoalesces(t *testing.T) {
	remote := newBookRemote(t)
	cfg := testConfig(t)
	cfg.SheetsURL = remote.URL
	repo := newTestStore(t, cfg)
	o := startOrchestrator(t, cfg, repo)

	addEmployee(t, repo, "NV01", domain.RoleAdmin)
	o.ScheduleExport()
	addEmployee(t, repo, "NV02", domain.RoleStaff)
	o.ScheduleExport()

	waitFor(t, "export", func() bool { return remote.pushCount() > 0 })
	time.Sleep(200 * time.Millisecond)

	if n := remote.pushCount(); n != 1 {
		t.Errorf("pushes = %d, want 1", n)
	}
	if rows := remote.rows(t, sheets.Employees); len(rows) != 2 {
		t.Errorf("remote employees = %d, want the latest state with 2", len(rows))
	}
}

func TestCancelPendingDropsExport(t *testing.T) {
	remote := newBookRemote(t)
	cfg := testConfig(t)
	cfg.SheetsURL = remote.URL
	cfg.Sync.Debounce = 100
	repo := newTestStore(t, cfg)
	o := startOrchestrator(t, cfg, repo)

	o.ScheduleExport()
	o.CancelPending()
	time.Sleep(300 * time.Millisecond)

	if n := remote.pushCount(); n != 0 {
		t.Errorf("pushes = %d after cancel, want 0", n)
	}
}

func TestEndpointPrefersPersistedSetting(t *testing.T) {
	cfg := testConfig(t)
	cfg.SheetsURL = "https://fallback.example/exec"
	repo := newTestStore(t, cfg)
	o := NewOrchestrator(cfg, repo, discardLogger())

	if got := o.Endpoint(); got != cfg.SheetsURL {
		t.Errorf("Endpoint() = %q, want the fallback", got)
	}
	if err := repo.PutSetting(domain.SettingSheetsURL, " https://saved.example/exec "); err != nil {
		t.Fatal(err)
	}
	if got := o.Endpoint(); got != "https://saved.example/exec" {
		t.Errorf("Endpoint() = %q, want the saved value", got)
	}
}

func TestExportNowWithoutEndpoint(t *testing.T) {
	cfg := testConfig(t)
	repo := newTestStore(t, cfg)
	o := startOrchestrator(t, cfg, repo)

	if err := o.ExportNow(context.Background()); !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("ExportNow error = %v, want ErrNoEndpoint", err)
	}
}

func TestExportIsIdempotent(t *testing.T) {
	remote := newBookRemote(t)
	cfg := testConfig(t)
	cfg.SheetsURL = remote.URL
	repo := newTestStore(t, cfg)
	if _, err := repo.SeedDefaults(); err != nil {
		t.Fatal(err)
	}
	o := startOrchestrator(t, cfg, repo)

	if err := o.ExportNow(context.Background()); err != nil {
		t.Fatalf("first export: %v", err)
	}
	shifts := len(remote.rows(t, sheets.Shifts))
	if err := o.ExportNow(context.Background()); err != nil {
		t.Fatalf("second export: %v", err)
	}
	if got := len(remote.rows(t, sheets.Shifts)); got != shifts || got != len(repository.DefaultShifts()) {
		t.Errorf("remote shifts = %d after second export, want %d", got, shifts)
	}
}

func TestRoundTripThroughRemote(t *testing.T) {
	remote := newBookRemote(t)

	srcCfg := testConfig(t)
	srcCfg.SheetsURL = remote.URL
	src := newTestStore(t, srcCfg)
	if _, err := src.SeedDefaults(); err != nil {
		t.Fatal(err)
	}
	staff := addEmployee(t, src, "NV01", domain.RoleStaff)
	shifts, err := src.GetAllShifts()
	if err != nil {
		t.Fatal(err)
	}
	if err := src.UpsertSchedule(&domain.ScheduleEntry{
		Date: "2024-03-10", EmployeeID: staff.ID, ShiftID: shifts[0].ID, Task: "Không", Status: "Published",
	}); err != nil {
		t.Fatal(err)
	}
	if err := src.SetMonthLocked("2024-01", true); err != nil {
		t.Fatal(err)
	}
	if err := startOrchestrator(t, srcCfg, src).ExportNow(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}

	dstCfg := testConfig(t)
	dstCfg.SheetsURL = remote.URL
	dst := newTestStore(t, dstCfg)
	res := startOrchestrator(t, dstCfg, dst).Import(context.Background())
	if !res.Success {
		t.Fatalf("import: %+v", res)
	}
	if res.Employees != 2 || res.Schedules != 1 {
		t.Errorf("counts = %d employees, %d schedules", res.Employees, res.Schedules)
	}

	got, err := dst.GetAllShifts()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(shifts) {
		t.Fatalf("shifts = %d, want %d", len(got), len(shifts))
	}
	for i := range shifts {
		if *got[i] != *shifts[i] {
			t.Errorf("shift %d = %+v, want %+v", i, got[i], shifts[i])
		}
	}

	entries, err := dst.GetSchedulesInRange("2024-03-10", "2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].EmployeeID != staff.ID {
		t.Errorf("entries = %+v", entries)
	}
	locked, err := dst.IsMonthLocked("2024-01")
	if err != nil || !locked {
		t.Errorf("2024-01 locked = %v, %v", locked, err)
	}
}

func TestConcurrentImportsShareOneRun(t *testing.T) {
	remote := newBookRemote(t)
	cfg := testConfig(t)
	cfg.SheetsURL = remote.URL
	repo := newTestStore(t, cfg)
	o := startOrchestrator(t, cfg, repo)

	results := make(chan Result, 4)
	for i := 0; i < 4; i++ {
		go func() { results <- o.Import(context.Background()) }()
	}
	for i := 0; i < 4; i++ {
		if res := <-results; !res.Success {
			t.Errorf("import %d: %+v", i, res)
		}
	}

	n, err := repo.CountEmployees()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("employees = %d, want only the default Admin", n)
	}
}

func TestSetEndpointTriggersImport(t *testing.T) {
	remote := newBookRemote(t)
	if err := remote.book.WriteDataset(sheets.Dataset{
		sheets.Employees.Field: {
			{"id": int64(1), "code": "BOSS", "name": "Chủ", "role": "Admin"},
			{"id": int64(2), "code": "NV02", "name": "Bình", "role": "Nhân viên"},
		},
	}); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(t)
	repo := newTestStore(t, cfg)
	o := startOrchestrator(t, cfg, repo)

	if err := o.SetEndpoint(remote.URL); err != nil {
		t.Fatalf("SetEndpoint: %v", err)
	}
	if got := o.Endpoint(); got != remote.URL {
		t.Errorf("Endpoint() = %q", got)
	}
	waitFor(t, "automatic import", func() bool {
		n, err := repo.CountEmployees()
		return err == nil && n == 2
	})
}

func TestStoppedOrchestratorRefusesJobs(t *testing.T) {
	remote := newBookRemote(t)
	cfg := testConfig(t)
	cfg.SheetsURL = remote.URL
	repo := newTestStore(t, cfg)
	o := NewOrchestrator(cfg, repo, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o.Run(ctx)

	if err := o.ExportNow(context.Background()); !errors.Is(err, ErrStopped) {
		t.Errorf("ExportNow error = %v, want ErrStopped", err)
	}
	if res := o.Import(context.Background()); res.Success {
		t.Errorf("import ran on a stopped orchestrator: %+v", res)
	}
}

func TestRecoverOnBootFinishesBeforeReturning(t *testing.T) {
	cfg := testConfig(t)
	cfg.SheetsURL = cannedRemote(t, `{"employees":[
		{"id":1,"code":"ADMIN","name":"Chủ","role":"Admin"},
		{"id":2,"code":"NV01","name":"An"}
	]}`).URL
	repo := newTestStore(t, cfg)
	o := startOrchestrator(t, cfg, repo)

	o.RecoverOnBoot(context.Background())

	// no waiting: the store is already replaced when RecoverOnBoot returns
	n, err := repo.CountEmployees()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("employees = %d right after RecoverOnBoot, want 2", n)
	}
}
