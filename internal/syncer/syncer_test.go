package syncer

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lichlamviec/shift-scheduler/backend/internal/config"
	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
	"github.com/lichlamviec/shift-scheduler/backend/internal/repository"
	"github.com/lichlamviec/shift-scheduler/backend/internal/sheets"
)

var ict = time.FixedZone("ICT", 7*3600)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Driver = repository.DriverSQLite
	cfg.Database.DSN = filepath.Join(t.TempDir(), "schedule.db")
	cfg.Database.ConnectTimeout = 5
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10
	cfg.Database.MaxIdleTime = 60
	cfg.Sync.Debounce = 50
	cfg.InitialAdmin.Code = "ADMIN"
	cfg.InitialAdmin.Name = "Quản trị viên"
	cfg.InitialAdmin.Department = "Quản lý"
	cfg.InitialAdmin.Phone = "0999999999"
	cfg.InitialAdmin.Password = "1234"
	return cfg
}

func newTestStore(t *testing.T, cfg *config.Config) *repository.Repository {
	t.Helper()
	dbpool, err := repository.OpenDB(cfg)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { dbpool.Close() })

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return repo
}

func addEmployee(t *testing.T, repo *repository.Repository, code string, role domain.Role) *domain.Employee {
	t.Helper()
	e := &domain.Employee{Code: code, Name: "NV " + code, Department: "Bán hàng", Role: role}
	if err := repo.CreateEmployee(e); err != nil {
		t.Fatalf("CreateEmployee(%s): %v", code, err)
	}
	return e
}

// cannedRemote answers every request with body.
func cannedRemote(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// bookRemote is a workbook-backed remote endpoint that counts pushes.
type bookRemote struct {
	*httptest.Server
	book *sheets.Book

	mu     sync.Mutex
	pushes int
}

func newBookRemote(t *testing.T) *bookRemote {
	t.Helper()
	book, err := sheets.NewBook(ict)
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}
	t.Cleanup(func() { _ = book.Close() })

	br := &bookRemote{book: book}
	inner := sheets.NewServer(book)
	br.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			br.mu.Lock()
			br.pushes++
			br.mu.Unlock()
		}
		inner.ServeHTTP(w, r)
	}))
	t.Cleanup(br.Server.Close)
	return br
}

func (br *bookRemote) pushCount() int {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.pushes
}

func (br *bookRemote) rows(t *testing.T, table sheets.Table) []sheets.Record {
	t.Helper()
	records, err := br.book.ReadTable(table)
	if err != nil {
		t.Fatalf("ReadTable(%s): %v", table.Sheet, err)
	}
	return records
}
