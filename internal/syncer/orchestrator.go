package syncer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lichlamviec/shift-scheduler/backend/internal/config"
	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

var (
	ErrNoEndpoint = errors.New("chưa cấu hình URL Google Sheets")
	ErrStopped    = errors.New("bộ đồng bộ đã dừng")
)

const jobQueueSize = 16

type job func(ctx context.Context)

// Orchestrator decides when exports and imports run. All sync jobs execute
// one at a time on the goroutine started by Run, so an import and an export
// never overlap.
type Orchestrator struct {
	store    Store
	importer *Importer
	exporter *Exporter
	fallback string
	debounce time.Duration
	logger   *slog.Logger

	jobs chan job
	done chan struct{}
	once sync.Once

	mu           sync.Mutex
	timer        *time.Timer
	exportQueued bool

	imports singleflight.Group
}

func NewOrchestrator(cfg *config.Config, store Store, logger *slog.Logger) *Orchestrator {
	client := NewClient(time.Duration(cfg.Sync.HTTPTimeout) * time.Second)
	return &Orchestrator{
		store:    store,
		importer: NewImporter(store, client, logger),
		exporter: NewExporter(store, client, logger),
		fallback: strings.TrimSpace(cfg.SheetsURL),
		debounce: time.Duration(cfg.Sync.Debounce) * time.Millisecond,
		logger:   logger,
		jobs:     make(chan job, jobQueueSize),
		done:     make(chan struct{}),
	}
}

// Run executes queued jobs until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) {
	defer o.once.Do(func() { close(o.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case j := <-o.jobs:
			j(ctx)
		}
	}
}

func (o *Orchestrator) enqueue(ctx context.Context, j job) error {
	select {
	case <-o.done:
		return ErrStopped
	default:
	}

	select {
	case o.jobs <- j:
		return nil
	case <-o.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Endpoint is the persisted remote URL, or the configured default when none
// was saved.
func (o *Orchestrator) Endpoint() string {
	url, ok, err := o.store.GetSetting(domain.SettingSheetsURL)
	if err != nil {
		o.logger.Warn("không đọc được cấu hình URL Google Sheets", "error", err)
		return o.fallback
	}
	if ok && strings.TrimSpace(url) != "" {
		return strings.TrimSpace(url)
	}
	return o.fallback
}

// SetEndpoint persists url. A non-empty url triggers an import in the
// background whose outcome is only logged.
func (o *Orchestrator) SetEndpoint(url string) error {
	url = strings.TrimSpace(url)
	if err := o.store.PutSetting(domain.SettingSheetsURL, url); err != nil {
		return err
	}
	if url == "" {
		return nil
	}

	go func() {
		res := o.Import(context.Background())
		o.logResult("tự động đồng bộ sau khi đổi URL", res)
	}()
	return nil
}

// ScheduleExport (re)starts the debounce timer. Only the last call inside the
// window leads to an export, which then sees the latest state.
func (o *Orchestrator) ScheduleExport() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, o.fireExport)
}

// CancelPending drops a scheduled export that has not fired yet.
func (o *Orchestrator) CancelPending() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

func (o *Orchestrator) fireExport() {
	o.mu.Lock()
	o.timer = nil
	if o.exportQueued {
		o.mu.Unlock()
		return
	}
	o.exportQueued = true
	o.mu.Unlock()

	err := o.enqueue(context.Background(), func(ctx context.Context) {
		o.mu.Lock()
		o.exportQueued = false
		o.mu.Unlock()

		url := o.Endpoint()
		if url == "" {
			o.logger.Debug("bỏ qua đồng bộ vì chưa cấu hình URL Google Sheets")
			return
		}
		// already logged by Export
		_ = o.exporter.Export(ctx, url)
	})
	if err != nil {
		o.mu.Lock()
		o.exportQueued = false
		o.mu.Unlock()
		o.logger.Warn("không xếp được lượt đồng bộ", "error", err)
	}
}

// ExportNow pushes the current state right away and waits for the outcome.
func (o *Orchestrator) ExportNow(ctx context.Context) error {
	url := o.Endpoint()
	if url == "" {
		return ErrNoEndpoint
	}

	errCh := make(chan error, 1)
	if err := o.enqueue(ctx, func(jctx context.Context) {
		errCh <- o.exporter.Export(jctx, url)
	}); err != nil {
		return err
	}

	select {
	case err := <-errCh:
		return err
	case <-o.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Import runs one import. Concurrent callers share the in-flight one.
func (o *Orchestrator) Import(ctx context.Context) Result {
	v, _, _ := o.imports.Do("import", func() (any, error) {
		resCh := make(chan Result, 1)
		if err := o.enqueue(ctx, func(jctx context.Context) {
			resCh <- o.importer.Import(jctx, o.Endpoint())
		}); err != nil {
			return failed(KindConnectivityFailure, msgConnectivityFailure+err.Error()), nil
		}

		select {
		case res := <-resCh:
			return res, nil
		case <-o.done:
			return failed(KindConnectivityFailure, msgConnectivityFailure+ErrStopped.Error()), nil
		case <-ctx.Done():
			return failed(KindConnectivityFailure, msgConnectivityFailure+ctx.Err().Error()), nil
		}
	})
	return v.(Result)
}

// RecoverOnBoot pulls the remote state once at startup so a fresh or wiped
// local store is repopulated.
func (o *Orchestrator) RecoverOnBoot(ctx context.Context) {
	if o.Endpoint() == "" {
		o.logger.Info("chưa cấu hình URL Google Sheets, bỏ qua đồng bộ khi khởi động")
		return
	}
	o.logResult("đồng bộ khi khởi động", o.Import(ctx))
}

func (o *Orchestrator) logResult(what string, res Result) {
	if res.Success {
		o.logger.Info(what+" thành công", "employees", res.Employees, "schedules", res.Schedules)
		return
	}
	o.logger.Warn(what+" thất bại", "kind", res.Kind, "message", res.Message, "details", res.Details)
}
