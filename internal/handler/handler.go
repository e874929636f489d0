package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/vi"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	vi_translations "github.com/go-playground/validator/v10/translations/vi"

	"github.com/lichlamviec/shift-scheduler/backend/internal/config"
	"github.com/lichlamviec/shift-scheduler/backend/internal/repository"
	"github.com/lichlamviec/shift-scheduler/backend/internal/syncer"
	"github.com/lichlamviec/shift-scheduler/backend/internal/utils"
)

// SyncService is the part of the sync orchestrator the routes use.
type SyncService interface {
	syncer.ExportScheduler
	Import(ctx context.Context) syncer.Result
	ExportNow(ctx context.Context) error
	Endpoint() string
	SetEndpoint(url string) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	translator ut.Translator
	sync       SyncService

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, sync SyncService) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	vi := vi.New()
	uni := ut.New(vi, vi)
	trans, _ := uni.GetTranslator("vi")
	if err := vi_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := utils.RegisterValidations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		sync:       sync,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.GetAllEmployees)
			r.Post("/", h.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employee)
				r.Get("/", h.GetEmployee)
				r.Put("/", h.UpdateEmployee)
				r.Delete("/", h.DeleteEmployee)
			})
		})
		r.Post("/change-password", h.ChangePassword)

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.GetAllShifts)
			r.Post("/", h.CreateShift)
			r.Put("/{id}", h.UpdateShift)
			r.Delete("/{id}", h.DeleteShift)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.GetSchedules)
			r.Post("/", h.UpsertSchedule)
			r.Post("/bulk", h.BulkUpsertSchedules)
			r.Post("/copy-week", h.CopyWeek)
			r.Get("/week", h.GetWeekSchedules)
			r.Delete("/week", h.DeleteSchedulesInRange)
			r.With(h.schedule).Delete("/{id}", h.DeleteSchedule)
		})

		r.Route("/locked-months", func(r chi.Router) {
			r.Get("/", h.GetLockedMonths)
			r.Post("/", h.SetMonthLocked)
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", h.GetAnnouncements)
			r.Post("/", h.CreateAnnouncement)
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", h.UpdateAnnouncement)
				r.Delete("/", h.DeleteAnnouncement)
				r.Post("/view", h.ViewAnnouncement)
				r.Get("/views", h.GetAnnouncementViews)
			})
		})

		r.Route("/leave-requests", func(r chi.Router) {
			r.Get("/", h.GetAllLeaveRequests)
			r.Post("/", h.CreateLeaveRequest)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.leaveRequest)
				r.Put("/status", h.SetLeaveStatus)
				r.Delete("/", h.DeleteLeaveRequest)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.GetTasks)
			r.Post("/", h.CreateTask)
			r.Delete("/{id}", h.DeleteTask)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Post("/", h.PutSetting)
		})

		r.Route("/sync", func(r chi.Router) {
			r.Get("/", h.GetSyncStatus)
			r.Post("/", h.SyncFromSheets)
			r.Post("/push", h.SyncToSheets)
		})
	})
}
