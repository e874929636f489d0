// Package syncer keeps the local store and the remote spreadsheet in step:
// exports push the whole local state, imports replace it with the remote one
// after a safety check, and the orchestrator decides when either runs.
package syncer

import (
	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

// Store is the slice of the repository the pipelines need.
type Store interface {
	Snapshot() (*domain.Snapshot, error)
	ReplaceAll(snap *domain.Snapshot) error
	CountEmployees() (int64, error)
	SeedTasks() (int, error)
	DefaultAdmin() *domain.Employee
	GetSetting(key string) (string, bool, error)
	PutSetting(key, value string) error
}

// ExportScheduler is what mutating code paths depend on to announce a change.
type ExportScheduler interface {
	ScheduleExport()
}
