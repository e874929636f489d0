package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Exporter pushes the full local state to the remote endpoint.
type Exporter struct {
	store  Store
	client *Client
	logger *slog.Logger
}

func NewExporter(store Store, client *Client, logger *slog.Logger) *Exporter {
	return &Exporter{store: store, client: client, logger: logger}
}

// Export snapshots the store and overwrites every remote table with it.
// Failures are logged and returned; local state is never touched.
func (e *Exporter) Export(ctx context.Context, url string) error {
	snap, err := e.store.Snapshot()
	if err != nil {
		e.logger.Error("không đọc được dữ liệu cục bộ để đồng bộ", "error", err)
		return fmt.Errorf("snapshot: %w", err)
	}

	ds := toDataset(snap)
	if err := e.client.Push(ctx, url, ds); err != nil {
		var nonJSON *NonJSONError
		var remote *RemoteError
		switch {
		case errors.As(err, &nonJSON):
			e.logger.Error("lỗi đồng bộ Google Sheets: phản hồi không phải JSON hợp lệ, hãy triển khai lại Apps Script với quyền truy cập \"Bất kỳ ai\" và dán lại link /exec",
				"excerpt", nonJSON.Excerpt)
		case errors.As(err, &remote):
			e.logger.Error("Google Sheets báo lỗi đồng bộ", "error", remote.Message)
		default:
			e.logger.Error("không gửi được dữ liệu lên Google Sheets", "error", err)
		}
		return err
	}

	e.logger.Info("đã đồng bộ lên Google Sheets",
		"employees", len(snap.Employees), "schedules", len(snap.Schedules))
	return nil
}
