package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the book whenever its file is changed by another program,
// e.g. someone editing the workbook in a spreadsheet application. Bursts of
// events are collapsed into one reload after settle has passed without a new
// event. Watch blocks until ctx is done.
func (b *Book) Watch(ctx context.Context, settle time.Duration) error {
	if b.path == "" {
		return errors.New("bảng tính không gắn với tệp nào")
	}
	path, err := filepath.Abs(b.path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tạo watcher thất bại: %w", err)
	}
	defer watcher.Close()

	// editors replace the file instead of writing in place, so the
	// directory is watched rather than the file itself
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("không theo dõi được %s: %w", filepath.Dir(path), err)
	}

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(settle)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("lỗi theo dõi tệp bảng tính", "error", err)

		case <-timer.C:
			if err := b.Reload(); err != nil {
				slog.Error("nạp lại bảng tính thất bại", "path", path, "error", err)
				continue
			}
			slog.Info("đã nạp lại bảng tính", "path", path)
		}
	}
}
