package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lichlamviec/shift-scheduler/backend/internal/config"
	"github.com/lichlamviec/shift-scheduler/backend/internal/logging"
	"github.com/lichlamviec/shift-scheduler/backend/internal/sheets"
)

// sheetserver stands in for the hosted spreadsheet script. It serves an
// .xlsx workbook over the same GET/POST contract, so the backend can sync
// against a file on disk that people may also edit by hand.
func main() {
	/**********************************************
	 * Tải cấu hình
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("không tải được cấu hình", "error", err)
		return
	}

	logger, logCloser := logging.New(cfg)
	defer logCloser.Close()
	slog.SetDefault(logger)

	/**********************************************
	 * Mở bảng tính
	 **********************************************/
	loc, err := time.LoadLocation(cfg.SheetServer.Timezone)
	if err != nil {
		logger.Error("múi giờ không hợp lệ", "timezone", cfg.SheetServer.Timezone, "error", err)
		return
	}

	book, err := sheets.OpenBook(cfg.SheetServer.Workbook, loc)
	if err != nil {
		logger.Error("không mở được bảng tính", "path", cfg.SheetServer.Workbook, "error", err)
		return
	}
	defer book.Close()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := book.Watch(watchCtx, 500*time.Millisecond); err != nil {
			logger.Warn("không theo dõi được thay đổi của bảng tính", "error", err)
		}
	}()

	/**********************************************
	 * Khởi động HTTP server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.SheetServer.Port),
		Handler:      sheets.NewServer(book),
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("đang phục vụ bảng tính...", "port", cfg.SheetServer.Port, "path", cfg.SheetServer.Workbook)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("không khởi động được server", slog.String("error", err.Error()))
		}
	}()

	<-quit
	logger.Info("đang tắt server bảng tính...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("tắt server thất bại", slog.String("error", err.Error()))
	}
	stopWatch()
	logger.Info("server bảng tính đã tắt")
}
