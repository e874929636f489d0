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
	"github.com/lichlamviec/shift-scheduler/backend/internal/handler"
	"github.com/lichlamviec/shift-scheduler/backend/internal/logging"
	"github.com/lichlamviec/shift-scheduler/backend/internal/repository"
	"github.com/lichlamviec/shift-scheduler/backend/internal/syncer"
)

func main() {
	/**********************************************
	 * Tải cấu hình
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("không tải được cấu hình", "error", err)
		return
	}

	/**********************************************
	 * Tạo logger
	 **********************************************/
	logger, logCloser := logging.New(cfg)
	defer logCloser.Close()
	slog.SetDefault(logger)

	/**********************************************
	 * Kết nối cơ sở dữ liệu
	 **********************************************/
	dbpool, err := repository.OpenDB(cfg)
	if err != nil {
		logger.Error("không kết nối được cơ sở dữ liệu", "driver", cfg.Database.Driver, "error", err)
		return
	}
	defer dbpool.Close()

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.InitSchema(); err != nil {
		logger.Error("không khởi tạo được cấu trúc bảng", "error", err)
		return
	}

	/**********************************************
	 * Dữ liệu mặc định
	 **********************************************/
	seeded, err := repo.SeedDefaults()
	if err != nil {
		logger.Error("không tạo được dữ liệu mặc định", "error", err)
		return
	}
	if seeded {
		logger.Info("cơ sở dữ liệu trống, đã tạo Admin và danh mục ca mặc định")
	}
	if n, err := repo.SeedTasks(); err != nil {
		logger.Warn("không bổ sung được nhiệm vụ mặc định", "error", err)
	} else if n > 0 {
		logger.Info("đã bổ sung nhiệm vụ mặc định", "count", n)
	}

	/**********************************************
	 * Bộ đồng bộ Google Sheets
	 **********************************************/
	syncCtx, stopSync := context.WithCancel(context.Background())
	defer stopSync()

	orchestrator := syncer.NewOrchestrator(cfg, repo, logger)
	go orchestrator.Run(syncCtx)

	// a fresh or wiped store is repopulated from the spreadsheet before any
	// request can write to it
	orchestrator.RecoverOnBoot(syncCtx)

	/**********************************************
	 * Tạo handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, orchestrator)
	if err != nil {
		logger.Error("không tạo được handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * Khởi động HTTP server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("đang khởi động server...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("không khởi động được server", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("đang tắt server...")

	orchestrator.CancelPending()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("tắt server thất bại", slog.String("error", err.Error()))
	}
	stopSync()
	logger.Info("server đã tắt")
}
