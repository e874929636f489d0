package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lichlamviec/shift-scheduler/backend/internal/config"
	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
	"github.com/lichlamviec/shift-scheduler/backend/internal/logging"
	"github.com/lichlamviec/shift-scheduler/backend/internal/repository"
	"github.com/lichlamviec/shift-scheduler/backend/internal/syncer"
)

// env is what every subcommand works against: the local store and an
// orchestrator running for the lifetime of the command.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	repo   *repository.Repository
	sync   *syncer.Orchestrator

	dbpool    *sql.DB
	logCloser io.Closer
	stop      context.CancelFunc
}

func openEnv() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("không tải được cấu hình: %w", err)
	}
	logger, logCloser := logging.New(cfg)

	dbpool, err := repository.OpenDB(cfg)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("không kết nối được cơ sở dữ liệu: %w", err)
	}
	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.InitSchema(); err != nil {
		dbpool.Close()
		logCloser.Close()
		return nil, fmt.Errorf("không khởi tạo được cấu trúc bảng: %w", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	orchestrator := syncer.NewOrchestrator(cfg, repo, logger)
	go orchestrator.Run(ctx)

	return &env{
		cfg:       cfg,
		logger:    logger,
		repo:      repo,
		sync:      orchestrator,
		dbpool:    dbpool,
		logCloser: logCloser,
		stop:      stop,
	}, nil
}

func (e *env) Close() {
	e.sync.CancelPending()
	e.stop()
	e.dbpool.Close()
	e.logCloser.Close()
}

var rootCmd = &cobra.Command{
	Use:           "syncctl",
	Short:         "Đồng bộ lịch làm việc với Google Sheets từ dòng lệnh",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Tải toàn bộ dữ liệu từ Google Sheets về và thay thế dữ liệu cục bộ",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		res := e.sync.Import(cmd.Context())
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("%s", res.Message)
		}
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Ghi toàn bộ dữ liệu cục bộ lên Google Sheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.sync.ExportNow(cmd.Context()); err != nil {
			return fmt.Errorf("đẩy dữ liệu thất bại: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Đã đồng bộ dữ liệu lên Google Sheets")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Hiển thị URL đồng bộ và số lượng bản ghi cục bộ",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		snap, err := e.repo.Snapshot()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		url := e.sync.Endpoint()
		if url == "" {
			url = "(chưa cấu hình)"
		}
		fmt.Fprintf(out, "URL:            %s\n", url)
		fmt.Fprintf(out, "Nhân viên:      %d\n", len(snap.Employees))
		fmt.Fprintf(out, "Ca làm việc:    %d\n", len(snap.Shifts))
		fmt.Fprintf(out, "Lịch làm việc:  %d\n", len(snap.Schedules))
		fmt.Fprintf(out, "Tháng đã khóa:  %s\n", strings.Join(snap.LockedMonths, ", "))
		fmt.Fprintf(out, "Đơn xin nghỉ:   %d\n", len(snap.LeaveRequests))
		return nil
	},
}

var pullAfterSet bool

var setURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Lưu URL Google Sheets và tải dữ liệu về ngay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		// SetEndpoint would import in the background and the process exits
		// right after, so the import runs here in the foreground instead
		url := strings.TrimSpace(args[0])
		if err := e.repo.PutSetting(domain.SettingSheetsURL, url); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Đã lưu URL Google Sheets")

		if !pullAfterSet || url == "" {
			return nil
		}
		res := e.sync.Import(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		if !res.Success {
			return fmt.Errorf("%s", res.Message)
		}
		return nil
	},
}

func init() {
	setURLCmd.Flags().BoolVar(&pullAfterSet, "pull", true, "tải dữ liệu về ngay sau khi lưu (--pull=false để chỉ lưu URL)")
	rootCmd.AddCommand(pullCmd, pushCmd, statusCmd, setURLCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Lỗi: %v\n", err)
		os.Exit(1)
	}
}
