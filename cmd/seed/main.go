package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/lichlamviec/shift-scheduler/backend/internal/config"
	"github.com/lichlamviec/shift-scheduler/backend/internal/repository"
	"github.com/lichlamviec/shift-scheduler/backend/internal/seed"
	"github.com/lichlamviec/shift-scheduler/backend/internal/utils"
)

func main() {
	var op int
	var n int
	var department string
	var start string
	var file string

	flag.IntVar(&op, "op", 0, "thao tác cần chạy (1: dữ liệu mặc định, 2: nhân viên ngẫu nhiên, 3: lịch tuần ngẫu nhiên, 4: nhập nhân viên từ CSV)")
	flag.IntVar(&n, "n", 5, "số nhân viên cần tạo")
	flag.StringVar(&department, "department", repository.SalesDepartment, "bộ phận của nhân viên ngẫu nhiên")
	flag.StringVar(&start, "start", "", "một ngày bất kỳ trong tuần cần xếp lịch (YYYY-MM-DD)")
	flag.StringVar(&file, "file", "nhan_vien.csv", "đường dẫn tệp CSV nhân viên")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("không tải được cấu hình", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := repository.OpenDB(cfg)
	if err != nil {
		logger.Error("không kết nối được cơ sở dữ liệu", "error", err)
		return
	}
	defer dbpool.Close()

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.InitSchema(); err != nil {
		logger.Error("không khởi tạo được cấu trúc bảng", "error", err)
		return
	}

	switch op {
	case 0:
		slog.Error("chưa chọn thao tác")
	case 1:
		seeded, err := repo.SeedDefaults()
		if err != nil {
			slog.Error("không tạo được dữ liệu mặc định", slog.String("error", err.Error()))
			return
		}
		tasks, err := repo.SeedTasks()
		if err != nil {
			slog.Error("không bổ sung được nhiệm vụ mặc định", slog.String("error", err.Error()))
			return
		}
		slog.Info("đã tạo dữ liệu mặc định", slog.Bool("seeded", seeded), slog.Int("tasks", tasks))
	case 2:
		if n <= 0 {
			slog.Error("số nhân viên không hợp lệ")
			return
		}
		existing, err := repo.CountEmployees()
		if err != nil {
			slog.Error("không đếm được nhân viên", slog.String("error", err.Error()))
			return
		}
		password := cfg.InitialAdmin.Password
		if password == "" {
			password = repository.DefaultAdminPassword
		}

		cnt := 0
		for i := 1; i <= n; i++ {
			e := utils.GenerateRandomEmployee(int(existing)+i, department, password)
			if err := repo.CreateEmployee(e); err != nil {
				slog.Error("không tạo được nhân viên", slog.String("code", e.Code), slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("đã tạo nhân viên ngẫu nhiên", slog.Int("count", cnt))
	case 3:
		weekStart, err := utils.WeekStart(start)
		if err != nil {
			slog.Error("ngày bắt đầu không hợp lệ", slog.String("start", start))
			return
		}
		employees, err := repo.GetAllEmployees()
		if err != nil {
			slog.Error("không lấy được danh sách nhân viên", slog.String("error", err.Error()))
			return
		}
		shifts, err := repo.GetAllShifts()
		if err != nil {
			slog.Error("không lấy được danh mục ca", slog.String("error", err.Error()))
			return
		}
		entries, err := utils.GenerateRandomWeek(weekStart, employees, shifts)
		if err != nil {
			slog.Error("không tạo được lịch tuần", slog.String("error", err.Error()))
			return
		}
		if err := repo.BulkUpsertSchedules(entries); err != nil {
			slog.Error("không ghi được lịch tuần", slog.String("error", err.Error()))
			return
		}
		slog.Info("đã tạo lịch tuần ngẫu nhiên", slog.String("week", weekStart), slog.Int("count", len(entries)))
	case 4:
		cnt, err := seed.ImportEmployeesCSV(repo, file)
		if err != nil {
			slog.Error("nhập tệp CSV thất bại", slog.Int("created", cnt), slog.String("error", err.Error()))
			return
		}
		slog.Info("đã nhập nhân viên từ CSV", slog.Int("count", cnt))
	default:
		slog.Error("thao tác không hợp lệ", slog.Int("op", op))
	}
}
