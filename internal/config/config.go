package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"60"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		Driver             string `env:"DRIVER" envDefault:"sqlite"` // sqlite | pgx
		DSN                string `env:"DSN" envDefault:"schedule.db"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"30"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	// SheetsURL is only the fallback; the value saved through /api/settings wins.
	SheetsURL string `env:"GOOGLE_SHEETS_URL"`
	Sync      struct {
		Debounce    int `env:"DEBOUNCE" envDefault:"2000"`  // ms
		HTTPTimeout int `env:"HTTP_TIMEOUT" envDefault:"0"` // 0 = transport default
	} `envPrefix:"SYNC_"`
	InitialAdmin struct {
		Code       string `env:"CODE" envDefault:"ADMIN"`
		Name       string `env:"NAME" envDefault:"Quản trị viên"`
		Department string `env:"DEPARTMENT" envDefault:"Quản lý"`
		Phone      string `env:"PHONE" envDefault:"0999999999"`
		Password   string `env:"PASSWORD" envDefault:"1234"`
	} `envPrefix:"INITIAL_ADMIN_"`
	Log struct {
		Level      string `env:"LEVEL" envDefault:"info"`
		File       string `env:"FILE"`
		MaxSize    int    `env:"MAX_SIZE" envDefault:"20"` // MB
		MaxBackups int    `env:"MAX_BACKUPS" envDefault:"5"`
	} `envPrefix:"LOG_"`
	SheetServer struct {
		Port     string `env:"PORT" envDefault:"8090"`
		Workbook string `env:"WORKBOOK" envDefault:"remote.xlsx"`
		Timezone string `env:"TIMEZONE" envDefault:"Asia/Ho_Chi_Minh"`
	} `envPrefix:"SHEET_SERVER_"`
}

func LoadConfig() (*Config, error) {
	// .env is optional, real environment variables take precedence
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only the first error, keeps the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
