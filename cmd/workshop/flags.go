package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	Address            string        `env:"RUN_ADDRESS" envDefault:"localhost:8080"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"INFO"`
	DatabaseConnection string        `env:"DATABASE_URI"`
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL" envDefault:"1s"`
	CustomerSlots      int           `env:"CUSTOMER_SLOTS" envDefault:"3"`
	TutorialMode       bool          `env:"TUTORIAL_MODE" envDefault:"false"`

	PayPerUnit          float64 `env:"PAY_PER_UNIT" envDefault:"20"`
	BaseXPPerOrder      float64 `env:"BASE_XP_PER_ORDER" envDefault:"50"`
	FailurePenaltyMoney int     `env:"FAILURE_PENALTY_MONEY" envDefault:"50"`
	FailurePenaltyXP    int     `env:"FAILURE_PENALTY_XP" envDefault:"10"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.CustomerSlots <= 0 {
		return nil, fmt.Errorf("CUSTOMER_SLOTS must be positive")
	}

	address := flag.String("a", cfg.Address, "{Host:port} for server")
	loglevel := flag.String("l", cfg.LogLevel, "Log level for server")
	databaseConnection := flag.String("d", cfg.DatabaseConnection, "Database connection string (in-memory storage when empty)")
	sweepInterval := flag.Duration("i", cfg.SweepInterval, "Deadline sweep interval (e.g. 1s; 500ms)")
	customerSlots := flag.Int("s", cfg.CustomerSlots, "Number of customer board slots")
	tutorialMode := flag.Bool("t", cfg.TutorialMode, "Pin every generated order to the tutorial product")

	flag.Parse()

	cfg.Address = *address
	cfg.LogLevel = *loglevel
	cfg.DatabaseConnection = *databaseConnection
	cfg.SweepInterval = *sweepInterval
	cfg.CustomerSlots = *customerSlots
	cfg.TutorialMode = *tutorialMode

	return cfg, nil
}
