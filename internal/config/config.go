package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type AppEnv string

const (
	ProductionEnv AppEnv = "production"
	DevelopEnv    AppEnv = "develop"
	LocalEnv      AppEnv = "local"
	TestEnv       AppEnv = "test"
)

const envPrefix = "HIGHWAY_"

type (
	Config struct {
		AppEnv     AppEnv
		LogLevel   logrus.Level
		HTTP       HTTP
		Highway    Highway
		Simulation Simulation
		Client     Client
	}

	HTTP struct {
		Addr string
	}

	// Highway holds the defaults used when a highway is created without
	// explicit parameters.
	Highway struct {
		MinActiveQueues     int
		MaxVehiclesPerQueue int
	}

	Simulation struct {
		ReportEvery int
	}

	Client struct {
		BaseURL string
		Timeout time.Duration
	}
)

func Default() *Config {
	return &Config{
		AppEnv:   LocalEnv,
		LogLevel: logrus.InfoLevel,
		HTTP:     HTTP{Addr: ":8080"},
		Highway: Highway{
			MinActiveQueues:     2,
			MaxVehiclesPerQueue: 3,
		},
		Simulation: Simulation{ReportEvery: 100},
		Client: Client{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
	}
}

// LoadEnv overrides cfg with HIGHWAY_* variables read through lookup, usually
// os.LookupEnv.
func (cfg *Config) LoadEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(envPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "config: %s%s", envPrefix, name)
		}
		*dst = n
		return nil
	}

	var env, level, timeout string
	str("APP_ENV", &env)
	str("LOG_LEVEL", &level)
	str("HTTP_ADDR", &cfg.HTTP.Addr)
	str("SERVICE_URL", &cfg.Client.BaseURL)
	str("CLIENT_TIMEOUT", &timeout)
	if env != "" {
		cfg.AppEnv = AppEnv(env)
	}
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return errors.Wrapf(err, "config: %sLOG_LEVEL", envPrefix)
		}
		cfg.LogLevel = lvl
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return errors.Wrapf(err, "config: %sCLIENT_TIMEOUT", envPrefix)
		}
		cfg.Client.Timeout = d
	}
	if err := num("MIN_ACTIVE_QUEUES", &cfg.Highway.MinActiveQueues); err != nil {
		return err
	}
	if err := num("MAX_VEHICLES_PER_QUEUE", &cfg.Highway.MaxVehiclesPerQueue); err != nil {
		return err
	}
	return num("REPORT_EVERY", &cfg.Simulation.ReportEvery)
}

func (cfg *Config) Validate() error {
	switch cfg.AppEnv {
	case ProductionEnv, DevelopEnv, LocalEnv, TestEnv:
	default:
		return errors.Errorf("config: unknown app env %q", cfg.AppEnv)
	}
	if cfg.Highway.MinActiveQueues <= 0 {
		return errors.Errorf("config: minimum active queues must be positive, got %d", cfg.Highway.MinActiveQueues)
	}
	if cfg.Highway.MaxVehiclesPerQueue <= 0 {
		return errors.Errorf("config: maximum vehicles per queue must be positive, got %d", cfg.Highway.MaxVehiclesPerQueue)
	}
	if cfg.Simulation.ReportEvery < 0 {
		return errors.Errorf("config: report interval must not be negative, got %d", cfg.Simulation.ReportEvery)
	}
	if cfg.Client.Timeout <= 0 {
		return errors.Errorf("config: client timeout must be positive, got %s", cfg.Client.Timeout)
	}
	return nil
}

// NewLogger returns a logrus logger set up for cfg.
func (cfg *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	if cfg.AppEnv == ProductionEnv {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
