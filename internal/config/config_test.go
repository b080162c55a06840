package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadEnv(t *testing.T) {
	cfg := Default()
	err := cfg.LoadEnv(mapLookup(map[string]string{
		"HIGHWAY_APP_ENV":                "production",
		"HIGHWAY_LOG_LEVEL":              "debug",
		"HIGHWAY_HTTP_ADDR":              ":9090",
		"HIGHWAY_SERVICE_URL":            "http://tolls:9090",
		"HIGHWAY_CLIENT_TIMEOUT":         "5s",
		"HIGHWAY_MIN_ACTIVE_QUEUES":      "4",
		"HIGHWAY_MAX_VEHICLES_PER_QUEUE": "6",
		"HIGHWAY_REPORT_EVERY":           "25",
	}))
	require.NoError(t, err)
	assert.Equal(t, ProductionEnv, cfg.AppEnv)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "http://tolls:9090", cfg.Client.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, Highway{MinActiveQueues: 4, MaxVehiclesPerQueue: 6}, cfg.Highway)
	assert.Equal(t, 25, cfg.Simulation.ReportEvery)
	assert.NoError(t, cfg.Validate())

	_, isJSON := cfg.NewLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestLoadEnv_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"bad level", map[string]string{"HIGHWAY_LOG_LEVEL": "loud"}},
		{"bad timeout", map[string]string{"HIGHWAY_CLIENT_TIMEOUT": "soon"}},
		{"bad number", map[string]string{"HIGHWAY_MIN_ACTIVE_QUEUES": "two"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Error(t, Default().LoadEnv(mapLookup(c.env)))
		})
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown env", func(c *Config) { c.AppEnv = "staging" }},
		{"zero floor", func(c *Config) { c.Highway.MinActiveQueues = 0 }},
		{"zero capacity", func(c *Config) { c.Highway.MaxVehiclesPerQueue = 0 }},
		{"negative report interval", func(c *Config) { c.Simulation.ReportEvery = -1 }},
		{"zero timeout", func(c *Config) { c.Client.Timeout = 0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
