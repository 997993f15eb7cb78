// Package config loads the YAML configuration of a process built on weave.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"

	werrors "github.com/vnykmshr/weave/pkg/common/errors"
	"github.com/vnykmshr/weave/pkg/common/validation"
	"github.com/vnykmshr/weave/pkg/logx"
)

const module = "config"

// maxThreads bounds pool.threads to something a single process can use.
const maxThreads = 256

// Config is the top-level configuration file.
//
// Durations are Go duration strings ("500ms", "30s", "1m").
//
//	pool:
//	  name: app
//	  threads: 4
//	log:
//	  level: debug
//	  console: true
//	metrics:
//	  enabled: true
//	  listen: ":9090"
//	bridge:
//	  enabled: true
//	  addr: localhost:6379
//	  channel: events
//	heartbeat:
//	  interval: 30s
type Config struct {
	Pool      PoolConfig      `yaml:"pool"`
	Log       logx.Config     `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Bridge    BridgeConfig    `yaml:"bridge"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
}

// PoolConfig sizes the worker pool. Threads 0 selects the default count.
type PoolConfig struct {
	Name    string `yaml:"name"`
	Threads int    `yaml:"threads"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// BridgeConfig controls the Redis pub/sub ingress.
type BridgeConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Channel  string `yaml:"channel"`
}

// HeartbeatConfig schedules a periodic heartbeat message. Cron, when set,
// takes precedence over Interval.
type HeartbeatConfig struct {
	Interval string `yaml:"interval"`
	Cron     string `yaml:"cron,omitempty"`
}

// Default returns the configuration used for omitted fields.
func Default() Config {
	return Config{
		Pool: PoolConfig{Name: "weave"},
		Log:  logx.Config{Level: "info"},
		Metrics: MetricsConfig{
			Listen: ":9090",
		},
		Bridge: BridgeConfig{
			Addr:    "localhost:6379",
			Channel: "weave",
		},
		Heartbeat: HeartbeatConfig{Interval: "30s"},
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, werrors.NewOperationError(module, "load", err).WithContext("path=" + path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown fields
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("yaml decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	checks := []error{
		validation.ValidateNotEmpty(module, "pool.name", c.Pool.Name),
		validation.ValidateNonNegative(module, "pool.threads", float64(c.Pool.Threads)),
		validation.ValidateMax(module, "pool.threads", c.Pool.Threads, maxThreads),
		validation.ValidateOneOf(module, "log.level", c.Log.Level, logx.Levels...),
	}
	if c.Metrics.Enabled {
		checks = append(checks, validation.ValidateNotEmpty(module, "metrics.listen", c.Metrics.Listen))
	}
	if c.Bridge.Enabled {
		checks = append(checks,
			validation.ValidateNotEmpty(module, "bridge.addr", c.Bridge.Addr),
			validation.ValidateNotEmpty(module, "bridge.channel", c.Bridge.Channel),
			validation.ValidateNonNegative(module, "bridge.db", float64(c.Bridge.DB)),
		)
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	if _, err := c.HeartbeatInterval(); err != nil {
		return err
	}
	return nil
}

// HeartbeatInterval parses heartbeat.interval. Zero disables the heartbeat.
func (c Config) HeartbeatInterval() (time.Duration, error) {
	raw := strings.TrimSpace(c.Heartbeat.Interval)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, werrors.NewValidationError(module, "heartbeat.interval", raw, "not a duration").
			WithHint(`use a Go duration such as "30s" or "1m"`)
	}
	if d < 0 {
		return 0, werrors.NewValidationError(module, "heartbeat.interval", raw, "cannot be negative")
	}
	return d, nil
}
