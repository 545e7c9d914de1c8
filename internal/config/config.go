package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lzyats/multigame-notify-go/internal/logging"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
)

type Config struct {
	Env string `yaml:"env" env:"MULTIGAME_ENV"`

	notify.Settings `yaml:",inline"`

	Log logging.Options `yaml:"log"`

	Metrics struct {
		Addr string `yaml:"addr" env:"MULTIGAME_METRICS_ADDR"`
	} `yaml:"metrics"`

	MySQL struct {
		DSN          string        `yaml:"dsn" env:"MULTIGAME_MYSQL_DSN"`
		MaxOpenConns int           `yaml:"max_open_conns"`
		MaxIdleConns int           `yaml:"max_idle_conns"`
		ConnMaxLife  time.Duration `yaml:"conn_max_life"`
		ConnMaxIdle  time.Duration `yaml:"conn_max_idle"`
	} `yaml:"mysql"`

	Worker struct {
		Block     time.Duration `yaml:"block"`
		OpTimeout time.Duration `yaml:"op_timeout"`
	} `yaml:"worker"`
}

// Load supports comma-separated config files: "-c common.yml,notifier.yml".
// Later files override earlier ones, then MULTIGAME_* environment variables
// override both.
func Load(pathList string) (*Config, error) {
	if strings.TrimSpace(pathList) == "" {
		return nil, errors.New("config path required (e.g. -c ./config.yml or -c common.yml,notifier.yml)")
	}

	var c Config
	paths := strings.Split(pathList, ",")
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config %s: %w", p, err)
		}
	}
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	// defaults
	c.Settings = c.Settings.WithDefaults()
	if c.Env == "" {
		c.Env = "dev"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":2112"
	}
	if c.MySQL.MaxOpenConns <= 0 {
		c.MySQL.MaxOpenConns = 10
	}
	if c.MySQL.MaxIdleConns <= 0 {
		c.MySQL.MaxIdleConns = 5
	}
	if c.MySQL.ConnMaxLife == 0 {
		c.MySQL.ConnMaxLife = 30 * time.Minute
	}
	if c.MySQL.ConnMaxIdle == 0 {
		c.MySQL.ConnMaxIdle = 5 * time.Minute
	}
	if c.Worker.Block == 0 {
		c.Worker.Block = 5 * time.Second
	}
	if c.Worker.OpTimeout == 0 {
		c.Worker.OpTimeout = 3 * time.Second
	}
	return &c, nil
}
