// Copyright (c) 2026 gqlsql. All rights reserved.

package pool

import (
	"fmt"
	"net/url"
	"time"
)

// SSLMode selects the pool's transport security. Prefer still
// validates certificates — there is no mode that trades away
// certificate validation for convenience.
type SSLMode string

const (
	SSLDisable SSLMode = "disable"
	SSLPrefer  SSLMode = "prefer"
	SSLRequire SSLMode = "require"
)

// Config is the pool's tunable surface (spec.md §6 "Pool" row).
type Config struct {
	Host     string `env:"POOL_HOST" envDefault:"localhost"`
	Port     int    `env:"POOL_PORT" envDefault:"5432"`
	Database string `env:"POOL_DATABASE,required"`
	Username string `env:"POOL_USERNAME,required"`
	Password string `env:"POOL_PASSWORD,required"`

	MaxSize int `env:"POOL_MAX_SIZE" envDefault:"10"`
	MinIdle int `env:"POOL_MIN_IDLE" envDefault:"2"`

	ConnectTimeout time.Duration `env:"POOL_CONNECT_TIMEOUT" envDefault:"5s"`
	IdleTimeout    time.Duration `env:"POOL_IDLE_TIMEOUT" envDefault:"10m"`
	MaxLifetime    time.Duration `env:"POOL_MAX_LIFETIME" envDefault:"60m"`
	WaitTimeout    time.Duration `env:"POOL_WAIT_TIMEOUT" envDefault:"5s"`

	SSLMode         SSLMode `env:"POOL_SSL_MODE" envDefault:"prefer"`
	ApplicationName string  `env:"POOL_APPLICATION_NAME" envDefault:"gqlsql"`
}

// DSN renders cfg as a libpq connection string.
func (cfg Config) DSN() string {
	q := url.Values{}
	q.Set("sslmode", string(cfg.SSLMode))
	if cfg.ApplicationName != "" {
		q.Set("application_name", cfg.ApplicationName)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// RetryDelays is the fixed backoff schedule for serialization/deadlock
// retries: three attempts at 10ms, 50ms, 100ms.
var RetryDelays = []time.Duration{10 * time.Millisecond, 50 * time.Millisecond, 100 * time.Millisecond}
