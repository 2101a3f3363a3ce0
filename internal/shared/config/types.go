package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// RateLimitPerMinute caps write requests per client IP; zero disables the limiter.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver selects the gorm dialect: "mysql" (default) or "sqlite".
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

func (d *DatabaseConfig) IsSQLite() bool {
	return d.Driver == "sqlite"
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LedgerConfig describes how to reach the ledger network node.
type LedgerConfig struct {
	AlgodURL          string  `mapstructure:"algod_url"`
	APIToken          string  `mapstructure:"api_token"`
	RequestTimeoutSec int     `mapstructure:"request_timeout_sec"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	MaxRetries        uint64  `mapstructure:"max_retries"`
	SignerURL         string  `mapstructure:"signer_url"`
	SignerToken       string  `mapstructure:"signer_token"`
	// SignerTimeoutSec bounds one signing round trip, which can wait on a human approving it.
	SignerTimeoutSec  int     `mapstructure:"signer_timeout_sec"`
}

func (l *LedgerConfig) RequestTimeout() time.Duration {
	if l.RequestTimeoutSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(l.RequestTimeoutSec) * time.Second
}

func (l *LedgerConfig) SignerTimeout() time.Duration {
	if l.SignerTimeoutSec <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(l.SignerTimeoutSec) * time.Second
}

type SettlementConfig struct {
	// ConfirmationRounds bounds how many ledger rounds a settlement waits for confirmation.
	ConfirmationRounds int `mapstructure:"confirmation_rounds"`
	// IdempotencyTTLHours is how long an idempotency key stays reserved in Redis.
	IdempotencyTTLHours int `mapstructure:"idempotency_ttl_hours"`
	// VerifyDonationSettlement re-checks the funding transaction before a donation is recorded.
	VerifyDonationSettlement bool `mapstructure:"verify_donation_settlement"`
	// MaxAppendAttempts bounds optimistic retries on a donation record.
	MaxAppendAttempts int `mapstructure:"max_append_attempts"`
}

func (s *SettlementConfig) IdempotencyTTL() time.Duration {
	if s.IdempotencyTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.IdempotencyTTLHours) * time.Hour
}
