// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPhoneRegion        = "IN"
	DefaultMaxUploadBytes     = 5 << 20
	DefaultKickoffCron        = "* * * * *"
	DefaultDeadlineCron       = "*/5 * * * *"
	DefaultLoginMaxAttempts   = 5
	DefaultLoginLockout       = 15 * time.Minute
	DefaultRegistrationsPerIP = 10
	DefaultAPIRequestsPerMin  = 120
)

type DatabaseConfig struct {
	Driver    string `yaml:"driver"`
	Filename  string `yaml:"filename"`
	AuthToken string `yaml:"-"` // Loaded from environment
}

type StorageConfig struct {
	Driver         string `yaml:"driver"`
	LocalDir       string `yaml:"local_dir"`
	PublicPath     string `yaml:"public_path"`
	S3Bucket       string `yaml:"s3_bucket"`
	S3Region       string `yaml:"s3_region"`
	S3PublicURL    string `yaml:"s3_public_base_url"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

type RegistrationConfig struct {
	PhoneRegion string `yaml:"phone_region"`
	// Deadline is RFC3339; empty means registration never auto-closes.
	Deadline string `yaml:"deadline"`
}

type NotificationsConfig struct {
	OwnerEmail string `yaml:"owner_email"`
	SESRegion  string `yaml:"ses_region"`
	SESSender  string `yaml:"ses_sender"`

	SESAccessKeyID     string `yaml:"-"`
	SESSecretAccessKey string `yaml:"-"`
}

type SchedulerConfig struct {
	KickoffCron  string `yaml:"kickoff_cron"`
	DeadlineCron string `yaml:"deadline_cron"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RateLimitConfig struct {
	LoginMaxAttempts     int           `yaml:"login_max_attempts"`
	LoginLockout         time.Duration `yaml:"login_lockout"`
	RegistrationsPerHour int           `yaml:"registrations_per_ip_per_hour"`
	APIRequestsPerMinute int           `yaml:"api_requests_per_minute"`
	TrustProxy           bool          `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name              string `yaml:"name"`
		Environment       string `yaml:"environment"`
		Port              int    `yaml:"port"`
		BaseURL           string `yaml:"base_url"`
		SecretKey         string `yaml:"-"` // Loaded from environment
		OwnerPasswordHash string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database      DatabaseConfig      `yaml:"database"`
	Storage       StorageConfig       `yaml:"storage"`
	Registration  RegistrationConfig  `yaml:"registration"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	CORS          CORSConfig          `yaml:"cors"`
	RateLimit     RateLimitConfig     `yaml:"ratelimit"`

	Features struct {
		EnableDebug bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.App.OwnerPasswordHash = os.Getenv("OWNER_PASSWORD_HASH")
	cfg.Database.AuthToken = os.Getenv("DATABASE_AUTH_TOKEN")
	cfg.Notifications.SESAccessKeyID = os.Getenv("SES_ACCESS_KEY_ID")
	cfg.Notifications.SESSecretAccessKey = os.Getenv("SES_SECRET_ACCESS_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "local"
	}
	if c.Storage.LocalDir == "" {
		c.Storage.LocalDir = "data/uploads"
	}
	if c.Storage.PublicPath == "" {
		c.Storage.PublicPath = "/uploads/"
	}
	if c.Storage.MaxUploadBytes <= 0 {
		c.Storage.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if strings.TrimSpace(c.Registration.PhoneRegion) == "" {
		c.Registration.PhoneRegion = DefaultPhoneRegion
	}
	if c.Scheduler.KickoffCron == "" {
		c.Scheduler.KickoffCron = DefaultKickoffCron
	}
	if c.Scheduler.DeadlineCron == "" {
		c.Scheduler.DeadlineCron = DefaultDeadlineCron
	}
	if c.RateLimit.LoginMaxAttempts <= 0 {
		c.RateLimit.LoginMaxAttempts = DefaultLoginMaxAttempts
	}
	if c.RateLimit.LoginLockout <= 0 {
		c.RateLimit.LoginLockout = DefaultLoginLockout
	}
	if c.RateLimit.RegistrationsPerHour <= 0 {
		c.RateLimit.RegistrationsPerHour = DefaultRegistrationsPerIP
	}
	if c.RateLimit.APIRequestsPerMinute <= 0 {
		c.RateLimit.APIRequestsPerMinute = DefaultAPIRequestsPerMin
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	switch c.Storage.Driver {
	case "local":
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("storage local_dir is required for local storage")
		}
	case "s3":
		if c.Storage.S3Bucket == "" || c.Storage.S3Region == "" {
			return fmt.Errorf("storage s3_bucket and s3_region are required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}

	if _, err := cron.ParseStandard(c.Scheduler.KickoffCron); err != nil {
		return fmt.Errorf("invalid scheduler kickoff_cron %q: %w", c.Scheduler.KickoffCron, err)
	}
	if _, err := cron.ParseStandard(c.Scheduler.DeadlineCron); err != nil {
		return fmt.Errorf("invalid scheduler deadline_cron %q: %w", c.Scheduler.DeadlineCron, err)
	}

	if _, _, err := c.RegistrationDeadline(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Registration.PhoneRegion) == "" {
		return fmt.Errorf("registration phone_region is required")
	}

	return nil
}

// RegistrationDeadline returns the parsed deadline and whether one is set.
func (c *Config) RegistrationDeadline() (time.Time, bool, error) {
	raw := strings.TrimSpace(c.Registration.Deadline)
	if raw == "" {
		return time.Time{}, false, nil
	}
	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid registration deadline %q: %w", raw, err)
	}
	return deadline, true, nil
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// EmailEnabled reports whether owner notifications can be delivered.
func (c *Config) EmailEnabled() bool {
	n := c.Notifications
	return n.OwnerEmail != "" && n.SESRegion != "" && n.SESSender != "" &&
		n.SESAccessKeyID != "" && n.SESSecretAccessKey != ""
}
