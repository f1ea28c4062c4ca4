package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Firm      FirmConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Event     EventConfig
	HTTP      HTTPConfig
	Stripe    StripeConfig
	Email     EmailConfig
	Slack     SlackConfig
	Storage   StorageConfig
	Booking   BookingConfig
	Content   ContentConfig
	Admin     AdminConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string // public site URL used in emails and checkout redirects
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// FirmConfig identifies the firm in outgoing messages
type FirmConfig struct {
	Name         string
	ContactPhone string
	AdminURL     string // back-office base URL linked from staff notifications
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	// AutoMigrate applies the embedded migrations on server start
	AutoMigrate bool
}

// RedisConfig holds Redis connection settings. Redis is optional.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// EventConfig holds outbox processing configuration
type EventConfig struct {
	ProcessorEnabled bool
	BatchSize        int
	PollInterval     time.Duration
	MaxRetries       int
	CleanupEnabled   bool
	CleanupRetention time.Duration
	IdempotencyTTL   time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout              time.Duration
	WriteTimeout             time.Duration
	IdleTimeout              time.Duration
	MaxHeaderBytes           int
	MaxBodySize              int64
	WebhookMaxBodySize       int64
	RateLimitEnabled         bool
	RateLimitRequests        int
	RateLimitWindow          time.Duration
	AuthRateLimitEnabled     bool          // Stricter limit for login and refresh
	AuthRateLimitRequests    int           // Max auth attempts per window
	AuthRateLimitWindow      time.Duration // Auth rate limit window
	EnquiryRateLimitRequests int           // Public form submissions per window
	EnquiryRateLimitWindow   time.Duration
	CORSAllowOrigins         []string
	CORSAllowMethods         []string
	CORSAllowHeaders         []string
	TrustedProxies           []string
}

// StripeConfig holds payment processor settings
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	// SuccessURL and CancelURL may contain {CHECKOUT_SESSION_ID} and {REFERENCE}
	SuccessURL string
	CancelURL  string
}

// EmailConfig holds SMTP settings
type EmailConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Username        string
	Password        string
	From            string
	FromName        string
	StaffRecipients []string
	TLSPolicy       string // mandatory, opportunistic, none
	Timeout         time.Duration
}

// SlackConfig holds the incoming webhook for internal notifications
type SlackConfig struct {
	Enabled    bool
	WebhookURL string
	Channel    string
	Username   string
	IconEmoji  string
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Enabled           bool
	Endpoint          string // empty for AWS, set for MinIO/R2
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PublicBaseURL     string // prefix for public object URLs, defaults to the bucket URL
	PresignExpiration time.Duration
	MaxUploadSize     int64
	KeyPrefix         string
}

// BookingConfig holds consultation scheduling and pricing
type BookingConfig struct {
	Timezone      string
	SlotTimes     []string
	Weekdays      []string
	FeeAmount     string
	FeeCurrency   string
	CheckoutTTL   time.Duration
	MinLeadTime   time.Duration
	MaxDaysAhead  int
	SweepInterval time.Duration
}

// ContentConfig points at the content catalog file
type ContentConfig struct {
	Path string
}

// AdminConfig holds back-office account settings
type AdminConfig struct {
	BootstrapEmail    string
	BootstrapPassword string
	BootstrapName     string
	MaxLoginAttempts  int
	LockDuration      time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	// Database tracing options
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBSlowQueryThresh time.Duration // Slow query threshold for warnings
	// Metrics and log export share the collector endpoint
	MetricsEnabled        bool
	MetricsExportInterval time.Duration
	LogsEnabled           bool
	LogsLevel             string // minimum level shipped to the collector
	// Continuous profiling (Pyroscope)
	ProfilingEnabled       bool
	ProfilingServerAddress string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with LEGAL_ prefix (e.g., LEGAL_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	return FromViper(v)
}

// FromViper builds a validated config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("LEGAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			BaseURL: v.GetString("app.base_url"),
		},
		Firm: FirmConfig{
			Name:         v.GetString("firm.name"),
			ContactPhone: v.GetString("firm.contact_phone"),
			AdminURL:     v.GetString("firm.admin_url"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			TimeFormat: v.GetString("log.time_format"),
		},
		Event: EventConfig{
			ProcessorEnabled: v.GetBool("event.processor_enabled"),
			BatchSize:        v.GetInt("event.batch_size"),
			PollInterval:     v.GetDuration("event.poll_interval"),
			MaxRetries:       v.GetInt("event.max_retries"),
			CleanupEnabled:   v.GetBool("event.cleanup_enabled"),
			CleanupRetention: v.GetDuration("event.cleanup_retention"),
			IdempotencyTTL:   v.GetDuration("event.idempotency_ttl"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:              v.GetDuration("http.read_timeout"),
			WriteTimeout:             v.GetDuration("http.write_timeout"),
			IdleTimeout:              v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:           v.GetInt("http.max_header_bytes"),
			MaxBodySize:              v.GetInt64("http.max_body_size"),
			WebhookMaxBodySize:       v.GetInt64("http.webhook_max_body_size"),
			RateLimitEnabled:         v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:        v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:          v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:     v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests:    v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:      v.GetDuration("http.auth_rate_limit_window"),
			EnquiryRateLimitRequests: v.GetInt("http.enquiry_rate_limit_requests"),
			EnquiryRateLimitWindow:   v.GetDuration("http.enquiry_rate_limit_window"),
			CORSAllowOrigins:         v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:         v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:         v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:           v.GetStringSlice("http.trusted_proxies"),
		},
		Stripe: StripeConfig{
			SecretKey:     v.GetString("stripe.secret_key"),
			WebhookSecret: v.GetString("stripe.webhook_secret"),
			SuccessURL:    v.GetString("stripe.success_url"),
			CancelURL:     v.GetString("stripe.cancel_url"),
		},
		Email: EmailConfig{
			Enabled:         v.GetBool("email.enabled"),
			Host:            v.GetString("email.host"),
			Port:            v.GetInt("email.port"),
			Username:        v.GetString("email.username"),
			Password:        v.GetString("email.password"),
			From:            v.GetString("email.from"),
			FromName:        v.GetString("email.from_name"),
			StaffRecipients: v.GetStringSlice("email.staff_recipients"),
			TLSPolicy:       v.GetString("email.tls_policy"),
			Timeout:         v.GetDuration("email.timeout"),
		},
		Slack: SlackConfig{
			Enabled:    v.GetBool("slack.enabled"),
			WebhookURL: v.GetString("slack.webhook_url"),
			Channel:    v.GetString("slack.channel"),
			Username:   v.GetString("slack.username"),
			IconEmoji:  v.GetString("slack.icon_emoji"),
		},
		Storage: StorageConfig{
			Enabled:           v.GetBool("storage.enabled"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PublicBaseURL:     v.GetString("storage.public_base_url"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
			MaxUploadSize:     v.GetInt64("storage.max_upload_size"),
			KeyPrefix:         v.GetString("storage.key_prefix"),
		},
		Booking: BookingConfig{
			Timezone:      v.GetString("booking.timezone"),
			SlotTimes:     v.GetStringSlice("booking.slot_times"),
			Weekdays:      v.GetStringSlice("booking.weekdays"),
			FeeAmount:     v.GetString("booking.fee_amount"),
			FeeCurrency:   v.GetString("booking.fee_currency"),
			CheckoutTTL:   v.GetDuration("booking.checkout_ttl"),
			MinLeadTime:   v.GetDuration("booking.min_lead_time"),
			MaxDaysAhead:  v.GetInt("booking.max_days_ahead"),
			SweepInterval: v.GetDuration("booking.sweep_interval"),
		},
		Content: ContentConfig{
			Path: v.GetString("content.path"),
		},
		Admin: AdminConfig{
			BootstrapEmail:    v.GetString("admin.bootstrap_email"),
			BootstrapPassword: v.GetString("admin.bootstrap_password"),
			BootstrapName:     v.GetString("admin.bootstrap_name"),
			MaxLoginAttempts:  v.GetInt("admin.max_login_attempts"),
			LockDuration:      v.GetDuration("admin.lock_duration"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),

			MetricsEnabled:         v.GetBool("telemetry.metrics_enabled"),
			MetricsExportInterval:  v.GetDuration("telemetry.metrics_export_interval"),
			LogsEnabled:            v.GetBool("telemetry.logs_enabled"),
			LogsLevel:              v.GetString("telemetry.logs_level"),
			ProfilingEnabled:       v.GetBool("telemetry.profiling_enabled"),
			ProfilingServerAddress: v.GetString("telemetry.profiling_server_address"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "legal-api"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:3000"
	}
	if cfg.Firm.Name == "" {
		cfg.Firm.Name = "Proficient Legal"
	}
	if cfg.Firm.AdminURL == "" {
		cfg.Firm.AdminURL = strings.TrimRight(cfg.App.BaseURL, "/") + "/admin"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "legal"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "legal-api"
	}
	if cfg.JWT.MaxRefreshCount == 0 {
		cfg.JWT.MaxRefreshCount = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Event.BatchSize == 0 {
		cfg.Event.BatchSize = 50
	}
	if cfg.Event.PollInterval == 0 {
		cfg.Event.PollInterval = 5 * time.Second
	}
	if cfg.Event.MaxRetries == 0 {
		cfg.Event.MaxRetries = 5
	}
	if cfg.Event.CleanupRetention == 0 {
		cfg.Event.CleanupRetention = 168 * time.Hour
	}
	if cfg.Event.IdempotencyTTL == 0 {
		cfg.Event.IdempotencyTTL = 24 * time.Hour
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 12 << 20 // room for a 10MiB image plus multipart overhead
	}
	if cfg.HTTP.WebhookMaxBodySize == 0 {
		cfg.HTTP.WebhookMaxBodySize = 65536
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	if cfg.HTTP.EnquiryRateLimitRequests == 0 {
		cfg.HTTP.EnquiryRateLimitRequests = 5
	}
	if cfg.HTTP.EnquiryRateLimitWindow == 0 {
		cfg.HTTP.EnquiryRateLimitWindow = 10 * time.Minute
	}
	// CORS origins have no wildcard fallback; an empty list allows no cross-origin requests.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Stripe.SuccessURL == "" {
		cfg.Stripe.SuccessURL = strings.TrimRight(cfg.App.BaseURL, "/") + "/booking/success?session_id={CHECKOUT_SESSION_ID}&reference={REFERENCE}"
	}
	if cfg.Stripe.CancelURL == "" {
		cfg.Stripe.CancelURL = strings.TrimRight(cfg.App.BaseURL, "/") + "/booking/cancelled?reference={REFERENCE}"
	}
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}
	if cfg.Email.TLSPolicy == "" {
		cfg.Email.TLSPolicy = "mandatory"
	}
	if cfg.Email.Timeout == 0 {
		cfg.Email.Timeout = 15 * time.Second
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = cfg.App.Name
	}
	if cfg.Slack.Username == "" {
		cfg.Slack.Username = "Website"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "ap-southeast-2"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Storage.MaxUploadSize == 0 {
		cfg.Storage.MaxUploadSize = 10 << 20
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = "blog"
	}
	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = "Australia/Sydney"
	}
	if len(cfg.Booking.SlotTimes) == 0 {
		cfg.Booking.SlotTimes = []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00"}
	}
	if len(cfg.Booking.Weekdays) == 0 {
		cfg.Booking.Weekdays = []string{"mon", "tue", "wed", "thu", "fri"}
	}
	if cfg.Booking.FeeAmount == "" {
		cfg.Booking.FeeAmount = "220.00"
	}
	if cfg.Booking.FeeCurrency == "" {
		cfg.Booking.FeeCurrency = "AUD"
	}
	// Stripe rejects checkout sessions that expire in under 30 minutes
	if cfg.Booking.CheckoutTTL == 0 {
		cfg.Booking.CheckoutTTL = 30 * time.Minute
	}
	if cfg.Booking.MinLeadTime == 0 {
		cfg.Booking.MinLeadTime = 2 * time.Hour
	}
	if cfg.Booking.MaxDaysAhead == 0 {
		cfg.Booking.MaxDaysAhead = 60
	}
	if cfg.Booking.SweepInterval == 0 {
		cfg.Booking.SweepInterval = 5 * time.Minute
	}
	if cfg.Content.Path == "" {
		cfg.Content.Path = "content.yaml"
	}
	if cfg.Admin.MaxLoginAttempts == 0 {
		cfg.Admin.MaxLoginAttempts = 5
	}
	if cfg.Admin.LockDuration == 0 {
		cfg.Admin.LockDuration = 15 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.MetricsExportInterval == 0 {
		cfg.Telemetry.MetricsExportInterval = 60 * time.Second
	}
	if cfg.Telemetry.LogsLevel == "" {
		cfg.Telemetry.LogsLevel = "info"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Telemetry.ProfilingEnabled && c.Telemetry.ProfilingServerAddress == "" {
		return fmt.Errorf("telemetry.profiling_server_address is required when profiling is enabled")
	}

	if err := c.Booking.validate(); err != nil {
		return err
	}

	if c.Email.Enabled {
		if c.Email.Host == "" || c.Email.From == "" {
			return fmt.Errorf("email.host and email.from are required when email is enabled")
		}
	}
	if c.Slack.Enabled && c.Slack.WebhookURL == "" {
		return fmt.Errorf("slack.webhook_url is required when slack is enabled")
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when storage is enabled")
	}

	if c.App.IsProduction() {
		if err := c.validateProduction(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateProduction() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required in production")
	}
	if c.Database.SSLMode == "disable" {
		return fmt.Errorf("database.sslmode cannot be 'disable' in production")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
	}
	if c.Stripe.SecretKey == "" || c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("stripe.secret_key and stripe.webhook_secret are required in production")
	}
	return nil
}

func (b BookingConfig) validate() error {
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("booking.timezone %q: %w", b.Timezone, err)
	}
	for _, s := range b.SlotTimes {
		if _, err := time.Parse("15:04", strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("booking.slot_times entry %q must be HH:MM", s)
		}
	}
	if _, err := b.ParsedWeekdays(); err != nil {
		return err
	}
	if b.CheckoutTTL < 30*time.Minute || b.CheckoutTTL > 24*time.Hour {
		return fmt.Errorf("booking.checkout_ttl must be between 30m and 24h, got %s", b.CheckoutTTL)
	}
	if b.MaxDaysAhead < 1 {
		return fmt.Errorf("booking.max_days_ahead must be positive")
	}
	if b.MinLeadTime < 0 {
		return fmt.Errorf("booking.min_lead_time cannot be negative")
	}
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// ParsedWeekdays converts names like "mon" or "Monday" into weekdays
func (b BookingConfig) ParsedWeekdays() ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(b.Weekdays))
	for _, name := range b.Weekdays {
		key := strings.ToLower(strings.TrimSpace(name))
		if len(key) > 3 {
			key = key[:3]
		}
		d, ok := weekdayNames[key]
		if !ok {
			return nil, fmt.Errorf("booking.weekdays entry %q is not a weekday", name)
		}
		out = append(out, d)
	}
	return out, nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
