package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/salon-api/internal/email"
	"github.com/jwalitptl/salon-api/internal/service/notification"
	"github.com/jwalitptl/salon-api/internal/sms"
	"github.com/jwalitptl/salon-api/pkg/messaging/redis"
	"github.com/jwalitptl/salon-api/pkg/worker"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	NotifyInline   = "inline"
	NotifyRedis    = "redis"
	NotifyDisabled = "disabled"
)

type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Notification NotificationConfig `mapstructure:"notification"`
}

type AppConfig struct {
	Env       string   `mapstructure:"env"`
	LogLevel  string   `mapstructure:"log_level"`
	Timezone  string   `mapstructure:"timezone"`
	TimeSlots []string `mapstructure:"time_slots"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	RateLimit       struct {
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
		Burst             int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`
	MetricsPrefix string `mapstructure:"metrics_prefix"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	// Seed loads the sample catalog into an empty store on start.
	Seed bool `mapstructure:"seed"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	QueueKey     string        `mapstructure:"queue_key"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout"`
}

type NotificationConfig struct {
	Mode             string        `mapstructure:"mode"`
	Workers          int           `mapstructure:"workers"`
	QueueSize        int           `mapstructure:"queue_size"`
	SendTimeout      time.Duration `mapstructure:"send_timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	OpenTimeout      time.Duration `mapstructure:"open_timeout"`
	BusinessName     string        `mapstructure:"business_name"`
	Email            EmailConfig   `mapstructure:"email"`
	SMS              SMSConfig     `mapstructure:"sms"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type SMSConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	UserCode  string `mapstructure:"usercode"`
	Password  string `mapstructure:"password"`
	MsgHeader string `mapstructure:"msgheader"`
}

// legacyEnv holds the variable names deployments already set.
type legacyEnv struct {
	Port           int    `envconfig:"PORT"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	RedisURL       string `envconfig:"REDIS_URL"`
	EmailUser      string `envconfig:"EMAIL_USER"`
	EmailPass      string `envconfig:"EMAIL_PASS"`
	NetgsmUserCode string `envconfig:"NETGSM_USERCODE"`
	NetgsmPassword string `envconfig:"NETGSM_PASSWORD"`
	NetgsmHeader   string `envconfig:"NETGSM_HEADER"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.timezone", "Europe/Istanbul")
	v.SetDefault("app.time_slots", DefaultTimeSlots())

	v.SetDefault("server.port", 4000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 20*time.Second)
	v.SetDefault("server.request_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_header_bytes", 1<<20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit.requests_per_second", 20)
	v.SetDefault("server.rate_limit.burst", 40)
	v.SetDefault("server.metrics_prefix", "salon_api")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "salon")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.seed", false)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.queue_key", "salon:notifications")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.poll_timeout", 5*time.Second)

	v.SetDefault("notification.mode", NotifyInline)
	v.SetDefault("notification.workers", 4)
	v.SetDefault("notification.queue_size", 256)
	v.SetDefault("notification.send_timeout", 15*time.Second)
	v.SetDefault("notification.failure_threshold", 5)
	v.SetDefault("notification.open_timeout", time.Minute)
	v.SetDefault("notification.business_name", notification.DefaultBusinessName)
	v.SetDefault("notification.email.host", "smtp.gmail.com")
	v.SetDefault("notification.email.port", 587)
	v.SetDefault("notification.email.username", "")
	v.SetDefault("notification.email.password", "")
	v.SetDefault("notification.email.from", "")
	v.SetDefault("notification.sms.endpoint", sms.DefaultEndpoint)
	v.SetDefault("notification.sms.usercode", "")
	v.SetDefault("notification.sms.password", "")
	v.SetDefault("notification.sms.msgheader", "")
}

// DefaultTimeSlots returns 09:00 to 17:30 every half hour.
func DefaultTimeSlots() []string {
	slots := make([]string, 0, 18)
	for h := 9; h < 18; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}

// LoadConfig reads config.yml from the usual locations when present, then
// applies SALON_* variables and the legacy variable names.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")           // current directory
	v.AddConfigPath("./config")    // config subdirectory
	v.AddConfigPath("/app")        // container root directory
	v.AddConfigPath("/app/config") // container config directory

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("SALON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var legacy legacyEnv
	if err := envconfig.Process("", &legacy); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	config.applyLegacy(legacy)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyLegacy(env legacyEnv) {
	if env.Port != 0 {
		c.Server.Port = env.Port
	}
	if env.DatabaseURL != "" {
		c.Database.DSN = env.DatabaseURL
	}
	if env.RedisURL != "" {
		c.Redis.URL = env.RedisURL
	}
	if env.EmailUser != "" {
		c.Notification.Email.Username = env.EmailUser
	}
	if env.EmailPass != "" {
		c.Notification.Email.Password = env.EmailPass
	}
	if c.Notification.Email.From == "" {
		c.Notification.Email.From = c.Notification.Email.Username
	}
	if env.NetgsmUserCode != "" {
		c.Notification.SMS.UserCode = env.NetgsmUserCode
	}
	if env.NetgsmPassword != "" {
		c.Notification.SMS.Password = env.NetgsmPassword
	}
	if env.NetgsmHeader != "" {
		c.Notification.SMS.MsgHeader = env.NetgsmHeader
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Notification.Mode {
	case NotifyInline, NotifyRedis, NotifyDisabled:
	default:
		return fmt.Errorf("unknown notification mode %q", c.Notification.Mode)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}
	if len(c.App.TimeSlots) == 0 {
		return errors.New("app.time_slots must not be empty")
	}
	for _, slot := range c.App.TimeSlots {
		if _, err := time.Parse("15:04", slot); err != nil || len(slot) != 5 {
			return fmt.Errorf("invalid time slot %q", slot)
		}
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// Location returns the business time zone. Validate has already checked it.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Add conversion methods to convert config types
func (c *RedisConfig) ToBrokerConfig() redis.Config {
	return redis.Config{
		URL:          c.URL,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}

func (c *NotificationConfig) ToPoolConfig() worker.PoolConfig {
	return worker.PoolConfig{
		Workers:    c.Workers,
		QueueSize:  c.QueueSize,
		JobTimeout: c.SendTimeout,
	}
}

func (c *NotificationConfig) ToDelivererConfig() notification.DelivererConfig {
	return notification.DelivererConfig{
		SendTimeout:      c.SendTimeout,
		FailureThreshold: c.FailureThreshold,
		OpenTimeout:      c.OpenTimeout,
	}
}

func (c *EmailConfig) ToServiceConfig() email.Config {
	return email.Config{
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		From:     c.From,
	}
}

func (c *SMSConfig) ToServiceConfig(timeout time.Duration) sms.Config {
	return sms.Config{
		Endpoint:  c.Endpoint,
		UserCode:  c.UserCode,
		Password:  c.Password,
		MsgHeader: c.MsgHeader,
		Timeout:   timeout,
	}
}
