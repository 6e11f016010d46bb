package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultPath = "config/config.yaml"

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigin   string        `yaml:"allowed_origin"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	FlowTTL  time.Duration `yaml:"flow_ttl"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type IdentityConfig struct {
	BaseURL   string        `yaml:"base_url"`
	SecretKey string        `yaml:"secret_key"`
	Timeout   time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// SignUpConfig tunes the sign-up flow controller.
type SignUpConfig struct {
	GrantAdmin             bool          `yaml:"grant_admin"`
	LockTTL                time.Duration `yaml:"lock_ttl"`
	MetadataMaxAttempts    uint          `yaml:"metadata_max_attempts"`
	MetadataInitialBackoff time.Duration `yaml:"metadata_initial_backoff"`
}

type GenerationConfig struct {
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	GeminiModel  string        `yaml:"gemini_model"`
	ImageModel   string        `yaml:"image_model"`
	ImageCount   int           `yaml:"image_count"`
	GroqAPIKey   string        `yaml:"groq_api_key"`
	GroqBaseURL  string        `yaml:"groq_base_url"`
	GroqModel    string        `yaml:"groq_model"`
	Timeout      time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Endpoint  string        `yaml:"endpoint"`
	AccessKey string        `yaml:"access_key"`
	SecretKey string        `yaml:"secret_key"`
	Bucket    string        `yaml:"bucket"`
	UseSSL    bool          `yaml:"use_ssl"`
	URLExpiry time.Duration `yaml:"url_expiry"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	AdminChatID int64  `yaml:"admin_chat_id"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

type FilesConfig struct {
	FontPath string `yaml:"font_path"`
}

type DatabaseConfig struct {
	DSN string `yaml:"url"`
}

type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	NATS       NATSConfig       `yaml:"nats"`
	Identity   IdentityConfig   `yaml:"identity"`
	Auth       AuthConfig       `yaml:"auth"`
	SignUp     SignUpConfig     `yaml:"signup"`
	Generation GenerationConfig `yaml:"generation"`
	Storage    StorageConfig    `yaml:"storage"`
	Email      EmailConfig      `yaml:"email"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Sentry     SentryConfig     `yaml:"sentry"`
	Files      FilesConfig      `yaml:"files"`
}

// LoadConfig reads the YAML file at CONFIG_PATH (or config/config.yaml),
// applies environment overrides for secrets and fills defaults.
func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}
	return Load(path)
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.Database.DSN, "DATABASE_URL")
	overrideString(&c.Redis.Addr, "REDIS_ADDR")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideString(&c.NATS.URL, "NATS_URL")
	overrideString(&c.Identity.BaseURL, "IDENTITY_BASE_URL")
	overrideString(&c.Identity.SecretKey, "IDENTITY_SECRET_KEY")
	overrideString(&c.Auth.JWTSecret, "JWT_SECRET")
	overrideString(&c.Generation.GeminiAPIKey, "GEMINI_API_KEY")
	overrideString(&c.Generation.GroqAPIKey, "GROQ_API_TOKEN")
	overrideString(&c.Storage.AccessKey, "MINIO_ACCESS_KEY")
	overrideString(&c.Storage.SecretKey, "MINIO_SECRET_KEY")
	overrideString(&c.Email.SMTPPassword, "SMTP_PASSWORD")
	overrideString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	overrideString(&c.Sentry.DSN, "SENTRY_DSN")
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	if c.Server.AllowedOrigin == "" {
		c.Server.AllowedOrigin = "*"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.FlowTTL == 0 {
		c.Redis.FlowTTL = time.Hour
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = "cipherhaven"
	}
	if c.Identity.Timeout == 0 {
		c.Identity.Timeout = 10 * time.Second
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = 24 * time.Hour
	}
	if c.SignUp.LockTTL == 0 {
		c.SignUp.LockTTL = 30 * time.Second
	}
	if c.SignUp.MetadataMaxAttempts == 0 {
		c.SignUp.MetadataMaxAttempts = 3
	}
	if c.SignUp.MetadataInitialBackoff == 0 {
		c.SignUp.MetadataInitialBackoff = 200 * time.Millisecond
	}
	if c.Generation.GeminiModel == "" {
		c.Generation.GeminiModel = "gemini-1.5-flash"
	}
	if c.Generation.ImageModel == "" {
		c.Generation.ImageModel = "imagen-3.0-generate-002"
	}
	if c.Generation.ImageCount == 0 {
		c.Generation.ImageCount = 4
	}
	if c.Generation.GroqBaseURL == "" {
		c.Generation.GroqBaseURL = "https://api.groq.com/openai/v1"
	}
	if c.Generation.GroqModel == "" {
		c.Generation.GroqModel = "gemma2-9b-it"
	}
	if c.Generation.Timeout == 0 {
		c.Generation.Timeout = 60 * time.Second
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "cipherhaven-images"
	}
	if c.Storage.URLExpiry == 0 {
		c.Storage.URLExpiry = 24 * time.Hour
	}
	if c.Sentry.Environment == "" {
		c.Sentry.Environment = "development"
	}
}

// Validate checks settings without which the service cannot start.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("config: database.url is required")
	}
	if c.Identity.BaseURL == "" {
		return fmt.Errorf("config: identity.base_url is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	return nil
}

func overrideString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
