package config

import (
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Captcha   CaptchaConfig
	Mail      MailConfig
	CORS      CORSConfig
	Admin     AdminConfig
	Projects  ProjectsConfig
	App       AppConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"5000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"16384"`
	// TrustedProxies lists the proxy addresses whose X-Forwarded-For is
	// honoured for the client address; empty trusts none.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// DatabaseConfig with an empty URL keeps submissions in memory (development only).
type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	MaxConns int    `env:"DB_MAX_CONNS" envDefault:"10"`
}

// RedisConfig is optional; an empty URL keeps rate-limit counters in process.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

type RateLimitConfig struct {
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	Max    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
}

// CaptchaConfig enables human verification when SecretKey is set.
type CaptchaConfig struct {
	SecretKey string  `env:"RECAPTCHA_SECRET_KEY"`
	MinScore  float64 `env:"RECAPTCHA_MIN_SCORE" envDefault:"0.5"`
	Action    string  `env:"RECAPTCHA_ACTION" envDefault:"contact"`
	VerifyURL string  `env:"RECAPTCHA_VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
}

func (c CaptchaConfig) Enabled() bool {
	return c.SecretKey != ""
}

type MailConfig struct {
	Transport     string        `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	SMTPHost      string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort      int           `env:"SMTP_PORT" envDefault:"587"`
	User          string        `env:"EMAIL_USER"`
	Password      string        `env:"EMAIL_PASS"`
	Receiver      string        `env:"EMAIL_RECEIVER"`
	FromName      string        `env:"MAIL_FROM_NAME" envDefault:"Contact Form"`
	AWSRegion     string        `env:"AWS_REGION" envDefault:"us-east-1"`
	Workers       int           `env:"MAIL_WORKERS" envDefault:"3"`
	QueueSize     int           `env:"MAIL_QUEUE_SIZE" envDefault:"100"`
	MaxAttempts   int           `env:"MAIL_MAX_ATTEMPTS" envDefault:"3"`
	RetryDelay    time.Duration `env:"MAIL_RETRY_DELAY" envDefault:"2s"`
	RatePerMinute int           `env:"MAIL_RATE_PER_MINUTE" envDefault:"30"`
}

const (
	MailTransportSMTP = "smtp"
	MailTransportSES  = "ses"
	MailTransportLog  = "log"
)

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,https://portfolio-mern-gct8.vercel.app"`
	OriginPatterns []string `env:"CORS_ALLOWED_ORIGIN_PATTERNS" envSeparator:"," envDefault:"^https://portfolio-mern-[a-z0-9-]+\\.vercel\\.app$"`
}

// CompiledPatterns returns the origin patterns as regular expressions.
func (c CORSConfig) CompiledPatterns() ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(c.OriginPatterns))
	for _, p := range c.OriginPatterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid origin pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

type AdminConfig struct {
	AuthMode          string   `env:"ADMIN_AUTH_MODE" envDefault:"apikey"`
	APIKey            string   `env:"ADMIN_API_KEY"`
	Emails            []string `env:"ADMIN_EMAILS" envSeparator:","`
	FirebaseProjectID string   `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredsPath string   `env:"FIREBASE_CREDENTIALS_PATH"`
}

const (
	AdminAuthAPIKey   = "apikey"
	AdminAuthFirebase = "firebase"
	AdminAuthNone     = "none"
)

type ProjectsConfig struct {
	Source string `env:"PROJECTS_SOURCE" envDefault:"static"`
}

type AppConfig struct {
	Name        string `env:"SERVICE_NAME" envDefault:"portfolio-backend"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile     string `env:"LOG_FILE"`
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.URL == "" && c.App.IsProduction() {
		return fmt.Errorf("DATABASE_URL is required in production")
	}

	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.RateLimit.Max <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}

	if c.Captcha.Enabled() && (c.Captcha.MinScore < 0 || c.Captcha.MinScore > 1) {
		return fmt.Errorf("RECAPTCHA_MIN_SCORE must be within [0,1]")
	}

	switch c.Mail.Transport {
	case MailTransportSMTP:
		if c.Mail.User == "" || c.Mail.Password == "" {
			return fmt.Errorf("EMAIL_USER and EMAIL_PASS are required for smtp transport")
		}
	case MailTransportSES:
		if c.Mail.User == "" {
			return fmt.Errorf("EMAIL_USER is required as sender for ses transport")
		}
	case MailTransportLog:
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.Mail.Transport)
	}
	if c.Mail.Transport != MailTransportLog && c.Mail.Receiver == "" {
		return fmt.Errorf("EMAIL_RECEIVER is required")
	}
	if c.Mail.Workers <= 0 || c.Mail.MaxAttempts <= 0 || c.Mail.QueueSize <= 0 {
		return fmt.Errorf("MAIL_WORKERS, MAIL_MAX_ATTEMPTS and MAIL_QUEUE_SIZE must be positive")
	}

	switch c.Admin.AuthMode {
	case AdminAuthAPIKey:
		if c.Admin.APIKey == "" {
			return fmt.Errorf("ADMIN_API_KEY is required when ADMIN_AUTH_MODE=apikey")
		}
	case AdminAuthFirebase:
		if c.Admin.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required when ADMIN_AUTH_MODE=firebase")
		}
		if len(c.Admin.Emails) == 0 {
			return fmt.Errorf("ADMIN_EMAILS is required when ADMIN_AUTH_MODE=firebase")
		}
	case AdminAuthNone:
	default:
		return fmt.Errorf("unknown ADMIN_AUTH_MODE %q", c.Admin.AuthMode)
	}

	switch c.Projects.Source {
	case "static":
	case "db":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when PROJECTS_SOURCE=db")
		}
	default:
		return fmt.Errorf("unknown PROJECTS_SOURCE %q", c.Projects.Source)
	}

	if _, err := c.CORS.CompiledPatterns(); err != nil {
		return err
	}

	return nil
}
