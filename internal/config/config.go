package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Redis          Redis          `mapstructure:",squash"`
	Store          Store          `mapstructure:",squash"`
	Meta           Meta           `mapstructure:",squash"`
	Webhook        Webhook        `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	ReportDispatch ReportDispatch `mapstructure:",squash"`
	SecretKey      string         `mapstructure:"secret_key"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Redis struct {
	Addr      string `mapstructure:"redis_addr"`
	Password  string `mapstructure:"redis_password"`
	DB        int    `mapstructure:"redis_db"`
	KeyPrefix string `mapstructure:"redis_key_prefix"`
}

type Store struct {
	Driver string `mapstructure:"store_driver"`
}

type Meta struct {
	BaseURL           string        `mapstructure:"meta_base_url"`
	URL               string        `mapstructure:"meta_url"`
	Version           string        `mapstructure:"meta_version"`
	AccessToken       string        `mapstructure:"meta_access_token"`
	AppID             string        `mapstructure:"meta_app_id"`
	AppSecret         string        `mapstructure:"meta_app_secret"`
	TokenAutoRefresh  bool          `mapstructure:"meta_token_auto_refresh"`
	RequestTimeout    time.Duration `mapstructure:"meta_request_timeout"`
	RequestsPerSecond float64       `mapstructure:"meta_requests_per_second"`
	TokenExpiresAt    time.Time     `mapstructure:"-"`
}

type Webhook struct {
	Timeout time.Duration `mapstructure:"webhook_timeout"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type ReportDispatch struct {
	CronSchedule       string        `mapstructure:"report_dispatch_cron"`
	Enabled            bool          `mapstructure:"report_dispatch_enabled"`
	MaxConcurrentJobs  int           `mapstructure:"report_dispatch_max_concurrent_jobs"`
	IdempotencyEnabled bool          `mapstructure:"report_dispatch_idempotency_enabled"`
	IdempotencyTTL     time.Duration `mapstructure:"report_dispatch_idempotency_ttl"`
	DashboardBaseURL   string        `mapstructure:"report_dashboard_base_url"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/dashmilo?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_KEY_PREFIX", "dashmilo")

	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_URL", "https://graph.facebook.com/v22.0")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_ACCESS_TOKEN", "")
	viper.SetDefault("META_APP_ID", "")
	viper.SetDefault("META_APP_SECRET", "")
	viper.SetDefault("META_TOKEN_AUTO_REFRESH", false)
	viper.SetDefault("META_REQUEST_TIMEOUT", "20s")
	viper.SetDefault("META_REQUESTS_PER_SECOND", 4)

	viper.SetDefault("WEBHOOK_TIMEOUT", "10s")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_SECRET", "")

	// Disparo de relatórios: a cada hora cheia, no fuso UTC-3
	viper.SetDefault("REPORT_DISPATCH_CRON", "0 * * * *")
	viper.SetDefault("REPORT_DISPATCH_ENABLED", false)
	viper.SetDefault("REPORT_DISPATCH_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("REPORT_DISPATCH_IDEMPOTENCY_ENABLED", true)
	viper.SetDefault("REPORT_DISPATCH_IDEMPOTENCY_TTL", "2h")
	viper.SetDefault("REPORT_DASHBOARD_BASE_URL", "")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize preenche os campos derivados
func (c *Config) normalize() {
	c.Meta.BaseURL = strings.TrimRight(c.Meta.BaseURL, "/")
	c.Meta.URL = fmt.Sprintf("%s/%s", c.Meta.BaseURL, c.Meta.Version)

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))

	if c.ReportDispatch.MaxConcurrentJobs <= 0 {
		c.ReportDispatch.MaxConcurrentJobs = 1
	}
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverRedis:
	default:
		return fmt.Errorf("config: store_driver inválido %q (use %s ou %s)", c.Store.Driver, StoreDriverPostgres, StoreDriverRedis)
	}

	if c.Meta.RequestTimeout <= 0 {
		return fmt.Errorf("config: meta_request_timeout deve ser positivo")
	}

	if c.Webhook.Timeout <= 0 {
		return fmt.Errorf("config: webhook_timeout deve ser positivo")
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
