package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	httpapi "github.com/ubigger/sales-report/internal/api/http"
	"github.com/ubigger/sales-report/internal/auth/jwt"
	"github.com/ubigger/sales-report/internal/entity"
	"github.com/ubigger/sales-report/internal/ratelimit"
	"github.com/ubigger/sales-report/internal/report"
	"github.com/ubigger/sales-report/internal/store"
	"github.com/ubigger/sales-report/log"
)

// Config represents the global configuration for the service.
type Config struct {
	DB        store.Config     `mapstructure:"mysql"`
	Logger    log.Config       `mapstructure:"logger"`
	HTTP      httpapi.Config   `mapstructure:"http"`
	Auth      jwt.Config       `mapstructure:"auth"`
	Policy    entity.Policy    `mapstructure:"policy"`
	Report    report.Config    `mapstructure:"report"`
	RateLimit ratelimit.Config `mapstructure:"rate_limit"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
// Env vars use underscores and uppercase, e.g., MYSQL_DSN, AUTH_JWT_SECRET
// Nested config keys use double underscore, e.g., MYSQL__DSN for mysql.dsn
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))
	bindEnvVars(v)
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/config/sales-report")
		v.AddConfigPath("/etc/sales-report")
		_ = v.ReadInConfig()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	// The access policy is all or nothing: a config without a policy section
	// runs with the production policy.
	if !v.InConfig("policy") {
		config.Policy = entity.DefaultPolicy()
	}

	if config.DB.DSN == "" {
		mysqlHost := os.Getenv("MYSQL_HOST")
		mysqlPort := os.Getenv("MYSQL_PORT")
		mysqlUser := os.Getenv("MYSQL_USER")
		mysqlPassword := os.Getenv("MYSQL_PASSWORD")
		mysqlDatabase := os.Getenv("MYSQL_DATABASE")
		if mysqlHost != "" {
			if mysqlPort == "" {
				mysqlPort = "3306"
			}
			if mysqlUser != "" && mysqlPassword != "" && mysqlDatabase != "" {
				config.DB.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
					mysqlUser, mysqlPassword, mysqlHost, mysqlPort, mysqlDatabase)
			}
		}
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mysql.max_open_connections", 10)
	v.SetDefault("mysql.max_idle_connections", 5)
	v.SetDefault("http.port", "3001")
	v.SetDefault("http.timezone", "Asia/Shanghai")
	v.SetDefault("http.request_timeout", "30s")
	v.SetDefault("auth.jwt_ttl", "24h")
	v.SetDefault("policy.manager_role_code", entity.DefaultManagerRoleCode)
	v.SetDefault("report.default_cap", report.DefaultCap)
	v.SetDefault("report.unranked_rank", report.DefaultUnrankedRank)
	v.SetDefault("report.tier_size", report.DefaultTierSize)
	v.SetDefault("report.fixture_concurrency", report.DefaultFixtureConcurrency)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.login_reports", 120)
	v.SetDefault("rate_limit.ip_reports", 600)
}

// bindEnvVars binds environment variables to config keys
// This allows using both nested keys (MYSQL__DSN) and flat keys (MYSQL_DSN)
func bindEnvVars(v *viper.Viper) {
	// MySQL
	v.BindEnv("mysql.dsn", "MYSQL_DSN")
	v.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	v.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	v.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")
	v.BindEnv("mysql.tls_ca_path", "MYSQL_TLS_CA_PATH")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	v.BindEnv("http.port", "HTTP_PORT")
	v.BindEnv("http.address", "HTTP_ADDRESS")
	v.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")
	v.BindEnv("http.timezone", "HTTP_TIMEZONE")

	// Auth
	v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	v.BindEnv("auth.jwt_ttl", "AUTH_JWT_TTL")

	// Report
	v.BindEnv("report.default_cap", "REPORT_DEFAULT_CAP")
	v.BindEnv("report.fixture_concurrency", "REPORT_FIXTURE_CONCURRENCY")

	// Rate limit
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("rate_limit.login_reports", "RATE_LIMIT_LOGIN_REPORTS")
	v.BindEnv("rate_limit.ip_reports", "RATE_LIMIT_IP_REPORTS")
}
