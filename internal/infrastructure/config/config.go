package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "paykript/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Auth     sharedConfig.AuthConfig     `mapstructure:"auth"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Tron     sharedConfig.TronConfig     `mapstructure:"tron"`
	Payment  sharedConfig.PaymentConfig  `mapstructure:"payment"`
	Monitor  sharedConfig.MonitorConfig  `mapstructure:"monitor"`
	Webhook  sharedConfig.WebhookConfig  `mapstructure:"webhook"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// If configPath is provided, it will be used instead of default search paths.
// Config file is optional - if not found, defaults and environment variables are used.
func Load(env string, configPath ...string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if len(configPath) > 0 && configPath[0] != "" {
		viper.SetConfigFile(configPath[0])
	} else {
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("../configs")
		viper.AddConfigPath("../../configs")
	}

	viper.SetEnvPrefix("PAYKRIPT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()
	bindFlatEnvAliases()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.base_url", "")
	viper.SetDefault("server.allowed_origins", []string{})
	viper.SetDefault("server.timezone", "UTC")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "paykript_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("auth.password.bcrypt_cost", 12)
	viper.SetDefault("auth.jwt.secret", "change-me-in-production")
	viper.SetDefault("auth.jwt.access_exp_minutes", 15)
	viper.SetDefault("auth.jwt.refresh_exp_days", 7)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("tron.grid_api_key", "")
	viper.SetDefault("tron.network", "mainnet")
	viper.SetDefault("tron.usdt_contract_address", "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t")
	viper.SetDefault("tron.required_confirmations", 1)

	viper.SetDefault("payment.timeout_minutes", 15)
	viper.SetDefault("payment.tolerance_usdt", 0.01)

	viper.SetDefault("monitor.tick_seconds", 30)
	viper.SetDefault("monitor.error_backoff_seconds", 60)
	viper.SetDefault("monitor.single_instance_lock", false)

	viper.SetDefault("webhook.secret", "change-me-in-production")
	viper.SetDefault("webhook.timeout_seconds", 30)
	viper.SetDefault("webhook.test_timeout_seconds", 15)
}

// bindFlatEnvAliases binds the legacy flat environment variable names named in
// the original service's deployment docs onto their nested viper keys, so an
// operator migrating an existing `.env` file does not have to rename anything.
func bindFlatEnvAliases() {
	aliases := map[string]string{
		"SECRET_KEY":                  "auth.jwt.secret",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "auth.jwt.access_exp_minutes",
		"ALLOWED_ORIGINS":             "server.allowed_origins",
		"TRON_GRID_API_KEY":           "tron.grid_api_key",
		"TRON_NETWORK":                "tron.network",
		"USDT_CONTRACT_ADDRESS":       "tron.usdt_contract_address",
		"WEBHOOK_SECRET":              "webhook.secret",
		"PAYMENT_TIMEOUT_MINUTES":     "payment.timeout_minutes",
		"REQUIRED_CONFIRMATIONS":      "tron.required_confirmations",
		"ENVIRONMENT":                 "server.mode",
		"LOG_LEVEL":                   "logger.level",
		"PORT":                        "server.port",
	}
	for env, key := range aliases {
		_ = viper.BindEnv(key, env)
	}
}
