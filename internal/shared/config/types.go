package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type CookieConfig struct {
	Path     string `mapstructure:"path"`
	Domain   string `mapstructure:"domain"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
	RefreshExpDays   int    `mapstructure:"refresh_exp_days"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	JWT      JWTConfig      `mapstructure:"jwt"`
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

// TronConfig configures the upstream TRC-20 chain indexer (component 4.B).
type TronConfig struct {
	GridAPIKey          string `mapstructure:"grid_api_key"`
	Network             string `mapstructure:"network"` // mainnet|testnet
	USDTContractAddress string `mapstructure:"usdt_contract_address"`
	RequiredConfirmations int  `mapstructure:"required_confirmations"`
}

// PaymentConfig configures payment-request lifecycle defaults (component 4.F).
type PaymentConfig struct {
	TimeoutMinutes int     `mapstructure:"timeout_minutes"`
	ToleranceUSDT  float64 `mapstructure:"tolerance_usdt"`
}

// MonitorConfig configures the blockchain reconciliation loop (component 4.D).
type MonitorConfig struct {
	TickSeconds    int  `mapstructure:"tick_seconds"`
	ErrorBackoffSeconds int `mapstructure:"error_backoff_seconds"`
	SingleInstanceLock bool `mapstructure:"single_instance_lock"`
}

// WebhookConfig configures the signed-delivery dispatcher (component 4.E).
type WebhookConfig struct {
	Secret              string `mapstructure:"secret"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
	TestTimeoutSeconds  int    `mapstructure:"test_timeout_seconds"`
}
