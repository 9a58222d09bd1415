package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Upstream UpstreamConfig
	Sync     SyncConfig
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	ShutdownPeriod time.Duration `mapstructure:"shutdownPeriod"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"tokenTTL"`
}

// AdminConfig holds the single administrative login used by the dashboard.
// Both values come from the environment or the config file; there is no
// built-in default account.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// UpstreamConfig points at the cricket data provider. The token is supplied
// at deploy time and must never appear in source.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"baseURL"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

func LoadConfig(configPath string) (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables and config file")
	}

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.readTimeout", 5*time.Second)
	viper.SetDefault("server.writeTimeout", 10*time.Second)
	viper.SetDefault("server.idleTimeout", 120*time.Second)
	viper.SetDefault("server.shutdownPeriod", 15*time.Second)

	viper.SetDefault("database.maxOpenConns", 25)
	viper.SetDefault("database.maxIdleConns", 25)
	viper.SetDefault("database.connMaxLifetime", 5*time.Minute)

	viper.SetDefault("redis.db", 0)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)

	viper.SetDefault("jwt.issuer", "cricket-data-api")
	viper.SetDefault("jwt.tokenTTL", 12*time.Hour)

	viper.SetDefault("upstream.baseURL", "https://cricket.sportmonks.com/api/v2.0")
	viper.SetDefault("upstream.timeout", 30*time.Second)

	viper.SetDefault("sync.interval", 1*time.Hour)

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AllowEmptyEnv(true)

	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			log.Printf("Warning: could not read config file: %s. Error: %v\n", configPath, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required (set JWT_SECRET)")
	}
	if c.Admin.Username == "" || c.Admin.Password == "" {
		return fmt.Errorf("admin.username and admin.password are required (set ADMIN_USERNAME / ADMIN_PASSWORD)")
	}
	if c.Upstream.Token == "" {
		return fmt.Errorf("upstream.token is required (set UPSTREAM_TOKEN)")
	}
	return nil
}
