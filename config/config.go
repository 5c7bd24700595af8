// api/config/config.go
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server    ServerConfiguration
	Postgres  PostgresConfiguration
	Redis     RedisConfiguration
	Auth      AuthConfiguration
	Retention RetentionConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// PostgresConfiguration stores data for database connection
type PostgresConfiguration struct {
	DSN string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// AuthConfiguration stores the secrets and validity windows for the
// authentication flows. None of the secrets carry defaults; components
// that need a missing secret fail closed.
type AuthConfiguration struct {
	OtpSecret       string
	JwtKey          string
	JwtIssuer       string
	JwtAudience     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// RetentionConfiguration stores the data retention window for the sweeper
type RetentionConfiguration struct {
	Days     int
	Interval time.Duration
}

// Load reads the configuration file and environment and returns the
// resulting Configuration. The struct is handed to components at the
// composition root; nothing reads viper after startup.
func Load() (*Configuration, error) {
	viper.AddConfigPath("config")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	// Set default configurations. Secrets deliberately have no defaults.
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("postgres.dsn", "host=localhost user=rollcall dbname=rollcall sslmode=disable")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.dialTimeout", "5s")
	viper.SetDefault("redis.readTimeout", "500ms")
	viper.SetDefault("redis.writeTimeout", "500ms")
	viper.SetDefault("redis.poolSize", 50)
	viper.SetDefault("auth.accessTokenTTL", "15m")
	viper.SetDefault("auth.refreshTokenTTL", "1440h") // 60 days
	viper.SetDefault("retention.days", 365)
	viper.SetDefault("retention.interval", "24h")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return nil, err
		}
	}

	cfg := &Configuration{
		Server: ServerConfiguration{
			Port: viper.GetString("server.port"),
		},
		Postgres: PostgresConfiguration{
			DSN: viper.GetString("postgres.dsn"),
		},
		Redis: RedisConfiguration{
			Addr:         viper.GetString("redis.addr"),
			Password:     viper.GetString("redis.password"),
			DB:           viper.GetInt("redis.db"),
			DialTimeout:  viper.GetDuration("redis.dialTimeout"),
			ReadTimeout:  viper.GetDuration("redis.readTimeout"),
			WriteTimeout: viper.GetDuration("redis.writeTimeout"),
			PoolSize:     viper.GetInt("redis.poolSize"),
		},
		Auth: AuthConfiguration{
			OtpSecret:       viper.GetString("auth.otpSecret"),
			JwtKey:          viper.GetString("auth.jwtKey"),
			JwtIssuer:       viper.GetString("auth.jwtIssuer"),
			JwtAudience:     viper.GetString("auth.jwtAudience"),
			AccessTokenTTL:  viper.GetDuration("auth.accessTokenTTL"),
			RefreshTokenTTL: viper.GetDuration("auth.refreshTokenTTL"),
		},
		Retention: RetentionConfiguration{
			Days:     viper.GetInt("retention.days"),
			Interval: viper.GetDuration("retention.interval"),
		},
	}

	return cfg, nil
}

// Require returns an error naming the configuration key when its value is
// empty. Callers use it to fail closed instead of falling back to a weak
// default.
func Require(name, value string) error {
	if value == "" {
		return fmt.Errorf("missing required configuration: %s", name)
	}
	return nil
}
