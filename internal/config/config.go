package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	AdminUsername     string
	AdminPassword     string // plaintext fallback, hashed at startup
	AdminPasswordHash string // bcrypt hash, preferred over AdminPassword
	JWTSecret         string
}

type RateLimitConfig struct {
	LoginRequestsPerMinute int
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "admin123")
	viper.SetDefault("LOGIN_REQUESTS_PER_MINUTE", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			AdminUsername:     viper.GetString("ADMIN_USERNAME"),
			AdminPassword:     viper.GetString("ADMIN_PASSWORD"),
			AdminPasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
			JWTSecret:         viper.GetString("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			LoginRequestsPerMinute: viper.GetInt("LOGIN_REQUESTS_PER_MINUTE"),
		},
	}
}
