package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const DefaultJWTSecret = "change-me"

const debugMode = "debug"

type Config struct {
	AppPort    string
	AppMode    string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	// JWTSecret signs and verifies tokens. Must be changed outside debug mode.
	JWTSecret string
	// JWTExpiryMin is the token lifetime in minutes; 0 issues tokens without an exp claim.
	JWTExpiryMin int
	// BcryptWorkFactor is the bcrypt cost used when hashing new passwords.
	BcryptWorkFactor int

	// RedisAddr enables rate limiting and profile caching when set.
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	AuthRateLimit     int
	AuthRateWindowSec int
	UserCacheTTLSec   int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		AppMode:           getEnv("APP_MODE", debugMode),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "messagely"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		JWTSecret:         getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiryMin:      getEnvAsInt("JWT_EXPIRY_MIN", 0),
		BcryptWorkFactor:  getEnvAsInt("BCRYPT_WORK_FACTOR", 12),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		AuthRateLimit:     getEnvAsInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindowSec: getEnvAsInt("AUTH_RATE_WINDOW_SEC", 60),
		UserCacheTTLSec:   getEnvAsInt("USER_CACHE_TTL_SEC", 300),
	}
}

// Validate checks the fields the services cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.JWTSecret == DefaultJWTSecret && c.AppMode != debugMode {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be changed outside %s mode", debugMode))
	}
	if c.BcryptWorkFactor < bcrypt.MinCost || c.BcryptWorkFactor > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_WORK_FACTOR must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.JWTExpiryMin < 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_MIN must not be negative"))
	}
	if c.RedisAddr != "" && (c.AuthRateLimit <= 0 || c.AuthRateWindowSec <= 0) {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT and AUTH_RATE_WINDOW_SEC must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiryMin) * time.Minute
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
