package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port            string
	AllowedOrigin   string
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SessionSecret   string
	SessionTTLHours int
	SecureCookies   bool
	TaxWithholdBase string
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	sessionTTL, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	if err != nil || sessionTTL < 1 {
		sessionTTL = 24
	}

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		SessionSecret:   strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTLHours: sessionTTL,
		SecureCookies:   getEnv("SECURE_COOKIES", "false") == "true",
		TaxWithholdBase: getEnv("TAX_WITHHOLD_BASE", "after_discount"),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
