package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// Storage. "file" keeps each partition as a JSON file under DataDir;
	// "postgres" keeps partitions as jsonb rows behind DBURL.
	StoreBackend string
	DataDir      string
	DBURL        string

	JWTSecret           string
	JWTAccessTTLMinutes int

	AllowedOrigins []string

	RateLimitPerMinute int
	MaxBodyBytes       int64

	// Report cache. Redis is used when RedisAddr is set, otherwise an
	// in-process cache.
	CacheTTLSeconds int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	OTLPEndpoint string
}

func Load() Config {
	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	return Config{
		Env:                 getEnv("APP_ENV", "dev"),
		Port:                getEnvInt("PORT", 8080),
		StoreBackend:        getEnv("STORE_BACKEND", "file"),
		DataDir:             getEnv("DATA_DIR", "./data"),
		DBURL:               buildDBURL(),
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 60),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "")),
		RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		CacheTTLSeconds:     getEnvInt("CACHE_TTL_SECONDS", 30),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		OTLPEndpoint:        getEnv("OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "fintracker")
	pass := getEnv("DB_PASSWORD", "fintracker")
	name := getEnv("DB_NAME", "fintracker")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	num, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return num
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}
