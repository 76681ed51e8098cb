package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DBHost           string
	DBPort           string
	DBUser           string
	DBPass           string
	DBName           string
	ServerPort       string
	RedisURL         string
	Env              string
	RedisTTL         time.Duration
	MinioURL         string
	MinioPublicURL   string
	MinioUser        string
	MinioPassword    string
	MinioBucket      string
	MaxFileSize      int64
	MaxFilesPerCard  int
	JWTSecret        string
	JWTTTL           time.Duration
	DirectorySources []string
	DirectoryTimeout time.Duration
	RecurrenceEvery  time.Duration
	DueSoonWindow    time.Duration
	AdminEmail       string
	AdminPassword    string
}

func LoadConfig() Config {
	ttlStr := getEnv("REDIS_TTL", "5m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 5 * time.Minute
	}

	maxFileSize := getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024) // 10MB default
	maxFilesPerCard := getEnvAsInt("MAX_FILES_PER_CARD", 5)

	return Config{
		DBHost:           getEnv("DB_HOST", "postgres"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPass:           getEnv("DB_PASSWORD", "password"),
		DBName:           getEnv("DB_NAME", "db_taskboard"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		RedisURL:         getEnv("REDIS_URL", "redis:6379"),
		Env:              getEnv("ENV", "dev"),
		RedisTTL:         ttl,
		MinioURL:         getEnv("MINIO_URL", "localhost:9000"),
		MinioPublicURL:   getEnv("MINIO_PUBLIC_URL", ""),
		MinioUser:        getEnv("MINIO_USER", "minioadmin"),
		MinioPassword:    getEnv("MINIO_PASSWORD", "minioadmin"),
		MinioBucket:      getEnv("MINIO_BUCKET", "taskboard-files"),
		MaxFileSize:      maxFileSize,
		MaxFilesPerCard:  maxFilesPerCard,
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTTTL:           getEnvAsDuration("JWT_TTL", 7*24*time.Hour),
		DirectorySources: getEnvAsList("DIRECTORY_SOURCES", nil),
		DirectoryTimeout: getEnvAsDuration("DIRECTORY_TIMEOUT", 3*time.Second),
		RecurrenceEvery:  getEnvAsDuration("RECURRENCE_CHECK_INTERVAL", 5*time.Minute),
		DueSoonWindow:    getEnvAsDuration("DUE_SOON_WINDOW", 24*time.Hour),
		AdminEmail:       getEnv("ADMIN_EMAIL", "admin@taskboard.local"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", "admin"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}
