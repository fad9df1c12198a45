package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	BaseURL   string
	DSN       string
	JWTSecret string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioPublicURL string
	MinioUseSSL    bool

	RedisAddr     string
	RedisPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	UploadPath string
}

func loadConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using environment")
	}

	return Config{
		Port:      getenv("PORT", "3000"),
		BaseURL:   getenv("BASE_URL", "http://localhost:3000"),
		DSN:       getenv("DSN", "root:123456@tcp(127.0.0.1:3306)/echosphere?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret: getenv("JWT_SECRET", "my_secret_key"),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", "admin"),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", "password123"),
		MinioBucket:    getenv("MINIO_BUCKET", "echosphere"),
		MinioPublicURL: getenv("MINIO_PUBLIC_URL", "http://127.0.0.1:9000"),
		MinioUseSSL:    getenvBool("MINIO_USE_SSL", false),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		SMTPHost:     getenv("SMTP_HOST", "localhost"),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUser:     getenv("SMTP_USER", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		MailFrom:     getenv("MAIL_FROM", "no-reply@echosphere.local"),

		UploadPath: getenv("UPLOAD_PATH", os.TempDir()),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
