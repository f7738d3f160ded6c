package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	URLExpiry  time.Duration
}

type Upload struct {
	MaxUploadSize       int64
	PlaceholderURL      string
	DirectUploadBlocked bool
	ProgressTick        time.Duration
	ProgressStep        int
}

type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	ServerPort           int
	MigrationsPath       string
	DB                   DB
	MinIO                MinIO
	Upload               Upload
	RateLimit            RateLimit
	Log                  Log
	JWTSecretKey         string
	BcryptCost           int
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// parseDuration accepts time.ParseDuration syntax plus a whole-day suffix ("7d").
func parseDuration(value string, fallback time.Duration) time.Duration {
	if n := len(value); n > 1 && value[n-1] == 'd' {
		if days, err := strconv.Atoi(value[:n-1]); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 10 * 1024 * 1024
	}
	return size
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "jcbcommunity"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "uploads"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		URLExpiry:  parseDuration(getEnv("MINIO_URL_EXPIRY", "7d"), 7*24*time.Hour),
	}
}

func LoadUpload() Upload {
	return Upload{
		MaxUploadSize:       parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
		PlaceholderURL:      getEnv("PLACEHOLDER_IMAGE_URL", "https://placehold.co/600x400?text=Image+unavailable"),
		DirectUploadBlocked: getEnvBool("DIRECT_UPLOAD_BLOCKED", true),
		ProgressTick:        parseDuration(getEnv("UPLOAD_PROGRESS_TICK", "200ms"), 200*time.Millisecond),
		ProgressStep:        getEnvAsInt("UPLOAD_PROGRESS_STEP", 5),
	}
}

func LoadRateLimit() RateLimit {
	return RateLimit{
		RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 5),
		Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		ServerPort:           getEnvAsInt("SERVER_PORT", 8080),
		MigrationsPath:       getEnv("MIGRATIONS_PATH", "migrations/001_create_tables.sql"),
		DB:                   LoadDB(),
		MinIO:                LoadMinIO(),
		Upload:               LoadUpload(),
		RateLimit:            LoadRateLimit(),
		Log:                  Log{Level: getEnv("LOG_LEVEL", "info"), Format: getEnv("LOG_FORMAT", "json")},
		JWTSecretKey:         getEnv("JWT_SECRET_KEY", ""),
		BcryptCost:           getEnvAsInt("BCRYPT_COST", 10),
		AccessTokenDuration:  parseDuration(getEnv("ACCESS_TOKEN_DURATION", "2h"), 2*time.Hour),
		RefreshTokenDuration: parseDuration(getEnv("REFRESH_TOKEN_DURATION", "168h"), 168*time.Hour),
	}
}
