package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"wellness/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Env  string
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string

	OpenAIAPIKey          string
	OpenAIOrganization    string
	OpenAIProject         string
	OpenAIBaseURL         string
	OpenAIModel           string
	OpenAIModerationModel string
	ModerationPolicy      string

	AWSRegion     string
	SESEmail      string
	S3Bucket      string
	S3Region      string
	CloudFrontURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ItemCacheTTL  time.Duration

	LogLevel           string
	CORSAllowedOrigins []string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine in containers
	_ = godotenv.Load()

	cfg := &Config{
		Env:  getEnv("APP_ENV", "production"),
		Port: getEnv("PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIOrganization:    os.Getenv("OPENAI_ORGANIZATION"),
		OpenAIProject:         os.Getenv("OPENAI_PROJECT"),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIModerationModel: getEnv("OPENAI_MODERATION_MODEL", "omni-moderation-latest"),
		ModerationPolicy:      getEnv("MODERATION_POLICY", "gate-by-subject-type"),

		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		SESEmail:      os.Getenv("SES_EMAIL"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      os.Getenv("S3_REGION"),
		CloudFrontURL: os.Getenv("CLOUDFRONT_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	if cfg.S3Region == "" {
		cfg.S3Region = cfg.AWSRegion
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.ItemCacheTTL, err = time.ParseDuration(getEnv("RESOLVED_ITEM_CACHE_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid RESOLVED_ITEM_CACHE_TTL: %w", err)
	}

	for _, o := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// InitDB connects to Postgres and migrates every model. TranslateError is on
// so unique violations surface as gorm.ErrDuplicatedKey.
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.UserPreference{},
		&models.Verification{},
		&models.VerificationStatus{},
		&models.FoodItem{},
		&models.ExerciseActivity{},
		&models.WellnessData{},
		&models.FoodEntry{},
		&models.ExerciseEntry{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}
	return nil
}

func NewLogger(cfg *Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Env == "development" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
