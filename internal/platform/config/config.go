package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName string
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PracticeAPIBaseURL   string
	PracticeRecentLimit  int
	VerifyLockTTLSeconds int

	// Default weight for a completed submission without an explicit score.
	// The product has shipped both 10 and 1 at different times; treat as
	// unresolved and keep it configurable.
	SubmissionDefaultScore int

	// Whether leaderboards list group members with no completed submissions
	// at score 0 or omit them entirely.
	LeaderboardIncludeZeroMembers bool

	SweepIntervalMinutes int

	SendgridAPIKey string
	MailFrom       string
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		AppName:    getEnv("APP_NAME", "StudyHub"),
		APIPort:    getEnv("API_PORT", "8080"),
		JWTKey:     []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:     time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "studyhub_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		PracticeAPIBaseURL:   getEnv("PRACTICE_API_BASE_URL", "https://practice.example.com"),
		PracticeRecentLimit:  getEnvAsInt("PRACTICE_RECENT_LIMIT", 20),
		VerifyLockTTLSeconds: getEnvAsInt("VERIFY_LOCK_TTL_SECONDS", 60),

		SubmissionDefaultScore:        getEnvAsInt("SUBMISSION_DEFAULT_SCORE", 10),
		LeaderboardIncludeZeroMembers: getEnvAsBool("LEADERBOARD_INCLUDE_ZERO_MEMBERS", false),

		SweepIntervalMinutes: getEnvAsInt("SWEEP_INTERVAL_MINUTES", 10),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "noreply@studyhub.local"),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
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

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
