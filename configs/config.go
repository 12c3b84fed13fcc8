package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort      string
	StorePort    string
	StoreBaseURL string
	StoreDBPath  string
	RedisHost    string
	RedisPort    int
	JWTSecret    string
	SessionKey   string
	SessionTTL   time.Duration
	CacheTTL     time.Duration
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	redisPort, err := strconv.Atoi(os.Getenv("REDIS_PORT"))
	if err != nil {
		redisPort = 6379
	}

	sessionTTL := 24 * time.Hour
	if hours, err := strconv.Atoi(os.Getenv("SESSION_TTL_HOURS")); err == nil && hours > 0 {
		sessionTTL = time.Duration(hours) * time.Hour
	}

	return Config{
		AppPort:      getEnv("APP_PORT", "3004"),
		StorePort:    getEnv("STORE_PORT", "4000"),
		StoreBaseURL: getEnv("STORE_BASE_URL", "http://localhost:4000"),
		StoreDBPath:  getEnv("STORE_DB_PATH", "db.json"),
		RedisHost:    getEnv("REDIS_HOST", "localhost"),
		RedisPort:    redisPort,
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		SessionKey:   getEnv("SESSION_KEY", "MySecretEncryptionKey!"),
		SessionTTL:   sessionTTL,
		CacheTTL:     time.Hour,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
