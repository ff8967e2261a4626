package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

type Config struct {
	ServerPort           string
	Environment          string
	FirebaseProject      string
	ServiceAccountJSON   string
	ServiceAccountPath   string
	StoreDriver          string
	MemorySeedFile       string
	RedisURL             string
	RedisPassword        string
	ProfileCacheTTL      time.Duration
	PushEndpoint         string
	PushTimeout          time.Duration
	SendMessagePerMinute int
	EnsureChatPerHour    int
	WebSocketSendBuffer  int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		FirebaseProject:      getEnv("FIREBASE_PROJECT_ID", ""),
		ServiceAccountJSON:   getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath:   getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StoreDriver:          getEnv("STORE_DRIVER", StoreFirestore),
		MemorySeedFile:       getEnv("MEMORY_SEED_FILE", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		ProfileCacheTTL:      time.Duration(getEnvAsInt64("PROFILE_CACHE_TTL_HOURS", 24*30)) * time.Hour,
		PushEndpoint:         getEnv("PUSH_ENDPOINT", "https://exp.host/--/api/v2/push/send"),
		PushTimeout:          time.Duration(getEnvAsInt64("PUSH_TIMEOUT_SECONDS", 10)) * time.Second,
		SendMessagePerMinute: int(getEnvAsInt64("SEND_MESSAGE_PER_MINUTE", 10)),
		EnsureChatPerHour:    int(getEnvAsInt64("ENSURE_CHAT_PER_HOUR", 30)),
		WebSocketSendBuffer:  int(getEnvAsInt64("WS_SEND_BUFFER", 256)),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
