// Package config loads the process configuration from the environment
// (§6), using godotenv for local .env convenience the same way the
// teacher does.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GRPC   GRPCConfig
	API    APIConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Queue  QueueConfig
	Input  StorageConfig
	Output StorageConfig
	OpenID OpenIDConfig
}

type GRPCConfig struct {
	Port string
}

type APIConfig struct {
	Port string
}

type MongoConfig struct {
	URI string
}

type RedisConfig struct {
	Host string
	Port string
	User string
	Pass string
	SSL  bool
}

type QueueConfig struct {
	Name         string
	ProcessCount int64
}

type StorageConfig struct {
	Provider        string // local | aws | gcp
	Bucket          string
	Subpath         string
	BasePath        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	CredentialsJSON string
}

type OpenIDConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
}

// Load reads the environment into a Config, with a `.env` file (if
// present) loaded first for local development — identical to the
// teacher's LoadConfig entrypoint, generalized to the full env surface.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		GRPC: GRPCConfig{Port: getEnv("GRPC_PORT", "9090")},
		API:  APIConfig{Port: getEnv("API_PORT", "3000")},
		Mongo: MongoConfig{
			URI: getEnv("MONGODB_URI", "mongodb://localhost:27017/updatedist"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
			User: getEnv("REDIS_USER", ""),
			Pass: getEnv("REDIS_PASS", ""),
			SSL:  getEnvAsBool("REDIS_SSL", false),
		},
		Queue: QueueConfig{
			Name:         getEnv("UPDATES_QUEUE_NAME", "updates"),
			ProcessCount: getEnvAsInt64("UPDATES_QUEUE_PROCESS", 1),
		},
		Input: StorageConfig{
			Provider:        getEnv("INPUT_STORAGE_PROVIDER", "local"),
			Bucket:          getEnv("INPUT_STORAGE_BUCKET", ""),
			Subpath:         getEnv("INPUT_STORAGE_SUBPATH", ""),
			BasePath:        getEnv("INPUT_STORAGE_BASE_PATH", "data/input"),
			Region:          getEnv("INPUT_STORAGE_REGION", ""),
			AccessKeyID:     getEnv("INPUT_STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("INPUT_STORAGE_SECRET_ACCESS_KEY", ""),
			CredentialsJSON: getEnv("INPUT_STORAGE_CREDENTIALS_JSON", ""),
		},
		Output: StorageConfig{
			Provider:        getEnv("OUTPUT_STORAGE_PROVIDER", "local"),
			Bucket:          getEnv("OUTPUT_STORAGE_BUCKET", ""),
			Subpath:         getEnv("OUTPUT_STORAGE_SUBPATH", ""),
			BasePath:        getEnv("OUTPUT_STORAGE_BASE_PATH", "data/output"),
			Region:          getEnv("OUTPUT_STORAGE_REGION", ""),
			AccessKeyID:     getEnv("OUTPUT_STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("OUTPUT_STORAGE_SECRET_ACCESS_KEY", ""),
			CredentialsJSON: getEnv("OUTPUT_STORAGE_CREDENTIALS_JSON", ""),
		},
		OpenID: OpenIDConfig{
			IssuerURL:    getEnv("OPENID_ISSUER_URL", ""),
			ClientID:     getEnv("OPENID_CLIENT_ID", ""),
			ClientSecret: getEnv("OPENID_CLIENT_SECRET", ""),
		},
	}
}

// RunsWorkers reports whether this process should lease and process
// jobs, per §6's "workers run iff ≥ 1".
func (c *Config) RunsWorkers() bool {
	return c.Queue.ProcessCount >= 1
}

// Addr is the host:port pair go-redis expects.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
