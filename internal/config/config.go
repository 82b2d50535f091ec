package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Embedding EmbeddingConfig
	Matching  MatchingConfig
	Storage   StorageConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// EmbeddingConfig selects and bounds the embedding provider.
// Provider is "http" (in-house AI sidecar) or "gemini".
type EmbeddingConfig struct {
	Provider     string
	ServiceURL   string
	GeminiAPIKey string
	Timeout      time.Duration
	MaxTextChars int
	VectorSize   int
}

// MatchingConfig lifts the per-call-site thresholds and limits out of the
// engine so deployments can tune them without touching matching logic.
type MatchingConfig struct {
	VectorBackend string // "qdrant" or "memory"

	DefaultMinScore float64
	JobMinScore     float64
	SimilarMinScore float64

	DefaultLimit        int
	JobMatchLimit       int
	SimilarLimit        int
	RecommendationLimit int
	MaxLimit            int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "talent_matcher"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "candidate_profiles"),
		},
		Embedding: EmbeddingConfig{
			Provider:     getEnv("EMBEDDING_PROVIDER", "http"),
			ServiceURL:   getEnv("AI_SERVICE_URL", "http://127.0.0.1:8000"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Timeout:      getEnvAsDuration("EMBEDDING_TIMEOUT", "10s"),
			MaxTextChars: getEnvAsInt("EMBEDDING_MAX_TEXT_CHARS", 8000),
			VectorSize:   getEnvAsInt("EMBEDDING_VECTOR_SIZE", 768),
		},
		Matching: MatchingConfig{
			VectorBackend:       getEnv("VECTOR_BACKEND", "qdrant"),
			DefaultMinScore:     getEnvAsFloat("MATCH_MIN_SCORE", 0.5),
			JobMinScore:         getEnvAsFloat("MATCH_JOB_MIN_SCORE", 0.4),
			SimilarMinScore:     getEnvAsFloat("MATCH_SIMILAR_MIN_SCORE", 0.6),
			DefaultLimit:        getEnvAsInt("MATCH_DEFAULT_LIMIT", 20),
			JobMatchLimit:       getEnvAsInt("MATCH_JOB_LIMIT", 50),
			SimilarLimit:        getEnvAsInt("MATCH_SIMILAR_LIMIT", 10),
			RecommendationLimit: getEnvAsInt("MATCH_RECOMMENDATION_LIMIT", 25),
			MaxLimit:            getEnvAsInt("MATCH_MAX_LIMIT", 200),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 3),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "30s"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
