package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount       int
	MaxQueueSize      int
	MaxConcurrentDocs int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Outline extraction
	MaxHeadings        int
	MaxHeadingsPerPage int
	MinTitleScore      float64
	MinConfidence      float64

	// Relevance scoring and selection
	TopK            int
	MaxPerDocument  int
	MinScore        float64
	MinSectionWords int
	ExcerptMaxChars int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCSIGHT_API_KEY"),

		WorkerCount:       envInt("WORKER_COUNT", 4),
		MaxQueueSize:      envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentDocs: envInt("MAX_CONCURRENT_DOCS", 5),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		MaxHeadings:        envInt("MAX_HEADINGS", 50),
		MaxHeadingsPerPage: envInt("MAX_HEADINGS_PER_PAGE", 5),
		MinTitleScore:      envFloat("MIN_TITLE_SCORE", 0.4),
		MinConfidence:      envFloat("MIN_HEADING_CONFIDENCE", 0.35),

		TopK:            envInt("TOP_K_SECTIONS", 5),
		MaxPerDocument:  envInt("MAX_PER_DOCUMENT", 3),
		MinScore:        envFloat("MIN_RELEVANCE_SCORE", 0.25),
		MinSectionWords: envInt("MIN_SECTION_WORDS", 10),
		ExcerptMaxChars: envInt("EXCERPT_MAX_CHARS", 500),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentDocs <= 0 {
		cfg.MaxConcurrentDocs = 5
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.MaxPerDocument <= 0 {
		cfg.MaxPerDocument = 3
	}
	if cfg.MinSectionWords <= 0 {
		cfg.MinSectionWords = 10
	}
	if cfg.ExcerptMaxChars <= 0 {
		cfg.ExcerptMaxChars = 500
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCSIGHT_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
