package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env  string
	Port string

	WikiAPIURL       string
	WikiTimeout      int
	WikiRateLimit    float64
	WikiBatchSize    int
	TopicLinkLimit   int
	TopicContinues   int
	LinkedContinues  int
	ViewMinimum      int
	MaxCandidates    int
	SearchMinWords   int

	CompletionURL       string
	CompletionModel     string
	CompletionMaxTokens int
	CompletionTimeout   int
	OpenAIAPIKey        string

	RedisURL        string
	GraphPrefix     string
	GraphCacheSize  int
	MirrorQueueSize int
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		WikiAPIURL:      getEnv("WIKI_API_URL", "https://en.wikipedia.org/w/api.php"),
		WikiTimeout:     getEnvInt("WIKI_TIMEOUT", 30),
		WikiRateLimit:   getEnvFloat("WIKI_RATE_LIMIT", 10),
		WikiBatchSize:   getEnvInt("WIKI_BATCH_SIZE", 50),
		TopicLinkLimit:  getEnvInt("TOPIC_LINK_LIMIT", 300),
		TopicContinues:  getEnvInt("TOPIC_MAX_CONTINUE", 20),
		LinkedContinues: getEnvInt("LINKED_MAX_CONTINUE", 5),
		ViewMinimum:     getEnvInt("PREREQ_VIEW_MINIMUM", 5000),
		MaxCandidates:   getEnvInt("PREREQ_MAX_CANDIDATES", 100),
		SearchMinWords:  getEnvInt("SEARCH_MIN_WORDCOUNT", 3000),

		CompletionURL:       getEnv("COMPLETION_API_URL", "https://api.openai.com"),
		CompletionModel:     getEnv("COMPLETION_MODEL", "text-davinci-003"),
		CompletionMaxTokens: getEnvInt("COMPLETION_MAX_TOKENS", 256),
		CompletionTimeout:   getEnvInt("COMPLETION_TIMEOUT", 60),
		OpenAIAPIKey:        getSecret("OPENAI_API_KEY", "OPENAI_API_KEY_FILE", ""),

		RedisURL:        getEnv("REDIS_URL", ""),
		GraphPrefix:     getEnv("GRAPH_PREFIX", "prereq"),
		GraphCacheSize:  getEnvInt("GRAPH_CACHE_SIZE", 512),
		MirrorQueueSize: getEnvInt("MIRROR_QUEUE_SIZE", 64),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
