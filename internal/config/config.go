package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	APIBaseURL  string
	WorkerCount int
	QueueSize   int
	Debug       bool
}

// Load reads the environment. Unset, blank or invalid values keep the default.
func Load() Config {
	return Config{
		Port:        stringEnv("PORT", "8080"),
		APIBaseURL:  stringEnv("API_BASE_URL", "https://dummyjson.com"),
		WorkerCount: positiveIntEnv("WORKER_COUNT", 3),
		QueueSize:   positiveIntEnv("QUEUE_SIZE", 64),
		Debug:       flagEnv("DEBUG"),
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func stringEnv(key, fallback string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return fallback
}

func positiveIntEnv(key string, fallback int) int {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// flagEnv treats any set value as true except an explicit false ("0", "false").
func flagEnv(key string) bool {
	v, ok := lookup(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}
