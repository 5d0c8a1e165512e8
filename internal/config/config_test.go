package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_BASE_URL", "WORKER_COUNT", "QUEUE_SIZE", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://dummyjson.com", cfg.APIBaseURL)
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, 64, cfg.QueueSize)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE_URL", "http://localhost:4000")
	t.Setenv("WORKER_COUNT", "7")
	t.Setenv("QUEUE_SIZE", "not-a-number")
	t.Setenv("DEBUG", "1")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:4000", cfg.APIBaseURL)
	assert.Equal(t, 7, cfg.WorkerCount)
	assert.Equal(t, 64, cfg.QueueSize, "invalid values fall back to the default")
	assert.True(t, cfg.Debug)
}

func TestLoad_TrimsAndParsesFlags(t *testing.T) {
	tests := []struct {
		debug string
		want  bool
	}{
		{debug: "true", want: true},
		{debug: "yes", want: true},
		{debug: "0", want: false},
		{debug: "false", want: false},
		{debug: "  ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.debug, func(t *testing.T) {
			t.Setenv("DEBUG", tt.debug)
			t.Setenv("PORT", " 7070 ")
			t.Setenv("QUEUE_SIZE", "-4")

			cfg := Load()

			assert.Equal(t, tt.want, cfg.Debug)
			assert.Equal(t, "7070", cfg.Port)
			assert.Equal(t, 64, cfg.QueueSize)
		})
	}
}
