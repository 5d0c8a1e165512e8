package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Flags(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WORKER_COUNT", "7")

	cmd := newServeCmd()

	port, err := cmd.Flags().GetString("port")
	require.NoError(t, err)
	assert.Equal(t, "9090", port, "env provides flag defaults")

	workers, err := cmd.Flags().GetInt("workers")
	require.NoError(t, err)
	assert.Equal(t, 7, workers)

	require.NoError(t, cmd.Flags().Parse([]string{"--api-url", "http://localhost:4000", "--queue-size", "8", "--debug"}))

	url, _ := cmd.Flags().GetString("api-url")
	assert.Equal(t, "http://localhost:4000", url)
	size, _ := cmd.Flags().GetInt("queue-size")
	assert.Equal(t, 8, size)
	debug, _ := cmd.Flags().GetBool("debug")
	assert.True(t, debug)
}

func TestRootCmd_HasServe(t *testing.T) {
	root := newRootCmd()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := newLogger(debug)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
