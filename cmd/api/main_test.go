package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("ENVIRONMENT", "test")
	os.Setenv("LOG_LEVEL", "error")

	code := m.Run()

	os.Exit(code)
}

func TestInitLogger(t *testing.T) {
	t.Run("default json logger", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "info")
		os.Setenv("LOG_FORMAT", "json")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})

	t.Run("development console logger", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("LOG_FORMAT", "console")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})

	t.Run("invalid level", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "shouting")

		_, err := initLogger()
		require.Error(t, err)
		os.Setenv("LOG_LEVEL", "error")
	})
}
