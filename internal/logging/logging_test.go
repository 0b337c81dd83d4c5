package logging_test

import (
	"bytes"
	"testing"

	"github.com/jrsteele09/go-okta-login/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestConfigureWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("json outside DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logging.ConfigureWriter(&buf, "debug", "PROD")
		log.Debug().Str("stage", "ready").Msg("hello")

		require.Contains(t, buf.String(), `"stage":"ready"`)
		require.Contains(t, buf.String(), `"message":"hello"`)
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logging.ConfigureWriter(&buf, "warn", "PROD")
		log.Info().Msg("dropped")
		require.Empty(t, buf.String())
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logging.ConfigureWriter(&buf, "chatty", "PROD")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("console writer in DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logging.ConfigureWriter(&buf, "info", "DEV")
		log.Info().Msg("pretty")
		require.Contains(t, buf.String(), "pretty")
		require.NotContains(t, buf.String(), `"message"`)
	})
}
