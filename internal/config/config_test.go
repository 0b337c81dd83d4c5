package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-okta-login/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewFromMap_Defaults(t *testing.T) {
	c, err := config.NewFromMap(map[string]string{})
	require.NoError(t, err)

	require.Equal(t, "Okta Login", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "info", c.GetLogLevel())
	require.Equal(t, ":8089", c.GetMockPort())
	require.Equal(t, 30*time.Second, c.GetHTTPTimeout())
	require.False(t, c.GetVerifyIDToken())
	require.False(t, c.GetLogHTTP())
	require.Empty(t, c.GetBaseURL())
}

func TestNewFromMap_Values(t *testing.T) {
	c, err := config.NewFromMap(map[string]string{
		"ENV":               "prod",
		"LOG_LEVEL":         "DEBUG",
		"MOCK_PORT":         "9000",
		"OKTA_BASE_URL":     "https://example.oktapreview.com/",
		"OKTA_CLIENT_ID":    "client-1",
		"OKTA_REDIRECT_URI": "app://callback",
		"OKTA_USERNAME":     "alice",
		"OKTA_PASSWORD":     "secret",
		"VERIFY_ID_TOKEN":   "true",
		"HTTP_TIMEOUT":      "5s",
		"LOG_HTTP":          "true",
	})
	require.NoError(t, err)

	require.Equal(t, "PROD", c.GetEnv())
	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, ":9000", c.GetMockPort())
	require.Equal(t, "https://example.oktapreview.com", c.GetBaseURL())
	require.Equal(t, "client-1", c.GetClientID())
	require.Equal(t, "app://callback", c.GetRedirectURI())
	require.Equal(t, "alice", c.GetUsername())
	require.Equal(t, "secret", c.GetPassword())
	require.True(t, c.GetVerifyIDToken())
	require.Equal(t, 5*time.Second, c.GetHTTPTimeout())
	require.True(t, c.GetLogHTTP())
}

func TestNewFromMap_InvalidDuration(t *testing.T) {
	_, err := config.NewFromMap(map[string]string{"HTTP_TIMEOUT": "soon"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "[config.New]")
}
