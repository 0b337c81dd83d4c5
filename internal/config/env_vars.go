package config

import (
	"fmt"
	"strings"
)

type EnvVars struct {
	AppName  string `env:"APP_NAME"  envDefault:"Okta Login"`
	Env      string `env:"ENV"       envDefault:"DEV"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	MockPort string `env:"MOCK_PORT" envDefault:"8089"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(e.LogLevel)
}

// GetMockPort returns the listen address for the mock authorization server, e.g. ":8089".
func (e EnvVars) GetMockPort() string {
	port := e.MockPort
	if port == "" {
		port = "8089"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}
