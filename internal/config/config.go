package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	OktaConfig
	HTTPConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetMockPort() string
}

type OktaConfig interface {
	GetBaseURL() string
	GetClientID() string
	GetRedirectURI() string
	GetUsername() string
	GetPassword() string
	GetVerifyIDToken() bool
}

type mainConfig struct {
	EnvVars
	Okta
	HTTP
}

// New reads the configuration from the process environment.
func New() (Config, error) {
	return parse(env.Options{})
}

// NewFromMap reads the configuration from vars instead of the process environment.
func NewFromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var c mainConfig
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, fmt.Errorf("[config.New] parse env: %w", err)
	}
	return c, nil
}
