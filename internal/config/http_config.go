package config

import "time"

type HTTPConfig interface {
	GetHTTPTimeout() time.Duration
	GetLogHTTP() bool
}

type HTTP struct {
	Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	LogHTTP bool          `env:"LOG_HTTP"     envDefault:"false"`
}

var _ HTTPConfig = HTTP{}

func (h HTTP) GetHTTPTimeout() time.Duration {
	if h.Timeout <= 0 {
		return 30 * time.Second
	}
	return h.Timeout
}

// GetLogHTTP reports whether each request/response pair is logged (with secrets redacted).
func (h HTTP) GetLogHTTP() bool {
	return h.LogHTTP
}
