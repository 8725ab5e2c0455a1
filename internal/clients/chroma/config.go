package chroma

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	URL            string
	AuthToken      string
	Tenant         string
	Database       string
	TimeoutSeconds int
}

type ConfigErrorCode string

const (
	ConfigErrorMissingURL     ConfigErrorCode = "missing_url"
	ConfigErrorInvalidURL     ConfigErrorCode = "invalid_url"
	ConfigErrorInvalidTimeout ConfigErrorCode = "invalid_timeout"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid chroma config"
	}
	switch e.Code {
	case ConfigErrorMissingURL:
		return "CHROMA_URL is required"
	case ConfigErrorInvalidURL:
		return fmt.Sprintf(
			"invalid CHROMA_URL=%q; expected absolute URL like http://chroma:8000",
			e.Value,
		)
	case ConfigErrorInvalidTimeout:
		return fmt.Sprintf(
			"invalid CHROMA_TIMEOUT_SECONDS=%q; expected positive integer",
			e.Value,
		)
	default:
		return "invalid chroma config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func ResolveConfigFromEnv() (Config, error) {
	timeout := 30
	if raw := strings.TrimSpace(os.Getenv("CHROMA_TIMEOUT_SECONDS")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return Config{}, &ConfigError{
				Code:  ConfigErrorInvalidTimeout,
				Value: raw,
				Cause: err,
			}
		}
		timeout = parsed
	}

	cfg := Config{
		URL:            strings.TrimSpace(os.Getenv("CHROMA_URL")),
		AuthToken:      strings.TrimSpace(os.Getenv("CHROMA_AUTH_TOKEN")),
		Tenant:         strings.TrimSpace(os.Getenv("CHROMA_TENANT")),
		Database:       strings.TrimSpace(os.Getenv("CHROMA_DATABASE")),
		TimeoutSeconds: timeout,
	}
	return cfg, nil
}

func ValidateConfig(cfg Config) error {
	if cfg.URL == "" {
		return &ConfigError{Code: ConfigErrorMissingURL}
	}
	parsed, err := url.Parse(cfg.URL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return &ConfigError{Code: ConfigErrorInvalidURL, Value: cfg.URL, Cause: err}
	}
	return nil
}
