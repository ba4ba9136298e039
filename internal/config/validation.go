package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// Validate checks a loaded configuration and reports every problem at once.
func Validate(cfg *Config) error {
	var problems []string
	add := func(format string, args ...any) { problems = append(problems, fmt.Sprintf(format, args...)) }

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		add("server.port %d out of range", cfg.Server.Port)
	}
	switch cfg.Server.NotFound {
	case NotFound404, NotFoundIndex:
	default:
		add("server.not_found %q (expected one of %s)", cfg.Server.NotFound, strings.Join(notFoundNormalizer.Keys(), ", "))
	}

	switch cfg.Content.Backend {
	case BackendFile:
		if cfg.Content.File == "" {
			add("content.file is required for the file backend")
		}
	case BackendMemory:
	case BackendSQLite:
		if cfg.Content.SQLitePath == "" {
			add("content.sqlite_path is required for the sqlite backend")
		}
	case BackendNATS:
		if cfg.NATS.URL == "" {
			add("nats.url is required for the nats backend")
		}
	case BackendRemote:
		u, err := url.Parse(cfg.Content.RemoteURL)
		if cfg.Content.RemoteURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
			add("content.remote_url %q must be an absolute URL", cfg.Content.RemoteURL)
		}
	default:
		add("content.backend %q (expected one of %s)", cfg.Content.Backend, strings.Join(backendNormalizer.Keys(), ", "))
	}
	switch cfg.Content.Retry.Backoff {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
	default:
		add("content.retry.backoff %q (expected one of %s)", cfg.Content.Retry.Backoff, strings.Join(retryBackoffNormalizer.Keys(), ", "))
	}
	if cfg.Content.Retry.Initial > cfg.Content.Retry.Max {
		add("content.retry.initial %s exceeds content.retry.max %s", cfg.Content.Retry.Initial, cfg.Content.Retry.Max)
	}
	if cfg.Content.Watch && cfg.Content.Backend != BackendFile {
		add("content.watch requires the file backend")
	}
	if cfg.NATS.Preview && cfg.NATS.PreviewSubject == "" {
		add("nats.preview_subject is required when nats.preview is enabled")
	}
	if cfg.History.Enabled && cfg.History.Dir == "" {
		add("history.dir is required when history is enabled")
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		add("metrics.path %q must start with /", cfg.Metrics.Path)
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.ConfigError("invalid configuration: " + strings.Join(problems, "; ")).
		WithContext("problems", len(problems)).Build()
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
