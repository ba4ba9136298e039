package config

import (
	"time"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/preview"
)

const (
	DefaultHost         = "0.0.0.0"
	DefaultPort         = 5000
	DefaultMaxBodyBytes = 10 << 20
)

func applyDefaults(cfg *Config) {
	s := &cfg.Server
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.NotFound == "" {
		s.NotFound = NotFound404
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.ReadHeaderTimeout <= 0 {
		s.ReadHeaderTimeout = 5 * time.Second
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 10 * time.Second
	}

	c := &cfg.Content
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.Key == "" {
		c.Key = content.StoreKey
	}
	if c.File == "" {
		c.File = "content.json"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "salonsite.db"
	}
	if c.Retry.Backoff == "" {
		c.Retry.Backoff = RetryBackoffExponential
	}
	if c.Retry.Initial <= 0 {
		c.Retry.Initial = 250 * time.Millisecond
	}
	if c.Retry.Max <= 0 {
		c.Retry.Max = 2 * time.Second
	}
	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = 3
	}

	n := &cfg.NATS
	if n.URL == "" {
		n.URL = "nats://127.0.0.1:4222"
	}
	if n.Bucket == "" {
		n.Bucket = "salonsite"
	}
	if n.PreviewSubject == "" {
		n.PreviewSubject = preview.DefaultSubject
	}

	if cfg.History.Dir == "" {
		cfg.History.Dir = "history"
	}

	e := &cfg.Events
	if e.Path == "" {
		e.Path = "salonsite-events.db"
	}
	if e.Retention <= 0 {
		e.Retention = 30 * 24 * time.Hour
	}
	if e.PruneInterval <= 0 {
		e.PruneInterval = time.Hour
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
