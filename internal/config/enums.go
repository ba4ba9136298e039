package config

import "git.home.luguber.info/inful/salonsite/internal/foundation"

// Backend names a content store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
	BackendNATS   Backend = "nats"
	BackendRemote Backend = "remote"
)

var backendNormalizer = foundation.NewNormalizer(map[string]Backend{
	"file":      BackendFile,
	"json":      BackendFile,
	"memory":    BackendMemory,
	"mem":       BackendMemory,
	"sqlite":    BackendSQLite,
	"sqlite3":   BackendSQLite,
	"nats":      BackendNATS,
	"jetstream": BackendNATS,
	"remote":    BackendRemote,
	"http":      BackendRemote,
}, "")

// NotFoundMode decides what unmatched paths serve.
type NotFoundMode string

const (
	NotFound404   NotFoundMode = "404"
	NotFoundIndex NotFoundMode = "index"
)

var notFoundNormalizer = foundation.NewNormalizer(map[string]NotFoundMode{
	"404":   NotFound404,
	"index": NotFoundIndex,
	"spa":   NotFoundIndex,
}, "")

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = foundation.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = foundation.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// RetryBackoffMode selects how the delay between save attempts grows.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffNormalizer = foundation.NewNormalizer(map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"constant":    RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
	"exp":         RetryBackoffExponential,
}, "")

// NormalizeBackend returns the backend raw names, or "" when it names none.
func NormalizeBackend(raw string) Backend { return backendNormalizer.Normalize(raw) }

func NormalizeLogLevel(raw string) LogLevel   { return logLevelNormalizer.Normalize(raw) }
func NormalizeLogFormat(raw string) LogFormat { return logFormatNormalizer.Normalize(raw) }

// normalize case-folds enumerations. Unknown non-empty values are kept so
// validation can name them.
func normalize(cfg *Config) {
	if cfg.Content.Backend != "" {
		if b := backendNormalizer.Normalize(string(cfg.Content.Backend)); b != "" {
			cfg.Content.Backend = b
		}
	}
	if cfg.Server.NotFound != "" {
		if m := notFoundNormalizer.Normalize(string(cfg.Server.NotFound)); m != "" {
			cfg.Server.NotFound = m
		}
	}
	if cfg.Content.Retry.Backoff != "" {
		if m := retryBackoffNormalizer.Normalize(string(cfg.Content.Retry.Backoff)); m != "" {
			cfg.Content.Retry.Backoff = m
		}
	}
	if cfg.Logging.Level != "" {
		cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	}
	if cfg.Logging.Format != "" {
		cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	}
}
