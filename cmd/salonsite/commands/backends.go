package commands

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/salonsite/internal/config"
	"git.home.luguber.info/inful/salonsite/internal/contentstore"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
	"git.home.luguber.info/inful/salonsite/internal/metrics"
	"git.home.luguber.info/inful/salonsite/internal/natsbus"
	"git.home.luguber.info/inful/salonsite/internal/retry"
)

// connectionName identifies salonsite connections in NATS server monitoring.
const connectionName = "salonsite"

// resources collects what a command opened so it can be released in reverse order.
type resources struct {
	closers []func()
	bus     *natsbus.Client
}

func (r *resources) onClose(fn func()) { r.closers = append(r.closers, fn) }

func (r *resources) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// natsBus connects on first use and shares the connection between the content
// backend and the preview transport.
func (r *resources) natsBus(cfg *config.Config) (*natsbus.Client, error) {
	if r.bus != nil {
		return r.bus, nil
	}
	bus, err := natsbus.Connect(cfg.NATS.URL, connectionName)
	if err != nil {
		return nil, err
	}
	r.bus = bus
	r.onClose(bus.Close)
	return bus, nil
}

// openStore builds the configured content backend.
func (r *resources) openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) (contentstore.Store, error) {
	opts := []contentstore.Option{
		contentstore.WithLogger(logger),
		contentstore.WithRecorder(rec),
		contentstore.WithRetry(retry.FromConfig(cfg.Content.Retry)),
	}
	key := cfg.Content.Key

	switch cfg.Content.Backend {
	case config.BackendFile:
		return contentstore.NewFileStore(cfg.Content.File, opts...), nil
	case config.BackendMemory:
		return contentstore.NewKVStore(contentstore.NewMemoryKV(), string(config.BackendMemory), key, opts...), nil
	case config.BackendSQLite:
		kv, err := contentstore.NewSQLiteKV(cfg.Content.SQLitePath)
		if err != nil {
			return nil, err
		}
		r.onClose(func() {
			if err := kv.Close(); err != nil {
				logger.Warn("Closing content database failed", logfields.Error(err))
			}
		})
		return contentstore.NewKVStore(kv, string(config.BackendSQLite), key, opts...), nil
	case config.BackendNATS:
		bus, err := r.natsBus(cfg)
		if err != nil {
			return nil, err
		}
		kv, err := contentstore.NewNATSKV(ctx, bus.JS, cfg.NATS.Bucket)
		if err != nil {
			return nil, err
		}
		return contentstore.NewKVStore(kv, string(config.BackendNATS), key, opts...), nil
	case config.BackendRemote:
		client := &http.Client{Timeout: 10 * time.Second}
		return contentstore.NewRemoteStore(cfg.Content.RemoteURL, client, opts...), nil
	default:
		return nil, errors.ConfigError("unknown content backend").
			WithContext("backend", string(cfg.Content.Backend)).Build()
	}
}
