package preview

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
)

// DefaultSubject is the NATS subject preview messages are published on.
const DefaultSubject = "salonsite.preview"

// NATSChannel publishes preview messages on a core NATS subject. Core NATS has no
// persistence, which matches the at-most-once delivery of every other channel.
type NATSChannel struct {
	options
	conn    *nats.Conn
	subject string
}

func NewNATSChannel(conn *nats.Conn, subject string, opts ...Option) *NATSChannel {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSChannel{options: newOptions(opts), conn: conn, subject: subject}
}

// Send publishes msg. Failures are logged and counted, never returned.
func (c *NATSChannel) Send(_ context.Context, msg Message) {
	data, err := json.Marshal(msg)
	if err == nil {
		err = c.conn.Publish(c.subject, data)
	}
	if err != nil {
		c.metrics.IncPreviewDropped("publish_failed")
		c.logger.Warn("Preview publish failed", logfields.MessageID(msg.ID), logfields.Error(err))
		return
	}
	c.metrics.IncPreviewMessage("nats")
}

// Subscribe forwards every message on the subject to dst until the returned
// function is called.
func (c *NATSChannel) Subscribe(dst Sender) (func() error, error) {
	sub, err := c.conn.Subscribe(c.subject, func(m *nats.Msg) {
		msg, derr := Decode(m.Data)
		if derr != nil {
			c.metrics.IncPreviewDropped("malformed")
			c.logger.Debug("Dropping malformed preview message", logfields.Error(derr))
			return
		}
		dst.Send(context.Background(), msg)
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, "subscribe to preview subject").
			Retryable().WithContext("subject", c.subject).Build()
	}
	return sub.Unsubscribe, nil
}
