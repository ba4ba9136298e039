package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBackend    = "backend"
	KeyKey        = "key"
	KeyPath       = "path"
	KeySection    = "section"
	KeyField      = "field"
	KeySelector   = "selector"
	KeyMessageID  = "message_id"
	KeyKind       = "kind"
	KeyClients    = "clients"
	KeyReason     = "reason"
	KeyDurationMS = "duration_ms"
	KeyCommit     = "commit"
	KeyError      = "error"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRequestID  = "request_id"
	KeyRemoteAddr = "remote_addr"
)

func Backend(name string) slog.Attr   { return slog.String(KeyBackend, name) }
func Key(k string) slog.Attr          { return slog.String(KeyKey, k) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Field(f string) slog.Attr        { return slog.String(KeyField, f) }
func Selector(s string) slog.Attr     { return slog.String(KeySelector, s) }
func MessageID(id string) slog.Attr   { return slog.String(KeyMessageID, id) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Clients(n int) slog.Attr         { return slog.Int(KeyClients, n) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Commit(hash string) slog.Attr    { return slog.String(KeyCommit, hash) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
