// Package responses defines the JSON bodies salonsite's HTTP handlers write.
package responses

import (
	"time"

	"git.home.luguber.info/inful/salonsite/internal/eventstore"
	"git.home.luguber.info/inful/salonsite/internal/history"
)

// Notification types understood by the editor.
const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeInfo    = "info"
	TypeWarning = "warning"
)

// APIResponse is the {success, message} body of every editor action.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// PreviewResponse acknowledges a preview broadcast. Delivery is not confirmed.
type PreviewResponse struct {
	APIResponse
	MessageID string `json:"messageId"`
}

// UploadResponse carries the data URI an uploaded image was turned into.
type UploadResponse struct {
	APIResponse
	DataURI string `json:"dataUri"`
	Field   string `json:"field"`
}

// HistoryResponse lists content commits, newest first.
type HistoryResponse struct {
	Success bool            `json:"success"`
	Entries []history.Entry `json:"entries"`
}

// ActivityResponse is the audit log summary.
type ActivityResponse struct {
	Success  bool                       `json:"success"`
	Activity eventstore.ActivitySummary `json:"activity"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	Uptime         float64   `json:"uptime"`
	Backend        string    `json:"backend"`
	PreviewClients int       `json:"preview_clients"`
	PreviewReady   bool      `json:"preview_ready"`
}
