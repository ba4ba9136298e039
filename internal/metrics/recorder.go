package metrics

import "time"

// LoadOutcome labels how a content load was satisfied.
type LoadOutcome string

const (
	LoadStored     LoadOutcome = "stored"
	LoadAbsent     LoadOutcome = "default_absent"
	LoadMalformed  LoadOutcome = "default_malformed"
	LoadUnreadable LoadOutcome = "default_unreadable"
)

// Recorder defines observability hooks for content, preview and HTTP activity.
type Recorder interface {
	IncContentLoad(backend string, outcome LoadOutcome)
	IncContentSave(backend string, success bool)
	ObserveApplyDuration(d time.Duration)
	IncApplySkipped(section string)
	IncPreviewMessage(transport string)
	IncPreviewDropped(reason string)
	SetPreviewClients(n int)
	ObserveHTTPRequest(route string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncContentLoad(string, LoadOutcome)            {}
func (NoopRecorder) IncContentSave(string, bool)                   {}
func (NoopRecorder) ObserveApplyDuration(time.Duration)            {}
func (NoopRecorder) IncApplySkipped(string)                        {}
func (NoopRecorder) IncPreviewMessage(string)                      {}
func (NoopRecorder) IncPreviewDropped(string)                      {}
func (NoopRecorder) SetPreviewClients(int)                         {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration) {}

// OrNoop returns r, or a NoopRecorder if r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
