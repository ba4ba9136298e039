// Package metrics provides the observability hooks used by the content store,
// the applier, the preview channel and the HTTP server.
//
// Components receive a Recorder by injection and default to NoopRecorder, so
// nothing needs a nil check. The serve command swaps in a PrometheusRecorder
// when metrics are enabled and mounts HTTPHandler on /metrics.
package metrics
