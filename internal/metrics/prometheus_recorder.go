package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "salonsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	contentLoads   *prom.CounterVec
	contentSaves   *prom.CounterVec
	applyDuration  prom.Histogram
	applySkipped   *prom.CounterVec
	previewSent    *prom.CounterVec
	previewDropped *prom.CounterVec
	previewClients prom.Gauge
	httpDuration   *prom.HistogramVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		contentLoads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "content_loads_total",
			Help:      "Content loads by backend and outcome",
		}, []string{"backend", "outcome"}),
		contentSaves: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "content_saves_total",
			Help:      "Content saves by backend and result",
		}, []string{"backend", "result"}),
		applyDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_duration_seconds",
			Help:      "Time spent applying a content document to a page",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		applySkipped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "apply_skipped_fields_total",
			Help:      "Fields skipped during apply because no page element matched",
		}, []string{"section"}),
		previewSent: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "preview_messages_total",
			Help:      "Preview messages sent by transport",
		}, []string{"transport"}),
		previewDropped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "preview_dropped_total",
			Help:      "Preview deliveries dropped by reason",
		}, []string{"reason"}),
		previewClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "preview_clients",
			Help:      "Connected preview event stream clients",
		}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route and status",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "status"}),
	}
	reg.MustRegister(pr.contentLoads, pr.contentSaves, pr.applyDuration, pr.applySkipped,
		pr.previewSent, pr.previewDropped, pr.previewClients, pr.httpDuration)
	return pr
}

func (p *PrometheusRecorder) IncContentLoad(backend string, outcome LoadOutcome) {
	p.contentLoads.WithLabelValues(backend, string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncContentSave(backend string, success bool) {
	res := "failed"
	if success {
		res = "success"
	}
	p.contentSaves.WithLabelValues(backend, res).Inc()
}

func (p *PrometheusRecorder) ObserveApplyDuration(d time.Duration) {
	p.applyDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncApplySkipped(section string) {
	p.applySkipped.WithLabelValues(section).Inc()
}

func (p *PrometheusRecorder) IncPreviewMessage(transport string) {
	p.previewSent.WithLabelValues(transport).Inc()
}

func (p *PrometheusRecorder) IncPreviewDropped(reason string) {
	p.previewDropped.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) SetPreviewClients(n int) {
	p.previewClients.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, status int, d time.Duration) {
	p.httpDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}
