package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Trial outcome labels used by the campaign collector.
const (
	OutcomeCompleted  = "completed"
	OutcomeIncomplete = "incomplete"
	OutcomeFailed     = "failed"
)

// CampaignCollector bundles Prometheus metrics for campaign execution
// and provides a ready-to-serve /metrics handler.
type CampaignCollector struct {
	gatherer prometheus.Gatherer

	Trials         *prometheus.CounterVec
	TrialDurations prometheus.Histogram
	FilesCollected *prometheus.CounterVec
	FilesMissing   *prometheus.CounterVec
	TrialsInflight prometheus.Gauge
}

// NewCampaignCollector registers campaign Prometheus metrics against
// the provided registerer, defaulting to the global Prometheus registry
// when nil.
func NewCampaignCollector(reg prometheus.Registerer) (*CampaignCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	trials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_trials_total",
		Help: "Total number of finished trials, labeled by outcome (completed, incomplete, failed).",
	}, []string{"outcome"})
	trials, err := registerCounterVec(reg, trials, "campaign_trials_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "campaign_trial_duration_seconds",
		Help:    "Wall-clock duration of one trial, engine run plus collection.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}), "campaign_trial_duration_seconds")
	if err != nil {
		return nil, err
	}

	collected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_trace_files_collected_total",
		Help: "Trace files moved into trial directories, labeled by file name.",
	}, []string{"file"})
	collected, err = registerCounterVec(reg, collected, "campaign_trace_files_collected_total")
	if err != nil {
		return nil, err
	}

	missing := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_trace_files_missing_total",
		Help: "Expected trace files absent after a trial, labeled by file name.",
	}, []string{"file"})
	missing, err = registerCounterVec(reg, missing, "campaign_trace_files_missing_total")
	if err != nil {
		return nil, err
	}

	inflight, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "campaign_trials_inflight",
		Help: "Number of trials currently executing.",
	}), "campaign_trials_inflight")
	if err != nil {
		return nil, err
	}

	return &CampaignCollector{
		gatherer:       gatherer,
		Trials:         trials,
		TrialDurations: durations,
		FilesCollected: collected,
		FilesMissing:   missing,
		TrialsInflight: inflight,
	}, nil
}

// TrialStarted marks a trial as in flight.
func (c *CampaignCollector) TrialStarted() {
	if c == nil {
		return
	}
	c.TrialsInflight.Inc()
}

// TrialFinished records a finished trial with its outcome and duration.
func (c *CampaignCollector) TrialFinished(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.TrialsInflight.Dec()
	c.Trials.WithLabelValues(outcome).Inc()
	c.TrialDurations.Observe(d.Seconds())
}

// FileCollected records one trace file moved into a trial directory.
func (c *CampaignCollector) FileCollected(name string) {
	if c == nil {
		return
	}
	c.FilesCollected.WithLabelValues(name).Inc()
}

// FileMissing records one expected trace file that was absent.
func (c *CampaignCollector) FileMissing(name string) {
	if c == nil {
		return
	}
	c.FilesMissing.WithLabelValues(name).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *CampaignCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
