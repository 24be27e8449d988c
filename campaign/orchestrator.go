package campaign

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/nr-trace-campaign/core"
	"github.com/signalsfoundry/nr-trace-campaign/engine"
	"github.com/signalsfoundry/nr-trace-campaign/internal/logging"
	"github.com/signalsfoundry/nr-trace-campaign/internal/observability"
	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// scratchDirName holds per-trial working directories under the output
// root, so collection moves stay on one filesystem.
const scratchDirName = ".scratch"

// Orchestrator sweeps the seed×run matrix, invokes one simulation
// trial per point, and collects the produced trace files into one
// directory per trial. Every trial runs in its own scratch directory
// with its own EngineConfig, so trials never share mutable state and a
// bounded worker pool can run them concurrently.
type Orchestrator struct {
	cfg *Config
	eng engine.Engine

	log     logging.Logger
	metrics *observability.CampaignCollector
	index   *Index
	results *ResultStore
	tracer  trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator's logger.
func WithLogger(log logging.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithMetrics attaches a campaign metrics collector.
func WithMetrics(c *observability.CampaignCollector) Option {
	return func(o *Orchestrator) { o.metrics = c }
}

// WithIndex attaches a sqlite results index.
func WithIndex(ix *Index) Option {
	return func(o *Orchestrator) { o.index = ix }
}

// NewOrchestrator builds an orchestrator for the given sweep and
// engine.
func NewOrchestrator(cfg *Config, eng engine.Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:     cfg,
		eng:     eng,
		log:     logging.Noop(),
		results: NewResultStore(),
		tracer:  otel.Tracer("campaign"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Results exposes the in-memory result store, usable for subscriptions
// before Run and for inspection afterwards.
func (o *Orchestrator) Results() *ResultStore {
	return o.results
}

// Run executes the whole sweep. A *core.ConfigurationError — whether
// caught during up-front validation or inside a trial — aborts the
// campaign: it signals a caller mistake that every remaining trial
// would reproduce. Engine failures abort only their own trial; the
// sweep continues. There are no retries: trials are deterministic given
// their RunSpec, so retrying an identical RunSpec would reproduce the
// same failure.
func (o *Orchestrator) Run(ctx context.Context) (*ResultStore, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	scratchRoot := filepath.Join(o.cfg.OutputRoot, scratchDirName)
	if err := os.MkdirAll(scratchRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch root: %w", err)
	}
	defer os.RemoveAll(scratchRoot)

	specs := o.cfg.Specs()
	o.log.Info(ctx, "campaign starting",
		logging.Int("trials", len(specs)),
		logging.String("channel_model", o.cfg.ChannelModel),
		logging.String("channel_condition", o.cfg.ChannelCondition),
		logging.Int("workers", o.workers()),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		abortOnce sync.Once
		abortErr  error
	)
	sem := make(chan struct{}, o.workers())

	for _, spec := range specs {
		if runCtx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(spec model.RunSpec) {
			defer wg.Done()
			defer func() { <-sem }()

			if runCtx.Err() != nil {
				return
			}
			if err := o.runTrial(runCtx, spec, scratchRoot); err != nil {
				// Only configuration errors escape runTrial.
				abortOnce.Do(func() {
					abortErr = err
					cancel()
				})
			}
		}(spec)
	}
	wg.Wait()

	if abortErr != nil {
		o.log.Error(ctx, "campaign aborted on configuration error",
			logging.String("error", abortErr.Error()))
		return o.results, abortErr
	}
	if err := ctx.Err(); err != nil {
		return o.results, err
	}

	completed, incomplete, failed := o.results.Summary()
	o.log.Info(ctx, "campaign finished",
		logging.Int("completed", completed),
		logging.Int("incomplete", incomplete),
		logging.Int("failed", failed),
	)
	return o.results, nil
}

// runTrial executes one (seed, run) point: configure, simulate,
// collect, record. It returns a non-nil error only for configuration
// errors, which must abort the whole campaign.
func (o *Orchestrator) runTrial(ctx context.Context, spec model.RunSpec, scratchRoot string) error {
	ctx, log := logging.WithTrialLogger(ctx, o.log, spec.DirName())
	ctx, span := o.tracer.Start(ctx, "trial",
		trace.WithAttributes(
			attribute.Int64("campaign.seed", int64(spec.Seed)),
			attribute.Int64("campaign.run", int64(spec.Run)),
			attribute.String("campaign.channel_model", spec.ChannelModel.String()),
		))
	defer span.End()

	o.metrics.TrialStarted()
	started := time.Now()

	res, cfgErr := o.executeTrial(ctx, log, spec, scratchRoot)
	res.StartedAt = started
	res.Duration = time.Since(started)

	if cfgErr != nil {
		span.RecordError(cfgErr)
		span.SetStatus(codes.Error, "configuration error")
		o.metrics.TrialFinished(observability.OutcomeFailed, res.Duration)
		return cfgErr
	}

	o.recordTrial(ctx, log, span, res)
	return nil
}

// executeTrial runs the configure→simulate→collect pipeline and
// separates configuration errors (returned) from per-trial failures
// (stored in the result).
func (o *Orchestrator) executeTrial(ctx context.Context, log logging.Logger, spec model.RunSpec, scratchRoot string) (TrialResult, error) {
	res := TrialResult{Spec: spec}

	trialCfg, err := core.BuildTrialConfig(spec, core.TrialParams{
		ErrorModelType:    o.cfg.ErrorModelType,
		AmcSelectionModel: o.cfg.AmcSelectionModel,
		Horizon:           o.cfg.Horizon(),
		Logging:           o.cfg.Logging,
	})
	if err != nil {
		var confErr *core.ConfigurationError
		if errors.As(err, &confErr) {
			return res, err
		}
		res.Err = err
		return res, nil
	}

	scratchDir, err := os.MkdirTemp(scratchRoot, spec.DirName()+"-")
	if err != nil {
		res.Err = fmt.Errorf("create trial scratch dir: %w", err)
		return res, nil
	}
	defer os.RemoveAll(scratchDir)

	log.Info(ctx, "trial starting")
	if err := o.eng.Run(ctx, trialCfg, scratchDir); err != nil {
		log.Error(ctx, "engine failed", logging.String("error", err.Error()))
		res.Err = err
		return res, nil
	}

	collector := &Collector{OutputRoot: o.cfg.OutputRoot, Log: o.log}
	collected, missing, err := collector.Collect(ctx, spec, scratchDir, trialCfg.Traces)
	res.Collected = collected
	res.Missing = missing
	if err != nil {
		res.Err = err
	}
	return res, nil
}

// recordTrial persists one finished trial everywhere it is tracked:
// metrics, metadata, the sqlite index, and the in-memory store.
func (o *Orchestrator) recordTrial(ctx context.Context, log logging.Logger, span trace.Span, res TrialResult) {
	outcome := res.Status().String()
	span.SetAttributes(attribute.String("campaign.outcome", outcome))
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "trial failed")
	}

	o.metrics.TrialFinished(outcome, res.Duration)
	for _, name := range res.Collected {
		o.metrics.FileCollected(name)
	}
	for _, name := range res.Missing {
		o.metrics.FileMissing(name)
	}

	// Failed trials produce no trial directory, so no metadata file.
	if res.Status() != TrialFailed {
		if err := writeTrialMetadata(o.cfg.OutputRoot, res); err != nil {
			log.Warn(ctx, "failed to write trial metadata",
				logging.String("error", err.Error()))
		}
	}

	if o.index != nil {
		if err := o.index.RecordTrial(ctx, res); err != nil {
			log.Warn(ctx, "failed to index trial",
				logging.String("error", err.Error()))
		}
	}

	if err := o.results.Record(res); err != nil {
		log.Warn(ctx, "failed to record trial result",
			logging.String("error", err.Error()))
		return
	}
	log.Info(ctx, "trial recorded",
		logging.String("outcome", outcome),
		logging.Int("collected", len(res.Collected)),
		logging.Int("missing", len(res.Missing)),
	)
}

func (o *Orchestrator) workers() int {
	if o.cfg.Workers < 1 {
		return 1
	}
	return o.cfg.Workers
}
