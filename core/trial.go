package core

import (
	"time"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// Default per-node transmission powers (dBm) and numerology, matching
// the Urban Macro scenario the traces are collected for.
const (
	DefaultGnbTxPowerDbm = 41.0
	DefaultUeTxPowerDbm  = 23.0
	DefaultNumerology    = 1
)

// TrialParams are the knobs of one trial beyond the RunSpec itself.
type TrialParams struct {
	ErrorModelType    string
	AmcSelectionModel string
	Scenario          string
	Horizon           time.Duration
	Logging           bool
}

// BuildTrialConfig wires the scenario stages for one RunSpec — topology
// construction, channel selection, link adaptation, trace harness —
// into the EngineConfig a simulation engine consumes. Each call builds
// a fresh, independent configuration; nothing is shared across trials.
func BuildTrialConfig(spec model.RunSpec, params TrialParams) (*model.EngineConfig, error) {
	builder := NewTopologyBuilder(spec.UeCount, spec.GnbCount, spec.CenterFrequencyHz)
	topo := builder.Build()

	channel, err := SelectChannelConfig(
		spec.ChannelModel.String(),
		spec.ChannelCondition.String(),
		params.Scenario,
		AntennaParams{UeShape: builder.UeAntenna, GnbShape: builder.GnbAntenna},
	)
	if err != nil {
		return nil, err
	}

	linkAdaptation, err := NewLinkAdaptationConfig(params.ErrorModelType, params.AmcSelectionModel)
	if err != nil {
		return nil, err
	}

	harness := NewTraceHarness(params.Horizon)
	traffic, traces, err := harness.Arm(topo)
	if err != nil {
		return nil, err
	}

	return &model.EngineConfig{
		Spec:           spec,
		Topology:       topo,
		Channel:        channel,
		LinkAdaptation: linkAdaptation,
		Traffic:        traffic,
		Traces:         traces,
		GnbTxPowerDbm:  DefaultGnbTxPowerDbm,
		UeTxPowerDbm:   DefaultUeTxPowerDbm,
		Numerology:     DefaultNumerology,
		Horizon:        harness.Horizon,
		Logging:        params.Logging,
	}, nil
}
