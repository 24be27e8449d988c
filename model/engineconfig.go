package model

import "time"

// TrafficFlow is one downlink traffic source from the remote server to
// a UE.
type TrafficFlow struct {
	UeID  string
	GnbID string // serving base station at attachment time
}

// TrafficConfig describes when traffic runs and which flows exist.
type TrafficConfig struct {
	StartAt time.Duration
	StopAt  time.Duration
	DlPort  uint16
	Flows   []TrafficFlow
}

// EngineConfig is the complete, explicit per-trial configuration handed
// to a simulation engine. There is no process-global attribute state:
// every trial receives its own EngineConfig, which is what makes trials
// safe to run concurrently.
type EngineConfig struct {
	Spec           RunSpec
	Topology       *Topology
	Channel        *ChannelConfig
	LinkAdaptation *LinkAdaptationConfig
	Traffic        TrafficConfig
	Traces         TraceFileSet

	GnbTxPowerDbm float64
	UeTxPowerDbm  float64
	Numerology    uint8

	// Horizon is the fixed simulated duration of the trial.
	Horizon time.Duration

	// Logging mirrors the engine's verbose-logging switch.
	Logging bool
}
