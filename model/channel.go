package model

import "time"

// ChannelModel selects the spectrum channel family for a trial.
// ThreeGpp, NYU and TwoRay are phased-array models; Friis is not.
type ChannelModel int

const (
	ChannelThreeGpp ChannelModel = iota
	ChannelNYU
	ChannelTwoRay
	ChannelFriis
)

var channelModelNames = map[ChannelModel]string{
	ChannelThreeGpp: "ThreeGpp",
	ChannelNYU:      "NYU",
	ChannelTwoRay:   "TwoRay",
	ChannelFriis:    "Friis",
}

func (m ChannelModel) String() string {
	if name, ok := channelModelNames[m]; ok {
		return name
	}
	return "unknown"
}

// IsPhasedArray reports whether the model requires array-aware antennas
// and a phased-array propagation configuration.
func (m ChannelModel) IsPhasedArray() bool {
	return m == ChannelThreeGpp || m == ChannelNYU || m == ChannelTwoRay
}

// ParseChannelModel maps a channel-model identifier to its enum value.
// The boolean is false for unrecognized identifiers; callers must treat
// that as a configuration error, never substitute a default.
func ParseChannelModel(s string) (ChannelModel, bool) {
	for m, name := range channelModelNames {
		if name == s {
			return m, true
		}
	}
	return 0, false
}

// ChannelModelNames returns the accepted channel-model identifiers in a
// stable order, for use in error messages.
func ChannelModelNames() []string {
	return []string{"ThreeGpp", "NYU", "TwoRay", "Friis"}
}

// ChannelCondition selects the channel-condition model.
type ChannelCondition int

const (
	ConditionDefault ChannelCondition = iota
	ConditionLOS
	ConditionNLOS
	ConditionBuildings
)

var channelConditionNames = map[ChannelCondition]string{
	ConditionDefault:   "Default",
	ConditionLOS:       "LOS",
	ConditionNLOS:      "NLOS",
	ConditionBuildings: "Buildings",
}

func (c ChannelCondition) String() string {
	if name, ok := channelConditionNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseChannelCondition maps a condition identifier to its enum value.
func ParseChannelCondition(s string) (ChannelCondition, bool) {
	for c, name := range channelConditionNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}

// ChannelConditionNames returns the accepted condition identifiers in a
// stable order.
func ChannelConditionNames() []string {
	return []string{"Default", "LOS", "NLOS", "Buildings"}
}

// AntennaKind discriminates the two antenna configuration variants.
type AntennaKind int

const (
	AntennaPhasedArray AntennaKind = iota
	AntennaParabolic
)

// AntennaConfig is the antenna side of a ChannelConfig. Exactly two
// implementations exist; which one is legal depends on the channel
// model, and the selector enforces the pairing.
type AntennaConfig interface {
	Kind() AntennaKind
}

// PhasedArrayAntenna configures uniform planar arrays of isotropic
// elements on both sides of the link.
type PhasedArrayAntenna struct {
	UeShape  AntennaShape
	GnbShape AntennaShape
}

func (PhasedArrayAntenna) Kind() AntennaKind { return AntennaPhasedArray }

// ParabolicAntenna configures a single parabolic element per node; no
// array geometry is modelled.
type ParabolicAntenna struct {
	BeamwidthDeg float64
}

func (ParabolicAntenna) Kind() AntennaKind { return AntennaParabolic }

// PropagationLoss selects the propagation-loss model wired to a band.
type PropagationLoss int

const (
	PropagationThreeGpp PropagationLoss = iota
	PropagationNYU
	PropagationTwoRay
	PropagationFriis
)

func (p PropagationLoss) String() string {
	switch p {
	case PropagationThreeGpp:
		return "ThreeGppPropagationLoss"
	case PropagationNYU:
		return "NYUPropagationLoss"
	case PropagationTwoRay:
		return "TwoRayPropagationLoss"
	case PropagationFriis:
		return "FriisPropagationLoss"
	default:
		return "unknown"
	}
}

// BeamformingMethod selects the beamforming scheme for array-capable
// channel models. Friis configurations carry BeamformingNone.
type BeamformingMethod int

const (
	BeamformingNone BeamformingMethod = iota
	BeamformingDirectPath
)

// ChannelConfig is the consistent antenna + propagation + beamforming
// selection for one trial. It is constructed only by the channel
// selector and is immutable afterwards.
//
// Invariants: a Friis config never carries a PhasedArrayAntenna or a
// beamforming method; a phased-array config never carries a
// ParabolicAntenna.
type ChannelConfig struct {
	Model     ChannelModel
	Condition ChannelCondition
	Scenario  string // deployment scenario, e.g. "UMa"

	Antenna     AntennaConfig
	Propagation PropagationLoss
	Beamforming BeamformingMethod

	ShadowingEnabled bool
	// ConditionUpdatePeriod is non-zero only for phased-array models
	// with the Default or Buildings condition.
	ConditionUpdatePeriod time.Duration
}
