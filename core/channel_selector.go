package core

import (
	"time"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// DefaultScenario is the deployment scenario the 3GPP-family pathloss
// models are parameterized for.
const DefaultScenario = "UMa"

// conditionUpdatePeriod is the fixed channel-condition-model update
// period applied when the condition is Default or Buildings.
const conditionUpdatePeriod = 100 * time.Millisecond

// AntennaParams carries the array shapes used by the phased-array
// branch of the selector.
type AntennaParams struct {
	UeShape  model.AntennaShape
	GnbShape model.AntennaShape
}

// SelectChannelConfig maps the requested channel-model and condition
// identifiers to a consistent antenna + propagation + beamforming
// configuration.
//
// The pairing is physically required: the 3GPP-family propagation
// models assume array-aware antennas, while Friis abstracts the array
// away and uses a parabolic element. A mismatch would not crash the
// engine; it would silently produce physically meaningless traces. The
// selector therefore takes exactly one of two branches and fails
// closed, with a *ConfigurationError, on anything it does not
// recognize.
func SelectChannelConfig(channelModel, channelCondition, scenario string, antennas AntennaParams) (*model.ChannelConfig, error) {
	cm, ok := model.ParseChannelModel(channelModel)
	if !ok {
		return nil, &ConfigurationError{
			Field:    "channelModel",
			Value:    channelModel,
			Accepted: model.ChannelModelNames(),
		}
	}

	cc, ok := model.ParseChannelCondition(channelCondition)
	if !ok {
		return nil, &ConfigurationError{
			Field:    "channelConditionModel",
			Value:    channelCondition,
			Accepted: model.ChannelConditionNames(),
		}
	}

	if scenario == "" {
		scenario = DefaultScenario
	}

	if cm.IsPhasedArray() {
		cfg := &model.ChannelConfig{
			Model:     cm,
			Condition: cc,
			Scenario:  scenario,
			Antenna: model.PhasedArrayAntenna{
				UeShape:  antennas.UeShape,
				GnbShape: antennas.GnbShape,
			},
			Propagation:      phasedArrayPropagation(cm),
			Beamforming:      model.BeamformingDirectPath,
			ShadowingEnabled: true,
		}
		if cc == model.ConditionDefault || cc == model.ConditionBuildings {
			cfg.ConditionUpdatePeriod = conditionUpdatePeriod
		}
		return cfg, nil
	}

	// Friis: parabolic antennas, free-space pathloss, no beamforming.
	return &model.ChannelConfig{
		Model:       cm,
		Condition:   cc,
		Scenario:    scenario,
		Antenna:     model.ParabolicAntenna{BeamwidthDeg: 60},
		Propagation: model.PropagationFriis,
		Beamforming: model.BeamformingNone,
	}, nil
}

func phasedArrayPropagation(cm model.ChannelModel) model.PropagationLoss {
	switch cm {
	case model.ChannelNYU:
		return model.PropagationNYU
	case model.ChannelTwoRay:
		return model.PropagationTwoRay
	default:
		return model.PropagationThreeGpp
	}
}
