package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

var testAntennas = AntennaParams{
	UeShape:  DefaultUeAntenna,
	GnbShape: DefaultGnbAntenna,
}

func TestSelectChannelConfig_PhasedArrayModels(t *testing.T) {
	cases := []struct {
		modelName   string
		propagation model.PropagationLoss
	}{
		{"ThreeGpp", model.PropagationThreeGpp},
		{"NYU", model.PropagationNYU},
		{"TwoRay", model.PropagationTwoRay},
	}
	for _, c := range cases {
		cfg, err := SelectChannelConfig(c.modelName, "Default", "", testAntennas)
		if err != nil {
			t.Fatalf("SelectChannelConfig(%s): %v", c.modelName, err)
		}
		arr, ok := cfg.Antenna.(model.PhasedArrayAntenna)
		if !ok {
			t.Fatalf("%s: antenna = %T, want PhasedArrayAntenna", c.modelName, cfg.Antenna)
		}
		if arr.GnbShape != DefaultGnbAntenna || arr.UeShape != DefaultUeAntenna {
			t.Fatalf("%s: array shapes not threaded through, got %+v", c.modelName, arr)
		}
		if cfg.Propagation != c.propagation {
			t.Fatalf("%s: propagation = %v, want %v", c.modelName, cfg.Propagation, c.propagation)
		}
		if cfg.Beamforming != model.BeamformingDirectPath {
			t.Fatalf("%s: beamforming = %v, want DirectPath", c.modelName, cfg.Beamforming)
		}
		if !cfg.ShadowingEnabled {
			t.Fatalf("%s: shadowing should be enabled", c.modelName)
		}
		if cfg.Scenario != DefaultScenario {
			t.Fatalf("%s: scenario = %q, want %q", c.modelName, cfg.Scenario, DefaultScenario)
		}
	}
}

func TestSelectChannelConfig_Friis(t *testing.T) {
	cfg, err := SelectChannelConfig("Friis", "LOS", "", testAntennas)
	if err != nil {
		t.Fatalf("SelectChannelConfig(Friis): %v", err)
	}
	if _, ok := cfg.Antenna.(model.ParabolicAntenna); !ok {
		t.Fatalf("Friis antenna = %T, want ParabolicAntenna", cfg.Antenna)
	}
	if cfg.Propagation != model.PropagationFriis {
		t.Fatalf("Friis propagation = %v, want PropagationFriis", cfg.Propagation)
	}
	if cfg.Beamforming != model.BeamformingNone {
		t.Fatalf("Friis must not configure beamforming, got %v", cfg.Beamforming)
	}
	if cfg.ConditionUpdatePeriod != 0 {
		t.Fatalf("Friis must not carry a condition update period, got %v", cfg.ConditionUpdatePeriod)
	}
}

func TestSelectChannelConfig_ConditionUpdatePeriod(t *testing.T) {
	cases := []struct {
		condition string
		want      time.Duration
	}{
		{"Default", 100 * time.Millisecond},
		{"Buildings", 100 * time.Millisecond},
		{"LOS", 0},
		{"NLOS", 0},
	}
	for _, c := range cases {
		cfg, err := SelectChannelConfig("ThreeGpp", c.condition, "", testAntennas)
		if err != nil {
			t.Fatalf("SelectChannelConfig(ThreeGpp, %s): %v", c.condition, err)
		}
		if cfg.ConditionUpdatePeriod != c.want {
			t.Fatalf("%s: update period = %v, want %v", c.condition, cfg.ConditionUpdatePeriod, c.want)
		}
	}
}

func TestSelectChannelConfig_InvalidModelFailsClosed(t *testing.T) {
	_, err := SelectChannelConfig("Rician", "Default", "", testAntennas)
	if err == nil {
		t.Fatalf("expected configuration error for unknown channel model")
	}
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
	msg := err.Error()
	for _, name := range model.ChannelModelNames() {
		if !strings.Contains(msg, name) {
			t.Fatalf("error %q should list accepted identifier %q", msg, name)
		}
	}
}

func TestSelectChannelConfig_InvalidConditionFailsClosed(t *testing.T) {
	_, err := SelectChannelConfig("ThreeGpp", "Indoor", "", testAntennas)
	if err == nil {
		t.Fatalf("expected configuration error for unknown channel condition")
	}
	if !strings.Contains(err.Error(), "channelConditionModel") {
		t.Fatalf("error %q should name the offending field", err.Error())
	}
}

func TestSelectChannelConfig_CustomScenarioKept(t *testing.T) {
	cfg, err := SelectChannelConfig("ThreeGpp", "Default", "RMa", testAntennas)
	if err != nil {
		t.Fatalf("SelectChannelConfig: %v", err)
	}
	if cfg.Scenario != "RMa" {
		t.Fatalf("scenario = %q, want RMa", cfg.Scenario)
	}
}
