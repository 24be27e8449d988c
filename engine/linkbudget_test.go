package engine

import (
	"math"
	"testing"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

func TestFsplDB_KnownValue(t *testing.T) {
	// 1 km at 1 GHz is exactly the constant term.
	if got := fsplDB(1, 1); math.Abs(got-92.45) > 1e-9 {
		t.Fatalf("fsplDB(1km, 1GHz) = %f, want 92.45", got)
	}
	// Doubling distance adds ~6.02 dB.
	if diff := fsplDB(2, 1) - fsplDB(1, 1); math.Abs(diff-20*math.Log10(2)) > 1e-9 {
		t.Fatalf("doubling distance added %f dB, want %f", diff, 20*math.Log10(2))
	}
}

func TestLosProbability_Monotonic(t *testing.T) {
	if p := losProbability(10); p != 1 {
		t.Fatalf("losProbability(10m) = %f, want 1", p)
	}
	prev := 1.0
	for _, d := range []float64{20, 50, 100, 200, 500} {
		p := losProbability(d)
		if p <= 0 || p > prev {
			t.Fatalf("losProbability(%fm) = %f, not decreasing from %f", d, p, prev)
		}
		prev = p
	}
}

func TestPathlossDB_NlosPenalty(t *testing.T) {
	cfg := &model.ChannelConfig{Propagation: model.PropagationThreeGpp}
	los := pathlossDB(cfg, 200, 30.5e9, 25, 1.5, true)
	nlos := pathlossDB(cfg, 200, 30.5e9, 25, 1.5, false)
	if math.Abs(nlos-los-nlosPenaltyDb) > 1e-9 {
		t.Fatalf("NLOS penalty = %f dB, want %f", nlos-los, nlosPenaltyDb)
	}
}

func TestPathlossDB_BuildingsEntryLoss(t *testing.T) {
	outdoor := &model.ChannelConfig{Propagation: model.PropagationThreeGpp}
	indoor := &model.ChannelConfig{
		Propagation: model.PropagationThreeGpp,
		Condition:   model.ConditionBuildings,
	}
	diff := pathlossDB(indoor, 200, 30.5e9, 25, 1.5, true) -
		pathlossDB(outdoor, 200, 30.5e9, 25, 1.5, true)
	if math.Abs(diff-buildingsEntryLoss) > 1e-9 {
		t.Fatalf("buildings entry loss = %f dB, want %f", diff, buildingsEntryLoss)
	}
}

func TestPathlossDB_TwoRayCrossover(t *testing.T) {
	cfg := &model.ChannelConfig{Propagation: model.PropagationTwoRay}
	// Far below the crossover the model follows free space.
	near := pathlossDB(cfg, 10, 2e9, 25, 1.5, true)
	if friis := fsplDB(0.01, 2); math.Abs(near-friis) > 1e-9 {
		t.Fatalf("short-range two-ray = %f, want FSPL %f", near, friis)
	}
	// Beyond the crossover the slope is 40 dB/decade, steeper than
	// free space.
	farA := pathlossDB(cfg, 10000, 2e9, 25, 1.5, true)
	farB := pathlossDB(cfg, 100000, 2e9, 25, 1.5, true)
	if slope := farB - farA; math.Abs(slope-40) > 1e-9 {
		t.Fatalf("two-ray slope = %f dB/decade, want 40", slope)
	}
}

func TestShadowSigmaDB(t *testing.T) {
	off := &model.ChannelConfig{}
	if shadowSigmaDB(off, true) != 0 {
		t.Fatalf("shadowing disabled should give zero sigma")
	}
	on := &model.ChannelConfig{ShadowingEnabled: true}
	if shadowSigmaDB(on, true) != shadowSigmaLosDb || shadowSigmaDB(on, false) != shadowSigmaNlosDb {
		t.Fatalf("shadow sigmas = %f/%f, want %f/%f",
			shadowSigmaDB(on, true), shadowSigmaDB(on, false), shadowSigmaLosDb, shadowSigmaNlosDb)
	}
}

func TestAntennaGainsDbi(t *testing.T) {
	array := &model.ChannelConfig{Antenna: model.PhasedArrayAntenna{
		GnbShape: model.AntennaShape{Rows: 4, Cols: 8},
		UeShape:  model.AntennaShape{Rows: 1, Cols: 1},
	}}
	gnb, ue := antennaGainsDbi(array)
	if math.Abs(gnb-10*math.Log10(32)) > 1e-9 {
		t.Fatalf("4x8 array gain = %f, want %f", gnb, 10*math.Log10(32))
	}
	if ue != 0 {
		t.Fatalf("single-element gain = %f, want 0", ue)
	}

	dish := &model.ChannelConfig{Antenna: model.ParabolicAntenna{BeamwidthDeg: 60}}
	gnb, ue = antennaGainsDbi(dish)
	if gnb != parabolicGainDbi || ue != parabolicGainDbi {
		t.Fatalf("parabolic gains = %f/%f, want %f", gnb, ue, parabolicGainDbi)
	}
}

func TestCqiFromSinr_Boundaries(t *testing.T) {
	if got := cqiFromSinr(-10); got != 0 {
		t.Fatalf("cqiFromSinr(-10) = %d, want 0", got)
	}
	if got := cqiFromSinr(cqiThresholdsDb[0]); got != 1 {
		t.Fatalf("cqiFromSinr at first threshold = %d, want 1", got)
	}
	if got := cqiFromSinr(40); got != 15 {
		t.Fatalf("cqiFromSinr(40) = %d, want 15", got)
	}

	prev := 0
	for s := -10.0; s <= 30; s += 0.5 {
		cqi := cqiFromSinr(s)
		if cqi < prev {
			t.Fatalf("cqi decreased with rising SINR at %f dB", s)
		}
		prev = cqi
	}
}

func TestSelectMcs(t *testing.T) {
	if got := selectMcs(model.AmcErrorModel, 0, 15); got != 28 {
		t.Fatalf("error-model MCS at CQI 15 = %d, want 28", got)
	}
	if got := selectMcs(model.AmcErrorModel, 0, 0); got != 0 {
		t.Fatalf("error-model MCS at CQI 0 = %d, want 0", got)
	}
	if got := selectMcs(model.AmcShannonModel, 40, 0); got != 28 {
		t.Fatalf("Shannon MCS should cap at 28, got %d", got)
	}
	if selectMcs(model.AmcShannonModel, -20, 0) != 0 {
		t.Fatalf("Shannon MCS at very low SINR should be 0")
	}
}

func TestTbSizeBytes_ErrorModelBacksOff(t *testing.T) {
	shannon := tbSizeBytes(model.AmcShannonModel, 10, 100e6, 1)
	backedOff := tbSizeBytes(model.AmcErrorModel, 10, 100e6, 1)
	if backedOff >= shannon {
		t.Fatalf("error-model TBS (%d) should be below Shannon TBS (%d)", backedOff, shannon)
	}
	if backedOff <= 0 {
		t.Fatalf("TBS at 10 dB should be positive")
	}
}
