package engine

import (
	"math"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// Link-budget constants for the synthetic engine. The values are
// deliberately conservative; the goal is a monotonic, physically
// plausible SINR-vs-distance relationship, not an engineering-grade
// link budget.
const (
	thermalNoiseDbmHz  = -174.0
	noiseFigureDb      = 5.0
	parabolicGainDbi   = 19.0
	shadowSigmaLosDb   = 4.0
	shadowSigmaNlosDb  = 6.0
	nlosPenaltyDb      = 20.0
	nyuNlosPenaltyDb   = 18.0
	buildingsEntryLoss = 12.0
)

// fsplDB is the free-space path loss:
// 92.45 + 20 log10(d_km) + 20 log10(f_GHz).
func fsplDB(distKm, fGHz float64) float64 {
	if distKm < 0.001 {
		distKm = 0.001
	}
	return 92.45 + 20*math.Log10(distKm) + 20*math.Log10(fGHz)
}

// losProbability follows the 3GPP UMa line-of-sight probability curve:
// certain LoS inside 18 m, decaying with distance beyond.
func losProbability(distM float64) float64 {
	if distM <= 18 {
		return 1
	}
	return 18/distM + math.Exp(-distM/63)*(1-18/distM)
}

// pathlossDB computes the distance-dependent loss for the selected
// propagation model, excluding shadow fading.
func pathlossDB(cfg *model.ChannelConfig, distM, fHz, bsHeightM, utHeightM float64, los bool) float64 {
	distKm := distM / 1000
	fGHz := fHz / 1e9
	fspl := fsplDB(distKm, fGHz)

	switch cfg.Propagation {
	case model.PropagationFriis:
		return fspl

	case model.PropagationTwoRay:
		// Beyond the crossover distance the two-ray ground model
		// overtakes free space: 40 log10(d) - 20 log10(hb·hu).
		if bsHeightM <= 0 || utHeightM <= 0 {
			return fspl
		}
		crossover := 4 * math.Pi * bsHeightM * utHeightM * fHz / 299792458.0
		if distM <= crossover {
			return fspl
		}
		return 40*math.Log10(distM) - 20*math.Log10(bsHeightM*utHeightM)

	case model.PropagationNYU:
		if los {
			return fspl
		}
		return fspl + nyuNlosPenaltyDb

	default: // 3GPP UMa
		loss := fspl
		if !los {
			loss += nlosPenaltyDb
		}
		if cfg.Condition == model.ConditionBuildings {
			loss += buildingsEntryLoss
		}
		return loss
	}
}

// shadowSigmaDB returns the log-normal shadowing standard deviation for
// the current visibility state. Zero when shadowing is disabled.
func shadowSigmaDB(cfg *model.ChannelConfig, los bool) float64 {
	if !cfg.ShadowingEnabled {
		return 0
	}
	if los {
		return shadowSigmaLosDb
	}
	return shadowSigmaNlosDb
}

// antennaGainsDbi returns the (gNB, UE) antenna gains for the trial's
// antenna configuration. Phased arrays with direct-path beamforming
// realise the full array gain; parabolic elements use a fixed dish
// gain.
func antennaGainsDbi(cfg *model.ChannelConfig) (gnbGain, ueGain float64) {
	switch ant := cfg.Antenna.(type) {
	case model.PhasedArrayAntenna:
		return arrayGainDbi(ant.GnbShape), arrayGainDbi(ant.UeShape)
	case model.ParabolicAntenna:
		return parabolicGainDbi, parabolicGainDbi
	default:
		return 0, 0
	}
}

func arrayGainDbi(shape model.AntennaShape) float64 {
	elements := shape.Rows * shape.Cols
	if elements <= 0 {
		return 0
	}
	return 10 * math.Log10(float64(elements))
}

// noiseFloorDbm is the thermal noise over the band plus the receiver
// noise figure.
func noiseFloorDbm(bandwidthHz float64) float64 {
	if bandwidthHz <= 0 {
		bandwidthHz = 100e6
	}
	return thermalNoiseDbmHz + 10*math.Log10(bandwidthHz) + noiseFigureDb
}

// cqiThresholdsDb maps each CQI index (1..15) to the minimum SINR that
// supports it.
var cqiThresholdsDb = []float64{
	-6.7, -4.7, -2.3, 0.2, 2.4, 4.3, 5.9, 8.1,
	10.3, 11.7, 14.1, 16.3, 18.7, 21.0, 22.7,
}

// cqiFromSinr maps an SINR in dB to a CQI index in [0, 15].
func cqiFromSinr(sinrDb float64) int {
	cqi := 0
	for i, th := range cqiThresholdsDb {
		if sinrDb >= th {
			cqi = i + 1
		}
	}
	return cqi
}

// cqiToMcs is the error-model MCS per reported CQI.
var cqiToMcs = []int{
	0, 0, 2, 4, 6, 8, 11, 13, 15, 18, 20, 22, 24, 26, 27, 28,
}

// selectMcs applies the trial's AMC logic: the error-model path selects
// from the CQI table; the Shannon path derives the MCS from spectral
// efficiency.
func selectMcs(amc model.AmcModel, sinrDb float64, cqi int) int {
	switch amc {
	case model.AmcShannonModel:
		se := math.Log2(1 + math.Pow(10, sinrDb/10))
		mcs := int(se * 5)
		if mcs > 28 {
			mcs = 28
		}
		return mcs
	default:
		if cqi < 0 || cqi >= len(cqiToMcs) {
			return 0
		}
		return cqiToMcs[cqi]
	}
}

// tbSizeBytes approximates the transport-block size scheduled in one
// slot at the given SINR.
func tbSizeBytes(amc model.AmcModel, sinrDb, bandwidthHz float64, numerology uint8) int {
	se := math.Log2(1 + math.Pow(10, sinrDb/10))
	if amc == model.AmcErrorModel {
		// The error-model AMC backs off from capacity.
		se *= 0.75
	}
	slot := 0.001 / float64(uint(1)<<numerology)
	bits := se * bandwidthHz * slot
	if bits < 0 {
		return 0
	}
	return int(bits / 8)
}
