package core

import (
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// DefaultHorizon is the fixed simulated duration of a trial.
const DefaultHorizon = 10 * time.Second

// DefaultDlPort is the downlink traffic port on every UE server.
const DefaultDlPort uint16 = 1234

// TraceHarness attaches UEs to base stations, plans the downlink
// traffic sources, and selects the trace channels required by the
// downstream corpus format. It never touches the filesystem; moving
// the engine's output files belongs to the campaign orchestrator.
type TraceHarness struct {
	TrafficStart time.Duration
	Horizon      time.Duration
	DlPort       uint16
}

// NewTraceHarness returns a harness with traffic running from t=0 to
// the given horizon.
func NewTraceHarness(horizon time.Duration) *TraceHarness {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &TraceHarness{
		Horizon: horizon,
		DlPort:  DefaultDlPort,
	}
}

// Arm attaches every UE to its nearest base station, builds one
// downlink flow per UE, and returns the traffic plan plus the trace
// files the engine must produce. An empty topology arms to an empty
// plan; a UE with no base station to attach to is an error.
func (h *TraceHarness) Arm(topo *model.Topology) (model.TrafficConfig, model.TraceFileSet, error) {
	traffic := model.TrafficConfig{
		StartAt: h.TrafficStart,
		StopAt:  h.Horizon,
		DlPort:  h.DlPort,
	}

	for _, ue := range topo.UserEquipments {
		gnb := nearestBaseStation(ue, topo.BaseStations)
		if gnb == nil {
			return model.TrafficConfig{}, nil, fmt.Errorf(
				"attach %s: no base station available", ue.ID)
		}
		ue.AttachedTo = gnb
		traffic.Flows = append(traffic.Flows, model.TrafficFlow{
			UeID:  ue.ID,
			GnbID: gnb.ID,
		})
	}

	return traffic, model.DefaultTraceFileSet(), nil
}

// nearestBaseStation implements the engine's attachment policy: the
// closest gNB by 3D distance. Ties go to the earlier gNB in grid
// order.
func nearestBaseStation(ue *model.RadioNode, gnbs []*model.RadioNode) *model.RadioNode {
	var best *model.RadioNode
	bestDist := math.Inf(1)
	for _, gnb := range gnbs {
		if d := ue.Position.DistanceTo(gnb.Position); d < bestDist {
			best = gnb
			bestDist = d
		}
	}
	return best
}
