package core

import (
	"testing"
	"time"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

func TestArm_AttachesToNearestBaseStation(t *testing.T) {
	near := &model.RadioNode{ID: "gnb-0", Position: model.Vec3{X: 0, Y: 0, Z: 25}}
	far := &model.RadioNode{ID: "gnb-1", Position: model.Vec3{X: 500, Y: 0, Z: 25}}
	topo := &model.Topology{
		BaseStations: []*model.RadioNode{near, far},
		UserEquipments: []*model.RadioNode{
			{ID: "ue-0", Position: model.Vec3{X: 10, Y: 20, Z: 1.5}},
			{ID: "ue-1", Position: model.Vec3{X: 480, Y: 0, Z: 1.5}},
		},
	}

	harness := NewTraceHarness(10 * time.Second)
	traffic, traces, err := harness.Arm(topo)
	if err != nil {
		t.Fatalf("Arm: %v", err)
	}

	if topo.UserEquipments[0].AttachedTo != near {
		t.Fatalf("ue-0 attached to %v, want gnb-0", topo.UserEquipments[0].AttachedTo)
	}
	if topo.UserEquipments[1].AttachedTo != far {
		t.Fatalf("ue-1 attached to %v, want gnb-1", topo.UserEquipments[1].AttachedTo)
	}

	if len(traffic.Flows) != 2 {
		t.Fatalf("flows = %d, want one per UE", len(traffic.Flows))
	}
	if traffic.Flows[0] != (model.TrafficFlow{UeID: "ue-0", GnbID: "gnb-0"}) {
		t.Fatalf("flow 0 = %+v", traffic.Flows[0])
	}
	if traffic.DlPort != DefaultDlPort {
		t.Fatalf("dl port = %d, want %d", traffic.DlPort, DefaultDlPort)
	}
	if traffic.StopAt != 10*time.Second {
		t.Fatalf("traffic stop = %v, want 10s", traffic.StopAt)
	}

	want := model.DefaultTraceFileSet()
	if len(traces) != len(want) {
		t.Fatalf("trace set = %v, want %v", traces, want)
	}
	for _, name := range want {
		if !traces.Contains(name) {
			t.Fatalf("trace set missing %s", name)
		}
	}
}

func TestArm_TieGoesToEarlierBaseStation(t *testing.T) {
	a := &model.RadioNode{ID: "gnb-0", Position: model.Vec3{X: -100, Z: 25}}
	b := &model.RadioNode{ID: "gnb-1", Position: model.Vec3{X: 100, Z: 25}}
	topo := &model.Topology{
		BaseStations:   []*model.RadioNode{a, b},
		UserEquipments: []*model.RadioNode{{ID: "ue-0", Position: model.Vec3{Z: 1.5}}},
	}

	if _, _, err := NewTraceHarness(0).Arm(topo); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	if topo.UserEquipments[0].AttachedTo != a {
		t.Fatalf("equidistant UE should attach to the earlier gNB")
	}
}

func TestArm_EmptyTopology(t *testing.T) {
	harness := NewTraceHarness(0)
	traffic, _, err := harness.Arm(&model.Topology{})
	if err != nil {
		t.Fatalf("Arm on empty topology: %v", err)
	}
	if len(traffic.Flows) != 0 {
		t.Fatalf("empty topology should arm to an empty plan, got %d flows", len(traffic.Flows))
	}
	if harness.Horizon != DefaultHorizon {
		t.Fatalf("zero horizon should default to %v, got %v", DefaultHorizon, harness.Horizon)
	}
}

func TestArm_UeWithoutBaseStation(t *testing.T) {
	topo := &model.Topology{
		UserEquipments: []*model.RadioNode{{ID: "ue-0", Position: model.Vec3{Z: 1.5}}},
	}
	if _, _, err := NewTraceHarness(0).Arm(topo); err == nil {
		t.Fatalf("expected error when a UE has no base station to attach to")
	}
}
