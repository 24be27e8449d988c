package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// Scenario defaults follow the 3GPP Urban Macro deployment
// (TR 38.901 Table 7.4.1-1): 25 m base stations, 1.5 m terminals,
// 200 m inter-site distance.
const (
	DefaultInterSiteDistanceM = 200.0
	DefaultSectorization      = 1
	DefaultBsHeightM          = 25.0
	DefaultUtHeightM          = 1.5
	DefaultUeBaseSpeedMps     = 1.0

	DefaultBandwidthHz = 100e6
	DefaultNumCc       = 1
)

// Default antenna panels: a 4×8 uniform planar array at the gNB and a
// single element at the UE.
var (
	DefaultGnbAntenna = model.AntennaShape{Rows: 4, Cols: 8}
	DefaultUeAntenna  = model.AntennaShape{Rows: 1, Cols: 1}
)

// The first UE is anchored at a fixed point inside the origin sector;
// later UEs fan out from it deterministically.
var ueAnchor = model.Vec3{X: 10, Y: 20}

// TopologyBuilder derives base-station and user-equipment placement and
// mobility from a handful of scenario parameters. Building is fully
// deterministic: the same inputs reproduce every position and velocity
// bit-identically.
type TopologyBuilder struct {
	UeCount  int
	GnbCount int

	InterSiteDistanceM float64
	Sectorization      int
	BsHeightM          float64
	UtHeightM          float64

	// UeBaseSpeedMps is the speed of UE 0; UE i moves at base + 3·i
	// metres per second so the corpus spans a spread of Doppler
	// conditions without manual enumeration.
	UeBaseSpeedMps float64

	UeAntenna  model.AntennaShape
	GnbAntenna model.AntennaShape

	Band model.Band
}

// NewTopologyBuilder returns a builder preloaded with the Urban Macro
// defaults for the given node counts and centre frequency.
func NewTopologyBuilder(ueCount, gnbCount int, centerFrequencyHz float64) *TopologyBuilder {
	return &TopologyBuilder{
		UeCount:            ueCount,
		GnbCount:           gnbCount,
		InterSiteDistanceM: DefaultInterSiteDistanceM,
		Sectorization:      DefaultSectorization,
		BsHeightM:          DefaultBsHeightM,
		UtHeightM:          DefaultUtHeightM,
		UeBaseSpeedMps:     DefaultUeBaseSpeedMps,
		UeAntenna:          DefaultUeAntenna,
		GnbAntenna:         DefaultGnbAntenna,
		Band: model.Band{
			CenterFrequencyHz: centerFrequencyHz,
			BandwidthHz:       DefaultBandwidthHz,
			NumCc:             DefaultNumCc,
		},
	}
}

// Build lays out the scenario. Base stations sit on a hexagonal grid
// around the origin; UEs start at the anchor point with an
// index-dependent offset and a zig-zag constant velocity. Zero counts
// yield an empty but valid topology.
func (b *TopologyBuilder) Build() *model.Topology {
	sectors := b.Sectorization
	if sectors < 1 {
		sectors = 1
	}

	topo := &model.Topology{
		Layout: model.HexLayout{
			InterSiteDistanceM: b.InterSiteDistanceM,
			Sectorization:      sectors,
			BsHeightM:          b.BsHeightM,
			UtHeightM:          b.UtHeightM,
		},
		Band: b.Band,
	}

	for i := 0; i < b.GnbCount; i++ {
		// Sectorized gNBs are co-located at their site; only the
		// site index drives placement.
		site := i / sectors
		x, y := hexSitePosition(site, b.InterSiteDistanceM)
		topo.BaseStations = append(topo.BaseStations, &model.RadioNode{
			ID:       fmt.Sprintf("gnb-%d", i),
			Role:     model.RoleBaseStation,
			Position: model.Vec3{X: x, Y: y, Z: b.BsHeightM},
			Antenna:  b.GnbAntenna,
		})
	}

	for i := 0; i < b.UeCount; i++ {
		pos := ueAnchor
		pos.Z = b.UtHeightM
		if i > 0 {
			pos.X = 50.0 * float64(i)
			pos.Y = 30.0 * zigzag(i)
		}

		speed := b.UeBaseSpeedMps + 3.0*float64(i)
		topo.UserEquipments = append(topo.UserEquipments, &model.RadioNode{
			ID:       fmt.Sprintf("ue-%d", i),
			Role:     model.RoleUserEquipment,
			Position: pos,
			Velocity: model.Vec3{X: speed, Y: zigzag(i) * speed},
			Antenna:  b.UeAntenna,
		})
	}

	return topo
}

// zigzag is +1 for even indices and -1 for odd ones.
func zigzag(i int) float64 {
	if i%2 == 0 {
		return 1
	}
	return -1
}

// hexSitePosition places site index on a spiral of concentric hexagonal
// rings: site 0 at the origin, ring r holding 6r sites at r·isd from
// the centre. Neighbouring sites are one inter-site distance apart.
func hexSitePosition(index int, isd float64) (x, y float64) {
	if index == 0 {
		return 0, 0
	}

	ring := 1
	base := 1
	for index >= base+6*ring {
		base += 6 * ring
		ring++
	}

	pos := index - base
	side := pos / ring
	step := pos % ring

	// Walk from the ring corner along the ring edge.
	cornerAngle := math.Pi/6 + float64(side)*math.Pi/3
	edgeAngle := cornerAngle + 2*math.Pi/3

	x = float64(ring)*isd*math.Cos(cornerAngle) + float64(step)*isd*math.Cos(edgeAngle)
	y = float64(ring)*isd*math.Sin(cornerAngle) + float64(step)*isd*math.Sin(edgeAngle)
	return x, y
}
