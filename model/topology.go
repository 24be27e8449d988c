package model

// HexLayout describes the hexagonal-grid placement of base stations.
// Distances and heights are in metres.
type HexLayout struct {
	InterSiteDistanceM float64
	Sectorization      int
	BsHeightM          float64
	UtHeightM          float64
}

// Band is the physical-layer band descriptor for a trial.
type Band struct {
	CenterFrequencyHz float64
	BandwidthHz       float64
	NumCc             int
}

// Topology is the ordered collection of radio nodes for one trial,
// plus the layout and band they were built for. It is created once
// per trial and discarded at trial end.
type Topology struct {
	BaseStations   []*RadioNode
	UserEquipments []*RadioNode
	Layout         HexLayout
	Band           Band
}

// Empty reports whether the topology has no nodes at all. An empty
// topology is valid; downstream stages no-op on it.
func (t *Topology) Empty() bool {
	return len(t.BaseStations) == 0 && len(t.UserEquipments) == 0
}
