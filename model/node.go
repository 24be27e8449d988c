package model

// Role distinguishes the two kinds of radio nodes in a scenario.
type Role int

const (
	RoleBaseStation Role = iota
	RoleUserEquipment
)

func (r Role) String() string {
	switch r {
	case RoleBaseStation:
		return "gNB"
	case RoleUserEquipment:
		return "UE"
	default:
		return "unknown"
	}
}

// AntennaShape is the rows × columns layout of a node's antenna panel.
type AntennaShape struct {
	Rows int
	Cols int
}

// RadioNode represents one base station or user terminal in a trial.
// Position and Velocity are set during topology construction and are
// not mutated afterwards; AttachedTo is set once by the trace harness
// when a UE is attached to its serving base station.
type RadioNode struct {
	ID       string
	Role     Role
	Position Vec3
	Velocity Vec3
	Antenna  AntennaShape

	// AttachedTo is nil for base stations and for UEs that have not
	// been attached yet.
	AttachedTo *RadioNode
}
