package model

import "fmt"

// RunSpec uniquely identifies one simulation trial. (Seed, Run) is the
// reproducibility key: identical RunSpec values must produce
// bit-identical RNG draws in the engine.
type RunSpec struct {
	Seed uint32
	Run  uint32

	ChannelModel      ChannelModel
	ChannelCondition  ChannelCondition
	UeCount           int
	GnbCount          int
	CenterFrequencyHz float64
}

// DirName is the per-trial directory name under the campaign root.
func (s RunSpec) DirName() string {
	return fmt.Sprintf("seed%d_run%d", s.Seed, s.Run)
}

func (s RunSpec) String() string {
	return fmt.Sprintf("%s %s/%s ue=%d gnb=%d f=%.2fGHz",
		s.DirName(), s.ChannelModel, s.ChannelCondition,
		s.UeCount, s.GnbCount, s.CenterFrequencyHz/1e9)
}

// RngSeed folds the (seed, run) pair into a single 64-bit stream seed.
// The mapping is fixed so re-running a RunSpec reproduces every draw.
func (s RunSpec) RngSeed() int64 {
	return int64(s.Seed)<<32 | int64(s.Run)
}
