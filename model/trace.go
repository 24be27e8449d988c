package model

// Fixed trace file names emitted by the engine into its working
// directory. The collector matches these by exact name.
const (
	TraceDlMacStats      = "DlMacStats.txt"
	TraceDlDataSinr      = "DlDataSinr.txt"
	TraceGnbMacCtrlMsgs  = "GnbMacCtrlMsgs.txt"
	TracePathloss        = "Pathloss.txt"
	TraceTopologyDiagram = "hexagonal-topology.gnuplot"
)

// TraceFileSet is the ordered set of trace files expected from one
// trial.
type TraceFileSet []string

// DefaultTraceFileSet returns the files of the downstream corpus
// format: MAC scheduling stats, DL data SINR, gNB control messages,
// pathloss, and the topology diagram descriptor.
func DefaultTraceFileSet() TraceFileSet {
	return TraceFileSet{
		TraceDlMacStats,
		TraceDlDataSinr,
		TraceGnbMacCtrlMsgs,
		TracePathloss,
		TraceTopologyDiagram,
	}
}

// Contains reports whether name is part of the set.
func (s TraceFileSet) Contains(name string) bool {
	for _, f := range s {
		if f == name {
			return true
		}
	}
	return false
}
