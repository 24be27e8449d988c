package engine

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// traceWriters holds one buffered writer per requested trace file.
// Files not in the requested set are never created.
type traceWriters struct {
	files   []*os.File
	writers map[string]*bufio.Writer
}

func newTraceWriters(workDir string, traces model.TraceFileSet) (*traceWriters, error) {
	tw := &traceWriters{writers: make(map[string]*bufio.Writer)}
	for _, name := range traces {
		f, err := os.Create(filepath.Join(workDir, name))
		if err != nil {
			tw.close()
			return nil, fmt.Errorf("create trace %s: %w", name, err)
		}
		tw.files = append(tw.files, f)
		tw.writers[name] = bufio.NewWriter(f)
	}

	tw.printf(model.TracePathloss, "time(s)\tcellId\trnti\tueId\tpathloss(dB)\n")
	tw.printf(model.TraceDlDataSinr, "time(s)\tcellId\trnti\tueId\tsinr(dB)\n")
	tw.printf(model.TraceDlMacStats, "time(s)\tcellId\trnti\tueId\tcqi\tmcs\ttbSize(bytes)\n")
	tw.printf(model.TraceGnbMacCtrlMsgs, "time(s)\tcellId\trnti\tmessage\n")

	return tw, nil
}

// printf writes to the named trace if it was requested; otherwise it is
// a no-op.
func (tw *traceWriters) printf(name, format string, args ...any) {
	if w, ok := tw.writers[name]; ok {
		fmt.Fprintf(w, format, args...)
	}
}

func (tw *traceWriters) flush() error {
	for name, w := range tw.writers {
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush trace %s: %w", name, err)
		}
	}
	return nil
}

func (tw *traceWriters) close() {
	for _, f := range tw.files {
		f.Close()
	}
}

// writeTopologyDiagram emits the gnuplot descriptor of the trial
// layout: one labelled point per node.
func (tw *traceWriters) writeTopologyDiagram(cfg *model.EngineConfig) {
	name := model.TraceTopologyDiagram
	if _, ok := tw.writers[name]; !ok {
		return
	}

	tw.printf(name, "set title \"%s %s/%s\"\n",
		cfg.Spec.DirName(), cfg.Spec.ChannelModel, cfg.Spec.ChannelCondition)
	tw.printf(name, "set xlabel \"x (m)\"\nset ylabel \"y (m)\"\nset key off\n")
	for _, gnb := range cfg.Topology.BaseStations {
		tw.printf(name, "set label \"%s\" at %.2f,%.2f point pointtype 7\n",
			gnb.ID, gnb.Position.X, gnb.Position.Y)
	}
	for _, ue := range cfg.Topology.UserEquipments {
		tw.printf(name, "set label \"%s\" at %.2f,%.2f point pointtype 5\n",
			ue.ID, ue.Position.X, ue.Position.Y)
	}
	tw.printf(name, "plot -1 notitle\n")
}
