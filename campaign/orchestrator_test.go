package campaign

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/signalsfoundry/nr-trace-campaign/core"
	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// scriptedEngine writes the requested trace files per trial, optionally
// omitting files or failing outright for specific trials.
type scriptedEngine struct {
	omit map[string][]string // trial dir name -> files not written
	fail map[string]error    // trial dir name -> forced failure
}

func (e *scriptedEngine) Run(ctx context.Context, cfg *model.EngineConfig, workDir string) error {
	if err := e.fail[cfg.Spec.DirName()]; err != nil {
		return err
	}
	omitted := make(map[string]bool)
	for _, name := range e.omit[cfg.Spec.DirName()] {
		omitted[name] = true
	}
	for _, name := range cfg.Traces {
		if omitted[name] {
			continue
		}
		content := fmt.Sprintf("%s %s\n", cfg.Spec.DirName(), name)
		if err := os.WriteFile(filepath.Join(workDir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func sweepConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.OutputRoot = t.TempDir()
	cfg.StartSeed, cfg.EndSeed = 100, 102
	cfg.RunsPerSeed = 2
	cfg.UeCount = 2
	cfg.HorizonSeconds = 1
	return &cfg
}

func TestRun_FullSweepProducesTrialDirs(t *testing.T) {
	cfg := sweepConfig(t)
	orch := NewOrchestrator(cfg, &scriptedEngine{})

	results, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	completed, incomplete, failed := results.Summary()
	if completed != 4 || incomplete != 0 || failed != 0 {
		t.Fatalf("summary = %d/%d/%d, want 4/0/0", completed, incomplete, failed)
	}

	wantDirs := []string{"seed100_run1", "seed100_run2", "seed101_run1", "seed101_run2"}
	for _, dir := range wantDirs {
		for _, name := range model.DefaultTraceFileSet() {
			if _, err := os.Stat(filepath.Join(cfg.OutputRoot, dir, name)); err != nil {
				t.Fatalf("trial %s missing %s: %v", dir, name, err)
			}
		}
		if _, err := os.Stat(filepath.Join(cfg.OutputRoot, dir, "metadata.json")); err != nil {
			t.Fatalf("trial %s missing metadata: %v", dir, err)
		}
	}

	if _, err := os.Stat(filepath.Join(cfg.OutputRoot, scratchDirName)); !os.IsNotExist(err) {
		t.Fatalf("scratch root should be removed after the campaign")
	}
}

func TestRun_MissingFileIsIncompleteNotFatal(t *testing.T) {
	cfg := sweepConfig(t)
	eng := &scriptedEngine{
		omit: map[string][]string{
			"seed100_run2": {model.TracePathloss},
		},
	}

	results, err := NewOrchestrator(cfg, eng).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	completed, incomplete, failed := results.Summary()
	if completed != 3 || incomplete != 1 || failed != 0 {
		t.Fatalf("summary = %d/%d/%d, want 3/1/0", completed, incomplete, failed)
	}

	res, ok := results.Get(model.RunSpec{Seed: 100, Run: 2,
		ChannelModel: model.ChannelThreeGpp, ChannelCondition: model.ConditionDefault,
		UeCount: cfg.UeCount, GnbCount: cfg.GnbCount, CenterFrequencyHz: cfg.CenterFrequencyHz})
	if !ok {
		t.Fatalf("incomplete trial not recorded")
	}
	if len(res.Missing) != 1 || res.Missing[0] != model.TracePathloss {
		t.Fatalf("missing = %v, want [%s]", res.Missing, model.TracePathloss)
	}

	// The trial directory still exists with everything that was
	// collected.
	if _, err := os.Stat(filepath.Join(cfg.OutputRoot, "seed100_run2", model.TraceDlMacStats)); err != nil {
		t.Fatalf("collected file absent from incomplete trial dir: %v", err)
	}
}

func TestRun_EngineFailureAbortsOnlyThatTrial(t *testing.T) {
	cfg := sweepConfig(t)
	eng := &scriptedEngine{
		fail: map[string]error{
			"seed101_run1": errors.New("simulator crashed"),
		},
	}

	results, err := NewOrchestrator(cfg, eng).Run(context.Background())
	if err != nil {
		t.Fatalf("engine failures must not abort the campaign, got %v", err)
	}

	completed, _, failed := results.Summary()
	if completed != 3 || failed != 1 {
		t.Fatalf("summary completed/failed = %d/%d, want 3/1", completed, failed)
	}

	// A failed trial produces no output directory.
	if _, err := os.Stat(filepath.Join(cfg.OutputRoot, "seed101_run1")); !os.IsNotExist(err) {
		t.Fatalf("failed trial should leave no trial directory")
	}
}

func TestRun_ConfigurationErrorAbortsBeforeTrials(t *testing.T) {
	cfg := sweepConfig(t)
	cfg.AmcSelectionModel = "Oracle"

	_, err := NewOrchestrator(cfg, &scriptedEngine{}).Run(context.Background())
	if err == nil {
		t.Fatalf("expected configuration error to abort the campaign")
	}
	var confErr *core.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("error type = %T, want *core.ConfigurationError", err)
	}

	entries, readErr := os.ReadDir(cfg.OutputRoot)
	if readErr != nil {
		t.Fatalf("read output root: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("no trial dirs should exist after an aborted campaign, got %v", entries)
	}
}

func TestRun_BoundedWorkerPool(t *testing.T) {
	cfg := sweepConfig(t)
	cfg.Workers = 3

	results, err := NewOrchestrator(cfg, &scriptedEngine{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(results.All()); got != 4 {
		t.Fatalf("recorded trials = %d, want 4", got)
	}
}

func TestRun_WithIndexPersistsTrials(t *testing.T) {
	cfg := sweepConfig(t)
	ix := openTestIndex(t)

	_, err := NewOrchestrator(cfg, &scriptedEngine{}, WithIndex(ix)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	n, err := ix.TrialCount(context.Background())
	if err != nil {
		t.Fatalf("TrialCount: %v", err)
	}
	if n != 4 {
		t.Fatalf("indexed trials = %d, want 4", n)
	}
	status, err := ix.TrialStatus(context.Background(), 100, 1)
	if err != nil {
		t.Fatalf("TrialStatus: %v", err)
	}
	if status != "completed" {
		t.Fatalf("indexed status = %q, want completed", status)
	}
}
