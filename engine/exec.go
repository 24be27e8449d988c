package engine

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/signalsfoundry/nr-trace-campaign/internal/logging"
	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// ExecEngine invokes an external simulator binary for each trial. The
// binary receives the trial parameters as command-line arguments and is
// expected to write its trace files into the working directory it is
// started in.
type ExecEngine struct {
	// Binary is the path to the simulator executable.
	Binary string
	// ExtraArgs are appended after the generated trial arguments.
	ExtraArgs []string

	Log    logging.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecEngine returns an engine shelling out to the given binary.
func NewExecEngine(binary string) *ExecEngine {
	return &ExecEngine{Binary: binary, Log: logging.Noop()}
}

// Run launches the simulator in workDir and waits for it to finish.
func (e *ExecEngine) Run(ctx context.Context, cfg *model.EngineConfig, workDir string) error {
	if e.Binary == "" {
		return fmt.Errorf("exec engine: no simulator binary configured")
	}

	args := trialArgs(cfg)
	args = append(args, e.ExtraArgs...)

	log := e.Log
	if log == nil {
		log = logging.Noop()
	}
	log.Info(ctx, "launching simulator",
		logging.String("binary", e.Binary),
		logging.String("trial", cfg.Spec.DirName()),
		logging.String("workdir", workDir),
	)

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Dir = workDir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("simulator %s failed for %s: %w", e.Binary, cfg.Spec.DirName(), err)
	}
	return nil
}

// trialArgs renders the EngineConfig as the simulator's command line.
func trialArgs(cfg *model.EngineConfig) []string {
	return []string{
		fmt.Sprintf("--seed=%d", cfg.Spec.Seed),
		fmt.Sprintf("--run=%d", cfg.Spec.Run),
		fmt.Sprintf("--channelModel=%s", cfg.Spec.ChannelModel),
		fmt.Sprintf("--channelConditionModel=%s", cfg.Spec.ChannelCondition),
		fmt.Sprintf("--ueNum=%d", cfg.Spec.UeCount),
		fmt.Sprintf("--gNbNum=%d", cfg.Spec.GnbCount),
		fmt.Sprintf("--frequency=%g", cfg.Spec.CenterFrequencyHz),
		fmt.Sprintf("--errorModelType=%s", cfg.LinkAdaptation.ErrorModelType),
		fmt.Sprintf("--amcSelectionModel=%s", cfg.LinkAdaptation.Amc),
		fmt.Sprintf("--logging=%t", cfg.Logging),
	}
}
