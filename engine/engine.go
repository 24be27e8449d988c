// Package engine defines the boundary to the discrete-event simulation
// engine and provides two implementations: an adapter that shells out
// to an external simulator binary, and an in-process synthetic engine
// used for corpus dry runs and tests.
package engine

import (
	"context"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// Engine runs one fully configured simulation trial to completion,
// writing its trace files into workDir. Implementations must be
// deterministic: the same EngineConfig produces the same trace files.
// A returned error is an engine failure; it aborts the current trial
// only.
type Engine interface {
	Run(ctx context.Context, cfg *model.EngineConfig, workDir string) error
}
