package campaign

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/signalsfoundry/nr-trace-campaign/internal/logging"
	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// Collector moves a trial's trace files from its scratch directory into
// the trial directory under the campaign output root. Files are matched
// by exact expected name, collected once, and never globbed, so stale
// files from unrelated runs can never leak into a trial directory.
type Collector struct {
	OutputRoot string
	Log        logging.Logger
}

// Collect creates the trial directory (idempotently) and moves every
// expected file that is present. Missing files are recorded and logged
// as warnings; they never abort the campaign.
func (c *Collector) Collect(ctx context.Context, spec model.RunSpec, scratchDir string, expected model.TraceFileSet) (collected, missing []string, err error) {
	log := c.Log
	if log == nil {
		log = logging.Noop()
	}

	trialDir := filepath.Join(c.OutputRoot, spec.DirName())
	if err := os.MkdirAll(trialDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create trial dir %s: %w", trialDir, err)
	}

	for _, name := range expected {
		src := filepath.Join(scratchDir, name)
		if _, statErr := os.Stat(src); statErr != nil {
			missing = append(missing, name)
			log.Warn(ctx, "expected trace file missing",
				logging.String("trial", spec.DirName()),
				logging.String("file", name),
			)
			continue
		}
		if moveErr := moveFile(src, filepath.Join(trialDir, name)); moveErr != nil {
			return collected, missing, fmt.Errorf("collect %s for %s: %w", name, spec.DirName(), moveErr)
		}
		collected = append(collected, name)
	}
	return collected, missing, nil
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// two paths live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
