package campaign

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// metadataFileName is written next to each trial's trace files so the
// analysis pipeline can filter incomplete trials without re-scanning.
const metadataFileName = "metadata.json"

type trialMetadata struct {
	Seed              uint32   `json:"seed"`
	Run               uint32   `json:"run"`
	ChannelModel      string   `json:"channel_model"`
	ChannelCondition  string   `json:"channel_condition"`
	UeCount           int      `json:"ue_count"`
	GnbCount          int      `json:"gnb_count"`
	CenterFrequencyHz float64  `json:"center_frequency_hz"`
	Status            string   `json:"status"`
	StartedAt         string   `json:"started_at"`
	DurationMs        int64    `json:"duration_ms"`
	Collected         []string `json:"collected"`
	Missing           []string `json:"missing,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// writeTrialMetadata serialises the trial's collection outcome into its
// directory.
func writeTrialMetadata(outputRoot string, res TrialResult) error {
	meta := trialMetadata{
		Seed:              res.Spec.Seed,
		Run:               res.Spec.Run,
		ChannelModel:      res.Spec.ChannelModel.String(),
		ChannelCondition:  res.Spec.ChannelCondition.String(),
		UeCount:           res.Spec.UeCount,
		GnbCount:          res.Spec.GnbCount,
		CenterFrequencyHz: res.Spec.CenterFrequencyHz,
		Status:            res.Status().String(),
		StartedAt:         res.StartedAt.UTC().Format(time.RFC3339),
		DurationMs:        res.Duration.Milliseconds(),
		Collected:         res.Collected,
		Missing:           res.Missing,
	}
	if res.Err != nil {
		meta.Error = res.Err.Error()
	}

	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal trial metadata: %w", err)
	}

	path := filepath.Join(outputRoot, res.Spec.DirName(), metadataFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write trial metadata: %w", err)
	}
	return nil
}
