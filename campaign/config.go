package campaign

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/nr-trace-campaign/core"
	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// Config is the campaign sweep configuration. One campaign runs a
// fixed (channel model, channel condition) pair over the seed×run
// matrix [StartSeed, EndSeed) × [1, RunsPerSeed].
type Config struct {
	OutputRoot string `yaml:"output_root"`

	ChannelModel     string `yaml:"channel_model"`
	ChannelCondition string `yaml:"channel_condition"`

	StartSeed   uint32 `yaml:"start_seed"`
	EndSeed     uint32 `yaml:"end_seed"`
	RunsPerSeed int    `yaml:"runs_per_seed"`

	UeCount           int     `yaml:"ue_count"`
	GnbCount          int     `yaml:"gnb_count"`
	CenterFrequencyHz float64 `yaml:"center_frequency_hz"`

	ErrorModelType    string `yaml:"error_model_type"`
	AmcSelectionModel string `yaml:"amc_selection_model"`

	HorizonSeconds float64 `yaml:"horizon_seconds"`
	Workers        int     `yaml:"workers"`
	Logging        bool    `yaml:"logging"`
}

// DefaultConfig mirrors the scenario defaults the corpus was designed
// around: 4 UEs on one gNB at 30.5 GHz, 10 s per trial.
func DefaultConfig() Config {
	return Config{
		OutputRoot:        "data/campaign",
		ChannelModel:      "ThreeGpp",
		ChannelCondition:  "Default",
		StartSeed:         1,
		EndSeed:           2,
		RunsPerSeed:       1,
		UeCount:           4,
		GnbCount:          1,
		CenterFrequencyHz: 30.5e9,
		ErrorModelType:    core.DefaultErrorModelType,
		AmcSelectionModel: "ErrorModel",
		HorizonSeconds:    10,
		Workers:           1,
	}
}

// LoadConfig reads a YAML sweep configuration from r, applying the
// defaults for fields left unset.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if err == io.EOF {
			// Empty file: all defaults.
			return &cfg, nil
		}
		return nil, fmt.Errorf("decode campaign config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML sweep configuration from path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open campaign config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate checks the sweep parameters. Channel-model, condition and
// AMC identifiers are validated through the same fail-closed paths the
// trial configuration uses, so a campaign with a bad identifier aborts
// before any trial starts.
func (c *Config) Validate() error {
	if c.OutputRoot == "" {
		return fmt.Errorf("campaign config: output_root must be set")
	}
	if c.EndSeed <= c.StartSeed {
		return fmt.Errorf("campaign config: end_seed (%d) must be greater than start_seed (%d)",
			c.EndSeed, c.StartSeed)
	}
	if c.RunsPerSeed < 1 {
		return fmt.Errorf("campaign config: runs_per_seed must be at least 1, got %d", c.RunsPerSeed)
	}
	if c.UeCount < 0 || c.GnbCount < 0 {
		return fmt.Errorf("campaign config: node counts must not be negative")
	}
	if c.CenterFrequencyHz <= 0 {
		return fmt.Errorf("campaign config: center_frequency_hz must be positive")
	}

	if _, err := core.SelectChannelConfig(c.ChannelModel, c.ChannelCondition, "",
		core.AntennaParams{UeShape: core.DefaultUeAntenna, GnbShape: core.DefaultGnbAntenna}); err != nil {
		return err
	}
	if _, err := core.NewLinkAdaptationConfig(c.ErrorModelType, c.AmcSelectionModel); err != nil {
		return err
	}
	return nil
}

// Horizon returns the per-trial simulated duration.
func (c *Config) Horizon() time.Duration {
	if c.HorizonSeconds <= 0 {
		return core.DefaultHorizon
	}
	return time.Duration(c.HorizonSeconds * float64(time.Second))
}

// Specs expands the sweep into its trial matrix in row-major order:
// all runs of a seed before the next seed, runs numbered from 1.
func (c *Config) Specs() []model.RunSpec {
	cm, _ := model.ParseChannelModel(c.ChannelModel)
	cc, _ := model.ParseChannelCondition(c.ChannelCondition)

	specs := make([]model.RunSpec, 0, int(c.EndSeed-c.StartSeed)*c.RunsPerSeed)
	for seed := c.StartSeed; seed < c.EndSeed; seed++ {
		for run := 1; run <= c.RunsPerSeed; run++ {
			specs = append(specs, model.RunSpec{
				Seed:              seed,
				Run:               uint32(run),
				ChannelModel:      cm,
				ChannelCondition:  cc,
				UeCount:           c.UeCount,
				GnbCount:          c.GnbCount,
				CenterFrequencyHz: c.CenterFrequencyHz,
			})
		}
	}
	return specs
}
