package model

// AmcModel selects the MCS-selection logic used by the scheduler and
// for CQI reporting.
type AmcModel int

const (
	AmcErrorModel AmcModel = iota
	AmcShannonModel
)

func (m AmcModel) String() string {
	switch m {
	case AmcErrorModel:
		return "ErrorModel"
	case AmcShannonModel:
		return "ShannonModel"
	default:
		return "unknown"
	}
}

// ParseAmcModel maps an AMC selection identifier to its enum value.
func ParseAmcModel(s string) (AmcModel, bool) {
	switch s {
	case "ErrorModel":
		return AmcErrorModel, true
	case "ShannonModel":
		return AmcShannonModel, true
	default:
		return 0, false
	}
}

// AmcModelNames returns the accepted AMC selection identifiers.
func AmcModelNames() []string {
	return []string{"ErrorModel", "ShannonModel"}
}

// LinkAdaptationConfig wires the error model and AMC selection logic.
// The same configuration is applied to uplink and downlink so that CQI
// reporting and scheduler MCS selection stay consistent within a trial.
type LinkAdaptationConfig struct {
	// ErrorModelType identifies the block-error model used for both
	// directions, e.g. "NrEesmCcT1".
	ErrorModelType string
	Amc            AmcModel
}
