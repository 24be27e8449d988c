package core

import "github.com/signalsfoundry/nr-trace-campaign/model"

// DefaultErrorModelType is the block-error model used when none is
// requested.
const DefaultErrorModelType = "NrEesmCcT1"

// NewLinkAdaptationConfig selects the error-model/AMC strategy used for
// MCS selection. amcSelectionModel must be exactly "ErrorModel" or
// "ShannonModel"; anything else is a *ConfigurationError. The resulting
// configuration is applied identically to uplink and downlink.
func NewLinkAdaptationConfig(errorModelType, amcSelectionModel string) (*model.LinkAdaptationConfig, error) {
	amc, ok := model.ParseAmcModel(amcSelectionModel)
	if !ok {
		return nil, &ConfigurationError{
			Field:    "amcSelectionModel",
			Value:    amcSelectionModel,
			Accepted: model.AmcModelNames(),
		}
	}

	if errorModelType == "" {
		errorModelType = DefaultErrorModelType
	}

	return &model.LinkAdaptationConfig{
		ErrorModelType: errorModelType,
		Amc:            amc,
	}, nil
}
