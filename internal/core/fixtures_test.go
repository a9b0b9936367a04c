package core

import "sakanacore/pkg/domain"

// Records used across the validator tests.
func scenarioA() domain.ExperimentRecord {
	return domain.ExperimentRecord{
		ID:       "exp-a",
		FreeText: "Chemical composition analysis using GLENS data, H2SO4 concentration measurement",
		Parameters: map[string]any{
			"h2so4_concentration": 45.0,
			"temperature_k":       220.0,
		},
	}
}

func scenarioB() domain.ExperimentRecord {
	return domain.ExperimentRecord{
		ID:         "exp-b",
		FreeText:   "Novel elegant sophisticated breakthrough theory",
		Parameters: map[string]any{},
	}
}

func scenarioC() domain.ExperimentRecord {
	return domain.ExperimentRecord{
		ID:         "exp-c",
		FreeText:   "signal detection spectroscopy experiment",
		Parameters: map[string]any{"snr_db": -20.0},
	}
}

func scenarioD() domain.ExperimentRecord {
	return domain.ExperimentRecord{
		ID:         "exp-d",
		FreeText:   "generic text with no domain keywords",
		Parameters: map[string]any{"x": 1},
	}
}

func signalRecord(id string, snr float64) domain.ExperimentRecord {
	return domain.ExperimentRecord{
		ID:         id,
		FreeText:   "Signal detection against instrument noise using MODIS measurement data",
		Parameters: map[string]any{"snr_db": snr},
	}
}

func codesOf(vs []domain.Violation) []domain.ViolationCode {
	out := make([]domain.ViolationCode, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Code)
	}
	return out
}
