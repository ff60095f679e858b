package domain

import (
	"fmt"
	"strings"
)

// RiskMode selects the cost/variance trade-off of a purification attempt
type RiskMode string

const (
	RiskSafe       RiskMode = "safe"
	RiskStandard   RiskMode = "standard"
	RiskAggressive RiskMode = "aggressive"
	RiskYolo       RiskMode = "yolo"
)

// AllRiskModes lists every risk mode
var AllRiskModes = []RiskMode{RiskSafe, RiskStandard, RiskAggressive, RiskYolo}

// RiskConfig is the fixed tuning record behind a risk mode
type RiskConfig struct {
	MaterialCostPct       float64 `json:"material_cost_pct"`
	UpgradeMultiplier     float64 `json:"upgrade_multiplier"`
	DowngradeMultiplier   float64 `json:"downgrade_multiplier"`
	MinImprovement        float64 `json:"min_improvement"`
	MaxImprovement        float64 `json:"max_improvement"`
	ContaminationSeverity float64 `json:"contamination_severity"`
}

// Config returns the tuning record for the mode.
// Adding a mode without a case here fails with ErrInvalidRiskMode.
func (m RiskMode) Config() (RiskConfig, error) {
	switch m {
	case RiskSafe:
		return RiskConfig{
			MaterialCostPct:       5,
			UpgradeMultiplier:     0.8,
			DowngradeMultiplier:   0.5,
			MinImprovement:        0.01,
			MaxImprovement:        0.03,
			ContaminationSeverity: 0.5,
		}, nil
	case RiskStandard:
		return RiskConfig{
			MaterialCostPct:       10,
			UpgradeMultiplier:     1.0,
			DowngradeMultiplier:   1.0,
			MinImprovement:        0.02,
			MaxImprovement:        0.05,
			ContaminationSeverity: 1.0,
		}, nil
	case RiskAggressive:
		return RiskConfig{
			MaterialCostPct:       20,
			UpgradeMultiplier:     1.25,
			DowngradeMultiplier:   1.5,
			MinImprovement:        0.04,
			MaxImprovement:        0.10,
			ContaminationSeverity: 1.5,
		}, nil
	case RiskYolo:
		return RiskConfig{
			MaterialCostPct:       35,
			UpgradeMultiplier:     1.5,
			DowngradeMultiplier:   2.0,
			MinImprovement:        0.08,
			MaxImprovement:        0.20,
			ContaminationSeverity: 2.5,
		}, nil
	default:
		return RiskConfig{}, fmt.Errorf("%w: %q", ErrInvalidRiskMode, string(m))
	}
}

// ParseRiskMode accepts a mode name in any case
func ParseRiskMode(s string) (RiskMode, error) {
	mode := RiskMode(strings.ToLower(strings.TrimSpace(s)))
	if _, err := mode.Config(); err != nil {
		return "", err
	}
	return mode, nil
}
