package projects

import (
	"math"
	"time"
)

// FSIResult value object
type FSIResult struct {
	BaseFSI               float64 `json:"base_fsi"`
	BonusFSI              float64 `json:"bonus_fsi"`
	PermissibleFSI        float64 `json:"permissible_fsi"`
	ProposedFSI           float64 `json:"proposed_fsi"`
	FSIUtilizationPercent float64 `json:"fsi_utilization_percent"`
}

// SetbackResult value object
type SetbackResult struct {
	FrontM float64 `json:"front_m"`
	SideM  float64 `json:"side_m"`
	RearM  float64 `json:"rear_m"`
}

// ParkingResult value object
type ParkingResult struct {
	RequiredECS   int     `json:"required_ecs"`
	AreaPerECSSqm float64 `json:"area_per_ecs_sqm"`
}

// HeightResult value object
type HeightResult struct {
	PermissibleHeightM float64 `json:"permissible_height_m"`
	ProposedHeightM    float64 `json:"proposed_height_m"`
}

// EvaluationResult is embedded in a Project once it has been evaluated.
// All four sub-results and both list fields are always present; downstream
// readers depend on shape stability regardless of which path produced it.
type EvaluationResult struct {
	RuleVersion       string           `json:"rule_version"`
	EvaluatedAt       time.Time        `json:"evaluated_at"`
	FSI               FSIResult        `json:"fsi_result"`
	Setback           SetbackResult    `json:"setback_result"`
	Parking           ParkingResult    `json:"parking_result"`
	Height            HeightResult     `json:"height_result"`
	Compliant         bool             `json:"compliant"`
	Violations        []string         `json:"violations"`
	Warnings          []string         `json:"warnings"`
	CalculationTraces []map[string]any `json:"calculation_traces"`
}

// Normalize guarantees the stable shape: list fields non-nil.
func (r *EvaluationResult) Normalize() {
	if r.Violations == nil {
		r.Violations = []string{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	if r.CalculationTraces == nil {
		r.CalculationTraces = []map[string]any{}
	}
}

// FallbackVersion marks results computed locally instead of by the engine.
const FallbackVersion = "fallback_v1"

const fallbackWarning = "Using fallback calculation - start rule engine API for accurate results"

// FallbackEvaluation is the deterministic local calculation used when the
// rule engine is unreachable. Setbacks are fixed placeholders, not
// zone-derived; FSI is limited to base 1.0 with no bonuses.
func FallbackEvaluation(in EvaluationInput, at time.Time) EvaluationResult {
	proposedFSI := in.ProposedBuiltUpSqm / in.PlotAreaSqm

	res := EvaluationResult{
		RuleVersion: FallbackVersion,
		EvaluatedAt: at,
		FSI: FSIResult{
			BaseFSI:               1.0,
			BonusFSI:              0,
			PermissibleFSI:        1.0,
			ProposedFSI:           proposedFSI,
			FSIUtilizationPercent: proposedFSI * 100,
		},
		Setback: SetbackResult{
			FrontM: 4.5,
			SideM:  3.0,
			RearM:  3.0,
		},
		Parking: ParkingResult{
			RequiredECS:   int(math.Ceil(in.ProposedBuiltUpSqm / 100)),
			AreaPerECSSqm: 25,
		},
		Height: HeightResult{
			PermissibleHeightM: 45,
			ProposedHeightM:    in.ProposedHeightM,
		},
		Compliant:         proposedFSI <= 1.0,
		Violations:        []string{},
		Warnings:          []string{fallbackWarning},
		CalculationTraces: []map[string]any{},
	}
	if !res.Compliant {
		res.Violations = []string{"FSI exceeds limit (fallback calculation)"}
	}
	return res
}
