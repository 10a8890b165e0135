package projects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackEvaluationCompliant(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := EvaluationInput{
		Jurisdiction:       "maharashtra_udcpr",
		Zone:               "residential",
		PlotAreaSqm:        500,
		ProposedBuiltUpSqm: 500,
		ProposedHeightM:    15,
	}

	res := FallbackEvaluation(in, at)

	assert.Equal(t, FallbackVersion, res.RuleVersion)
	assert.Equal(t, at, res.EvaluatedAt)
	assert.True(t, res.Compliant)
	assert.Empty(t, res.Violations)

	assert.Equal(t, 1.0, res.FSI.BaseFSI)
	assert.Equal(t, 0.0, res.FSI.BonusFSI)
	assert.Equal(t, 1.0, res.FSI.PermissibleFSI)
	assert.Equal(t, 1.0, res.FSI.ProposedFSI)
	assert.Equal(t, 100.0, res.FSI.FSIUtilizationPercent)

	assert.Equal(t, 4.5, res.Setback.FrontM)
	assert.Equal(t, 3.0, res.Setback.SideM)
	assert.Equal(t, 3.0, res.Setback.RearM)

	assert.Equal(t, 5, res.Parking.RequiredECS)
	assert.Equal(t, 25.0, res.Parking.AreaPerECSSqm)

	assert.Equal(t, 45.0, res.Height.PermissibleHeightM)
	assert.Equal(t, 15.0, res.Height.ProposedHeightM)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "fallback calculation")
}

func TestFallbackEvaluationFSIViolation(t *testing.T) {
	at := time.Now()
	in := EvaluationInput{
		PlotAreaSqm:        500,
		ProposedBuiltUpSqm: 600,
	}

	res := FallbackEvaluation(in, at)

	assert.False(t, res.Compliant)
	assert.InDelta(t, 1.2, res.FSI.ProposedFSI, 1e-9)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "FSI exceeds limit (fallback calculation)", res.Violations[0])
}

func TestFallbackEvaluationParkingRoundsUp(t *testing.T) {
	tests := []struct {
		builtUp float64
		want    int
	}{
		{builtUp: 100, want: 1},
		{builtUp: 101, want: 2},
		{builtUp: 250, want: 3},
		{builtUp: 0, want: 0},
	}
	for _, tc := range tests {
		res := FallbackEvaluation(EvaluationInput{PlotAreaSqm: 1000, ProposedBuiltUpSqm: tc.builtUp}, time.Now())
		assert.Equal(t, tc.want, res.Parking.RequiredECS, "built-up %.0f", tc.builtUp)
	}
}

func TestFallbackEvaluationShapeStable(t *testing.T) {
	res := FallbackEvaluation(EvaluationInput{PlotAreaSqm: 100, ProposedBuiltUpSqm: 50}, time.Now())

	assert.NotNil(t, res.Violations)
	assert.NotNil(t, res.Warnings)
	assert.NotNil(t, res.CalculationTraces)
}

func TestNormalize(t *testing.T) {
	var res EvaluationResult
	res.Normalize()

	assert.NotNil(t, res.Violations)
	assert.NotNil(t, res.Warnings)
	assert.NotNil(t, res.CalculationTraces)

	// already-populated fields stay put
	res2 := EvaluationResult{Violations: []string{"x"}}
	res2.Normalize()
	assert.Equal(t, []string{"x"}, res2.Violations)
}

func TestProjectEvaluationInputFlattens(t *testing.T) {
	p := &Project{
		Jurisdiction: "mumbai_dcpr",
		Zone:         "commercial",
		Plot:         PlotDetails{AreaSqm: 800, RoadWidthM: 12, CornerPlot: true, FrontageM: 20},
		Building:     BuildingDetails{UseType: "residential", ProposedFloors: 7, ProposedHeightM: 21, ProposedBuiltUpSqm: 1200},
		Special:      SpecialConditions{TODZone: true},
	}

	in := p.EvaluationInput()

	assert.Equal(t, "mumbai_dcpr", in.Jurisdiction)
	assert.Equal(t, "commercial", in.Zone)
	assert.Equal(t, 800.0, in.PlotAreaSqm)
	assert.True(t, in.CornerPlot)
	assert.Equal(t, 7, in.ProposedFloors)
	assert.Equal(t, 1200.0, in.ProposedBuiltUpSqm)
	assert.True(t, in.TODZone)
	assert.False(t, in.SlumRehab)
}
