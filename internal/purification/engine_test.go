package purification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/utils"
)

func TestAdjustedOdds_LowPurityStandard(t *testing.T) {
	odds, err := AdjustedOdds(domain.NewPurity(0.10), domain.RiskStandard)
	require.NoError(t, err)

	assert.InDelta(t, 80.0, odds.Upgrade, 1e-9)
	assert.InDelta(t, 15.0, odds.Same, 1e-9)
	assert.InDelta(t, 5.0, odds.Downgrade, 1e-9)
}

func TestAdjustedOdds_AlwaysSumToHundred(t *testing.T) {
	purities := []float64{0, 0.1, 0.3, 0.5, 0.7, 0.8, 0.9, 0.95, 1.0, 1.35}
	for _, mode := range domain.AllRiskModes {
		for _, p := range purities {
			odds, err := AdjustedOdds(domain.PurityFromRaw(p), mode)
			require.NoError(t, err)

			assert.InDelta(t, 100.0, odds.Upgrade+odds.Same+odds.Downgrade, 1e-9, "%s at %.2f", mode, p)
			assert.GreaterOrEqual(t, odds.Upgrade, MinUpgradeChance)
			assert.LessOrEqual(t, odds.Upgrade, MaxUpgradeChance)
			assert.GreaterOrEqual(t, odds.Same, 0.0)
			assert.GreaterOrEqual(t, odds.Downgrade, 0.0)
			assert.LessOrEqual(t, odds.Downgrade, MaxDowngradeChance)
		}
	}
}

func TestAdjustedOdds_Clamps(t *testing.T) {
	tests := []struct {
		name   string
		purity float64
		mode   domain.RiskMode
		want   Odds
	}{
		{"safe floors downgrade", 0.10, domain.RiskSafe, Odds{Upgrade: 64, Same: 31, Downgrade: 5}},
		{"aggressive caps upgrade", 0.10, domain.RiskAggressive, Odds{Upgrade: 90, Same: 2.5, Downgrade: 7.5}},
		{"yolo at peak", 0.97, domain.RiskYolo, Odds{Upgrade: 22.5, Same: 17.5, Downgrade: 60}},
		{"yolo overlap trims downgrade", 0.50, domain.RiskYolo, Odds{Upgrade: 90, Same: 0, Downgrade: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdjustedOdds(domain.NewPurity(tt.purity), tt.mode)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Upgrade, got.Upgrade, 1e-9)
			assert.InDelta(t, tt.want.Same, got.Same, 1e-9)
			assert.InDelta(t, tt.want.Downgrade, got.Downgrade, 1e-9)
		})
	}
}

func TestAdjustedOdds_UnknownMode(t *testing.T) {
	_, err := AdjustedOdds(domain.NewPurity(0.5), domain.RiskMode("reckless"))
	assert.ErrorIs(t, err, domain.ErrInvalidRiskMode)
}

func TestCost(t *testing.T) {
	tests := []struct {
		requested int
		mode      domain.RiskMode
		want      int
	}{
		{100, domain.RiskStandard, 10},
		{100, domain.RiskYolo, 35},
		{19, domain.RiskYolo, 6},
		{10, domain.RiskSafe, 0},
		{20, domain.RiskSafe, 1},
		{10, domain.RiskAggressive, 2},
	}

	for _, tt := range tests {
		got, err := Cost(tt.requested, tt.mode)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%d at %s", tt.requested, tt.mode)
	}
}

func TestAttempt_RejectsBadAmounts(t *testing.T) {
	e := NewEngine(utils.NewFixedSource(0))

	_, err := e.Attempt(domain.NewPurity(0.5), domain.RiskStandard, 9, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = e.Attempt(domain.NewPurity(0.5), domain.RiskStandard, 101, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = e.Attempt(domain.NewPurity(0.5), domain.RiskMode(""), 50, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidRiskMode)
}

func TestAttempt_Upgrade(t *testing.T) {
	e := NewEngine(utils.NewFixedSource(0.0, 0.5))

	res, err := e.Attempt(domain.NewPurity(0.10), domain.RiskStandard, 100, 100)
	require.NoError(t, err)

	assert.Equal(t, OutcomeUpgrade, res.Outcome)
	assert.Equal(t, 10, res.Cost)
	assert.InDelta(t, 0.035, res.Delta, 1e-9)
	assert.InDelta(t, 0.135, res.NewPurity.Value, 1e-9)
	assert.Equal(t, domain.GradeScrap, res.OldGrade)
	assert.Equal(t, domain.GradeScrap, res.NewGrade)
}

func TestAttempt_Same(t *testing.T) {
	e := NewEngine(utils.NewFixedSource(0.85))

	res, err := e.Attempt(domain.NewPurity(0.10), domain.RiskStandard, 50, 100)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSame, res.Outcome)
	assert.Equal(t, res.OldPurity, res.NewPurity)
	assert.Equal(t, 5, res.Cost, "cost is charged regardless of outcome")
}

func TestAttempt_Downgrade(t *testing.T) {
	e := NewEngine(utils.NewFixedSource(0.99, 0.5))

	res, err := e.Attempt(domain.NewPurity(0.65), domain.RiskStandard, 100, 100)
	require.NoError(t, err)

	assert.Equal(t, OutcomeDowngrade, res.Outcome)
	assert.InDelta(t, 0.55, res.NewPurity.Value, 1e-9)
	assert.InDelta(t, -0.10, res.Delta, 1e-9)
	assert.Equal(t, domain.GradeRefined, res.OldGrade)
	assert.Equal(t, domain.GradeStandard, res.NewGrade)
}

func TestAttempt_DowngradeFloorsAtMinimumPurity(t *testing.T) {
	e := NewEngine(utils.NewFixedSource(0.999, 0.999))

	res, err := e.Attempt(domain.NewPurity(0.05), domain.RiskYolo, 10, 10)
	require.NoError(t, err)

	assert.Equal(t, OutcomeDowngrade, res.Outcome)
	assert.InDelta(t, domain.MinPurityAfterLoss, res.NewPurity.Value, 1e-12)
}

func TestAttempt_DowngradeAtRefinementLevelIsSoftened(t *testing.T) {
	e := NewEngine(utils.NewFixedSource(0.999, 0.5))

	res, err := e.Attempt(domain.PurityFromRaw(1.25), domain.RiskStandard, 10, 10)
	require.NoError(t, err)

	assert.Equal(t, OutcomeDowngrade, res.Outcome)
	// 0.10 loss scaled by the refined factor
	assert.InDelta(t, 1.23, res.NewPurity.Raw(), 1e-9)
	assert.Equal(t, 2, res.NewPurity.RefinementLevel)
}

func TestAttempt_ImprovementNeverStalls(t *testing.T) {
	e := NewEngine(utils.NewFixedSource(0.0, 0.0))

	res, err := e.Attempt(domain.PurityFromRaw(2.0), domain.RiskSafe, 10, 10)
	require.NoError(t, err)

	assert.Equal(t, OutcomeUpgrade, res.Outcome)
	assert.InDelta(t, MinImprovement, res.Delta, 1e-12)
	assert.InDelta(t, 2.001, res.NewPurity.Raw(), 1e-9)
}

func TestAttempt_UpgradeCanCrossIntoRefinementLevel(t *testing.T) {
	e := NewEngine(utils.NewFixedSource(0.0, 0.999))

	res, err := e.Attempt(domain.NewPurity(0.999), domain.RiskYolo, 10, 10)
	require.NoError(t, err)

	assert.Equal(t, OutcomeUpgrade, res.Outcome)
	assert.Greater(t, res.NewPurity.Raw(), 1.0)
	assert.InDelta(t, 1.0, res.NewPurity.Value, 1e-12)
	assert.Equal(t, domain.GradeQuantum, res.NewGrade)
}
