package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Crucible_Go/internal/domain"
)

func TestGradeOfValue_Boundaries(t *testing.T) {
	tests := []struct {
		purity float64
		want   domain.QualityGrade
	}{
		{0, domain.GradeScrap},
		{0.1999, domain.GradeScrap},
		{0.2, domain.GradeCrude},
		{0.3999, domain.GradeCrude},
		{0.4, domain.GradeStandard},
		{0.6, domain.GradeRefined},
		{0.8, domain.GradePure},
		{0.9499, domain.GradePure},
		{0.95, domain.GradePristine},
		{0.9998, domain.GradePristine},
		{0.9999, domain.GradeQuantum},
		{1.0, domain.GradeQuantum},
		{1.35, domain.GradeQuantum},
		{-0.2, domain.GradeScrap},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, GradeOfValue(tt.purity), "purity %v", tt.purity)
		})
	}
}

// Every purity in [0,1] falls in exactly one band and the bands tile the range.
func TestBands_PartitionUnitInterval(t *testing.T) {
	table := Bands()
	require.Len(t, table, len(domain.AllGrades))

	assert.Equal(t, 0.0, table[0].Lower)
	assert.Equal(t, domain.MaxPurity, table[len(table)-1].Upper)
	for i := 1; i < len(table); i++ {
		assert.Equal(t, table[i-1].Upper, table[i].Lower, "gap or overlap before %s", table[i].Grade)
		assert.Equal(t, domain.AllGrades[i], table[i].Grade)
	}

	for i := 0; i <= 10000; i++ {
		p := float64(i) / 10000
		matches := 0
		for j, b := range table {
			last := j == len(table)-1
			if p >= b.Lower && (p < b.Upper || (last && p <= b.Upper)) {
				matches++
				assert.Equal(t, b.Grade, GradeOfValue(p), "purity %v", p)
			}
		}
		assert.Equal(t, 1, matches, "purity %v", p)
	}
}

func TestGradeOf_UsesEffectivePurity(t *testing.T) {
	assert.Equal(t, domain.GradeQuantum, GradeOf(domain.PurityFromRaw(1.25)))
	assert.Equal(t, domain.GradeStandard, GradeOf(domain.NewPurity(0.58)))
}

func TestRefinementLevelOf(t *testing.T) {
	tests := []struct {
		name  string
		raw   float64
		level int
		bonus float64
		eff   float64
	}{
		{"below cap", 0.73, 0, 1.0, 0.73},
		{"exactly cap", 1.0, 0, 1.0, 1.0},
		{"partial first level", 1.05, 0, 1.0, 1.0},
		{"level one", 1.1, 1, 1.01, 1.0},
		{"level three with progress", 1.34, 3, 1.03, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := RefinementLevelOf(domain.PurityFromRaw(tt.raw))
			assert.Equal(t, tt.level, info.Level)
			assert.InDelta(t, tt.bonus, info.BonusMultiplier, 1e-9)
			assert.InDelta(t, tt.eff, info.EffectivePurity, 1e-9)
		})
	}
}

func TestGradeDisplayName(t *testing.T) {
	assert.Equal(t, "Pristine", GradeDisplayName(domain.GradePristine))
	assert.Equal(t, "Scrap", GradeDisplayName(domain.GradeScrap))
}
