// Package quality classifies purity into display grades and refinement levels.
package quality

import (
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/Crucible_Go/internal/domain"
)

// Band is a half-open purity interval [Lower, Upper) mapped to a grade.
// The last band is closed at 1.0.
type Band struct {
	Grade domain.QualityGrade `json:"grade"`
	Lower float64             `json:"lower"`
	Upper float64             `json:"upper"`
}

var bands = []Band{
	{Grade: domain.GradeScrap, Lower: 0, Upper: BoundCrude},
	{Grade: domain.GradeCrude, Lower: BoundCrude, Upper: BoundStandard},
	{Grade: domain.GradeStandard, Lower: BoundStandard, Upper: BoundRefined},
	{Grade: domain.GradeRefined, Lower: BoundRefined, Upper: BoundPure},
	{Grade: domain.GradePure, Lower: BoundPure, Upper: BoundPristine},
	{Grade: domain.GradePristine, Lower: BoundPristine, Upper: BoundQuantum},
	{Grade: domain.GradeQuantum, Lower: BoundQuantum, Upper: domain.MaxPurity},
}

var titleCaser = cases.Title(language.English)

// Bands returns a copy of the grade band table, worst grade first
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// GradeOf returns the grade of the purity's effective value
func GradeOf(p domain.Purity) domain.QualityGrade {
	return GradeOfValue(p.Raw())
}

// GradeOfValue grades a raw purity number. Values above 1.0 are Quantum,
// negative values are Scrap.
func GradeOfValue(raw float64) domain.QualityGrade {
	eff := math.Min(raw, domain.MaxPurity)
	switch {
	case eff >= BoundQuantum:
		return domain.GradeQuantum
	case eff >= BoundPristine:
		return domain.GradePristine
	case eff >= BoundPure:
		return domain.GradePure
	case eff >= BoundRefined:
		return domain.GradeRefined
	case eff >= BoundStandard:
		return domain.GradeStandard
	case eff >= BoundCrude:
		return domain.GradeCrude
	default:
		return domain.GradeScrap
	}
}

// RefinementLevelOf reports the refinement level and its effectiveness bonus.
// For purity at or below 1.0 this is {0, 1.0, purity}.
func RefinementLevelOf(p domain.Purity) domain.RefinementInfo {
	if p.Value < domain.MaxPurity || p.RefinementLevel <= 0 {
		return domain.RefinementInfo{
			Level:           0,
			BonusMultiplier: 1.0,
			EffectivePurity: p.Effective(),
		}
	}
	return domain.RefinementInfo{
		Level:           p.RefinementLevel,
		BonusMultiplier: 1.0 + RefinementBonusPerLevel*float64(p.RefinementLevel),
		EffectivePurity: domain.MaxPurity,
	}
}

// GradeDisplayName renders a grade for players, e.g. "Pristine"
func GradeDisplayName(g domain.QualityGrade) string {
	return titleCaser.String(string(g))
}
