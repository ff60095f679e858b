package domain

// QualityGrade is the display band derived from effective purity
type QualityGrade string

const (
	GradeScrap    QualityGrade = "SCRAP"
	GradeCrude    QualityGrade = "CRUDE"
	GradeStandard QualityGrade = "STANDARD"
	GradeRefined  QualityGrade = "REFINED"
	GradePure     QualityGrade = "PURE"
	GradePristine QualityGrade = "PRISTINE"
	GradeQuantum  QualityGrade = "QUANTUM"
)

// AllGrades lists the grades from worst to best
var AllGrades = []QualityGrade{
	GradeScrap,
	GradeCrude,
	GradeStandard,
	GradeRefined,
	GradePure,
	GradePristine,
	GradeQuantum,
}

// Rank returns the 0-based position of the grade, or -1 for an unknown grade
func (g QualityGrade) Rank() int {
	for i, grade := range AllGrades {
		if grade == g {
			return i
		}
	}
	return -1
}

// RefinementInfo describes progression beyond 100% purity
type RefinementInfo struct {
	Level           int     `json:"level"`
	BonusMultiplier float64 `json:"bonus_multiplier"`
	EffectivePurity float64 `json:"effective_purity"`
}
