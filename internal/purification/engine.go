package purification

import (
	"fmt"
	"math"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/quality"
	"github.com/osse101/Crucible_Go/internal/utils"
)

// Outcome is the bucket a purification roll landed in
type Outcome string

const (
	OutcomeUpgrade   Outcome = "upgrade"
	OutcomeSame      Outcome = "same"
	OutcomeDowngrade Outcome = "downgrade"
)

// Odds are percentages that sum to 100
type Odds struct {
	Upgrade   float64 `json:"upgrade"`
	Same      float64 `json:"same"`
	Downgrade float64 `json:"downgrade"`
}

type oddsBand struct {
	below float64
	odds  Odds
}

// baseOddsTable is ordered by ascending upper bound; the last band catches the rest
var baseOddsTable = []oddsBand{
	{below: 0.2, odds: Odds{Upgrade: 80, Same: 15, Downgrade: 5}},
	{below: 0.4, odds: Odds{Upgrade: 70, Same: 20, Downgrade: 10}},
	{below: 0.6, odds: Odds{Upgrade: 60, Same: 25, Downgrade: 15}},
	{below: 0.75, odds: Odds{Upgrade: 45, Same: 30, Downgrade: 25}},
	{below: 0.85, odds: Odds{Upgrade: 35, Same: 35, Downgrade: 30}},
	{below: 0.95, odds: Odds{Upgrade: 25, Same: 40, Downgrade: 35}},
	{below: math.Inf(1), odds: Odds{Upgrade: 15, Same: 45, Downgrade: 40}},
}

// Attempt is the resolved result of one purification roll
type Attempt struct {
	Outcome   Outcome             `json:"outcome"`
	Odds      Odds                `json:"odds"`
	Roll      float64             `json:"roll"`
	Cost      int                 `json:"cost"`
	Delta     float64             `json:"delta"`
	OldPurity domain.Purity       `json:"old_purity"`
	NewPurity domain.Purity       `json:"new_purity"`
	OldGrade  domain.QualityGrade `json:"old_grade"`
	NewGrade  domain.QualityGrade `json:"new_grade"`
}

// Engine provides pure purification logic (no DB dependencies)
type Engine struct {
	rnd utils.RandomSource
}

// NewEngine creates a purification engine drawing from rnd
func NewEngine(rnd utils.RandomSource) *Engine {
	if rnd == nil {
		rnd = utils.NewSeededSource(0)
	}
	return &Engine{rnd: rnd}
}

// BaseOdds returns the unadjusted odds for the effective purity
func BaseOdds(p domain.Purity) Odds {
	eff := p.Effective()
	for _, band := range baseOddsTable {
		if eff < band.below {
			return band.odds
		}
	}
	return baseOddsTable[len(baseOddsTable)-1].odds
}

// AdjustedOdds applies the risk mode multipliers and clamps
func AdjustedOdds(p domain.Purity, mode domain.RiskMode) (Odds, error) {
	cfg, err := mode.Config()
	if err != nil {
		return Odds{}, err
	}
	base := BaseOdds(p)
	up := utils.Clamp(base.Upgrade*cfg.UpgradeMultiplier, MinUpgradeChance, MaxUpgradeChance)
	down := utils.Clamp(base.Downgrade*cfg.DowngradeMultiplier, MinDowngradeChance, MaxDowngradeChance)
	// upgrade is resolved first, so an overlap comes out of the downgrade share
	if up+down > 100 {
		down = 100 - up
	}
	return Odds{Upgrade: up, Same: 100 - up - down, Downgrade: down}, nil
}

// Cost is the number of units an attempt consumes regardless of outcome
func Cost(requested int, mode domain.RiskMode) (int, error) {
	cfg, err := mode.Config()
	if err != nil {
		return 0, err
	}
	return int(math.Floor(float64(requested)*cfg.MaterialCostPct/100 + 1e-9)), nil
}

// ValidateAmount checks the requested amount against the batch minimum and the stack
func ValidateAmount(requested, available int) error {
	if requested < MinBatchSize {
		return fmt.Errorf("%w: "+ErrMsgBelowMinBatch, domain.ErrInvalidQuantity, MinBatchSize)
	}
	if requested > available {
		return fmt.Errorf("%w: "+ErrMsgExceedsStack, domain.ErrInvalidQuantity, requested, available)
	}
	return nil
}

// Attempt rolls one purification. A downgrade is a normal result, not an error.
func (e *Engine) Attempt(purity domain.Purity, mode domain.RiskMode, requested, available int) (*Attempt, error) {
	if err := ValidateAmount(requested, available); err != nil {
		return nil, err
	}
	cfg, err := mode.Config()
	if err != nil {
		return nil, err
	}
	odds, err := AdjustedOdds(purity, mode)
	if err != nil {
		return nil, err
	}
	cost, err := Cost(requested, mode)
	if err != nil {
		return nil, err
	}

	res := &Attempt{
		Odds:      odds,
		Roll:      e.rnd.Next() * 100,
		Cost:      cost,
		OldPurity: purity,
		NewPurity: purity,
		OldGrade:  quality.GradeOf(purity),
	}

	raw := purity.Raw()
	switch {
	case res.Roll < odds.Upgrade:
		res.Outcome = OutcomeUpgrade
		res.Delta = e.improvement(purity, cfg)
		res.NewPurity = domain.PurityFromRaw(raw + res.Delta)
	case res.Roll < odds.Upgrade+odds.Same:
		res.Outcome = OutcomeSame
	default:
		res.Outcome = OutcomeDowngrade
		next := math.Max(domain.MinPurityAfterLoss, raw-e.loss(purity, cfg))
		res.Delta = next - raw
		res.NewPurity = domain.PurityFromRaw(next)
	}

	res.NewGrade = quality.GradeOf(res.NewPurity)
	return res, nil
}

func (e *Engine) improvement(p domain.Purity, cfg domain.RiskConfig) float64 {
	info := quality.RefinementLevelOf(p)
	factor := utils.GeometricDecay(LevelDecay, info.Level)

	eff := p.Effective()
	switch {
	case eff >= PeakPurityThreshold:
		factor *= PeakPurityGainFactor
	case eff >= HighPurityThreshold:
		factor *= HighPurityGainFactor
	}

	gain := utils.UniformBetween(e.rnd, cfg.MinImprovement, cfg.MaxImprovement) * factor
	return math.Max(gain, MinImprovement)
}

func (e *Engine) loss(p domain.Purity, cfg domain.RiskConfig) float64 {
	loss := utils.UniformBetween(e.rnd, MinContamination, MaxContamination) * cfg.ContaminationSeverity

	eff := p.Effective()
	switch {
	case quality.RefinementLevelOf(p).Level > 0:
		loss *= RefinedLossFactor
	case eff >= PeakPurityThreshold:
		loss *= PeakPurityLossFactor
	case eff >= HighPurityThreshold:
		loss *= HighPurityLossFactor
	}
	return loss
}
