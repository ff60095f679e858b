package manufacturing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/quality"
	"github.com/osse101/Crucible_Go/internal/utils"
)

// Selection maps each required material type to the stack chosen to satisfy it
type Selection map[domain.MaterialType]domain.MaterialStack

// Contribution is one material's input into a stat
type Contribution struct {
	Attribute float64
	Purity    float64
}

// Synthesis is the deterministic result of a validated crafting request
type Synthesis struct {
	Stats    map[domain.StatName]float64
	Consumed []domain.ConsumedMaterial
}

// Synthesizer computes crafted stats from the chosen materials
type Synthesizer struct {
	profiles ProfileLookup
}

// NewSynthesizer creates a synthesizer resolving attributes through profiles
func NewSynthesizer(profiles ProfileLookup) *Synthesizer {
	return &Synthesizer{profiles: profiles}
}

// RequiredQuantity is floor(quantityPerUnit × batch)
func RequiredQuantity(req domain.BlueprintRequirement, batch int) int {
	return int(math.Floor(req.QuantityPerUnit*float64(batch) + floorEpsilon))
}

// ComputeStat applies the synthesis formula. No contributors returns base unchanged.
func ComputeStat(base float64, contributors []Contribution, captainBonus float64) float64 {
	if len(contributors) == 0 {
		return base
	}
	attrs := make([]float64, len(contributors))
	purities := make([]float64, len(contributors))
	for i, c := range contributors {
		attrs[i] = c.Attribute
		purities[i] = c.Purity
	}
	return math.Round(base * (utils.Mean(attrs) / attributeScale) * utils.Mean(purities) * (1 + captainBonus))
}

// Duration is tier × DurationPerTier scaled down by the speed bonus
func Duration(tier domain.Tier, speedBonus float64) time.Duration {
	speed := utils.Clamp(speedBonus, 0, MaxSpeedBonus)
	return time.Duration(math.Round(float64(tier) * float64(DurationPerTier) * (1 - speed)))
}

// Validate checks the selection against every requirement and returns what would be consumed.
// Nothing is mutated.
func Validate(bp *domain.Blueprint, sel Selection, batch int) ([]domain.ConsumedMaterial, error) {
	if batch < 1 || batch > MaxBatchSize {
		return nil, fmt.Errorf("%w: "+ErrMsgBatchOutOfRange, domain.ErrInvalidQuantity, MaxBatchSize)
	}

	required := make(map[domain.MaterialType]struct{}, len(bp.RequiredMaterials))
	consumed := make([]domain.ConsumedMaterial, 0, len(bp.RequiredMaterials))
	for _, req := range bp.RequiredMaterials {
		if _, dup := required[req.MaterialType]; dup {
			return nil, fmt.Errorf("%w: "+ErrMsgDuplicateMaterial, domain.ErrInvalidInput, req.MaterialType)
		}
		required[req.MaterialType] = struct{}{}

		st, ok := sel[req.MaterialType]
		if !ok {
			return nil, fmt.Errorf("%w: "+ErrMsgNoSelection, domain.ErrInsufficientMaterial, req.MaterialType)
		}
		if st.MaterialType != req.MaterialType {
			return nil, fmt.Errorf("%w: "+ErrMsgSelectionMismatch, domain.ErrInvalidInput, st.ID, st.MaterialType, req.MaterialType)
		}

		needed := RequiredQuantity(req, batch)
		if st.Quantity < needed {
			return nil, fmt.Errorf("%w: "+ErrMsgShortStack, domain.ErrInsufficientMaterial, st.ID, st.Quantity, needed)
		}
		consumed = append(consumed, domain.ConsumedMaterial{
			StackID:      st.ID,
			MaterialType: st.MaterialType,
			Tier:         st.Tier,
			Purity:       st.Purity,
			Quantity:     needed,
		})
	}

	for mt := range sel {
		if _, ok := required[mt]; !ok {
			return nil, fmt.Errorf("%w: "+ErrMsgUnusedSelection, domain.ErrInvalidInput, mt)
		}
	}
	return consumed, nil
}

// Synthesize validates the request and computes the output stats
func (s *Synthesizer) Synthesize(ctx context.Context, bp *domain.Blueprint, sel Selection, batch int, captainBonus float64) (*Synthesis, error) {
	consumed, err := Validate(bp, sel, batch)
	if err != nil {
		return nil, err
	}

	profiles := make(map[domain.MaterialType]domain.AttributeProfile, len(sel))
	for _, req := range bp.RequiredMaterials {
		st := sel[req.MaterialType]
		p, err := s.profiles.Profile(ctx, st.MaterialType, st.Tier)
		if err != nil {
			return nil, err
		}
		profiles[req.MaterialType] = p
	}

	bonus := math.Max(captainBonus, 0)
	stats := make(map[domain.StatName]float64, len(bp.BaseStats))
	for stat, base := range bp.BaseStats {
		attr, ok := stat.Attribute()
		if !ok {
			stats[stat] = base
			continue
		}

		var contributors []Contribution
		for _, req := range bp.RequiredMaterials {
			if !req.Affects(stat) {
				continue
			}
			info := quality.RefinementLevelOf(sel[req.MaterialType].Purity)
			contributors = append(contributors, Contribution{
				Attribute: profiles[req.MaterialType].Value(attr),
				Purity:    info.EffectivePurity * info.BonusMultiplier,
			})
		}
		stats[stat] = ComputeStat(base, contributors, bonus)
	}

	return &Synthesis{Stats: stats, Consumed: consumed}, nil
}
