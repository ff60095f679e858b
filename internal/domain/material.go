package domain

import (
	"math"
	"time"
)

// Tier bounds for extracted materials
const (
	MinTier = 1
	MaxTier = 5
)

// Purity bounds and refinement-level encoding
const (
	MaxPurity              = 1.0
	MinPurityAfterLoss     = 0.01
	RefinementLevelStep    = 0.1
	refinementLevelEpsilon = 1e-9
)

// Tier is the extraction tier of a material (1-5). It never changes after extraction.
type Tier int

// Valid reports whether the tier is within MinTier..MaxTier
func (t Tier) Valid() bool {
	return t >= MinTier && t <= MaxTier
}

// Purity separates the bounded purity value from refinement progression past 100%.
// Value is in [0,1]. RefinementLevel and LevelProgress are only non-zero when Value is 1.
type Purity struct {
	Value           float64 `json:"value"`
	RefinementLevel int     `json:"refinement_level"`
	LevelProgress   float64 `json:"level_progress"`
}

// NewPurity builds a purity in the canonical [0,1] range, clamping out-of-range input
func NewPurity(value float64) Purity {
	if value < 0 {
		value = 0
	}
	if value > MaxPurity {
		return PurityFromRaw(value)
	}
	return Purity{Value: value}
}

// PurityFromRaw converts the single-number encoding (values above 1.0 carry refinement
// levels in steps of 0.1) into a Purity.
func PurityFromRaw(raw float64) Purity {
	if raw <= MaxPurity {
		if raw < 0 {
			raw = 0
		}
		return Purity{Value: raw}
	}
	over := (raw - MaxPurity) / RefinementLevelStep
	level := int(math.Floor(over + refinementLevelEpsilon))
	progress := raw - MaxPurity - float64(level)*RefinementLevelStep
	if progress < 0 {
		progress = 0
	}
	return Purity{Value: MaxPurity, RefinementLevel: level, LevelProgress: progress}
}

// Raw returns the single-number encoding used by formulas that add or subtract purity
func (p Purity) Raw() float64 {
	if p.Value < MaxPurity {
		return p.Value
	}
	return MaxPurity + float64(p.RefinementLevel)*RefinementLevelStep + p.LevelProgress
}

// Effective is the purity clamped to 1.0
func (p Purity) Effective() float64 {
	return math.Min(p.Value, MaxPurity)
}

// MaterialType identifies a kind of raw material, e.g. "ferrite"
type MaterialType string

// MaterialStack is a quantity of one material at one tier and purity owned by one player
type MaterialStack struct {
	ID           string       `json:"id"`
	OwnerID      string       `json:"owner_id"`
	MaterialType MaterialType `json:"material_type"`
	Tier         Tier         `json:"tier"`
	Purity       Purity       `json:"purity"`
	Quantity     int          `json:"quantity"`
	IsRefined    bool         `json:"is_refined"`
	CreatedAt    time.Time    `json:"created_at,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at,omitempty"`
}

// FungibleWith reports whether two stacks can be merged.
// Purity may differ; it is combined as a quantity-weighted average.
func (s MaterialStack) FungibleWith(other MaterialStack) bool {
	return s.MaterialType == other.MaterialType &&
		s.Tier == other.Tier &&
		s.IsRefined == other.IsRefined
}

// StackKey groups stacks that can be merged for a single owner
type StackKey struct {
	OwnerID      string
	MaterialType MaterialType
	Tier         Tier
	IsRefined    bool
}

// Key returns the merge key of the stack
func (s MaterialStack) Key() StackKey {
	return StackKey{
		OwnerID:      s.OwnerID,
		MaterialType: s.MaterialType,
		Tier:         s.Tier,
		IsRefined:    s.IsRefined,
	}
}

// StackProduction describes material to credit to an owner. It is merged into a
// fungible stack when one exists, otherwise a new stack is created.
type StackProduction struct {
	OwnerID      string       `json:"owner_id"`
	MaterialType MaterialType `json:"material_type"`
	Tier         Tier         `json:"tier"`
	Purity       Purity       `json:"purity"`
	Quantity     int          `json:"quantity"`
	IsRefined    bool         `json:"is_refined"`
}

// Key returns the merge key of the production
func (p StackProduction) Key() StackKey {
	return StackKey{
		OwnerID:      p.OwnerID,
		MaterialType: p.MaterialType,
		Tier:         p.Tier,
		IsRefined:    p.IsRefined,
	}
}

// BlendPurity returns the quantity-weighted average of two purities.
// An empty side contributes nothing.
func BlendPurity(a Purity, qa int, b Purity, qb int) Purity {
	total := qa + qb
	if total <= 0 {
		return b
	}
	raw := (a.Raw()*float64(qa) + b.Raw()*float64(qb)) / float64(total)
	return PurityFromRaw(raw)
}
