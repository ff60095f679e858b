package manufacturing

import (
	"context"

	"github.com/osse101/Crucible_Go/internal/domain"
)

// ProfileLookup resolves the attribute table of a material at a tier
type ProfileLookup interface {
	Profile(ctx context.Context, materialType domain.MaterialType, tier domain.Tier) (domain.AttributeProfile, error)
}

// BlueprintResolver resolves blueprints by id
type BlueprintResolver interface {
	Blueprint(ctx context.Context, blueprintID string) (*domain.Blueprint, error)
}

// Catalog is the read-only game data the synthesizer needs
type Catalog interface {
	ProfileLookup
	BlueprintResolver
}

// Bonus is an external multiplier applied to a job, e.g. from an assigned captain
type Bonus struct {
	Stat  float64 `json:"stat"`
	Speed float64 `json:"speed"`
}

// BonusProvider supplies the bonus an owner currently has
type BonusProvider interface {
	Bonus(ctx context.Context, ownerID string) (Bonus, error)
}

// StaticBonuses is a fixed per-owner bonus table
type StaticBonuses map[string]Bonus

// Bonus returns the owner's entry, or no bonus
func (b StaticBonuses) Bonus(ctx context.Context, ownerID string) (Bonus, error) {
	return b[ownerID], nil
}
