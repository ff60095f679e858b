// Package catalog serves material attribute profiles and blueprints loaded from configuration.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/logger"
)

type profileKey struct {
	materialType domain.MaterialType
	tier         domain.Tier
}

// Catalog is the read-only set of materials and blueprints.
// Tier-resolved profiles are cached.
type Catalog struct {
	materials  map[domain.MaterialType]MaterialDef
	blueprints map[string]domain.Blueprint
	captains   []CaptainDef
	profiles   *expirable.LRU[profileKey, domain.AttributeProfile]
}

// New builds a catalog from a validated config
func New(cfg *Config, cacheSize int, cacheTTL time.Duration) *Catalog {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	c := &Catalog{
		materials:  make(map[domain.MaterialType]MaterialDef, len(cfg.Materials)),
		blueprints: make(map[string]domain.Blueprint, len(cfg.Blueprints)),
		captains:   append([]CaptainDef(nil), cfg.Captains...),
		profiles:   expirable.NewLRU[profileKey, domain.AttributeProfile](cacheSize, nil, cacheTTL),
	}
	for _, m := range cfg.Materials {
		c.materials[m.MaterialType] = m
	}
	for _, def := range cfg.Blueprints {
		c.blueprints[def.ID] = toBlueprint(def)
	}
	return c
}

// Load reads and validates the catalog in dir
func Load(ctx context.Context, dir string, cacheSize int) (*Catalog, error) {
	loader := NewLoader()
	cfg, err := loader.Load(dir)
	if err != nil {
		return nil, err
	}
	if err := loader.Validate(cfg); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgCatalogLoaded, "dir", dir, "materials", len(cfg.Materials), "blueprints", len(cfg.Blueprints), "captains", len(cfg.Captains))
	return New(cfg, cacheSize, DefaultCacheTTL), nil
}

// TierMultiplier scales tier-1 attribute values: 1.0 at tier 1, 3.0 at tier 5
func TierMultiplier(tier domain.Tier) float64 {
	return 1 + TierScalePerLevel*float64(tier-1)
}

// Profile returns the attribute values of the material at the tier
func (c *Catalog) Profile(ctx context.Context, materialType domain.MaterialType, tier domain.Tier) (domain.AttributeProfile, error) {
	if !tier.Valid() {
		return domain.AttributeProfile{}, fmt.Errorf("%w: tier %d", domain.ErrInvalidInput, tier)
	}

	key := profileKey{materialType: materialType, tier: tier}
	if p, ok := c.profiles.Get(key); ok {
		return copyProfile(p), nil
	}

	def, ok := c.materials[materialType]
	if !ok {
		return domain.AttributeProfile{}, fmt.Errorf("%w: %s", domain.ErrUnknownMaterialType, materialType)
	}

	scale := TierMultiplier(tier)
	values := make(map[domain.AttributeName]float64, len(def.Attributes))
	for attr, v := range def.Attributes {
		values[attr] = v * scale
	}
	p := domain.AttributeProfile{MaterialType: materialType, Tier: tier, Values: values}
	c.profiles.Add(key, p)
	return copyProfile(p), nil
}

// Blueprint returns a copy of the blueprint
func (c *Catalog) Blueprint(ctx context.Context, blueprintID string) (*domain.Blueprint, error) {
	bp, ok := c.blueprints[blueprintID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlueprintNotFound, blueprintID)
	}
	out := copyBlueprint(bp)
	return &out, nil
}

// Material returns the material definition
func (c *Catalog) Material(materialType domain.MaterialType) (MaterialDef, error) {
	def, ok := c.materials[materialType]
	if !ok {
		return MaterialDef{}, fmt.Errorf("%w: %s", domain.ErrUnknownMaterialType, materialType)
	}
	return def, nil
}

// Materials lists every material, sorted by type
func (c *Catalog) Materials() []MaterialDef {
	out := make([]MaterialDef, 0, len(c.materials))
	for _, m := range c.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialType < out[j].MaterialType })
	return out
}

// Blueprints lists every blueprint, sorted by id
func (c *Catalog) Blueprints() []domain.Blueprint {
	out := make([]domain.Blueprint, 0, len(c.blueprints))
	for _, bp := range c.blueprints {
		out = append(out, copyBlueprint(bp))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func toBlueprint(def BlueprintDef) domain.Blueprint {
	bp := domain.Blueprint{
		ID:                def.ID,
		Name:              def.Name,
		Tier:              domain.Tier(def.Tier),
		BaseStats:         make(map[domain.StatName]float64, len(def.BaseStats)),
		RequiredMaterials: make([]domain.BlueprintRequirement, 0, len(def.RequiredMaterials)),
	}
	for stat, v := range def.BaseStats {
		bp.BaseStats[stat] = v
	}
	for _, req := range def.RequiredMaterials {
		bp.RequiredMaterials = append(bp.RequiredMaterials, domain.BlueprintRequirement{
			MaterialType:    req.MaterialType,
			QuantityPerUnit: req.QuantityPerUnit,
			AffectsStats:    append([]domain.StatName(nil), req.AffectsStats...),
		})
	}
	return bp
}

func copyBlueprint(bp domain.Blueprint) domain.Blueprint {
	out := bp
	out.BaseStats = make(map[domain.StatName]float64, len(bp.BaseStats))
	for k, v := range bp.BaseStats {
		out.BaseStats[k] = v
	}
	out.RequiredMaterials = make([]domain.BlueprintRequirement, len(bp.RequiredMaterials))
	for i, req := range bp.RequiredMaterials {
		req.AffectsStats = append([]domain.StatName(nil), req.AffectsStats...)
		out.RequiredMaterials[i] = req
	}
	return out
}

func copyProfile(p domain.AttributeProfile) domain.AttributeProfile {
	values := make(map[domain.AttributeName]float64, len(p.Values))
	for k, v := range p.Values {
		values[k] = v
	}
	p.Values = values
	return p
}

// Captains returns the configured captain bonuses
func (c *Catalog) Captains() []CaptainDef {
	return append([]CaptainDef(nil), c.captains...)
}
