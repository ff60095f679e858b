package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Crucible_Go/internal/domain"
)

const shippedCatalogDir = "../../configs/catalog"

func writeCatalogFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_ShippedCatalog(t *testing.T) {
	loader := NewLoader()

	cfg, err := loader.Load(shippedCatalogDir)
	require.NoError(t, err)
	require.NoError(t, loader.Validate(cfg))

	assert.Len(t, cfg.Materials, 4)
	assert.Len(t, cfg.Blueprints, 4)

	var hull *BlueprintDef
	for i := range cfg.Blueprints {
		if cfg.Blueprints[i].ID == "hull_plate" {
			hull = &cfg.Blueprints[i]
		}
	}
	require.NotNil(t, hull)
	assert.Equal(t, 2, hull.Tier)
	assert.Equal(t, 150.0, hull.BaseStats[domain.StatArmor])
	require.Len(t, hull.RequiredMaterials, 2)
	assert.Equal(t, 1.5, hull.RequiredMaterials[1].QuantityPerUnit)
	assert.Equal(t, []domain.StatName{domain.StatDurability}, hull.RequiredMaterials[1].AffectsStats)

	require.Len(t, cfg.Captains, 1)
	assert.Equal(t, "demo-owner", cfg.Captains[0].OwnerID)
	assert.Equal(t, 0.25, cfg.Captains[0].SpeedBonus)
}

func TestLoad_YAMLMaterialsJSONBlueprints(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, "materials.yml", `
version: "1.0"
materials:
  - material_type: ferrite
    display_name: Ferrite
    attributes:
      strength: 40
`)
	writeCatalogFile(t, dir, "blueprints.json", `{
  "version": "1.0",
  "blueprints": [{
    "id": "blade", "name": "Blade", "tier": 1,
    "base_stats": {"damage": 10},
    "required_materials": [{"material_type": "ferrite", "quantity_per_unit": 1, "affects_stats": ["damage"]}]
  }]
}`)

	loader := NewLoader()
	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	require.NoError(t, loader.Validate(cfg))
	assert.Equal(t, 40.0, cfg.Materials[0].Attributes[domain.AttrStrength])
	assert.Empty(t, cfg.Captains, "captains file is optional")
}

func TestLoad_CaptainsSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join(shippedCatalogDir, "materials.json"))
	require.NoError(t, err)
	writeCatalogFile(t, dir, "materials.json", string(data))
	data, err = os.ReadFile(filepath.Join(shippedCatalogDir, "blueprints.yaml"))
	require.NoError(t, err)
	writeCatalogFile(t, dir, "blueprints.yaml", string(data))
	writeCatalogFile(t, dir, "captains.yaml", `
version: "1.0"
captains:
  - owner_id: owner-1
    stat_bonus: 0.1
    speed_bonus: 1.5
`)

	_, err = NewLoader().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestLoad_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, "materials.json", `{
  "version": "1.0",
  "materials": [{"material_type": "ferrite", "display_name": "Ferrite", "attributes": {"shininess": 4}}]
}`)

	_, err := NewLoader().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "materials.json")
}

func validConfig() *Config {
	return &Config{
		Materials: []MaterialDef{
			{MaterialType: "ferrite", DisplayName: "Ferrite", Attributes: map[domain.AttributeName]float64{domain.AttrStrength: 40}},
			{MaterialType: "cuprite", DisplayName: "Cuprite", Attributes: map[domain.AttributeName]float64{domain.AttrConductivity: 45}},
		},
		Blueprints: []BlueprintDef{
			{
				ID:        "blade",
				Name:      "Blade",
				Tier:      1,
				BaseStats: map[domain.StatName]float64{domain.StatDamage: 100},
				RequiredMaterials: []RequirementDef{
					{MaterialType: "ferrite", QuantityPerUnit: 2, AffectsStats: []domain.StatName{domain.StatDamage}},
				},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"valid", func(c *Config) {}, nil},
		{"no materials", func(c *Config) { c.Materials = nil }, ErrInvalidConfig},
		{"no blueprints", func(c *Config) { c.Blueprints = nil }, ErrInvalidConfig},
		{"duplicate material", func(c *Config) { c.Materials[1].MaterialType = "ferrite" }, ErrDuplicateMaterial},
		{"unknown attribute", func(c *Config) {
			c.Materials[0].Attributes["shininess"] = 3
		}, ErrInvalidConfig},
		{"negative attribute", func(c *Config) {
			c.Materials[0].Attributes[domain.AttrStrength] = -1
		}, ErrInvalidConfig},
		{"duplicate blueprint", func(c *Config) { c.Blueprints = append(c.Blueprints, c.Blueprints[0]) }, ErrDuplicateBlueprint},
		{"bad tier", func(c *Config) { c.Blueprints[0].Tier = 6 }, ErrInvalidConfig},
		{"unknown stat", func(c *Config) { c.Blueprints[0].BaseStats["luck"] = 1 }, ErrInvalidConfig},
		{"unknown material", func(c *Config) { c.Blueprints[0].RequiredMaterials[0].MaterialType = "aether" }, domain.ErrUnknownMaterialType},
		{"zero quantity", func(c *Config) { c.Blueprints[0].RequiredMaterials[0].QuantityPerUnit = 0 }, ErrInvalidConfig},
		{"captain ok", func(c *Config) {
			c.Captains = []CaptainDef{{OwnerID: "owner-1", StatBonus: 0.2, SpeedBonus: 0.5}}
		}, nil},
		{"captain without owner", func(c *Config) { c.Captains = []CaptainDef{{StatBonus: 0.2}} }, ErrInvalidConfig},
		{"captain listed twice", func(c *Config) {
			c.Captains = []CaptainDef{{OwnerID: "owner-1"}, {OwnerID: "owner-1"}}
		}, ErrInvalidConfig},
		{"captain negative stat", func(c *Config) { c.Captains = []CaptainDef{{OwnerID: "o", StatBonus: -0.1}} }, ErrInvalidConfig},
		{"captain speed too high", func(c *Config) { c.Captains = []CaptainDef{{OwnerID: "o", SpeedBonus: 0.95}} }, ErrInvalidConfig},
		{"repeated requirement", func(c *Config) {
			c.Blueprints[0].RequiredMaterials = append(c.Blueprints[0].RequiredMaterials, c.Blueprints[0].RequiredMaterials[0])
		}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := NewLoader().Validate(cfg)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.ErrorIs(t, NewLoader().Validate(nil), ErrInvalidConfig)
}
