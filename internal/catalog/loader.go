package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/validation"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateMaterial  = errors.New("duplicate material type")
	ErrDuplicateBlueprint = errors.New("duplicate blueprint id")
	ErrInvalidConfig      = errors.New("invalid catalog configuration")
)

// MaterialDef is one material entry. Attributes are tier-1 values.
type MaterialDef struct {
	MaterialType domain.MaterialType              `json:"material_type" yaml:"material_type"`
	DisplayName  string                           `json:"display_name" yaml:"display_name"`
	Description  string                           `json:"description,omitempty" yaml:"description,omitempty"`
	Attributes   map[domain.AttributeName]float64 `json:"attributes" yaml:"attributes"`
}

// MaterialsFile is the materials catalog document
type MaterialsFile struct {
	Version     string        `json:"version" yaml:"version"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Materials   []MaterialDef `json:"materials" yaml:"materials"`
}

// RequirementDef is one material input of a blueprint
type RequirementDef struct {
	MaterialType    domain.MaterialType `json:"material_type" yaml:"material_type"`
	QuantityPerUnit float64             `json:"quantity_per_unit" yaml:"quantity_per_unit"`
	AffectsStats    []domain.StatName   `json:"affects_stats,omitempty" yaml:"affects_stats,omitempty"`
}

// BlueprintDef is one blueprint entry
type BlueprintDef struct {
	ID                string                      `json:"id" yaml:"id"`
	Name              string                      `json:"name" yaml:"name"`
	Tier              int                         `json:"tier" yaml:"tier"`
	BaseStats         map[domain.StatName]float64 `json:"base_stats" yaml:"base_stats"`
	RequiredMaterials []RequirementDef            `json:"required_materials" yaml:"required_materials"`
}

// BlueprintsFile is the blueprints catalog document
type BlueprintsFile struct {
	Version     string         `json:"version" yaml:"version"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Blueprints  []BlueprintDef `json:"blueprints" yaml:"blueprints"`
}

// CaptainDef is the crafting bonus one owner's captain grants
type CaptainDef struct {
	OwnerID    string  `json:"owner_id" yaml:"owner_id"`
	Name       string  `json:"name,omitempty" yaml:"name,omitempty"`
	StatBonus  float64 `json:"stat_bonus" yaml:"stat_bonus"`
	SpeedBonus float64 `json:"speed_bonus" yaml:"speed_bonus"`
}

// CaptainsFile is the optional captains document
type CaptainsFile struct {
	Version  string       `json:"version" yaml:"version"`
	Captains []CaptainDef `json:"captains" yaml:"captains"`
}

// Config is a complete catalog as read from disk
type Config struct {
	Materials  []MaterialDef
	Blueprints []BlueprintDef
	Captains   []CaptainDef
}

// Loader handles loading and validating catalog configuration
type Loader interface {
	Load(dir string) (*Config, error)
	Validate(config *Config) error
}

type catalogLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &catalogLoader{
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// Load reads, schema-checks and parses both catalog files in dir
func (l *catalogLoader) Load(dir string) (*Config, error) {
	var materials MaterialsFile
	if err := l.loadFile(dir, MaterialsFileBase, MaterialsSchemaPath, &materials); err != nil {
		return nil, err
	}
	var blueprints BlueprintsFile
	if err := l.loadFile(dir, BlueprintsFileBase, BlueprintsSchemaPath, &blueprints); err != nil {
		return nil, err
	}

	var captains CaptainsFile
	if _, err := findFile(dir, CaptainsFileBase); err == nil {
		if err := l.loadFile(dir, CaptainsFileBase, CaptainsSchemaPath, &captains); err != nil {
			return nil, err
		}
	}
	return &Config{
		Materials:  materials.Materials,
		Blueprints: blueprints.Blueprints,
		Captains:   captains.Captains,
	}, nil
}

func (l *catalogLoader) loadFile(dir, base, schemaPath string, out interface{}) error {
	path, err := findFile(dir, base)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(ErrMsgReadConfigFileFailed, err)
	}

	if validation.IsYAML(path) {
		if err := l.schemaValidator.ValidateYAML(data, schemaPath); err != nil {
			return fmt.Errorf("schema validation failed for %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf(ErrMsgParseConfigFailed, path, err)
		}
		return nil
	}

	if err := l.schemaValidator.ValidateBytes(data, schemaPath); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf(ErrMsgParseConfigFailed, path, err)
	}
	return nil
}

func findFile(dir, base string) (string, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf(ErrMsgFileNotFound, base, base, base, dir)
}

// Validate checks cross references the schema cannot express
func (l *catalogLoader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf(ErrFmtConfigNil, ErrInvalidConfig)
	}
	if len(config.Materials) == 0 {
		return fmt.Errorf(ErrFmtNoMaterials, ErrInvalidConfig)
	}
	if len(config.Blueprints) == 0 {
		return fmt.Errorf(ErrFmtNoBlueprints, ErrInvalidConfig)
	}

	known := make(map[domain.MaterialType]bool, len(config.Materials))
	for i := range config.Materials {
		if err := validateMaterial(i, &config.Materials[i], known); err != nil {
			return err
		}
	}

	ids := make(map[string]bool, len(config.Blueprints))
	for i := range config.Blueprints {
		if err := validateBlueprint(i, &config.Blueprints[i], ids, known); err != nil {
			return err
		}
	}

	owners := make(map[string]bool, len(config.Captains))
	for i, c := range config.Captains {
		if err := validateCaptain(i, c, owners); err != nil {
			return err
		}
	}
	return nil
}

func validateMaterial(index int, m *MaterialDef, known map[domain.MaterialType]bool) error {
	if m.MaterialType == "" {
		return fmt.Errorf(ErrFmtMaterialEmptyType, ErrInvalidConfig, index)
	}
	if known[m.MaterialType] {
		return fmt.Errorf("%w: '%s'", ErrDuplicateMaterial, m.MaterialType)
	}
	known[m.MaterialType] = true

	for attr, v := range m.Attributes {
		if !validAttribute(attr) {
			return fmt.Errorf(ErrFmtMaterialUnknownAttr, ErrInvalidConfig, m.MaterialType, attr)
		}
		if v < 0 {
			return fmt.Errorf(ErrFmtMaterialNegativeAttr, ErrInvalidConfig, m.MaterialType, attr)
		}
	}
	return nil
}

func validateBlueprint(index int, bp *BlueprintDef, ids map[string]bool, known map[domain.MaterialType]bool) error {
	if bp.ID == "" {
		return fmt.Errorf(ErrFmtBlueprintEmptyID, ErrInvalidConfig, index)
	}
	if ids[bp.ID] {
		return fmt.Errorf("%w: '%s'", ErrDuplicateBlueprint, bp.ID)
	}
	ids[bp.ID] = true

	if !domain.Tier(bp.Tier).Valid() {
		return fmt.Errorf(ErrFmtBlueprintBadTier, ErrInvalidConfig, bp.ID, bp.Tier)
	}
	for stat := range bp.BaseStats {
		if _, ok := stat.Attribute(); !ok {
			return fmt.Errorf(ErrFmtBlueprintUnknownStat, ErrInvalidConfig, bp.ID, stat)
		}
	}
	if len(bp.RequiredMaterials) == 0 {
		return fmt.Errorf(ErrFmtBlueprintNoMaterials, ErrInvalidConfig, bp.ID)
	}

	seen := make(map[domain.MaterialType]bool, len(bp.RequiredMaterials))
	for _, req := range bp.RequiredMaterials {
		if seen[req.MaterialType] {
			return fmt.Errorf(ErrFmtBlueprintDupMaterial, ErrInvalidConfig, bp.ID, req.MaterialType)
		}
		seen[req.MaterialType] = true

		if !known[req.MaterialType] {
			return fmt.Errorf(ErrFmtBlueprintUnknownSource, domain.ErrUnknownMaterialType, bp.ID, req.MaterialType)
		}
		if req.QuantityPerUnit <= 0 {
			return fmt.Errorf(ErrFmtBlueprintBadQuantity, ErrInvalidConfig, bp.ID, req.MaterialType)
		}
		for _, stat := range req.AffectsStats {
			if _, ok := stat.Attribute(); !ok {
				return fmt.Errorf(ErrFmtBlueprintUnknownStat, ErrInvalidConfig, bp.ID, stat)
			}
		}
	}
	return nil
}

func validateCaptain(index int, c CaptainDef, owners map[string]bool) error {
	if c.OwnerID == "" {
		return fmt.Errorf(ErrFmtCaptainEmptyOwner, ErrInvalidConfig, index)
	}
	if owners[c.OwnerID] {
		return fmt.Errorf(ErrFmtCaptainDuplicate, ErrInvalidConfig, c.OwnerID)
	}
	owners[c.OwnerID] = true

	if c.StatBonus < 0 {
		return fmt.Errorf(ErrFmtCaptainBadStatBonus, ErrInvalidConfig, c.OwnerID)
	}
	if c.SpeedBonus < 0 || c.SpeedBonus > MaxCaptainSpeedBonus {
		return fmt.Errorf(ErrFmtCaptainBadSpeedBonus, ErrInvalidConfig, c.OwnerID, MaxCaptainSpeedBonus)
	}
	return nil
}

func validAttribute(attr domain.AttributeName) bool {
	for _, a := range domain.AllAttributes {
		if a == attr {
			return true
		}
	}
	return false
}
