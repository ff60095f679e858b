package catalog

import "time"

// ==================== Configuration Files ====================

// Catalog file base names; each may be .json, .yaml or .yml
const (
	MaterialsFileBase  = "materials"
	BlueprintsFileBase = "blueprints"
	// CaptainsFileBase is optional; without it nobody has a crafting bonus
	CaptainsFileBase = "captains"
)

// Schema paths
const (
	MaterialsSchemaPath  = "configs/schemas/materials.schema.json"
	BlueprintsSchemaPath = "configs/schemas/blueprints.schema.json"
	CaptainsSchemaPath   = "configs/schemas/captains.schema.json"
)

// ==================== Tuning ====================

const (
	// TierScalePerLevel is the attribute growth per tier above the first
	TierScalePerLevel = 0.5

	// MaxCaptainSpeedBonus keeps every manufacturing job at least 10% of its base duration
	MaxCaptainSpeedBonus = 0.9

	DefaultCacheSize = 256
	DefaultCacheTTL  = 10 * time.Minute
)

// ==================== Error Messages ====================

const (
	ErrMsgReadConfigFileFailed = "failed to read catalog file: %w"
	ErrMsgParseConfigFailed    = "failed to parse catalog file %s: %w"
	ErrMsgFileNotFound         = "no %s.json, %s.yaml or %s.yml in %s"
)

// Format strings used with ErrInvalidConfig
const (
	ErrFmtConfigNil              = "%w: config is nil"
	ErrFmtNoMaterials            = "%w: no materials defined"
	ErrFmtNoBlueprints           = "%w: no blueprints defined"
	ErrFmtMaterialEmptyType      = "%w: material at index %d has empty material_type"
	ErrFmtMaterialUnknownAttr    = "%w: material '%s' has unknown attribute '%s'"
	ErrFmtMaterialNegativeAttr   = "%w: material '%s' has negative %s"
	ErrFmtBlueprintEmptyID       = "%w: blueprint at index %d has empty id"
	ErrFmtBlueprintBadTier       = "%w: blueprint '%s' has tier %d"
	ErrFmtBlueprintUnknownStat   = "%w: blueprint '%s' has unknown stat '%s'"
	ErrFmtBlueprintNoMaterials   = "%w: blueprint '%s' requires no materials"
	ErrFmtBlueprintDupMaterial   = "%w: blueprint '%s' lists '%s' more than once"
	ErrFmtBlueprintBadQuantity   = "%w: blueprint '%s' needs a positive quantity of '%s'"
	ErrFmtBlueprintUnknownSource = "%w: blueprint '%s' requires '%s'"
	ErrFmtCaptainEmptyOwner      = "%w: captain at index %d has empty owner_id"
	ErrFmtCaptainDuplicate       = "%w: captain '%s' listed more than once"
	ErrFmtCaptainBadStatBonus    = "%w: captain '%s' has negative stat_bonus"
	ErrFmtCaptainBadSpeedBonus   = "%w: captain '%s' speed_bonus must be within [0, %.1f]"
)

// ==================== Log Messages ====================

const (
	LogMsgCatalogLoaded = "Catalog loaded"
)
