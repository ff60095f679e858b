package domain

// AttributeName is a named physical property of a material
type AttributeName string

const (
	AttrStrength     AttributeName = "strength"
	AttrConductivity AttributeName = "conductivity"
	AttrDensity      AttributeName = "density"
	AttrReactivity   AttributeName = "reactivity"
	AttrStability    AttributeName = "stability"
	AttrElasticity   AttributeName = "elasticity"
)

// AllAttributes lists every attribute a profile may carry
var AllAttributes = []AttributeName{
	AttrStrength,
	AttrConductivity,
	AttrDensity,
	AttrReactivity,
	AttrStability,
	AttrElasticity,
}

// AttributeProfile is the attribute table of one material at one tier
type AttributeProfile struct {
	MaterialType MaterialType              `json:"material_type"`
	Tier         Tier                      `json:"tier"`
	Values       map[AttributeName]float64 `json:"values"`
}

// Value returns the attribute value, 0 when the material lacks it
func (p AttributeProfile) Value(attr AttributeName) float64 {
	return p.Values[attr]
}

// StatName is an output stat of a manufactured item
type StatName string

const (
	StatDamage     StatName = "damage"
	StatArmor      StatName = "armor"
	StatSpeed      StatName = "speed"
	StatDurability StatName = "durability"
	StatEnergy     StatName = "energy"
	StatCapacity   StatName = "capacity"
)

// AllStats lists every stat a blueprint may declare
var AllStats = []StatName{
	StatDamage,
	StatArmor,
	StatSpeed,
	StatDurability,
	StatEnergy,
	StatCapacity,
}

// Attribute returns the material attribute that feeds the stat
func (s StatName) Attribute() (AttributeName, bool) {
	switch s {
	case StatDamage:
		return AttrStrength, true
	case StatArmor:
		return AttrDensity, true
	case StatSpeed:
		return AttrElasticity, true
	case StatDurability:
		return AttrStability, true
	case StatEnergy:
		return AttrConductivity, true
	case StatCapacity:
		return AttrReactivity, true
	default:
		return "", false
	}
}

// BlueprintRequirement declares one material input of a blueprint and the stats it feeds
type BlueprintRequirement struct {
	MaterialType    MaterialType `json:"material_type"`
	QuantityPerUnit float64      `json:"quantity_per_unit"`
	AffectsStats    []StatName   `json:"affects_stats"`
}

// Affects reports whether the requirement contributes to the stat
func (r BlueprintRequirement) Affects(stat StatName) bool {
	for _, s := range r.AffectsStats {
		if s == stat {
			return true
		}
	}
	return false
}

// Blueprint describes a manufacturable item
type Blueprint struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Tier              Tier                   `json:"tier"`
	BaseStats         map[StatName]float64   `json:"base_stats"`
	RequiredMaterials []BlueprintRequirement `json:"required_materials"`
}
