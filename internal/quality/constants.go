package quality

// Lower bounds of each grade above Scrap
const (
	BoundCrude    = 0.2
	BoundStandard = 0.4
	BoundRefined  = 0.6
	BoundPure     = 0.8
	BoundPristine = 0.95
	BoundQuantum  = 0.9999
)

// RefinementBonusPerLevel is the effectiveness bonus granted by each refinement level
const RefinementBonusPerLevel = 0.01
