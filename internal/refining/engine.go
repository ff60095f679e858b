package refining

import (
	"fmt"
	"math"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/utils"
)

// CycleResult is the outcome of one refining cycle
type CycleResult struct {
	InputQuantity  int           `json:"input_quantity"`
	OutputQuantity int           `json:"output_quantity"`
	Waste          int           `json:"waste"`
	InputPurity    domain.Purity `json:"input_purity"`
	OutputPurity   domain.Purity `json:"output_purity"`
}

// RunResult is the outcome of a multi-cycle refining run
type RunResult struct {
	Cycles        []CycleResult        `json:"cycles"`
	CyclesApplied int                  `json:"cycles_applied"`
	StoppedEarly  bool                 `json:"stopped_early"`
	Waste         int                  `json:"waste"`
	Output        domain.MaterialStack `json:"output"`
}

// Engine provides pure refining logic (no DB dependencies)
type Engine struct {
	rnd utils.RandomSource
}

// NewEngine creates a new refining engine. The random source is not consulted
// by the current formulas; it is held so that every engine shares the same seam.
func NewEngine(rnd utils.RandomSource) *Engine {
	if rnd == nil {
		rnd = utils.NewSeededSource(0)
	}
	return &Engine{rnd: rnd}
}

// Cycle runs one refining cycle.
// Output quantity never exceeds input and output purity never drops below input.
func (e *Engine) Cycle(quantity int, purity domain.Purity) CycleResult {
	out := int(math.Floor(float64(quantity)*(1-LossRate) + floorEpsilon))
	if out < 0 {
		out = 0
	}

	outPurity := purity
	if eff := purity.Effective(); eff < domain.MaxPurity {
		gain := (1 - eff) * GainRate
		outPurity = domain.NewPurity(math.Min(domain.MaxPurity, eff+gain))
	}

	return CycleResult{
		InputQuantity:  quantity,
		OutputQuantity: out,
		Waste:          quantity - out,
		InputPurity:    purity,
		OutputPurity:   outPurity,
	}
}

// Run applies up to cycles refining cycles to the stack, feeding each output
// into the next. A cycle that would leave less than one unit is not applied
// and ends the run. The first applied cycle turns ore into refined mineral.
func (e *Engine) Run(stack domain.MaterialStack, cycles int) (*RunResult, error) {
	if cycles < 1 || cycles > MaxCyclesPerJob {
		return nil, fmt.Errorf("%w: "+ErrMsgCyclesOutOfRange, domain.ErrInvalidQuantity, MaxCyclesPerJob)
	}
	if stack.Quantity < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, ErrMsgNegativeQuantity)
	}

	result := &RunResult{Output: stack}
	for i := 0; i < cycles; i++ {
		c := e.Cycle(result.Output.Quantity, result.Output.Purity)
		if c.OutputQuantity < 1 {
			result.StoppedEarly = true
			break
		}
		result.Cycles = append(result.Cycles, c)
		result.CyclesApplied++
		result.Waste += c.Waste
		result.Output.Quantity = c.OutputQuantity
		result.Output.Purity = c.OutputPurity
		result.Output.IsRefined = true
	}

	if result.CyclesApplied == 0 {
		return nil, fmt.Errorf("%w: %s (%d)", domain.ErrInvalidQuantity, ErrMsgTooFewToRefine, stack.Quantity)
	}
	return result, nil
}

// MergeStacks is the crucible: it combines fungible stacks into one whose
// purity is the quantity-weighted average. Inputs are never modified.
// The result carries the first stack's identity fields.
func MergeStacks(stacks []domain.MaterialStack) (domain.MaterialStack, error) {
	if len(stacks) == 0 {
		return domain.MaterialStack{}, fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, ErrMsgNoStacks)
	}

	first := stacks[0]
	values := make([]float64, len(stacks))
	weights := make([]int, len(stacks))
	total := 0
	for i, st := range stacks {
		if err := checkCompatible(first, st); err != nil {
			return domain.MaterialStack{}, err
		}
		if st.Quantity < 0 {
			return domain.MaterialStack{}, fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, ErrMsgNegativeQuantity)
		}
		values[i] = st.Purity.Raw()
		weights[i] = st.Quantity
		total += st.Quantity
	}

	merged := first
	merged.Quantity = total
	merged.Purity = domain.PurityFromRaw(utils.WeightedAverage(values, weights, first.Purity.Raw()))
	return merged, nil
}

func checkCompatible(first, st domain.MaterialStack) error {
	switch {
	case st.MaterialType != first.MaterialType:
		return fmt.Errorf("%w: %s (%s vs %s)", domain.ErrIncompatibleBatch, ErrMsgMixedMaterialType, first.MaterialType, st.MaterialType)
	case st.Tier != first.Tier:
		return fmt.Errorf("%w: %s (%d vs %d)", domain.ErrIncompatibleBatch, ErrMsgMixedTier, first.Tier, st.Tier)
	case st.IsRefined != first.IsRefined:
		return fmt.Errorf("%w: %s", domain.ErrIncompatibleBatch, ErrMsgMixedRefinedState)
	case st.OwnerID != first.OwnerID:
		return fmt.Errorf("%w: %s", domain.ErrIncompatibleBatch, ErrMsgMixedOwner)
	}
	return nil
}
