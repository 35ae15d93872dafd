package phase

import (
	"fmt"
	"log/slog"
)

// Result is the identified and ordered phase set.
type Result struct {
	Gas     Phase
	Liquids []Phase
	Solids  []Phase
	// Betas are the phase fractions in gas, liquids, solids order; nil when none were given.
	Betas []float64

	// GasIndex is the input position of the gas, -1 when there is none.
	GasIndex int
	// LiquidIndexes and SolidIndexes are input positions in final order.
	LiquidIndexes []int
	SolidIndexes  []int

	count int
}

// Labels returns the label assigned to each input phase.
func (r *Result) Labels() []Label {
	labels := make([]Label, r.count)
	if r.GasIndex >= 0 {
		labels[r.GasIndex] = Gas
	}
	for _, i := range r.LiquidIndexes {
		labels[i] = Liquid
	}
	for _, i := range r.SolidIndexes {
		labels[i] = Solid
	}
	return labels
}

// Order returns the input positions in gas, liquids, solids order.
func (r *Result) Order() []int {
	order := make([]int, 0, r.count)
	if r.GasIndex >= 0 {
		order = append(order, r.GasIndex)
	}
	order = append(order, r.LiquidIndexes...)
	return append(order, r.SolidIndexes...)
}

// Identify classifies phases, sorts the liquids and solids and realigns betas to the
// final gas, liquids, solids order. betas may be nil.
func Identify(phases []Phase, betas []float64, c Constants, s Settings) (*Result, error) {
	if betas != nil && len(betas) != len(phases) {
		return nil, &DataError{
			Index:  -1,
			Method: "betas",
			Err:    fmt.Errorf("%w: %d betas, %d phases", ErrBetaLength, len(betas), len(phases)),
		}
	}

	cls, err := Classify(phases, c, s)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Gas:           cls.Gas,
		Liquids:       cls.Liquids,
		Solids:        cls.Solids,
		GasIndex:      cls.GasIndex,
		LiquidIndexes: cls.LiquidIndexes,
		SolidIndexes:  cls.SolidIndexes,
		count:         len(phases),
	}

	if len(cls.Liquids) > 0 || len(cls.Solids) > 0 {
		liq, sol, err := sortOrders(cls.Liquids, cls.Solids, c, s)
		if err != nil {
			return nil, err
		}
		res.Liquids = permute(cls.Liquids, liq)
		res.Solids = permute(cls.Solids, sol)
		res.LiquidIndexes = remap(cls.LiquidIndexes, liq)
		res.SolidIndexes = remap(cls.SolidIndexes, sol)
	}

	if betas != nil {
		order := res.Order()
		res.Betas = make([]float64, len(order))
		for i, idx := range order {
			res.Betas[i] = betas[idx]
		}
	}

	slog.Debug("phases identified",
		"phases", len(phases),
		"gas", res.GasIndex,
		"liquids", res.LiquidIndexes,
		"solids", res.SolidIndexes)
	return res, nil
}

func remap(indexes, order []int) []int {
	out := make([]int, len(order))
	for i, j := range order {
		out[i] = indexes[j]
	}
	return out
}
