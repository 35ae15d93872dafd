package phase

import (
	"fmt"
	"slices"
	"sort"
)

// WaterThreshold is the water mole fraction a liquid must exceed to be treated
// as the water phase.
const WaterThreshold = 1e-4

// SortPhases returns liquids and solids in canonical order. The input slices are not
// modified. Buckets with fewer than two phases are returned as is.
func SortPhases(liquids, solids []Phase, c Constants, s Settings) ([]Phase, []Phase, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	liqOrder, solOrder, err := sortOrders(liquids, solids, c, s)
	if err != nil {
		return nil, nil, err
	}
	return permute(liquids, liqOrder), permute(solids, solOrder), nil
}

// sortOrders returns, for each bucket, the bucket positions in their final order.
func sortOrders(liquids, solids []Phase, c Constants, s Settings) ([]int, []int, error) {
	liq := identity(len(liquids))
	sol := identity(len(solids))
	var err error

	if len(liquids) > 1 {
		if liq, err = sortBucket(liquids, c, s.LiquidSort, s.HigherFirst); err != nil {
			return nil, nil, err
		}
		if s.WaterSort != WaterNotSpecial {
			if liq, err = placeWater(liquids, liq, c, s.WaterSort); err != nil {
				return nil, nil, err
			}
		}
	}
	if len(solids) > 1 {
		if sol, err = sortBucket(solids, c, s.SolidSort, s.HigherFirst); err != nil {
			return nil, nil, err
		}
	}
	return liq, sol, nil
}

func sortBucket(phases []Phase, c Constants, policy SortPolicy, higherFirst bool) ([]int, error) {
	var (
		keys []float64
		err  error
	)
	switch policy.Method {
	case SortByProperty:
		keys, err = propertyKeys(phases, c, policy.Property)
		if err != nil {
			return nil, err
		}
	case SortByKeyComponents:
		keys, err = keyComponentKeys(phases, policy.Components, policy.NegComponents)
		if err != nil {
			return nil, err
		}
		higherFirst = true
	default:
		return nil, &ConfigError{Setting: "sort_method", Value: policy.Method.String()}
	}

	order := identity(len(phases))
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := keys[order[a]], keys[order[b]]
		if higherFirst {
			return ka > kb
		}
		return ka < kb
	})
	return order, nil
}

// MassDensity is MW/(1000 V) in kg/m^3 with MW the molar average of MWs.
func MassDensity(p Phase, MWs []float64) (float64, error) {
	zs := p.Zs()
	if len(zs) != len(MWs) {
		return 0, fmt.Errorf("%w: %d fractions, %d molecular weights", ErrCompositionLength, len(zs), len(MWs))
	}
	v, err := p.V()
	if err != nil {
		return 0, err
	}
	return molarAverage(zs, MWs) / (1000.0 * v), nil
}

func propertyKeys(phases []Phase, c Constants, prop SortProperty) ([]float64, error) {
	keys := make([]float64, len(phases))
	for i, p := range phases {
		var (
			k   float64
			err error
		)
		switch prop {
		case SortMassDensity:
			k, err = MassDensity(p, c.MWs)
		case SortMolarDensity:
			var v float64
			if v, err = p.V(); err == nil {
				k = 1.0 / v
			}
		case SortIsothermalCompressibility:
			k, err = p.IsobaricExpansion()
		case SortHeatCapacity:
			k, err = p.Cp()
		default:
			return nil, &ConfigError{Setting: "sort_prop", Value: prop.String()}
		}
		if err != nil {
			return nil, &DataError{Index: i, Method: prop.String(), Err: err}
		}
		keys[i] = k
	}
	return keys, nil
}

// keyComponentKeys is the sum of the mole fractions of pos minus the sum over neg.
func keyComponentKeys(phases []Phase, pos, neg []int) ([]float64, error) {
	keys := make([]float64, len(phases))
	for i, p := range phases {
		zs := p.Zs()
		for _, set := range []struct {
			idx  []int
			sign float64
		}{{pos, 1.0}, {neg, -1.0}} {
			for _, j := range set.idx {
				if j < 0 || j >= len(zs) {
					return nil, &DataError{
						Index:  i,
						Method: SortByKeyComponents.String(),
						Err:    fmt.Errorf("%w: %d of %d", ErrComponentIndex, j, len(zs)),
					}
				}
				keys[i] += set.sign * zs[j]
			}
		}
	}
	return keys, nil
}

// placeWater moves the liquid richest in water to the front or the back of order.
// Nothing moves when there is no water component or no liquid holds more than
// WaterThreshold of it.
func placeWater(liquids []Phase, order []int, c Constants, mode WaterSort) ([]int, error) {
	w, ok := c.Water()
	if !ok {
		return order, nil
	}

	pos := -1
	maxZ := 0.0
	for j, idx := range order {
		zs := liquids[idx].Zs()
		if w >= len(zs) {
			return nil, &DataError{
				Index:  idx,
				Method: mode.String(),
				Err:    fmt.Errorf("%w: water index %d of %d", ErrCompositionLength, w, len(zs)),
			}
		}
		if pos < 0 || zs[w] > maxZ {
			pos = j
			maxZ = zs[w]
		}
	}
	if maxZ <= WaterThreshold {
		return order, nil
	}

	water := order[pos]
	out := slices.Delete(slices.Clone(order), pos, pos+1)
	switch mode {
	case WaterFirst:
		out = slices.Insert(out, 0, water)
	case WaterLast:
		out = append(out, water)
	default:
		return order, nil
	}
	return out, nil
}

func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func permute(phases []Phase, order []int) []Phase {
	out := make([]Phase, len(order))
	for i, idx := range order {
		out[i] = phases[idx]
	}
	return out
}
