package phase

import (
	"fmt"
	"math"
)

const (
	rrMaxIter = 200
	rrTol     = 1e-13
)

// WilsonK estimates the K value of one component from critical properties.
func WilsonK(T, P, Tc, Pc, omega float64) float64 {
	return Pc / P * math.Exp(5.37*(1.0+omega)*(1.0-Tc/T))
}

// WilsonPsat is the vapor pressure implied by the Wilson correlation, [Pa].
func WilsonPsat(T, Tc, Pc, omega float64) float64 {
	return Pc * math.Exp(5.37*(1.0+omega)*(1.0-Tc/T))
}

// VaporScoreWilson scores a pure component by how far its vapor pressure exceeds P,
// and a mixture by how far the Rachford-Rice vapor fraction at Wilson K values
// exceeds one half.
func VaporScoreWilson(T, P float64, zs, Tcs, Pcs, omegas []float64) (float64, error) {
	n := len(zs)
	if n == 1 {
		return WilsonPsat(T, Tcs[0], Pcs[0], omegas[0]) - P, nil
	}
	ks := make([]float64, n)
	for i := range ks {
		ks[i] = WilsonK(T, P, Tcs[i], Pcs[i], omegas[i])
	}
	vf, err := RachfordRice(zs, ks)
	if err != nil {
		return 0, err
	}
	return vf - 0.5, nil
}

func rachfordRiceErr(beta float64, zs, ks []float64) float64 {
	var f float64
	for i := range zs {
		km1 := ks[i] - 1.0
		f += zs[i] * km1 / (1.0 + beta*km1)
	}
	return f
}

// RachfordRice returns the vapor fraction V/F solving the Rachford-Rice equation.
// The solution is searched over the whole window where every phase composition stays
// positive, so values below 0 or above 1 (negative flash) are returned as found.
// All K >= 1 returns 1 and all K <= 1 returns 0.
func RachfordRice(zs, ks []float64) (float64, error) {
	kMin, kMax := math.Inf(1), math.Inf(-1)
	for i := range zs {
		if zs[i] <= 0 {
			continue
		}
		kMin = math.Min(kMin, ks[i])
		kMax = math.Max(kMax, ks[i])
	}
	if math.IsInf(kMin, 1) {
		return 0, fmt.Errorf("rachford-rice: empty composition: %w", ErrNoRoot)
	}
	if kMin >= 1.0 {
		return 1.0, nil
	}
	if kMax <= 1.0 {
		return 0.0, nil
	}

	lo := 1.0 / (1.0 - kMax)
	hi := 1.0 / (1.0 - kMin)
	// step inside the poles
	span := hi - lo
	lo += span * 1e-12
	hi -= span * 1e-12

	fLo := rachfordRiceErr(lo, zs, ks)
	fHi := rachfordRiceErr(hi, zs, ks)
	if fLo < 0 || fHi > 0 {
		return 0, fmt.Errorf("rachford-rice: f(%g)=%g f(%g)=%g: %w", lo, fLo, hi, fHi, ErrNoRoot)
	}

	for range rrMaxIter {
		mid := 0.5 * (lo + hi)
		f := rachfordRiceErr(mid, zs, ks)
		if f == 0 || hi-lo <= rrTol*math.Max(1.0, math.Abs(mid)) {
			return mid, nil
		}
		if f > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi), nil
}
