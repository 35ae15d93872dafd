package phase

import (
	"fmt"
)

// Phase is one candidate equilibrium phase produced by a flash calculation.
// Implementations are read only for the duration of a call.
type Phase interface {
	// T is the temperature, [K].
	T() float64
	// P is the pressure, [Pa].
	P() float64
	// Zs are the mole fractions, indexed like Constants.
	Zs() []float64

	// V is the molar volume, [m^3/mol].
	V() (float64, error)
	// Kappa is the isothermal compressibility, [1/Pa].
	Kappa() (float64, error)
	// PIP is the phase identification parameter, [-].
	PIP() (float64, error)
	// D2PDVDT is the second derivative of P with respect to V and T, [Pa*mol/m^3/K].
	D2PDVDT() (float64, error)
	// DIsobaricExpansionDT is the temperature derivative of the isobaric expansion, [1/K^2].
	DIsobaricExpansionDT() (float64, error)
	// IsobaricExpansion is the isobaric expansion coefficient, [1/K].
	IsobaricExpansion() (float64, error)
	// Cp is the molar heat capacity, [J/mol/K].
	Cp() (float64, error)

	// ForcedLabel is the caller supplied label, Unset when the phase must be scored.
	ForcedLabel() Label
}

// NoWater marks Constants without a water component.
const NoWater = -1

// WaterCAS is the CAS registry number of water.
const WaterCAS = "7732-18-5"

// Constants holds per-component data, every slice indexed like a phase's Zs.
type Constants struct {
	Tcs    []float64 `json:"Tcs" yaml:"Tcs"`       // critical temperature, [K]
	Vcs    []float64 `json:"Vcs" yaml:"Vcs"`       // critical volume, [m^3/mol]
	Pcs    []float64 `json:"Pcs" yaml:"Pcs"`       // critical pressure, [Pa]
	Omegas []float64 `json:"omegas" yaml:"omegas"` // acentric factor, [-]
	MWs    []float64 `json:"MWs" yaml:"MWs"`       // molecular weight, [g/mol]
	CASs   []string  `json:"CASs" yaml:"CASs"`
	// WaterIndex is the water component, NoWater if absent.
	WaterIndex int `json:"water_index" yaml:"water_index"`
}

// NewConstants builds Constants and locates water by CAS number.
func NewConstants(cass []string, tcs, pcs, vcs, omegas, mws []float64) Constants {
	c := Constants{
		Tcs:    tcs,
		Vcs:    vcs,
		Pcs:    pcs,
		Omegas: omegas,
		MWs:    mws,
		CASs:   cass,
	}
	c.WaterIndex = c.IndexOfCAS(WaterCAS)
	return c
}

// N is the component count.
func (c Constants) N() int {
	return len(c.Tcs)
}

// IndexOfCAS returns the position of cas, or -1.
func (c Constants) IndexOfCAS(cas string) int {
	for i, v := range c.CASs {
		if v == cas {
			return i
		}
	}
	return -1
}

// Water returns the water component index and whether there is one.
func (c Constants) Water() (int, bool) {
	if c.WaterIndex < 0 || c.WaterIndex >= c.N() {
		return 0, false
	}
	return c.WaterIndex, true
}

// Validate checks that every populated array has N entries.
func (c Constants) Validate() error {
	n := c.N()
	if n == 0 {
		return fmt.Errorf("%w: no components", ErrData)
	}
	arrays := []struct {
		name string
		l    int
	}{
		{"Vcs", len(c.Vcs)},
		{"Pcs", len(c.Pcs)},
		{"omegas", len(c.Omegas)},
		{"MWs", len(c.MWs)},
		{"CASs", len(c.CASs)},
	}
	for _, a := range arrays {
		if a.l != 0 && a.l != n {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrData, a.name, a.l, n)
		}
	}
	return nil
}

func checkComposition(phases []Phase, n int) error {
	for i, p := range phases {
		if len(p.Zs()) != n {
			return &DataError{
				Index:  i,
				Method: "composition",
				Err:    fmt.Errorf("%w: got %d, want %d", ErrCompositionLength, len(p.Zs()), n),
			}
		}
	}
	return nil
}
