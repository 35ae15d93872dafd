package phase

import (
	"strings"
)

// Label is the phase state assigned to a phase, or forced on it by the caller.
type Label int

const (
	Unset Label = iota
	Gas
	Liquid
	Solid
)

var labelNames = []string{"", "gas", "liquid", "solid"}

func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return "unknown"
	}
	return labelNames[l]
}

// ParseLabel accepts the long names and the single letter forms g, l and s.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Unset, nil
	case "g", "gas":
		return Gas, nil
	case "l", "liquid":
		return Liquid, nil
	case "s", "solid":
		return Solid, nil
	}
	return Unset, &ConfigError{Setting: "force_phase", Value: s}
}

func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(b []byte) error {
	v, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// VaporMethod selects the vapor-likeness score used to separate gas from liquids.
type VaporMethod int

const (
	VaporTpc VaporMethod = iota
	VaporVpc
	VaporTpcWeighted
	VaporTpcVpc
	VaporWilson
	VaporPoling
	VaporPIP
	VaporBennettSchmidt
	VaporTraces
)

var vaporMethodNames = []string{
	"Tpc", "Vpc", "Tpc Vpc weighted", "Tpc Vpc", "Wilson",
	"Poling", "PIP", "Bennett-Schmidt", "Traces",
}

// VaporMethods lists every supported vapor scoring method.
func VaporMethods() []VaporMethod {
	m := make([]VaporMethod, len(vaporMethodNames))
	for i := range m {
		m[i] = VaporMethod(i)
	}
	return m
}

func (m VaporMethod) String() string { return enumName(vaporMethodNames, int(m)) }

func (m VaporMethod) valid() bool { return m >= 0 && int(m) < len(vaporMethodNames) }

// composition reports whether the method weights critical constants by mole fraction,
// which has no meaning for a pure component.
func (m VaporMethod) composition() bool {
	switch m {
	case VaporTpc, VaporVpc, VaporTpcWeighted, VaporTpcVpc, VaporTraces:
		return true
	}
	return false
}

func ParseVaporMethod(s string) (VaporMethod, error) {
	i, err := parseEnum("VL_ID", vaporMethodNames, s)
	return VaporMethod(i), err
}

func (m VaporMethod) MarshalText() ([]byte, error) { return marshalEnum("VL_ID", m, m.valid()) }

func (m *VaporMethod) UnmarshalText(b []byte) error {
	v, err := ParseVaporMethod(string(b))
	if err == nil {
		*m = v
	}
	return err
}

// SolidMethod selects the solid-likeness score.
type SolidMethod int

const (
	SolidD2PDVDT SolidMethod = iota
)

var solidMethodNames = []string{"d2P_dVdT"}

func (m SolidMethod) String() string { return enumName(solidMethodNames, int(m)) }

func (m SolidMethod) valid() bool { return m >= 0 && int(m) < len(solidMethodNames) }

func ParseSolidMethod(s string) (SolidMethod, error) {
	i, err := parseEnum("S_ID", solidMethodNames, s)
	return SolidMethod(i), err
}

func (m SolidMethod) MarshalText() ([]byte, error) { return marshalEnum("S_ID", m, m.valid()) }

func (m *SolidMethod) UnmarshalText(b []byte) error {
	v, err := ParseSolidMethod(string(b))
	if err == nil {
		*m = v
	}
	return err
}

// WaterSort controls where the water-rich liquid lands after the liquids are sorted.
type WaterSort int

const (
	WaterLast WaterSort = iota
	WaterFirst
	WaterNotSpecial
)

var waterSortNames = []string{"water last", "water first", "water not special"}

func (w WaterSort) String() string { return enumName(waterSortNames, int(w)) }

func (w WaterSort) valid() bool { return w >= 0 && int(w) < len(waterSortNames) }

func ParseWaterSort(s string) (WaterSort, error) {
	i, err := parseEnum("water_sort", waterSortNames, s)
	return WaterSort(i), err
}

func (w WaterSort) MarshalText() ([]byte, error) { return marshalEnum("water_sort", w, w.valid()) }

func (w *WaterSort) UnmarshalText(b []byte) error {
	v, err := ParseWaterSort(string(b))
	if err == nil {
		*w = v
	}
	return err
}

// SortMethod is the ordering policy applied to a liquid or solid bucket.
type SortMethod int

const (
	SortByProperty SortMethod = iota
	SortByKeyComponents
)

var sortMethodNames = []string{"prop", "key components"}

func (m SortMethod) String() string { return enumName(sortMethodNames, int(m)) }

func (m SortMethod) valid() bool { return m >= 0 && int(m) < len(sortMethodNames) }

func ParseSortMethod(s string) (SortMethod, error) {
	i, err := parseEnum("sort_method", sortMethodNames, s)
	return SortMethod(i), err
}

func (m SortMethod) MarshalText() ([]byte, error) { return marshalEnum("sort_method", m, m.valid()) }

func (m *SortMethod) UnmarshalText(b []byte) error {
	v, err := ParseSortMethod(string(b))
	if err == nil {
		*m = v
	}
	return err
}

// SortProperty is the per-phase key used by SortByProperty.
type SortProperty int

const (
	SortMassDensity SortProperty = iota
	SortMolarDensity
	// SortIsothermalCompressibility keys on the isobaric expansion coefficient.
	SortIsothermalCompressibility
	SortHeatCapacity
)

var sortPropertyNames = []string{"DENSITY_MASS", "DENSITY", "ISOTHERMAL_COMPRESSIBILITY", "HEAT_CAPACITY"}

func (p SortProperty) String() string { return enumName(sortPropertyNames, int(p)) }

func (p SortProperty) valid() bool { return p >= 0 && int(p) < len(sortPropertyNames) }

func ParseSortProperty(s string) (SortProperty, error) {
	i, err := parseEnum("sort_prop", sortPropertyNames, s)
	return SortProperty(i), err
}

func (p SortProperty) MarshalText() ([]byte, error) { return marshalEnum("sort_prop", p, p.valid()) }

func (p *SortProperty) UnmarshalText(b []byte) error {
	v, err := ParseSortProperty(string(b))
	if err == nil {
		*p = v
	}
	return err
}

// SortPolicy configures the ordering of one bucket.
type SortPolicy struct {
	Method   SortMethod
	Property SortProperty
	// Components and NegComponents are component indexes weighted +1 and -1
	// by SortByKeyComponents.
	Components    []int
	NegComponents []int
}

// Settings is the bundle that drives identification and sorting.
type Settings struct {
	VaporMethod VaporMethod
	SolidMethod SolidMethod
	// SkipSolids disables solid scoring, for calls where no phase can be a solid.
	SkipSolids bool
	// TraceCASs are checked in order by VaporTraces.
	TraceCASs []string
	// TpcWeightedR1 tunes VaporTpcWeighted; zero means 1.
	TpcWeightedR1 float64
	WaterSort     WaterSort
	LiquidSort    SortPolicy
	SolidSort     SortPolicy
	HigherFirst   bool
}

// DefaultTraceCASs are methane and nitrogen.
var DefaultTraceCASs = []string{"74-82-8", "7727-37-9"}

// DefaultSettings returns the PIP / d2P_dVdT identification with liquids and solids
// ordered by descending mass density and water last.
func DefaultSettings() Settings {
	return Settings{
		VaporMethod:   VaporPIP,
		SolidMethod:   SolidD2PDVDT,
		TraceCASs:     append([]string(nil), DefaultTraceCASs...),
		TpcWeightedR1: 1.0,
		WaterSort:     WaterLast,
		LiquidSort:    SortPolicy{Method: SortByProperty, Property: SortMassDensity},
		SolidSort:     SortPolicy{Method: SortByProperty, Property: SortMassDensity},
		HigherFirst:   true,
	}
}

// Validate rejects enum values outside their declared range.
func (s Settings) Validate() error {
	checks := []struct {
		setting string
		ok      bool
		val     fmtInt
	}{
		{"VL_ID", s.VaporMethod.valid(), fmtInt(s.VaporMethod)},
		{"S_ID", s.SolidMethod.valid(), fmtInt(s.SolidMethod)},
		{"water_sort", s.WaterSort.valid(), fmtInt(s.WaterSort)},
		{"liquid_sort_method", s.LiquidSort.Method.valid(), fmtInt(s.LiquidSort.Method)},
		{"liquid_sort_prop", s.LiquidSort.Property.valid(), fmtInt(s.LiquidSort.Property)},
		{"solid_sort_method", s.SolidSort.Method.valid(), fmtInt(s.SolidSort.Method)},
		{"solid_sort_prop", s.SolidSort.Property.valid(), fmtInt(s.SolidSort.Property)},
	}
	for _, c := range checks {
		if !c.ok {
			return &ConfigError{Setting: c.setting, Value: c.val.String()}
		}
	}
	return nil
}
