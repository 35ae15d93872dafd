package phase

import (
	"fmt"
)

// Snapshot is a Phase whose properties were computed elsewhere and stored.
// Unset properties report ErrPropertyUnavailable.
type Snapshot struct {
	Temperature float64   `json:"T" yaml:"T"`
	Pressure    float64   `json:"P" yaml:"P"`
	Composition []float64 `json:"zs" yaml:"zs"`

	Volume           *float64 `json:"V,omitempty" yaml:"V,omitempty"`
	Compressibility  *float64 `json:"kappa,omitempty" yaml:"kappa,omitempty"`
	PhaseIDParameter *float64 `json:"PIP,omitempty" yaml:"PIP,omitempty"`
	D2PdVdT          *float64 `json:"d2P_dVdT,omitempty" yaml:"d2P_dVdT,omitempty"`
	DExpansionDT     *float64 `json:"disobaric_expansion_dT,omitempty" yaml:"disobaric_expansion_dT,omitempty"`
	Expansion        *float64 `json:"isobaric_expansion,omitempty" yaml:"isobaric_expansion,omitempty"`
	HeatCapacity     *float64 `json:"Cp,omitempty" yaml:"Cp,omitempty"`

	Force Label `json:"force_phase,omitempty" yaml:"force_phase,omitempty"`
}

// Float returns a pointer to v, for filling optional Snapshot fields.
func Float(v float64) *float64 {
	return &v
}

func (s *Snapshot) T() float64         { return s.Temperature }
func (s *Snapshot) P() float64         { return s.Pressure }
func (s *Snapshot) Zs() []float64      { return s.Composition }
func (s *Snapshot) ForcedLabel() Label { return s.Force }

func (s *Snapshot) V() (float64, error)       { return stored("V", s.Volume) }
func (s *Snapshot) Kappa() (float64, error)   { return stored("kappa", s.Compressibility) }
func (s *Snapshot) PIP() (float64, error)     { return stored("PIP", s.PhaseIDParameter) }
func (s *Snapshot) D2PDVDT() (float64, error) { return stored("d2P_dVdT", s.D2PdVdT) }
func (s *Snapshot) Cp() (float64, error)      { return stored("Cp", s.HeatCapacity) }

func (s *Snapshot) DIsobaricExpansionDT() (float64, error) {
	return stored("disobaric_expansion_dT", s.DExpansionDT)
}

func (s *Snapshot) IsobaricExpansion() (float64, error) {
	return stored("isobaric_expansion", s.Expansion)
}

func stored(name string, v *float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%s: %w", name, ErrPropertyUnavailable)
	}
	return *v, nil
}
