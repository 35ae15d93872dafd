package phase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	co2CAS    = "124-38-9"
	hexaneCAS = "110-54-3"
)

func co2Hexane() Constants {
	return NewConstants(
		[]string{co2CAS, hexaneCAS},
		[]float64{304.2, 507.6},
		[]float64{7376460.0, 3025000.0},
		[]float64{9.4e-5, 3.68e-4},
		[]float64{0.2252, 0.2975},
		[]float64{44.0095, 86.17536},
	)
}

func waterHexane() Constants {
	return NewConstants(
		[]string{WaterCAS, hexaneCAS},
		[]float64{647.14, 507.6},
		[]float64{22048320.0, 3025000.0},
		[]float64{5.6e-5, 3.68e-4},
		[]float64{0.344, 0.2975},
		[]float64{18.01528, 86.17536},
	)
}

func pure(cas string, tc, pc, vc, omega, mw float64) Constants {
	return NewConstants([]string{cas}, []float64{tc}, []float64{pc}, []float64{vc}, []float64{omega}, []float64{mw})
}

// pipPhase is a two component phase scored by PIP that is never solid-like.
func pipPhase(pip float64) *Snapshot {
	return &Snapshot{
		Temperature:      300,
		Pressure:         1e5,
		Composition:      []float64{0.5, 0.5},
		PhaseIDParameter: Float(pip),
		D2PdVdT:          Float(-1.0),
		Volume:           Float(1e-4),
	}
}

func phases(ps ...*Snapshot) []Phase {
	out := make([]Phase, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

func TestNewConstants_FindsWater(t *testing.T) {
	c := waterHexane()
	idx, ok := c.Water()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 2, c.N())

	c = co2Hexane()
	assert.Equal(t, NoWater, c.WaterIndex)
	_, ok = c.Water()
	assert.False(t, ok)
}

func TestConstants_Validate(t *testing.T) {
	require.NoError(t, co2Hexane().Validate())

	c := co2Hexane()
	c.Pcs = c.Pcs[:1]
	err := c.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrData))
	assert.Contains(t, err.Error(), "Pcs")

	assert.Error(t, Constants{}.Validate())
}

func TestConstants_IndexOfCAS(t *testing.T) {
	c := co2Hexane()
	assert.Equal(t, 1, c.IndexOfCAS(hexaneCAS))
	assert.Equal(t, -1, c.IndexOfCAS(WaterCAS))
}

func TestSnapshot_MissingProperty(t *testing.T) {
	s := &Snapshot{Temperature: 300, Pressure: 1e5, Composition: []float64{1}}
	_, err := s.PIP()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPropertyUnavailable))
	assert.Contains(t, err.Error(), "PIP")

	s.PhaseIDParameter = Float(2.5)
	v, err := s.PIP()
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
	assert.Equal(t, Unset, s.ForcedLabel())
}
