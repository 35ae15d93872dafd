package phase

import (
	"fmt"
	"log/slog"
	"math"
)

// Classification is the partition of a phase list into gas, liquids and solids.
// Index fields hold the positions of the phases in the classified list.
type Classification struct {
	Gas     Phase
	Liquids []Phase
	Solids  []Phase

	GasIndex      int
	LiquidIndexes []int
	SolidIndexes  []int
}

// requireArrays fails when any named constant array does not have n entries.
func requireArrays(m VaporMethod, n int, arrays map[string]int) error {
	for _, name := range []string{"Vcs", "Pcs", "omegas"} {
		if l, ok := arrays[name]; ok && l != n {
			return dataErr(-1, m, fmt.Errorf("%w: constants %s has %d entries", ErrPropertyUnavailable, name, l))
		}
	}
	return nil
}

// ScoreVapor scores every phase with the selected vapor method, one score per phase.
// All phases are assumed to share the temperature of the first one.
func ScoreVapor(phases []Phase, c Constants, s Settings) ([]float64, error) {
	m := s.VaporMethod
	if !m.valid() {
		return nil, &ConfigError{Setting: "VL_ID", Value: m.String()}
	}
	scores := make([]float64, len(phases))
	if len(phases) == 0 {
		return scores, nil
	}

	n := c.N()
	switch m {
	case VaporVpc, VaporTpcWeighted, VaporTpcVpc:
		if err := requireArrays(m, n, map[string]int{"Vcs": len(c.Vcs)}); err != nil {
			return nil, err
		}
	case VaporWilson:
		if err := requireArrays(m, n, map[string]int{"Pcs": len(c.Pcs), "omegas": len(c.Omegas)}); err != nil {
			return nil, err
		}
	}
	if m.composition() && n == 1 {
		return nil, dataErr(-1, m, ErrSingleComponent)
	}
	if m.composition() || m == VaporWilson {
		if n == 0 {
			return nil, dataErr(-1, m, fmt.Errorf("%w: no component constants", ErrPropertyUnavailable))
		}
		if err := checkComposition(phases, n); err != nil {
			return nil, err
		}
	}

	T := phases[0].T()
	r1 := s.TpcWeightedR1
	if r1 == 0 {
		r1 = 1.0
	}

	for i, p := range phases {
		var (
			v   float64
			err error
		)
		switch m {
		case VaporTpc:
			scores[i] = VaporScoreTpc(T, c.Tcs, p.Zs())
		case VaporVpc:
			if v, err = p.V(); err == nil {
				scores[i] = VaporScoreVpc(v, c.Vcs, p.Zs())
			}
		case VaporTpcWeighted:
			scores[i] = VaporScoreTpcWeighted(T, c.Tcs, c.Vcs, p.Zs(), r1)
		case VaporTpcVpc:
			if v, err = p.V(); err == nil {
				scores[i] = VaporScoreTpcVpc(T, v, c.Tcs, c.Vcs, p.Zs())
			}
		case VaporWilson:
			scores[i], err = VaporScoreWilson(T, p.P(), p.Zs(), c.Tcs, c.Pcs, c.Omegas)
		case VaporPoling:
			if v, err = p.Kappa(); err == nil {
				scores[i] = VaporScorePoling(v)
			}
		case VaporPIP:
			if v, err = p.PIP(); err == nil {
				scores[i] = VaporScoreFromPIP(v)
			}
		case VaporBennettSchmidt:
			if v, err = p.DIsobaricExpansionDT(); err == nil {
				scores[i] = VaporScoreBennettSchmidt(v)
			}
		case VaporTraces:
			scores[i] = VaporScoreTraces(p.Zs(), c.CASs, s.TraceCASs, c.Tcs)
		}
		if err != nil {
			return nil, dataErr(i, m, err)
		}
	}
	return scores, nil
}

// ScoreSolid scores every phase with the selected solid method.
func ScoreSolid(phases []Phase, m SolidMethod) ([]float64, error) {
	if !m.valid() {
		return nil, &ConfigError{Setting: "S_ID", Value: m.String()}
	}
	scores := make([]float64, len(phases))
	for i, p := range phases {
		v, err := p.D2PDVDT()
		if err != nil {
			return nil, dataErr(i, m, err)
		}
		scores[i] = SolidScoreD2PDVDT(v)
	}
	return scores, nil
}

// Classify partitions phases into at most one gas, liquids and solids.
//
// A forced label always wins. Otherwise a phase is a solid when its solid score is >= 0,
// a gas candidate when its vapor score is >= 0 and a liquid when neither holds. When
// several phases are gas candidates the one with the strictly highest vapor score is the
// gas, the first one winning ties, and the rest are appended to the liquids. Forced gases
// outrank scored candidates.
//
// Scores are computed for every phase as soon as one phase is not forced.
func Classify(phases []Phase, c Constants, s Settings) (*Classification, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cls := &Classification{GasIndex: -1}

	forced := true
	for _, p := range phases {
		if p.ForcedLabel() == Unset {
			forced = false
			break
		}
	}

	var vlScores, sScores []float64
	if !forced {
		var err error
		if !s.SkipSolids {
			if sScores, err = ScoreSolid(phases, s.SolidMethod); err != nil {
				return nil, err
			}
		}
		if vlScores, err = ScoreVapor(phases, c, s); err != nil {
			return nil, err
		}
	}

	var gasIdx []int
	var gasScores []float64
	for i, p := range phases {
		switch label := p.ForcedLabel(); {
		case label == Liquid:
			cls.LiquidIndexes = append(cls.LiquidIndexes, i)
		case label == Solid:
			cls.Solids = append(cls.Solids, p)
			cls.SolidIndexes = append(cls.SolidIndexes, i)
		case label == Gas:
			gasIdx = append(gasIdx, i)
			gasScores = append(gasScores, math.Inf(1))
		case label != Unset:
			return nil, &ConfigError{Setting: "force_phase", Value: fmtInt(label).String()}
		case !s.SkipSolids && sScores[i] >= 0.0:
			cls.Solids = append(cls.Solids, p)
			cls.SolidIndexes = append(cls.SolidIndexes, i)
		case vlScores[i] >= 0.0:
			gasIdx = append(gasIdx, i)
			gasScores = append(gasScores, vlScores[i])
		default:
			cls.LiquidIndexes = append(cls.LiquidIndexes, i)
		}
	}

	if len(gasIdx) > 0 {
		best := 0
		for j := 1; j < len(gasScores); j++ {
			if gasScores[j] > gasScores[best] {
				best = j
			}
		}
		cls.GasIndex = gasIdx[best]
		cls.Gas = phases[cls.GasIndex]
		for j, idx := range gasIdx {
			if j == best {
				continue
			}
			slog.Debug("demoting gas candidate to liquid",
				"phase", idx, "score", gasScores[j], "gas", cls.GasIndex, "gas_score", gasScores[best])
			cls.LiquidIndexes = append(cls.LiquidIndexes, idx)
		}
	}

	cls.Liquids = make([]Phase, len(cls.LiquidIndexes))
	for j, idx := range cls.LiquidIndexes {
		cls.Liquids[j] = phases[idx]
	}
	if cls.Solids == nil {
		cls.Solids = []Phase{}
	}
	if cls.LiquidIndexes == nil {
		cls.LiquidIndexes = []int{}
	}
	if cls.SolidIndexes == nil {
		cls.SolidIndexes = []int{}
	}
	return cls, nil
}
