package phase

// Vapor scores are >= 0 for vapor-like phases and < 0 for liquid-like ones.
// Solid scores are >= 0 for solid-like phases.

const (
	atmPerPa = 101325.0
	// polingKappa is the Poling compressibility bound, [1/atm].
	polingKappa = 0.005
)

func molarAverage(zs, xs []float64) float64 {
	var s float64
	for i := range zs {
		s += zs[i] * xs[i]
	}
	return s
}

// VaporScoreTpc compares T with the molar average critical temperature.
func VaporScoreTpc(T float64, Tcs, zs []float64) float64 {
	return T - molarAverage(zs, Tcs)
}

// VaporScoreVpc compares V with the molar average critical volume.
func VaporScoreVpc(V float64, Vcs, zs []float64) float64 {
	return V - molarAverage(zs, Vcs)
}

// VaporScoreTpcWeighted compares T with the critical-volume weighted pseudo-critical
// temperature (the ECLIPSE rule); r1 tunes the pseudo-critical temperature.
func VaporScoreTpcWeighted(T float64, Tcs, Vcs, zs []float64, r1 float64) float64 {
	var weight, tpc float64
	for i := range zs {
		weight += zs[i] * Vcs[i]
		tpc += zs[i] * Tcs[i] * Vcs[i]
	}
	tpc *= r1 / weight
	return T - tpc
}

// VaporScoreTpcVpc combines both pseudo-critical mixing rules as V*T^2 - Vpc*Tpc^2.
func VaporScoreTpcVpc(T, V float64, Tcs, Vcs, zs []float64) float64 {
	tpc := molarAverage(zs, Tcs)
	vpc := molarAverage(zs, Vcs)
	return V*T*T - vpc*tpc*tpc
}

// VaporScorePoling scores the isothermal compressibility kappa [1/Pa] against 0.005 1/atm.
func VaporScorePoling(kappa float64) float64 {
	return kappa*atmPerPa - polingKappa
}

// PhaseIdentificationParameter is
// V*(d2P_dVdT/dP_dT - d2P_dV2/dP_dV), above 1 for vapors and below 1 for liquids.
func PhaseIdentificationParameter(V, dPdT, dPdV, d2PdV2, d2PdVdT float64) float64 {
	return V * (d2PdVdT/dPdT - d2PdV2/dPdV)
}

// VaporScoreFromPIP flips the phase identification parameter so vapors score positive.
func VaporScoreFromPIP(pip float64) float64 {
	return -(pip - 1.0)
}

// VaporScorePIP computes the phase identification parameter from pressure derivatives
// and scores it.
func VaporScorePIP(V, dPdT, dPdV, d2PdV2, d2PdVdT float64) float64 {
	return VaporScoreFromPIP(PhaseIdentificationParameter(V, dPdT, dPdV, d2PdV2, d2PdVdT))
}

// VaporScoreBennettSchmidt is the negated temperature derivative of the isobaric
// expansion coefficient.
func VaporScoreBennettSchmidt(dbetadT float64) float64 {
	return -dbetadT
}

// VaporScoreTraces returns the mole fraction of the first trace component present,
// falling back to the component with the lowest critical temperature. Higher is more
// vapor-like but the value is never negative.
func VaporScoreTraces(zs []float64, CASs, traceCASs []string, Tcs []float64) float64 {
	for _, trace := range traceCASs {
		for i, cas := range CASs {
			if cas == trace && i < len(zs) {
				return zs[i]
			}
		}
	}

	comp := 0.0
	tcMin := 1e100
	for i := range zs {
		if i < len(Tcs) && Tcs[i] < tcMin {
			comp = zs[i]
			tcMin = Tcs[i]
		}
	}
	return comp
}

// SolidScoreD2PDVDT uses d2P_dVdT directly.
func SolidScoreD2PDVDT(d2PdVdT float64) float64 {
	return d2PdVdT
}
