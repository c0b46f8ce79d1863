/*package analyze computes plain-number observables from particles and applies
kinematic cuts to them.

Cuts never fail. They set veto flags which consumers use to skip particles
and events.
*/
package analyze

import (
	"errors"

	"github.com/phil-mansfield/twobody/geom"
	"github.com/phil-mansfield/twobody/particle"
)

// ErrZeroMomentum is returned when the opening angle involving a particle at
// rest is requested.
var ErrZeroMomentum = errors.New("analyze: opening angle of a particle at rest")

// Observables are the single-particle quantities handed to histograms.
type Observables struct {
	Pt, Eta, Phi, E, M, P float64
}

// Single returns the observables of p. M is the invariant mass of p's
// four-vector, not its nominal mass.
func Single(p *particle.Particle) Observables {
	v := p.Vec()
	return Observables{
		Pt: v.Pt(), Eta: v.Eta(), Phi: v.Phi(), E: v.T, M: v.M(), P: v.P(),
	}
}

// PairObservables are the separations between two particles.
type PairObservables struct {
	DPhi, DEta, DR, CosTheta float64
}

// Pair returns the separations between p1 and p2. An error is returned if
// either particle has zero momentum, since the opening angle is undefined.
func Pair(p1, p2 *particle.Particle) (PairObservables, error) {
	v1, v2 := p1.Vec().Vec3(), p2.Vec().Vec3()
	cos, err := v1.CosTheta(v2)
	if errors.Is(err, geom.ErrZeroMagnitude) {
		return PairObservables{}, ErrZeroMomentum
	}

	return PairObservables{
		DPhi:     v1.DeltaPhi(v2),
		DEta:     v1.DeltaEta(v2),
		DR:       v1.DeltaR(v2),
		CosTheta: cos,
	}, nil
}

// InvariantMass returns the invariant mass of a group of particles.
func InvariantMass(ps ...*particle.Particle) float64 {
	sum := geom.FourVector{}
	for _, p := range ps {
		sum = sum.Add(p.Vec())
	}
	return sum.M()
}

// Accepted returns true if p is good and hasn't been vetoed.
func Accepted(p *particle.Particle) bool {
	return p.IsGood() && !p.Vetoed()
}

// Cuts are thresholds applied to particles. A zero threshold is disabled.
type Cuts struct {
	PtMin     float64
	EtaMax    float64
	DeltaRMin float64
}

// Apply applies the single-particle cuts to each particle.
func (c *Cuts) Apply(ps ...*particle.Particle) {
	for _, p := range ps {
		if c.PtMin > 0 {
			p.PTCuts(c.PtMin)
		}
		if c.EtaMax > 0 {
			p.EtaCuts(c.EtaMax)
		}
	}
}

// ApplyDecay applies the single-particle cuts to the daughters d1 and d2 and
// vetoes the parent if either daughter is vetoed or if the daughters are
// closer than DeltaRMin.
func (c *Cuts) ApplyDecay(parent, d1, d2 *particle.Particle) {
	c.Apply(d1, d2)
	if d1.Vetoed() || d2.Vetoed() {
		parent.Veto()
	}

	if c.DeltaRMin > 0 {
		dr := d1.Vec().DeltaR(d2.Vec().Vec3())
		if dr < c.DeltaRMin {
			parent.Veto()
		}
	}
}
