package particle

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/twobody/geom"
	"github.com/phil-mansfield/twobody/rand"
)

var (
	// ErrFinalState is returned when a final-state particle is decayed.
	ErrFinalState = errors.New("particle: final-state particles cannot decay")
	// ErrMassless is returned when a massless particle is decayed.
	ErrMassless = errors.New("particle: massless particles cannot decay")
	// ErrMassConservation is returned when the daughters are heavier than
	// the parent.
	ErrMassConservation = errors.New(
		"particle: daughter masses exceed parent mass",
	)
)

// ThetaSampler draws the polar decay angle in the parent's rest frame.
type ThetaSampler func(gen *rand.Generator) float64

// LegacyTheta draws theta uniformly on (-pi, pi]. The resulting decay
// directions are not isotropic: they are uniform in theta rather than in
// cos(theta), and so pile up along the z axis.
func LegacyTheta(gen *rand.Generator) float64 { return gen.Angle() }

// IsotropicTheta draws cos(theta) uniformly on (-1, 1], which gives decay
// directions uniform on the sphere.
func IsotropicTheta(gen *rand.Generator) float64 {
	return math.Acos(gen.Mom(1))
}

func (p *Particle) checkDecay(m1, m2 float64) error {
	switch {
	case p.m == 0:
		return ErrMassless
	case p.isFinalState:
		return ErrFinalState
	case m1 < 0 || m2 < 0:
		return fmt.Errorf("%w: daughter masses %g and %g", ErrNegativeMass, m1, m2)
	case m1+m2 > p.m:
		return fmt.Errorf(
			"%w: %g + %g > %g", ErrMassConservation, m1, m2, p.m,
		)
	}
	return nil
}

// RestFrameDecay returns the four-vectors of two daughters of masses m1 and
// m2 in the particle's rest frame. The decay direction is drawn from gen.
func (p *Particle) RestFrameDecay(
	gen *rand.Generator, m1, m2 float64,
) (v1, v2 geom.FourVector, err error) {
	if err = p.checkDecay(m1, m2); err != nil {
		return v1, v2, err
	}

	M := p.m
	e1 := (M*M + m1*m1 - m2*m2) / (2 * M)
	e2 := M - e1
	// At m1 + m2 = M rounding can push this slightly below zero.
	pRest := math.Sqrt(math.Max(e1*e1-m1*m1, 0))

	phi := gen.Angle()
	theta := p.theta(gen)
	sinTh, cosTh := math.Sincos(theta)
	sinPhi, cosPhi := math.Sincos(phi)

	p1 := geom.NewThreeVector(
		pRest*sinTh*cosPhi, pRest*sinTh*sinPhi, pRest*cosTh,
	)
	v1 = geom.FourVector{ThreeVector: p1, T: e1}
	v2 = geom.FourVector{ThreeVector: p1.Neg(), T: e2}
	return v1, v2, nil
}

// Decay decays the particle into two daughters of masses m1 and m2 with the
// given final-state flags and returns them in the lab frame.
//
// An error is returned if the particle is massless or final-state, or if
// m1 + m2 exceeds its mass. Physical inconsistencies in the result (a
// daughter off its mass shell, non-conservation of four-momentum, a
// superluminal boost) do not produce an error. They mark the parent as not
// good instead.
func (p *Particle) Decay(
	gen *rand.Generator, m1, m2 float64, isFinalState1, isFinalState2 bool,
) (d1, d2 *Particle, err error) {
	v1, v2, err := p.RestFrameDecay(gen, m1, m2)
	if err != nil {
		return nil, nil, err
	}

	l1, l2 := v1, v2
	beta, err := p.vec.BoostVector()
	if err == nil {
		err = l1.Boost(beta)
	}
	if err == nil {
		err = l2.Boost(beta)
	}
	if err != nil {
		p.isGood = false
		l1, l2 = v1, v2
	}

	d1 = p.daughter(l1, m1, isFinalState1)
	d2 = p.daughter(l2, m2, isFinalState2)
	if err != nil {
		d1.isGood, d2.isGood = false, false
	}

	if !d1.OnShell() || !d2.OnShell() {
		p.isGood = false
	}
	p.Verify(d1, d2)

	return d1, d2, nil
}

func (p *Particle) daughter(v geom.FourVector, m float64, isFinalState bool) *Particle {
	d := FromVector(v, m, isFinalState, p.eps)
	d.theta = p.theta
	return d
}

// Verify checks that the four-momenta of d1 and d2 sum to the particle's
// four-momentum component by component, to within Epsilon. The particle is
// marked as not good if they do not. Verify returns the particle's goodness
// afterwards.
func (p *Particle) Verify(d1, d2 *Particle) bool {
	sum := d1.vec.Add(d2.vec).Array()
	vec := p.vec.Array()
	for i := range vec {
		if math.Abs(sum[i]-vec[i]) > p.eps {
			p.isGood = false
		}
	}
	return p.isGood
}
