/*package particle contains the Particle type and the two-body decay engine
which operates on it.

A Particle owns its four-vector. Decaying a Particle returns two new,
independent Particles which can themselves be decayed, so decay chains are
trees of Particles with no references back to their parents.
*/
package particle

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/phil-mansfield/twobody/geom"
	"github.com/phil-mansfield/twobody/rand"
)

// DefaultEpsilon is the tolerance used for mass-shell and conservation
// checks when none is given.
const DefaultEpsilon = 1e-5

// ErrNegativeMass is returned when a particle or daughter is given a
// negative mass.
var ErrNegativeMass = errors.New("particle: negative mass")

// Particle is a particle with a known energy-momentum vector.
type Particle struct {
	vec geom.FourVector
	m   float64

	isFinalState bool
	isGood       bool
	veto         bool

	eps   float64
	theta ThetaSampler
}

// New creates a particle of mass m with transverse momentum pt and
// longitudinal momentum pz. The azimuth of the transverse momentum is drawn
// uniformly from gen. Massless particles are always final-state. A
// non-positive eps selects DefaultEpsilon.
func New(
	gen *rand.Generator, m, pt, pz float64, isFinalState bool, eps float64,
) (*Particle, error) {
	if m < 0 {
		return nil, fmt.Errorf("%w: m = %g", ErrNegativeMass, m)
	} else if pt < 0 {
		return nil, fmt.Errorf("particle: negative transverse momentum %g", pt)
	}

	phi := gen.Angle()
	px, py := pt*math.Cos(phi), pt*math.Sin(phi)
	e := math.Sqrt(pt*pt + pz*pz + m*m)

	return FromVector(geom.NewFourVector(px, py, pz, e), m, isFinalState, eps), nil
}

// FromVector creates a particle with the given energy-momentum vector and
// mass. The caller's final-state flag is kept unless m is zero, in which case
// the particle is always final-state. A non-positive eps selects
// DefaultEpsilon.
func FromVector(
	vec geom.FourVector, m float64, isFinalState bool, eps float64,
) *Particle {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	return &Particle{
		vec:          vec,
		m:            m,
		isFinalState: isFinalState || m == 0,
		isGood:       true,
		eps:          eps,
		theta:        LegacyTheta,
	}
}

// Vec returns a copy of the particle's four-vector.
func (p *Particle) Vec() geom.FourVector { return p.vec }

// Mass returns the nominal rest mass.
func (p *Particle) Mass() float64 { return p.m }

func (p *Particle) E() float64   { return p.vec.T }
func (p *Particle) P() float64   { return p.vec.P() }
func (p *Particle) Px() float64  { return p.vec.X }
func (p *Particle) Py() float64  { return p.vec.Y }
func (p *Particle) Pz() float64  { return p.vec.Z }
func (p *Particle) Pt() float64  { return p.vec.Pt() }
func (p *Particle) Eta() float64 { return p.vec.Eta() }
func (p *Particle) Phi() float64 { return p.vec.Phi() }

// Epsilon returns the tolerance used by the particle's consistency checks.
func (p *Particle) Epsilon() float64 { return p.eps }

// IsFinalState returns true if the particle cannot be decayed.
func (p *Particle) IsFinalState() bool { return p.isFinalState }

// IsGood returns false if a physical-consistency check on the particle or
// its decay failed.
func (p *Particle) IsGood() bool { return p.isGood }

// Vetoed returns true if the particle failed a cut.
func (p *Particle) Vetoed() bool { return p.veto }

// Veto marks the particle as rejected by a cut.
func (p *Particle) Veto() { p.veto = true }

// SetThetaSampler changes how polar decay angles are drawn for this particle
// and for any daughters it produces.
func (p *Particle) SetThetaSampler(theta ThetaSampler) { p.theta = theta }

// OnShell returns true if the particle's invariant mass squared agrees with
// its nominal mass squared to within Epsilon.
func (p *Particle) OnShell() bool {
	return math.Abs(p.vec.M2()-p.m*p.m) <= p.eps
}

// PTCuts vetoes the particle if its transverse momentum is not above pt.
func (p *Particle) PTCuts(pt float64) {
	if p.Pt() <= pt {
		p.veto = true
	}
}

// EtaCuts vetoes the particle if |eta| is not below eta.
func (p *Particle) EtaCuts(eta float64) {
	if math.Abs(p.Eta()) >= eta {
		p.veto = true
	}
}

// String returns the particle as a "pX pY pZ E M" line.
func (p *Particle) String() string {
	return fmt.Sprintf("%7.4f %7.4f %7.4f %7.4f %7.4f",
		p.vec.X, p.vec.Y, p.vec.Z, p.vec.T, p.m)
}

// LHE renders a parent and its daughters as a pseudo-LHE event block.
func LHE(parent *Particle, daughters ...*Particle) string {
	sb := &strings.Builder{}
	sb.WriteString("<evt>\npX\t pY\t pZ\t E\t M\n")
	sb.WriteString(parent.String())
	sb.WriteString("\n")
	for _, d := range daughters {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	sb.WriteString("</evt>")
	return sb.String()
}
