package geom

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrSuperluminal is returned by Boost for velocities with |beta| >= 1.
	ErrSuperluminal = errors.New("geom: boost velocity is not below c")
	// ErrZeroEnergy is returned when the boost vector of a vector with no
	// time component is requested.
	ErrZeroEnergy = errors.New("geom: four-vector has zero energy")
)

// FourVector is a relativistic vector (x, y, z, t). As an energy-momentum
// vector, T is the energy.
type FourVector struct {
	ThreeVector
	T float64
}

// NewFourVector returns the vector (x, y, z, t).
func NewFourVector(x, y, z, t float64) FourVector {
	return FourVector{ThreeVector{x, y, z}, t}
}

// PtEtaPhiM returns the energy-momentum vector of a particle with the given
// transverse momentum, pseudorapidity, azimuth and mass.
func PtEtaPhiM(pt, eta, phi, m float64) FourVector {
	px, py := pt*math.Cos(phi), pt*math.Sin(phi)
	pz := pt * math.Sinh(eta)
	return FourVector{
		ThreeVector{px, py, pz},
		math.Sqrt(px*px + py*py + pz*pz + m*m),
	}
}

// E returns the energy (time) component.
func (v FourVector) E() float64 { return v.T }

// SetE sets the energy (time) component.
func (v *FourVector) SetE(e float64) { v.T = e }

// Vec3 returns the spatial part of v.
func (v FourVector) Vec3() ThreeVector { return v.ThreeVector }

// M2 returns t^2 - |x|^2, the squared invariant mass.
func (v FourVector) M2() float64 { return v.T*v.T - v.P2() }

// M returns the invariant mass. Spacelike vectors get a negative mass,
// -sqrt(-M2).
func (v FourVector) M() float64 {
	m2 := v.M2()
	if m2 < 0 {
		return -math.Sqrt(-m2)
	}
	return math.Sqrt(m2)
}

// Dot4 returns the Minkowski product t1*t2 - x1.x2.
func (v FourVector) Dot4(u FourVector) float64 {
	return v.T*u.T - v.Dot(u.ThreeVector)
}

// Unit4 returns v divided by its Euclidean four-dimensional length.
func (v FourVector) Unit4() (FourVector, error) {
	mag := math.Sqrt(v.P2() + v.T*v.T)
	if mag == 0 {
		return FourVector{}, ErrZeroMagnitude
	}
	return FourVector{v.ThreeVector.Scale(1 / mag), v.T / mag}, nil
}

// BoostVector returns the velocity beta = x / t of a frame carrying v as its
// total momentum.
func (v FourVector) BoostVector() (ThreeVector, error) {
	if v.T == 0 {
		return ThreeVector{}, ErrZeroEnergy
	}
	return ThreeVector{v.X / v.T, v.Y / v.T, v.Z / v.T}, nil
}

// Boost transforms v in place into a frame moving with velocity -beta
// relative to its current frame. Boosting a vector given in a particle's rest
// frame by that particle's BoostVector gives the vector in the lab frame.
// The vector is left untouched if |beta| >= 1.
func (v *FourVector) Boost(beta ThreeVector) error {
	b2 := beta.P2()
	if b2 >= 1 {
		return fmt.Errorf("%w: beta^2 = %g", ErrSuperluminal, b2)
	}

	g := 1 / math.Sqrt(1-b2)
	bp := v.Dot(beta)
	g2 := 0.0
	if b2 > 0 {
		g2 = (g - 1) / b2
	}

	k := g2*bp + g*v.T
	v.X += k * beta.X
	v.Y += k * beta.Y
	v.Z += k * beta.Z
	v.T = g * (v.T + bp)
	return nil
}

// Boosted returns a boosted copy of v.
func (v FourVector) Boosted(beta ThreeVector) (FourVector, error) {
	err := v.Boost(beta)
	return v, err
}

// Add returns v + u.
func (v FourVector) Add(u FourVector) FourVector {
	return FourVector{v.ThreeVector.Add(u.ThreeVector), v.T + u.T}
}

// Sub returns v - u.
func (v FourVector) Sub(u FourVector) FourVector {
	return FourVector{v.ThreeVector.Sub(u.ThreeVector), v.T - u.T}
}

// Scale returns k * v.
func (v FourVector) Scale(k float64) FourVector {
	return FourVector{v.ThreeVector.Scale(k), k * v.T}
}

// Equal compares components exactly.
func (v FourVector) Equal(u FourVector) bool {
	return v.ThreeVector.Equal(u.ThreeVector) && v.T == u.T
}

// Array returns the components as (x, y, z, t).
func (v FourVector) Array() [4]float64 {
	return [4]float64{v.X, v.Y, v.Z, v.T}
}

func (v FourVector) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f, %.4f)", v.X, v.Y, v.Z, v.T)
}
