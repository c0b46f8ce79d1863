/*package geom contains the three- and four-vector algebra used for
relativistic kinematics.

Every accessor that exists for a position also exists for a momentum (X and
Px, T and E, etc.), so the same types are used for both.
*/
package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// EtaInf is the pseudorapidity returned for vectors lying along the beam
// axis. It stands in for infinity.
const EtaInf = 1e72

var (
	// ErrZeroMagnitude is returned when a unit vector is requested for a
	// vector with no length.
	ErrZeroMagnitude = errors.New("geom: vector has zero magnitude")
	// ErrZeroDivisor is returned when a vector is divided by zero.
	ErrZeroDivisor = errors.New("geom: division of vector by zero")
)

// ThreeVector is a three dimensional vector. It shares its layout with
// r3.Vec, so the two convert freely.
type ThreeVector r3.Vec

// NewThreeVector returns the vector (x, y, z).
func NewThreeVector(x, y, z float64) ThreeVector {
	return ThreeVector{X: x, Y: y, Z: z}
}

func (v ThreeVector) r3() r3.Vec { return r3.Vec(v) }

// Px returns the x-component.
func (v ThreeVector) Px() float64 { return v.X }

// Py returns the y-component.
func (v ThreeVector) Py() float64 { return v.Y }

// Pz returns the z-component.
func (v ThreeVector) Pz() float64 { return v.Z }

// SetXYZ sets all three components.
func (v *ThreeVector) SetXYZ(x, y, z float64) {
	v.X, v.Y, v.Z = x, y, z
}

// P2 returns the squared magnitude.
func (v ThreeVector) P2() float64 { return r3.Dot(v.r3(), v.r3()) }

// P returns the magnitude.
func (v ThreeVector) P() float64 { return r3.Norm(v.r3()) }

// Pt returns the magnitude of the component transverse to the z (beam) axis.
func (v ThreeVector) Pt() float64 { return math.Hypot(v.X, v.Y) }

// Phi returns the azimuthal angle in (-pi, pi].
func (v ThreeVector) Phi() float64 { return math.Atan2(v.Y, v.X) }

// Eta returns the pseudorapidity, 0.5 ln((P + z)/(P - z)). Vectors along the
// beam axis get +/-EtaInf and the zero vector gets 0.
func (v ThreeVector) Eta() float64 {
	p := v.P()
	switch {
	case p == 0:
		return 0
	case p == v.Z:
		return EtaInf
	case p == -v.Z:
		return -EtaInf
	}
	return 0.5 * math.Log((p+v.Z)/(p-v.Z))
}

// DeltaPhi returns the azimuthal separation v.Phi() - u.Phi(), wrapped into
// (-pi, pi].
func (v ThreeVector) DeltaPhi(u ThreeVector) float64 {
	return WrapPhi(v.Phi() - u.Phi())
}

// DeltaEta returns the absolute pseudorapidity separation.
func (v ThreeVector) DeltaEta(u ThreeVector) float64 {
	return math.Abs(v.Eta() - u.Eta())
}

// DeltaR returns sqrt(DeltaEta^2 + DeltaPhi^2).
func (v ThreeVector) DeltaR(u ThreeVector) float64 {
	return math.Hypot(v.DeltaEta(u), v.DeltaPhi(u))
}

// Dot returns the dot product of two vectors.
func (v ThreeVector) Dot(u ThreeVector) float64 { return r3.Dot(v.r3(), u.r3()) }

// Unit returns a unit vector parallel to v.
func (v ThreeVector) Unit() (ThreeVector, error) {
	if v.P2() == 0 {
		return ThreeVector{}, ErrZeroMagnitude
	}
	return ThreeVector(r3.Unit(v.r3())), nil
}

// CosTheta returns the cosine of the angle between v and u, clamped to
// [-1, 1]. Exactly antiparallel vectors give exactly -1.
func (v ThreeVector) CosTheta(u ThreeVector) (float64, error) {
	v2, u2 := v.P2(), u.P2()
	if v2 == 0 || u2 == 0 {
		return 0, ErrZeroMagnitude
	}
	// sqrt(x*x) == |x| keeps antiparallel vectors at exactly -1.
	cos := v.Dot(u) / math.Sqrt(v2*u2)
	return math.Max(-1, math.Min(1, cos)), nil
}

// Add returns v + u.
func (v ThreeVector) Add(u ThreeVector) ThreeVector {
	return ThreeVector(r3.Add(v.r3(), u.r3()))
}

// Sub returns v - u.
func (v ThreeVector) Sub(u ThreeVector) ThreeVector {
	return ThreeVector(r3.Sub(v.r3(), u.r3()))
}

// Scale returns k * v.
func (v ThreeVector) Scale(k float64) ThreeVector {
	return ThreeVector(r3.Scale(k, v.r3()))
}

// Div returns v / k.
func (v ThreeVector) Div(k float64) (ThreeVector, error) {
	if k == 0 {
		return ThreeVector{}, ErrZeroDivisor
	}
	return v.Scale(1 / k), nil
}

// Neg returns -v.
func (v ThreeVector) Neg() ThreeVector { return v.Scale(-1) }

// Equal compares components exactly.
func (v ThreeVector) Equal(u ThreeVector) bool {
	return v.X == u.X && v.Y == u.Y && v.Z == u.Z
}

// Array returns the components as (x, y, z).
func (v ThreeVector) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func (v ThreeVector) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// WrapPhi maps an angle into (-pi, pi].
func WrapPhi(phi float64) float64 {
	phi = math.Remainder(phi, 2*math.Pi)
	if phi <= -math.Pi {
		phi += 2 * math.Pi
	}
	return phi
}
