package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/fmom"

	"github.com/phil-mansfield/twobody/rand"
)

func vec4EpsEq(v1, v2 FourVector, eps float64) bool {
	a1, a2 := v1.Array(), v2.Array()
	for i := 0; i < 4; i++ {
		if !epsEq(a1[i], a2[i], eps) {
			return false
		}
	}
	return true
}

func (v *FourVector) random(gen *rand.Generator, pMax, m float64) {
	v.X = gen.Uniform(-pMax, pMax)
	v.Y = gen.Uniform(-pMax, pMax)
	v.Z = gen.Uniform(-pMax, pMax)
	v.T = math.Sqrt(v.P2() + m*m)
}

func TestFourVectorBasics(t *testing.T) {
	v := NewFourVector(3, 4, 12, 14)
	u := NewFourVector(1, -1, 2, 5)

	assert.Equal(t, 14.0, v.E())
	assert.Equal(t, 14.0*14-169, v.M2())
	assert.InDelta(t, math.Sqrt(27), v.M(), testEps)
	assert.Equal(t, 14.0*5-(3-4+24), v.Dot4(u))
	assert.Equal(t, NewFourVector(4, 3, 14, 19), v.Add(u))
	assert.Equal(t, NewFourVector(2, 5, 10, 9), v.Sub(u))
	assert.Equal(t, NewFourVector(6, 8, 24, 28), v.Scale(2))
	assert.Equal(t, ThreeVector{3, 4, 12}, v.Vec3())
	assert.True(t, v.Equal(NewFourVector(3, 4, 12, 14)))
	assert.False(t, v.Equal(NewFourVector(3, 4, 12, 14.5)))
	assert.Equal(t, "(3.0000, 4.0000, 12.0000, 14.0000)", v.String())

	spacelike := NewFourVector(0, 0, 5, 3)
	assert.Equal(t, -4.0, spacelike.M())

	v.SetE(13)
	assert.Equal(t, 0.0, v.M2())
}

func TestUnit4(t *testing.T) {
	u, err := NewFourVector(1, 1, 1, 1).Unit4()
	require.NoError(t, err)
	assert.Equal(t, NewFourVector(0.5, 0.5, 0.5, 0.5), u)

	_, err = FourVector{}.Unit4()
	assert.ErrorIs(t, err, ErrZeroMagnitude)
}

func TestBoostVector(t *testing.T) {
	b, err := NewFourVector(1, 2, 3, 10).BoostVector()
	require.NoError(t, err)
	assert.Equal(t, ThreeVector{0.1, 0.2, 0.3}, b)

	_, err = NewFourVector(1, 0, 0, 0).BoostVector()
	assert.ErrorIs(t, err, ErrZeroEnergy)
}

func TestBoostFromRest(t *testing.T) {
	eps := 1e-9
	table := []struct {
		m    float64
		beta ThreeVector
	}{
		{1, ThreeVector{0, 0, 0}},
		{1, ThreeVector{0.5, 0, 0}},
		{91.188, ThreeVector{0, 0.3, -0.4}},
		{0.105, ThreeVector{0.1, 0.2, 0.9}},
	}

	for i, test := range table {
		v := NewFourVector(0, 0, 0, test.m)
		err := v.Boost(test.beta)
		if err != nil {
			t.Errorf("%d) unexpected error %v", i+1, err)
			continue
		}

		g := 1 / math.Sqrt(1-test.beta.P2())
		p := test.beta.Scale(g * test.m)
		exp := FourVector{p, g * test.m}
		if !vec4EpsEq(v, exp, eps) {
			t.Errorf("%d) boosting %g at rest by %v gave %v, not %v",
				i+1, test.m, test.beta, v, exp)
		}
	}
}

func TestBoostSuperluminal(t *testing.T) {
	v := NewFourVector(1, 2, 3, 10)
	for _, beta := range []ThreeVector{{1, 0, 0}, {0.6, 0.6, 0.6}, {0, 0, -2}} {
		err := v.Boost(beta)
		assert.ErrorIs(t, err, ErrSuperluminal)
		assert.Equal(t, NewFourVector(1, 2, 3, 10), v, "vector modified")
	}
}

func TestBoostRoundTrip(t *testing.T) {
	gen := rand.New(rand.PCG, 3)
	for i := 0; i < 1000; i++ {
		v := FourVector{}
		v.random(gen, 100, gen.Uniform(0, 50))
		beta := ThreeVector{
			gen.Uniform(-0.5, 0.5), gen.Uniform(-0.5, 0.5), gen.Uniform(-0.5, 0.5),
		}

		out, err := v.Boosted(beta)
		require.NoError(t, err)
		require.NoError(t, out.Boost(beta.Neg()))

		if !vec4EpsEq(v, out, 1e-9*v.T) {
			t.Fatalf("%d) %v -> Boost(%v) -> Boost(-beta) = %v", i+1, v, beta, out)
		}
	}
}

func TestBoostPreservesMass(t *testing.T) {
	gen := rand.New(rand.PCG, 5)
	for i := 0; i < 1000; i++ {
		m := gen.Uniform(0, 100)
		v := FourVector{}
		v.random(gen, 200, m)

		parent := FourVector{}
		parent.random(gen, 500, gen.Uniform(1, 200))
		beta, err := parent.BoostVector()
		require.NoError(t, err)

		before := v.M2()
		require.NoError(t, v.Boost(beta))
		if !epsEq(before, v.M2(), 1e-9*v.T*v.T) {
			t.Fatalf("%d) boosting by %v changed M2 from %g to %g",
				i+1, beta, before, v.M2())
		}
		if v.T < 0 {
			t.Fatalf("%d) boosted energy is negative: %v", i+1, v)
		}
	}
}

func TestFmomCrossCheck(t *testing.T) {
	gen := rand.New(rand.ChaCha8, 11)
	for i := 0; i < 200; i++ {
		v1, v2 := FourVector{}, FourVector{}
		v1.random(gen, 100, gen.Uniform(1, 10))
		v2.random(gen, 100, gen.Uniform(1, 10))

		p1 := fmom.NewPxPyPzE(v1.X, v1.Y, v1.Z, v1.T)
		p2 := fmom.NewPxPyPzE(v2.X, v2.Y, v2.Z, v2.T)

		assert.InDelta(t, p1.Pt(), v1.Pt(), 1e-9)
		assert.InDelta(t, p1.Eta(), v1.Eta(), 1e-9)
		assert.InDelta(t, 0.0, WrapPhi(p1.Phi()-v1.Phi()), 1e-9)
		assert.InDelta(t, p1.M(), v1.M(), 1e-6)
		assert.InDelta(t, fmom.DeltaR(&p1, &p2), v1.DeltaR(v2.ThreeVector), 1e-9)
	}
}

func TestPtEtaPhiM(t *testing.T) {
	v := PtEtaPhiM(20, -1.2, 0.4, 91.188)
	assert.InDelta(t, 20, v.Pt(), 1e-9)
	assert.InDelta(t, -1.2, v.Eta(), 1e-9)
	assert.InDelta(t, 0.4, v.Phi(), 1e-9)
	assert.InDelta(t, 91.188, v.M(), 1e-9)
}

func BenchmarkBoost(b *testing.B) {
	gen := rand.New(rand.PCG, 1)
	vs := make([]FourVector, 1024)
	for i := range vs {
		vs[i].random(gen, 100, 10)
	}
	beta := ThreeVector{0.1, -0.2, 0.3}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := vs[i%len(vs)]
		v.Boost(beta)
	}
}
