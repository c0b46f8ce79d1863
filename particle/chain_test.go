package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/twobody/geom"
	"github.com/phil-mansfield/twobody/rand"
)

func higgsToFourLeptons() *Channel {
	zll := &Channel{M1: 0.000511, M2: 0.000511, IsFinalState1: true, IsFinalState2: true}
	return &Channel{M1: 60, M2: 40, Sub1: zll, Sub2: zll}
}

func TestDecayChain(t *testing.T) {
	gen := rand.New(rand.PCG, testSeed)
	for i := 0; i < 200; i++ {
		h, err := New(gen, 125, gen.Exp(50, 0), gen.Mom(100), false, 0)
		require.NoError(t, err)
		h.SetThetaSampler(IsotropicTheta)

		tree, err := h.DecayChain(gen, higgsToFourLeptons())
		require.NoError(t, err)
		require.NotNil(t, tree.Daughters)

		leaves := tree.Leaves()
		require.Len(t, leaves, 4)

		sum := geom.FourVector{}
		for _, l := range leaves {
			assert.True(t, l.IsFinalState())
			sum = sum.Add(l.Vec())
		}

		s, v := sum.Array(), h.Vec().Array()
		if !floats.EqualApprox(s[:], v[:], 10*h.Epsilon()) {
			t.Fatalf("%d) leaves sum to %v, not %v", i+1, sum, h.Vec())
		}
		assert.True(t, tree.Good())
		assert.False(t, tree.Vetoed())

		for _, z := range tree.Daughters {
			assert.False(t, z.IsFinalState())
			assert.NotNil(t, z.Daughters)
		}
	}
}

func TestDecayChainErrors(t *testing.T) {
	gen := rand.New(rand.PCG, testSeed)
	h, err := New(gen, 125, 10, 0, false, 0)
	require.NoError(t, err)

	// The daughter is final-state, so it can't take a sub-channel.
	bad := &Channel{M1: 60, M2: 40, IsFinalState1: true, Sub1: &Channel{}}
	_, err = h.DecayChain(gen, bad)
	assert.ErrorIs(t, err, ErrFinalState)

	// The Z* is too light for its sub-decay.
	bad = &Channel{M1: 60, M2: 40, Sub2: &Channel{M1: 30, M2: 30}}
	_, err = h.DecayChain(gen, bad)
	assert.ErrorIs(t, err, ErrMassConservation)

	tree, err := h.DecayChain(gen, nil)
	require.NoError(t, err)
	assert.Nil(t, tree.Daughters)
	assert.Equal(t, []*Particle{h}, tree.Leaves())
}

func TestNodeVetoed(t *testing.T) {
	gen := rand.New(rand.PCG, testSeed)
	h, err := New(gen, 125, 10, 0, false, 0)
	require.NoError(t, err)
	tree, err := h.DecayChain(gen, higgsToFourLeptons())
	require.NoError(t, err)

	assert.False(t, tree.Vetoed())
	tree.Daughters[1].Daughters[0].Veto()
	assert.True(t, tree.Vetoed())
	assert.False(t, h.Vetoed())
}
