package particle

import (
	"github.com/phil-mansfield/twobody/rand"
)

// Channel describes a two-body decay and, optionally, the decays of its
// daughters. A daughter with a non-nil sub-channel must not be final-state.
type Channel struct {
	M1, M2                       float64
	IsFinalState1, IsFinalState2 bool
	Sub1, Sub2                   *Channel
}

// Node is a particle in a decay tree. Leaves have nil Daughters.
type Node struct {
	*Particle
	Daughters *[2]*Node
}

// DecayChain decays p according to ch and then recursively decays each
// daughter with a sub-channel.
func (p *Particle) DecayChain(gen *rand.Generator, ch *Channel) (*Node, error) {
	node := &Node{Particle: p}
	if ch == nil {
		return node, nil
	}

	d1, d2, err := p.Decay(gen, ch.M1, ch.M2, ch.IsFinalState1, ch.IsFinalState2)
	if err != nil {
		return nil, err
	}

	n1, err := d1.DecayChain(gen, ch.Sub1)
	if err != nil {
		return nil, err
	}
	n2, err := d2.DecayChain(gen, ch.Sub2)
	if err != nil {
		return nil, err
	}

	node.Daughters = &[2]*Node{n1, n2}
	return node, nil
}

// Leaves returns the particles at the ends of the decay tree.
func (node *Node) Leaves() []*Particle {
	if node.Daughters == nil {
		return []*Particle{node.Particle}
	}
	return append(node.Daughters[0].Leaves(), node.Daughters[1].Leaves()...)
}

// Good returns true if every particle in the tree is good.
func (node *Node) Good() bool {
	if !node.IsGood() {
		return false
	}
	if node.Daughters == nil {
		return true
	}
	return node.Daughters[0].Good() && node.Daughters[1].Good()
}

// Vetoed returns true if any particle in the tree is vetoed.
func (node *Node) Vetoed() bool {
	if node.Particle.Vetoed() {
		return true
	}
	if node.Daughters == nil {
		return false
	}
	return node.Daughters[0].Vetoed() || node.Daughters[1].Vetoed()
}
