package twobody

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/twobody/analyze"
	"github.com/phil-mansfield/twobody/hist"
	"github.com/phil-mansfield/twobody/io"
	"github.com/phil-mansfield/twobody/particle"
	"github.com/phil-mansfield/twobody/pdg"
	"github.com/phil-mansfield/twobody/rand"
)

const (
	// Bins is the number of bins used by every 1D histogram.
	Bins = 50
	// Bins2D is the number of bins along each axis of 2D histograms.
	Bins2D = 25

	etaRange = 5.0
)

// Summary counts the outcomes of a run. Every event is exactly one of Good,
// Vetoed or Bad.
type Summary struct {
	Events, Good, Vetoed, Bad int
}

func (s *Summary) add(s2 Summary) {
	s.Events += s2.Events
	s.Good += s2.Good
	s.Vetoed += s2.Vetoed
	s.Bad += s2.Bad
}

// Manager generates parent particles, decays them and histograms the decay
// products.
type Manager struct {
	con     *io.DecayConfig
	table   *pdg.Table
	channel *particle.Channel
	cuts    analyze.Cuts
	theta   particle.ThetaSampler

	mass, width float64
	gen         *rand.Generator

	log     bool
	workers int
}

// NewManager creates a Manager for the given configuration. table is only
// used when con.ParentID is set. If it is nil, pdg.Default() is used.
func NewManager(
	con *io.DecayConfig, table *pdg.Table, logFlag bool,
) (*Manager, error) {
	if err := con.CheckInit(); err != nil {
		return nil, err
	}

	man := &Manager{con: con, log: logFlag}

	man.mass, man.width = con.ParentMass, con.ParentWidth
	if con.ParentID != 0 {
		if table == nil {
			table = pdg.Default()
		}
		e, err := table.Lookup(con.ParentID)
		if err != nil {
			return nil, err
		}
		man.table, man.mass, man.width = table, e.Mass, e.Width
	}

	if man.mass < con.DaughterMass1+con.DaughterMass2 {
		return nil, fmt.Errorf(
			"%w: parent of mass %g cannot decay into masses %g and %g",
			particle.ErrMassConservation, man.mass,
			con.DaughterMass1, con.DaughterMass2,
		)
	}

	man.channel = &particle.Channel{
		M1: con.DaughterMass1, M2: con.DaughterMass2,
		IsFinalState1: con.DaughterFinalState1,
		IsFinalState2: con.DaughterFinalState2,
	}
	if !con.DaughterFinalState1 && con.DaughterMass1 > 0 {
		man.channel.Sub1 = &particle.Channel{
			M1: con.ChainMass1, M2: con.ChainMass1,
			IsFinalState1: true, IsFinalState2: true,
		}
	}
	if !con.DaughterFinalState2 && con.DaughterMass2 > 0 {
		man.channel.Sub2 = &particle.Channel{
			M1: con.ChainMass2, M2: con.ChainMass2,
			IsFinalState1: true, IsFinalState2: true,
		}
	}

	man.cuts = analyze.Cuts{
		PtMin: con.PtCut, EtaMax: con.EtaCut, DeltaRMin: con.DeltaRCut,
	}

	man.theta = particle.LegacyTheta
	if con.Isotropic {
		man.theta = particle.IsotropicTheta
	}

	if con.Seed == 0 {
		man.gen = rand.NewTimeSeed(con.GeneratorType())
	} else {
		man.gen = rand.New(con.GeneratorType(), con.Seed)
	}

	man.workers = con.Workers
	if man.workers == 0 {
		man.workers = runtime.NumCPU()
	}
	if man.workers > con.Events {
		man.workers = con.Events
	}

	if man.log {
		log.Printf(
			"Parent mass: %g, width: %g. Daughter masses: %g, %g. "+
				"Workers: %d. Seed: %d.",
			man.mass, man.width, con.DaughterMass1, con.DaughterMass2,
			man.workers, man.gen.Seed(),
		)
	}

	return man, nil
}

// Channel returns the decay channel every parent is decayed through.
func (man *Manager) Channel() *particle.Channel { return man.channel }

// Workers returns the number of worker goroutines used by Run.
func (man *Manager) Workers() int { return man.workers }

// Run is RunContext with a background context.
func (man *Manager) Run() (*hist.Book, Summary, error) {
	return man.RunContext(context.Background())
}

// RunContext decays con.Events parents split across the Manager's workers and
// returns the merged histograms of the accepted events. The histograms are
// not normalized. For a fixed, non-zero seed and worker count the result is
// reproducible.
func (man *Manager) RunContext(ctx context.Context) (*hist.Book, Summary, error) {
	books := make([]*hist.Book, man.workers)
	sums := make([]Summary, man.workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < man.workers; w++ {
		book, err := man.book("")
		if err != nil {
			return nil, Summary{}, err
		}
		books[w] = book

		n := man.con.Events / man.workers
		if w < man.con.Events%man.workers {
			n++
		}

		gen := man.gen.Split(w)
		g.Go(func() error {
			return man.work(ctx, gen, n, books[w], &sums[w])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	out, err := man.book(man.con.Output)
	if err != nil {
		return nil, Summary{}, err
	}
	sum := Summary{}
	for w := range books {
		if err := out.Merge(books[w]); err != nil {
			return nil, Summary{}, err
		}
		sum.add(sums[w])
	}

	if man.log {
		log.Printf(
			"Decayed %d events: %d good, %d vetoed, %d bad.",
			sum.Events, sum.Good, sum.Vetoed, sum.Bad,
		)
	}

	return out, sum, nil
}

func (man *Manager) work(
	ctx context.Context, gen *rand.Generator, n int,
	book *hist.Book, sum *Summary,
) error {
	for i := 0; i < n; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := man.event(gen, book, sum); err != nil {
			return err
		}
	}
	return nil
}

// event generates, decays and records a single parent.
func (man *Manager) event(
	gen *rand.Generator, book *hist.Book, sum *Summary,
) error {
	sum.Events++

	m, err := man.parentMass(gen)
	if err != nil {
		return err
	}
	pt := gen.Exp(man.con.PtMean, man.con.PtMin)
	pz := gen.Mom(man.con.PzMax)

	parent, err := particle.New(gen, m, pt, pz, false, man.con.Epsilon)
	if err != nil {
		return err
	}
	parent.SetThetaSampler(man.theta)

	root, err := parent.DecayChain(gen, man.channel)
	if errors.Is(err, particle.ErrMassConservation) ||
		errors.Is(err, particle.ErrMassless) {
		// The sampled mass fell below threshold.
		sum.Bad++
		return nil
	} else if err != nil {
		return err
	}

	man.applyCuts(root)

	switch {
	case !root.Good():
		sum.Bad++
		return nil
	case root.Vetoed():
		sum.Vetoed++
		return nil
	}
	sum.Good++

	return fill(book, root)
}

func (man *Manager) parentMass(gen *rand.Generator) (float64, error) {
	if man.table != nil {
		return man.table.SampleMass(gen, man.con.ParentID)
	}
	return math.Max(gen.WidthMass(man.mass, man.width), 0), nil
}

// applyCuts applies the cuts to the final-state particles below node and
// vetoes every ancestor of a vetoed particle. Only decays into two
// final-state particles are subject to the DeltaR cut.
func (man *Manager) applyCuts(node *particle.Node) {
	if node.Daughters == nil {
		return
	}
	n1, n2 := node.Daughters[0], node.Daughters[1]
	man.applyCuts(n1)
	man.applyCuts(n2)

	if n1.Daughters == nil && n2.Daughters == nil {
		man.cuts.ApplyDecay(node.Particle, n1.Particle, n2.Particle)
		return
	}

	if n1.Daughters == nil {
		man.cuts.Apply(n1.Particle)
	}
	if n2.Daughters == nil {
		man.cuts.Apply(n2.Particle)
	}
	if n1.Vetoed() || n2.Vetoed() {
		node.Veto()
	}
}

type booking struct {
	name          string
	min, max      float64
	title, xTitle string
}

type value struct {
	name string
	x    float64
}

// book creates a Book with every histogram filled by a run.
func (man *Manager) book(dir string) (*hist.Book, error) {
	b, err := hist.NewBook(dir)
	if err != nil {
		return nil, err
	}

	ptMax := man.con.PtMin + 8*man.con.PtMean
	mLo, mHi := 0.9*man.mass, 1.1*man.mass
	if man.width > 0 {
		mLo, mHi = math.Max(man.mass-5*man.width, 0), man.mass+5*man.width
	}
	phiMax := math.Nextafter(math.Pi, 4)

	h1 := []booking{
		{"parent_pt", 0, ptMax, "Parent pT", "pT [GeV]"},
		{"parent_eta", -etaRange, etaRange, "Parent Eta", "eta"},
		{"parent_mass", mLo, mHi, "Parent Mass", "M [GeV]"},
		{"d1_pt", 0, ptMax, "Daughter 1 pT", "pT [GeV]"},
		{"d2_pt", 0, ptMax, "Daughter 2 pT", "pT [GeV]"},
		{"d1_eta", -etaRange, etaRange, "Daughter 1 Eta", "eta"},
		{"d2_eta", -etaRange, etaRange, "Daughter 2 Eta", "eta"},
		{"d1_phi", -math.Pi, phiMax, "Daughter 1 Phi", "phi"},
		{"d2_phi", -math.Pi, phiMax, "Daughter 2 Phi", "phi"},
		{"delta_r", 0, 2 * etaRange, "Daughter Delta R", "Delta R"},
		{"delta_phi", -math.Pi, phiMax, "Daughter Delta Phi", "Delta phi"},
		{"delta_eta", 0, 2 * etaRange, "Daughter Delta Eta", "|Delta eta|"},
		{"cos_theta", -1, math.Nextafter(1, 2),
			"Daughter Opening Angle", "cos(theta)"},
		{"leaf_pt", 0, ptMax, "Final-State pT", "pT [GeV]"},
		{"leaf_eta", -etaRange, etaRange, "Final-State Eta", "eta"},
		{"leaf_phi", -math.Pi, phiMax, "Final-State Phi", "phi"},
	}
	for _, h := range h1 {
		err := b.Add1D(h.name, Bins, h.min, h.max, h.title, h.xTitle, "Events")
		if err != nil {
			return nil, err
		}
	}

	err = b.Add2D(
		"d1_d2_pt", Bins2D, 0, ptMax, Bins2D, 0, ptMax,
		"Daughter pT", "Daughter 1 pT [GeV]", "Daughter 2 pT [GeV]",
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// fill records the observables of an accepted event. The d1 and d2
// histograms hold the parent's direct daughters and the leaf histograms hold
// every final-state particle at the ends of the decay tree.
func fill(b *hist.Book, root *particle.Node) error {
	parent := analyze.Single(root.Particle)
	d1 := analyze.Single(root.Daughters[0].Particle)
	d2 := analyze.Single(root.Daughters[1].Particle)

	vals := []value{
		{"parent_pt", parent.Pt},
		{"parent_eta", parent.Eta},
		{"parent_mass", parent.M},
		{"d1_pt", d1.Pt},
		{"d2_pt", d2.Pt},
		{"d1_eta", d1.Eta},
		{"d2_eta", d2.Eta},
		{"d1_phi", d1.Phi},
		{"d2_phi", d2.Phi},
	}

	pair, err := analyze.Pair(
		root.Daughters[0].Particle, root.Daughters[1].Particle,
	)
	if err == nil {
		vals = append(vals,
			value{"delta_r", pair.DR},
			value{"delta_phi", pair.DPhi},
			value{"delta_eta", pair.DEta},
			value{"cos_theta", pair.CosTheta},
		)
	} else if !errors.Is(err, analyze.ErrZeroMomentum) {
		return err
	}

	for _, leaf := range root.Leaves() {
		obs := analyze.Single(leaf)
		vals = append(vals,
			value{"leaf_pt", obs.Pt},
			value{"leaf_eta", obs.Eta},
			value{"leaf_phi", obs.Phi},
		)
	}

	for _, v := range vals {
		if err := b.Fill1D(v.name, v.x); err != nil {
			return err
		}
	}
	return b.Fill2D("d1_d2_pt", d1.Pt, d2.Pt)
}
