package io

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/twobody/rand"
)

const (
	ExampleDecayFile = `[Decay]

#######################
# Required Parameters #
#######################

# Directory which plots will be written to. It will be created if it does not
# exist.
Output = path/to/output/dir

# Number of parent particles to generate and decay.
Events = 100000

# Nominal mass of the parent particle in GeV.
ParentMass = 91.188

#######################
# Optional Parameters #
#######################

# Full width at half maximum of the parent's mass distribution. If zero, every
# parent has exactly ParentMass. Default is 0.
# ParentWidth = 2.495

# Instead of ParentMass and ParentWidth, the parent can be given as a PDG ID.
# Its mass and width are then looked up in ParticleTable, a text file with the
# columns (ID, mass, width). If ParticleTable is not set, a built-in table
# containing the common leptons and bosons is used.
# ParentID = 23
# ParticleTable = path/to/particles.txt

# The parent's transverse momentum is PtMin plus an exponential with mean
# PtMean. Its longitudinal momentum is uniform in (-PzMax, PzMax). Defaults are
# 250, 50 and 0.
# PtMean = 250
# PtMin = 50
# PzMax = 0

# Masses of the two decay products. Defaults are 0 (massless).
# DaughterMass1 = 0.105658
# DaughterMass2 = 0.105658

# Decay products which are not in the final state are decayed a second time
# into two particles of mass ChainMass1 (for the first daughter) or ChainMass2
# (for the second daughter). Defaults are true and 0.
# DaughterFinalState1 = true
# DaughterFinalState2 = true
# ChainMass1 = 0
# ChainMass2 = 0

# Tolerance used when checking the mass shell and momentum conservation.
# The mass shell check is an absolute tolerance on M^2 = E^2 - p^2, so the
# floating point rounding in M^2 grows like p^2. PzMax may be at most
# sqrt(Epsilon / 1e-14), about 30000 GeV for the default; larger momenta need
# a larger Epsilon or every decay would be flagged as inconsistent. Default is
# 1e-5.
# Epsilon = 1e-5

# By default, the polar decay angle is sampled uniformly. Setting Isotropic
# samples cos(theta) uniformly instead, which gives isotropic decays.
# Isotropic = false

# Cuts applied to the decay products. Events where either daughter fails a
# cut, or where the daughters are closer than DeltaRCut, are vetoed. Zero
# disables a cut. Defaults are 0.
# PtCut = 20
# EtaCut = 2.5
# DeltaRCut = 0.4

# Random number generation. Seed = 0 seeds from the clock. Generator can be
# PCG or ChaCha8. Defaults are 0 and PCG.
# Seed = 0
# Generator = PCG

# Number of worker goroutines. Default is the number of logical cores.
# Workers = 0

# Format passed to matplotlib when saving plots. Default is pdf.
# PlotFormat = pdf

# If true, every histogram is normalized to unit integral. Default is true.
# Normalize = true

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`
)

// MassShellRounding is the relative rounding error assumed for E^2 - p^2 when
// checking PzMax against Epsilon.
const MassShellRounding = 1e-14

type SharedConfig struct {
	// Required
	Output string
	// Optional
	LogFile, ProfileFile string
}

func (con *SharedConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

type DecayConfig struct {
	SharedConfig

	// Required
	Events     int
	ParentMass float64

	// Optional
	ParentWidth   float64
	ParentID      int
	ParticleTable string

	PtMean, PtMin, PzMax float64

	DaughterMass1, DaughterMass2             float64
	DaughterFinalState1, DaughterFinalState2 bool
	ChainMass1, ChainMass2                   float64

	Epsilon   float64
	Isotropic bool

	PtCut, EtaCut, DeltaRCut float64

	Seed      uint64
	Generator string
	Workers   int

	PlotFormat string
	Normalize  bool
}

type DecayWrapper struct {
	Decay DecayConfig
}

func DefaultDecayWrapper() *DecayWrapper {
	con := DecayConfig{}
	con.PtMean = 250
	con.PtMin = 50
	con.DaughterFinalState1 = true
	con.DaughterFinalState2 = true
	con.Epsilon = 1e-5
	con.Generator = rand.PCG.String()
	con.PlotFormat = "pdf"
	con.Normalize = true
	return &DecayWrapper{con}
}

func (con *DecayConfig) ValidEvents() bool {
	return con.Events > 0
}
func (con *DecayConfig) ValidParentMass() bool {
	return con.ParentMass > 0
}
func (con *DecayConfig) ValidParentWidth() bool {
	return con.ParentWidth >= 0
}
func (con *DecayConfig) ValidParentID() bool {
	return con.ParentID != 0
}
func (con *DecayConfig) ValidParticleTable() bool {
	return con.ParticleTable != ""
}
func (con *DecayConfig) ValidPtMean() bool {
	return con.PtMean > 0
}
func (con *DecayConfig) ValidPtMin() bool {
	return con.PtMin >= 0
}
func (con *DecayConfig) ValidPzMax() bool {
	return con.PzMax >= 0
}

// ValidPzMaxEpsilon returns true if the mass shell of a particle with
// longitudinal momentum PzMax can be checked to within Epsilon.
func (con *DecayConfig) ValidPzMaxEpsilon() bool {
	return con.PzMax*con.PzMax*MassShellRounding <= con.Epsilon
}

func (con *DecayConfig) ValidDaughterMass1() bool {
	return con.DaughterMass1 >= 0
}
func (con *DecayConfig) ValidDaughterMass2() bool {
	return con.DaughterMass2 >= 0
}

// ValidChainMass1 returns true if the first daughter can decay into two
// particles of mass ChainMass1, or if it doesn't decay at all.
func (con *DecayConfig) ValidChainMass1() bool {
	if con.DaughterFinalState1 {
		return true
	}
	return con.ChainMass1 >= 0 && con.DaughterMass1 > 0 &&
		2*con.ChainMass1 <= con.DaughterMass1
}

// ValidChainMass2 is ValidChainMass1 for the second daughter.
func (con *DecayConfig) ValidChainMass2() bool {
	if con.DaughterFinalState2 {
		return true
	}
	return con.ChainMass2 >= 0 && con.DaughterMass2 > 0 &&
		2*con.ChainMass2 <= con.DaughterMass2
}

func (con *DecayConfig) ValidEpsilon() bool {
	return con.Epsilon > 0
}
func (con *DecayConfig) ValidPtCut() bool {
	return con.PtCut >= 0
}
func (con *DecayConfig) ValidEtaCut() bool {
	return con.EtaCut >= 0
}
func (con *DecayConfig) ValidDeltaRCut() bool {
	return con.DeltaRCut >= 0
}
func (con *DecayConfig) ValidGenerator() bool {
	_, ok := rand.GeneratorFromString(con.Generator)
	return ok
}
func (con *DecayConfig) ValidWorkers() bool {
	return con.Workers >= 0
}
func (con *DecayConfig) ValidPlotFormat() bool {
	switch strings.ToLower(con.PlotFormat) {
	case "pdf", "png", "svg", "eps", "ps", "jpg":
		return true
	}
	return false
}

// GeneratorType returns the type named by Generator. It should only be called
// after CheckInit.
func (con *DecayConfig) GeneratorType() rand.GeneratorType {
	gt, _ := rand.GeneratorFromString(con.Generator)
	return gt
}

// CheckInit returns an error describing the first invalid field of con.
func (con *DecayConfig) CheckInit() error {
	switch {
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidEvents():
		return fmt.Errorf(
			"'Events' must be positive, but is %d.", con.Events,
		)
	case con.ValidParentID() && con.ParentMass != 0:
		return fmt.Errorf("Only one of 'ParentMass' and 'ParentID' can be set.")
	case !con.ValidParentID() && con.ValidParticleTable():
		return fmt.Errorf("'ParticleTable' is set, but 'ParentID' is not.")
	case !con.ValidParentID() && !con.ValidParentMass():
		return fmt.Errorf(
			"Need to specify a positive 'ParentMass' or a 'ParentID'.",
		)
	case !con.ValidParentWidth():
		return fmt.Errorf(
			"'ParentWidth' must be non-negative, but is %g.", con.ParentWidth,
		)
	case !con.ValidPtMean():
		return fmt.Errorf("'PtMean' must be positive, but is %g.", con.PtMean)
	case !con.ValidPtMin():
		return fmt.Errorf("'PtMin' must be non-negative, but is %g.", con.PtMin)
	case !con.ValidPzMax():
		return fmt.Errorf("'PzMax' must be non-negative, but is %g.", con.PzMax)
	case !con.ValidDaughterMass1():
		return fmt.Errorf(
			"'DaughterMass1' must be non-negative, but is %g.",
			con.DaughterMass1,
		)
	case !con.ValidDaughterMass2():
		return fmt.Errorf(
			"'DaughterMass2' must be non-negative, but is %g.",
			con.DaughterMass2,
		)
	case con.ValidParentMass() &&
		con.DaughterMass1+con.DaughterMass2 > con.ParentMass:
		return fmt.Errorf(
			"A parent of mass %g cannot decay into daughters of mass %g and %g.",
			con.ParentMass, con.DaughterMass1, con.DaughterMass2,
		)
	case !con.ValidChainMass1():
		return fmt.Errorf(
			"The first daughter, mass %g, cannot decay into two particles "+
				"of 'ChainMass1' = %g.", con.DaughterMass1, con.ChainMass1,
		)
	case !con.ValidChainMass2():
		return fmt.Errorf(
			"The second daughter, mass %g, cannot decay into two particles "+
				"of 'ChainMass2' = %g.", con.DaughterMass2, con.ChainMass2,
		)
	case !con.ValidEpsilon():
		return fmt.Errorf(
			"'Epsilon' must be positive, but is %g.", con.Epsilon,
		)
	case !con.ValidPzMaxEpsilon():
		return fmt.Errorf(
			"'PzMax' = %g is too large for 'Epsilon' = %g: rounding alone "+
				"would put decay products off their mass shell. Raise "+
				"'Epsilon' to at least %g.",
			con.PzMax, con.Epsilon, con.PzMax*con.PzMax*MassShellRounding,
		)
	case !con.ValidPtCut() || !con.ValidEtaCut() || !con.ValidDeltaRCut():
		return fmt.Errorf("Cut values must be non-negative.")
	case !con.ValidGenerator():
		return fmt.Errorf(
			"Unrecognized 'Generator' value '%s'. Recognized values are "+
				"'PCG' and 'ChaCha8'.", con.Generator,
		)
	case !con.ValidWorkers():
		return fmt.Errorf(
			"'Workers' must be non-negative, but is %d.", con.Workers,
		)
	case !con.ValidPlotFormat():
		return fmt.Errorf(
			"Unrecognized 'PlotFormat' value '%s'.", con.PlotFormat,
		)
	}
	return nil
}

// ReadDecayConfig reads and checks the [Decay] section of fname.
func ReadDecayConfig(fname string) (*DecayConfig, error) {
	wrap := DefaultDecayWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	con := &wrap.Decay
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}
