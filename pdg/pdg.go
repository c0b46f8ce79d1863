/*package pdg looks up particle masses and widths by Particle Data Group ID.
It is only used to parameterize mass sampling: decays take masses as plain
numbers.
*/
package pdg

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/twobody/rand"
)

// ErrUnknownID is returned for IDs missing from a Table.
var ErrUnknownID = errors.New("pdg: unknown particle ID")

// Entry is one particle's mass and full width, in GeV.
type Entry struct {
	ID          int
	Mass, Width float64
}

// Table maps PDG IDs to Entries. Antiparticles (negative IDs) share the
// entry of their particle.
type Table struct {
	entries map[int]Entry
}

// NewTable creates a table from a list of entries. Repeated IDs and
// negative masses or widths are errors.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{entries: make(map[int]Entry, len(entries))}
	for _, e := range entries {
		id := abs(e.ID)
		if _, ok := t.entries[id]; ok {
			return nil, fmt.Errorf("pdg: ID %d appears more than once", e.ID)
		} else if e.Mass < 0 || e.Width < 0 {
			return nil, fmt.Errorf(
				"pdg: ID %d has mass %g and width %g", e.ID, e.Mass, e.Width,
			)
		}
		e.ID = id
		t.entries[id] = e
	}
	return t, nil
}

// ReadTable reads a whitespace-separated text file with the columns
// ID, mass and width.
func ReadTable(fname string) (*Table, error) {
	cols, err := table.ReadTable(fname, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, err
	}

	ids, masses, widths := cols[0], cols[1], cols[2]
	entries := make([]Entry, len(ids))
	for i := range ids {
		if ids[i] != math.Trunc(ids[i]) {
			return nil, fmt.Errorf(
				"pdg: non-integer ID %g on row %d of %s", ids[i], i+1, fname,
			)
		}
		entries[i] = Entry{int(ids[i]), masses[i], widths[i]}
	}
	return NewTable(entries)
}

// Default returns a table of commonly decayed particles and their products.
func Default() *Table {
	t, err := NewTable([]Entry{
		{5, 4.18, 0},
		{6, 172.69, 1.42},
		{11, 0.000511, 0},
		{13, 0.105658, 0},
		{15, 1.77686, 0},
		{22, 0, 0},
		{23, 91.1876, 2.4955},
		{24, 80.377, 2.085},
		{25, 125.25, 0.0032},
	})
	if err != nil {
		panic(err.Error())
	}
	return t
}

// Lookup returns the entry for id.
func (t *Table) Lookup(id int) (Entry, error) {
	e, ok := t.entries[abs(id)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	return e, nil
}

// IDs returns the table's IDs in increasing order.
func (t *Table) IDs() []int {
	ids := make([]int, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SampleMass draws a mass for id from a Gaussian with the particle's width
// as its full width at half maximum. Negative draws are clamped to zero.
func (t *Table) SampleMass(gen *rand.Generator, id int) (float64, error) {
	e, err := t.Lookup(id)
	if err != nil {
		return 0, err
	}
	return math.Max(gen.WidthMass(e.Mass, e.Width), 0), nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
