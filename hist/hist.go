/*package hist books, fills and plots the 1D and 2D histograms of decay
observables.

Histograms are not safe for concurrent filling. Workers should fill their
own Book and Merge the results.
*/
package hist

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	plt "github.com/phil-mansfield/pyplot"
	"gonum.org/v1/gonum/floats"
)

// ErrUnknownHist is returned when filling a histogram which was never booked.
var ErrUnknownHist = errors.New("hist: unknown histogram")

// Hist1D is a histogram with evenly spaced bins. Values outside
// [Edges[0], Edges[len(Edges)-1]) go to Underflow and Overflow.
type Hist1D struct {
	Name, Title, XTitle, YTitle string

	Edges  []float64
	Counts []float64
	SumW2  []float64

	Underflow, Overflow float64
}

// NewHist1D creates an empty histogram with the given binning.
func NewHist1D(name string, bins int, min, max float64) (*Hist1D, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("hist: '%s' has %d bins", name, bins)
	} else if !(min < max) {
		return nil, fmt.Errorf("hist: '%s' has range [%g, %g)", name, min, max)
	}

	return &Hist1D{
		Name:   name,
		Edges:  floats.Span(make([]float64, bins+1), min, max),
		Counts: make([]float64, bins),
		SumW2:  make([]float64, bins),
	}, nil
}

// Bins returns the number of bins.
func (h *Hist1D) Bins() int { return len(h.Counts) }

func (h *Hist1D) bin(x float64) int {
	if x < h.Edges[0] {
		return -1
	}
	return floats.Within(h.Edges, x)
}

// Fill adds x to the histogram with unit weight.
func (h *Hist1D) Fill(x float64) { h.FillW(x, 1) }

// FillW adds x to the histogram with weight w. NaNs are ignored.
func (h *Hist1D) FillW(x, w float64) {
	if math.IsNaN(x) {
		return
	}

	switch i := h.bin(x); {
	case i >= 0:
		h.Counts[i] += w
		h.SumW2[i] += w * w
	case x < h.Edges[0]:
		h.Underflow += w
	default:
		h.Overflow += w
	}
}

// Centers returns the centres of the bins.
func (h *Hist1D) Centers() []float64 {
	cs := make([]float64, h.Bins())
	for i := range cs {
		cs[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return cs
}

// Errors returns the statistical uncertainty of each bin.
func (h *Hist1D) Errors() []float64 {
	errs := make([]float64, h.Bins())
	for i := range errs {
		errs[i] = math.Sqrt(h.SumW2[i])
	}
	return errs
}

// Integral returns the total weight in range.
func (h *Hist1D) Integral() float64 { return floats.Sum(h.Counts) }

// Scale multiplies every bin, including underflow and overflow, by c.
func (h *Hist1D) Scale(c float64) {
	floats.Scale(c, h.Counts)
	floats.Scale(c*c, h.SumW2)
	h.Underflow *= c
	h.Overflow *= c
}

func (h *Hist1D) add(h2 *Hist1D) error {
	if !floats.Equal(h.Edges, h2.Edges) {
		return fmt.Errorf("hist: '%s' booked with different binnings", h.Name)
	}
	floats.Add(h.Counts, h2.Counts)
	floats.Add(h.SumW2, h2.SumW2)
	h.Underflow += h2.Underflow
	h.Overflow += h2.Overflow
	return nil
}

// Hist2D is a histogram over two variables. Counts is indexed [x][y].
type Hist2D struct {
	Name, Title, XTitle, YTitle string

	XEdges, YEdges []float64
	Counts         [][]float64

	// Outside is the total weight which fell outside the binned range in
	// either dimension.
	Outside float64
}

// NewHist2D creates an empty 2D histogram with the given binning.
func NewHist2D(
	name string, nx int, xMin, xMax float64, ny int, yMin, yMax float64,
) (*Hist2D, error) {
	hx, err := NewHist1D(name, nx, xMin, xMax)
	if err != nil {
		return nil, err
	}
	hy, err := NewHist1D(name, ny, yMin, yMax)
	if err != nil {
		return nil, err
	}

	counts := make([][]float64, nx)
	for i := range counts {
		counts[i] = make([]float64, ny)
	}
	return &Hist2D{
		Name: name, XEdges: hx.Edges, YEdges: hy.Edges, Counts: counts,
	}, nil
}

// Fill adds (x, y) with unit weight.
func (h *Hist2D) Fill(x, y float64) { h.FillW(x, y, 1) }

// FillW adds (x, y) with weight w. NaNs are ignored.
func (h *Hist2D) FillW(x, y, w float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}

	ix, iy := -1, -1
	if x >= h.XEdges[0] {
		ix = floats.Within(h.XEdges, x)
	}
	if y >= h.YEdges[0] {
		iy = floats.Within(h.YEdges, y)
	}
	if ix < 0 || iy < 0 {
		h.Outside += w
		return
	}
	h.Counts[ix][iy] += w
}

// Integral returns the total weight in range.
func (h *Hist2D) Integral() float64 {
	sum := 0.0
	for _, col := range h.Counts {
		sum += floats.Sum(col)
	}
	return sum
}

// Scale multiplies every bin by c.
func (h *Hist2D) Scale(c float64) {
	for _, col := range h.Counts {
		floats.Scale(c, col)
	}
	h.Outside *= c
}

func (h *Hist2D) add(h2 *Hist2D) error {
	if !floats.Equal(h.XEdges, h2.XEdges) || !floats.Equal(h.YEdges, h2.YEdges) {
		return fmt.Errorf("hist: '%s' booked with different binnings", h.Name)
	}
	for i := range h.Counts {
		floats.Add(h.Counts[i], h2.Counts[i])
	}
	h.Outside += h2.Outside
	return nil
}

// Book is a named collection of histograms which are plotted to Dir.
type Book struct {
	Dir string

	h1 map[string]*Hist1D
	h2 map[string]*Hist2D
}

// NewBook creates a Book writing to dir, creating dir if needed. An empty dir
// creates a Book which can be filled but not plotted.
func NewBook(dir string) (*Book, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &Book{
		Dir: dir,
		h1:  map[string]*Hist1D{},
		h2:  map[string]*Hist2D{},
	}, nil
}

func (b *Book) booked(name string) bool {
	_, ok1 := b.h1[name]
	_, ok2 := b.h2[name]
	return ok1 || ok2
}

// Add1D books a 1D histogram.
func (b *Book) Add1D(
	name string, bins int, min, max float64, title, xTitle, yTitle string,
) error {
	if b.booked(name) {
		return fmt.Errorf("hist: '%s' is already booked", name)
	}
	h, err := NewHist1D(name, bins, min, max)
	if err != nil {
		return err
	}
	h.Title, h.XTitle, h.YTitle = title, xTitle, yTitle
	b.h1[name] = h
	return nil
}

// Add2D books a 2D histogram.
func (b *Book) Add2D(
	name string, nx int, xMin, xMax float64, ny int, yMin, yMax float64,
	title, xTitle, yTitle string,
) error {
	if b.booked(name) {
		return fmt.Errorf("hist: '%s' is already booked", name)
	}
	h, err := NewHist2D(name, nx, xMin, xMax, ny, yMin, yMax)
	if err != nil {
		return err
	}
	h.Title, h.XTitle, h.YTitle = title, xTitle, yTitle
	b.h2[name] = h
	return nil
}

// Fill1D fills the named 1D histogram.
func (b *Book) Fill1D(name string, x float64) error {
	h, ok := b.h1[name]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownHist, name)
	}
	h.Fill(x)
	return nil
}

// Fill2D fills the named 2D histogram.
func (b *Book) Fill2D(name string, x, y float64) error {
	h, ok := b.h2[name]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownHist, name)
	}
	h.Fill(x, y)
	return nil
}

// Hist1D returns the named 1D histogram, or nil.
func (b *Book) Hist1D(name string) *Hist1D { return b.h1[name] }

// Hist2D returns the named 2D histogram, or nil.
func (b *Book) Hist2D(name string) *Hist2D { return b.h2[name] }

// Names returns the names of every booked histogram in sorted order.
func (b *Book) Names() []string {
	names := make([]string, 0, len(b.h1)+len(b.h2))
	for name := range b.h1 {
		names = append(names, name)
	}
	for name := range b.h2 {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize scales each histogram with a non-zero integral to unit integral.
func (b *Book) Normalize() {
	for _, h := range b.h1 {
		if sum := h.Integral(); sum != 0 {
			h.Scale(1 / sum)
		}
	}
	for _, h := range b.h2 {
		if sum := h.Integral(); sum != 0 {
			h.Scale(1 / sum)
		}
	}
}

// Merge adds the contents of other to b. Both books must have booked the
// same histograms with the same binning.
func (b *Book) Merge(other *Book) error {
	for name, h := range other.h1 {
		mine, ok := b.h1[name]
		if !ok {
			return fmt.Errorf("%w: '%s'", ErrUnknownHist, name)
		}
		if err := mine.add(h); err != nil {
			return err
		}
	}
	for name, h := range other.h2 {
		mine, ok := b.h2[name]
		if !ok {
			return fmt.Errorf("%w: '%s'", ErrUnknownHist, name)
		}
		if err := mine.add(h); err != nil {
			return err
		}
	}
	return nil
}

// Plot writes one figure per histogram to Dir with the given file extension
// (e.g. "pdf" or "png"). The figures are only rendered once plt.Execute is
// called.
func (b *Book) Plot(format string) error {
	if b.Dir == "" {
		return fmt.Errorf("hist: Book has no output directory")
	}

	for _, name := range b.Names() {
		fname := filepath.Join(b.Dir, fmt.Sprintf("%s.%s", name, format))
		if h, ok := b.h1[name]; ok {
			plot1D(h, fname)
		} else {
			plot2D(b.h2[name], fname)
		}
	}
	return nil
}

// steps returns the outline of a 1D histogram.
func steps(h *Hist1D) (xs, ys []float64) {
	xs = make([]float64, 0, 2*h.Bins())
	ys = make([]float64, 0, 2*h.Bins())
	for i, c := range h.Counts {
		xs = append(xs, h.Edges[i], h.Edges[i+1])
		ys = append(ys, c, c)
	}
	return xs, ys
}

func plot1D(h *Hist1D, fname string) {
	xs, ys := steps(h)

	plt.Figure()
	plt.Plot(xs, ys, "k", plt.LW(2))
	plt.Title(h.Title)
	plt.XLabel(h.XTitle, plt.FontSize(16))
	plt.YLabel(h.YTitle, plt.FontSize(16))
	plt.XLim(h.Edges[0], h.Edges[len(h.Edges)-1])
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
}

// occupied returns the centres of the non-empty bins of a 2D histogram.
func occupied(h *Hist2D) (xs, ys []float64) {
	for i, col := range h.Counts {
		for j, c := range col {
			if c == 0 {
				continue
			}
			xs = append(xs, (h.XEdges[i]+h.XEdges[i+1])/2)
			ys = append(ys, (h.YEdges[j]+h.YEdges[j+1])/2)
		}
	}
	return xs, ys
}

func plot2D(h *Hist2D, fname string) {
	xs, ys := occupied(h)

	plt.Figure(plt.FigSize(8, 8))
	plt.Plot(xs, ys, "ok")
	plt.Title(h.Title)
	plt.XLabel(h.XTitle, plt.FontSize(16))
	plt.YLabel(h.YTitle, plt.FontSize(16))
	plt.XLim(h.XEdges[0], h.XEdges[len(h.XEdges)-1])
	plt.YLim(h.YEdges[0], h.YEdges[len(h.YEdges)-1])
	plt.SaveFig(fname)
}
