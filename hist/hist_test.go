package hist

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHist1DFill(t *testing.T) {
	h, err := NewHist1D("pt", 4, 0, 4)
	require.NoError(t, err)

	table := []struct {
		x   float64
		bin int
	}{
		{0, 0}, {0.5, 0}, {1, 1}, {2.999, 2}, {3.5, 3},
		{-0.1, -1}, {4, 4}, {100, 4},
	}

	for i, test := range table {
		if bin := h.bin(test.x); test.bin >= 0 && test.bin < 4 && bin != test.bin {
			t.Errorf("%d) bin(%g) = %d, not %d", i+1, test.x, bin, test.bin)
		}
		h.Fill(test.x)
	}
	h.Fill(math.NaN())

	assert.Equal(t, []float64{2, 1, 1, 1}, h.Counts)
	assert.Equal(t, 1.0, h.Underflow)
	assert.Equal(t, 2.0, h.Overflow)
	assert.Equal(t, 5.0, h.Integral())
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, h.Centers())
	assert.InDelta(t, math.Sqrt(2), h.Errors()[0], 1e-12)
}

func TestNewHistErrors(t *testing.T) {
	_, err := NewHist1D("a", 0, 0, 1)
	assert.Error(t, err)
	_, err = NewHist1D("a", 10, 1, 1)
	assert.Error(t, err)
	_, err = NewHist2D("a", 10, 0, 1, -1, 0, 1)
	assert.Error(t, err)
}

func TestHist2DFill(t *testing.T) {
	h, err := NewHist2D("pts", 2, 0, 2, 3, 0, 3)
	require.NoError(t, err)

	h.Fill(0.5, 0.5)
	h.Fill(1.5, 2.5)
	h.FillW(1.5, 2.5, 2)
	h.Fill(-1, 1)
	h.Fill(1, 3)

	assert.Equal(t, 1.0, h.Counts[0][0])
	assert.Equal(t, 3.0, h.Counts[1][2])
	assert.Equal(t, 2.0, h.Outside)
	assert.Equal(t, 4.0, h.Integral())

	xs, ys := occupied(h)
	assert.Equal(t, []float64{0.5, 1.5}, xs)
	assert.Equal(t, []float64{0.5, 2.5}, ys)
}

func TestBook(t *testing.T) {
	b, err := NewBook("")
	require.NoError(t, err)

	require.NoError(t, b.Add1D("eta", 10, -5, 5, "Eta", "eta", "N"))
	require.NoError(t, b.Add2D("pt2", 10, 0, 100, 10, 0, 100, "", "", ""))
	assert.Error(t, b.Add1D("eta", 10, -5, 5, "", "", ""))
	assert.Error(t, b.Add1D("pt2", 10, -5, 5, "", "", ""))
	assert.Error(t, b.Add1D("bad", -3, -5, 5, "", "", ""))

	assert.NoError(t, b.Fill1D("eta", 0.3))
	assert.NoError(t, b.Fill2D("pt2", 30, 40))
	assert.ErrorIs(t, b.Fill1D("pt2", 1), ErrUnknownHist)
	assert.ErrorIs(t, b.Fill2D("eta", 1, 1), ErrUnknownHist)
	assert.ErrorIs(t, b.Fill1D("phi", 1), ErrUnknownHist)

	assert.Equal(t, []string{"eta", "pt2"}, b.Names())
	assert.Equal(t, "Eta", b.Hist1D("eta").Title)
	assert.Nil(t, b.Hist1D("pt2"))
	assert.Error(t, b.Plot("pdf"))
}

func TestNormalize(t *testing.T) {
	b, err := NewBook("")
	require.NoError(t, err)
	require.NoError(t, b.Add1D("x", 4, 0, 4, "", "", ""))
	require.NoError(t, b.Add1D("empty", 4, 0, 4, "", "", ""))
	require.NoError(t, b.Add2D("xy", 2, 0, 2, 2, 0, 2, "", "", ""))

	for _, x := range []float64{0.5, 1.5, 1.5, 3.5, 10} {
		require.NoError(t, b.Fill1D("x", x))
		require.NoError(t, b.Fill2D("xy", x/2, x/2))
	}
	b.Normalize()

	assert.InDelta(t, 1, b.Hist1D("x").Integral(), 1e-12)
	assert.InDelta(t, 0.5, b.Hist1D("x").Counts[1], 1e-12)
	assert.InDelta(t, 0.25, b.Hist1D("x").Overflow, 1e-12)
	assert.Equal(t, 0.0, b.Hist1D("empty").Integral())
	assert.InDelta(t, 1, b.Hist2D("xy").Integral(), 1e-12)
}

func TestMerge(t *testing.T) {
	books := make([]*Book, 3)
	for i := range books {
		var err error
		books[i], err = NewBook("")
		require.NoError(t, err)
		require.NoError(t, books[i].Add1D("x", 2, 0, 2, "", "", ""))
		require.NoError(t, books[i].Add2D("xy", 2, 0, 2, 2, 0, 2, "", "", ""))
		require.NoError(t, books[i].Fill1D("x", float64(i)))
		require.NoError(t, books[i].Fill2D("xy", 0.5, 1.5))
	}

	require.NoError(t, books[0].Merge(books[1]))
	require.NoError(t, books[0].Merge(books[2]))
	assert.Equal(t, []float64{1, 1}, books[0].Hist1D("x").Counts)
	assert.Equal(t, 1.0, books[0].Hist1D("x").Overflow)
	assert.Equal(t, 3.0, books[0].Hist2D("xy").Counts[0][1])

	other, err := NewBook("")
	require.NoError(t, err)
	require.NoError(t, other.Add1D("x", 3, 0, 2, "", "", ""))
	assert.Error(t, books[0].Merge(other))

	other, err = NewBook("")
	require.NoError(t, err)
	require.NoError(t, other.Add1D("y", 2, 0, 2, "", "", ""))
	assert.ErrorIs(t, books[0].Merge(other), ErrUnknownHist)
}

func TestNewBookDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots", "z")
	b, err := NewBook(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, b.Dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSteps(t *testing.T) {
	h, err := NewHist1D("x", 2, 0, 2)
	require.NoError(t, err)
	h.Fill(0.5)
	h.Fill(1.5)
	h.Fill(1.5)

	xs, ys := steps(h)
	assert.Equal(t, []float64{0, 1, 1, 2}, xs)
	assert.Equal(t, []float64{1, 1, 2, 2}, ys)
}
