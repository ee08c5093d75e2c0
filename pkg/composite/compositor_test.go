package composite

import (
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mustImage(t *testing.T, w, h int, samples ...float64) *Image {
	t.Helper()
	m, err := NewImage(w, h, samples)
	require.NoError(t, err)
	return m
}

func TestCompositeConstants(t *testing.T) {
	out, err := Composite(NewSpec(2, 2, Constant(1), Constant(0.5), Constant(0), Constant(1)))
	require.NoError(t, err)
	require.Equal(t, 2, out.Width())
	require.Equal(t, 2, out.Height())

	for _, p := range out.Pixels() {
		assert.Equal(t, Pixel{R: 1, G: 0.5, B: 0, A: 1}, p)
	}
}

func TestCompositeDimensions(t *testing.T) {
	sizes := [][2]int{{1, 1}, {1, 7}, {9, 1}, {13, 5}, {64, 33}}
	for _, s := range sizes {
		out, err := Composite(NewSpec(s[0], s[1], Constant(0), Constant(0), Constant(0), Constant(0)))
		require.NoError(t, err)
		assert.Equal(t, s[0], out.Width())
		assert.Equal(t, s[1], out.Height())
		assert.Len(t, out.Pixels(), s[0]*s[1])
		assert.Equal(t, s[0], out.Bounds().Dx())
		assert.Equal(t, s[1], out.Bounds().Dy())
	}
}

func TestCompositeSinglePixelTakesTopLeft(t *testing.T) {
	red := mustImage(t, 2, 2,
		0, 0,
		1, 1,
	)

	out, err := Composite(NewSpec(1, 1, red, Constant(0), Constant(0), Constant(1)))
	require.NoError(t, err)
	assert.Equal(t, Pixel{R: 0, G: 0, B: 0, A: 1}, out.PixelAt(0, 0))
}

func TestCompositeSingleRowAndColumn(t *testing.T) {
	grid := mustImage(t, 2, 2,
		0.1, 0.2,
		0.3, 0.4,
	)

	row, err := Composite(NewSpec(3, 1, grid, Constant(0), Constant(0), Constant(0)))
	require.NoError(t, err)
	assert.Equal(t, 0.1, row.PixelAt(0, 0).R)
	assert.Equal(t, 0.2, row.PixelAt(2, 0).R)

	col, err := Composite(NewSpec(1, 3, grid, Constant(0), Constant(0), Constant(0)))
	require.NoError(t, err)
	assert.Equal(t, 0.1, col.PixelAt(0, 0).R)
	assert.Equal(t, 0.3, col.PixelAt(0, 2).R)
}

func TestCompositeCornersMatchSource(t *testing.T) {
	grid := mustImage(t, 3, 2,
		0.1, 0.2, 0.3,
		0.4, 0.5, 0.6,
	)

	out, err := Composite(NewSpec(8, 5, Constant(0), grid, Constant(0), Constant(0)))
	require.NoError(t, err)
	assert.Equal(t, 0.1, out.PixelAt(0, 0).G)
	assert.Equal(t, 0.3, out.PixelAt(7, 0).G)
	assert.Equal(t, 0.4, out.PixelAt(0, 4).G)
	assert.Equal(t, 0.6, out.PixelAt(7, 4).G)
}

func TestCompositeRoleOrder(t *testing.T) {
	out, err := Composite(NewSpec(1, 1,
		mustImage(t, 1, 1, 0.1),
		mustImage(t, 1, 1, 0.2),
		mustImage(t, 1, 1, 0.3),
		mustImage(t, 1, 1, 0.4),
	))
	require.NoError(t, err)
	assert.Equal(t, Pixel{R: 0.1, G: 0.2, B: 0.3, A: 0.4}, out.PixelAt(0, 0))
}

func TestCompositeIsDeterministic(t *testing.T) {
	samples := make([]float64, 7*5)
	for i := range samples {
		samples[i] = float64(i%11) / 10
	}
	grid := mustImage(t, 7, 5, samples...)
	spec := NewSpec(37, 23, grid, Constant(0.5), grid, Constant(1))

	a, err := Composite(spec)
	require.NoError(t, err)
	b, err := Composite(spec)
	require.NoError(t, err)
	assert.Equal(t, a.Pixels(), b.Pixels())
}

func TestCompositeWorkersMatchSerial(t *testing.T) {
	samples := make([]float64, 16*9)
	for i := range samples {
		samples[i] = float64(i%7) / 6
	}
	grid := mustImage(t, 16, 9, samples...)
	spec := NewSpec(50, 101, grid, Constant(0.25), grid, Constant(1))

	serial, err := New().Composite(spec)
	require.NoError(t, err)

	for _, n := range []int{2, 3, 8, 500} {
		out, err := New(WithWorkers(n), WithLogger(zap.NewNop())).Composite(spec)
		require.NoError(t, err)
		assert.Equal(t, serial.Pixels(), out.Pixels(), "workers=%d", n)
	}
}

func TestCompositeInvalidSpec(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"zero width", NewSpec(0, 4, Constant(0), Constant(0), Constant(0), Constant(0)), ErrInvalidSpec},
		{"negative height", NewSpec(4, -1, Constant(0), Constant(0), Constant(0), Constant(0)), ErrInvalidSpec},
		{"missing alpha", NewSpec(4, 4, Constant(0), Constant(0), Constant(0), nil), ErrInvalidSpec},
		{"empty spec", Spec{}, ErrInvalidSpec},
		{"nil image", NewSpec(4, 4, Constant(0), (*Image)(nil), Constant(0), Constant(0)), ErrUnreadableSource},
		{"zero image", NewSpec(4, 4, &Image{}, Constant(0), Constant(0), Constant(0)), ErrUnreadableSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Composite(tt.spec)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

type countingChannel struct {
	calls int
}

func (c *countingChannel) Sample(_, _ float64) float64 {
	c.calls++
	return 0
}

func TestCompositeValidatesBeforeSampling(t *testing.T) {
	ch := &countingChannel{}
	_, err := Composite(NewSpec(4, 4, ch, ch, ch, nil))
	require.Error(t, err)
	assert.Zero(t, ch.calls)

	_, err = Composite(NewSpec(2, 3, ch, ch, ch, ch))
	require.NoError(t, err)
	assert.Equal(t, 2*3*4, ch.calls)
}

func TestOutputImage(t *testing.T) {
	out, err := Composite(NewSpec(2, 1, Constant(1.5), Constant(-1), Constant(0.5), Constant(0)))
	require.NoError(t, err)

	// raw pixels stay unclamped
	assert.Equal(t, 1.5, out.PixelAt(0, 0).R)
	assert.Equal(t, -1.0, out.PixelAt(0, 0).G)

	assert.Equal(t, color.NRGBA64{R: 0xFFFF, G: 0, B: 0x8000, A: 0}, out.At(1, 0))
	assert.Equal(t, color.NRGBA64{}, out.At(5, 5))
	assert.Equal(t, color.NRGBA64Model, out.ColorModel())

	nrgba := out.ToNRGBA()
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0, B: 0x80, A: 0}, nrgba.NRGBAAt(0, 0))
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "red", R.String())
	assert.Equal(t, "alpha", A.String())
	assert.Equal(t, "role(7)", Role(7).String())
}

func TestCompositeClampsWorkers(t *testing.T) {
	tests := []struct {
		workers int
		want    int64
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{2, 2},
		{500, 3},
	}

	spec := NewSpec(4, 3, Constant(0), Constant(0), Constant(0), Constant(1))
	for _, tt := range tests {
		core, logs := observer.New(zapcore.DebugLevel)
		_, err := New(WithWorkers(tt.workers), WithLogger(zap.New(core))).Composite(spec)
		require.NoError(t, err)

		entries := logs.FilterMessage("composited").All()
		require.Len(t, entries, 1)
		assert.Equal(t, tt.want, entries[0].ContextMap()["workers"], "workers=%d", tt.workers)
	}
}
