package composite

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Channel yields one scalar component of the output at normalized coordinates.
type Channel interface {
	Sample(u, v float64) float64
}

// Constant is used for every output pixel regardless of position.
type Constant float64

func (c Constant) Sample(_, _ float64) float64 {
	return float64(c)
}

// Image is an immutable row-major grid of scalar samples. Row 0 is the top
// row, so v = 0 addresses it.
type Image struct {
	width   int
	height  int
	samples []float64
}

func NewImage(width, height int, samples []float64) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: empty grid %dx%d", ErrUnreadableSource, width, height)
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("%w: grid has %d samples, want %d", ErrInvalidSpec, len(samples), width*height)
	}

	s := make([]float64, len(samples))
	copy(s, samples)

	return &Image{width: width, height: height, samples: s}, nil
}

// FromImage takes the red component of every pixel of img, normalised to [0,1].
func FromImage(img image.Image) (*Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no image", ErrUnreadableSource)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrUnreadableSource, w, h)
	}

	m := &Image{width: w, height: h, samples: make([]float64, w*h)}

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < w; x++ {
				m.samples[y*w+x] = float64(row[x*4]) / 0xFF
			}
		}
		return m, nil
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			m.samples[y*w+x] = float64(c.R) / 0xFFFF
		}
	}

	return m, nil
}

func (m *Image) Width() int {
	return m.width
}

func (m *Image) Height() int {
	return m.height
}

// At returns the grid sample at x, y clamped to the grid edge.
func (m *Image) At(x, y int) float64 {
	x = clamp(x, 0, m.width-1)
	y = clamp(y, 0, m.height-1)
	return m.samples[y*m.width+x]
}

// Sample interpolates between the four texels nearest to (u, v). Texel centres
// sit at (i+0.5)/n, so u=0 and u=1 resolve to the exact edge samples.
func (m *Image) Sample(u, v float64) float64 {
	fx := u*float64(m.width) - 0.5
	fy := v*float64(m.height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	return lerp(
		lerp(m.At(x0, y0), m.At(x0+1, y0), tx),
		lerp(m.At(x0, y0+1), m.At(x0+1, y0+1), tx),
		ty,
	)
}

func (m *Image) readable() bool {
	return m != nil && m.width > 0 && m.height > 0 && len(m.samples) == m.width*m.height
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// lerp returns a exactly when a == b.
func lerp(a, b, t float64) float64 {
	if a == b {
		return a
	}
	return a + (b-a)*t
}
