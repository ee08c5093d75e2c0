package composite

import (
	"image"
	"image/color"
	"math"
)

type Pixel struct {
	R, G, B, A float64
}

// Output is a row-major grid of unclamped pixels. It implements image.Image,
// clamping components to [0,1] only when converted to a color.
type Output struct {
	width  int
	height int
	pix    []Pixel
}

func NewOutput(width, height int) *Output {
	return &Output{
		width:  width,
		height: height,
		pix:    make([]Pixel, width*height),
	}
}

func (o *Output) Width() int {
	return o.width
}

func (o *Output) Height() int {
	return o.height
}

// Pixels returns the backing row-major slice.
func (o *Output) Pixels() []Pixel {
	return o.pix
}

func (o *Output) PixelAt(x, y int) Pixel {
	if x < 0 || x >= o.width || y < 0 || y >= o.height {
		return Pixel{}
	}
	return o.pix[y*o.width+x]
}

func (o *Output) Bounds() image.Rectangle {
	return image.Rect(0, 0, o.width, o.height)
}

func (o *Output) ColorModel() color.Model {
	return color.NRGBA64Model
}

func (o *Output) At(x, y int) color.Color {
	p := o.PixelAt(x, y)
	return color.NRGBA64{R: to16(p.R), G: to16(p.G), B: to16(p.B), A: to16(p.A)}
}

// ToNRGBA quantises the output to 8 bits per component. Colour is kept under
// zero alpha since channels are independent data, not premultiplied colour.
func (o *Output) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(o.Bounds())
	for i, p := range o.pix {
		img.Pix[i*4+0] = to8(p.R)
		img.Pix[i*4+1] = to8(p.G)
		img.Pix[i*4+2] = to8(p.B)
		img.Pix[i*4+3] = to8(p.A)
	}
	return img
}

func unit(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(unit(v)*0xFF + 0.5)
}

func to16(v float64) uint16 {
	return uint16(unit(v)*0xFFFF + 0.5)
}
