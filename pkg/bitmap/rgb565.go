package bitmap

import (
	"image"
	"image/color"
)

func NewRGB565(r image.Rectangle) *RGB565 {
	return &RGB565{
		pixels: make([]byte, 2*r.Dx()*r.Dy()),
		stride: 2 * r.Dx(),
		bounds: r,
	}
}

// RGB565 is a packed 16 bit texture. It implements the draw.Image interface.
type RGB565 struct {
	pixels []byte
	stride int
	bounds image.Rectangle
}

func (d *RGB565) Bounds() image.Rectangle {
	return d.bounds
}

func (d *RGB565) ColorModel() color.Model {
	return rgb565Model{}
}

// Bytes returns the packed pixels, little endian, row-major.
func (d *RGB565) Bytes() []byte {
	return d.pixels
}

func (d *RGB565) offset(x, y int) int {
	return (y-d.bounds.Min.Y)*d.stride + 2*(x-d.bounds.Min.X)
}

func (d *RGB565) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(d.bounds)) {
		return rgb565(0)
	}
	i := d.offset(x, y)
	return rgb565(d.pixels[i+1])<<8 | rgb565(d.pixels[i])
}

// Set stores c without premultiplying, so colour survives a zero alpha.
func (d *RGB565) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(d.bounds)) {
		return
	}
	v := toRGB565(c)
	i := d.offset(x, y)
	d.pixels[i+1] = byte(v >> 8)
	d.pixels[i] = byte(v & 0xFF)
}

// Each pixel is two bytes, with 5 bits for red, 6 bits for green and 5 bits
// for blue. Alpha is dropped.
//
//    bit 76543210  76543210
//        RRRRRGGG  GGGBBBBB
//       high byte  low byte
type rgb565Model struct{}

func (rgb565Model) Convert(c color.Color) color.Color {
	return toRGB565(c)
}

// toRGB565 keeps the highest 5 or 6 bits of each non-premultiplied 16 bit
// component.
func toRGB565(c color.Color) rgb565 {
	if v, ok := c.(rgb565); ok {
		return v
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	r, g, b := uint32(n.R), uint32(n.G), uint32(n.B)
	// RRRRRGGGGGGBBBBB
	return rgb565((r & 0xF800) +
		((g & 0xFC00) >> 5) +
		((b & 0xF800) >> 11))
}

type rgb565 uint16

func (c rgb565) RGBA() (r, g, b, a uint32) {
	// The short bit pattern is repeated to fill all 16 bits, e.g. green:
	//     GGGGGG0000000000 shifted << 5
	//     000000GGGGGG0000 shifted >> 1
	//     000000000000GGGG shifted >> 7
	rBits := uint32(c & 0xF800) // RRRRR00000000000
	gBits := uint32(c & 0x7E0)  // 00000GGGGGG00000
	bBits := uint32(c & 0x1F)   // 00000000000BBBBB
	r = rBits | rBits>>5 | rBits>>10 | rBits>>15
	g = gBits<<5 | gBits>>1 | gBits>>7
	b = bBits<<11 | bBits<<6 | bBits<<1 | bBits>>4
	a = 0xFFFF
	return
}
