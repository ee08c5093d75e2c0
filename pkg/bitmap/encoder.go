package bitmap

import (
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

type Format string

const (
	FormatPNG    Format = "png"
	FormatPNG16  Format = "png16"
	FormatRGB565 Format = "rgb565"
	FormatRaw    Format = "raw"
)

var ErrUnknownFormat = errors.New("unknown format")

var formats = []Format{FormatPNG, FormatPNG16, FormatRGB565, FormatRaw}

func Formats() []Format {
	return formats
}

func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Wrap(ErrUnknownFormat, name)
}

// Ext is the file extension conventionally used for the format.
func (f Format) Ext() string {
	switch f {
	case FormatPNG, FormatPNG16:
		return ".png"
	case FormatRGB565:
		return ".565"
	default:
		return ".rgba"
	}
}

type nrgbaConverter interface {
	ToNRGBA() *image.NRGBA
}

// NRGBA converts src to 8 bit non-premultiplied pixels, using the source's own
// conversion when it has one.
func NRGBA(src image.Image) *image.NRGBA {
	if c, ok := src.(nrgbaConverter); ok {
		return c.ToNRGBA()
	}
	return imaging.Clone(src)
}

func Encode(w io.Writer, src image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return imaging.Encode(w, NRGBA(src), imaging.PNG)
	case FormatPNG16:
		return imaging.Encode(w, src, imaging.PNG)
	case FormatRGB565:
		_, err := w.Write(Encode565(src))
		return err
	case FormatRaw:
		_, err := w.Write(NRGBA(src).Pix)
		return err
	}
	return errors.Wrap(ErrUnknownFormat, string(f))
}

func Encode565(src image.Image) []byte {
	b := src.Bounds()
	d := NewRGB565(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d.Set(x, y, src.At(x, y))
		}
	}

	return d.pixels
}
