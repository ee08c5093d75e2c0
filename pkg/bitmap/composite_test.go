package bitmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texcomposite/pkg/composite"
)

func TestEncodeKeepsColourUnderZeroAlpha(t *testing.T) {
	out, err := composite.Composite(composite.NewSpec(2, 2,
		composite.Constant(1), composite.Constant(0.5), composite.Constant(0), composite.Constant(0),
	))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, out, FormatPNG))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	n, ok := decoded.(*image.NRGBA)
	require.True(t, ok, "got %T", decoded)
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0x80, B: 0, A: 0}, n.NRGBAAt(1, 1))

	buf.Reset()
	require.NoError(t, Encode(&buf, out, FormatPNG16))
	decoded, err = png.Decode(&buf)
	require.NoError(t, err)
	n16, ok := decoded.(*image.NRGBA64)
	require.True(t, ok, "got %T", decoded)
	assert.Equal(t, color.NRGBA64{R: 0xFFFF, G: 0x8000, B: 0, A: 0}, n16.NRGBA64At(0, 1))

	// red 0xF800 | green 0x8000>>5 = 0x0400
	assert.Equal(t, []byte{0x00, 0xFC}, Encode565(out)[:2])
}
