package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"reflect"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"texcomposite/pkg/composite"
)

var ErrRemoteDisabled = errors.New("remote sources disabled")

func NewLoader(dir string, logger *zap.Logger, opts ...Option) (*Loader, error) {
	l := &Loader{log: logger}

	for _, opt := range opts {
		opt(l)
	}

	if l.fs == nil {
		fs, err := NewFs(dir)
		if err != nil {
			return nil, fmt.Errorf("create loader failed: %w", err)
		}
		l.fs = fs
	}

	return l, nil
}

// Loader turns texture references into composite channels.
type Loader struct {
	fs  afero.Fs
	dl  *Downloader
	log *zap.Logger
}

func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Channel resolves ref to an image channel, or to the fallback constant when
// ref is empty.
func (l *Loader) Channel(ref string, fallback float64) (composite.Channel, error) {
	if ref == "" {
		return composite.Constant(fallback), nil
	}
	return l.Load(ref)
}

func (l *Loader) Load(ref string) (*composite.Image, error) {
	img, err := l.Decode(ref)
	if err != nil {
		return nil, err
	}

	ch, err := composite.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}

	return ch, nil
}

// Decode reads ref and coerces it to 8 bit NRGBA storage.
func (l *Loader) Decode(ref string) (*image.NRGBA, error) {
	var r io.Reader

	if IsRemote(ref) {
		if l.dl == nil {
			return nil, fmt.Errorf("%w: %s: %v", composite.ErrUnreadableSource, ref, ErrRemoteDisabled)
		}
		bs, err := l.dl.Get(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", composite.ErrUnreadableSource, ref, err)
		}
		r = bytes.NewReader(bs)
	} else {
		f, err := l.fs.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", composite.ErrUnreadableSource, err)
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", composite.ErrUnreadableSource, ref, err)
	}

	return l.coerce(ref, img), nil
}

func (l *Loader) coerce(ref string, img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}

	l.log.With(
		zap.String("ref", ref),
		zap.String("from", reflect.TypeOf(img).String()),
	).Debug("source coerced to NRGBA")

	return imaging.Clone(img)
}
