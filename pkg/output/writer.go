package output

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"texcomposite/pkg/bitmap"
)

var ErrExists = errors.New("file already exists")

func NewWriter(fs afero.Fs, logger *zap.Logger, opts ...Option) *Writer {
	w := &Writer{
		fs:  fs,
		log: logger,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

type Writer struct {
	fs        afero.Fs
	log       *zap.Logger
	overwrite bool
}

// Filename appends the format extension when path has none.
func Filename(path string, f bitmap.Format) string {
	if filepath.Ext(path) == "" {
		return path + f.Ext()
	}
	return path
}

// Save encodes img next to path under a temporary name and renames it into
// place, so a failed encode never leaves a partial file. It returns the path
// written.
func (w *Writer) Save(path string, img image.Image, f bitmap.Format) (string, error) {
	if path == "" {
		return "", errors.New("empty output path")
	}

	file := Filename(path, f)
	dir := filepath.Dir(file)

	if exists, err := afero.Exists(w.fs, file); err != nil {
		return "", err
	} else if exists && !w.overwrite {
		return "", fmt.Errorf("%w: %s", ErrExists, file)
	}

	if exists, err := afero.DirExists(w.fs, dir); err != nil {
		return "", err
	} else if !exists {
		if err2 := w.fs.MkdirAll(dir, 0755); err2 != nil {
			return "", err2
		}
	}

	tmp := filepath.Join(dir, "."+xid.New().String()+".tmp")
	if err := w.write(tmp, img, f); err != nil {
		_ = w.fs.Remove(tmp)
		return "", fmt.Errorf("write %s failed: %w", file, err)
	}

	if err := w.fs.Rename(tmp, file); err != nil {
		_ = w.fs.Remove(tmp)
		return "", err
	}

	w.log.With(
		zap.String("path", file),
		zap.String("format", string(f)),
		zap.Int("w", img.Bounds().Dx()),
		zap.Int("h", img.Bounds().Dy()),
	).Debug("saved")

	return file, nil
}

func (w *Writer) write(tmp string, img image.Image, f bitmap.Format) error {
	fp, err := w.fs.Create(tmp)
	if err != nil {
		return err
	}

	if err := bitmap.Encode(fp, img, f); err != nil {
		_ = fp.Close()
		return err
	}

	return fp.Close()
}
