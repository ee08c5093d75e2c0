package texture

import (
	"github.com/spf13/afero"
)

type Option func(l *Loader)

// WithFs replaces the filesystem local references are read from.
func WithFs(fs afero.Fs) Option {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithDownloader enables http(s) references.
func WithDownloader(dl *Downloader) Option {
	return func(l *Loader) {
		l.dl = dl
	}
}
