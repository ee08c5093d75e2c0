package texture

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/inhies/go-bytesize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// NewDownloader fetches remote textures. With a cache dir, fetched bytes are
// kept under remote/<host>/<path> and reused.
func NewDownloader(cacheDir string, logger *zap.Logger) (*Downloader, error) {
	d := &Downloader{
		cli:      resty.New().SetDoNotParseResponse(true),
		log:      logger,
		progress: true,
	}

	if cacheDir == "" {
		return d, nil
	}

	if fs, err := NewFs(cacheDir); err != nil {
		return nil, fmt.Errorf("create downloader failed: %w", err)
	} else {
		d.fs = fs
	}

	return d, nil
}

type Downloader struct {
	fs       afero.Fs
	cli      *resty.Client
	log      *zap.Logger
	progress bool
}

// SetCache replaces the cache filesystem, nil disables caching.
func (d *Downloader) SetCache(fs afero.Fs) *Downloader {
	d.fs = fs
	return d
}

func (d *Downloader) SetProgress(on bool) *Downloader {
	d.progress = on
	return d
}

// filename maps rawURL to its cache entry. The full path is kept so equal
// base names in different directories stay apart; a query adds a digest
// suffix and a directory URL gets a digest name of its own.
func (d *Downloader) filename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	p := path.Clean("/" + u.EscapedPath())
	if strings.HasSuffix(u.Path, "/") || p == "/" {
		p = path.Join(p, digest(rawURL))
	}

	if u.RawQuery != "" {
		ext := path.Ext(p)
		p = strings.TrimSuffix(p, ext) + "-" + digest(u.RawQuery) + ext
	}

	return path.Join("remote", u.Host, p), nil
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}

func (d *Downloader) Get(rawURL string) ([]byte, error) {
	file, err := d.filename(rawURL)
	if err != nil {
		return nil, err
	}

	if d.fs != nil {
		if exists, err := afero.Exists(d.fs, file); err != nil {
			return nil, err
		} else if exists {
			d.log.With(zap.String("url", rawURL)).Debug("cache hit")
			return afero.ReadFile(d.fs, file)
		}
	}

	resp, err := d.cli.R().Get(rawURL)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.RawBody().Close()
	}()

	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("download %s: %s", rawURL, resp.Status())
	}

	var w io.Writer = io.Discard
	if d.progress {
		w = progressbar.DefaultBytes(resp.RawResponse.ContentLength, fmt.Sprintf("Downloading %s", path.Base(file)))
	}

	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(&buf, w), resp.RawBody()); err != nil {
		return nil, err
	}

	d.log.With(
		zap.String("url", rawURL),
		zap.String("size", bytesize.New(float64(buf.Len())).String()),
	).Debug("downloaded")

	if d.fs != nil {
		if err := d.save(file, buf.Bytes()); err != nil {
			d.log.With(zap.Error(err)).Info("cache save failed")
		}
	}

	return buf.Bytes(), nil
}

func (d *Downloader) save(file string, bs []byte) error {
	dir := path.Dir(file)
	if exists, err := afero.DirExists(d.fs, dir); err != nil {
		return err
	} else if !exists {
		if err2 := d.fs.MkdirAll(dir, 0755); err2 != nil {
			return err2
		}
	}

	return afero.WriteFile(d.fs, file, bs, 0644)
}
