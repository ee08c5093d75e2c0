package main

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"texcomposite/pkg/bitmap"
	"texcomposite/pkg/composite"
	"texcomposite/pkg/local"
	"texcomposite/pkg/output"
	"texcomposite/pkg/proto"
	"texcomposite/pkg/remote"
	"texcomposite/pkg/session"
	"texcomposite/pkg/texture"
)

var format = flag.String("format", string(bitmap.FormatPNG), "output format: png, png16, rgb565, raw")
var force = flag.Bool("force", false, "overwrite an existing output file")
var workers = flag.Int("workers", 1, "compositing goroutines")
var root = flag.String("root", "", "directory source paths are relative to")
var cacheDir = flag.String("cache-dir", "", "cache directory for remote sources")
var remoteAddr = flag.String("remote", "", "composite on a compositord at addr")
var sessionFile = flag.String("session", defaultSessionFile(), "last used settings, empty disables")
var debug = flag.Bool("debug", false, "set debug")

// flags that only apply when compositing in process
var localFlags = []string{"workers", "root", "cache-dir"}

var channelFlags = [4][2]string{
	{"red", "red-default"},
	{"green", "green-default"},
	{"blue", "blue-default"},
	{"alpha", "alpha-default"},
}

func init() {
	registerSettings(flag.CommandLine)
}

// registerSettings adds the flags that overlay the stored session settings.
func registerSettings(fs *flag.FlagSet) {
	fs.Int("width", session.DefaultResolution, "output width")
	fs.Int("height", session.DefaultResolution, "output height")
	fs.Int("size", 0, "output width and height")
	fs.StringP("out", "o", "", "output file")

	defaults := session.Default()
	for i, names := range channelFlags {
		fs.String(names[0], "", names[0]+" channel source, file path or url")
		fs.Float64(names[1], defaults.Channels[i].Default, names[0]+" value without a source")
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "texcomposite", "last.yaml")
}

func newLogger(debug bool) *zap.Logger {
	logger, err := lo.Ternary(debug, zap.NewDevelopment, zap.NewProduction)()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// settings overlays the flags changed on fs onto the last used settings.
func settings(fs *flag.FlagSet, last session.Settings) session.Settings {
	s := last

	if fs.Changed("width") {
		s.Width, _ = fs.GetInt("width")
	}
	if fs.Changed("height") {
		s.Height, _ = fs.GetInt("height")
	}
	if fs.Changed("size") {
		size, _ := fs.GetInt("size")
		s.Width, s.Height = size, size
	}
	if fs.Changed("out") {
		s.Path, _ = fs.GetString("out")
	}

	for i, names := range channelFlags {
		if fs.Changed(names[0]) {
			s.Channels[i].Ref, _ = fs.GetString(names[0])
		}
		if fs.Changed(names[1]) {
			s.Channels[i].Default, _ = fs.GetFloat64(names[1])
		}
	}

	return s
}

// ignoredRemote lists the changed flags a compositord does not receive.
func ignoredRemote(fs *flag.FlagSet) []string {
	return lo.Filter(localFlags, func(name string, _ int) bool {
		return fs.Changed(name)
	})
}

func compositor(fs *flag.FlagSet, logger *zap.Logger) (proto.Compositor, error) {
	if *remoteAddr != "" {
		for _, name := range ignoredRemote(fs) {
			logger.With(zap.String("flag", name)).Info("flag ignored in remote mode")
		}
		return remote.New(*remoteAddr)
	}

	dl, err := texture.NewDownloader(*cacheDir, logger)
	if err != nil {
		return nil, err
	}

	loader, err := texture.NewLoader(*root, logger, texture.WithDownloader(dl))
	if err != nil {
		return nil, err
	}

	c := composite.New(composite.WithWorkers(*workers), composite.WithLogger(logger))
	return local.New(loader, c, logger), nil
}

func run(fs *flag.FlagSet, logger *zap.Logger) (string, error) {
	f, err := bitmap.ParseFormat(*format)
	if err != nil {
		return "", err
	}

	var store *session.Store
	last := session.Default()
	if *sessionFile != "" {
		store = session.NewStore(afero.NewOsFs(), *sessionFile)
		if last, err = store.Load(); err != nil {
			logger.With(zap.Error(err)).Info("session ignored")
			last = session.Default()
		}
	}

	s := settings(fs, last)
	if s.Path == "" || strings.HasSuffix(s.Path, "/") {
		return "", errors.Errorf("no output file in %q, use --out", s.Path)
	}

	c, err := compositor(fs, logger)
	if err != nil {
		return "", err
	}
	if closer, ok := c.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	var img image.Image
	if img, err = c.Composite(s.Request()); err != nil {
		return "", err
	}

	w := output.NewWriter(afero.NewOsFs(), logger, output.WithOverwrite(*force))
	file, err := w.Save(s.Path, img, f)
	if err != nil {
		return "", err
	}

	if store != nil {
		s.Path = file
		if err := store.Save(s); err != nil {
			logger.With(zap.Error(err)).Info("session not saved")
		}
	}

	return file, nil
}

func main() {
	flag.Parse()

	logger := newLogger(*debug)
	defer func() {
		_ = logger.Sync()
	}()

	file, err := run(flag.CommandLine, logger)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("composite failed")
	}

	logger.With(zap.String("path", file)).Info("composited texture saved")
}
