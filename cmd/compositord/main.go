package main

import (
	"context"
	"net/http"

	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"texcomposite/pkg/composite"
	"texcomposite/pkg/local"
	"texcomposite/pkg/remote"
	"texcomposite/pkg/texture"
)

var listen = flag.String("listen", ":9124", "listen addr")
var root = flag.String("root", "", "directory source paths are relative to")
var cacheDir = flag.String("cache-dir", "", "cache directory for remote sources")
var workers = flag.Int("workers", 4, "compositing goroutines per request")
var debug = flag.Bool("debug", false, "set debug")

func newLogger() (*zap.Logger, error) {
	return lo.Ternary(*debug, zap.NewDevelopment, zap.NewProduction)()
}

func syncLogger(logger *zap.Logger, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
}

func main() {
	flag.Parse()

	fx.New(
		fx.Provide(
			newLogger,
			func() *http.Server {
				return &http.Server{Addr: *listen}
			},
			func(logger *zap.Logger) (*texture.Downloader, error) {
				dl, err := texture.NewDownloader(*cacheDir, logger)
				if err != nil {
					return nil, err
				}
				return dl.SetProgress(false), nil
			},
			func(dl *texture.Downloader, logger *zap.Logger) (local.ChannelLoader, error) {
				loader, err := texture.NewLoader(*root, logger, texture.WithDownloader(dl))
				if err != nil {
					return nil, err
				}
				return loader, nil
			},
			func(logger *zap.Logger) *composite.Compositor {
				return composite.New(composite.WithWorkers(*workers), composite.WithLogger(logger))
			},
			local.New,
		),
		fx.Invoke(
			syncLogger,
			remote.Proxy,
		),
	).Run()
}
