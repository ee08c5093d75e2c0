package remote

import (
	"bytes"
	"context"
	"net/http"
	"net/rpc"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"texcomposite/pkg/bitmap"
	"texcomposite/pkg/proto"
)

// Proxy serves c as an RPC service on srv for the lifetime of the app.
func Proxy(c proto.Compositor, srv *http.Server, logger *zap.Logger, lifecycle fx.Lifecycle) error {
	rs, err := NewServer(c)
	if err != nil {
		return err
	}
	srv.Handler = rs

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != http.ErrServerClosed {
					logger.With(zap.Error(err)).Fatal("listen failed")
				}
			}()
			logger.With(zap.String("addr", srv.Addr)).Info("serving")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return nil
}

// NewServer registers c on a fresh rpc.Server, which is also the http.Handler
// rpc.DialHTTP clients connect to.
func NewServer(c proto.Compositor) (*rpc.Server, error) {
	rs := rpc.NewServer()
	if err := rs.Register(&Service{c: c}); err != nil {
		return nil, err
	}
	return rs, nil
}

type Service struct {
	c proto.Compositor
}

func (s *Service) Composite(req *proto.Request, resp *CompositeResponse) error {
	img, err := s.c.Composite(req)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := bitmap.Encode(&buf, img, bitmap.FormatPNG16); err != nil {
		return err
	}

	resp.Width = img.Bounds().Dx()
	resp.Height = img.Bounds().Dy()
	resp.Image = buf.Bytes()
	return nil
}
