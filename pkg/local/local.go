package local

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"texcomposite/pkg/composite"
	"texcomposite/pkg/proto"
)

type ChannelLoader interface {
	Channel(ref string, fallback float64) (composite.Channel, error)
}

func New(loader ChannelLoader, c *composite.Compositor, logger *zap.Logger) proto.Compositor {
	return &Local{loader: loader, c: c, log: logger}
}

type Local struct {
	loader ChannelLoader
	c      *composite.Compositor
	log    *zap.Logger
}

func (l *Local) Spec(req *proto.Request) (composite.Spec, error) {
	spec := composite.Spec{Width: req.Width, Height: req.Height}

	for _, role := range composite.Roles {
		ref := req.Channels[role]
		ch, err := l.loader.Channel(ref.Ref, ref.Default)
		if err != nil {
			return composite.Spec{}, fmt.Errorf("%s channel: %w", role, err)
		}
		spec.Channels[role] = ch
	}

	return spec, nil
}

func (l *Local) Composite(req *proto.Request) (image.Image, error) {
	spec, err := l.Spec(req)
	if err != nil {
		return nil, err
	}

	out, err := l.c.Composite(spec)
	if err != nil {
		return nil, err
	}

	l.log.With(
		zap.Int("w", req.Width),
		zap.Int("h", req.Height),
	).Debug("composite request served")

	return out, nil
}
