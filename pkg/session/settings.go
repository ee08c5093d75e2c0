package session

import (
	"texcomposite/pkg/composite"
	"texcomposite/pkg/proto"
)

const DefaultResolution = 512

type ChannelSetting struct {
	Ref     string  `yaml:"ref,omitempty"`
	Default float64 `yaml:"default"`
}

// Settings are the values of the last successful run.
type Settings struct {
	Width    int               `yaml:"width"`
	Height   int               `yaml:"height"`
	Path     string            `yaml:"path"`
	Channels [4]ChannelSetting `yaml:"channels"`
}

func Default() Settings {
	s := Settings{
		Width:  DefaultResolution,
		Height: DefaultResolution,
		Path:   "Assets/",
	}
	s.Channels[composite.A].Default = 1
	return s
}

func (s Settings) Request() *proto.Request {
	req := &proto.Request{Width: s.Width, Height: s.Height}
	for i, ch := range s.Channels {
		req.Channels[i] = proto.ChannelRef{Ref: ch.Ref, Default: ch.Default}
	}
	return req
}
