package proto

import (
	"image"
)

// ChannelRef names a source texture, falling back to Default when Ref is empty.
type ChannelRef struct {
	Ref     string
	Default float64
}

type Request struct {
	Width    int
	Height   int
	Channels [4]ChannelRef
}

// Compositor is implemented in process by pkg/local and over the network by
// pkg/remote.
type Compositor interface {
	Composite(req *Request) (image.Image, error)
}
