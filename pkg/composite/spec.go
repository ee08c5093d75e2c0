package composite

import (
	"fmt"
)

// Role is the output component a channel is written to.
type Role int

const (
	R Role = iota
	G
	B
	A
)

var Roles = [4]Role{R, G, B, A}

func (r Role) String() string {
	switch r {
	case R:
		return "red"
	case G:
		return "green"
	case B:
		return "blue"
	case A:
		return "alpha"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

type Spec struct {
	Width    int
	Height   int
	Channels [4]Channel
}

func NewSpec(width, height int, r, g, b, a Channel) Spec {
	return Spec{
		Width:    width,
		Height:   height,
		Channels: [4]Channel{r, g, b, a},
	}
}

func (s Spec) Validate() error {
	if s.Width < 1 || s.Height < 1 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidSpec, s.Width, s.Height)
	}

	for _, role := range Roles {
		ch := s.Channels[role]
		if ch == nil {
			return fmt.Errorf("%w: %s channel unassigned", ErrInvalidSpec, role)
		}
		if img, ok := ch.(*Image); ok && !img.readable() {
			return fmt.Errorf("%w: %s channel has no samples", ErrUnreadableSource, role)
		}
	}

	return nil
}
