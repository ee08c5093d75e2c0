package composite

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidSpec      = errors.New("invalid composite spec")
	ErrUnreadableSource = errors.New("unreadable source")
)
