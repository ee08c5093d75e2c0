package remote

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/rpc"
	"strings"

	"texcomposite/pkg/composite"
	"texcomposite/pkg/proto"
)

func New(addr string) (*Client, error) {
	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Client{rpc: client}, nil
}

type Client struct {
	rpc *rpc.Client
}

func (c *Client) Close() error {
	return c.rpc.Close()
}

func (c *Client) Composite(req *proto.Request) (image.Image, error) {
	var resp CompositeResponse
	if err := c.rpc.Call("Service.Composite", req, &resp); err != nil {
		return nil, remoteError(err)
	}

	img, err := png.Decode(bytes.NewReader(resp.Image))
	if err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	return img, nil
}

// remoteError restores the sentinel errors lost in transit.
func remoteError(err error) error {
	if _, ok := err.(rpc.ServerError); !ok {
		return err
	}

	msg := err.Error()
	for _, sentinel := range []error{composite.ErrInvalidSpec, composite.ErrUnreadableSource} {
		if strings.Contains(msg, sentinel.Error()) {
			return fmt.Errorf("%w: remote: %s", sentinel, msg)
		}
	}
	return err
}
