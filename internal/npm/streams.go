package npm

import (
	"context"
	"net/http"
)

// ListStreams returns every stream; expand may name owner or certificate
func (c *Client) ListStreams(ctx context.Context, expand ...string) ([]Stream, error) {
	var out []Stream
	if err := c.do(ctx, "listStreams", http.MethodGet, pathStreams, expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStream returns one stream by id
func (c *Client) GetStream(ctx context.Context, id int, expand ...string) (*Stream, error) {
	var out Stream
	if err := c.do(ctx, "getStream", http.MethodGet, itemPath(pathStreams, id), expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStream creates a stream. With neither protocol set it forwards TCP.
func (c *Client) CreateStream(ctx context.Context, in StreamInput) (*Stream, error) {
	if in.TCPForwarding == nil && in.UDPForwarding == nil {
		in.TCPForwarding = Bool(true)
	}
	var out Stream
	if err := c.mutate(ctx, "createStream", http.MethodPost, pathStreams, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStream applies a partial update; unset fields of patch are not sent
func (c *Client) UpdateStream(ctx context.Context, id int, patch StreamInput) (*Stream, error) {
	var out Stream
	if err := c.mutate(ctx, "updateStream", http.MethodPut, itemPath(pathStreams, id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStream deletes a stream
func (c *Client) DeleteStream(ctx context.Context, id int) error {
	return c.mutate(ctx, "deleteStream", http.MethodDelete, itemPath(pathStreams, id), nil, nil)
}

// EnableStream enables a stream
func (c *Client) EnableStream(ctx context.Context, id int) error {
	return c.mutate(ctx, "enableStream", http.MethodPost, actionPath(pathStreams, id, "enable"), nil, nil)
}

// DisableStream disables a stream
func (c *Client) DisableStream(ctx context.Context, id int) error {
	return c.mutate(ctx, "disableStream", http.MethodPost, actionPath(pathStreams, id, "disable"), nil, nil)
}
