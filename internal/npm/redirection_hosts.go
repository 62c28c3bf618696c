package npm

import (
	"context"
	"net/http"
)

// ListRedirectionHosts returns every redirection host; expand may name owner or certificate
func (c *Client) ListRedirectionHosts(ctx context.Context, expand ...string) ([]RedirectionHost, error) {
	var out []RedirectionHost
	if err := c.do(ctx, "listRedirectionHosts", http.MethodGet, pathRedirectionHosts, expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRedirectionHost returns one redirection host by id
func (c *Client) GetRedirectionHost(ctx context.Context, id int, expand ...string) (*RedirectionHost, error) {
	var out RedirectionHost
	if err := c.do(ctx, "getRedirectionHost", http.MethodGet, itemPath(pathRedirectionHosts, id), expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRedirectionHost creates a redirection host
func (c *Client) CreateRedirectionHost(ctx context.Context, in RedirectionHostInput) (*RedirectionHost, error) {
	var out RedirectionHost
	if err := c.mutate(ctx, "createRedirectionHost", http.MethodPost, pathRedirectionHosts, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRedirectionHost applies a partial update; unset fields of patch are not sent
func (c *Client) UpdateRedirectionHost(ctx context.Context, id int, patch RedirectionHostInput) (*RedirectionHost, error) {
	var out RedirectionHost
	if err := c.mutate(ctx, "updateRedirectionHost", http.MethodPut, itemPath(pathRedirectionHosts, id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRedirectionHost deletes a redirection host
func (c *Client) DeleteRedirectionHost(ctx context.Context, id int) error {
	return c.mutate(ctx, "deleteRedirectionHost", http.MethodDelete, itemPath(pathRedirectionHosts, id), nil, nil)
}

// EnableRedirectionHost enables a redirection host
func (c *Client) EnableRedirectionHost(ctx context.Context, id int) error {
	return c.mutate(ctx, "enableRedirectionHost", http.MethodPost, actionPath(pathRedirectionHosts, id, "enable"), nil, nil)
}

// DisableRedirectionHost disables a redirection host
func (c *Client) DisableRedirectionHost(ctx context.Context, id int) error {
	return c.mutate(ctx, "disableRedirectionHost", http.MethodPost, actionPath(pathRedirectionHosts, id, "disable"), nil, nil)
}
