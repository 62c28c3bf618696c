package npm

import (
	"context"
	"net/http"
)

// ListDeadHosts returns every dead host; expand may name owner or certificate
func (c *Client) ListDeadHosts(ctx context.Context, expand ...string) ([]DeadHost, error) {
	var out []DeadHost
	if err := c.do(ctx, "listDeadHosts", http.MethodGet, pathDeadHosts, expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDeadHost returns one dead host by id
func (c *Client) GetDeadHost(ctx context.Context, id int, expand ...string) (*DeadHost, error) {
	var out DeadHost
	if err := c.do(ctx, "getDeadHost", http.MethodGet, itemPath(pathDeadHosts, id), expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDeadHost creates a dead host
func (c *Client) CreateDeadHost(ctx context.Context, in DeadHostInput) (*DeadHost, error) {
	var out DeadHost
	if err := c.mutate(ctx, "createDeadHost", http.MethodPost, pathDeadHosts, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDeadHost applies a partial update; unset fields of patch are not sent
func (c *Client) UpdateDeadHost(ctx context.Context, id int, patch DeadHostInput) (*DeadHost, error) {
	var out DeadHost
	if err := c.mutate(ctx, "updateDeadHost", http.MethodPut, itemPath(pathDeadHosts, id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDeadHost deletes a dead host
func (c *Client) DeleteDeadHost(ctx context.Context, id int) error {
	return c.mutate(ctx, "deleteDeadHost", http.MethodDelete, itemPath(pathDeadHosts, id), nil, nil)
}

// EnableDeadHost enables a dead host
func (c *Client) EnableDeadHost(ctx context.Context, id int) error {
	return c.mutate(ctx, "enableDeadHost", http.MethodPost, actionPath(pathDeadHosts, id, "enable"), nil, nil)
}

// DisableDeadHost disables a dead host
func (c *Client) DisableDeadHost(ctx context.Context, id int) error {
	return c.mutate(ctx, "disableDeadHost", http.MethodPost, actionPath(pathDeadHosts, id, "disable"), nil, nil)
}
