package npm

import (
	"context"
	"net/http"
)

// ListProxyHosts returns every proxy host; expand may name owner, access_list or certificate
func (c *Client) ListProxyHosts(ctx context.Context, expand ...string) ([]ProxyHost, error) {
	var out []ProxyHost
	if err := c.do(ctx, "listProxyHosts", http.MethodGet, pathProxyHosts, expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProxyHost returns one proxy host by id
func (c *Client) GetProxyHost(ctx context.Context, id int, expand ...string) (*ProxyHost, error) {
	var out ProxyHost
	if err := c.do(ctx, "getProxyHost", http.MethodGet, itemPath(pathProxyHosts, id), expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProxyHost creates a proxy host
func (c *Client) CreateProxyHost(ctx context.Context, in ProxyHostInput) (*ProxyHost, error) {
	var out ProxyHost
	if err := c.mutate(ctx, "createProxyHost", http.MethodPost, pathProxyHosts, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProxyHost applies a partial update; unset fields of patch are not sent
func (c *Client) UpdateProxyHost(ctx context.Context, id int, patch ProxyHostInput) (*ProxyHost, error) {
	var out ProxyHost
	if err := c.mutate(ctx, "updateProxyHost", http.MethodPut, itemPath(pathProxyHosts, id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProxyHost deletes a proxy host
func (c *Client) DeleteProxyHost(ctx context.Context, id int) error {
	return c.mutate(ctx, "deleteProxyHost", http.MethodDelete, itemPath(pathProxyHosts, id), nil, nil)
}

// EnableProxyHost enables a proxy host
func (c *Client) EnableProxyHost(ctx context.Context, id int) error {
	return c.mutate(ctx, "enableProxyHost", http.MethodPost, actionPath(pathProxyHosts, id, "enable"), nil, nil)
}

// DisableProxyHost disables a proxy host
func (c *Client) DisableProxyHost(ctx context.Context, id int) error {
	return c.mutate(ctx, "disableProxyHost", http.MethodPost, actionPath(pathProxyHosts, id, "disable"), nil, nil)
}
