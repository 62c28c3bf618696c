package npm

import (
	"context"
	"net/http"
)

// ListAccessLists returns every access list; expand may name owner, items or clients
func (c *Client) ListAccessLists(ctx context.Context, expand ...string) ([]AccessList, error) {
	var out []AccessList
	if err := c.do(ctx, "listAccessLists", http.MethodGet, pathAccessLists, expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccessList returns one access list by id
func (c *Client) GetAccessList(ctx context.Context, id int, expand ...string) (*AccessList, error) {
	var out AccessList
	if err := c.do(ctx, "getAccessList", http.MethodGet, itemPath(pathAccessLists, id), expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAccessList creates an access list
func (c *Client) CreateAccessList(ctx context.Context, in AccessListInput) (*AccessList, error) {
	var out AccessList
	if err := c.mutate(ctx, "createAccessList", http.MethodPost, pathAccessLists, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAccessList applies a partial update. NPM replaces items and clients
// wholesale when they are present in the patch.
func (c *Client) UpdateAccessList(ctx context.Context, id int, patch AccessListInput) (*AccessList, error) {
	var out AccessList
	if err := c.mutate(ctx, "updateAccessList", http.MethodPut, itemPath(pathAccessLists, id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAccessList deletes an access list
func (c *Client) DeleteAccessList(ctx context.Context, id int) error {
	return c.mutate(ctx, "deleteAccessList", http.MethodDelete, itemPath(pathAccessLists, id), nil, nil)
}
