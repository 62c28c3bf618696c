package npm

import (
	"context"
	"net/http"
)

// ListUsers returns every user; expand may name permissions
func (c *Client) ListUsers(ctx context.Context, expand ...string) ([]User, error) {
	var out []User
	if err := c.do(ctx, "listUsers", http.MethodGet, pathUsers, expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser returns one user by id
func (c *Client) GetUser(ctx context.Context, id int, expand ...string) (*User, error) {
	var out User
	if err := c.do(ctx, "getUser", http.MethodGet, itemPath(pathUsers, id), expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser creates a user
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	var out User
	if err := c.mutate(ctx, "createUser", http.MethodPost, pathUsers, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser applies a partial update
func (c *Client) UpdateUser(ctx context.Context, id int, patch UserInput) (*User, error) {
	var out User
	if err := c.mutate(ctx, "updateUser", http.MethodPut, itemPath(pathUsers, id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser deletes a user
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.mutate(ctx, "deleteUser", http.MethodDelete, itemPath(pathUsers, id), nil, nil)
}
