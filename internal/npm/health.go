package npm

import (
	"context"
	"net/http"
)

// Health returns the API status and version
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, "health", http.MethodGet, pathHealth, nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
