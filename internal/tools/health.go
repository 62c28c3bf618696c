package tools

import (
	"context"

	"github.com/hession/npmate/internal/npm"
)

func healthTools(client *npm.Client) []Tool {
	return []Tool{
		&clientTool{
			name:        "health_check",
			description: "Check that Nginx Proxy Manager is reachable and report its version.",
			readOnly:    true,
			run: func(ctx context.Context, _ map[string]any) (string, error) {
				health, err := client.Health(ctx)
				if err != nil {
					return "", err
				}
				return renderJSON(map[string]any{
					"status":   health.Status,
					"version":  health.Version.String(),
					"readonly": client.ReadOnly(),
				})
			},
		},
	}
}
