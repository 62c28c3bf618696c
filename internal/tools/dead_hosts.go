package tools

import "github.com/hession/npmate/internal/npm"

var deadHostParams = []ParameterDef{
	{Name: "domain_names", Type: "array", Items: "string", Description: "Domain names answered with a 404 page", Required: true},
	{Name: "certificate_id", Type: "number", Description: "SSL certificate id, 0 for none"},
	{Name: "ssl_forced", Type: "boolean", Description: "Redirect HTTP to HTTPS"},
	{Name: "http2_support", Type: "boolean", Description: "Enable HTTP/2"},
	{Name: "hsts_enabled", Type: "boolean", Description: "Send the HSTS header"},
	{Name: "hsts_subdomains", Type: "boolean", Description: "Include subdomains in HSTS"},
	{Name: "advanced_config", Type: "string", Description: "Custom nginx configuration"},
}

func deadHostTools(client *npm.Client) []Tool {
	expand := []string{"owner", "certificate"}
	return []Tool{
		listTool("list_dead_hosts", "List all 404 hosts.", expand, client.ListDeadHosts),
		getTool("get_dead_host", "Get a 404 host by id.", "404 host", expand, client.GetDeadHost),
		createTool("create_dead_host", "Create a 404 host for domains that should serve a not-found page.", deadHostParams, client.CreateDeadHost),
		updateTool("update_dead_host", "Update a 404 host. Only the given fields change.", "404 host", deadHostParams, client.UpdateDeadHost),
		actionTool("delete_dead_host", "Delete a 404 host.", "Dead host", "deleted", client.DeleteDeadHost),
		actionTool("enable_dead_host", "Enable a 404 host.", "Dead host", "enabled", client.EnableDeadHost),
		actionTool("disable_dead_host", "Disable a 404 host.", "Dead host", "disabled", client.DisableDeadHost),
	}
}
