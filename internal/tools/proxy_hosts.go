package tools

import "github.com/hession/npmate/internal/npm"

var proxyHostParams = []ParameterDef{
	{Name: "domain_names", Type: "array", Items: "string", Description: "Domain names served by this host", Required: true},
	{Name: "forward_host", Type: "string", Description: "Backend hostname or IP address", Required: true},
	{Name: "forward_port", Type: "number", Description: "Backend port (1-65535)", Required: true},
	{Name: "forward_scheme", Type: "string", Description: "Scheme used to reach the backend", Enum: []string{"http", "https"}},
	{Name: "certificate_id", Type: "number", Description: "SSL certificate id, 0 for none"},
	{Name: "access_list_id", Type: "number", Description: "Access list id, 0 for public"},
	{Name: "ssl_forced", Type: "boolean", Description: "Redirect HTTP to HTTPS"},
	{Name: "caching_enabled", Type: "boolean", Description: "Cache static assets"},
	{Name: "block_exploits", Type: "boolean", Description: "Block common exploits"},
	{Name: "allow_websocket_upgrade", Type: "boolean", Description: "Allow websocket upgrades"},
	{Name: "http2_support", Type: "boolean", Description: "Enable HTTP/2"},
	{Name: "hsts_enabled", Type: "boolean", Description: "Send the HSTS header"},
	{Name: "hsts_subdomains", Type: "boolean", Description: "Include subdomains in HSTS"},
	{Name: "advanced_config", Type: "string", Description: "Custom nginx configuration"},
}

func proxyHostTools(client *npm.Client) []Tool {
	expand := []string{"owner", "access_list", "certificate"}
	return []Tool{
		listTool("list_proxy_hosts", "List all proxy hosts.", expand, client.ListProxyHosts),
		getTool("get_proxy_host", "Get a proxy host by id.", "proxy host", expand, client.GetProxyHost),
		createTool("create_proxy_host", "Create a proxy host forwarding domains to a backend host and port.", proxyHostParams, client.CreateProxyHost),
		updateTool("update_proxy_host", "Update a proxy host. Only the given fields change.", "proxy host", proxyHostParams, client.UpdateProxyHost),
		actionTool("delete_proxy_host", "Delete a proxy host.", "Proxy host", "deleted", client.DeleteProxyHost),
		actionTool("enable_proxy_host", "Enable a proxy host.", "Proxy host", "enabled", client.EnableProxyHost),
		actionTool("disable_proxy_host", "Disable a proxy host.", "Proxy host", "disabled", client.DisableProxyHost),
	}
}
