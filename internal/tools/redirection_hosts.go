package tools

import "github.com/hession/npmate/internal/npm"

var redirectionHostParams = []ParameterDef{
	{Name: "domain_names", Type: "array", Items: "string", Description: "Source domain names", Required: true},
	{Name: "forward_domain_name", Type: "string", Description: "Domain to redirect to", Required: true},
	{Name: "forward_scheme", Type: "string", Description: "Scheme of the redirect target", Enum: []string{"auto", "http", "https"}},
	{Name: "forward_http_code", Type: "number", Description: "Redirect status code: 300, 301, 302, 303, 307 or 308"},
	{Name: "preserve_path", Type: "boolean", Description: "Append the request path to the target"},
	{Name: "certificate_id", Type: "number", Description: "SSL certificate id, 0 for none"},
	{Name: "ssl_forced", Type: "boolean", Description: "Redirect HTTP to HTTPS first"},
	{Name: "block_exploits", Type: "boolean", Description: "Block common exploits"},
	{Name: "http2_support", Type: "boolean", Description: "Enable HTTP/2"},
	{Name: "hsts_enabled", Type: "boolean", Description: "Send the HSTS header"},
	{Name: "hsts_subdomains", Type: "boolean", Description: "Include subdomains in HSTS"},
	{Name: "advanced_config", Type: "string", Description: "Custom nginx configuration"},
}

func redirectionHostTools(client *npm.Client) []Tool {
	expand := []string{"owner", "certificate"}
	return []Tool{
		listTool("list_redirection_hosts", "List all redirection hosts.", expand, client.ListRedirectionHosts),
		getTool("get_redirection_host", "Get a redirection host by id.", "redirection host", expand, client.GetRedirectionHost),
		createTool("create_redirection_host", "Create a redirection host sending its domains to another domain.", redirectionHostParams, client.CreateRedirectionHost),
		updateTool("update_redirection_host", "Update a redirection host. Only the given fields change.", "redirection host", redirectionHostParams, client.UpdateRedirectionHost),
		actionTool("delete_redirection_host", "Delete a redirection host.", "Redirection host", "deleted", client.DeleteRedirectionHost),
		actionTool("enable_redirection_host", "Enable a redirection host.", "Redirection host", "enabled", client.EnableRedirectionHost),
		actionTool("disable_redirection_host", "Disable a redirection host.", "Redirection host", "disabled", client.DisableRedirectionHost),
	}
}
