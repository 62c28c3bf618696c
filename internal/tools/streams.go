package tools

import "github.com/hession/npmate/internal/npm"

var streamParams = []ParameterDef{
	{Name: "incoming_port", Type: "number", Description: "Port NPM listens on", Required: true},
	{Name: "forwarding_host", Type: "string", Description: "Destination hostname or IP address", Required: true},
	{Name: "forwarding_port", Type: "number", Description: "Destination port", Required: true},
	{Name: "tcp_forwarding", Type: "boolean", Description: "Forward TCP (default when neither protocol is set)"},
	{Name: "udp_forwarding", Type: "boolean", Description: "Forward UDP"},
	{Name: "certificate_id", Type: "number", Description: "SSL certificate id, 0 for none"},
}

func streamTools(client *npm.Client) []Tool {
	expand := []string{"owner", "certificate"}
	return []Tool{
		listTool("list_streams", "List all TCP/UDP streams.", expand, client.ListStreams),
		getTool("get_stream", "Get a stream by id.", "stream", expand, client.GetStream),
		createTool("create_stream", "Create a TCP/UDP stream forwarding an incoming port to a destination.", streamParams, client.CreateStream),
		updateTool("update_stream", "Update a stream. Only the given fields change.", "stream", streamParams, client.UpdateStream),
		actionTool("delete_stream", "Delete a stream.", "Stream", "deleted", client.DeleteStream),
		actionTool("enable_stream", "Enable a stream.", "Stream", "enabled", client.EnableStream),
		actionTool("disable_stream", "Disable a stream.", "Stream", "disabled", client.DisableStream),
	}
}
