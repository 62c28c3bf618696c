package tools

import "github.com/hession/npmate/internal/npm"

var accessListParams = []ParameterDef{
	{Name: "name", Type: "string", Description: "Access list name", Required: true},
	{Name: "satisfy_any", Type: "boolean", Description: "Grant access when any rule matches instead of all"},
	{Name: "pass_auth", Type: "boolean", Description: "Pass the Authorization header to the backend"},
	{Name: "items", Type: "array", Items: "object", Description: "Basic auth users as {\"username\", \"password\"} objects"},
	{Name: "clients", Type: "array", Items: "object", Description: "IP rules as {\"address\", \"directive\"} objects; directive is allow or deny"},
}

func accessListTools(client *npm.Client) []Tool {
	expand := []string{"owner", "items", "clients", "proxy_hosts"}
	return []Tool{
		listTool("list_access_lists", "List all access lists.", expand, client.ListAccessLists),
		getTool("get_access_list", "Get an access list by id.", "access list", expand, client.GetAccessList),
		createTool("create_access_list", "Create an access list of basic auth users and IP rules.", accessListParams, client.CreateAccessList),
		updateTool("update_access_list", "Update an access list. Only the given fields change.", "access list", accessListParams, client.UpdateAccessList),
		actionTool("delete_access_list", "Delete an access list.", "Access list", "deleted", client.DeleteAccessList),
	}
}
