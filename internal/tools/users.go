package tools

import (
	"context"

	"github.com/hession/npmate/internal/npm"
)

var userParams = []ParameterDef{
	{Name: "name", Type: "string", Description: "Full name", Required: true},
	{Name: "email", Type: "string", Description: "Login email", Required: true},
	{Name: "nickname", Type: "string", Description: "Short display name"},
	{Name: "roles", Type: "array", Items: "string", Description: "Roles; admin is the only role NPM knows"},
	{Name: "is_disabled", Type: "boolean", Description: "Block logins for this user"},
}

type userArgs struct {
	npm.UserInput
	Password string `json:"password"`
}

func userTools(client *npm.Client) []Tool {
	expand := []string{"permissions"}
	createParams := append(append([]ParameterDef{}, userParams...),
		ParameterDef{Name: "password", Type: "string", Description: "Initial password"})

	return []Tool{
		listTool("list_users", "List all users.", expand, client.ListUsers),
		getTool("get_user", "Get a user by id.", "user", expand, client.GetUser),
		&clientTool{
			name:        "create_user",
			description: "Create a user, optionally with an initial password.",
			params:      createParams,
			run: func(ctx context.Context, args map[string]any) (string, error) {
				var ua userArgs
				if err := decodeArgs(args, &ua); err != nil {
					return "", err
				}
				in := ua.UserInput
				if ua.Password != "" {
					in.Auth = &npm.UserAuth{Type: "password", Secret: ua.Password}
				}
				user, err := client.CreateUser(ctx, in)
				if err != nil {
					return "", err
				}
				return renderJSON(user)
			},
		},
		updateTool("update_user", "Update a user. Only the given fields change.", "user", userParams, client.UpdateUser),
		actionTool("delete_user", "Delete a user.", "User", "deleted", client.DeleteUser),
	}
}
