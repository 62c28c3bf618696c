package tools

import "context"

// Tool tool interface
type Tool interface {
	Name() string                                                     // Tool name
	Description() string                                              // Tool description (for the MCP client)
	Parameters() []ParameterDef                                       // Parameter definitions
	ReadOnly() bool                                                   // True when the tool never mutates NPM
	Execute(ctx context.Context, args map[string]any) (string, error) // Execute
}

// ParameterDef parameter definition
type ParameterDef struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // "string" | "number" | "boolean" | "array" | "object"
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Items       string   `json:"items,omitempty"` // element type of an array
	Enum        []string `json:"enum,omitempty"`
}

// clientTool is a Tool backed by one npm client call
type clientTool struct {
	name        string
	description string
	params      []ParameterDef
	readOnly    bool
	run         func(ctx context.Context, args map[string]any) (string, error)
}

func (t *clientTool) Name() string               { return t.name }
func (t *clientTool) Description() string        { return t.description }
func (t *clientTool) Parameters() []ParameterDef { return t.params }
func (t *clientTool) ReadOnly() bool             { return t.readOnly }

func (t *clientTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}
	if err := checkRequired(t.params, args); err != nil {
		return "", err
	}
	return t.run(ctx, args)
}
