package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/hession/npmate/internal/apperr"
	"github.com/hession/npmate/internal/npm"
)

// Registry tool registry
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register registers a tool
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already exists", name)
	}

	r.tools[name] = tool
	return nil
}

// Get gets a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// List lists all tools sorted by name
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// Execute executes a tool by name
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	tool, exists := r.Get(name)
	if !exists {
		return "", apperr.Input("tool not found: %s", name)
	}
	return tool.Execute(ctx, args)
}

// ToolSchema describes one tool for MCP clients
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ReadOnly    bool           `json:"readOnly"`
	InputSchema map[string]any `json:"inputSchema"`
}

// GetSchemas gets all tool schemas, sorted by name
func (r *Registry) GetSchemas() []ToolSchema {
	tools := r.List()
	schemas := make([]ToolSchema, 0, len(tools))
	for _, tool := range tools {
		schemas = append(schemas, ToolSchema{
			Name:        tool.Name(),
			Description: tool.Description(),
			ReadOnly:    tool.ReadOnly(),
			InputSchema: BuildParameterSchema(tool.Parameters()),
		})
	}
	return schemas
}

// RawSchema returns the JSON schema of a tool's parameters
func RawSchema(tool Tool) (json.RawMessage, error) {
	return json.Marshal(BuildParameterSchema(tool.Parameters()))
}

// BuildParameterSchema builds the JSON schema object for params
func BuildParameterSchema(params []ParameterDef) map[string]any {
	properties := make(map[string]any)
	required := make([]string, 0)

	for _, param := range params {
		prop := map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Type == "array" {
			items := param.Items
			if items == "" {
				items = "string"
			}
			prop["items"] = map[string]any{"type": items}
		}
		if len(param.Enum) > 0 {
			prop["enum"] = param.Enum
		}
		properties[param.Name] = prop
		if param.Required {
			required = append(required, param.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// NewDefaultRegistry creates a registry with one tool per client operation
func NewDefaultRegistry(client *npm.Client) *Registry {
	registry := NewRegistry()

	groups := [][]Tool{
		healthTools(client),
		proxyHostTools(client),
		streamTools(client),
		redirectionHostTools(client),
		deadHostTools(client),
		accessListTools(client),
		certificateTools(client),
		userTools(client),
	}

	for _, group := range groups {
		for _, tool := range group {
			_ = registry.Register(tool) // Ignore errors as we know these tool names won't conflict
		}
	}

	return registry
}
