package tools

import (
	"context"
	"fmt"
	"strings"
)

func idParam(noun string) ParameterDef {
	return ParameterDef{
		Name:        "id",
		Type:        "number",
		Description: fmt.Sprintf("Numeric id of the %s", noun),
		Required:    true,
	}
}

func expandParam(values ...string) ParameterDef {
	return ParameterDef{
		Name:        "expand",
		Type:        "string",
		Description: "Comma separated related objects to include: " + strings.Join(values, ", "),
	}
}

// optional returns a copy of params with nothing required, for partial updates
func optional(params []ParameterDef) []ParameterDef {
	out := make([]ParameterDef, len(params))
	for i, param := range params {
		param.Required = false
		out[i] = param
	}
	return out
}

func withID(noun string, params []ParameterDef) []ParameterDef {
	return append([]ParameterDef{idParam(noun)}, params...)
}

func listTool[T any](name, description string, expand []string, list func(context.Context, ...string) ([]T, error)) Tool {
	return &clientTool{
		name:        name,
		description: description,
		params:      []ParameterDef{expandParam(expand...)},
		readOnly:    true,
		run: func(ctx context.Context, args map[string]any) (string, error) {
			items, err := list(ctx, expandArg(args)...)
			if err != nil {
				return "", err
			}
			if items == nil {
				items = []T{}
			}
			return renderJSON(items)
		},
	}
}

func getTool[T any](name, description, noun string, expand []string, get func(context.Context, int, ...string) (*T, error)) Tool {
	return &clientTool{
		name:        name,
		description: description,
		params:      []ParameterDef{idParam(noun), expandParam(expand...)},
		readOnly:    true,
		run: func(ctx context.Context, args map[string]any) (string, error) {
			id, err := idArg(args)
			if err != nil {
				return "", err
			}
			item, err := get(ctx, id, expandArg(args)...)
			if err != nil {
				return "", err
			}
			return renderJSON(item)
		},
	}
}

func createTool[In, Out any](name, description string, params []ParameterDef, create func(context.Context, In) (*Out, error)) Tool {
	return &clientTool{
		name:        name,
		description: description,
		params:      params,
		run: func(ctx context.Context, args map[string]any) (string, error) {
			var in In
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}
			created, err := create(ctx, in)
			if err != nil {
				return "", err
			}
			return renderJSON(created)
		},
	}
}

func updateTool[In, Out any](name, description, noun string, params []ParameterDef, update func(context.Context, int, In) (*Out, error)) Tool {
	return &clientTool{
		name:        name,
		description: description,
		params:      withID(noun, optional(params)),
		run: func(ctx context.Context, args map[string]any) (string, error) {
			id, err := idArg(args)
			if err != nil {
				return "", err
			}
			var patch In
			if err := decodeArgs(args, &patch); err != nil {
				return "", err
			}
			updated, err := update(ctx, id, patch)
			if err != nil {
				return "", err
			}
			return renderJSON(updated)
		},
	}
}

// actionTool wraps a call with no response body; label is the capitalized noun
func actionTool(name, description, label, verb string, act func(context.Context, int) error) Tool {
	return &clientTool{
		name:        name,
		description: description,
		params:      []ParameterDef{idParam(strings.ToLower(label))},
		run: func(ctx context.Context, args map[string]any) (string, error) {
			id, err := idArg(args)
			if err != nil {
				return "", err
			}
			if err := act(ctx, id); err != nil {
				return "", err
			}
			return renderSuccess("%s %d %s", label, id, verb)
		},
	}
}
