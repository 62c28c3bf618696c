package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hession/npmate/internal/apperr"
	"github.com/hession/npmate/internal/validation"
)

// checkRequired rejects calls missing a required parameter. Blank strings
// count as missing.
func checkRequired(params []ParameterDef, args map[string]any) error {
	for _, param := range params {
		if !param.Required {
			continue
		}
		value, ok := args[param.Name]
		if !ok || value == nil {
			return apperr.Input("missing required parameter: %s", param.Name)
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			return apperr.Input("missing required parameter: %s", param.Name)
		}
	}
	return nil
}

// intArg reads an integer that may arrive as a JSON number or a numeric string
func intArg(args map[string]any, name string) (int, error) {
	switch v := args[name].(type) {
	case nil:
		return 0, apperr.Input("missing required parameter: %s", name)
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, apperr.Input("parameter %s must be an integer, got %v", name, v)
		}
		if v < math.MinInt || v >= -math.MinInt {
			return 0, apperr.Input("parameter %s is out of range, got %v", name, v)
		}
		return int(v), nil
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, apperr.Input("parameter %s must be an integer, got %q", name, v.String())
		}
		return n, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, apperr.Input("parameter %s must be an integer, got %q", name, v)
		}
		return n, nil
	default:
		return 0, apperr.Input("parameter %s must be an integer, got %T", name, v)
	}
}

func idArg(args map[string]any) (int, error) {
	id, err := intArg(args, "id")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, apperr.Input("parameter id must be a positive integer, got %d", id)
	}
	return id, nil
}

// expandArg accepts "owner,certificate" or ["owner", "certificate"]
func expandArg(args map[string]any) []string {
	var values []string
	switch v := args["expand"].(type) {
	case string:
		values = strings.Split(v, ",")
	case []string:
		values = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
	}

	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

// decodeArgs copies the body arguments into out through JSON and validates
// the result. id and expand address the call and are not part of the body.
func decodeArgs(args map[string]any, out any) error {
	body := make(map[string]any, len(args))
	for k, v := range args {
		if k == "id" || k == "expand" {
			continue
		}
		body[k] = v
	}

	data, err := json.Marshal(body)
	if err != nil {
		return apperr.Input("invalid arguments: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperr.Input("invalid arguments: %v", err)
	}
	return validation.Struct(out)
}

func renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render result: %w", err)
	}
	return string(data), nil
}

type actionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func renderSuccess(format string, args ...any) (string, error) {
	return renderJSON(actionResult{Success: true, Message: fmt.Sprintf(format, args...)})
}
