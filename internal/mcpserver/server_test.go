package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hession/npmate/internal/npm"
	"github.com/hession/npmate/internal/npm/npmtest"
	"github.com/hession/npmate/internal/tools"
)

func newTestServer(t *testing.T, opts ...npm.Option) (*Server, *npmtest.Server) {
	t.Helper()
	srv := npmtest.New(t)
	client := npm.New(srv.URL, npmtest.Email, npmtest.Password, opts...)
	s, err := New(tools.NewDefaultRegistry(client), "test", zerolog.Nop())
	require.NoError(t, err)
	return s, srv
}

// call sends one JSON-RPC request and returns the decoded response
func call(t *testing.T, s *Server, id int, method string, params any) map[string]any {
	t.Helper()
	req, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := s.MCP().HandleMessage(context.Background(), req)
	require.NotNil(t, resp)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func initialize(t *testing.T, s *Server) {
	t.Helper()
	resp := call(t, s, 1, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
	})
	require.Contains(t, resp, "result")
}

// toolText extracts the text content and error flag of a tools/call result
func toolText(t *testing.T, resp map[string]any) (string, bool) {
	t.Helper()
	result, ok := resp["result"].(map[string]any)
	require.True(t, ok, "response has no result: %v", resp)
	content := result["content"].([]any)
	require.NotEmpty(t, content)
	isError, _ := result["isError"].(bool)
	return content[0].(map[string]any)["text"].(string), isError
}

func TestListTools(t *testing.T) {
	s, _ := newTestServer(t)
	initialize(t, s)

	resp := call(t, s, 2, "tools/list", map[string]any{})
	result := resp["result"].(map[string]any)
	list := result["tools"].([]any)
	require.Len(t, list, 44)

	byName := make(map[string]map[string]any, len(list))
	for _, item := range list {
		tool := item.(map[string]any)
		byName[tool["name"].(string)] = tool
	}

	create := byName["create_proxy_host"]
	require.NotNil(t, create)
	schema := create["inputSchema"].(map[string]any)
	assert.Equal(t, "object", schema["type"])
	assert.ElementsMatch(t, []any{"domain_names", "forward_host", "forward_port"}, schema["required"])

	annotations := byName["list_streams"]["annotations"].(map[string]any)
	assert.Equal(t, true, annotations["readOnlyHint"])
}

func TestCallToolSuccess(t *testing.T) {
	s, _ := newTestServer(t)
	initialize(t, s)

	resp := call(t, s, 3, "tools/call", map[string]any{
		"name": "create_proxy_host",
		"arguments": map[string]any{
			"domain_names": []string{"app.example.com"},
			"forward_host": "192.168.1.100",
			"forward_port": 8080,
		},
	})
	text, isError := toolText(t, resp)
	require.False(t, isError, text)

	var host map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &host))
	assert.NotZero(t, host["id"])
	assert.Equal(t, "192.168.1.100", host["forward_host"])
}

func TestCallToolReadonly(t *testing.T) {
	s, srv := newTestServer(t, npm.WithReadonly(true))
	initialize(t, s)

	resp := call(t, s, 4, "tools/call", map[string]any{
		"name":      "delete_stream",
		"arguments": map[string]any{"id": 5},
	})
	text, isError := toolText(t, resp)

	assert.True(t, isError)
	assert.True(t, strings.HasPrefix(text, "Error: "), text)
	assert.Contains(t, text, "deleteStream")
	assert.Contains(t, text, "readonly mode")
	assert.Equal(t, 0, srv.TotalRequests())
}

func TestCallToolInputError(t *testing.T) {
	s, _ := newTestServer(t)
	initialize(t, s)

	resp := call(t, s, 5, "tools/call", map[string]any{
		"name":      "get_proxy_host",
		"arguments": map[string]any{},
	})
	text, isError := toolText(t, resp)
	assert.True(t, isError)
	assert.Equal(t, "Error: missing required parameter: id", text)
}

func TestServeStopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in, writer := io.Pipe()
	defer writer.Close()
	var out bytes.Buffer
	assert.NoError(t, s.Serve(ctx, in, &out, io.Discard))
}
