package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hession/npmate/internal/npm/npmtest"
)

func TestRun(t *testing.T) {
	srv := npmtest.New(t)
	t.Setenv("NPMATE_CONFIG_DIR", t.TempDir())
	t.Setenv("NPMATE_LOG_DIR", t.TempDir())
	t.Setenv("NPM_URL", srv.URL)
	t.Setenv("NPM_EMAIL", npmtest.Email)
	t.Setenv("NPM_PASSWORD", npmtest.Password)
	t.Setenv("NPM_READONLY", "")

	exec := func(args ...string) (int, string, string) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
		return code, stdout.String(), stderr.String()
	}

	t.Run("create prints the resource", func(t *testing.T) {
		code, stdout, stderr := exec("proxy-hosts", "create", "--domains", "app.example.com", "--forward-host", "10.0.0.5", "--forward-port", "3000")
		require.Equal(t, 0, code, stderr)

		var host map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &host))
		assert.Equal(t, "10.0.0.5", host["forward_host"])
		assert.Equal(t, float64(3000), host["forward_port"])
		assert.Equal(t, []any{"app.example.com"}, host["domain_names"])
	})

	t.Run("non-numeric id fails", func(t *testing.T) {
		code, stdout, stderr := exec("proxy-hosts", "get", "abc")
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout)
		assert.True(t, strings.HasPrefix(stderr, "Error: "), stderr)
		assert.Contains(t, stderr, "abc")
	})

	t.Run("unknown command prints usage", func(t *testing.T) {
		code, stdout, stderr := exec("frobnicate")
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout, "Usage:")
		assert.Contains(t, stderr, `unknown command "frobnicate"`)
	})

	t.Run("serve requires credentials", func(t *testing.T) {
		t.Setenv("NPM_EMAIL", "")
		t.Setenv("NPM_PASSWORD", "")

		requestsBefore := srv.TotalRequests()
		var stdout, stderr bytes.Buffer
		in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"list_streams","arguments":{}}}` + "\n")
		code := run(context.Background(), []string{"serve"}, in, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "NPM_EMAIL")
		assert.Equal(t, 0, srv.TotalRequests()-requestsBefore)
	})

	t.Run("version", func(t *testing.T) {
		code, stdout, _ := exec("version")
		assert.Equal(t, 0, code)
		assert.True(t, strings.HasPrefix(stdout, "npmate v"))
	})
}
