package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hession/npmate/internal/apperr"
	"github.com/hession/npmate/internal/config"
	"github.com/hession/npmate/internal/logger"
	"github.com/hession/npmate/internal/npm/npmtest"
)

type harness struct {
	app    *App
	srv    *npmtest.Server
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(t *testing.T, readonly bool) *harness {
	t.Helper()
	srv := npmtest.New(t)

	cfg := config.DefaultConfig()
	cfg.NPM.URL = srv.URL
	cfg.NPM.Email = npmtest.Email
	cfg.NPM.Password = npmtest.Password
	cfg.NPM.Readonly = readonly

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	app := NewApp(WithConfig(cfg), WithIO(strings.NewReader(""), out, errOut))
	return &harness{app: app, srv: srv, out: out, errOut: errOut}
}

func (h *harness) run(args ...string) error {
	h.out.Reset()
	h.errOut.Reset()
	return Execute(context.Background(), h.app, args)
}

func TestVersion(t *testing.T) {
	h := newHarness(t, false)
	require.NoError(t, h.run("version"))
	assert.Equal(t, "npmate v"+Version+"\n", h.out.String())
}

func TestCreateProxyHostPrintsJSON(t *testing.T) {
	h := newHarness(t, false)

	err := h.run("proxy-hosts", "create", "--domains", "app.example.com", "--forward-host", "10.0.0.5", "--forward-port", "3000")
	require.NoError(t, err)

	var host map[string]any
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &host), h.out.String())
	assert.NotZero(t, host["id"])
	assert.Equal(t, []any{"app.example.com"}, host["domain_names"])
	assert.Equal(t, "10.0.0.5", host["forward_host"])
	assert.Equal(t, float64(3000), host["forward_port"])
	assert.Equal(t, "http", host["forward_scheme"])
	assert.True(t, strings.HasPrefix(h.out.String(), "{\n  \""))
}

func TestGetWithNonNumericID(t *testing.T) {
	h := newHarness(t, false)

	err := h.run("proxy-hosts", "get", "abc")
	require.Error(t, err)

	assert.True(t, apperr.Is(err, apperr.KindInput))
	assert.Contains(t, err.Error(), `"abc"`)
	assert.Equal(t, 0, h.srv.TotalRequests())
}

func TestUnknownCommandsPrintUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no command", nil, "missing command"},
		{"unknown command", []string{"bogus"}, `unknown command "bogus"`},
		{"bare group", []string{"streams"}, "missing subcommand for streams"},
		{"unknown subcommand", []string{"streams", "explode"}, `unknown subcommand "explode" for streams`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, false)

			err := h.run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			usage := h.out.String()
			assert.Contains(t, usage, "Usage:")
			assert.Contains(t, usage, "proxy-hosts create")
			assert.Contains(t, usage, "certificates renew <id>")
			assert.Contains(t, usage, "config init")
			assert.Contains(t, usage, "status")
			assert.Equal(t, 0, h.srv.TotalRequests())
		})
	}
}

func TestActionsPrintSuccessLine(t *testing.T) {
	h := newHarness(t, false)
	id := h.srv.Seed("proxy-hosts", map[string]any{"domain_names": []string{"a.example.com"}})
	require.Equal(t, 1, id)

	require.NoError(t, h.run("proxy-hosts", "disable", "1"))
	assert.Equal(t, "Proxy host 1 disabled\n", h.out.String())

	require.NoError(t, h.run("proxy-hosts", "enable", "1"))
	assert.Equal(t, "Proxy host 1 enabled\n", h.out.String())

	require.NoError(t, h.run("proxy-hosts", "delete", "1"))
	assert.Equal(t, "Proxy host 1 deleted\n", h.out.String())

	certID := h.srv.Seed("certificates", map[string]any{"provider": "letsencrypt", "domain_names": []string{"a.example.com"}})
	require.NoError(t, h.run("certificates", "renew", "2"))
	assert.Equal(t, 2, certID)
	assert.Equal(t, "Certificate 2 renewed\n", h.out.String())
}

func TestTokenSharedAcrossCommands(t *testing.T) {
	h := newHarness(t, false)

	require.NoError(t, h.run("proxy-hosts", "list"))
	assert.Equal(t, "[]\n", h.out.String())
	require.NoError(t, h.run("streams", "list"))
	require.NoError(t, h.run("status"))

	assert.Equal(t, 1, h.srv.TokenRequests())
	assert.Equal(t, 3, h.srv.APIRequests())
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"proxy host missing host", []string{"proxy-hosts", "create", "--domains", "a.example.com", "--forward-port", "80"}, "forward-host is required"},
		{"proxy host bad port", []string{"proxy-hosts", "create", "--domains", "a.example.com", "--forward-host", "h", "--forward-port", "99999"}, "forward-port must be at most 65535"},
		{"proxy host bad scheme", []string{"proxy-hosts", "create", "--domains", "a.example.com", "--forward-host", "h", "--forward-port", "80", "--forward-scheme", "ftp"}, "forward-scheme must be one of [http https]"},
		{"stream missing port", []string{"streams", "create", "--forward-host", "h", "--forward-port", "22"}, "incoming-port is required"},
		{"certificate bad email", []string{"certificates", "create", "--domains", "a.example.com", "--email", "nope"}, "email must be a valid email address"},
		{"certificate dns without provider", []string{"certificates", "create", "--domains", "a.example.com", "--email", "ops@example.com", "--dns-challenge"}, "dns-provider is required"},
		{"certificate credentials without provider", []string{"certificates", "create", "--domains", "a.example.com", "--email", "ops@example.com", "--dns-credentials", "token=abc"}, "--dns-credentials requires --dns-provider"},
		{"redirection bad code", []string{"redirections", "create", "--domains", "a.example.com", "--forward-domain", "b.example.com", "--http-code", "200"}, "http-code must be one of"},
		{"access list bad cidr", []string{"access-lists", "create", "--name", "office", "--allow", "somewhere"}, "must be an IP address or CIDR range"},
		{"access list bad user", []string{"access-lists", "create", "--name", "office", "--user", "nopassword"}, "expected name:password"},
		{"dead host no domains", []string{"dead-hosts", "create"}, "domains is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, false)

			err := h.run(tt.args...)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindInput), err.Error())
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, 0, h.srv.TotalRequests())
		})
	}
}

func TestCreateCommands(t *testing.T) {
	h := newHarness(t, false)

	require.NoError(t, h.run("streams", "create", "--incoming-port", "2222", "--forward-host", "10.0.0.2", "--forward-port", "22", "--udp"))
	_, body := h.srv.LastRequest()
	assert.Equal(t, true, body["udp_forwarding"])
	assert.NotContains(t, body, "tcp_forwarding")

	require.NoError(t, h.run("redirections", "create", "--domains", "old.example.com,www.old.example.com", "--forward-domain", "new.example.com", "--preserve-path"))
	_, body = h.srv.LastRequest()
	assert.Equal(t, []any{"old.example.com", "www.old.example.com"}, body["domain_names"])
	assert.Equal(t, float64(301), body["forward_http_code"])
	assert.Equal(t, "auto", body["forward_scheme"])

	require.NoError(t, h.run("access-lists", "create", "--name", "office", "--user", "ops:pw", "--allow", "10.0.0.0/8", "--deny", "all"))
	_, body = h.srv.LastRequest()
	assert.Equal(t, []any{map[string]any{"username": "ops", "password": "pw"}}, body["items"])
	assert.Equal(t, []any{
		map[string]any{"address": "10.0.0.0/8", "directive": "allow"},
		map[string]any{"address": "all", "directive": "deny"},
	}, body["clients"])

	require.NoError(t, h.run("certificates", "create", "--domains", "*.example.com", "--email", "ops@example.com", "--dns-challenge", "--dns-provider", "cloudflare"))
	_, body = h.srv.LastRequest()
	meta := body["meta"].(map[string]any)
	assert.Equal(t, true, meta["dns_challenge"])
	assert.Equal(t, "cloudflare", meta["dns_provider"])

	require.NoError(t, h.run("certificates", "create", "--domains", "*.example.com", "--email", "ops@example.com", "--dns-provider", "route53"))
	_, body = h.srv.LastRequest()
	meta = body["meta"].(map[string]any)
	assert.Equal(t, true, meta["dns_challenge"])
	assert.Equal(t, "route53", meta["dns_provider"])

	require.NoError(t, h.run("dead-hosts", "create", "--domains", "gone.example.com", "--ssl-forced"))
	_, body = h.srv.LastRequest()
	assert.Equal(t, true, body["ssl_forced"])
}

func TestReadonlyCommand(t *testing.T) {
	h := newHarness(t, true)

	err := h.run("streams", "delete", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrReadonly)
	assert.Contains(t, err.Error(), "deleteStream")
	assert.Equal(t, 0, h.srv.TotalRequests())
}

func TestMissingCredentials(t *testing.T) {
	h := newHarness(t, false)
	cfg, err := h.app.Config()
	require.NoError(t, err)
	cfg.NPM.Password = ""

	err = h.run("users", "list")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConfig))
	assert.Contains(t, err.Error(), "NPM_PASSWORD")

	err = h.run("serve")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConfig))
	assert.Empty(t, h.out.String())
	assert.Equal(t, 0, h.srv.TotalRequests())
}

func TestMCPErrorLog(t *testing.T) {
	var fallback bytes.Buffer
	assert.Same(t, &fallback, mcpErrorLog(nil, &fallback))

	dir := t.TempDir()
	l, err := logger.NewLogger(logger.Config{LogDir: dir, Level: logger.INFO})
	require.NoError(t, err)

	log.New(mcpErrorLog(l, &fallback), "mcp: ", 0).Print("failed to parse message")
	require.NoError(t, l.Close())

	files, err := filepath.Glob(filepath.Join(dir, "npmate-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "mcp: failed to parse message")
	assert.Contains(t, string(data), `"level":"error"`)
	assert.Empty(t, fallback.String())
}

func TestToolsCommand(t *testing.T) {
	h := newHarness(t, false)
	require.NoError(t, h.run("tools"))

	var schemas []map[string]any
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &schemas))
	assert.Len(t, schemas, 44)
	assert.Equal(t, 0, h.srv.TotalRequests())
}

func TestConfigCommands(t *testing.T) {
	prev := config.GetConfigDir()
	dir := t.TempDir()
	config.SetConfigDir(dir)
	t.Cleanup(func() { config.SetConfigDir(prev) })

	h := newHarness(t, false)
	require.NoError(t, h.run("config"))
	assert.Contains(t, h.out.String(), "Password: ***")
	assert.NotContains(t, h.out.String(), npmtest.Password)
	assert.Contains(t, h.out.String(), filepath.Join(dir, "config.yaml"))

	require.NoError(t, h.run("config", "init"))
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	err := h.run("config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, h.run("config", "init", "--force"))
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# npmate configuration file")
}

func TestShellLines(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()

	h.app.execLine(ctx, "proxy-hosts list")
	h.app.execLine(ctx, "users list")
	assert.Equal(t, 1, h.srv.TokenRequests())
	assert.Empty(t, h.errOut.String())

	h.app.execLine(ctx, "proxy-hosts get abc")
	assert.Contains(t, h.errOut.String(), "Error: ")
	assert.Contains(t, h.errOut.String(), "abc")

	h.errOut.Reset()
	h.app.execLine(ctx, "serve")
	assert.Contains(t, h.errOut.String(), "not available inside the shell")

	h.errOut.Reset()
	h.app.execLine(ctx, `certificates create --domains a.example.com --email ops@example.com --dns-provider cloudflare --dns-credentials "dns_cloudflare_api_token = abc"`)
	assert.Empty(t, h.errOut.String())
	_, body := h.srv.LastRequest()
	meta := body["meta"].(map[string]any)
	assert.Equal(t, "dns_cloudflare_api_token = abc", meta["dns_provider_credentials"])

	h.app.execLine(ctx, `status --config-dir "unterminated`)
	assert.Contains(t, h.errOut.String(), "Error: ")

	h.out.Reset()
	h.app.execLine(ctx, "help")
	assert.Contains(t, h.out.String(), "Usage:")

	assert.True(t, isExit(" quit "))
	assert.False(t, isExit("status"))
}

func TestShellSuggestions(t *testing.T) {
	root := NewRootCommand(NewApp(WithConfig(config.DefaultConfig())))

	texts := func(text string) []string {
		var out []string
		for _, s := range suggest(root, text) {
			out = append(out, s.Text)
		}
		return out
	}

	assert.Equal(t, []string{"proxy-hosts"}, texts("prox"))
	assert.NotContains(t, texts(""), "serve")
	assert.Contains(t, texts(""), "exit")
	assert.Equal(t, []string{"create", "delete", "disable", "enable", "get", "list"}, texts("proxy-hosts "))
	assert.Equal(t, []string{"renew"}, texts("certificates re"))
	assert.Equal(t, []string{"--forward-host", "--forward-port", "--forward-scheme"}, texts("proxy-hosts create --forward"))
}
