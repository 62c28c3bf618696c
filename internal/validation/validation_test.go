package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hession/npmate/internal/apperr"
	"github.com/hession/npmate/internal/npm"
)

type createOptions struct {
	Domains     []string `flag:"domains" validate:"required,min=1,dive,required"`
	ForwardHost string   `flag:"forward-host" validate:"required"`
	ForwardPort int      `flag:"forward-port" validate:"required,min=1,max=65535"`
	Scheme      string   `flag:"forward-scheme" validate:"oneof=http https"`
	Address     string   `json:"address" validate:"omitempty,cidr|ip"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(createOptions{
		Domains:     []string{"app.example.com"},
		ForwardHost: "10.0.0.5",
		ForwardPort: 3000,
		Scheme:      "http",
		Address:     "10.0.0.0/8",
	})
	assert.NoError(t, err)
}

func TestStruct_UsesFlagNames(t *testing.T) {
	err := Struct(createOptions{ForwardPort: 70000, Scheme: "ftp", Address: "nowhere"})
	require.Error(t, err)

	assert.True(t, apperr.Is(err, apperr.KindInput))
	msg := err.Error()
	assert.Contains(t, msg, "domains is required")
	assert.Contains(t, msg, "forward-host is required")
	assert.Contains(t, msg, "forward-port must be at most 65535")
	assert.Contains(t, msg, "forward-scheme must be one of [http https]")
	assert.Contains(t, msg, "address must be an IP address or CIDR range")
}

func TestStruct_ClientInputTags(t *testing.T) {
	err := Struct(npm.AccessListInput{
		Name:    "office",
		Clients: []npm.AccessListClient{{Address: "10.0.0.1", Directive: "maybe"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directive must be one of [allow deny]")

	assert.NoError(t, Struct(npm.ProxyHostInput{ForwardPort: 8080}))
	assert.Error(t, Struct(npm.UserInput{Email: "not-an-email"}))
}
