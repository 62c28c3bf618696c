package tools

import (
	"context"

	"github.com/hession/npmate/internal/apperr"
	"github.com/hession/npmate/internal/npm"
	"github.com/hession/npmate/internal/validation"
)

var certificateParams = []ParameterDef{
	{Name: "domain_names", Type: "array", Items: "string", Description: "Domain names covered by the certificate", Required: true},
	{Name: "provider", Type: "string", Description: "Certificate provider (default letsencrypt)", Enum: []string{"letsencrypt", "other"}},
	{Name: "nice_name", Type: "string", Description: "Display name"},
	{Name: "letsencrypt_email", Type: "string", Description: "Contact email, required for letsencrypt"},
	{Name: "dns_provider", Type: "string", Description: "DNS provider for a DNS challenge, e.g. cloudflare"},
	{Name: "dns_provider_credentials", Type: "string", Description: "Credentials file content for the DNS provider"},
	{Name: "propagation_seconds", Type: "number", Description: "Seconds to wait for DNS propagation"},
}

// certificateArgs is the flat tool form of npm.CertificateInput
type certificateArgs struct {
	DomainNames            []string `json:"domain_names"`
	Provider               string   `json:"provider" validate:"omitempty,oneof=letsencrypt other"`
	NiceName               string   `json:"nice_name"`
	LetsencryptEmail       string   `json:"letsencrypt_email" validate:"omitempty,email"`
	DNSProvider            string   `json:"dns_provider"`
	DNSProviderCredentials string   `json:"dns_provider_credentials"`
	PropagationSeconds     int      `json:"propagation_seconds" validate:"min=0"`
}

func (a certificateArgs) input() (npm.CertificateInput, error) {
	if a.Provider == "other" {
		return npm.CertificateInput{Provider: "other", NiceName: a.NiceName, DomainNames: a.DomainNames}, nil
	}
	if a.LetsencryptEmail == "" {
		return npm.CertificateInput{}, apperr.Input("letsencrypt_email is required for letsencrypt certificates")
	}
	in := npm.LetsencryptCertificate(a.DomainNames, a.LetsencryptEmail, a.DNSProvider, a.DNSProviderCredentials)
	in.NiceName = a.NiceName
	in.Meta.PropagationSeconds = a.PropagationSeconds
	return in, nil
}

func certificateTools(client *npm.Client) []Tool {
	expand := []string{"owner"}
	return []Tool{
		listTool("list_certificates", "List all SSL certificates.", expand, client.ListCertificates),
		getTool("get_certificate", "Get an SSL certificate by id.", "certificate", expand, client.GetCertificate),
		&clientTool{
			name:        "create_certificate",
			description: "Request a Let's Encrypt certificate (HTTP or DNS challenge) or register a custom one.",
			params:      certificateParams,
			run: func(ctx context.Context, args map[string]any) (string, error) {
				var certArgs certificateArgs
				if err := decodeArgs(args, &certArgs); err != nil {
					return "", err
				}
				in, err := certArgs.input()
				if err != nil {
					return "", err
				}
				if err := validation.Struct(in); err != nil {
					return "", err
				}
				cert, err := client.CreateCertificate(ctx, in)
				if err != nil {
					return "", err
				}
				return renderJSON(cert)
			},
		},
		actionTool("delete_certificate", "Delete an SSL certificate.", "Certificate", "deleted", client.DeleteCertificate),
		&clientTool{
			name:        "renew_certificate",
			description: "Renew a Let's Encrypt certificate.",
			params:      []ParameterDef{idParam("certificate")},
			run: func(ctx context.Context, args map[string]any) (string, error) {
				id, err := idArg(args)
				if err != nil {
					return "", err
				}
				cert, err := client.RenewCertificate(ctx, id)
				if err != nil {
					return "", err
				}
				return renderJSON(cert)
			},
		},
	}
}
