package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hession/npmate/internal/apperr"
	"github.com/hession/npmate/internal/npm"
)

// Flag structs of the create subcommands. The flag tag names the flag in
// validation messages.

type proxyHostOptions struct {
	Domains       []string `flag:"domains" validate:"required,min=1,dive,required"`
	ForwardHost   string   `flag:"forward-host" validate:"required"`
	ForwardPort   int      `flag:"forward-port" validate:"required,min=1,max=65535"`
	ForwardScheme string   `flag:"forward-scheme" validate:"oneof=http https"`
	CertificateID int      `flag:"certificate-id" validate:"min=0"`
	AccessListID  int      `flag:"access-list-id" validate:"min=0"`
	SSLForced     bool     `flag:"ssl-forced"`
	BlockExploits bool     `flag:"block-exploits"`
	Websockets    bool     `flag:"websockets"`
	HTTP2         bool     `flag:"http2"`
	Caching       bool     `flag:"caching"`
}

func (o *proxyHostOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceVar(&o.Domains, "domains", nil, "domain names, comma separated (required)")
	f.StringVar(&o.ForwardHost, "forward-host", "", "backend hostname or IP (required)")
	f.IntVar(&o.ForwardPort, "forward-port", 0, "backend port (required)")
	f.StringVar(&o.ForwardScheme, "forward-scheme", "http", "backend scheme: http or https")
	f.IntVar(&o.CertificateID, "certificate-id", 0, "SSL certificate id")
	f.IntVar(&o.AccessListID, "access-list-id", 0, "access list id")
	f.BoolVar(&o.SSLForced, "ssl-forced", false, "redirect HTTP to HTTPS")
	f.BoolVar(&o.BlockExploits, "block-exploits", false, "block common exploits")
	f.BoolVar(&o.Websockets, "websockets", false, "allow websocket upgrades")
	f.BoolVar(&o.HTTP2, "http2", false, "enable HTTP/2")
	f.BoolVar(&o.Caching, "caching", false, "cache static assets")
}

func (o *proxyHostOptions) input() (npm.ProxyHostInput, error) {
	return npm.ProxyHostInput{
		DomainNames:           o.Domains,
		ForwardScheme:         o.ForwardScheme,
		ForwardHost:           o.ForwardHost,
		ForwardPort:           o.ForwardPort,
		CertificateID:         npm.Int(o.CertificateID),
		AccessListID:          npm.Int(o.AccessListID),
		SSLForced:             npm.Bool(o.SSLForced),
		BlockExploits:         npm.Bool(o.BlockExploits),
		AllowWebsocketUpgrade: npm.Bool(o.Websockets),
		HTTP2Support:          npm.Bool(o.HTTP2),
		CachingEnabled:        npm.Bool(o.Caching),
	}, nil
}

type streamOptions struct {
	IncomingPort int    `flag:"incoming-port" validate:"required,min=1,max=65535"`
	ForwardHost  string `flag:"forward-host" validate:"required"`
	ForwardPort  int    `flag:"forward-port" validate:"required,min=1,max=65535"`
	TCP          bool   `flag:"tcp"`
	UDP          bool   `flag:"udp"`
}

func (o *streamOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&o.IncomingPort, "incoming-port", 0, "port NPM listens on (required)")
	f.StringVar(&o.ForwardHost, "forward-host", "", "destination hostname or IP (required)")
	f.IntVar(&o.ForwardPort, "forward-port", 0, "destination port (required)")
	f.BoolVar(&o.TCP, "tcp", false, "forward TCP (default when neither --tcp nor --udp is given)")
	f.BoolVar(&o.UDP, "udp", false, "forward UDP")
}

func (o *streamOptions) input() (npm.StreamInput, error) {
	in := npm.StreamInput{
		IncomingPort:   o.IncomingPort,
		ForwardingHost: o.ForwardHost,
		ForwardingPort: o.ForwardPort,
	}
	if o.TCP {
		in.TCPForwarding = npm.Bool(true)
	}
	if o.UDP {
		in.UDPForwarding = npm.Bool(true)
	}
	return in, nil
}

type certificateOptions struct {
	Domains        []string `flag:"domains" validate:"required,min=1,dive,required"`
	Email          string   `flag:"email" validate:"required,email"`
	DNSChallenge   bool     `flag:"dns-challenge"`
	DNSProvider    string   `flag:"dns-provider" validate:"required_if=DNSChallenge true"`
	DNSCredentials string   `flag:"dns-credentials"`
}

func (o *certificateOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceVar(&o.Domains, "domains", nil, "domain names, comma separated (required)")
	f.StringVar(&o.Email, "email", "", "Let's Encrypt contact email (required)")
	f.BoolVar(&o.DNSChallenge, "dns-challenge", false, "use a DNS challenge")
	f.StringVar(&o.DNSProvider, "dns-provider", "", "DNS provider, e.g. cloudflare (implies --dns-challenge)")
	f.StringVar(&o.DNSCredentials, "dns-credentials", "", "credentials file content for the DNS provider")
}

func (o *certificateOptions) input() (npm.CertificateInput, error) {
	if o.DNSCredentials != "" && o.DNSProvider == "" {
		return npm.CertificateInput{}, apperr.Input("--dns-credentials requires --dns-provider")
	}
	return npm.LetsencryptCertificate(o.Domains, o.Email, o.DNSProvider, o.DNSCredentials), nil
}

type redirectionOptions struct {
	Domains       []string `flag:"domains" validate:"required,min=1,dive,required"`
	ForwardDomain string   `flag:"forward-domain" validate:"required"`
	HTTPCode      int      `flag:"http-code" validate:"oneof=300 301 302 303 307 308"`
	ForwardScheme string   `flag:"forward-scheme" validate:"oneof=auto http https"`
	PreservePath  bool     `flag:"preserve-path"`
}

func (o *redirectionOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceVar(&o.Domains, "domains", nil, "source domain names, comma separated (required)")
	f.StringVar(&o.ForwardDomain, "forward-domain", "", "domain to redirect to (required)")
	f.IntVar(&o.HTTPCode, "http-code", 301, "redirect status code")
	f.StringVar(&o.ForwardScheme, "forward-scheme", "auto", "target scheme: auto, http or https")
	f.BoolVar(&o.PreservePath, "preserve-path", false, "append the request path to the target")
}

func (o *redirectionOptions) input() (npm.RedirectionHostInput, error) {
	return npm.RedirectionHostInput{
		DomainNames:       o.Domains,
		ForwardDomainName: o.ForwardDomain,
		ForwardHTTPCode:   o.HTTPCode,
		ForwardScheme:     o.ForwardScheme,
		PreservePath:      npm.Bool(o.PreservePath),
	}, nil
}

type accessListOptions struct {
	Name       string   `flag:"name" validate:"required"`
	SatisfyAny bool     `flag:"satisfy-any"`
	PassAuth   bool     `flag:"pass-auth"`
	Users      []string `flag:"user" validate:"dive,required"`
	Allow      []string `flag:"allow" validate:"dive,cidr|ip|eq=all"`
	Deny       []string `flag:"deny" validate:"dive,cidr|ip|eq=all"`
}

func (o *accessListOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.Name, "name", "", "access list name (required)")
	f.BoolVar(&o.SatisfyAny, "satisfy-any", false, "grant access when any rule matches")
	f.BoolVar(&o.PassAuth, "pass-auth", false, "pass the Authorization header to the backend")
	f.StringArrayVar(&o.Users, "user", nil, "basic auth user as name:password (repeatable)")
	f.StringArrayVar(&o.Allow, "allow", nil, "allowed address, CIDR or all (repeatable)")
	f.StringArrayVar(&o.Deny, "deny", nil, "denied address, CIDR or all (repeatable)")
}

func (o *accessListOptions) input() (npm.AccessListInput, error) {
	in := npm.AccessListInput{
		Name:       o.Name,
		SatisfyAny: npm.Bool(o.SatisfyAny),
		PassAuth:   npm.Bool(o.PassAuth),
	}
	for _, user := range o.Users {
		name, password, ok := strings.Cut(user, ":")
		if !ok || name == "" {
			return npm.AccessListInput{}, apperr.Input("invalid --user %q: expected name:password", user)
		}
		in.Items = append(in.Items, npm.AccessListItem{Username: name, Password: password})
	}
	for _, address := range o.Allow {
		in.Clients = append(in.Clients, npm.AccessListClient{Address: address, Directive: "allow"})
	}
	for _, address := range o.Deny {
		in.Clients = append(in.Clients, npm.AccessListClient{Address: address, Directive: "deny"})
	}
	return in, nil
}

type deadHostOptions struct {
	Domains       []string `flag:"domains" validate:"required,min=1,dive,required"`
	CertificateID int      `flag:"certificate-id" validate:"min=0"`
	SSLForced     bool     `flag:"ssl-forced"`
}

func (o *deadHostOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceVar(&o.Domains, "domains", nil, "domain names, comma separated (required)")
	f.IntVar(&o.CertificateID, "certificate-id", 0, "SSL certificate id")
	f.BoolVar(&o.SSLForced, "ssl-forced", false, "redirect HTTP to HTTPS")
}

func (o *deadHostOptions) input() (npm.DeadHostInput, error) {
	return npm.DeadHostInput{
		DomainNames:   o.Domains,
		CertificateID: npm.Int(o.CertificateID),
		SSLForced:     npm.Bool(o.SSLForced),
	}, nil
}
