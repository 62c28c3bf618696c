package npm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Flag is a boolean that also accepts the 0/1 integers older NPM releases emit
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean flag: %s", data)
	}
	return nil
}

// Bool returns a pointer to b, for building partial inputs
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i, for building partial inputs
func Int(i int) *int { return &i }

// String returns a pointer to s, for building partial inputs
func String(s string) *string { return &s }

// Health is the response of GET /api/
type Health struct {
	Status  string  `json:"status"`
	Version Version `json:"version"`
}

// Version of the NPM installation
type Version struct {
	Major    int `json:"major"`
	Minor    int `json:"minor"`
	Revision int `json:"revision"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
}

// ProxyHost forwards traffic for one or more domains to a backend host:port
type ProxyHost struct {
	ID                    int              `json:"id"`
	CreatedOn             string           `json:"created_on,omitempty"`
	ModifiedOn            string           `json:"modified_on,omitempty"`
	OwnerUserID           int              `json:"owner_user_id,omitempty"`
	DomainNames           []string         `json:"domain_names"`
	ForwardScheme         string           `json:"forward_scheme"`
	ForwardHost           string           `json:"forward_host"`
	ForwardPort           int              `json:"forward_port"`
	AccessListID          int              `json:"access_list_id"`
	CertificateID         int              `json:"certificate_id"`
	SSLForced             Flag             `json:"ssl_forced"`
	CachingEnabled        Flag             `json:"caching_enabled"`
	BlockExploits         Flag             `json:"block_exploits"`
	AllowWebsocketUpgrade Flag             `json:"allow_websocket_upgrade"`
	HTTP2Support          Flag             `json:"http2_support"`
	HSTSEnabled           Flag             `json:"hsts_enabled"`
	HSTSSubdomains        Flag             `json:"hsts_subdomains"`
	AdvancedConfig        string           `json:"advanced_config"`
	Enabled               Flag             `json:"enabled"`
	Locations             []map[string]any `json:"locations,omitempty"`
	Meta                  map[string]any   `json:"meta,omitempty"`
	Owner                 *User            `json:"owner,omitempty"`
	AccessList            *AccessList      `json:"access_list,omitempty"`
	Certificate           *Certificate     `json:"certificate,omitempty"`
}

// ProxyHostInput is the create shape; for updates every unset field is omitted
type ProxyHostInput struct {
	DomainNames           []string         `json:"domain_names,omitempty"`
	ForwardScheme         string           `json:"forward_scheme,omitempty" validate:"omitempty,oneof=http https"`
	ForwardHost           string           `json:"forward_host,omitempty"`
	ForwardPort           int              `json:"forward_port,omitempty" validate:"omitempty,min=1,max=65535"`
	AccessListID          *int             `json:"access_list_id,omitempty"`
	CertificateID         *int             `json:"certificate_id,omitempty"`
	SSLForced             *bool            `json:"ssl_forced,omitempty"`
	CachingEnabled        *bool            `json:"caching_enabled,omitempty"`
	BlockExploits         *bool            `json:"block_exploits,omitempty"`
	AllowWebsocketUpgrade *bool            `json:"allow_websocket_upgrade,omitempty"`
	HTTP2Support          *bool            `json:"http2_support,omitempty"`
	HSTSEnabled           *bool            `json:"hsts_enabled,omitempty"`
	HSTSSubdomains        *bool            `json:"hsts_subdomains,omitempty"`
	AdvancedConfig        *string          `json:"advanced_config,omitempty"`
	Locations             []map[string]any `json:"locations,omitempty"`
	Meta                  map[string]any   `json:"meta,omitempty"`
}

// Stream is a raw TCP/UDP port forward
type Stream struct {
	ID             int            `json:"id"`
	CreatedOn      string         `json:"created_on,omitempty"`
	ModifiedOn     string         `json:"modified_on,omitempty"`
	OwnerUserID    int            `json:"owner_user_id,omitempty"`
	IncomingPort   int            `json:"incoming_port"`
	ForwardingHost string         `json:"forwarding_host"`
	ForwardingPort int            `json:"forwarding_port"`
	TCPForwarding  Flag           `json:"tcp_forwarding"`
	UDPForwarding  Flag           `json:"udp_forwarding"`
	CertificateID  int            `json:"certificate_id"`
	Enabled        Flag           `json:"enabled"`
	Meta           map[string]any `json:"meta,omitempty"`
	Owner          *User          `json:"owner,omitempty"`
	Certificate    *Certificate   `json:"certificate,omitempty"`
}

// StreamInput is the create shape of a stream
type StreamInput struct {
	IncomingPort   int            `json:"incoming_port,omitempty" validate:"omitempty,min=1,max=65535"`
	ForwardingHost string         `json:"forwarding_host,omitempty"`
	ForwardingPort int            `json:"forwarding_port,omitempty" validate:"omitempty,min=1,max=65535"`
	TCPForwarding  *bool          `json:"tcp_forwarding,omitempty"`
	UDPForwarding  *bool          `json:"udp_forwarding,omitempty"`
	CertificateID  *int           `json:"certificate_id,omitempty"`
	Meta           map[string]any `json:"meta,omitempty"`
}

// RedirectionHost answers requests for its domains with an HTTP redirect
type RedirectionHost struct {
	ID                int            `json:"id"`
	CreatedOn         string         `json:"created_on,omitempty"`
	ModifiedOn        string         `json:"modified_on,omitempty"`
	OwnerUserID       int            `json:"owner_user_id,omitempty"`
	DomainNames       []string       `json:"domain_names"`
	ForwardScheme     string         `json:"forward_scheme"`
	ForwardHTTPCode   int            `json:"forward_http_code"`
	ForwardDomainName string         `json:"forward_domain_name"`
	PreservePath      Flag           `json:"preserve_path"`
	CertificateID     int            `json:"certificate_id"`
	SSLForced         Flag           `json:"ssl_forced"`
	BlockExploits     Flag           `json:"block_exploits"`
	HTTP2Support      Flag           `json:"http2_support"`
	HSTSEnabled       Flag           `json:"hsts_enabled"`
	HSTSSubdomains    Flag           `json:"hsts_subdomains"`
	AdvancedConfig    string         `json:"advanced_config"`
	Enabled           Flag           `json:"enabled"`
	Meta              map[string]any `json:"meta,omitempty"`
	Owner             *User          `json:"owner,omitempty"`
	Certificate       *Certificate   `json:"certificate,omitempty"`
}

// RedirectionHostInput is the create shape of a redirection host
type RedirectionHostInput struct {
	DomainNames       []string       `json:"domain_names,omitempty"`
	ForwardScheme     string         `json:"forward_scheme,omitempty" validate:"omitempty,oneof=auto http https"`
	ForwardHTTPCode   int            `json:"forward_http_code,omitempty" validate:"omitempty,oneof=300 301 302 303 307 308"`
	ForwardDomainName string         `json:"forward_domain_name,omitempty"`
	PreservePath      *bool          `json:"preserve_path,omitempty"`
	CertificateID     *int           `json:"certificate_id,omitempty"`
	SSLForced         *bool          `json:"ssl_forced,omitempty"`
	BlockExploits     *bool          `json:"block_exploits,omitempty"`
	HTTP2Support      *bool          `json:"http2_support,omitempty"`
	HSTSEnabled       *bool          `json:"hsts_enabled,omitempty"`
	HSTSSubdomains    *bool          `json:"hsts_subdomains,omitempty"`
	AdvancedConfig    *string        `json:"advanced_config,omitempty"`
	Meta              map[string]any `json:"meta,omitempty"`
}

// DeadHost serves a 404 page for its domains
type DeadHost struct {
	ID             int            `json:"id"`
	CreatedOn      string         `json:"created_on,omitempty"`
	ModifiedOn     string         `json:"modified_on,omitempty"`
	OwnerUserID    int            `json:"owner_user_id,omitempty"`
	DomainNames    []string       `json:"domain_names"`
	CertificateID  int            `json:"certificate_id"`
	SSLForced      Flag           `json:"ssl_forced"`
	HTTP2Support   Flag           `json:"http2_support"`
	HSTSEnabled    Flag           `json:"hsts_enabled"`
	HSTSSubdomains Flag           `json:"hsts_subdomains"`
	AdvancedConfig string         `json:"advanced_config"`
	Enabled        Flag           `json:"enabled"`
	Meta           map[string]any `json:"meta,omitempty"`
	Owner          *User          `json:"owner,omitempty"`
	Certificate    *Certificate   `json:"certificate,omitempty"`
}

// DeadHostInput is the create shape of a dead host
type DeadHostInput struct {
	DomainNames    []string       `json:"domain_names,omitempty"`
	CertificateID  *int           `json:"certificate_id,omitempty"`
	SSLForced      *bool          `json:"ssl_forced,omitempty"`
	HTTP2Support   *bool          `json:"http2_support,omitempty"`
	HSTSEnabled    *bool          `json:"hsts_enabled,omitempty"`
	HSTSSubdomains *bool          `json:"hsts_subdomains,omitempty"`
	AdvancedConfig *string        `json:"advanced_config,omitempty"`
	Meta           map[string]any `json:"meta,omitempty"`
}

// AccessList is a named set of basic-auth users and IP rules
type AccessList struct {
	ID             int                `json:"id"`
	CreatedOn      string             `json:"created_on,omitempty"`
	ModifiedOn     string             `json:"modified_on,omitempty"`
	OwnerUserID    int                `json:"owner_user_id,omitempty"`
	Name           string             `json:"name"`
	SatisfyAny     Flag               `json:"satisfy_any"`
	PassAuth       Flag               `json:"pass_auth"`
	ProxyHostCount int                `json:"proxy_host_count,omitempty"`
	Items          []AccessListItem   `json:"items,omitempty"`
	Clients        []AccessListClient `json:"clients,omitempty"`
	Meta           map[string]any     `json:"meta,omitempty"`
	Owner          *User              `json:"owner,omitempty"`
}

// AccessListItem is one basic-auth credential
type AccessListItem struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password,omitempty"`
}

// AccessListClient is one IP rule; directive is allow or deny
type AccessListClient struct {
	Address   string `json:"address" validate:"required"`
	Directive string `json:"directive" validate:"required,oneof=allow deny"`
}

// AccessListInput is the create shape of an access list
type AccessListInput struct {
	Name       string             `json:"name,omitempty"`
	SatisfyAny *bool              `json:"satisfy_any,omitempty"`
	PassAuth   *bool              `json:"pass_auth,omitempty"`
	Items      []AccessListItem   `json:"items,omitempty" validate:"dive"`
	Clients    []AccessListClient `json:"clients,omitempty" validate:"dive"`
}

// Certificate is an SSL certificate record
type Certificate struct {
	ID          int             `json:"id"`
	CreatedOn   string          `json:"created_on,omitempty"`
	ModifiedOn  string          `json:"modified_on,omitempty"`
	OwnerUserID int             `json:"owner_user_id,omitempty"`
	Provider    string          `json:"provider"`
	NiceName    string          `json:"nice_name"`
	DomainNames []string        `json:"domain_names"`
	ExpiresOn   string          `json:"expires_on,omitempty"`
	Meta        CertificateMeta `json:"meta"`
	Owner       *User           `json:"owner,omitempty"`
}

// CertificateMeta holds provider specific settings
type CertificateMeta struct {
	LetsencryptEmail       string `json:"letsencrypt_email,omitempty"`
	LetsencryptAgree       bool   `json:"letsencrypt_agree,omitempty"`
	DNSChallenge           bool   `json:"dns_challenge,omitempty"`
	DNSProvider            string `json:"dns_provider,omitempty"`
	DNSProviderCredentials string `json:"dns_provider_credentials,omitempty"`
	PropagationSeconds     int    `json:"propagation_seconds,omitempty"`
}

// UnmarshalJSON tolerates the 0/1 booleans NPM stores in certificate meta
func (m *CertificateMeta) UnmarshalJSON(data []byte) error {
	var raw struct {
		LetsencryptEmail       string `json:"letsencrypt_email"`
		LetsencryptAgree       Flag   `json:"letsencrypt_agree"`
		DNSChallenge           Flag   `json:"dns_challenge"`
		DNSProvider            string `json:"dns_provider"`
		DNSProviderCredentials string `json:"dns_provider_credentials"`
		PropagationSeconds     int    `json:"propagation_seconds"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = CertificateMeta{
		LetsencryptEmail:       raw.LetsencryptEmail,
		LetsencryptAgree:       bool(raw.LetsencryptAgree),
		DNSChallenge:           bool(raw.DNSChallenge),
		DNSProvider:            raw.DNSProvider,
		DNSProviderCredentials: raw.DNSProviderCredentials,
		PropagationSeconds:     raw.PropagationSeconds,
	}
	return nil
}

// CertificateInput is the create shape of a certificate
type CertificateInput struct {
	Provider    string          `json:"provider" validate:"required,oneof=letsencrypt other"`
	NiceName    string          `json:"nice_name,omitempty"`
	DomainNames []string        `json:"domain_names" validate:"required,min=1,dive,required"`
	Meta        CertificateMeta `json:"meta"`
}

// LetsencryptCertificate builds a letsencrypt request for domains. A non-empty
// dnsProvider switches the ACME exchange to a DNS challenge.
func LetsencryptCertificate(domains []string, email, dnsProvider, dnsCredentials string) CertificateInput {
	return CertificateInput{
		Provider:    "letsencrypt",
		DomainNames: domains,
		Meta: CertificateMeta{
			LetsencryptEmail:       email,
			LetsencryptAgree:       true,
			DNSChallenge:           dnsProvider != "",
			DNSProvider:            dnsProvider,
			DNSProviderCredentials: dnsCredentials,
		},
	}
}

// User is an NPM user account
type User struct {
	ID         int      `json:"id"`
	CreatedOn  string   `json:"created_on,omitempty"`
	ModifiedOn string   `json:"modified_on,omitempty"`
	Name       string   `json:"name"`
	Nickname   string   `json:"nickname"`
	Email      string   `json:"email"`
	Avatar     string   `json:"avatar,omitempty"`
	Roles      []string `json:"roles"`
	IsDisabled Flag     `json:"is_disabled"`
}

// UserInput is the create shape of a user
type UserInput struct {
	Name       string    `json:"name,omitempty"`
	Nickname   string    `json:"nickname,omitempty"`
	Email      string    `json:"email,omitempty" validate:"omitempty,email"`
	Roles      []string  `json:"roles,omitempty" validate:"omitempty,dive,oneof=admin"`
	IsDisabled *bool     `json:"is_disabled,omitempty"`
	Auth       *UserAuth `json:"auth,omitempty"`
}

// UserAuth sets the initial password of a new user
type UserAuth struct {
	Type   string `json:"type"`
	Secret string `json:"secret"`
}
