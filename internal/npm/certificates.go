package npm

import (
	"context"
	"net/http"
)

func (c *Client) ListCertificates(ctx context.Context, expand ...string) ([]Certificate, error) {
	var out []Certificate
	if err := c.do(ctx, "listCertificates", http.MethodGet, pathCertificates, expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCertificate(ctx context.Context, id int, expand ...string) (*Certificate, error) {
	var out Certificate
	if err := c.do(ctx, "getCertificate", http.MethodGet, itemPath(pathCertificates, id), expandQuery(expand), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCertificate requests a certificate. For letsencrypt the call blocks
// until NPM has finished the ACME exchange.
func (c *Client) CreateCertificate(ctx context.Context, in CertificateInput) (*Certificate, error) {
	var out Certificate
	if err := c.mutate(ctx, "createCertificate", http.MethodPost, pathCertificates, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCertificate(ctx context.Context, id int) error {
	return c.mutate(ctx, "deleteCertificate", http.MethodDelete, itemPath(pathCertificates, id), nil, nil)
}

// RenewCertificate renews a letsencrypt certificate and returns the updated record
func (c *Client) RenewCertificate(ctx context.Context, id int) (*Certificate, error) {
	var out Certificate
	if err := c.mutate(ctx, "renewCertificate", http.MethodPost, actionPath(pathCertificates, id, "renew"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
