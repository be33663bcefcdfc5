package asana

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

type Option func(*Connection) error

func WithHost(host string) Option {
	return func(c *Connection) error {
		if host != "" {
			c.Host = strings.TrimSuffix(host, "/")
		}
		return nil
	}
}

func WithHeader(key, value string) Option {
	return func(c *Connection) error {
		c.Headers[key] = value
		return nil
	}
}

func WithLogger(logger hclog.Logger) Option {
	return func(c *Connection) error {
		c.Logger = logger
		return nil
	}
}

func WithHTTPClient(client http.Client) Option {
	return func(c *Connection) error {
		c.Client = client
		return nil
	}
}

/*
WithCACert
Trust the certificates in the PEM bundle at 'path' instead of the system
pool. An empty path is a no-op.
*/
func WithCACert(path string) Option {
	return func(c *Connection) error {
		if path == "" {
			return nil
		}
		if c.Client.Transport == nil {
			c.Client.Transport = defaultTransport()
		}
		transport, ok := c.Client.Transport.(*http.Transport)
		if !ok {
			return &ConfigError{
				Reason: "cannot install CA bundle on a custom transport",
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return &ConfigError{Reason: "could not read CA bundle", Err: err}
		}
		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(data) {
			return &ConfigError{
				Reason: "could not load CA bundle",
				Err: fmt.Errorf(
					"no certificates found in file '%s'", path,
				),
			}
		}
		transport = transport.Clone()
		transport.TLSClientConfig = &tls.Config{RootCAs: certPool}
		c.Client.Transport = transport
		return nil
	}
}

func defaultTransport() http.RoundTripper {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultTransport
	}
	return transport.Clone()
}
