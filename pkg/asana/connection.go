package asana

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/taskwire/asana/pkg/model"
)

const (
	DefaultHost = "https://app.asana.com"
	APIVersion  = "1.0"
)

// UserAgent identifies this client on every request
var UserAgent = "asana-go/0.3.0"

type Connection struct {
	Host    string
	Token   string
	Client  http.Client
	Headers map[string]string
	Logger  hclog.Logger

	// Used for testing
	RequestMethod func(method, path string, query url.Values) ([]byte, error)

	mu    sync.Mutex
	scope string
}

/*
Connect
Build a connection for the given personal access token. Any failure to set up
the transport is returned as a *ConfigError.
*/
func Connect(token string, options ...Option) (*Connection, error) {
	if token == "" {
		return nil, &ConfigError{Reason: "empty access token"}
	}
	c := &Connection{
		Host:    DefaultHost,
		Token:   token,
		Client:  http.Client{Transport: defaultTransport()},
		Headers: make(map[string]string),
		Logger:  hclog.NewNullLogger(),
	}
	for _, option := range options {
		err := option(c)
		if err != nil {
			var configError *ConfigError
			if errors.As(err, &configError) {
				return nil, err
			}
			return nil, &ConfigError{Reason: "invalid option", Err: err}
		}
	}
	parsed, err := url.Parse(c.Host)
	if err != nil {
		return nil, &ConfigError{Reason: "invalid host", Err: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &ConfigError{
			Reason: fmt.Sprintf("invalid host '%s'", c.Host),
		}
	}
	return c, nil
}

// MustConnect is Connect for callers that cannot go on without a connection
func MustConnect(token string, options ...Option) *Connection {
	c, err := Connect(token, options...)
	if err != nil {
		log.Fatal(err)
	}
	return c
}

/*
ScopeUnder
Make the next Get or List issued on this connection relative to the parent
entity, eg 'projects/12345678/sections/'. The scope is consumed by that call
whether it succeeds or not. Returns the connection itself for chaining.

Prefer Under when the connection is shared between goroutines.
*/
func (c *Connection) ScopeUnder(parent *model.Descriptor, id string) *Connection {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scope = scopePrefix(parent, id)
	return c
}

// PendingScope returns the scope set by ScopeUnder and not yet consumed
func (c *Connection) PendingScope() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope
}

// Under returns a Scope relative to the parent entity. The connection is not
// modified; a pending scope is neither applied to the Scope nor cleared until
// a request is made.
func (c *Connection) Under(parent *model.Descriptor, id string) Scope {
	return c.under(scopePrefix(parent, id))
}

func (c *Connection) take() (*Connection, string) {
	if c == nil {
		return nil, ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := c.scope
	c.scope = ""
	return c, prefix
}

func (c *Connection) under(prefix string) Scope {
	return Scope{conn: c, prefix: prefix}
}

func (c *Connection) logger() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}

func (c *Connection) fetch(
	ctx context.Context, prefix string, descriptor *model.Descriptor, id string,
) ([]byte, error) {
	path := prefix + descriptor.Endpoint() + "/"
	if id != "" {
		path = path + url.PathEscape(id)
	}
	query := url.Values{"opt_fields": []string{descriptor.OptFields()}}
	return c.request(ctx, http.MethodGet, path, query)
}

func (c *Connection) request(
	ctx context.Context,
	method,
	path string,
	query url.Values,
) ([]byte, error) {
	if c.RequestMethod != nil {
		body, err := c.RequestMethod(method, path, query)
		if err != nil {
			var transportError *TransportError
			if !errors.As(err, &transportError) {
				err = &TransportError{Method: method, URL: path, Err: err}
			}
			return nil, err
		}
		return body, nil
	}

	host := c.Host
	if host == "" {
		host = DefaultHost
	}
	requestUrl := fmt.Sprintf(
		"%s/api/%s/%s", strings.TrimSuffix(host, "/"), APIVersion, path,
	)
	if len(query) > 0 {
		requestUrl = requestUrl + "?" + query.Encode()
	}
	c.logger().Info("request", "method", method, "url", requestUrl)

	client := c.Client
	if client.CheckRedirect == nil {
		client.CheckRedirect = func(
			req *http.Request, via []*http.Request,
		) error {
			return &RedirectError{Location: req.URL.String()}
		}
	}

	requestObj, err := http.NewRequestWithContext(ctx, method, requestUrl, nil)
	if err != nil {
		return nil, &TransportError{Method: method, URL: requestUrl, Err: err}
	}
	requestObj.Header.Set("Accept", "application/json")
	requestObj.Header.Set("Authorization", "Bearer "+c.Token)
	requestObj.Header.Set("User-Agent", UserAgent)
	for header, value := range c.Headers {
		requestObj.Header.Set(header, value)
	}

	response, err := client.Do(requestObj)
	if err != nil {
		return nil, &TransportError{Method: method, URL: requestUrl, Err: err}
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: requestUrl, Err: err}
	}

	statusError := parseErrorResponse(response, body)
	if statusError != nil {
		c.logger().Debug("request failed",
			"url", requestUrl, "status", response.StatusCode)
		return nil, &TransportError{
			Method: method, URL: requestUrl, Err: statusError,
		}
	}

	return body, nil
}

func scopePrefix(parent *model.Descriptor, id string) string {
	return fmt.Sprintf("%s/%s/", parent.Endpoint(), url.PathEscape(id))
}
