package asana

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/taskwire/asana/pkg/assert"
)

func getNewTestServer(
	status int, output string, captured **http.Request,
) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			*captured = r
			if status == http.StatusTooManyRequests {
				w.Header().Set("Retry-After", "30")
			}
			w.WriteHeader(status)
			fmt.Fprintln(w, output)
		},
	))
}

func TestRequestOverHTTP(t *testing.T) {
	var captured *http.Request
	server := getNewTestServer(http.StatusOK,
		`{"data": {"gid": "42", "resource_type": "user", "name": "Jane"}}`,
		&captured)
	defer server.Close()

	var logOutput bytes.Buffer
	api, err := Connect("secret",
		WithHost(server.URL+"/"),
		WithHeader("X-Integration", "asn"),
		WithLogger(hclog.New(&hclog.LoggerOptions{
			Level:  hclog.Info,
			Output: &logOutput,
		})),
	)
	assert.NoError(t, err)

	user, err := Get[testUser](context.Background(), api, "42")
	assert.NoError(t, err)
	assert.Equal(t, user.Name, "Jane")

	assert.Equal(t, captured.Method, "GET")
	assert.Equal(t, captured.URL.Path, "/api/1.0/users/42")
	assert.Equal(t, captured.URL.Query().Get("opt_fields"),
		"this.(resource_type|email|name),")
	assert.Equal(t, captured.Header.Get("Authorization"), "Bearer secret")
	assert.Equal(t, captured.Header.Get("User-Agent"), UserAgent)
	assert.Equal(t, captured.Header.Get("X-Integration"), "asn")
	assert.Contains(t, logOutput.String(), "/api/1.0/users/42")
}

func TestScopedRequestOverHTTP(t *testing.T) {
	var captured *http.Request
	server := getNewTestServer(http.StatusOK, `{"data": []}`, &captured)
	defer server.Close()

	api, err := Connect("secret", WithHost(server.URL))
	assert.NoError(t, err)

	_, err = List[testSection](
		context.Background(), Under[testProject](api, "12345678"),
	)
	assert.NoError(t, err)
	assert.Equal(t, captured.URL.Path, "/api/1.0/projects/12345678/sections/")
}

func TestStatusErrorOverHTTP(t *testing.T) {
	var captured *http.Request
	server := getNewTestServer(http.StatusNotFound,
		`{"errors": [{"message": "project: Not a recognized ID: 1",
		              "help": "For more information on API status codes"}]}`,
		&captured)
	defer server.Close()

	api, err := Connect("secret", WithHost(server.URL))
	assert.NoError(t, err)

	_, err = Get[testProject](context.Background(), api, "1")
	assert.True(t, IsTransport(err), "expected transport error, got %v", err)

	var statusError *StatusError
	if !errors.As(err, &statusError) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	assert.Equal(t, statusError.StatusCode, 404)
	assert.Equal(t, statusError.Error(), "404, project: Not a recognized ID: 1")
}

func TestRetryAfterIsReported(t *testing.T) {
	var captured *http.Request
	server := getNewTestServer(http.StatusTooManyRequests, `not json`, &captured)
	defer server.Close()

	api, err := Connect("secret", WithHost(server.URL))
	assert.NoError(t, err)

	_, err = List[testProject](context.Background(), api)
	var statusError *StatusError
	if !errors.As(err, &statusError) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	assert.Equal(t, statusError.RetryAfter, 30)
	assert.Equal(t, len(statusError.Errors), 0)
}

func TestRedirectIsNotFollowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
		},
	))
	defer server.Close()

	api, err := Connect("secret", WithHost(server.URL))
	assert.NoError(t, err)

	_, err = List[testProject](context.Background(), api)
	var redirectError *RedirectError
	if !errors.As(err, &redirectError) {
		t.Fatalf("expected *RedirectError, got %v", err)
	}
	assert.True(t, IsTransport(err), "redirect should be a transport error")
	assert.Equal(t, redirectError.Location, server.URL+"/elsewhere")
}

func TestUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	host := server.URL
	server.Close()

	api, err := Connect("secret", WithHost(host))
	assert.NoError(t, err)
	_, err = List[testProject](context.Background(), api)
	assert.True(t, IsTransport(err), "expected transport error, got %v", err)
}

func TestCancelledContext(t *testing.T) {
	var captured *http.Request
	server := getNewTestServer(http.StatusOK, `{"data": []}`, &captured)
	defer server.Close()

	api, err := Connect("secret", WithHost(server.URL))
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = List[testProject](ctx, api)
	assert.True(t, errors.Is(err, context.Canceled),
		"expected context.Canceled, got %v", err)
}

func TestConnectConfigErrors(t *testing.T) {
	dir := t.TempDir()
	badBundle := filepath.Join(dir, "bundle.pem")
	err := os.WriteFile(badBundle, []byte("not a certificate"), 0644)
	assert.NoError(t, err)

	testCases := []struct {
		name    string
		token   string
		options []Option
	}{
		{"empty token", "", nil},
		{"missing CA bundle",
			"secret", []Option{WithCACert(filepath.Join(dir, "missing.pem"))}},
		{"invalid CA bundle", "secret", []Option{WithCACert(badBundle)}},
		{"host without scheme", "secret", []Option{WithHost("app.asana.com")}},
	}
	for _, testCase := range testCases {
		_, err := Connect(testCase.token, testCase.options...)
		if !IsConfig(err) {
			t.Errorf("%s: got '%v', expected a configuration error",
				testCase.name, err)
		}
	}
}

func TestConnectDefaults(t *testing.T) {
	api, err := Connect("secret", WithCACert(""))
	assert.NoError(t, err)
	assert.Equal(t, api.Host, DefaultHost)
	assert.Equal(t, api.Token, "secret")
	assert.Equal(t, api.PendingScope(), "")
}

func TestMustConnect(t *testing.T) {
	var captured *http.Request
	server := getNewTestServer(http.StatusOK,
		`{"data": {"gid": "1", "resource_type": "user"}}`, &captured)
	defer server.Close()

	api := MustConnect("secret", WithHost(server.URL))
	assert.Equal(t, api.Host, server.URL)

	user, err := Get[testUser](context.Background(), api, "1")
	assert.NoError(t, err)
	assert.Equal(t, user.Gid, "1")
	assert.Equal(t, captured.Header.Get("Authorization"), "Bearer secret")
}
