package asana

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

/*
The errors returned by this package fall in three kinds. Inspect them with
errors.As or the Is* helpers:

	    tasks, err := asana.List[Task](ctx, api)
	    var statusError *asana.StatusError
	    switch {
	    case errors.As(err, &statusError):
			for _, errorItem := range statusError.Errors {
				fmt.Println(errorItem.Message)
			}
	    case asana.IsDecode(err):
	        fmt.Println("Unexpected response shape")
	    case err != nil:
	        fmt.Printf("%s\n", err)
	    }
*/

// ConfigError means the connection could not be set up or the request was
// malformed before anything was sent
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("asana configuration error: %s: %s", e.Reason, e.Err)
	}
	return fmt.Sprintf("asana configuration error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransportError means the request did not produce a successful response:
// the host was unreachable, a redirect was attempted or the status was not
// 2xx (in which case Err is a *StatusError)
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError means the response body was not the expected envelope or
// entity shape
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode '%s' response: %s", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type StatusError struct {
	StatusCode int
	Errors     []ErrorItem `json:"errors"`
	// Seconds, as sent by the server with 429 responses
	RetryAfter int
}

type ErrorItem struct {
	Message string `json:"message,omitempty"`
	Help    string `json:"help,omitempty"`
	Phrase  string `json:"phrase,omitempty"`
}

func (e *StatusError) Error() string {
	// 404, project: Not a recognized ID
	result := make([]string, 0, len(e.Errors)+1)
	result = append(result, fmt.Sprint(e.StatusCode))
	for _, errorItem := range e.Errors {
		result = append(result, errorItem.Message)
	}
	return strings.Join(result, ", ")
}

func parseErrorResponse(response *http.Response, body []byte) *StatusError {
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	errorResponse := StatusError{StatusCode: response.StatusCode}

	// Intentionally ignore parse errors
	_ = json.Unmarshal(body, &errorResponse)

	if response.StatusCode == http.StatusTooManyRequests {
		retryAfter, err := strconv.Atoi(response.Header.Get("Retry-After"))
		if err == nil {
			errorResponse.RetryAfter = retryAfter
		}
	}
	return &errorResponse
}

type RedirectError struct {
	Location string
}

func (m *RedirectError) Error() string {
	return "asana does not follow redirects. You can access the Location " +
		"header with " +
		"`var e *asana.RedirectError; errors.As(err, &e); e.Location`"
}

func IsConfig(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

func IsTransport(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

func IsDecode(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}
