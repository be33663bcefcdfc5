package asana

import (
	"fmt"
	"net/url"
	"sync"
)

type CapturedRequest struct {
	Method    string
	OptFields string
}
type MockResponse struct {
	Text     string
	Redirect string
	Status   *StatusError
}

type MockRequest struct {
	Response MockResponse
	Request  CapturedRequest
}

type MockEndpoint struct {
	Requests []MockRequest
	Count    int
}

// MockData maps request paths, relative to the API root and without the
// query string, to the responses they should get in order
type MockData map[string]*MockEndpoint

var mockLock sync.Mutex

func (mockData *MockData) Get(path string) *MockRequest {
	endpoint, exists := (*mockData)[path]
	if !exists {
		return nil
	}
	if endpoint.Count >= len(endpoint.Requests) {
		return nil
	}
	endpoint.Count++
	return &endpoint.Requests[endpoint.Count-1]
}

func GetMockTextResponse(text string) *MockEndpoint {
	return &MockEndpoint{
		Requests: []MockRequest{{Response: MockResponse{Text: text}}},
	}
}

func GetMockStatusResponse(statusCode int, message string) *MockEndpoint {
	return &MockEndpoint{
		Requests: []MockRequest{{Response: MockResponse{
			Status: &StatusError{
				StatusCode: statusCode,
				Errors:     []ErrorItem{{Message: message}},
			},
		}}},
	}
}

func GetTestConnection(mockData MockData) *Connection {
	return &Connection{
		Token: "test-token",
		RequestMethod: func(
			method, path string, query url.Values,
		) ([]byte, error) {
			mockLock.Lock()
			defer mockLock.Unlock()

			mockRequest := mockData.Get(path)
			if mockRequest == nil {
				return nil, fmt.Errorf("%s not found", path)
			}
			mockRequest.Request.Method = method
			mockRequest.Request.OptFields = query.Get("opt_fields")

			switch {
			case mockRequest.Response.Redirect != "":
				return nil, &RedirectError{mockRequest.Response.Redirect}
			case mockRequest.Response.Status != nil:
				return nil, &TransportError{
					Method: method,
					URL:    path,
					Err:    mockRequest.Response.Status,
				}
			default:
				return []byte(mockRequest.Response.Text), nil
			}
		},
	}
}
