package mock

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Request is one call received by the ApiMock.
type Request struct {
	Headers map[string]string
	Queries map[string]string
	Body    map[string]any
	// Files maps multipart field names to the uploaded file names.
	Files map[string]string
}

type stubResponse struct {
	status int
	body   any
}

// ApiMock is an HTTP collaborator stub. Responses are registered per method
// and path, either for the n-th call or as the default for every call.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	requests  map[string][]Request
	responses map[string]map[int]stubResponse
	defaults  map[string]stubResponse
	mockUrl   string
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requests:  map[string][]Request{},
		responses: map[string]map[int]stubResponse{},
		defaults:  map[string]stubResponse{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
	a.mockUrl = a.server.URL
}

// Close stops the server.
func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.mockUrl
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path
	received := readRequest(r)

	a.mu.Lock()
	index := len(a.requests[key])
	a.requests[key] = append(a.requests[key], received)
	resp, ok := a.responses[key][index]
	if !ok {
		resp, ok = a.defaults[key]
	}
	a.mu.Unlock()

	if !ok {
		resp = stubResponse{status: http.StatusOK, body: map[string]any{}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	switch body := resp.body.(type) {
	case string:
		_, _ = io.WriteString(w, body)
	default:
		_ = json.NewEncoder(w).Encode(body)
	}
}

func readRequest(r *http.Request) Request {
	req := Request{
		Headers: map[string]string{},
		Queries: map[string]string{},
		Body:    map[string]any{},
		Files:   map[string]string{},
	}
	for key, value := range r.Header {
		req.Headers[key] = value[0]
	}
	for key, value := range r.URL.Query() {
		req.Queries[key] = value[0]
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			for field, values := range r.MultipartForm.Value {
				req.Body[field] = values[0]
			}
			for field, headers := range r.MultipartForm.File {
				req.Files[field] = headers[0].Filename
			}
		}
		return req
	}

	body, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(body, &req.Body)
	if req.Body == nil {
		req.Body = map[string]any{}
	}
	return req
}

// SetResponse registers the response to the index-th call of method and path.
// An index of -1 registers the default for every call without its own response.
// A string body is written as is; anything else is JSON encoded.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaults[key] = stubResponse{status: status, body: response}
		return
	}
	if a.responses[key] == nil {
		a.responses[key] = map[int]stubResponse{}
	}
	a.responses[key][index] = stubResponse{status: status, body: response}
}

// GetRequests returns the calls received for method and path.
func (a *ApiMock) GetRequests(method, path string) []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.requests[method+path]...)
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	requests := a.GetRequests(method, path)
	if index < 0 || index >= len(requests) {
		return nil
	}
	return requests[index].Body
}

// Reset forgets every registered response and received request.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = map[string][]Request{}
	a.responses = map[string]map[int]stubResponse{}
	a.defaults = map[string]stubResponse{}
}
