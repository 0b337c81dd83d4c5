package auth_test

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
)

// recordedRequest is what fakeDoer saw, with the body already drained.
type recordedRequest struct {
	Method string
	URL    string
	Path   string
	Header http.Header
	Body   string
}

type cannedResponse struct {
	status int
	header map[string]string
	body   string
	err    error
}

// fakeDoer answers requests by path and records them in order.
type fakeDoer struct {
	mu        sync.Mutex
	responses map[string]cannedResponse
	requests  []recordedRequest
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{responses: map[string]cannedResponse{}}
}

func (f *fakeDoer) on(path string, status int, body string, header ...string) *fakeDoer {
	h := map[string]string{}
	for i := 0; i+1 < len(header); i += 2 {
		h[header[i]] = header[i+1]
	}
	f.responses[path] = cannedResponse{status: status, header: h, body: body}
	return f
}

func (f *fakeDoer) fail(path string, err error) *fakeDoer {
	f.responses[path] = cannedResponse{err: err}
	return f
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Path:   req.URL.Path,
		Header: req.Header.Clone(),
		Body:   body,
	})
	canned, ok := f.responses[req.URL.Path]
	f.mu.Unlock()

	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("no canned response for " + req.URL.Path)
	}
	if canned.err != nil {
		return nil, canned.err
	}

	resp := &http.Response{
		StatusCode: canned.status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(canned.body)),
		Request:    req,
	}
	for k, v := range canned.header {
		resp.Header.Set(k, v)
	}
	return resp, nil
}

func (f *fakeDoer) recorded(t *testing.T) []recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}
