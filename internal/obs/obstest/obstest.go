// Package obstest provides an in-memory build service source API for tests.
package obstest

import (
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// Request is one request received by the server.
type Request struct {
	Method        string
	Project       string
	Package       string
	File          string
	Query         url.Values
	Body          []byte
	ContentType   string
	Accept        string
	Authorization string
}

// Server is a fake source API. Configure the exported fields before
// issuing requests.
type Server struct {
	*httptest.Server

	// Files is returned as the package listing, in order.
	Files []string
	// ListingStatus, when non-zero, is returned for listing requests
	// together with ListingBody.
	ListingStatus int
	// ListingBody, when non-empty, replaces the generated listing document.
	ListingBody string
	// Fail maps "METHOD file" (for example "DELETE b.changes") to the
	// status returned for that request.
	Fail map[string]int

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a server that is closed when the test finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{Fail: map[string]int{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Requests returns the requests received so far, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Mutations returns the DELETE and PUT requests received so far.
func (s *Server) Mutations() []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == http.MethodDelete || r.Method == http.MethodPut {
			out = append(out, r)
		}
	}
	return out
}

type listing struct {
	XMLName xml.Name `xml:"directory"`
	Name    string   `xml:"name,attr"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	Name string `xml:"name,attr"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/source/"), "/", 3)
	if !strings.HasPrefix(r.URL.Path, "/source/") || len(parts) < 2 {
		http.Error(w, `<status code="not_found"/>`, http.StatusNotFound)
		return
	}

	body, _ := io.ReadAll(r.Body)
	req := Request{
		Method:        r.Method,
		Project:       parts[0],
		Package:       parts[1],
		Query:         r.URL.Query(),
		Body:          body,
		ContentType:   r.Header.Get("Content-Type"),
		Accept:        r.Header.Get("Accept"),
		Authorization: r.Header.Get("Authorization"),
	}
	if len(parts) == 3 {
		req.File = parts[2]
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/xml")

	if req.File == "" && r.Method == http.MethodGet {
		s.writeListing(w, req.Package)
		return
	}

	if status, ok := s.Fail[r.Method+" "+req.File]; ok {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `<status code="error"><summary>rejected `+req.File+`</summary></status>`)
		return
	}
	_, _ = io.WriteString(w, `<status code="ok"/>`)
}

func (s *Server) writeListing(w http.ResponseWriter, pkg string) {
	if s.ListingStatus != 0 {
		w.WriteHeader(s.ListingStatus)
	}
	if s.ListingBody != "" || s.ListingStatus != 0 {
		_, _ = io.WriteString(w, s.ListingBody)
		return
	}

	doc := listing{Name: pkg}
	for _, f := range s.Files {
		doc.Entries = append(doc.Entries, entry{Name: f})
	}
	out, _ := xml.Marshal(doc)
	_, _ = w.Write(out)
}
