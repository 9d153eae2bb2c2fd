// Package site holds the embedded dashboard pages and maps locations to them.
package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/okian/riskboard/internal/adapters/page"
)

// Error constants
var (
	ErrUnknownPage = errors.New("no page at location")
	ErrLoad        = errors.New("page load failed")
)

// Page locations.
const (
	Dashboard  = "/"
	Form       = "/form"
	Statistics = "/statistics"
)

var files = map[string]string{
	Dashboard:  "index.html",
	Form:       "form.html",
	Statistics: "statistics.html",
}

// Locations lists every location that has a page.
func Locations() []string {
	out := make([]string, 0, len(files))
	for loc := range files {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// Page returns the raw markup served at location.
func Page(location string) ([]byte, error) {
	name, ok := files[location]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, location)
	}
	b, err := fs.ReadFile(pagesFS, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return b, nil
}

// Load parses the page at location into a fresh document.
func Load(location string) (*page.Document, error) {
	b, err := Page(location)
	if err != nil {
		return nil, err
	}
	doc, err := page.ParseString(string(b), location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return doc, nil
}

// Register attaches a GET route for every page to r.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	for loc := range files {
		r.Get(loc, NewPageHandler(loc).ServeHTTP)
	}
}

// PageHandler serves one embedded page.
type PageHandler struct {
	location string
}

// NewPageHandler creates a handler for the page at location.
func NewPageHandler(location string) *PageHandler {
	return &PageHandler{location: location}
}

// ServeHTTP writes the page as HTML.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	b, err := Page(h.location)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
