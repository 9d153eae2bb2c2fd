// Package page models the browser document the dashboard script runs
// against: elements addressed by id, one or more forms, alert regions whose
// class and inner HTML can be replaced, click listeners and the location.
package page

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Scheduler runs a callback. The orchestrator installs its event loop here so
// listeners run serialised with request completions.
type Scheduler func(fn func())

// Navigator is told about every navigation.
type Navigator func(location string)

// Document is a parsed page. It is safe for concurrent use.
type Document struct {
	mu        sync.RWMutex
	root      *html.Node
	location  string
	listeners map[string][]func()
	closed    bool

	schedule Scheduler
	navigate Navigator
}

// Parse reads an HTML page served at location.
func Parse(r io.Reader, location string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &Document{
		root:      root,
		location:  location,
		listeners: make(map[string][]func()),
		schedule:  func(fn func()) { fn() },
	}, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(s, location string) (*Document, error) {
	return Parse(strings.NewReader(s), location)
}

// SetScheduler replaces the inline scheduler used to dispatch listeners.
func (d *Document) SetScheduler(s Scheduler) {
	if s == nil {
		return
	}
	d.mu.Lock()
	d.schedule = s
	d.mu.Unlock()
}

// OnNavigate installs the navigation hook.
func (d *Document) OnNavigate(n Navigator) {
	d.mu.Lock()
	d.navigate = n
	d.mu.Unlock()
}

// Location returns the current location path.
func (d *Document) Location() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.location
}

// Closed reports whether the page has navigated away.
func (d *Document) Closed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

// Exists reports whether an element with id is present.
func (d *Document) Exists(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return findByID(d.root, id) != nil
}

// AddListener attaches a click listener to the element with id. It reports
// false, attaching nothing, when the element is absent.
func (d *Document) AddListener(id string, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if findByID(d.root, id) == nil {
		return false
	}
	d.listeners[id] = append(d.listeners[id], fn)
	return true
}

// Click activates the element with id, scheduling each of its listeners.
// Clicking a page that has navigated away does nothing.
func (d *Document) Click(id string) error {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return nil
	}
	if findByID(d.root, id) == nil {
		d.mu.RUnlock()
		return fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	listeners := append([]func(){}, d.listeners[id]...)
	schedule := d.schedule
	d.mu.RUnlock()

	for _, fn := range listeners {
		fn := fn
		schedule(func() {
			if d.Closed() {
				return
			}
			fn()
		})
	}
	return nil
}

// Navigate sets the location and ends the page's lifecycle.
func (d *Document) Navigate(location string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.location = location
	d.closed = true
	nav := d.navigate
	d.mu.Unlock()

	if nav != nil {
		nav(location)
	}
}

// SetHTML replaces the children of the element with id by the parsed markup.
func (d *Document) SetHTML(id, markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := findByID(d.root, id)
	if n == nil {
		return fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	ctx := &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	removeChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// HTML returns the inner HTML of the element with id.
func (d *Document) HTML(id string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := findByID(d.root, id)
	if n == nil {
		return "", fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Text returns the concatenated text content of the element with id.
func (d *Document) Text(id string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := findByID(d.root, id)
	if n == nil {
		return "", fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	return textContent(n), nil
}

// SetClass replaces the class attribute of the element with id.
func (d *Document) SetClass(id, class string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := findByID(d.root, id)
	if n == nil {
		return fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	setAttr(n, "class", class)
	return nil
}

// Class returns the class attribute of the element with id.
func (d *Document) Class(id string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := findByID(d.root, id)
	if n == nil {
		return "", fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	v, _ := attr(n, "class")
	return v, nil
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

// Title returns the page title, if any.
func (d *Document) Title() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var title string
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			title = strings.TrimSpace(textContent(n))
			return false
		}
		return true
	})
	return title
}

// Node helpers.

func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func findByID(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}
