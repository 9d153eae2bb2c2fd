package page

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/okian/riskboard/internal/domain/model"
)

// FieldKind classifies form controls for callers that fill forms.
type FieldKind string

// Field kinds.
const (
	KindText     FieldKind = "text"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindRadio    FieldKind = "radio"
	KindCheckbox FieldKind = "checkbox"
	KindTextarea FieldKind = "textarea"
)

// Field describes one named control of a form, radios grouped by name.
type Field struct {
	Name     string
	Kind     FieldKind
	Label    string
	Value    string
	Options  []string
	Required bool
}

// skipped input types never contribute to a form snapshot.
var skippedInputTypes = map[string]bool{
	"submit": true, "button": true, "reset": true, "image": true, "file": true,
}

// FormData snapshots the named, enabled controls of the form with id. A
// repeated name keeps its last value.
func (d *Document) FormData(formID string) (model.FormInputs, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	form, err := d.form(formID)
	if err != nil {
		return nil, err
	}

	out := model.FormInputs{}
	for _, n := range controls(form) {
		name, ok := attr(n, "name")
		if !ok || name == "" || hasAttr(n, "disabled") {
			continue
		}
		switch n.DataAtom {
		case atom.Input:
			typ := inputType(n)
			if skippedInputTypes[typ] {
				continue
			}
			if typ == "checkbox" || typ == "radio" {
				if !hasAttr(n, "checked") {
					continue
				}
				v, ok := attr(n, "value")
				if !ok {
					v = "on"
				}
				out[name] = v
				continue
			}
			v, _ := attr(n, "value")
			out[name] = v
		case atom.Select:
			for _, opt := range selectedOptions(n) {
				out[name] = optionValue(opt)
			}
		case atom.Textarea:
			out[name] = textContent(n)
		}
	}
	return out, nil
}

// SetValue sets the control called name inside the form with id, the way a
// user typing, ticking or choosing would.
func (d *Document) SetValue(formID, name, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	form, err := d.form(formID)
	if err != nil {
		return err
	}

	var matched []*html.Node
	for _, n := range controls(form) {
		if v, ok := attr(n, "name"); ok && v == name {
			matched = append(matched, n)
		}
	}
	if len(matched) == 0 {
		return fmt.Errorf("%w: %s", ErrNoField, name)
	}

	n := matched[0]
	switch n.DataAtom {
	case atom.Select:
		return selectOption(n, value)
	case atom.Textarea:
		removeChildren(n)
		n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		return nil
	}

	switch inputType(n) {
	case "radio":
		var hit *html.Node
		for _, r := range matched {
			if v, _ := attr(r, "value"); v == value {
				hit = r
			}
		}
		if hit == nil {
			return fmt.Errorf("%w: %s=%q", ErrNoOption, name, value)
		}
		for _, r := range matched {
			removeAttr(r, "checked")
		}
		setAttr(hit, "checked", "")
	case "checkbox":
		if checkboxOn(n, value) {
			setAttr(n, "checked", "")
		} else {
			removeAttr(n, "checked")
		}
	default:
		setAttr(n, "value", value)
	}
	return nil
}

// Fields lists the fillable controls of the form with id in document order.
func (d *Document) Fields(formID string) ([]Field, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	form, err := d.form(formID)
	if err != nil {
		return nil, err
	}

	labels := labelsByFor(form)
	var fields []Field
	index := map[string]int{}
	for _, n := range controls(form) {
		name, ok := attr(n, "name")
		if !ok || name == "" || hasAttr(n, "disabled") {
			continue
		}
		f := Field{Name: name, Label: name, Required: hasAttr(n, "required")}
		if id, ok := attr(n, "id"); ok && labels[id] != "" {
			f.Label = labels[id]
		}

		switch n.DataAtom {
		case atom.Select:
			f.Kind = KindSelect
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, func(o *html.Node) bool {
					if o.Type == html.ElementNode && o.DataAtom == atom.Option && !hasAttr(o, "disabled") {
						f.Options = append(f.Options, optionValue(o))
					}
					return true
				})
			}
			if sel := selectedOptions(n); len(sel) > 0 {
				f.Value = optionValue(sel[len(sel)-1])
			}
		case atom.Textarea:
			f.Kind = KindTextarea
			f.Value = textContent(n)
		case atom.Input:
			typ := inputType(n)
			if skippedInputTypes[typ] {
				continue
			}
			v, _ := attr(n, "value")
			switch typ {
			case "radio":
				if i, ok := index[name]; ok {
					fields[i].Options = append(fields[i].Options, v)
					if hasAttr(n, "checked") {
						fields[i].Value = v
					}
					continue
				}
				f.Kind = KindRadio
				f.Options = []string{v}
				if hasAttr(n, "checked") {
					f.Value = v
				}
			case "checkbox":
				f.Kind = KindCheckbox
				if hasAttr(n, "checked") {
					f.Value = "on"
				}
			case "number", "range":
				f.Kind = KindNumber
				f.Value = v
			default:
				f.Kind = KindText
				f.Value = v
			}
		default:
			continue
		}
		index[name] = len(fields)
		fields = append(fields, f)
	}
	return fields, nil
}

func (d *Document) form(id string) (*html.Node, error) {
	n := findByID(d.root, id)
	if n == nil {
		return nil, fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	if n.DataAtom != atom.Form {
		return nil, fmt.Errorf("%w: #%s", ErrNotForm, id)
	}
	return n, nil
}

// controls returns input, select and textarea descendants in document order.
// Options inside a select are not descended into separately.
func controls(form *html.Node) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Input, atom.Select, atom.Textarea:
				out = append(out, c)
				continue
			}
			visit(c)
		}
	}
	visit(form)
	return out
}

func inputType(n *html.Node) string {
	t, _ := attr(n, "type")
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return "text"
	}
	return t
}

func options(sel *html.Node) []*html.Node {
	var out []*html.Node
	walk(sel, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Option {
			out = append(out, n)
		}
		return true
	})
	return out
}

// selectedOptions mirrors select semantics: every selected option of a
// multiple select; otherwise the last selected option, else the first
// enabled one.
func selectedOptions(sel *html.Node) []*html.Node {
	opts := options(sel)
	var selected []*html.Node
	for _, o := range opts {
		if hasAttr(o, "selected") && !hasAttr(o, "disabled") {
			selected = append(selected, o)
		}
	}
	if hasAttr(sel, "multiple") {
		return selected
	}
	if len(selected) > 0 {
		return selected[len(selected)-1:]
	}
	for _, o := range opts {
		if !hasAttr(o, "disabled") {
			return []*html.Node{o}
		}
	}
	return nil
}

func optionValue(o *html.Node) string {
	if v, ok := attr(o, "value"); ok {
		return v
	}
	return strings.Join(strings.Fields(textContent(o)), " ")
}

func selectOption(sel *html.Node, value string) error {
	var hit *html.Node
	for _, o := range options(sel) {
		if optionValue(o) == value {
			hit = o
			break
		}
	}
	if hit == nil {
		name, _ := attr(sel, "name")
		return fmt.Errorf("%w: %s=%q", ErrNoOption, name, value)
	}
	if !hasAttr(sel, "multiple") {
		for _, o := range options(sel) {
			removeAttr(o, "selected")
		}
	}
	setAttr(hit, "selected", "")
	return nil
}

func checkboxOn(n *html.Node, value string) bool {
	if v, ok := attr(n, "value"); ok && v == value {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes", "checked":
		return true
	}
	return false
}

func labelsByFor(form *html.Node) map[string]string {
	out := map[string]string{}
	walk(form, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Label {
			if id, ok := attr(n, "for"); ok {
				out[id] = strings.Join(strings.Fields(textContent(n)), " ")
			}
		}
		return true
	})
	return out
}

// FormIDs lists the ids of the forms on the page in document order.
func (d *Document) FormIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var ids []string
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Form {
			if id, ok := attr(n, "id"); ok && id != "" {
				ids = append(ids, id)
			}
		}
		return true
	})
	return ids
}

// Value returns the current value of the control with id: the chosen option
// of a select, the text of a textarea or the value of an input.
func (d *Document) Value(id string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := findByID(d.root, id)
	if n == nil {
		return "", fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	switch n.DataAtom {
	case atom.Select:
		sel := selectedOptions(n)
		if len(sel) == 0 {
			return "", nil
		}
		return optionValue(sel[len(sel)-1]), nil
	case atom.Textarea:
		return textContent(n), nil
	case atom.Input:
		v, _ := attr(n, "value")
		return v, nil
	}
	return "", fmt.Errorf("%w: #%s", ErrNoField, id)
}
