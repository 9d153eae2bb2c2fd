package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/okian/riskboard/internal/adapters/page"
	"github.com/okian/riskboard/internal/app"
	"github.com/okian/riskboard/internal/domain/model"
)

// region is one printable area of a page.
type region struct {
	id    string
	label string
}

var regions = []region{
	{app.IDFactTile, "Fact"},
	{app.IDResultText, "Prediction"},
	{app.IDAdviceText, "Advice"},
	{app.IDStatsChart, "Statistics"},
}

var textPolicy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
})

// PlainText strips markup from region HTML, decodes entities and collapses
// whitespace.
func PlainText(markup string) string {
	s := html.UnescapeString(textPolicy().Sanitize(markup))
	return strings.Join(strings.Fields(s), " ")
}

// Print writes the page title and every non-empty region of doc.
func Print(w io.Writer, doc *page.Document) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", doc.Title(), doc.Location()); err != nil {
		return err
	}
	for _, r := range regions {
		if !doc.Exists(r.id) {
			continue
		}
		markup, err := doc.HTML(r.id)
		if err != nil {
			return err
		}
		text := PlainText(markup)
		if text == "" {
			continue
		}
		class, _ := doc.Class(r.id)
		if _, err := fmt.Fprintf(w, "  %s [%s]: %s\n", r.label, styleOf(class), text); err != nil {
			return err
		}
	}
	return nil
}

func styleOf(class string) string {
	d := model.Styled(class, "")
	switch name := d.StyleName(); name {
	case "plain", "custom":
		return "plain"
	default:
		return name
	}
}
