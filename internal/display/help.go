package display

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed help.md
var helpSource []byte

// ErrNoMenu is returned when the help document contains no ordered list.
var ErrNoMenu = errors.New("help document has no menu list")

// MenuItem is one numbered entry of the interactive menu.
type MenuItem struct {
	Key         string // What the user types, e.g. "1"
	Title       string // Bold lead, e.g. "Extract addons"
	Description string // Text after the title
}

// HelpDoc is the parsed help document.
type HelpDoc struct {
	Title  string
	Prompt string
	Items  []MenuItem
	Notes  []string
}

// LoadHelp parses the embedded help document.
func LoadHelp() (*HelpDoc, error) {
	return ParseHelp(helpSource)
}

// ParseHelp reads a help document: the first heading is the title, the
// paragraph before the first ordered list is the prompt, the list items are
// "**Title** - description" menu entries numbered from the list start, and
// paragraphs under a "Notes" heading are free text.
func ParseHelp(source []byte) (*HelpDoc, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(source))
	doc := &HelpDoc{}

	inNotes := false
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := extractText(node, source)
			if doc.Title == "" {
				doc.Title = heading
				continue
			}
			inNotes = strings.EqualFold(heading, "notes")
		case *ast.Paragraph:
			para := extractText(node, source)
			switch {
			case inNotes:
				doc.Notes = append(doc.Notes, para)
			case doc.Items == nil:
				doc.Prompt = para
			}
		case *ast.List:
			if node.IsOrdered() && doc.Items == nil {
				doc.Items = parseMenuList(node, source)
			}
		}
	}

	if len(doc.Items) == 0 {
		return nil, ErrNoMenu
	}
	return doc, nil
}

func parseMenuList(list *ast.List, source []byte) []MenuItem {
	items := make([]MenuItem, 0)
	index := 0
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		if _, ok := li.(*ast.ListItem); !ok {
			continue
		}
		item := MenuItem{Key: strconv.Itoa(list.Start + index)}
		index++

		for block := li.FirstChild(); block != nil; block = block.NextSibling() {
			for c := block.FirstChild(); c != nil; c = c.NextSibling() {
				if em, ok := c.(*ast.Emphasis); ok && em.Level == 2 && item.Title == "" {
					item.Title = extractText(em, source)
					continue
				}
				item.Description += inlineText(c, source)
			}
		}

		item.Description = strings.TrimSpace(item.Description)
		item.Description = strings.TrimSpace(strings.TrimPrefix(item.Description, "-"))
		if item.Title == "" {
			item.Title, item.Description = item.Description, ""
		}
		items = append(items, item)
	}
	return items
}

// extractText concatenates the inline text below n.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		buf.WriteString(inlineText(c, source))
	}
	return strings.TrimSpace(buf.String())
}

func inlineText(n ast.Node, source []byte) string {
	switch node := n.(type) {
	case *ast.Text:
		s := string(node.Segment.Value(source))
		if node.SoftLineBreak() || node.HardLineBreak() {
			s += " "
		}
		return s
	case *ast.String:
		return string(node.Value)
	default:
		var buf bytes.Buffer
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			buf.WriteString(inlineText(c, source))
		}
		return buf.String()
	}
}

// Lookup returns the menu item for key.
func (d *HelpDoc) Lookup(key string) (MenuItem, bool) {
	key = strings.TrimSpace(key)
	for _, item := range d.Items {
		if item.Key == key {
			return item, true
		}
	}
	return MenuItem{}, false
}

// KeyRange returns "1-4" for a menu numbered one to four.
func (d *HelpDoc) KeyRange() string {
	if len(d.Items) == 0 {
		return ""
	}
	return d.Items[0].Key + "-" + d.Items[len(d.Items)-1].Key
}

// RenderMenu prints the prompt and the numbered titles.
func (d *HelpDoc) RenderMenu(w io.Writer) {
	p := NewPainter(w)
	fmt.Fprintln(w, d.Prompt)
	for _, item := range d.Items {
		fmt.Fprintf(w, "%s. %s\n", p.Paint(item.Key, color.FgCyan), item.Title)
	}
	fmt.Fprintln(w)
}

// RenderHelp prints every entry with its description followed by the notes.
func (d *HelpDoc) RenderHelp(w io.Writer) {
	p := NewPainter(w)
	fmt.Fprintf(w, "\n%s\n", p.Paint("Help:", color.Bold))
	for _, item := range d.Items {
		if item.Description == "" {
			fmt.Fprintf(w, "%s. %s\n", item.Key, item.Title)
			continue
		}
		fmt.Fprintf(w, "%s. %s - %s\n", item.Key, item.Title, item.Description)
	}
	for _, note := range d.Notes {
		fmt.Fprintf(w, "\n%s\n", note)
	}
	fmt.Fprintln(w)
}
