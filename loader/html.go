package loader

import (
	"io"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// droppedElements never contribute text.
const droppedElements = "script, style, noscript, template, head, nav, svg, iframe"

// paragraphElements are separated from their surroundings by a blank line.
var paragraphElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"header": true, "footer": true, "aside": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "dl": true, "table": true, "form": true, "fieldset": true,
	"figure": true, "address": true, "hr": true,
}

// lineElements are separated from their surroundings by a line break.
var lineElements = map[string]bool{
	"br": true, "li": true, "tr": true, "dt": true, "dd": true, "caption": true,
	"figcaption": true,
}

// page is the result of parsing one HTML file.
type page struct {
	title string
	text  string
}

// parseHTML extracts the title and the readable text of an HTML page.
func parseHTML(r io.Reader) (page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return page{}, err
	}

	title := collapseSpaces(doc.Find("title").First().Text())

	doc.Find(droppedElements).Remove()

	w := &textWriter{}
	for _, n := range doc.Selection.Nodes {
		w.walk(n)
	}
	return page{title: title, text: w.String()}, nil
}

// textWriter accumulates text while tracking pending breaks so that
// consecutive block boundaries collapse into a single separator.
type textWriter struct {
	b            strings.Builder
	pendingBreak int // 0 none, 1 line, 2 paragraph
	pendingSpace bool
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if n.Data == "br" {
			w.lineBreak(1)
			return
		}
		if n.Data == "hr" {
			w.lineBreak(2)
			return
		}
	}

	breakLevel := 0
	if n.Type == html.ElementNode {
		if paragraphElements[n.Data] {
			breakLevel = 2
		} else if lineElements[n.Data] {
			breakLevel = 1
		} else if n.Data == "td" || n.Data == "th" {
			w.pendingSpace = true
		}
	}

	w.lineBreak(breakLevel)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	w.lineBreak(breakLevel)
}

func (w *textWriter) text(s string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			w.pendingSpace = true
		}
		return
	}

	if w.b.Len() > 0 {
		switch {
		case w.pendingBreak == 2:
			w.b.WriteString("\n\n")
		case w.pendingBreak == 1:
			w.b.WriteString("\n")
		case w.pendingSpace || startsWithSpace(s):
			w.b.WriteString(" ")
		}
	}
	w.b.WriteString(strings.Join(fields, " "))

	w.pendingBreak = 0
	w.pendingSpace = endsWithSpace(s)
}

func (w *textWriter) lineBreak(level int) {
	if level > w.pendingBreak {
		w.pendingBreak = level
	}
	if level > 0 {
		w.pendingSpace = false
	}
}

func (w *textWriter) String() string {
	return w.b.String()
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return false
}

func endsWithSpace(s string) bool {
	return strings.TrimRightFunc(s, unicode.IsSpace) != s
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
