// Package extract turns submitted markup into the plain text stored on a
// concept.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// markupTags are the elements that mark a submission as pasted HTML. Text
// such as "<ten employees" opens no known element and stays as typed.
var markupTags = map[string]bool{
	"a": true, "b": true, "i": true, "u": true, "em": true, "strong": true,
	"p": true, "br": true, "div": true, "span": true, "hr": true,
	"ul": true, "ol": true, "li": true, "blockquote": true, "pre": true, "code": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "tr": true, "td": true, "th": true,
	"html": true, "head": true, "body": true, "img": true,
	"script": true, "style": true, "noscript": true, "iframe": true, "template": true,
}

// PlainText returns the visible text of s. Input that contains HTML has its
// markup dropped, entities decoded, script/style content skipped and
// whitespace collapsed. Anything else is only trimmed.
func PlainText(s string) (string, error) {
	if !IsMarkup(s) {
		return strings.TrimSpace(s), nil
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", err
	}
	return collapse(visibleText(doc)), nil
}

// IsMarkup reports whether s opens or closes at least one known HTML element.
func IsMarkup(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if markupTags[string(name)] {
				return true
			}
		}
	}
}

// visibleText extracts text nodes, skipping scripts and styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			case "br", "p", "div", "li":
				buf.WriteString(" ")
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
