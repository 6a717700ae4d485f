package feed

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var blankLines = regexp.MustCompile(`(\r?\n|\r){2,}`)

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "dl": true, "dt": true, "dd": true, "fieldset": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "tr": true,
	"ul": true,
}

// htmlToText converts item body markup to normalized text. Caption elements
// are dropped, image elements contribute only their source URL (the first
// one becomes the item image), anchors are walked into without decoration,
// and runs of two or more newlines collapse to exactly one blank line.
func htmlToText(markup string) (text string, image string) {
	if markup == "" {
		return "", ""
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// x/net/html recovers from almost anything; if it truly cannot
		// build a tree, fall back to the raw markup.
		return strings.TrimSpace(markup), ""
	}

	c := &textConverter{}
	c.walk(root)

	text = blankLines.ReplaceAllString(c.text.String(), "\n\n")
	text = strings.TrimSpace(text)

	if len(c.images) > 0 {
		image = c.images[0]
	}

	return text, image
}

type textConverter struct {
	text   strings.Builder
	images []string
}

func (c *textConverter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		c.text.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "figcaption", "script", "style":
			return
		case "img":
			if src := attrValue(n, "src"); src != "" {
				c.images = append(c.images, src)
			}
			return
		case "br":
			c.text.WriteString("\n")
			return
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] {
		// Blocks separate with a blank line; the collapse pass trims runs.
		c.text.WriteString("\n\n")
	}
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
