package pages

import (
	"strings"

	"golang.org/x/net/html"
)

// extractTitle returns the text of the first <h1> in the fragment, falling
// back to a <title> element. Empty when the fragment declares neither.
func extractTitle(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	if h1 := findElement(doc, "h1"); h1 != nil {
		return strings.TrimSpace(nodeText(h1))
	}
	if title := findElement(doc, "title"); title != nil {
		return strings.TrimSpace(nodeText(title))
	}
	return ""
}

// findElement depth-first searches for the first element with the given tag.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
