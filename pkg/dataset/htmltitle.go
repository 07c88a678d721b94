package dataset

import (
	"strings"

	"golang.org/x/net/html"
)

// htmlTitle extracts the <title> of an HTML error page so FetchError
// messages say something more useful than the status code. Returns ""
// when the body has no title.
func htmlTitle(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}
	title, ok := findTitle(doc)
	if !ok {
		return ""
	}
	return strings.Join(strings.Fields(title), " ")
}

func findTitle(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title, ok := findTitle(c); ok {
			return title, ok
		}
	}
	return "", false
}
