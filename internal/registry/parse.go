package registry

import (
	"strings"

	"golang.org/x/net/html"
)

// extractEntityName pulls the registered entity name out of a registry
// detail page. The page presents the record as a definition list whose
// second <dd> holds the name (the first holds the corporate number);
// we take the second <dd> of the first <dl> in the document.
func extractEntityName(page string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", false
	}

	dl := findFirst(doc, "dl")
	if dl == nil {
		return "", false
	}

	var dds []*html.Node
	for child := dl.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "dd" {
			dds = append(dds, child)
		}
	}
	if len(dds) < 2 {
		return "", false
	}

	name := strings.TrimSpace(nodeText(dds[1]))
	if name == "" {
		return "", false
	}
	return name, true
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirst(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
