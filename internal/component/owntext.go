package component

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ownText returns the text nodes placed directly in fragment, with whitespace collapsed.
func ownText(fragment string) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return "", fmt.Errorf("parse inner html: %w", err)
	}

	var parts []string
	for _, n := range nodes {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}
