package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// StrippedText returns the text nodes under node each trimmed of surrounding
// whitespace and joined without a separator, empty pieces are dropped.
func StrippedText(node *html.Node) string {
	var out strings.Builder
	strippedTextRecursive(node, &out)
	return out.String()
}

func strippedTextRecursive(node *html.Node, out *strings.Builder) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		out.WriteString(strings.TrimSpace(removeNonPrintable(node.Data)))
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		strippedTextRecursive(child, out)
	}
}

// SelectionText is StrippedText over the first node of a selection.
func SelectionText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return StrippedText(sel.Nodes[0])
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// NormalizeSpace collapses runs of whitespace and trims the ends.
func NormalizeSpace(s string) string {
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

func removeNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// NextElement returns the first element node after node in document order,
// descending into node's own children first. It returns nil at the end of the
// document.
func NextElement(node *html.Node) *html.Node {
	for cur := advance(node); cur != nil; cur = advance(cur) {
		if cur.Type == html.ElementNode {
			return cur
		}
	}
	return nil
}

// NextElementMatching is NextElement restricted to elements with the given
// tag name.
func NextElementMatching(node *html.Node, tag string) *html.Node {
	for cur := NextElement(node); cur != nil; cur = NextElement(cur) {
		if cur.Data == tag {
			return cur
		}
	}
	return nil
}

func advance(node *html.Node) *html.Node {
	if node.FirstChild != nil {
		return node.FirstChild
	}
	for cur := node; cur != nil; cur = cur.Parent {
		if cur.NextSibling != nil {
			return cur.NextSibling
		}
	}
	return nil
}

// OwnString follows single-child chains below node and returns the text it
// ends on. It reports false when some node on the way has more or fewer than
// one child.
func OwnString(node *html.Node) (string, bool) {
	cur := node
	for cur != nil && cur.Type != html.TextNode {
		if cur.FirstChild == nil || cur.FirstChild != cur.LastChild {
			return "", false
		}
		cur = cur.FirstChild
	}
	if cur == nil {
		return "", false
	}
	return cur.Data, true
}
