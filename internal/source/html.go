package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor handles tipitaka.org-style HTML editions. Headings and block
// elements each become one line, blocks are separated by blank lines, and
// <hr> elements (the conventional page/volume separator in CST exports)
// start a new page.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Pages(r io.Reader, maxPages int) ([][]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var pages [][]string
	var current []string

	breakPage := func() {
		if len(current) > 0 {
			pages = append(pages, current)
			current = nil
		}
	}
	addBlock := func(text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		if len(current) > 0 {
			current = append(current, "")
		}
		current = append(current, text)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "hr":
				breakPage()
				return
			case "h1", "h2", "h3", "h4", "h5", "h6", "p", "li", "td", "blockquote", "div":
				if n.Data == "div" {
					// Divs commonly nest; only treat leaf divs as blocks.
					if hasBlockChild(n) {
						break
					}
				}
				addBlock(textContent(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	breakPage()

	if len(pages) == 0 {
		pages = [][]string{{}}
	}
	return capPages(pages, maxPages), nil
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6", "p", "li", "td", "blockquote", "div", "hr", "ul", "ol", "table":
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
