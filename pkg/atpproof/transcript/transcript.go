// Package transcript turns raw prover output into the line-oriented text
// the SZS parser reads. Plain text passes through; HTML pages (prover web
// front ends, saved result pages) are reduced to the text of their <pre>
// blocks, or to all of their text when there are none.
package transcript

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Read loads r fully and normalizes it.
func Read(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return Normalize(string(raw)), nil
}

// IsHTML reports whether s looks like an HTML document rather than a
// prover transcript.
func IsHTML(s string) bool {
	head := strings.ToLower(strings.TrimSpace(s))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.HasPrefix(head, "<pre") ||
		strings.HasPrefix(head, "<body")
}

// Normalize returns the transcript text of s.
func Normalize(s string) string {
	if !IsHTML(s) {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var blocks []string
	var findPre func(*html.Node)
	findPre = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Pre {
			blocks = append(blocks, text(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPre(c)
		}
	}
	findPre(doc)

	if len(blocks) == 0 {
		return text(doc)
	}
	return strings.Join(blocks, "\n")
}

func text(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			buf.WriteByte('\n')
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
