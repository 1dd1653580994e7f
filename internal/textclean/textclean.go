// Package textclean turns job descriptions scraped from job boards into
// plain text before they are scored.
package textclean

import (
	"strings"

	"golang.org/x/net/html"
)

// LooksLikeHTML reports whether s contains what appears to be markup: a '<'
// anywhere in s that opens a tag, an end tag or a comment.
func LooksLikeHTML(s string) bool {
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '<' {
			continue
		}
		next := s[i+1]
		if next == '/' || next == '!' || ('a' <= next && next <= 'z') || ('A' <= next && next <= 'Z') {
			return true
		}
	}
	return false
}

// PlainText strips tags from s, decodes entities and collapses whitespace.
// The bodies of script and style elements are dropped. Block-level tags and
// br act as word breaks so "<li>Go</li><li>SQL</li>" yields "Go SQL"; inline
// tags do not, so "<b>Py</b>thon" stays "Python".
func PlainText(s string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(s))

	var sb strings.Builder
	skip := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; keep what was read so far.
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkipped(name) {
				skip++
			}
			breakAt(&sb, name)
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkipped(name) && skip > 0 {
				skip--
			}
			breakAt(&sb, name)
		case html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			breakAt(&sb, name)
		case html.TextToken:
			if skip == 0 {
				sb.Write(tokenizer.Text())
			}
		}
	}
}

func breakAt(sb *strings.Builder, tag []byte) {
	if isBlock(tag) {
		sb.WriteByte(' ')
	}
}

func isBlock(tag []byte) bool {
	switch string(tag) {
	case "p", "div", "br", "hr", "li", "ul", "ol", "dl", "dt", "dd",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"table", "thead", "tbody", "tr", "td", "th",
		"section", "article", "header", "footer", "blockquote", "pre":
		return true
	}
	return false
}

func isSkipped(tag []byte) bool {
	switch string(tag) {
	case "script", "style", "noscript":
		return true
	}
	return false
}

// JobDescription returns desc as plain text, converting it only when it
// contains markup.
func JobDescription(desc string) string {
	if !LooksLikeHTML(desc) {
		return desc
	}
	return PlainText(desc)
}
