package telegram

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownToTelegramHTML converts customer-supplied markdown to the tag
// subset Telegram accepts: <b>, <i>, <s>, <code>, <pre>, <a href="">.
// Everything else degrades to plain text, always well-formed.
func MarkdownToTelegramHTML(markdown string) string {
	if markdown == "" {
		return ""
	}

	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	r := tgRenderer{src: src}
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		r.block(&buf, child)
	}

	return strings.TrimRight(buf.String(), "\n")
}

type tgRenderer struct {
	src []byte
}

func (r tgRenderer) block(w *bytes.Buffer, node ast.Node) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		r.inline(w, node)
		w.WriteString("\n")
	case *ast.Heading:
		w.WriteString("<b>")
		r.inline(w, n)
		w.WriteString("</b>\n")
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.WriteString("<pre>")
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.WriteString(html.EscapeString(string(seg.Value(r.src))))
		}
		w.WriteString("</pre>\n")
	case *ast.Blockquote:
		var inner bytes.Buffer
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			r.block(&inner, child)
		}
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			w.WriteString("▎" + line + "\n")
		}
	case *ast.List:
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			w.WriteString("• ")
			for child := item.FirstChild(); child != nil; child = child.NextSibling() {
				r.inline(w, child)
			}
			w.WriteString("\n")
		}
	default:
		r.inline(w, node)
		w.WriteString("\n")
	}
}

func (r tgRenderer) inline(w *bytes.Buffer, node ast.Node) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			w.WriteString(html.EscapeString(string(n.Segment.Value(r.src))))
			if n.SoftLineBreak() || n.HardLineBreak() {
				w.WriteString("\n")
			}
		case *ast.Emphasis:
			tag := "i"
			if n.Level >= 2 {
				tag = "b"
			}
			w.WriteString("<" + tag + ">")
			r.inline(w, n)
			w.WriteString("</" + tag + ">")
		case *ast.CodeSpan:
			w.WriteString("<code>")
			w.WriteString(html.EscapeString(string(n.Text(r.src))))
			w.WriteString("</code>")
		case *ast.Link:
			w.WriteString(`<a href="` + html.EscapeString(string(n.Destination)) + `">`)
			r.inline(w, n)
			w.WriteString("</a>")
		case *ast.AutoLink:
			url := string(n.URL(r.src))
			w.WriteString(`<a href="` + html.EscapeString(url) + `">` + html.EscapeString(url) + "</a>")
		default:
			r.inline(w, child)
		}
	}
}
