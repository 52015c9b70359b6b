package loader

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"academy-qabot/internal/model"
)

// HTMLLoader renders a crawled page to markdown-like text, keeping
// headings, list items and links, and records attachment links.
type HTMLLoader struct {
	Splitter       *RecursiveSplitter
	AttachmentExts []string
}

func (l *HTMLLoader) Load(_ context.Context, doc Document) ([]model.Chunk, error) {
	text, attachments, err := RenderHTML(doc.Content, doc.Source, l.AttachmentExts)
	if err != nil {
		return nil, err
	}
	text = CleanText(text)
	if text == "" {
		return nil, nil
	}
	meta := model.Metadata{
		model.MetaSource:       doc.Source,
		model.MetaDocumentType: model.DocumentTypeHTML,
	}
	meta.SetAttachedFiles(append(attachments, doc.AttachedFiles...))
	return chunksFromText(l.Splitter, text, meta), nil
}

// RenderHTML converts page to text and returns the attachment names it
// links to. Relative links are resolved against source when it is a URL.
func RenderHTML(page []byte, source string, exts []string) (string, []string, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", nil, fmt.Errorf("parse html failed: %w", err)
	}
	base, _ := url.Parse(source)

	r := &htmlRenderer{base: base, exts: exts}
	r.walk(root)
	return r.b.String(), r.attachments, nil
}

type htmlRenderer struct {
	b           strings.Builder
	base        *url.URL
	exts        []string
	attachments []string
}

func (r *htmlRenderer) walk(n *html.Node) {
	if n.Type == html.TextNode {
		r.text(n.Data)
		return
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "svg", "head", "img":
			return
		case "a":
			r.link(n)
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			r.block()
			r.b.WriteString(strings.Repeat("#", int(n.Data[1]-'0')) + " ")
			r.children(n)
			r.block()
			return
		case "li":
			r.newline()
			r.b.WriteString("- ")
			r.children(n)
			return
		case "br":
			r.newline()
			return
		case "p", "div", "section", "article", "table", "tr", "ul", "ol", "blockquote":
			r.block()
			r.children(n)
			r.block()
			return
		case "td", "th":
			r.children(n)
			r.b.WriteString(" | ")
			return
		}
	}
	r.children(n)
}

func (r *htmlRenderer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *htmlRenderer) text(s string) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return
	}
	out := r.b.String()
	if len(out) > 0 && !strings.HasSuffix(out, " ") && !strings.HasSuffix(out, "\n") {
		r.b.WriteString(" ")
	}
	r.b.WriteString(s)
}

func (r *htmlRenderer) link(n *html.Node) {
	label := strings.Join(strings.Fields(nodeText(n)), " ")
	href := strings.TrimSpace(attr(n, "href"))
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		r.text(label)
		return
	}
	if r.base != nil && r.base.IsAbs() {
		if u, err := url.Parse(href); err == nil {
			href = r.base.ResolveReference(u).String()
		}
	}

	switch {
	case IsAttachment(label, r.exts):
		r.attachments = append(r.attachments, label)
	case IsAttachment(href, r.exts):
		r.attachments = append(r.attachments, AttachmentName(href))
	}
	if label == "" {
		label = href
	}
	r.text(fmt.Sprintf("[%s](%s)", label, href))
}

func (r *htmlRenderer) newline() {
	if out := r.b.String(); len(out) > 0 && !strings.HasSuffix(out, "\n") {
		r.b.WriteString("\n")
	}
}

func (r *htmlRenderer) block() {
	out := r.b.String()
	switch {
	case len(out) == 0, strings.HasSuffix(out, "\n\n"):
	case strings.HasSuffix(out, "\n"):
		r.b.WriteString("\n")
	default:
		r.b.WriteString("\n\n")
	}
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
