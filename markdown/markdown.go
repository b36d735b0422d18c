package markdown

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma"
	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/Lexer747/folio/types"
)

const (
	linkClass     = "folio-link"
	calloutPrefix = "folio:"
)

type MarkdownConfig struct {
	TabWidth   int
	Flags      mdhtml.Flags
	Extensions parser.Extensions
	// ImageBase prefixes rewritten relative image URLs, the slug follows it.
	ImageBase string
}

// DefaultConfig enables smartypants quotes, dashes and fractions through
// mdhtml.CommonFlags.
func DefaultConfig() MarkdownConfig {
	return MarkdownConfig{
		TabWidth:   4,
		Flags:      mdhtml.CommonFlags | mdhtml.FootnoteReturnLinks | mdhtml.FootnoteNoHRTag,
		Extensions: parser.CommonExtensions | parser.Footnotes | parser.SuperSubscript,
		ImageBase:  "/blogs",
	}
}

// AsHtml renders a post body. Relative images are rewritten against the
// post's slug before rendering.
func AsHtml(post types.Post, mc MarkdownConfig) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rendering %q: %v", post.Slug, r)
		}
	}()
	doc := parser.NewWithExtensions(mc.Extensions).Parse([]byte(post.Content))
	if n := RewriteImages(doc, post.Slug, mc.ImageBase); n > 0 {
		slog.Debug("rewrote relative images", "slug", post.Slug, "count", n)
	}
	return markdown.Render(doc, renderer(mc)), nil
}

func CSS(mc MarkdownConfig) types.CSS {
	formatter := mc.formatter()
	buf := bytes.Buffer{}
	err := formatter.WriteCSS(&buf, folioStyle)
	if err != nil {
		panic("should not fail")
	}
	return types.CSS{Data: buf.Bytes()}
}

func (mc MarkdownConfig) formatter() *chromahtml.Formatter {
	return chromahtml.New(chromahtml.WithClasses(true), chromahtml.TabWidth(mc.TabWidth))
}

func renderer(mc MarkdownConfig) *mdhtml.Renderer {
	opts := mdhtml.RendererOptions{
		Flags:          mc.Flags,
		RenderNodeHook: renderHook(mc),
	}
	return mdhtml.NewRenderer(opts)
}

func renderHook(mc MarkdownConfig) mdhtml.RenderNodeFunc {
	formatter := mc.formatter()
	opts := mdhtml.RendererOptions{
		Flags: mc.Flags,
	}
	defaultRenderer := mdhtml.NewRenderer(opts)
	headerId := 0
	return func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
		switch typedNode := node.(type) {
		case *ast.CodeBlock:
			if err := highlight(w, formatter, typedNode); err != nil {
				slog.Warn("syntax highlighting failed, rendering plain", "lang", string(typedNode.Info), "error", err)
				return ast.GoToNext, false
			}
			return ast.GoToNext, true
		case *ast.BlockQuote:
			if entering {
				formatBlockQuote(typedNode)
			}
			return defaultRenderer.RenderNode(w, typedNode, entering), true
		case *ast.Link:
			if entering {
				addLinkClass(typedNode)
			}
			return defaultRenderer.RenderNode(w, typedNode, entering), true
		case *ast.Heading:
			if entering {
				headerId = addAnchorLink(typedNode, headerId)
			}
			return defaultRenderer.RenderNode(w, typedNode, entering), true
		}

		return ast.GoToNext, false
	}
}

func highlight(w io.Writer, formatter *chromahtml.Formatter, block *ast.CodeBlock) error {
	lang, _, _ := strings.Cut(strings.TrimSpace(string(block.Info)), " ")
	source := string(block.Literal)
	l := lexers.Get(lang)
	if l == nil {
		l = lexers.Analyse(source)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)
	it, err := l.Tokenise(nil, source)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, folioStyle, it); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func addAnchorLink(heading *ast.Heading, headerId int) int {
	headerId++
	if len(heading.Children) <= 0 {
		return headerId
	}
	str := strings.Builder{}
	queue := slices.Clone(heading.Children)
	for {
		if len(queue) == 0 {
			break
		}
		child := queue[0]
		if t, ok := child.(*ast.Text); ok {
			str.WriteString(string(t.Leaf.Literal))
		}
		queue = slices.Delete(queue, 0, 1)
		if len(child.GetChildren()) > 0 {
			queue = append(slices.Clone(child.GetChildren()), queue...)
		}
	}
	precleanedTitle := str.String()
	title := strings.Map(func(r rune) rune {
		switch r {
		case ' ':
			return '-'
		case '.', '"', '\'', '<', '>', '&', '#', '?':
			return -1
		}
		return r
	}, precleanedTitle)
	heading.HeadingID = strconv.Itoa(headerId) + "-" + title
	for i, child := range heading.Children {
		if t, ok := child.(*ast.Text); ok {
			heading.Children[i] = &ast.HTMLBlock{
				Leaf: ast.Leaf{Literal: []byte("<div>" + html.EscapeString(string(t.Leaf.Literal)) + "</div>")},
			}
		}
	}
	anchor := makeAnchor(heading.HeadingID, precleanedTitle)
	heading.Children = append([]ast.Node{&ast.HTMLBlock{
		Leaf: ast.Leaf{Literal: []byte(anchor)},
	}}, heading.Children...)
	heading.Attribute = &ast.Attribute{}
	heading.Classes = [][]byte{[]byte(`flex flex-row items-center group`)}
	return headerId
}

//go:embed anchor.svg
var anchorSVG string

func makeAnchor(headingID, title string) string {
	const template = `<a class="anchor" style="margin: 0 0.7em 0 0" aria-label="Permalink: %s" href="#%s">%s</a>`
	return fmt.Sprintf(template, html.EscapeString(title), headingID, strings.TrimSpace(anchorSVG))
}

func addLinkClass(link *ast.Link) {
	if link.Attribute == nil {
		link.Attribute = &ast.Attribute{}
	}
	if link.Attribute.Attrs == nil {
		link.Attribute.Attrs = map[string][]byte{}
	}
	class := link.Attribute.Attrs["class"]
	switch {
	case bytes.Contains(class, []byte(linkClass)):
		return
	case len(class) > 0:
		class = append(class, ' ')
	}
	link.Attribute.Attrs["class"] = append(class, linkClass...)
}

// formatBlockQuote turns a quote whose first line is "folio:<classes>"
// into a callout carrying those classes.
func formatBlockQuote(block *ast.BlockQuote) {
	if len(block.Children) <= 0 {
		return
	}
	p, ok := block.Children[0].(*ast.Paragraph)
	if !ok || len(p.Children) == 0 {
		return
	}
	t, ok := p.Children[0].(*ast.Text)
	if !ok {
		return
	}
	str := string(t.Leaf.Literal)
	if !strings.HasPrefix(str, calloutPrefix) {
		return
	}
	first, rest, _ := strings.Cut(str, "\n")
	colour := strings.TrimSpace(strings.TrimPrefix(first, calloutPrefix))
	t.Leaf.Literal = []byte(rest)
	if block.Attribute == nil {
		block.Attribute = &ast.Attribute{}
	}
	block.Classes = append(block.Classes, []byte(colour))
}
