// Package site composes rendered posts and their metadata into the pages
// of the portfolio: home, blog index and post detail.
package site

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Lexer747/folio/content"
	"github.com/Lexer747/folio/markdown"
	"github.com/Lexer747/folio/types"
)

const (
	BlogsPath = "/blogs"
	StylePath = "/style.css"

	homeFixture     = "index.template"
	blogsFixture    = "blogs.template"
	postFixture     = "post.template"
	notFoundFixture = "404.template"
	styleFixture    = "style.css"

	maxFragmentDepth = 8
	dateFormat       = "January 2, 2006"
)

//go:embed fixtures
var embedded embed.FS

// DefaultFixtures are the page fixtures compiled into the binary.
func DefaultFixtures() fs.FS {
	sub, err := fs.Sub(embedded, "fixtures")
	if err != nil {
		panic("embedded fixtures missing: " + err.Error())
	}
	return sub
}

type Info struct {
	Title       string
	Author      string
	BaseURL     string
	RecentPosts int
}

type Site struct {
	store    *content.Store
	fixtures fs.FS
	info     Info
	mc       markdown.MarkdownConfig
	metrics  *Metrics
	now      func() time.Time
}

type Option func(*Site)

// WithFixtures replaces the embedded fixtures, e.g. with os.DirFS.
func WithFixtures(fsys fs.FS) Option {
	return func(s *Site) {
		if fsys != nil {
			s.fixtures = fsys
		}
	}
}

func WithMarkdownConfig(mc markdown.MarkdownConfig) Option {
	return func(s *Site) {
		s.mc = mc
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Site) {
		s.metrics = m
	}
}

func New(store *content.Store, info Info, opts ...Option) *Site {
	info.BaseURL = strings.TrimSuffix(info.BaseURL, "/")
	s := &Site{
		store:    store,
		fixtures: DefaultFixtures(),
		info:     info,
		mc:       markdown.DefaultConfig(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mc.ImageBase = s.URL(BlogsPath)
	return s
}

func (s *Site) Store() *content.Store { return s.store }

// URL prefixes an absolute site path with the configured base URL.
func (s *Site) URL(p string) string {
	return s.info.BaseURL + p
}

func PostPath(slug string) string {
	return path.Join(BlogsPath, slug)
}

// page is what a fixture's directives can draw on.
type page struct {
	title   string
	posts   []types.PostMeta
	post    *types.Post
	content []byte
}

func (s *Site) RenderHome(w io.Writer) error {
	posts, err := s.store.ListPosts()
	if err != nil {
		return err
	}
	if n := s.info.RecentPosts; n > 0 && len(posts) > n {
		posts = posts[:n]
	}
	return s.render(w, "home", homeFixture, &page{title: s.info.Title, posts: posts})
}

func (s *Site) RenderBlogs(w io.Writer) error {
	posts, err := s.store.ListPosts()
	if err != nil {
		return err
	}
	return s.render(w, "blogs", blogsFixture, &page{title: "Blogs", posts: posts})
}

func (s *Site) RenderPost(w io.Writer, slug string) error {
	post, err := s.store.GetPost(slug)
	if err != nil {
		return err
	}
	body, err := markdown.AsHtml(post, s.mc)
	if err != nil {
		return err
	}
	return s.render(w, "post", postFixture, &page{title: DisplayTitle(post.PostMeta), post: &post, content: body})
}

func (s *Site) RenderNotFound(w io.Writer) error {
	return s.render(w, "not-found", notFoundFixture, &page{title: "Not found"})
}

// Stylesheet is the fixture stylesheet followed by the highlighting classes.
func (s *Site) Stylesheet() ([]byte, error) {
	base, err := fs.ReadFile(s.fixtures, styleFixture)
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet: %w", err)
	}
	css := markdown.CSS(s.mc)
	out := append(base, []byte("\n\n/* Auto generated folio Chroma Styles: */\n")...)
	out = append(out, css.Data...)
	out = append(out, []byte("\n/* End folio Chroma Styles: */\n")...)
	return out, nil
}

// render fills the whole page into a buffer first so a failure never
// reaches w half written.
func (s *Site) render(w io.Writer, name, fixture string, p *page) error {
	start := time.Now()
	f, err := LoadFixture(s.fixtures, fixture)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	err = s.execute(&buf, f, p, 0)
	s.metrics.ObserveRender(name, time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("rendering %s page: %w", name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (s *Site) execute(buf *bytes.Buffer, f *Fixture, p *page, depth int) error {
	var errs []error
	last := 0
	for _, template := range f.Templates {
		buf.Write(f.File[last:template.Start])
		output, err := s.expand(template, f, p, depth)
		if err != nil {
			errs = append(errs, err)
		}
		buf.Write(output)
		last = template.End
	}
	buf.Write(f.File[last:])
	return errors.Join(errs...)
}

func (s *Site) expand(template Template, f *Fixture, p *page, depth int) ([]byte, error) {
	esc := func(v string) []byte { return []byte(html.EscapeString(v)) }
	switch template.TemplateType {
	case Me:
		return []byte(`<a href="` + s.URL("/") + `" class="hover:text-white">` + html.EscapeString(s.info.Author) + `</a>`), nil
	case SiteTitle:
		return esc(s.info.Title), nil
	case PageTitle:
		return esc(p.title), nil
	case CurrentYear:
		return []byte(strconv.Itoa(s.now().Year())), nil
	case HomeURL:
		return []byte(s.URL("/")), nil
	case BlogsURL:
		return []byte(s.URL(BlogsPath)), nil
	case CSSLocation:
		return []byte(s.URL(StylePath)), nil
	case Fragment:
		if depth >= maxFragmentDepth {
			return nil, fmt.Errorf("fragment %q in %q nested too deeply", template.TemplateData, f.SrcPath)
		}
		file := path.Join(path.Dir(f.SrcPath), template.TemplateData)
		parsed, err := LoadFixture(s.fixtures, file)
		if err != nil {
			return nil, fmt.Errorf("failed to get %q subfile: %w", f.SrcPath, err)
		}
		var sub bytes.Buffer
		err = s.execute(&sub, parsed, p, depth+1)
		return sub.Bytes(), err
	case SummaryEnumerate:
		return s.summaries(template, p.posts), nil
	case MarkdownTitle_TT, MarkdownDate_TT, MarkdownContent_TT:
		if p.post == nil {
			return nil, fmt.Errorf("%q used outside a post page in %q", template.TemplateType, f.SrcPath)
		}
		switch template.TemplateType {
		case MarkdownTitle_TT:
			return esc(DisplayTitle(p.post.PostMeta)), nil
		case MarkdownDate_TT:
			return esc(FormatDate(p.post.Date)), nil
		default:
			return p.content, nil
		}
	}
	slog.Warn(fmt.Sprintf("Unknown Template Type %q, leaving in output", template.TemplateType), "fixture", f.SrcPath)
	return f.File[template.Start:template.End], nil
}

func (s *Site) summaries(template Template, posts []types.PostMeta) []byte {
	if limit, err := strconv.Atoi(template.Options["limit"]); err == nil && limit >= 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	b := &strings.Builder{}
	for _, post := range posts {
		s.writeSummary(b, template.Options["class"], post)
	}
	return []byte(b.String())
}

func (s *Site) writeSummary(b *strings.Builder, class string, post types.PostMeta) {
	b.WriteString(`<li class="` + html.EscapeString(strings.TrimSpace(class+" group")) + `">`)
	b.WriteString(`<a href="` + html.EscapeString(s.URL(PostPath(post.Slug))) + `">`)
	b.WriteString(html.EscapeString(DisplayTitle(post)))
	b.WriteString(`</a>`)
	b.WriteString(`<div class="text-gray-500 text-base group-hover:text-cyan-500">Published: ` + html.EscapeString(FormatDate(post.Date)) + `</div>`)
	if post.Spoiler != "" {
		b.WriteString(`<p class="spoiler">` + html.EscapeString(post.Spoiler) + `</p>`)
	}
	b.WriteString(`</li>`)
}

// DisplayTitle falls back to the slug in title case when a post has no
// title in its front-matter.
func DisplayTitle(post types.PostMeta) string {
	if strings.TrimSpace(post.Title) != "" {
		return post.Title
	}
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(post.Slug, "-", " "))
}

// FormatDate renders a front-matter date for humans, leaving it as written
// when it cannot be parsed.
func FormatDate(date string) string {
	t, ok := content.ParseDate(date)
	if !ok {
		return date
	}
	return t.Format(dateFormat)
}
