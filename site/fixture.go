package site

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
)

type TemplateType string

const (
	None TemplateType = ""

	CurrentYear      TemplateType = "current-year"
	Fragment         TemplateType = "t"
	Me               TemplateType = "me"
	SiteTitle        TemplateType = "site-title"
	PageTitle        TemplateType = "page-title"
	SummaryEnumerate TemplateType = "summary-enumerate"

	MarkdownTitle_TT   TemplateType = "markdown-title"
	MarkdownDate_TT    TemplateType = "markdown-date"
	MarkdownContent_TT TemplateType = "markdown-content"

	CSSLocation TemplateType = "css-location"
	HomeURL     TemplateType = "home-url"
	BlogsURL    TemplateType = "blogs-url"
)

const (
	openDirective  = "{{"
	closeDirective = "}}"
)

// Template is one {{type: data}} directive found in a fixture.
type Template struct {
	TemplateType
	TemplateData string
	Options      map[string]string
	FileOffset
}

type FileOffset struct {
	Start int
	End   int
}

// Fixture is an HTML file with directives to fill in.
type Fixture struct {
	SrcPath   string
	File      []byte
	Templates []Template
}

func LoadFixture(fsys fs.FS, name string) (*Fixture, error) {
	file, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %q: %w", name, err)
	}
	f := &Fixture{SrcPath: name, File: file}
	f.Parse()
	return f, nil
}

func (f *Fixture) Parse() {
	f.Templates = nil
	i := 0
	for {
		start := bytes.Index(f.File[i:], []byte(openDirective))
		if start < 0 {
			return
		}
		start += i
		inner := start + len(openDirective)
		end := bytes.Index(f.File[inner:], []byte(closeDirective))
		if end < 0 {
			return
		}
		end += inner
		f.Templates = append(f.Templates, parseTemplate(string(f.File[inner:end]), FileOffset{
			Start: start,
			End:   end + len(closeDirective),
		}))
		i = end + len(closeDirective)
	}
}

func parseTemplate(inbetween string, offset FileOffset) Template {
	kind, rest, _ := strings.Cut(inbetween, ":")
	t := Template{
		TemplateType: TemplateType(strings.ToLower(strings.TrimSpace(kind))),
		FileOffset:   offset,
	}
	switch t.TemplateType {
	case Fragment:
		t.TemplateData = strings.TrimSpace(rest)
	case SummaryEnumerate:
		t.Options = parseOptions(rest)
	}
	return t
}

// parseOptions reads `key=value key="quoted value"` pairs.
func parseOptions(s string) map[string]string {
	opts := map[string]string{}
	s = strings.TrimSpace(s)
	for s != "" {
		key, rest, ok := strings.Cut(s, "=")
		if !ok {
			break
		}
		rest = strings.TrimLeft(rest, " ")
		var value string
		if strings.HasPrefix(rest, `"`) {
			value, rest, _ = strings.Cut(rest[1:], `"`)
		} else {
			value, rest, _ = strings.Cut(rest, " ")
		}
		opts[strings.TrimSpace(key)] = value
		s = strings.TrimSpace(rest)
	}
	return opts
}
