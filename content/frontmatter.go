package content

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// FrontMatter holds the keys a post header may carry. Anything else in
// the block is ignored.
type FrontMatter struct {
	Title   string `yaml:"title"`
	Date    string `yaml:"date"`
	Spoiler string `yaml:"spoiler"`
}

var yamlFormat = frontmatter.NewFormat(delimiter, delimiter, yaml.Unmarshal)

// ParseFrontMatter splits src into its header and markdown body. It never
// fails: a header that does not decode as YAML is scanned line by line
// instead, and fields that cannot be recovered are left empty.
func ParseFrontMatter(src []byte) (FrontMatter, []byte) {
	var fm FrontMatter
	if !headerClosed(src) {
		return fm, src
	}
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm, yamlFormat)
	if err == nil {
		return fm, body
	}
	slog.Debug("front-matter is not valid yaml, scanning leniently", "error", err)
	return lenientFrontMatter(src)
}

func lenientFrontMatter(src []byte) (FrontMatter, []byte) {
	var fm FrontMatter
	text := string(src)
	first, rest, found := strings.Cut(text, "\n")
	if !found || strings.TrimSpace(first) != delimiter {
		return fm, src
	}
	header := []string{}
	offset := len(first) + 1
	closed := false
	for _, line := range strings.SplitAfter(rest, "\n") {
		offset += len(line)
		trimmed := strings.TrimSpace(line)
		if trimmed == delimiter || trimmed == "..." {
			closed = true
			break
		}
		header = append(header, trimmed)
	}
	if !closed {
		return fm, src
	}
	for _, line := range header {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = unquote(strings.TrimSpace(value))
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			fm.Title = value
		case "date":
			fm.Date = value
		case "spoiler":
			fm.Spoiler = value
		}
	}
	if offset > len(text) {
		offset = len(text)
	}
	return fm, src[offset:]
}

// headerClosed reports false only for a document that opens a header and
// never ends it.
func headerClosed(src []byte) bool {
	first, rest, found := strings.Cut(string(src), "\n")
	if strings.TrimSpace(first) != delimiter {
		return true
	}
	if !found {
		return false
	}
	for _, line := range strings.Split(rest, "\n") {
		if t := strings.TrimSpace(line); t == delimiter || t == "..." {
			return true
		}
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// MarshalFrontMatter writes fm as a YAML header followed by body.
func MarshalFrontMatter(fm FrontMatter, body string) ([]byte, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front-matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	buf.Write(header)
	buf.WriteString(delimiter + "\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}
