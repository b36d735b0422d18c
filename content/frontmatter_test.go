package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter_RoundTrip(t *testing.T) {
	src, err := MarshalFrontMatter(FrontMatter{Title: "T", Date: "2024-01-01", Spoiler: "S"}, "Hello")
	require.NoError(t, err)

	fm, body := ParseFrontMatter(src)
	require.Equal(t, FrontMatter{Title: "T", Date: "2024-01-01", Spoiler: "S"}, fm)
	require.Contains(t, string(body), "Hello")
}

func TestParseFrontMatter_QuotedValues(t *testing.T) {
	src := []byte("---\ntitle: \"T\"\ndate: \"2024-01-01\"\nspoiler: \"S\"\n---\nbody\n")

	fm, body := ParseFrontMatter(src)
	require.Equal(t, FrontMatter{Title: "T", Date: "2024-01-01", Spoiler: "S"}, fm)
	require.Equal(t, "body", strings.TrimSpace(string(body)))
}

func TestParseFrontMatter_UnquotedDateStaysVerbatim(t *testing.T) {
	fm, _ := ParseFrontMatter([]byte("---\ntitle: T\ndate: 2024-01-01\n---\nbody\n"))
	require.Equal(t, "2024-01-01", fm.Date)
}

func TestParseFrontMatter_IgnoresUnknownKeys(t *testing.T) {
	src := []byte("---\ntitle: T\ntags:\n  - go\ndraft: true\n---\nbody\n")

	fm, body := ParseFrontMatter(src)
	require.Equal(t, FrontMatter{Title: "T"}, fm)
	require.Equal(t, "body", strings.TrimSpace(string(body)))
}

func TestParseFrontMatter_NoHeader_ReturnsWholeBody(t *testing.T) {
	src := []byte("# Just markdown\n")

	fm, body := ParseFrontMatter(src)
	require.Empty(t, fm)
	require.Equal(t, src, body)
}

func TestParseFrontMatter_MalformedYAML_ScansLeniently(t *testing.T) {
	src := []byte("---\ntitle: \"T\"\nspoiler: [unterminated\ndate: 2024-01-01\n---\nbody\n")

	fm, body := ParseFrontMatter(src)
	require.Equal(t, "T", fm.Title)
	require.Equal(t, "2024-01-01", fm.Date)
	require.Equal(t, "body\n", string(body))
}

func TestLenientFrontMatter_Unclosed_ReturnsWholeBody(t *testing.T) {
	src := []byte("---\ntitle: T\nbody without end\n")

	fm, body := lenientFrontMatter(src)
	require.Empty(t, fm)
	require.Equal(t, src, body)
}

func TestParseFrontMatter_Unclosed_ReturnsWholeBody(t *testing.T) {
	src := []byte("---\ntitle: T\nbody without end\n")

	fm, body := ParseFrontMatter(src)
	require.Empty(t, fm)
	require.Equal(t, src, body)
}
