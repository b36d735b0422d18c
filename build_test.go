package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Lexer747/folio/config"
	"github.com/Lexer747/folio/content"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		ContentDir:  filepath.Join(dir, "content"),
		OutputDir:   filepath.Join(dir, "public"),
		SiteTitle:   "Test Site",
		Author:      "tester",
		RecentPosts: 3,
		TabWidth:    4,
	}
}

func TestRunBuild_WritesSite(t *testing.T) {
	cfg := testConfig(t)
	_, err := scaffoldPost(cfg.ContentDir, "Hello World", "a greeting", "2024-01-01", time.Now())
	require.NoError(t, err)
	postDir := filepath.Join(cfg.ContentDir, "hello-world")
	require.NoError(t, os.WriteFile(filepath.Join(postDir, content.IndexFile),
		[]byte("---\ntitle: Hello World\ndate: 2024-01-01\nspoiler: hi\n---\n![img](./foo.png)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(postDir, "foo.png"), []byte("png"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(postDir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(postDir, "img", "bar.png"), []byte("bar"), 0o644))

	require.NoError(t, runBuild(cfg))

	for _, file := range []string{"index.html", "404.html", "style.css", "blogs/index.html", "blogs/hello-world/index.html", "blogs/hello-world/foo.png", "blogs/hello-world/img/bar.png"} {
		_, err := os.Stat(filepath.Join(cfg.OutputDir, filepath.FromSlash(file)))
		require.NoError(t, err, file)
	}
	post, err := os.ReadFile(filepath.Join(cfg.OutputDir, "blogs", "hello-world", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(post), `src="/blogs/hello-world/foo.png"`)
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "blogs", "hello-world", content.IndexFile))
	require.True(t, os.IsNotExist(err))
}

func TestRunBuild_MissingContent(t *testing.T) {
	cfg := testConfig(t)

	err := runBuild(cfg)
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to list posts")
	require.ErrorContains(t, err, "index.html")
}
