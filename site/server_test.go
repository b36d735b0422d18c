package site

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestServer_Routes(t *testing.T) {
	s, _ := newTestSite(t)
	srv := NewServer(s)

	for _, target := range []string{"/", "/blogs", "/blogs/", "/blogs/second-post"} {
		rr := get(t, srv, target)
		require.Equal(t, http.StatusOK, rr.Code, target)
		require.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	}

	rr := get(t, srv, "/blogs/second-post")
	require.Contains(t, rr.Body.String(), `class="chroma"`)
}

func TestServer_NotFound(t *testing.T) {
	s, root := newTestSite(t)
	srv := NewServer(s)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), []byte("# readme\n"), 0o644))

	for _, target := range []string{"/blogs/missing", "/nowhere", "/blogs/first-post/missing.png", "/blogs/first-post/index.md", "/blogs/README"} {
		rr := get(t, srv, target)
		require.Equal(t, http.StatusNotFound, rr.Code, target)
		require.Contains(t, rr.Body.String(), "Not found")
	}
}

func TestServer_ServesPostAssets(t *testing.T) {
	s, _ := newTestSite(t)
	srv := NewServer(s)

	rr := get(t, srv, "/blogs/first-post/pic.png")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "png", rr.Body.String())
}

func TestServer_ServesRewrittenSubdirectoryImage(t *testing.T) {
	s, root := newTestSite(t)
	srv := NewServer(s)
	writePost(t, root, "gallery", "Gallery", "2024-03-01", "pictures", "![a](./img/a.png)\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "gallery", "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "gallery", "img", "a.png"), []byte("sub"), 0o644))

	rr := get(t, srv, "/blogs/gallery")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `src="/blogs/gallery/img/a.png"`)

	rr = get(t, srv, "/blogs/gallery/img/a.png")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "sub", rr.Body.String())
}

func TestServer_Stylesheet(t *testing.T) {
	s, _ := newTestSite(t)
	srv := NewServer(s)

	rr := get(t, srv, StylePath)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/css"))
}

func TestServer_StorageFailureIs500(t *testing.T) {
	s, root := newTestSite(t)
	srv := NewServer(s)
	require.NoError(t, os.RemoveAll(root))

	rr := get(t, srv, "/blogs")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestServer_Metrics(t *testing.T) {
	m := NewMetrics(nil)
	s, _ := newTestSite(t, WithMetrics(m))
	srv := NewServer(s)

	get(t, srv, "/blogs")
	get(t, srv, "/blogs/missing")

	rr := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `folio_http_requests_total{code="200",route="/blogs"} 1`)
	require.Contains(t, string(body), `folio_http_requests_total{code="404",route="/blogs/{slug}"} 1`)
	require.Contains(t, string(body), `folio_page_renders_total{page="blogs",result="success"} 1`)
}
