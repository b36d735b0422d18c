package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writePost(t *testing.T, root, slug, src string) {
	t.Helper()
	dir := filepath.Join(root, slug)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFile), []byte(src), 0o644))
}

func post(title, date, spoiler, body string) string {
	return "---\ntitle: \"" + title + "\"\ndate: \"" + date + "\"\nspoiler: \"" + spoiler + "\"\n---\n" + body
}

func newTestStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	writePost(t, root, "old-post", post("Old", "2021-03-04", "first", "# Old\n"))
	writePost(t, root, "new-post", post("New", "2024-01-01", "latest", "# New\n"))
	writePost(t, root, "mid-post", post("Mid", "2022-07-15", "middle", "# Mid\n"))
	return NewStore(root, opts...), root
}

func TestListPostSlugs_SkipsFilesAndHiddenDirs(t *testing.T) {
	store, root := newTestStore(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("hi"), 0o644))

	slugs, err := store.ListPostSlugs()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"old-post", "new-post", "mid-post"}, slugs)
}

func TestListPostSlugs_MissingRoot_ReturnsStorageError(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))

	_, err := store.ListPostSlugs()
	var se *StorageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "list", se.Op)
}

func TestListPosts_SortedNewestFirst(t *testing.T) {
	store, _ := newTestStore(t)

	posts, err := store.ListPosts()
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, p := range posts {
		require.NotEmpty(t, p.Slug)
	}
	require.Equal(t, []string{"new-post", "mid-post", "old-post"},
		[]string{posts[0].Slug, posts[1].Slug, posts[2].Slug})
	for i := 1; i < len(posts); i++ {
		a, _ := ParseDate(posts[i-1].Date)
		b, _ := ParseDate(posts[i].Date)
		require.False(t, a.Before(b))
	}
}

func TestListPosts_UnparseableDateSortsLast(t *testing.T) {
	store, root := newTestStore(t)
	writePost(t, root, "undated", post("Undated", "sometime", "?", "body\n"))

	posts, err := store.ListPosts()
	require.NoError(t, err)
	require.Len(t, posts, 4)
	require.Equal(t, "undated", posts[3].Slug)
}

func TestListPosts_DirWithoutIndex_ReturnsStorageError(t *testing.T) {
	store, root := newTestStore(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))

	_, err := store.ListPosts()
	var se *StorageError
	require.True(t, errors.As(err, &se))
	require.False(t, IsNotFound(err))
}

func TestGetPost_MatchesListing(t *testing.T) {
	store, _ := newTestStore(t)

	posts, err := store.ListPosts()
	require.NoError(t, err)
	for _, meta := range posts {
		p, err := store.GetPost(meta.Slug)
		require.NoError(t, err)
		require.Equal(t, meta, p.PostMeta)
		require.NotEmpty(t, p.Content)
	}
}

func TestGetPost_StripsFrontMatter(t *testing.T) {
	store, _ := newTestStore(t)

	p, err := store.GetPost("new-post")
	require.NoError(t, err)
	require.Equal(t, "New", p.Title)
	require.Equal(t, "2024-01-01", p.Date)
	require.Equal(t, "latest", p.Spoiler)
	require.NotContains(t, p.Content, "spoiler:")
	require.Contains(t, p.Content, "# New")
}

func TestGetPost_Missing_ReturnsNotFound(t *testing.T) {
	store, root := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# readme\n"), 0o644))

	for _, slug := range []string{"nope", "", "..", "../old-post", ".hidden", "a/b", "README.md"} {
		_, err := store.GetPost(slug)
		var nf *NotFoundError
		require.True(t, errors.As(err, &nf), "slug %q", slug)
		require.True(t, IsNotFound(err))
	}
}

func TestGetPost_CacheRefreshesOnChange(t *testing.T) {
	store, root := newTestStore(t, WithCache())

	p, err := store.GetPost("old-post")
	require.NoError(t, err)
	require.Equal(t, "Old", p.Title)

	file := filepath.Join(root, "old-post", IndexFile)
	require.NoError(t, os.WriteFile(file, []byte(post("Older and wiser", "2021-03-04", "first", "# Old\n")), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(file, later, later))

	p, err = store.GetPost("old-post")
	require.NoError(t, err)
	require.Equal(t, "Older and wiser", p.Title)
}

func TestGetPost_CacheServesUnchangedFile(t *testing.T) {
	store, _ := newTestStore(t, WithCache())

	first, err := store.GetPost("mid-post")
	require.NoError(t, err)
	second, err := store.GetPost("mid-post")
	require.NoError(t, err)
	require.Equal(t, first, second)

	store.Invalidate("mid-post")
	store.Purge()
	third, err := store.GetPost("mid-post")
	require.NoError(t, err)
	require.Equal(t, first, third)
}

func TestAssets_ListsCoLocatedFiles(t *testing.T) {
	store, root := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "new-post", "foo.png"), []byte("png"), 0o644))

	assets, err := store.Assets("new-post")
	require.NoError(t, err)
	require.Equal(t, []string{"foo.png"}, assets)

	_, err = store.Assets("missing")
	require.True(t, IsNotFound(err))
}

func TestAssets_WalksSubdirectories(t *testing.T) {
	store, root := newTestStore(t)
	dir := filepath.Join(root, "new-post")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img", "nested"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "a.png"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "nested", "b.png"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0o644))

	assets, err := store.Assets("new-post")
	require.NoError(t, err)
	require.Equal(t, []string{"img/a.png", "img/nested/b.png"}, assets)
}

func TestAssets_FileSlug_ReturnsNotFound(t *testing.T) {
	store, root := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# readme\n"), 0o644))

	_, err := store.Assets("README.md")
	require.True(t, IsNotFound(err))
}

func TestOpenAsset(t *testing.T) {
	store, root := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "new-post", "foo.png"), []byte("png"), 0o644))

	f, info, err := store.OpenAsset("new-post", "foo.png")
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, int64(3), info.Size())

	require.NoError(t, os.MkdirAll(filepath.Join(root, "new-post", "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "new-post", "img", "a.png"), []byte("a"), 0o644))
	sub, _, err := store.OpenAsset("new-post", "img/a.png")
	require.NoError(t, err)
	require.NoError(t, sub.Close())

	for _, name := range []string{IndexFile, "missing.png", "..", "../old-post", "img", "img/../../old-post/index.md",
		"/etc/passwd", `img\a.png`, ".hidden/a.png", "foo.png/x"} {
		_, _, err := store.OpenAsset("new-post", name)
		require.True(t, IsNotFound(err), "asset %q", name)
	}
}
