package content

import (
	"cmp"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/Lexer747/folio/types"
)

// IndexFile is the markdown document inside every post directory.
const IndexFile = "index.md"

// Store reads posts from <root>/<slug>/index.md. It holds no state besides
// the optional cache, every call goes back to the file system.
type Store struct {
	root  string
	cache *postCache
}

type Option func(*Store)

// WithCache keeps parsed posts in memory, re-reading a post when its file
// changes on disk.
func WithCache() Option {
	return func(s *Store) {
		s.cache = newPostCache()
	}
}

func NewStore(root string, opts ...Option) *Store {
	s := &Store{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Root() string { return s.root }

// PostDir is the directory holding slug's index.md and its assets.
func (s *Store) PostDir(slug string) string {
	return filepath.Join(s.root, slug)
}

// ListPostSlugs returns the names of the root's immediate subdirectories.
func (s *Store) ListPostSlugs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Op: "list", Path: s.root, Err: err}
	}
	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		slugs = append(slugs, entry.Name())
	}
	return slugs, nil
}

// ListPosts returns every post's metadata, most recent first.
func (s *Store) ListPosts() ([]types.PostMeta, error) {
	slugs, err := s.ListPostSlugs()
	if err != nil {
		return nil, err
	}
	posts := make([]types.PostMeta, 0, len(slugs))
	var errs []error
	for _, slug := range slugs {
		post, err := s.readPost(slug)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		posts = append(posts, post.PostMeta)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	SortPosts(posts)
	return posts, nil
}

// GetPost reads a single post.
func (s *Store) GetPost(slug string) (types.Post, error) {
	if err := s.checkPostDir(slug); err != nil {
		return types.Post{}, err
	}
	post, err := s.readPost(slug)
	if errors.Is(err, fs.ErrNotExist) {
		return types.Post{}, &NotFoundError{Slug: slug}
	}
	return post, err
}

func (s *Store) readPost(slug string) (types.Post, error) {
	file := filepath.Join(s.root, slug, IndexFile)
	info, err := os.Stat(file)
	if err != nil {
		return types.Post{}, &StorageError{Op: "stat", Path: file, Err: err}
	}
	if s.cache != nil {
		if post, ok := s.cache.get(slug, info); ok {
			return post, nil
		}
	}
	src, err := os.ReadFile(file)
	if err != nil {
		return types.Post{}, &StorageError{Op: "read", Path: file, Err: err}
	}
	fm, body := ParseFrontMatter(src)
	post := types.Post{
		PostMeta: types.PostMeta{
			Slug:    slug,
			Title:   fm.Title,
			Spoiler: fm.Spoiler,
			Date:    fm.Date,
		},
		Content: string(body),
	}
	if _, ok := ParseDate(fm.Date); !ok {
		slog.Debug("post has no usable date, listing it last", "slug", slug, "date", fm.Date)
	}
	if s.cache != nil {
		s.cache.put(slug, info, post)
	}
	return post, nil
}

// checkPostDir reports NotFoundError unless slug names a post directory.
func (s *Store) checkPostDir(slug string) error {
	if !validSlug(slug) {
		return &NotFoundError{Slug: slug}
	}
	dir := s.PostDir(slug)
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &NotFoundError{Slug: slug}
	case err != nil:
		return &StorageError{Op: "stat", Path: dir, Err: err}
	case !info.IsDir():
		return &NotFoundError{Slug: slug}
	}
	return nil
}

// Assets lists the files stored alongside slug's index.md, including those
// in subdirectories, as slash separated paths relative to the post.
func (s *Store) Assets(slug string) ([]string, error) {
	if err := s.checkPostDir(slug); err != nil {
		return nil, err
	}
	dir := s.PostDir(slug)
	var assets []string
	err := filepath.WalkDir(dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if file == dir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}
		if rel == IndexFile {
			return nil
		}
		assets = append(assets, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, &StorageError{Op: "list", Path: dir, Err: err}
	}
	return assets, nil
}

// OpenAsset opens a file stored with a post. name is slash separated and
// relative to the post directory. The caller closes the file.
func (s *Store) OpenAsset(slug, name string) (*os.File, fs.FileInfo, error) {
	if !validSlug(slug) || !validAsset(name) {
		return nil, nil, &NotFoundError{Slug: slug + "/" + name}
	}
	file := filepath.Join(s.root, slug, filepath.FromSlash(name))
	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, nil, &NotFoundError{Slug: slug + "/" + name}
		}
		return nil, nil, &StorageError{Op: "open", Path: file, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, &StorageError{Op: "stat", Path: file, Err: err}
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, &NotFoundError{Slug: slug + "/" + name}
	}
	return f, info, nil
}

func (s *Store) Invalidate(slug string) {
	if s.cache != nil {
		s.cache.invalidate(slug)
	}
}

func (s *Store) Purge() {
	if s.cache != nil {
		s.cache.purge()
	}
}

// SortPosts orders posts newest first. Posts without a parseable date go
// last, and equal dates fall back to slug order.
func SortPosts(posts []types.PostMeta) {
	slices.SortStableFunc(posts, func(a, b types.PostMeta) int {
		ta, okA := ParseDate(a.Date)
		tb, okB := ParseDate(b.Date)
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		case okA && okB && !ta.Equal(tb):
			return tb.Compare(ta)
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
}

// validSlug accepts a single, non-hidden path segment.
func validSlug(slug string) bool {
	if slug == "" || strings.HasPrefix(slug, ".") {
		return false
	}
	return !strings.ContainsAny(slug, `/\`) && slug == filepath.Base(slug)
}

// validAsset accepts a relative path below a post directory, other than the
// post's own index.md, with no hidden segments.
func validAsset(name string) bool {
	if name == IndexFile || !fs.ValidPath(name) || strings.Contains(name, `\`) {
		return false
	}
	for _, segment := range strings.Split(name, "/") {
		if strings.HasPrefix(segment, ".") {
			return false
		}
	}
	return true
}
