package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lexer747/folio/config"
	"github.com/Lexer747/folio/content"
	"github.com/Lexer747/folio/fsutil"
	"github.com/Lexer747/folio/site"
)

var watchBuild bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Writes the site out as static HTML",
	Long: `build renders the home page, the blog index and every post into the
output directory, copies each post's images next to it and writes the
stylesheet. With --watch it rebuilds whenever the content changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runBuild(appConfig); err != nil {
			return err
		}
		if !watchBuild {
			return nil
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchAndRebuild(ctx, appConfig)
	},
}

func init() {
	buildCmd.Flags().BoolVarP(&watchBuild, "watch", "w", false, "rebuild when content changes")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cfg config.Config) error {
	start := time.Now()
	s := newSite(cfg)
	out := cfg.OutputDir
	if err := os.MkdirAll(out, 0o755); err != nil {
		return wrapf(err, "failed to make dir %q", out)
	}

	var errs []error
	addErr := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	addErr(writePage(filepath.Join(out, "index.html"), s.RenderHome))
	addErr(writePage(filepath.Join(out, "blogs", "index.html"), s.RenderBlogs))
	addErr(writePage(filepath.Join(out, "404.html"), s.RenderNotFound))

	posts, err := s.Store().ListPosts()
	if err != nil {
		errs = append(errs, wrap(err, "failed to list posts"))
	}
	for _, post := range posts {
		addErr(buildPost(s, out, post.Slug))
	}
	addErr(writeStylesheet(cfg, s))

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	slog.Info("Site built", "output", out, "posts", len(posts), "took", time.Since(start))
	return nil
}

func buildPost(s *site.Site, out, slug string) error {
	dir := filepath.Join(out, "blogs", slug)
	dest := filepath.Join(dir, "index.html")
	slog.Info("Generating blog:", "blog", dest)
	err := writePage(dest, func(w io.Writer) error {
		return s.RenderPost(w, slug)
	})
	if err != nil {
		return wrapf(err, "while creating markdown for blog %q", slug)
	}
	assets, err := s.Store().Assets(slug)
	if err != nil {
		return wrapf(err, "failed to list assets of %q", slug)
	}
	var errs []error
	for _, asset := range assets {
		rel := filepath.FromSlash(asset)
		src := filepath.Join(s.Store().PostDir(slug), rel)
		if err := fsutil.Copy(src, filepath.Join(dir, rel)); err != nil {
			errs = append(errs, wrapf(err, "failed to copy asset %q", src))
		}
	}
	return errors.Join(errs...)
}

// writePage renders fully before touching dest, so a failed render leaves
// the previous build's file in place.
func writePage(dest string, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return wrapf(err, "failed to render %q", dest)
	}
	if err := fsutil.WriteFile(dest, buf.Bytes()); err != nil {
		return wrapf(err, "failed to write %q", dest)
	}
	return nil
}

func watchAndRebuild(ctx context.Context, cfg config.Config) error {
	w, err := content.NewWatcher(cfg.ContentDir, 500*time.Millisecond, func(slugs []string) {
		slog.Info("Rebuilding site due to changes...", "posts", slugs)
		if err := runBuild(cfg); err != nil {
			slog.Error("Error during rebuild", "error", err)
		}
	})
	if err != nil {
		return err
	}
	slog.Info("Watching for changes", "content", cfg.ContentDir)
	return w.Run(ctx)
}
