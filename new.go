package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lexer747/folio/content"
	"github.com/Lexer747/folio/fsutil"
)

var (
	newSpoiler string
	newDate    string
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Creates a post directory with a front-matter header",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := scaffoldPost(appConfig.ContentDir, strings.Join(args, " "), newSpoiler, newDate, time.Now())
		if err != nil {
			return err
		}
		slog.Info("Created post", "file", file)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVarP(&newSpoiler, "spoiler", "s", "", "teaser shown in post listings")
	newCmd.Flags().StringVarP(&newDate, "date", "d", "", "publish date (default today, YYYY-MM-DD)")
	rootCmd.AddCommand(newCmd)
}

func scaffoldPost(root, title, spoiler, date string, now time.Time) (string, error) {
	slug := content.Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q has nothing to build a slug from", title)
	}
	if date == "" {
		date = now.Format("2006-01-02")
	} else if _, ok := content.ParseDate(date); !ok {
		return "", fmt.Errorf("unrecognised date %q", date)
	}
	dir := filepath.Join(root, slug)
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("post %q already exists at %q", slug, dir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", wrapf(err, "failed to check %q", dir)
	}
	src, err := content.MarshalFrontMatter(content.FrontMatter{
		Title:   title,
		Date:    date,
		Spoiler: spoiler,
	}, "Write something here.\n")
	if err != nil {
		return "", err
	}
	file := filepath.Join(dir, content.IndexFile)
	if err := fsutil.WriteFile(file, src); err != nil {
		return "", wrapf(err, "failed to write %q", file)
	}
	return file, nil
}
