package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Lexer747/folio/config"
	"github.com/Lexer747/folio/content"
	"github.com/Lexer747/folio/markdown"
	"github.com/Lexer747/folio/site"
)

var (
	cfgFile   string
	logLevel  string
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio renders a markdown blog into a portfolio site",
	Long: `folio reads posts from <contentDir>/<slug>/index.md, renders their
markdown with highlighting and smart punctuation, and either serves the
site live or writes it out as static HTML.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

func setup() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	slog.Debug("Variables",
		"contentDir", cfg.ContentDir,
		"outputDir", cfg.OutputDir,
		"fixturesDir", cfg.FixturesDir,
		"baseURL", cfg.BaseURL,
		"cache", cfg.Cache,
		"tailwind", cfg.Tailwind,
	)
	appConfig = cfg
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exit(err)
	}
}

func exit(err error) {
	fmt.Fprint(os.Stderr, err.Error()+"\n")
	os.Exit(1)
}

func wrap(err error, msg string) error {
	return fmt.Errorf("%s: %w", msg, err)
}

func wrapf(err error, msg string, args ...any) error {
	explain := fmt.Sprintf(msg, args...)
	return fmt.Errorf("%s: %w", explain, err)
}

func newSite(cfg config.Config, opts ...site.Option) *site.Site {
	var storeOpts []content.Option
	if cfg.Cache {
		storeOpts = append(storeOpts, content.WithCache())
	}
	mc := markdown.DefaultConfig()
	if cfg.TabWidth > 0 {
		mc.TabWidth = cfg.TabWidth
	}
	opts = append(opts, site.WithMarkdownConfig(mc))
	if cfg.FixturesDir != "" {
		opts = append(opts, site.WithFixtures(os.DirFS(cfg.FixturesDir)))
	}
	info := site.Info{
		Title:       cfg.SiteTitle,
		Author:      cfg.Author,
		BaseURL:     cfg.BaseURL,
		RecentPosts: cfg.RecentPosts,
	}
	return site.New(content.NewStore(cfg.ContentDir, storeOpts...), info, opts...)
}
