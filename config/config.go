package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ContentDir    string `mapstructure:"contentDir"`
	OutputDir     string `mapstructure:"outputDir"`
	Addr          string `mapstructure:"addr"`
	BaseURL       string `mapstructure:"baseURL"`
	SiteTitle     string `mapstructure:"siteTitle"`
	Author        string `mapstructure:"author"`
	FixturesDir   string `mapstructure:"fixturesDir"`
	Cache         bool   `mapstructure:"cache"`
	RecentPosts   int    `mapstructure:"recentPosts"`
	TabWidth      int    `mapstructure:"tabWidth"`
	Tailwind      bool   `mapstructure:"tailwind"`
	TailwindInput string `mapstructure:"tailwindInput"`
	LogLevel      string `mapstructure:"logLevel"`
}

// EnvPrefix namespaces environment overrides, e.g. FOLIO_CONTENTDIR.
const EnvPrefix = "FOLIO"

// Load resolves configuration from defaults, an optional .env file, the
// config file (cfgFile, or ./config.yaml when empty) and FOLIO_ variables.
func Load(cfgFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("contentDir", "posts")
	v.SetDefault("outputDir", "public")
	v.SetDefault("addr", ":8080")
	v.SetDefault("baseURL", "")
	v.SetDefault("siteTitle", "My Portfolio")
	v.SetDefault("author", "me")
	v.SetDefault("fixturesDir", "")
	v.SetDefault("cache", false)
	v.SetDefault("recentPosts", 5)
	v.SetDefault("tabWidth", 4)
	v.SetDefault("tailwind", false)
	v.SetDefault("tailwindInput", "")
	v.SetDefault("logLevel", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment")
	} else {
		slog.Debug("using config file", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return cfg, nil
}

func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
