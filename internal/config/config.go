package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"gitgraphs/internal/chart"
	"gitgraphs/internal/types"
)

const (
	configName = ".gitgraphs"
	configType = "yaml"
	envPrefix  = "GITGRAPHS"

	// DefaultConfigFile is the file GenerateConfigFile writes when no name is given.
	DefaultConfigFile = configName + "." + configType
)

// Defaults.
const (
	DefaultPeriod         = string(types.PeriodAll)
	DefaultSort           = string(types.SortByCommits)
	DefaultChartHeight    = 8
	DefaultChartColor     = "#4A9EFF"
	DefaultSparklineWidth = 30
	DefaultGitTimeout     = 5 * time.Minute
	DefaultLogLevel       = "info"
)

var (
	ErrInvalidPeriod   = errors.New("period must be one of all, year, month, week")
	ErrInvalidSort     = errors.New("sort must be one of commits, additions, deletions")
	ErrInvalidHeight   = errors.New("chart.height must be positive")
	ErrInvalidColor    = errors.New("chart.color must be a #rrggbb hex color")
	ErrInvalidWidth    = errors.New("cards.sparkline_width must be positive")
	ErrInvalidLimit    = errors.New("cards.limit must be non-negative")
	ErrInvalidTimeout  = errors.New("git.timeout must be non-negative")
	ErrInvalidLogLevel = errors.New("log.level is not a logrus level")
)

// Config is the effective configuration. Field tags use mapstructure for viper.
type Config struct {
	Period        string       `mapstructure:"period"`
	Sort          string       `mapstructure:"sort"`
	Chart         ChartConfig  `mapstructure:"chart"`
	Cards         CardsConfig  `mapstructure:"cards"`
	Git           GitConfig    `mapstructure:"git"`
	IgnoreAuthors []string     `mapstructure:"ignore_authors"`
	Log           LogConfig    `mapstructure:"log"`
	Export        ExportConfig `mapstructure:"export"`

	// File is the config file that was read, empty when running on defaults.
	File string `mapstructure:"-"`
}

type ChartConfig struct {
	Height int    `mapstructure:"height"`
	Color  string `mapstructure:"color"`
}

type CardsConfig struct {
	SparklineWidth int `mapstructure:"sparkline_width"`
	// Limit caps the number of cards; 0 shows everyone.
	Limit int `mapstructure:"limit"`
}

type GitConfig struct {
	// Timeout bounds the git invocation; 0 disables it.
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	return &Config{
		Period: DefaultPeriod,
		Sort:   DefaultSort,
		Chart: ChartConfig{
			Height: DefaultChartHeight,
			Color:  DefaultChartColor,
		},
		Cards: CardsConfig{
			SparklineWidth: DefaultSparklineWidth,
		},
		Git:           GitConfig{Timeout: DefaultGitTimeout},
		IgnoreAuthors: []string{},
		Log:           LogConfig{Level: DefaultLogLevel},
	}
}

// LoadConfig reads configuration from file, GITGRAPHS_* env vars and defaults.
// When configPath is empty, .gitgraphs.yaml is searched in repoPath and then $HOME.
// A missing config file is not an error.
func LoadConfig(configPath, repoPath string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		if repoPath == "" {
			repoPath = "."
		}
		v.AddConfigPath(repoPath)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromFile reads one explicit file; unlike LoadConfig it fails when the file is absent.
func LoadConfigFromFile(filename string) (*Config, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("config file not found: %s", filename)
	}
	return LoadConfig(filename, "")
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("period", DefaultPeriod)
	v.SetDefault("sort", DefaultSort)
	v.SetDefault("chart.height", DefaultChartHeight)
	v.SetDefault("chart.color", DefaultChartColor)
	v.SetDefault("cards.sparkline_width", DefaultSparklineWidth)
	v.SetDefault("cards.limit", 0)
	v.SetDefault("git.timeout", DefaultGitTimeout)
	v.SetDefault("ignore_authors", []string{})
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("export.dir", "")
}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if _, ok := types.ParsePeriod(c.Period); !ok {
		return fmt.Errorf("%w: got %q", ErrInvalidPeriod, c.Period)
	}
	if _, ok := types.ParseSortBy(c.Sort); !ok {
		return fmt.Errorf("%w: got %q", ErrInvalidSort, c.Sort)
	}
	if c.Chart.Height < 1 {
		return ErrInvalidHeight
	}
	if !chart.ValidColor(c.Chart.Color) {
		return fmt.Errorf("%w: got %q", ErrInvalidColor, c.Chart.Color)
	}
	if c.Cards.SparklineWidth < 1 {
		return ErrInvalidWidth
	}
	if c.Cards.Limit < 0 {
		return ErrInvalidLimit
	}
	if c.Git.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.Log.Level)
	}
	return nil
}

// PeriodValue and SortValue assume Validate has passed.
func (c *Config) PeriodValue() types.Period {
	p, _ := types.ParsePeriod(c.Period)
	return p
}

func (c *Config) SortValue() types.SortBy {
	s, _ := types.ParseSortBy(c.Sort)
	return s
}

// ShouldIgnoreAuthor matches the ignore list against email or name, exactly or
// as a case-insensitive substring.
func (c *Config) ShouldIgnoreAuthor(email string, name string) bool {
	for _, ignored := range c.IgnoreAuthors {
		ignored = strings.TrimSpace(ignored)
		if ignored == "" {
			continue
		}
		if strings.EqualFold(ignored, email) || strings.EqualFold(ignored, name) {
			return true
		}
		needle := strings.ToLower(ignored)
		if strings.Contains(strings.ToLower(email), needle) || strings.Contains(strings.ToLower(name), needle) {
			return true
		}
	}
	return false
}

// IgnoreCommit adapts ShouldIgnoreAuthor to the git.Options filter signature.
func (c *Config) IgnoreCommit(commit types.CommitRecord) bool {
	return c.ShouldIgnoreAuthor(commit.Email, commit.Author)
}

// GenerateConfigFile writes a commented sample config. An existing file is left alone.
func GenerateConfigFile(filename string) error {
	if filename == "" {
		filename = DefaultConfigFile
	}
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("%s already exists", filename)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	content := `# git-graphs configuration
# Every key can also be set through GITGRAPHS_<KEY>, e.g. GITGRAPHS_CHART_HEIGHT=12

# Time window: all, year, month, week
period: all

# Contributor ordering: commits, additions, deletions
sort: commits

chart:
  # Rows of the commits chart
  height: 8
  # Bar color; odd bars are drawn in a darker shade
  color: "#4A9EFF"

cards:
  sparkline_width: 30
  # Maximum number of contributor cards, 0 = all
  limit: 0

git:
  # Upper bound for reading the history, 0 = no limit
  timeout: 5m

# Authors dropped before aggregation (email or name, substring match)
ignore_authors:
  - dependabot
  - renovate
  - github-actions

log:
  # panic, fatal, error, warn, info, debug, trace
  level: info

export:
  # Write contributors/weekly CSV files here on every run
  dir: ""
`

	return os.WriteFile(filename, []byte(content), 0644)
}

// PrintSummary writes the effective configuration to w.
func (c *Config) PrintSummary(w io.Writer) {
	source := c.File
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(w, "Configuration (%s):\n", source)
	fmt.Fprintf(w, "  • Period: %s\n", c.PeriodValue().Label())
	fmt.Fprintf(w, "  • Sort: %s\n", c.Sort)
	fmt.Fprintf(w, "  • Chart: %d rows, %s\n", c.Chart.Height, c.Chart.Color)
	fmt.Fprintf(w, "  • Sparkline width: %d\n", c.Cards.SparklineWidth)
	if c.Cards.Limit > 0 {
		fmt.Fprintf(w, "  • Card limit: %d\n", c.Cards.Limit)
	}
	if c.Git.Timeout > 0 {
		fmt.Fprintf(w, "  • Git timeout: %s\n", c.Git.Timeout)
	} else {
		fmt.Fprintf(w, "  • Git timeout: none\n")
	}
	fmt.Fprintf(w, "  • Ignored authors: %d patterns\n", len(c.IgnoreAuthors))
	fmt.Fprintf(w, "  • Log level: %s\n", c.Log.Level)
	if c.Export.Dir != "" {
		fmt.Fprintf(w, "  • Export directory: %s\n", c.Export.Dir)
	}
}
