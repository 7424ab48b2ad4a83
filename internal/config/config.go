// Package config loads settings from defaults, an optional YAML file and
// SCHOLARCHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"scholarcheck/internal/pipeline"
	"scholarcheck/internal/validate"
	"scholarcheck/internal/workspace"
)

const (
	EnvPrefix = "SCHOLARCHECK"
	fileName  = "scholarcheck"
)

type Config struct {
	Workspace  string     `mapstructure:"workspace"`
	CorpusDir  string     `mapstructure:"corpus_dir"`
	DBPath     string     `mapstructure:"db_path"`
	Log        Log        `mapstructure:"log"`
	Classifier Classifier `mapstructure:"classifier"`
	Scoring    Scoring    `mapstructure:"scoring"`
	Analysis   Analysis   `mapstructure:"analysis"`
	Server     Server     `mapstructure:"server"`
}

type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type Classifier struct {
	// URL of the classifier service; empty means heuristic-only detection.
	URL     string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type Scoring struct {
	CitationWeighting bool `mapstructure:"citation_weighting"`
}

type Analysis struct {
	GenAIFeatures bool `mapstructure:"genai_features"`
	Eligibility   bool `mapstructure:"eligibility"`
	Explanation   bool `mapstructure:"explanation"`
	Workers       int  `mapstructure:"workers" validate:"gte=0,lte=64"`
}

type Server struct {
	Addr           string   `mapstructure:"addr" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb" validate:"gt=0,lte=512"`
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workspace", "")
	v.SetDefault("corpus_dir", "")
	v.SetDefault("db_path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("classifier.url", "")
	v.SetDefault("classifier.timeout", "8s")

	v.SetDefault("scoring.citation_weighting", false)

	v.SetDefault("analysis.genai_features", true)
	v.SetDefault("analysis.eligibility", true)
	v.SetDefault("analysis.explanation", true)
	v.SetDefault("analysis.workers", 0)

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_upload_mb", 25)
}

// Load reads cfgFile (or searches ./scholarcheck.yaml and
// ~/.config/scholarcheck/config.yaml), decodes and validates the result.
// A missing file is only an error when cfgFile is set.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", fileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) resolvePaths() error {
	if c.Workspace == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home: %w", err)
		}
		c.Workspace = filepath.Join(home, workspace.BaseDirName)
	}
	if c.CorpusDir == "" {
		c.CorpusDir = workspace.CorpusDir(c.Workspace)
	}
	if c.DBPath == "" {
		c.DBPath = workspace.DBPath(c.Workspace)
	}
	return nil
}

func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		GenAIFeatures:     c.Analysis.GenAIFeatures,
		Eligibility:       c.Analysis.Eligibility,
		Explanation:       c.Analysis.Explanation,
		CitationWeighting: c.Scoring.CitationWeighting,
		Workers:           c.Analysis.Workers,
	}
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
