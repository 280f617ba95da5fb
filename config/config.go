// Package config defines the deadlinks run configuration, its defaults,
// YAML file loading, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lukemcguire/deadlinks/logger"
	"github.com/lukemcguire/deadlinks/result"
	"github.com/lukemcguire/deadlinks/walker"
)

// DefaultFile is looked up in the working directory when no config path is given.
const DefaultFile = ".deadlinks.yaml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Mode selects what a run does.
type Mode string

const (
	ModeCheck Mode = "check" // Probe every link and report a verdict
	ModeList  Mode = "list"  // Print the files that would be searched
	ModeDry   Mode = "dry"   // Print the links that would be checked
)

// Config holds every setting of a run. Zero values are replaced by Default's.
type Config struct {
	Paths   []string `yaml:"paths" validate:"required,min=1,dive,required"`
	Globs   []string `yaml:"globs" validate:"required,min=1,dive,required"`
	Exclude []string `yaml:"exclude" validate:"dive,required"`
	Ignore  []string `yaml:"ignore" validate:"dive,required"`
	Hidden  bool     `yaml:"hidden"`

	Mode Mode `yaml:"-" validate:"oneof=check list dry"`

	Concurrency    int           `yaml:"concurrency" validate:"min=1,max=64"`
	RateLimit      float64       `yaml:"rate_limit" validate:"min=0"`
	RequestTimeout time.Duration `yaml:"timeout" validate:"min=0"`
	UserAgent      string        `yaml:"user_agent" validate:"required"`
	RespectRobots  bool          `yaml:"respect_robots"`

	Format   string `yaml:"format" validate:"oneof=text json csv"`
	NoTUI    bool   `yaml:"no_tui"`
	LogLevel string `yaml:"log_level" validate:"loglevel"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Paths:          []string{"."},
		Globs:          []string{"**"},
		Mode:           ModeCheck,
		Concurrency:    1,
		RequestTimeout: 30 * time.Second,
		UserAgent:      "deadlinks/1.0 (+https://github.com/lukemcguire/deadlinks)",
		Format:         "text",
		LogLevel:       "warn",
	}
}

// Load reads a YAML config file on top of Default. Fields absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the config file to load: the explicit path, then
// $DEADLINKS_CONFIG, then DefaultFile if it exists. Returns "" when none applies.
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv("DEADLINKS_CONFIG"); env != "" {
		return env
	}
	if info, err := os.Stat(DefaultFile); err == nil && !info.IsDir() {
		return DefaultFile
	}
	return ""
}

// Validate checks struct constraints and that every glob compiles.
func (c Config) Validate() error {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		return logger.ValidLevel(strings.ToLower(fl.Field().String()))
	})

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if _, err := walker.CompileGlobs(c.Globs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := walker.CompileGlobs(c.Exclude); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// WalkOptions compiles the file selection settings for the walker.
func (c Config) WalkOptions() (walker.Options, error) {
	include, err := walker.CompileGlobs(c.Globs)
	if err != nil {
		return walker.Options{}, err
	}
	exclude, err := walker.CompileGlobs(c.Exclude)
	if err != nil {
		return walker.Options{}, err
	}
	return walker.Options{
		Roots:   c.Paths,
		Include: include,
		Exclude: exclude,
		Hidden:  c.Hidden,
	}, nil
}

// IgnoreLinks returns the ignore list as links.
func (c Config) IgnoreLinks() []result.Link {
	links := make([]result.Link, 0, len(c.Ignore))
	for _, s := range c.Ignore {
		links = append(links, result.NewLink(s))
	}
	return links
}
