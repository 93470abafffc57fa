// Package config defines the run configuration of cloudlap: where the point
// cloud comes from, how the solver is tuned, and what gets written.
//
// A Config is built from Default (or one of the presets), optionally
// overlaid with a YAML file by LoadInto, then overridden by CLI flags, and
// finally checked by Validate.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Point-cloud sources.
const (
	SourceFile   = "file"
	SourceRandom = "random"
)

// Output formats.
const (
	FormatNPZ = "npz"
	FormatMAT = "mat"
)

// Progress bar modes.
const (
	ProgressAuto   = "auto"
	ProgressAlways = "always"
	ProgressNever  = "never"
)

const (
	// DefaultOutputDir is where matrices are written unless configured.
	DefaultOutputDir = "scripts/sample"

	// DefaultRandomPoints is the size of the synthetic cloud.
	DefaultRandomPoints = 1000

	// DefaultNeighbors is the solver neighbourhood size.
	DefaultNeighbors = 30

	// DefaultRelTol and DefaultAbsTol are the Hermitian-check tolerances.
	DefaultRelTol = 1e-5
	DefaultAbsTol = 1e-8
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is one complete run description.
type Config struct {
	// Source is "file" or "random".
	Source string `yaml:"source" validate:"oneof=file random"`

	// Input is the point-cloud path; required when Source is "file".
	Input string `yaml:"input" validate:"required_if=Source file"`

	Random    RandomConfig    `yaml:"random"`
	Solver    SolverConfig    `yaml:"solver"`
	Output    OutputConfig    `yaml:"output"`
	Hermitian HermitianConfig `yaml:"hermitian"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Progress is auto (bar only on a terminal), always or never.
	Progress string `yaml:"progress" validate:"oneof=auto always never"`
}

// RandomConfig parameterizes the synthetic cloud.
type RandomConfig struct {
	Points int `yaml:"points" validate:"gte=1"`

	// Seed 0 draws fresh entropy on every run.
	Seed int64 `yaml:"seed"`
}

// SolverConfig tunes the operator construction.
type SolverConfig struct {
	Neighbors int `yaml:"neighbors" validate:"gte=1"`

	// Workers 0 means one per CPU.
	Workers int `yaml:"workers" validate:"gte=0"`
}

// OutputConfig selects what is persisted and printed.
type OutputConfig struct {
	Dir               string   `yaml:"dir" validate:"required"`
	IncludeMassMatrix bool     `yaml:"include_mass_matrix"`
	Print             bool     `yaml:"print"`
	Formats           []string `yaml:"formats" validate:"required,min=1,unique,dive,oneof=npz mat"`
}

// HermitianConfig holds the closeness tolerances.
type HermitianConfig struct {
	RelTol float64 `yaml:"rtol" validate:"gte=0"`
	AbsTol float64 `yaml:"atol" validate:"gte=0"`
}

// Default returns a file-source configuration writing every matrix in both
// formats to DefaultOutputDir. Input is left empty.
func Default() *Config {
	return &Config{
		Source: SourceFile,
		Random: RandomConfig{Points: DefaultRandomPoints},
		Solver: SolverConfig{Neighbors: DefaultNeighbors},
		Output: OutputConfig{
			Dir:               DefaultOutputDir,
			IncludeMassMatrix: true,
			Print:             true,
			Formats:           []string{FormatNPZ, FormatMAT},
		},
		Hermitian: HermitianConfig{RelTol: DefaultRelTol, AbsTol: DefaultAbsTol},
		LogLevel:  "info",
		Progress:  ProgressAuto,
	}
}

// GeneratePreset is the deterministic generator: load input, write the mass
// matrix, print every matrix.
func GeneratePreset(input string) *Config {
	c := Default()
	c.Input = input

	return c
}

// RandomPreset samples DefaultRandomPoints points and writes only the two
// Laplacians, without printing.
func RandomPreset() *Config {
	c := Default()
	c.Source = SourceRandom
	c.Output.IncludeMassMatrix = false
	c.Output.Print = false

	return c
}

// Load overlays the YAML file at path on Default, expands ~ in paths and
// validates the result. Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := LoadInto(cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadInto overlays the YAML file at path on cfg and expands ~ in paths.
// Keys absent from the file keep cfg's values, so a preset survives a file
// that only tunes the solver. The result is not validated: callers apply
// their own overrides first and validate last.
func LoadInto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Input = expandPath(cfg.Input)
	cfg.Output.Dir = expandPath(cfg.Output.Dir)

	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint and reports all violations at once.
// The returned error wraps ErrInvalid.
func (c *Config) Validate() error {
	return invalid(validate.Struct(c))
}

// ValidateCheck checks only what re-checking saved matrices reads: the
// Hermitian tolerances and the log level. Source, input and output settings
// are ignored.
func (c *Config) ValidateCheck() error {
	return invalid(validate.StructPartial(c, "Hermitian.RelTol", "Hermitian.AbsTol", "LogLevel"))
}

// invalid renders a validator error as one message wrapping ErrInvalid.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// describe renders one validation failure with the YAML-facing field path.
func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "gte", "min":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "unique":
		return field + " must not repeat entries"
	}

	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// WantsFormat reports whether f is among the configured output formats.
func (c *Config) WantsFormat(f string) bool {
	for _, x := range c.Output.Formats {
		if x == f {
			return true
		}
	}

	return false
}

// SlogLevel maps LogLevel to a slog.Level; unknown values map to Info.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return l
}

// expandPath expands a leading ~ or $HOME to the user's home directory.
func expandPath(path string) string {
	var rest string
	switch {
	case path == "~" || path == "$HOME":
	case strings.HasPrefix(path, "~/"):
		rest = path[2:]
	case strings.HasPrefix(path, "$HOME/"):
		rest = path[6:]
	default:
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, rest)
}
