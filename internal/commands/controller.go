// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gockelhut/jsvcgen/internal/codegen"
	"github.com/gockelhut/jsvcgen/internal/codegen/backends"
	"github.com/gockelhut/jsvcgen/internal/config"
	"github.com/gockelhut/jsvcgen/internal/schema"
)

// Flags holds the command line values. Empty or zero values leave the
// configuration file's setting in place.
type Flags struct {
	LogLevel    string
	ConfigPath  string
	Schema      string
	Output      string
	Language    string
	Namespace   string
	Immutable   bool
	Check       bool
	Parallelism int
}

// ConfigLoader finds the project configuration
type ConfigLoader interface {
	LoadConfig() (*config.Config, string, error)
	LoadConfigFromPath(path string) (*config.Config, error)
}

// SignalNotifier relays OS signals, as signal.Notify does
type SignalNotifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// Output receives user-facing command output
type Output interface {
	io.Writer
	Printf(format string, a ...any)
	Println(a ...any)
}

// Dependencies are the collaborators of the Controller
type Dependencies struct {
	ConfigLoader   ConfigLoader
	Registry       *codegen.Registry
	SignalNotifier SignalNotifier
	Output         Output

	// Logger defaults to the global zerolog logger when nil
	Logger *zerolog.Logger
}

type defaultConfigLoader struct{}

func (defaultConfigLoader) LoadConfig() (*config.Config, string, error) {
	return config.LoadConfig()
}

func (defaultConfigLoader) LoadConfigFromPath(path string) (*config.Config, error) {
	return config.LoadConfigFromPath(path)
}

type defaultSignalNotifier struct{}

func (defaultSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (defaultSignalNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

type defaultOutput struct {
	io.Writer
}

func (o defaultOutput) Printf(format string, a ...any) {
	fmt.Fprintf(o.Writer, format, a...)
}

func (o defaultOutput) Println(a ...any) {
	fmt.Fprintln(o.Writer, a...)
}

// Controller implements the CLI commands
type Controller struct {
	Flags *Flags
	deps  Dependencies
}

// NewController creates a controller with default dependencies
func NewController(flags *Flags) *Controller {
	return &Controller{
		Flags: flags,
		deps: Dependencies{
			ConfigLoader:   defaultConfigLoader{},
			Registry:       backends.DefaultRegistry(),
			SignalNotifier: defaultSignalNotifier{},
			Output:         defaultOutput{Writer: os.Stdout},
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (c *Controller) WithDependencies(deps Dependencies) *Controller {
	c.deps = deps
	return c
}

func (c *Controller) logger() zerolog.Logger {
	if c.deps.Logger != nil {
		return *c.deps.Logger
	}
	return log.Logger
}

// Generate loads the schema and writes every artifact, or verifies them
// when the check flag is set.
func (c *Controller) Generate(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	return c.generate(ctx, cfg)
}

// Languages lists the registered backends
func (c *Controller) Languages(ctx context.Context) error {
	for _, lang := range c.deps.Registry.Languages() {
		c.deps.Output.Println(lang)
	}
	return nil
}

// Dump prints a human-readable listing of the schema
func (c *Controller) Dump(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	svc, err := schema.LoadFromFile(cfg.Schema, schema.NewLogContext(c.logger()))
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}
	return svc.Dump(c.deps.Output)
}

// loadConfig resolves the configuration: an explicit --config path, else
// jsvcgen.json from the working directory upwards, else the defaults. Flags
// are applied on top.
func (c *Controller) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	root := ""

	if c.Flags.ConfigPath != "" {
		loaded, err := c.deps.ConfigLoader.LoadConfigFromPath(c.Flags.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load project config: %w", err)
		}
		cfg, root = loaded, filepath.Dir(c.Flags.ConfigPath)
	} else {
		loaded, dir, err := c.deps.ConfigLoader.LoadConfig()
		switch {
		case errors.Is(err, config.ErrNotFound):
			logger := c.logger()
			logger.Debug().Msg("no project config found, using defaults")
			cfg = config.Default()
		case err != nil:
			return nil, fmt.Errorf("failed to load project config: %w", err)
		default:
			cfg, root = loaded, dir
		}
	}

	if root != "" {
		cfg.Resolve(root)
	}
	c.applyFlags(cfg)
	return cfg, nil
}

// applyFlags overrides configuration values with the ones set on the command
// line. Flag paths are relative to the working directory.
func (c *Controller) applyFlags(cfg *config.Config) {
	f := c.Flags
	if f.Schema != "" {
		cfg.Schema = f.Schema
	}
	if f.Output != "" {
		cfg.Output = f.Output
	}
	if f.Language != "" {
		cfg.Language = f.Language
	}
	if f.Namespace != "" {
		cfg.Namespace = f.Namespace
	}
	if f.Immutable {
		cfg.ImmutableTypes = true
	}
	if f.Parallelism > 0 {
		cfg.Parallelism = f.Parallelism
	}
}

func (c *Controller) generate(ctx context.Context, cfg *config.Config) error {
	logger := c.logger()

	svc, err := schema.LoadFromFile(cfg.Schema, schema.NewLogContext(logger))
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	backend, err := c.deps.Registry.Get(cfg.Language, cfg.BackendConfig())
	if err != nil {
		return err
	}

	var sink codegen.Sink = codegen.NewFileSink()
	if c.Flags.Check {
		sink = codegen.NewCheckSink()
	}

	gen := codegen.NewGenerator(backend, codegen.Config{
		Sink:        sink,
		Parallelism: cfg.Parallelism,
		Logger:      &logger,
	})
	result, err := gen.Generate(ctx, svc, cfg.Output)
	if err != nil {
		if errors.Is(err, codegen.ErrStale) {
			return fmt.Errorf("generated code is out of date, run generate: %w", err)
		}
		return fmt.Errorf("failed to generate %s code: %w", cfg.Language, err)
	}

	if c.Flags.Check {
		c.deps.Output.Printf("%d files up to date in %s\n", len(result.Files), cfg.Output)
	} else {
		c.deps.Output.Printf("Generated %d files for %s in %s\n", len(result.Files), svc.Name(), cfg.Output)
	}
	return nil
}
