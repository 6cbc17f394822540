package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/gockelhut/jsvcgen/internal/config"
)

// InitOptions are the answers collected by the init form
type InitOptions struct {
	Schema         string
	Output         string
	Language       string
	Namespace      string
	ImmutableTypes bool
}

// FileSystem is the file access used by init
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	Getwd() (string, error)
}

type osFileSystem struct{}

func (osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (osFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// InitCommand writes a jsvcgen.json for the working directory
type InitCommand struct {
	filesystem FileSystem
	languages  []string
	output     Output
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

// NewInitCommand creates an init command offering the given languages
func NewInitCommand(languages []string, output Output) *InitCommand {
	return &InitCommand{
		filesystem: osFileSystem{},
		languages:  languages,
		output:     output,
	}
}

// Init prompts for the project settings and writes jsvcgen.json
func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand(c.deps.Registry.Languages(), c.deps.Output)
	return cmd.Run(ctx)
}

// Run executes the init command
func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

// RunWithOptions executes the init command, passing opts to the prompt
func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	dir, err := ic.filesystem.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := ic.filesystem.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	options := ic.testOptions
	if options == nil {
		options, err = ic.promptInitOptions(ctx, opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	data, err := json.MarshalIndent(newProjectConfig(options), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := ic.filesystem.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	ic.output.Printf("Created %s\n", path)
	return nil
}

// newProjectConfig fills the defaults around the collected answers
func newProjectConfig(options *InitOptions) *config.Config {
	cfg := config.Default()
	if options.Schema != "" {
		cfg.Schema = options.Schema
	}
	if options.Output != "" {
		cfg.Output = options.Output
	}
	if options.Language != "" {
		cfg.Language = options.Language
	}
	cfg.Namespace = options.Namespace
	cfg.ImmutableTypes = options.ImmutableTypes
	return cfg
}

func (ic *InitCommand) promptInitOptions(ctx context.Context, opts ...tea.ProgramOption) (*InitOptions, error) {
	defaults := config.Default()
	options := &InitOptions{
		Schema:   defaults.Schema,
		Output:   defaults.Output,
		Language: defaults.Language,
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, append(opts, tea.WithContext(ctx))...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Schema").
				Description("Path of the JSON service description").
				Value(&options.Schema).
				Validate(ic.validateSchema),

			huh.NewInput().
				Title("Output").
				Description("Directory the generated code is written to").
				Value(&options.Output).
				Validate(notEmpty("output directory")),

			huh.NewSelect[string]().
				Title("Language").
				Description("Target language of the generated code").
				Options(huh.NewOptions(ic.languages...)...).
				Value(&options.Language),

			huh.NewInput().
				Title("Namespace").
				Description("Package of the generated code, e.g. com.example.api").
				Value(&options.Namespace).
				Validate(validateNamespace),

			huh.NewConfirm().
				Title("Immutable types").
				Description("Generate records without mutators").
				Value(&options.ImmutableTypes),
		),
	)
}

func (ic *InitCommand) validateSchema(s string) error {
	if s == "" {
		return errors.New("schema path cannot be empty")
	}
	if _, err := ic.filesystem.Stat(s); err != nil {
		return fmt.Errorf("schema %s not found", s)
	}
	return nil
}

func notEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

func validateNamespace(s string) error {
	if s == "" {
		return errors.New("namespace cannot be empty")
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return fmt.Errorf("invalid namespace %q", s)
		}
	}
	return nil
}
