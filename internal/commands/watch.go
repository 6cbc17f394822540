package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gockelhut/jsvcgen/internal/config"
	"github.com/gockelhut/jsvcgen/internal/watch"
)

// Watch generates once, then regenerates whenever a watched file next to
// the schema changes. Failures are logged and watching continues.
func (c *Controller) Watch(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := c.logger()

	regenerate := func() {
		if err := c.generate(ctx, cfg); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("generation failed")
		}
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	c.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer c.deps.SignalNotifier.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			c.deps.Output.Println("Stopping watcher...")
			cancel()
		case <-ctx.Done():
		}
	}()

	fw, err := c.newSchemaWatcher(cfg, func(paths []string) {
		logger.Info().Strs("paths", paths).Msg("change detected, regenerating")
		regenerate()
	})
	if err != nil {
		return err
	}
	defer fw.Close()

	regenerate()
	c.deps.Output.Printf("Watching %s for changes\n", filepath.Dir(cfg.Schema))

	if err := fw.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher error: %w", err)
	}
	return nil
}

// newSchemaWatcher watches the schema's directory tree
func (c *Controller) newSchemaWatcher(cfg *config.Config, onChange func([]string)) (*watch.FileWatcher, error) {
	debounce := time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond
	fw, err := watch.NewFileWatcher(cfg.Watch.Patterns, cfg.Watch.Exclude, debounce, onChange, c.logger())
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(cfg.Schema)
	if err := fw.AddDirectory(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return fw, nil
}
