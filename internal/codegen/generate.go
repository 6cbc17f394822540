package codegen

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gockelhut/jsvcgen/internal/codegen/writer"
	"github.com/gockelhut/jsvcgen/internal/schema"
)

// ErrOutput is matched by every OutputError.
var ErrOutput = errors.New("failed to write generated output")

// OutputError reports a failure to create or write an artifact
type OutputError struct {
	Path   string
	Entity string
	Err    error
}

// Error implements the error interface
func (e *OutputError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Entity, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *OutputError) Unwrap() error {
	return e.Err
}

// Is reports ErrOutput as the error category
func (e *OutputError) Is(target error) bool {
	return target == ErrOutput
}

// Config contains the generator's runtime settings
type Config struct {
	// Sink receives the artifacts (default: NewFileSink())
	Sink Sink

	// Parallelism bounds how many type artifacts are written at once.
	// Values below 2 write sequentially. The backend must be safe for
	// concurrent use when this is above 1.
	Parallelism int

	// Logger receives per-artifact debug logs (default: disabled)
	Logger *zerolog.Logger
}

// Generator walks a service description and writes one artifact per type,
// then one for the service itself.
type Generator struct {
	backend     Backend
	sink        Sink
	parallelism int
	logger      zerolog.Logger
}

// Result lists the artifacts written by Generate
type Result struct {
	// Files holds one path per type in schema order, then the service path
	Files []string
}

// NewGenerator creates a generator driving the given backend
func NewGenerator(backend Backend, cfg Config) *Generator {
	g := &Generator{
		backend:     backend,
		sink:        cfg.Sink,
		parallelism: cfg.Parallelism,
		logger:      zerolog.Nop(),
	}
	if g.sink == nil {
		g.sink = NewFileSink()
	}
	if cfg.Logger != nil {
		g.logger = cfg.Logger.With().Str("language", backend.Language()).Logger()
	}
	return g
}

// Generate writes every artifact of svc under root. The first failure stops
// generation and is returned; artifacts already completed stay in place.
func (g *Generator) Generate(ctx context.Context, svc *schema.ServiceDescription, root string) (*Result, error) {
	types := svc.Types()
	files := make([]string, len(types), len(types)+1)

	if g.parallelism > 1 {
		grp, gctx := errgroup.WithContext(ctx)
		grp.SetLimit(g.parallelism)
		for _, group := range groupByPath(g.backend, root, types, svc) {
			grp.Go(func() error {
				for _, i := range group {
					path, err := g.writeEntity(gctx, root, types[i], svc)
					if err != nil {
						return err
					}
					files[i] = path
				}
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, typ := range types {
			path, err := g.writeEntity(ctx, root, typ, svc)
			if err != nil {
				return nil, err
			}
			files[i] = path
		}
	}

	path, err := g.writeEntity(ctx, root, svc, svc)
	if err != nil {
		return nil, err
	}
	files = append(files, path)

	g.logger.Info().
		Str("service", svc.Name()).
		Int("file_count", len(files)).
		Msg("generated service artifacts")

	return &Result{Files: files}, nil
}

// groupByPath returns the type indices grouped by artifact path, in schema
// order. Types sharing a path are written by one worker in schema order so
// the last one wins, as in sequential generation.
func groupByPath(backend Backend, root string, types []*schema.Type, svc *schema.ServiceDescription) [][]int {
	var groups [][]int
	byPath := make(map[string]int)
	for i, typ := range types {
		path := backend.FileName(root, typ, svc)
		if g, ok := byPath[path]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		byPath[path] = len(groups)
		groups = append(groups, []int{i})
	}
	return groups
}

// writeEntity writes header, includes and body of one artifact. The sink's
// writer is closed on every path, including a failing hook.
func (g *Generator) writeEntity(ctx context.Context, root string, entity schema.Entity, svc *schema.ServiceDescription) (path string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := EntityName(entity)
	path = g.backend.FileName(root, entity, svc)

	out, err := g.sink.Create(path)
	if err != nil {
		return "", &OutputError{Path: path, Entity: name, Err: err}
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = &OutputError{Path: path, Entity: name, Err: closeErr}
		}
	}()

	w := writer.NewWriter(out, g.backend.Options().Newline)
	header := writer.Concat(g.backend.FileHeader(entity, svc), g.backend.Includes(entity, svc))
	if err := w.WriteLines(header); err != nil {
		return "", &OutputError{Path: path, Entity: name, Err: err}
	}

	body, err := g.render(entity, svc)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	if err := w.WriteLines(body); err != nil {
		return "", &OutputError{Path: path, Entity: name, Err: err}
	}

	g.logger.Debug().
		Str("path", path).
		Str("entity", name).
		Int("lines", w.Lines()).
		Msg("wrote artifact")

	return path, nil
}

func (g *Generator) render(entity schema.Entity, svc *schema.ServiceDescription) (iter.Seq[string], error) {
	switch e := entity.(type) {
	case *schema.ServiceDescription:
		return g.backend.Service(e)
	case *schema.Type:
		return g.backend.Type(e, svc)
	default:
		return nil, fmt.Errorf("unsupported entity %T", entity)
	}
}
