package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/edlkit"
	"github.com/tsawler/edlkit/format"
	"github.com/tsawler/edlkit/internal/config"
	"github.com/tsawler/edlkit/internal/logging"
	"github.com/tsawler/edlkit/model"
	"github.com/tsawler/edlkit/schema"
	"github.com/tsawler/edlkit/substitute"
)

// app holds the state shared by all sub-commands
type app struct {
	// Persistent flags
	configPath string
	verbose    bool
	dryRun     bool
	inPlace    bool
	output     string
	encoding   string

	cfg     *config.Config
	enc     format.Encoding
	log     zerolog.Logger
	catalog *schema.Catalog

	mu  sync.Mutex
	out io.Writer
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.enc = cfg.FileEncoding()
	if a.encoding != "" {
		if a.enc, err = format.ParseEncoding(a.encoding); err != nil {
			return err
		}
	}

	level := logging.LogLevel(cfg.Log.Level)
	if a.verbose {
		level = logging.LevelDebug
	}
	if a.log, err = logging.New(logging.Config{Level: level, Out: cmd.ErrOrStderr()}); err != nil {
		return err
	}
	a.out = cmd.OutOrStdout()

	if cfg.Schema != "" {
		if a.catalog, err = schema.Load(cfg.Schema); err != nil {
			return fmt.Errorf("failed to load widget catalog: %w", err)
		}
		a.log.Debug().Str("schema", cfg.Schema).Int("classes", a.catalog.Len()).Msg("widget catalog loaded")
	}
	return nil
}

// editor returns an Editor for path configured from the loaded settings
func (a *app) editor(ctx context.Context, path string) *edlkit.Editor {
	e := edlkit.Open(path).
		Context(ctx).
		Encoding(a.enc).
		Rounding(a.cfg.Rounding()).
		SnapFonts(a.cfg.Resize.SnapFonts).
		SearchPaths(a.cfg.SearchPaths...).
		MaxDepth(a.cfg.Substitute.MaxDepth)
	if len(a.cfg.Resize.NoFontScale) > 0 {
		e = e.NoFontScale(a.cfg.Resize.NoFontScale...)
	}
	if a.catalog != nil {
		e = e.Catalog(a.catalog)
	}
	return e
}

// engine returns a substitution engine configured from the loaded settings
func (a *app) engine(rules substitute.Rules, log zerolog.Logger, opts ...substitute.Option) *substitute.Engine {
	base := []substitute.Option{
		substitute.WithSearchPaths(a.cfg.SearchPaths...),
		substitute.WithMaxDepth(a.cfg.Substitute.MaxDepth),
		substitute.WithEncoding(a.enc),
		substitute.WithCacheSize(a.cfg.Substitute.CacheSize),
		substitute.WithDryRun(a.dryRun),
		substitute.WithLogger(log),
	}
	return substitute.New(rules, append(base, opts...)...)
}

// editFunc produces the new content of one input file
type editFunc func(ctx context.Context, path string, log zerolog.Logger) ([]byte, []model.Warning, error)

// run applies edit to every input and delivers the results according to the
// output flags. limit caps the number of files processed at once.
func (a *app) run(ctx context.Context, name string, inputs []string, limit int, edit editFunc) error {
	inputs = unique(inputs)
	switch {
	case a.output != "" && a.inPlace:
		return errors.New("--output and --in-place are mutually exclusive")
	case a.output != "" && len(inputs) != 1:
		return errors.New("--output needs exactly one input file")
	case len(inputs) > 1 && !a.inPlace && !a.dryRun:
		return errors.New("several input files need --in-place or --dry-run")
	}
	if limit < 1 {
		limit = 1
	}

	log := logging.Component(a.log, name)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, path := range inputs {
		path := path
		g.Go(func() error {
			return a.process(ctx, path, log, edit)
		})
	}
	return g.Wait()
}

func (a *app) process(ctx context.Context, path string, log zerolog.Logger, edit editFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !format.IsDisplay(path) {
		log.Warn().Str("file", path).Msg("not a .edl file")
	}
	data, warnings, err := edit(ctx, path, log)
	logging.Warnings(log, path, warnings)
	if err != nil {
		return err
	}

	switch {
	case a.dryRun:
		original, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		diff, err := unifiedDiff(path, original, data, a.enc)
		if err != nil {
			return err
		}
		if diff == "" {
			a.println(dimStyle.Render("no changes: " + path))
			return nil
		}
		a.print(diff)
	case a.inPlace:
		original, err := os.ReadFile(path)
		if err == nil && bytes.Equal(original, data) {
			log.Debug().Str("file", path).Msg("unchanged")
			return nil
		}
		if err := format.WriteFileAtomic(path, data); err != nil {
			return err
		}
		log.Info().Str("file", path).Msg("rewritten")
		a.println(successStyle.Render("✓ ") + path)
	case a.output != "":
		if err := format.WriteFileAtomic(a.output, data); err != nil {
			return err
		}
		log.Info().Str("file", a.output).Msg("written")
		a.println(successStyle.Render("✓ ") + a.output)
	default:
		a.mu.Lock()
		defer a.mu.Unlock()
		_, err := a.out.Write(data)
		return err
	}
	return nil
}

func (a *app) print(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprint(a.out, s)
}

func (a *app) println(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintln(a.out, s)
}

// unifiedDiff renders the change from before to after
func unifiedDiff(path string, before, after []byte, enc format.Encoding) (string, error) {
	a, err := format.Decode(before, enc)
	if err != nil {
		return "", err
	}
	b, err := format.Decode(after, enc)
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: path,
		ToFile:   path + " (edited)",
		Context:  3,
	})
}

// unique drops repeated inputs, comparing absolute paths
func unique(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		key := p
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// referenceWarnings turns unresolved references into warnings. Any other
// error is returned.
func referenceWarnings(err error) ([]model.Warning, error) {
	if err == nil {
		return nil, nil
	}
	var errs []error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	} else {
		errs = []error{err}
	}
	var warnings []model.Warning
	for _, e := range errs {
		var unknown *substitute.UnknownReferenceError
		if !errors.As(e, &unknown) {
			return warnings, err
		}
		warnings = append(warnings, model.Warning{Message: e.Error()})
	}
	return warnings, nil
}
