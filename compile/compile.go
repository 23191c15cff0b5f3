// Package compile is the driver around the template compiler core: it
// discovers template files, mirrors their directory structure into a tree
// of generated Go packages, and reports per-file warnings for templates
// that do not parse. Compilation is two-pass: all units are enumerated into
// a name-resolution table before any file is generated, so calls may
// reference templates defined later or in sibling directories.
package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/templc/templc/internal/gen"
	"github.com/templc/templc/internal/parse"
	tt "github.com/templc/templc/internal/types"
	"github.com/templc/templc/scanner"
)

// ErrOutput marks a failure of the output destination itself, the one
// condition fatal to a whole compilation run. Parse failures are per-file
// warnings and never abort sibling files.
var ErrOutput = errors.New("output destination failure")

// Engine compiles template trees. It holds no per-file state; files are
// compiled independently and may run in parallel.
type Engine struct {
	cfg     Config
	grammar parse.Grammar
	logger  *zap.Logger
}

// New returns an Engine for the given configuration.
func New(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, grammar: parse.DefaultGrammar(), logger: logger}
}

type unitFile struct {
	unit gen.Unit
	path string
}

// enumerate is the first pass: discover template files and register every
// unit's qualified name in the resolution table. A file whose generated
// identifier collides with an earlier unit yields a warning and is skipped;
// scan order is deterministic, so the kept unit is stable across runs.
func (e *Engine) enumerate(indir string) ([]unitFile, *gen.Table, []tt.Warning, error) {
	fis, err := scanner.New(indir, e.cfg.Suffix).Scan()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scan %s: %w", indir, err)
	}

	table := gen.NewTable(e.cfg.Module, e.cfg.Package)
	units := make([]unitFile, 0, len(fis))
	var warnings []tt.Warning
	for _, fi := range fis {
		rel, err := filepath.Rel(indir, fi.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		dir, base := filepath.Split(rel)
		u := gen.Unit{Name: strings.TrimSuffix(base, e.cfg.Suffix)}
		if dir = filepath.ToSlash(filepath.Clean(dir)); dir != "." && dir != "" {
			u.Dir = strings.Split(dir, "/")
		}
		if err := table.Add(u); err != nil {
			warnings = append(warnings, tt.NewWarning(fi.Path, nil, 0,
				"could not compile template: "+err.Error(), tt.SeverityWarning))
			continue
		}
		units = append(units, unitFile{unit: u, path: fi.Path})
	}
	return units, table, warnings, nil
}

// CompileTree compiles every template under indir into a mirrored Go
// package tree under outdir. It returns the warnings for files that could
// not be compiled; the returned error is non-nil only when the output
// destination is unusable.
func (e *Engine) CompileTree(ctx context.Context, indir, outdir string) ([]tt.Warning, error) {
	units, table, warnings, err := e.enumerate(indir)
	if err != nil {
		return nil, err
	}
	for _, uf := range units {
		dir := filepath.Join(append([]string{outdir}, uf.unit.Dir...)...)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOutput, err)
		}
	}

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)

	type result struct {
		warning *tt.Warning
		err     error
	}
	results := make(chan result, len(units))

	var bar *progressbar.ProgressBar
	if e.cfg.Progress && len(units) > 1 {
		bar = progressbar.NewOptions(len(units),
			progressbar.OptionSetDescription(indir),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
		)
	}

	for _, uf := range units {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		sem <- struct{}{}
		go func(uf unitFile) {
			defer func() { <-sem }()
			w, err := e.compileFile(uf, table, outdir)
			if bar != nil {
				bar.Add(1)
			}
			results <- result{warning: w, err: err}
		}(uf)
	}

	var fatal error
	for range units {
		r := <-results
		if r.err != nil && fatal == nil {
			fatal = r.err
		}
		if r.warning != nil {
			warnings = append(warnings, *r.warning)
		}
	}
	if bar != nil {
		fmt.Println()
	}
	if fatal != nil {
		return warnings, fatal
	}
	sortWarnings(warnings)
	return warnings, nil
}

// compileFile parses and generates one template. A file that cannot be
// read, parsed or generated yields a warning and is skipped; only a failed
// write of the output file is fatal.
func (e *Engine) compileFile(uf unitFile, table *gen.Table, outdir string) (*tt.Warning, error) {
	src, err := os.ReadFile(uf.path)
	if err != nil {
		w := tt.NewWarning(uf.path, nil, 0, fmt.Sprintf("read: %v", err), tt.SeverityWarning)
		return &w, nil
	}

	t, err := parse.ParseWith(e.grammar, src)
	if err != nil {
		w := e.parseWarning(uf.path, src, err)
		e.logger.Warn("template skipped",
			zap.String("file", uf.path),
			zap.String("reason", w.Message))
		return &w, nil
	}

	out, err := gen.Generate(t, uf.unit, table, gen.Options{Header: e.cfg.Header})
	if err != nil {
		w := tt.NewWarning(uf.path, src, 0, err.Error(), tt.SeverityWarning)
		return &w, nil
	}

	dst := filepath.Join(append(append([]string{outdir}, uf.unit.Dir...), uf.unit.Name+".go")...)
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write %s: %v", ErrOutput, dst, err)
	}
	e.logger.Debug("compiled",
		zap.String("file", uf.path),
		zap.String("out", dst))
	return nil, nil
}

// CheckTree parses every template under indir without generating output.
func (e *Engine) CheckTree(ctx context.Context, indir string) ([]tt.Warning, error) {
	units, _, warnings, err := e.enumerate(indir)
	if err != nil {
		return nil, err
	}

	for _, uf := range units {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		src, err := os.ReadFile(uf.path)
		if err != nil {
			warnings = append(warnings, tt.NewWarning(uf.path, nil, 0, fmt.Sprintf("read: %v", err), tt.SeverityWarning))
			continue
		}
		if _, err := parse.ParseWith(e.grammar, src); err != nil {
			warnings = append(warnings, e.parseWarning(uf.path, src, err))
		}
	}
	sortWarnings(warnings)
	return warnings, nil
}

// CompileSource compiles a single in-memory template with no sibling
// units, for tools and tests.
func (e *Engine) CompileSource(name string, src []byte) ([]byte, error) {
	t, err := parse.ParseWith(e.grammar, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	u := gen.Unit{Name: name}
	table := gen.NewTable(e.cfg.Module, e.cfg.Package)
	if err := table.Add(u); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return gen.Generate(t, u, table, gen.Options{Header: e.cfg.Header})
}

func (e *Engine) parseWarning(path string, src []byte, err error) tt.Warning {
	offset := 0
	msg := err.Error()
	var perr *parse.Error
	if errors.As(err, &perr) {
		offset = perr.Pos
		msg = perr.Msg
	}
	return tt.NewWarning(path, src, offset, "could not compile template: "+msg, tt.SeverityWarning)
}

func sortWarnings(warnings []tt.Warning) {
	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].Filename != warnings[j].Filename {
			return warnings[i].Filename < warnings[j].Filename
		}
		return warnings[i].Offset < warnings[j].Offset
	})
}
