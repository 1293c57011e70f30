package depgraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"time"
)

// Analyzer builds a Graph one file at a time so a caller can interleave the work with
// other events. Files referenced by scanned files are queued as they are found.
type Analyzer struct {
	fsys     fs.FS
	registry FileScanner
	graph    *Graph
	queue    []string
	queued   map[string]bool
	pos      int
	logger   *slog.Logger
}

// NewAnalyzer creates an analyzer over fsys starting from roots. A nil registry uses
// the stock scanners and a nil logger discards output.
func NewAnalyzer(fsys fs.FS, registry FileScanner, logger *slog.Logger, roots ...string) *Analyzer {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &Analyzer{
		fsys:     fsys,
		registry: registry,
		graph:    NewGraph(),
		queued:   make(map[string]bool),
		logger:   logger,
	}
	for _, r := range roots {
		a.enqueue(path.Clean(r))
	}
	return a
}

// Graph returns the graph built so far.
func (a *Analyzer) Graph() *Graph {
	return a.graph
}

// Progress returns the number of processed files and the number known so far.
func (a *Analyzer) Progress() (done, total int) {
	return a.pos, len(a.queue)
}

// Step processes the next queued file. done is true once the queue is exhausted.
// A file that cannot be read or scanned is kept in the graph without dependencies and the
// error is returned; later calls continue with the next file.
func (a *Analyzer) Step() (done bool, err error) {
	if a.pos >= len(a.queue) {
		return true, nil
	}
	name := a.queue[a.pos]
	a.pos++
	a.graph.AddFile(name)

	data, err := fs.ReadFile(a.fsys, name)
	if err != nil {
		return a.pos >= len(a.queue), fmt.Errorf("scan %s: %w", name, err)
	}

	refs, err := a.registry.Scan(name, string(data))
	switch {
	case errors.Is(err, ErrUnsupported):
		a.logger.Debug("skipping file", "file", name)
		return a.pos >= len(a.queue), nil
	case err != nil:
		return a.pos >= len(a.queue), fmt.Errorf("scan %s: %w", name, err)
	}

	for _, ref := range refs {
		target, ok := a.resolve(name, ref)
		if !ok {
			a.logger.Debug("unresolved dependency", "file", name, "ref", ref)
			continue
		}
		a.graph.AddDependency(name, target)
		a.enqueue(target)
	}
	return a.pos >= len(a.queue), nil
}

// Run calls Step on every tick of a ticker with the given interval until the queue is
// exhausted or ctx is cancelled. Step errors are logged and joined into the result.
func (a *Analyzer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var errs []error
	for {
		select {
		case <-ctx.Done():
			return errors.Join(append(errs, ctx.Err())...)
		case <-ticker.C:
			done, err := a.Step()
			if err != nil {
				a.logger.Warn("dependency scan failed", "err", err)
				errs = append(errs, err)
			}
			if done {
				scanned, total := a.Progress()
				a.logger.Info("dependency analysis finished", "files", total, "scanned", scanned)
				return errors.Join(errs...)
			}
		}
	}
}

func (a *Analyzer) enqueue(name string) {
	if a.queued[name] {
		return
	}
	a.queued[name] = true
	a.queue = append(a.queue, name)
}

// resolve maps a reference to a file that exists: relative to the referencing file,
// then from the root, then with the referencing file's extension appended.
func (a *Analyzer) resolve(from, ref string) (string, bool) {
	dir := path.Dir(from)
	candidates := []string{
		path.Join(dir, ref),
		path.Clean(ref),
		path.Join(dir, ref+path.Ext(from)),
	}
	for _, c := range candidates {
		if fs.ValidPath(c) {
			if _, err := fs.Stat(a.fsys, c); err == nil {
				return c, true
			}
		}
	}
	return "", false
}
