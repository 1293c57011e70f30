package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"orthoroute/config"
	"orthoroute/depgraph"
	"orthoroute/export"
	"orthoroute/layout"
)

// scanInterval paces the dependency analyzer, one file per tick.
const scanInterval = time.Millisecond

// runDeps scans the files reachable from the roots under o.deps, packs the dependency
// arrows into lanes and writes the graph as DOT.
func runDeps(ctx context.Context, o options, cfg config.Config, logger *slog.Logger, stdout io.Writer) error {
	a := depgraph.NewAnalyzer(os.DirFS(o.deps), nil, logger, o.args...)
	if err := a.Run(ctx, scanInterval); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Unreadable files stay in the graph without dependencies.
		logger.Debug("dependency scan incomplete", "err", err)
	}

	g := a.Graph()
	for _, cycle := range g.Cycles() {
		logger.Warn("dependency cycle", "files", strings.Join(cycle, " -> "))
	}

	packer := layout.NewColumnPacker(cfg.Layout)
	packer.OnExtentChanged(func(width float64) {
		logger.Debug("dependency lanes grew", "width", width)
	})
	arrows := g.Layout(packer, cfg.Layout.RowHeight)
	logger.Info("dependency graph", "files", len(g.Files()), "arrows", len(arrows), "lanes", packer.Lanes())

	dot := export.NewGraphvizExporter()
	if o.output == "" {
		return dot.WriteDependencyGraph(stdout, g, arrows)
	}
	return writeFile(o.output, func(w io.Writer) error {
		return dot.WriteDependencyGraph(w, g, arrows)
	})
}
