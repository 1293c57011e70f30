// Command orthoroute routes the connections of a scene file and renders the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"orthoroute/config"
	"orthoroute/connections"
	"orthoroute/diagram"
	"orthoroute/export"
	"orthoroute/terminal"
	"orthoroute/validation"
)

// errRouting is returned when -validate finds invalid routes.
var errRouting = errors.New("routing errors found")

type options struct {
	configPath  string
	format      string
	output      string
	interactive bool
	validate    bool
	strict      bool
	watch       bool
	deps        string
	script      string
	verbose     bool
	args        []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("orthoroute", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.configPath, "config", "", "TOML configuration file")
	fs.StringVar(&o.format, "format", "ascii", "Export format: ascii, json, png, dot, mermaid")
	fs.StringVar(&o.output, "o", "", "Output file (default: stdout)")
	fs.BoolVar(&o.interactive, "i", false, "Open the scene in the terminal viewer")
	fs.BoolVar(&o.validate, "validate", false, "Check every route and fail on errors")
	fs.BoolVar(&o.strict, "strict", false, "Also report redundant route points when validating")
	fs.BoolVar(&o.watch, "watch", false, "Re-render whenever the scene file changes")
	fs.StringVar(&o.deps, "deps", "", "Lay out the file dependency graph of `dir`, starting from the given files")
	fs.StringVar(&o.script, "script", "", "Replay a JSON key script in the viewer (with -i)")
	fs.BoolVar(&o.verbose, "v", false, "Verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: orthoroute [options] scene.json\n")
		fmt.Fprintf(stderr, "       orthoroute -deps dir file...\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nFormats:\n")
		descriptions := export.FormatDescriptions()
		for _, f := range export.AvailableFormats() {
			fmt.Fprintf(stderr, "  %-8s %s\n", f, descriptions[f])
		}
		fmt.Fprintf(stderr, "\nViewer keys: arrows move, Tab selects, c cycles connections, o toggles off-page,\n")
		fmt.Fprintf(stderr, "r reroutes, u undoes, Ctrl-R redoes, v validates, s saves, q quits\n")
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.args = fs.Args()

	switch {
	case o.deps != "" && len(o.args) == 0:
		return o, errors.New("-deps needs at least one root file")
	case o.deps == "" && len(o.args) != 1:
		fs.Usage()
		return o, errors.New("expected exactly one scene file")
	case o.interactive && o.watch:
		return o, errors.New("-i and -watch cannot be combined")
	case o.script != "" && !o.interactive:
		return o, errors.New("-script needs -i")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if o.configPath != "" {
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
		logger.Debug("loaded config", "path", o.configPath)
	}

	if o.deps != "" {
		return runDeps(ctx, o, cfg, logger, stdout)
	}

	path := o.args[0]
	if o.interactive {
		return runViewer(ctx, path, o.script, cfg, logger)
	}

	format, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	exporter, err := export.NewExporter(format, cfg.Render)
	if err != nil {
		return err
	}

	r := &renderer{
		path:     path,
		output:   o.output,
		cfg:      cfg,
		exporter: exporter,
		logger:   logger,
		stdout:   stdout,
		stderr:   stderr,
	}
	if o.validate {
		r.validator = validation.NewRouteValidator(cfg.Router)
		r.validator.SetStrictMode(o.strict)
	}

	if o.watch {
		return r.watch(ctx)
	}
	return r.render()
}

func loadScene(path string, cfg config.Config, logger *slog.Logger) (*diagram.Scene, error) {
	return diagram.ReadFile(path,
		diagram.WithRouter(connections.NewRouter(cfg.Router)),
		diagram.WithLogger(logger),
		diagram.WithJunctionRadius(cfg.Render.JunctionRadius))
}

func runViewer(ctx context.Context, path, scriptPath string, cfg config.Config, logger *slog.Logger) error {
	s, err := loadScene(path, cfg, logger)
	if err != nil {
		return err
	}
	var script *terminal.Script
	if scriptPath != "" {
		if script, err = terminal.LoadScript(scriptPath); err != nil {
			return err
		}
	}

	screen, err := terminal.Open()
	if err != nil {
		return err
	}
	defer screen.Fini()

	v := terminal.NewViewer(screen, s, cfg, logger)
	v.SetFilename(path)

	if script != nil {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := script.Play(ctx, screen); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("script stopped", "script", scriptPath, "err", err)
			}
		}()
	}
	if err := v.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// renderer loads, validates and exports one scene file.
type renderer struct {
	path      string
	output    string
	cfg       config.Config
	exporter  export.Exporter
	validator *validation.RouteValidator
	logger    *slog.Logger
	stdout    io.Writer
	stderr    io.Writer
}

func (r *renderer) render() error {
	s, err := loadScene(r.path, r.cfg, r.logger)
	if err != nil {
		return err
	}

	if r.validator != nil {
		errs := r.validator.ValidateScene(s)
		for _, e := range errs {
			fmt.Fprintf(r.stderr, "%s: %v\n", r.path, e)
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s: %d: %w", r.path, len(errs), errRouting)
		}
	}

	if r.output == "" {
		return r.exporter.Export(r.stdout, s)
	}
	if err := writeFile(r.output, func(w io.Writer) error { return r.exporter.Export(w, s) }); err != nil {
		return err
	}
	r.logger.Info("exported scene", "format", r.exporter.FormatName(), "output", r.output)
	return nil
}

// writeFile writes to a temporary file and renames it over path.
func writeFile(path string, write func(io.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write output: %w", err)
	}
	return os.Rename(tmp, path)
}
