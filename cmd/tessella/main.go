// tessella - guided classification of wallpaper and frieze symmetry groups.
//
// The user loads a repeating pattern image and walks a decision tree; each
// step asks for a geometric proof (a rotation center, a mirror axis, or a
// glide axis) and shows the transformed patch beside the original so the
// symmetry claim can be checked by eye.
//
//	tessella [flags] pattern.png
//
// Flags:
//
//	-config path   configuration file (TOML, JSON, or YAML)
//	-tree name     built-in tree ("wallpaper", "frieze") or a JSON file
//	-log-level l   debug, info, warn, error
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"tessella/cmd/tessella/internal/theme"
	"tessella/cmd/tessella/internal/ui"
	"tessella/internal/config"
	"tessella/internal/logging"
	"tessella/internal/raster"
	"tessella/internal/session"
	"tessella/internal/store"
	"tessella/internal/tree"
	"tessella/internal/watcher"
)

func main() {
	var (
		configPath = flag.String("config", "", "configuration file path")
		treeName   = flag.String("tree", "", "decision tree: builtin name or JSON file")
		logLevel   = flag.String("log-level", "", "log level override")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tessella [flags] <pattern-image>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := setupLogging(cfg); err != nil {
		fatal("setup logging: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	treeSel := cfg.Proof.DefaultTree
	if *treeName != "" {
		treeSel = *treeName
	}

	ras, err := raster.Load(flag.Arg(0))
	if err != nil {
		fatal("load image: %v", err)
	}
	logging.Info("image loaded", "path", ras.Path, "width", ras.Width(), "height", ras.Height())

	t, err := loadTree(treeSel)
	if err != nil {
		fatal("load tree: %v", err)
	}

	var db *store.Store
	if cfg.Storage.Enabled {
		db, err = store.Open(cfg.Storage.Path)
		if err != nil {
			logging.Warn("results store unavailable", "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	sess := session.New(t, ras, cfg.Proof.DefaultPatchSize)

	go func() {
		w := new(app.Window)
		w.Option(app.Title("Tessella"))
		w.Option(app.Size(unit.Dp(cfg.Window.Width), unit.Dp(cfg.Window.Height)))

		if err := loop(w, cfg, sess, db); err != nil {
			fatal("%v", err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, cfg *config.Config, sess *session.Session, db *store.Store) error {
	t := theme.New(material.NewTheme())
	classifier := ui.NewClassifier(t, sess, db)

	reloads := watchImage(w, cfg, sess.Raster().Path)

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			// Apply a pending image reload on the UI thread before
			// drawing, keeping all session mutation single-threaded.
			select {
			case ras := <-reloads:
				sess.SetRaster(ras)
				classifier.Canvas().InvalidateImage()
			default:
			}

			gtx := app.NewContext(&ops, e)
			classifier.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

// watchImage reloads the pattern image when it changes on disk. Decoding
// happens off the UI thread; the decoded raster is handed over via the
// returned channel and applied in the frame loop.
func watchImage(w *app.Window, cfg *config.Config, path string) <-chan *raster.Raster {
	reloads := make(chan *raster.Raster, 1)
	if !cfg.Watch.Enabled || path == "" {
		return reloads
	}

	fw, err := watcher.New(path, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
	if err != nil {
		logging.Warn("image watch disabled", "error", err)
		return reloads
	}

	go func() {
		for p := range fw.Reloads() {
			ras, err := raster.Load(p)
			if err != nil {
				logging.Warn("image reload failed", "path", p, "error", err)
				continue
			}
			logging.Info("image reloaded", "path", p)
			select {
			case reloads <- ras:
			default:
			}
			w.Invalidate()
		}
	}()
	return reloads
}

func loadTree(name string) (*tree.Tree, error) {
	if strings.HasSuffix(name, ".json") {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		return tree.Load(data)
	}
	return tree.Builtin(name)
}

func setupLogging(cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return err
	}
	logger, err := logging.New(&logging.Config{
		Level:     level,
		Format:    format,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		Component: "tessella",
	})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "tessella: "+format+"\n", args...)
	os.Exit(1)
}
