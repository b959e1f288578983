// Command holyglyph shows the F glyph in a desktop window.
//
// Keys: left/right rotate, up/down scale, L toggles fixed lighting, Esc
// quits.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/toxichemicals/GO/holy-glyph/internal/app"
	"github.com/toxichemicals/GO/holy-glyph/internal/controls"
	"github.com/toxichemicals/GO/holy-glyph/internal/logx"
	"github.com/toxichemicals/GO/holy-glyph/internal/platform/desktop"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

func init() {
	// GLFW and the GL context must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML file overriding the built-in scene")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	if err := run(*configPath, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "holyglyph:", err)
		os.Exit(1)
	}
}

func run(configPath, logLevel string) error {
	log, err := logx.New(os.Stderr, logLevel)
	if err != nil {
		return err
	}
	cfg, err := scene.Load(configPath)
	if err != nil {
		return err
	}

	win, err := desktop.Open(cfg.Surface, log)
	if err != nil {
		return err
	}
	defer win.Close()

	panel := controls.NewPanel(cfg.Controls)
	viewer := app.New(cfg, win, panel, app.NewReporter(win, log), log)
	win.BindControls(panel, cfg.Controls)
	if err := viewer.Init(); err != nil {
		// Already shown in the title bar; keep the window open so the
		// message stays visible.
		log.Warn("viewer not running", "err", err)
	}
	defer viewer.Close()
	win.OnRefresh(viewer.RenderFrame)

	log.Info("waiting for input", "config", configPath)
	win.Run()
	log.Info("shutting down")
	return nil
}
