//go:build js && wasm

// Command holyglyph-web runs the viewer in a browser page. Build with
// GOOS=js GOARCH=wasm and serve it next to index.html and wasm_exec.js.
package main

import (
	"fmt"
	"os"

	"github.com/toxichemicals/GO/holy-glyph/internal/app"
	"github.com/toxichemicals/GO/holy-glyph/internal/controls"
	"github.com/toxichemicals/GO/holy-glyph/internal/logx"
	"github.com/toxichemicals/GO/holy-glyph/internal/platform/web"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

func main() {
	log, err := logx.New(os.Stderr, "info")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	cfg := scene.Default()

	page := web.NewPage(cfg.Surface, log)
	panel := controls.NewPanel(cfg.Controls)
	viewer := app.New(cfg, page, panel, app.NewReporter(page, log), log)
	page.BindControls(panel)
	if err := viewer.Init(); err != nil {
		// The error line already shows the cause. The page stays up in its
		// unrendered state so the controls and labels keep responding.
		log.Warn("viewer not running", "err", err)
	} else {
		page.OnResize(viewer.RenderFrame)
	}

	// Listeners run on the JS event loop; keep the Go side alive.
	select {}
}
