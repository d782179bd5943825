// Command oxy-view opens a window onto an instanced cube grid and flies a camera over it with
// WASD or the arrow keys. Escape closes the window.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/config"
	"github.com/Carmen-Shannon/oxy-view/engine"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
)

func main() {
	configPath := flag.String("config", "", "path to a .toml, .yaml or .yml configuration file")
	profile := flag.Bool("profile", false, "log tick and frame rates every second")
	title := flag.String("title", "", "window title, overriding the configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}

	// ── Engine + Window ─────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithConfig(cfg),
		engine.WithProfiling(*profile),
		engine.WithWindow(window.NewWindow(
			window.WithTitle(common.Coalesce(*title, cfg.Window.Title)),
			window.WithWidth(cfg.Window.Width),
			window.WithHeight(cfg.Window.Height),
			window.WithPollInterval(cfg.Window.PollInterval()),
		)),
	)

	if err := eng.Run(); err != nil {
		log.Printf("[Engine] %v", err)
		os.Exit(1)
	}
}
