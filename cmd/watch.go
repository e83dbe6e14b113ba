package cmd

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/renderstatic/renderstatic/internal/engine"
	"github.com/renderstatic/renderstatic/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch [selectors...]",
	Aliases: []string{"w"},
	Short:   "Re-render templates when they change",
	Long: `Watch the engine search directories, app template directories and the
url manifest for changes, re-rendering the configured templates (or the
given selectors) after each debounced batch of changes. Watching writes to
disk only; nothing is served.

Examples:
  renderstatic watch              # re-render everything configured
  renderstatic watch "**/*.js"    # re-render matching templates only`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	eng, cfg, logger, err := buildEngine()
	if err != nil {
		return err
	}

	selectors := args
	if len(selectors) == 0 {
		selectors = eng.ConfiguredSelectors()
	}

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddFilter(watcher.IgnoreDirs(cfg.Watch.Ignore...))

	watched := map[string]bool{}
	addDir := func(dir string) {
		if dir == "" || watched[dir] {
			return
		}
		watched[dir] = true
		if err := fw.AddRecursive(dir); err != nil {
			logger.Warn(cmd.Context(), err, "cannot watch directory", "dir", dir)
		}
	}
	for _, engineCfg := range cfg.Engines {
		for _, dir := range engineCfg.Dirs {
			addDir(cfg.Resolve(dir))
		}
		if engineCfg.AppDirs {
			for _, app := range cfg.Apps {
				addDir(cfg.Resolve(app.Path))
			}
		}
	}
	for _, dir := range cfg.Watch.Paths {
		addDir(cfg.Resolve(dir))
	}
	if cfg.URLs.Manifest != "" {
		if err := fw.AddPath(cfg.Resolve(cfg.URLs.Manifest)); err != nil {
			logger.Warn(cmd.Context(), err, "cannot watch url manifest")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	render := func() {
		renders, err := eng.RenderEach(ctx, selectors, engine.Options{})
		for _, render := range renders {
			cmd.Printf("Rendered %s\n", render)
		}
		if err != nil {
			logger.Error(ctx, err, "render failed")
		}
	}

	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		changed := make([]string, 0, len(events))
		for _, event := range events {
			changed = append(changed, event.Path)
		}
		logger.Info(ctx, "changes detected", "files", strings.Join(changed, ", "))
		render()
		return nil
	})

	render()
	fw.Start(ctx)
	cmd.Println("Watching for changes. Press Ctrl+C to stop.")

	<-ctx.Done()
	return nil
}
