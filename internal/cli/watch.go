package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/watch"
)

func newWatchCommand(g *globalOptions) *cobra.Command {
	opts := &buildOptions{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild into an output directory on change",
		Long: `Build the project into --out-dir, then rebuild files as they change.
Changes to token files or to the configuration rebuild everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := g.load(cmd)
			if err != nil {
				return err
			}
			outDir, err := filepath.Abs(opts.outDir)
			if err != nil {
				return err
			}
			opts.outDir = outDir

			b := &builder{
				project: p,
				opts:    opts,
				out:     cmd.OutOrStdout(),
				errOut:  cmd.ErrOrStderr(),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, b, debounce)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "write output files under this directory")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultConfig("").DebounceDur, "quiet period before rebuilding")
	_ = cmd.MarkFlagRequired("out-dir")
	return cmd
}

func runWatch(ctx context.Context, b *builder, debounce time.Duration) error {
	p := b.project

	rebuildAll := func() {
		files, err := b.sourceFiles(p.Root)
		if err != nil {
			log.Error("Failed to list files: %v", err)
			return
		}
		failed, err := b.build(files)
		if err != nil {
			log.Error("Build failed: %v", err)
			return
		}
		log.Info("Built %d files, %d failed expressions", len(files), failed)
	}
	rebuildAll()

	w, err := watch.New(watch.Config{
		Root:        p.Root,
		DebounceDur: debounce,
		Relevant: func(path string) bool {
			return p.Matches(path) || p.IsTokenFile(path) || p.IsConfigFile(path)
		},
		Ignore: func(dir string) bool {
			return dir == b.opts.outDir
		},
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	log.Info("Watching %s", p.Root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-changes:
			switch {
			case slices.ContainsFunc(changed, p.IsConfigFile):
				log.Info("Configuration changed, reloading")
				if err := p.Reload(); err != nil {
					log.Warn("%v", err)
				}
				rebuildAll()
			case slices.ContainsFunc(changed, p.IsTokenFile):
				log.Info("Tokens changed, reloading")
				if err := p.ReloadTokens(); err != nil {
					log.Warn("%v", err)
				}
				rebuildAll()
			default:
				changed = slices.DeleteFunc(changed, func(path string) bool {
					return !p.Matches(path)
				})
				failed, err := b.build(changed)
				if err != nil {
					log.Error("Build failed: %v", err)
					continue
				}
				log.Info("Rebuilt %d files, %d failed expressions", len(changed), failed)
			}
		}
	}
}
