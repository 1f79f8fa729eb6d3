package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/colorforge/colorforge/internal/registry"
)

const watchDebounce = 200 * time.Millisecond

type watchOptions struct {
	SpecPath string
	OutPath  string
	Verbose  bool
}

var watchCmdRunner = runWatch

func newWatchCmd(root *rootFlags) *cobra.Command {
	opts := watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <spec-file>",
		Short: "Rebuild the registry whenever the spec changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SpecPath = args[0]
			opts.Verbose = root.verbose

			return watchCmdRunner(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutPath, "out", "o", "registry.json", "Path to write the registry artifact")

	return cmd
}

func runWatch(cmd *cobra.Command, opts watchOptions) error {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}

	rebuild := func() {
		r, err := buildRegistry(opts.SpecPath, log)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "build failed: %v\n", err)
			return
		}
		if err := registry.Save(r, opts.OutPath); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "save failed: %v\n", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %s: %d variants\n", opts.OutPath, r.Meta.VariantCount)
	}

	rebuild()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors rename over the spec file, which would
	// drop a watch placed on the file itself.
	specPath, err := filepath.Abs(opts.SpecPath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(specPath)); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var mu sync.Mutex
	var debounce *time.Timer
	defer func() {
		mu.Lock()
		if debounce != nil {
			debounce.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != specPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, rebuild)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watch error: %v\n", err)
		case <-stop:
			return nil
		}
	}
}
