package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/passview/pkg/artifact"
	"github.com/matzehuels/passview/pkg/errors"
)

// watchCommand creates the watch command that reports diagrams as a running
// program writes them.
func (c *CLI) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Report pass diagrams as they are written to a directory",
		Long: `Watch a directory destination and print every pass diagram as it appears.

Run it next to a program that records passes into the same directory. Press
Ctrl+C to stop.`,
		Example: `  passview watch ./diagrams`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := c.destination(args)
			if err != nil {
				return err
			}
			return c.watch(cmd.Context(), dest)
		},
	}
	return cmd
}

func (c *CLI) watch(ctx context.Context, dir string) error {
	w, err := newDirWatcher(dir)
	if err != nil {
		return err
	}
	defer w.Close()

	printInfo("Watching %s (Ctrl+C to stop)", StyleHighlight.Render(dir))
	return w.run(ctx, loggerFromContext(ctx), func(info artifact.Info) {
		printSuccess("%s %s", StyleNumber.Render("#"+strconv.Itoa(info.Sequence)), info.Name)
	})
}

// dirWatcher reports pass diagrams created in a directory. Each artifact
// name is reported once.
type dirWatcher struct {
	dir     string
	watcher *fsnotify.Watcher
	seen    map[string]bool
}

// newDirWatcher starts watching dir, creating it if needed. Events that occur
// after it returns are delivered by run.
func newDirWatcher(dir string) (*dirWatcher, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "watch directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", dir)
	}
	return &dirWatcher{dir: dir, watcher: fw, seen: make(map[string]bool)}, nil
}

// run delivers new artifacts to fn until ctx is canceled.
func (w *dirWatcher) run(ctx context.Context, logger *log.Logger, fn func(artifact.Info)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(event.Name)
			info, ok := artifact.Parse(name)
			if !ok || w.seen[name] {
				continue
			}
			w.seen[name] = true
			fn(info)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// Close stops watching.
func (w *dirWatcher) Close() error {
	return w.watcher.Close()
}
