package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/BuddyNice/sveltedoc-parser/pkg/docset"
	"github.com/BuddyNice/sveltedoc-parser/pkg/scan"
	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "scan a project and keep its docset current as files change",
		Flags: append(extractFlags(),
			&cli.StringFlag{
				Name:  "path",
				Value: ".",
				Usage: "project root to watch",
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "docset file to keep updated",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "debounce-ms",
				Value: 200,
				Usage: "delay before re-extracting a changed file",
			},
		),
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	logger := setupLogger(cmd)

	extract, err := extractOptions(cmd)
	if err != nil {
		return err
	}

	engine := sveltedoc.New(logger)
	defer engine.Close()

	scanner := scan.NewScanner(engine, 0, logger)
	defer scanner.Close()

	root := cmd.String("path")
	outPath := cmd.String("out")

	set, stats, err := scanner.Scan(root, scanOptions(cmd, extract), nil)
	if err != nil {
		return err
	}
	if err := set.SaveToFile(outPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "watching %s (%d components, %d failed)\n",
		root, stats.FilesExtracted, stats.FilesFailed)

	live := &liveSet{set: set, outPath: outPath}

	watcher, err := scan.NewWatcher(scanner, extract, scan.WatchOptions{
		DebounceMs: int(cmd.Int("debounce-ms")),
	}, logger)
	if err != nil {
		return err
	}
	watcher.OnUpdate = func(entry *docset.Entry) {
		live.upsert(entry)
		fmt.Fprintf(os.Stderr, "updated %s\n", entry.Path)
	}
	watcher.OnRemove = func(relPath string) {
		if live.remove(relPath) {
			fmt.Fprintf(os.Stderr, "removed %s\n", relPath)
		}
	}
	watcher.OnError = func(path string, err error) {
		fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, err)
	}

	if err := watcher.Start(root); err != nil {
		return err
	}
	defer watcher.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case <-sigCh:
	}
	fmt.Fprintln(os.Stderr, "shutting down")
	return nil
}

// liveSet is the docset kept on disk during a watch session.
type liveSet struct {
	mu      sync.Mutex
	set     *docset.Set
	outPath string
}

func (ls *liveSet) upsert(entry *docset.Entry) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	replaced := false
	for i := range ls.set.Components {
		if ls.set.Components[i].Path == entry.Path {
			ls.set.Components[i] = *entry
			replaced = true
			break
		}
	}
	if !replaced {
		ls.set.Components = append(ls.set.Components, *entry)
		sort.Slice(ls.set.Components, func(i, j int) bool {
			return ls.set.Components[i].Path < ls.set.Components[j].Path
		})
	}
	ls.save()
}

func (ls *liveSet) remove(relPath string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	for i := range ls.set.Components {
		if ls.set.Components[i].Path == relPath {
			ls.set.Components = append(ls.set.Components[:i], ls.set.Components[i+1:]...)
			ls.save()
			return true
		}
	}
	return false
}

func (ls *liveSet) save() {
	if err := ls.set.SaveToFile(ls.outPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save docset: %v\n", err)
	}
}
