package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/BuddyNice/sveltedoc-parser/pkg/scan"
	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "extract documentation for every component under a directory",
		Flags: append(extractFlags(),
			&cli.StringFlag{
				Name:  "path",
				Value: ".",
				Usage: "project root to scan",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write the docset to this file instead of stdout",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "glob patterns to include (default **/*.svelte)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "glob patterns to exclude, added to the defaults",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "print per-file progress to stderr",
			},
		),
		Action: runScan,
	}
}

func runScan(_ context.Context, cmd *cli.Command) error {
	logger := setupLogger(cmd)

	extract, err := extractOptions(cmd)
	if err != nil {
		return err
	}

	options := scanOptions(cmd, extract)

	engine := sveltedoc.New(logger)
	defer engine.Close()

	scanner := scan.NewScanner(engine, options.MaxCachedResults, logger)
	defer scanner.Close()

	var progress scan.ProgressCallback
	if cmd.Bool("progress") {
		progress = func(done, total int, file string) {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", done, total, file)
		}
	}

	set, stats, err := scanner.Scan(cmd.String("path"), options, progress)
	if err != nil {
		return err
	}

	for _, fe := range stats.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s: %v\n", fe.Path, fe.Err)
	}

	if out := cmd.String("out"); out != "" {
		if err := set.SaveToFile(out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d components to %s (%.1f files/sec)\n",
			stats.FilesExtracted, out, stats.FilesPerSecond)
		return nil
	}
	return writeJSON(os.Stdout, set, true)
}

func scanOptions(cmd *cli.Command, extract sveltedoc.Options) scan.Options {
	options := scan.DefaultOptions()
	options.Extract = extract
	if include := cmd.StringSlice("include"); len(include) > 0 {
		options.Include = include
	}
	options.Exclude = append(options.Exclude, cmd.StringSlice("exclude")...)
	return options
}
