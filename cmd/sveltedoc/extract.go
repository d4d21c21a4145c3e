package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "extract documentation from a single component",
		ArgsUsage: "<file.svelte>",
		Flags: append(extractFlags(),
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "single-line JSON output",
			},
		),
		Action: runExtract,
	}
}

// extractFlags are the extraction options shared by extract, scan, serve,
// and watch.
func extractFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "svelte-version",
			Value: 3,
			Usage: "component dialect, 2 or 3",
		},
		&cli.BoolFlag{
			Name:  "locations",
			Usage: "include byte-offset source locations on every item",
		},
		&cli.BoolFlag{
			Name:  "ignore-private",
			Usage: "drop items marked @private or @protected",
		},
	}
}

func extractOptions(cmd *cli.Command) (sveltedoc.Options, error) {
	opts := sveltedoc.Options{
		IncludeSourceLocations: cmd.Bool("locations"),
		IgnorePrivate:          cmd.Bool("ignore-private"),
	}
	switch cmd.Int("svelte-version") {
	case 2:
		opts.Dialect = sveltedoc.Dialect2
	case 3:
		opts.Dialect = sveltedoc.Dialect3
	default:
		return opts, fmt.Errorf("unsupported svelte version %d (expected 2 or 3)", cmd.Int("svelte-version"))
	}
	return opts, nil
}

func runExtract(_ context.Context, cmd *cli.Command) error {
	logger := setupLogger(cmd)

	opts, err := extractOptions(cmd)
	if err != nil {
		return err
	}

	path := cmd.Args().First()
	if path == "" {
		return errors.New("a component file is required (use - for stdin)")
	}

	var source []byte
	if path == "-" {
		source, err = io.ReadAll(os.Stdin)
	} else {
		source, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading component: %w", err)
	}

	engine := sveltedoc.New(logger)
	defer engine.Close()

	doc, err := engine.Extract(source, opts)
	if err != nil {
		return err
	}

	return writeJSON(os.Stdout, doc, !cmd.Bool("compact"))
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
