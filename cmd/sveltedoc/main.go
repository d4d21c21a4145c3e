package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/BuddyNice/sveltedoc-parser/pkg/util"
)

const version = "0.1.0-dev"

func main() {
	app := &cli.Command{
		Name:    "sveltedoc",
		Usage:   "extract structured documentation from Svelte components",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "log format (text, json)",
			},
		},
		Commands: []*cli.Command{
			extractCommand(),
			scanCommand(),
			serveCommand(),
			watchCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "sveltedoc: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger builds the process logger from the global flags and installs
// it as the slog default.
func setupLogger(cmd *cli.Command) *slog.Logger {
	config := util.DefaultLoggerConfig()
	config.Level = util.LogLevel(cmd.String("log-level"))
	if cmd.String("log-format") == "json" {
		config.Format = util.FormatJSON
	}
	logger := util.NewLogger(config)
	util.SetDefault(logger)
	return logger
}
