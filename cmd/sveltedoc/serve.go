package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/BuddyNice/sveltedoc-parser/pkg/docset"
	mcpserver "github.com/BuddyNice/sveltedoc-parser/pkg/mcp"
	"github.com/BuddyNice/sveltedoc-parser/pkg/mcplog"
	"github.com/BuddyNice/sveltedoc-parser/pkg/scan"
	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve component documentation over MCP on stdin/stdout",
		Flags: append(extractFlags(),
			&cli.StringFlag{
				Name:  "docset",
				Usage: "load a previously scanned docset JSON file",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "scan this project root at startup instead of loading a docset",
			},
			&cli.StringFlag{
				Name:  "call-log",
				Usage: "append per-tool-call JSONL entries to this file",
			},
		),
		Action: runServe,
	}
}

func runServe(_ context.Context, cmd *cli.Command) error {
	logger := setupLogger(cmd)

	extract, err := extractOptions(cmd)
	if err != nil {
		return err
	}

	engine := sveltedoc.New(logger)
	defer engine.Close()

	var set *docset.Set
	switch {
	case cmd.String("docset") != "" && cmd.String("path") != "":
		return errors.New("use --docset or --path, not both")

	case cmd.String("docset") != "":
		loaded, _, err := docset.LoadFromFile(cmd.String("docset"))
		if err != nil {
			return fmt.Errorf("failed to load docset: %w", err)
		}
		set = loaded

	case cmd.String("path") != "":
		scanner := scan.NewScanner(engine, 0, logger)
		defer scanner.Close()
		scanned, stats, err := scanner.Scan(cmd.String("path"), scanOptions(cmd, extract), nil)
		if err != nil {
			return fmt.Errorf("startup scan failed: %w", err)
		}
		logger.Info("startup scan complete",
			"components", stats.FilesExtracted,
			"failed", stats.FilesFailed)
		set = scanned

	default:
		return errors.New("--docset or --path is required")
	}

	qs := docset.NewQueryService(set, set.BuildIndex())

	callLog, err := mcplog.NewLogger(cmd.String("call-log"))
	if err != nil {
		return err
	}
	if callLog != nil {
		defer callLog.Close()
	}

	srv := mcpserver.NewServer(qs, engine, callLog)
	logger.Info("MCP server starting", "components", len(set.Components))
	return srv.ServeStdio()
}
