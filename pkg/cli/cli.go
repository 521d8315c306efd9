package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
	"github.com/vangberg/issuerizer/pkg/cli/config"
	"github.com/vangberg/issuerizer/pkg/domain/types"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		githubCfg config.GitHub
		claudeCfg config.Claude
		update    bool
	)
	var logger *slog.Logger

	flags := loggerCfg.Flags()
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, claudeCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "update",
		Aliases:     []string{"u"},
		Usage:       "Replace the issue body on GitHub with the generated summary (irreversible)",
		Destination: &update,
		Sources:     cli.EnvVars("ISSUERIZER_UPDATE"),
	})

	app := &cli.Command{
		Name:      "issuerizer",
		Usage:     "Summarize a GitHub issue thread with Claude",
		ArgsUsage: "<issue-reference>",
		Version:   types.Version,
		Flags:     flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runSummarize(ctx, c.Args().First(), update, &githubCfg, &claudeCfg)
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
