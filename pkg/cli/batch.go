package cli

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/mchmarny/phaseid/pkg/phase"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const failFastFlagName = "fail-fast"

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Identify the phases of many case files in parallel",
		UsageText: `phaseid batch cases/*.yaml                  # report every case, failures included
   phaseid batch --fail-fast cases/*.yaml      # stop at the first failing case`,
		ArgsUsage:       "<case-file>...",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			newMethodFlag(),
			&cli.BoolFlag{
				Name:  failFastFlagName,
				Usage: "Stop at the first case that fails instead of reporting it (optional, default: false)",
			},
		},
		Action: cmdBatch,
	}
}

func cmdBatch(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one case file required")
	}
	s, err := settingsFor(cmd)
	if err != nil {
		return err
	}

	reports, err := runBatch(ctx, getConfig(cmd), paths, s, cmd.Bool(failFastFlagName))
	if err != nil {
		return err
	}
	return output(cmd, reports)
}

// runBatch identifies each case on its own goroutine. Reports keep the order of paths.
// Unless failFast is set, a failing case is reported with its error and the rest still run.
func runBatch(ctx context.Context, cfg *appConfig, paths []string, s phase.Settings, failFast bool) ([]*Report, error) {
	reports := make([]*Report, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			r, err := identifyFile(cfg, path, s)
			if err != nil {
				if failFast {
					return err
				}
				slog.Warn("case failed", "file", path, "error", err)
				r = &Report{Case: path, Gas: -1, Error: err.Error()}
			}
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	return reports, nil
}

func identifyFile(cfg *appConfig, path string, s phase.Settings) (*Report, error) {
	c, err := loadCase(path)
	if err != nil {
		return nil, err
	}
	return identifyCase(cfg, c, s)
}
