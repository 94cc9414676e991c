package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v3"

	"github.com/decibelcooper/sigscan"
	"github.com/decibelcooper/sigscan/internal/config"
	mylog "github.com/decibelcooper/sigscan/internal/log"
	"github.com/decibelcooper/sigscan/scan"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("pvalue_plot failed")
	}
}

func newCommand() *cli.Command {
	masses := sigscan.MassList{Masses: sigscan.AllMasses()}
	defaults := config.Defaults()
	cfgPath := config.Path("")

	return &cli.Command{
		Name:      "pvalue_plot",
		Usage:     "plot local p-values of a mass scan, computing significances when not cached",
		ArgsUsage: "<workspace-dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "basename",
				Aliases: []string{"b"},
				Value:   defaults.Basename,
				Usage:   "workspace basename",
				Sources: config.Sources("basename", &cfgPath),
			},
			&cli.GenericFlag{
				Name:    "masses",
				Aliases: []string{"m"},
				Value:   &masses,
				Usage:   `"all" or comma-separated mass points`,
			},
			&cli.BoolFlag{
				Name:  "force-pickle",
				Usage: "recompute significances even if they are cached",
			},
			&cli.BoolFlag{
				Name:  "use-fixed-workspace",
				Usage: "workspaces live in <basename>_<mass>/ws_measurement_<basename>_<mass>.root as \"combined\"",
			},
			&cli.BoolFlag{
				Name:  "unblind",
				Usage: "use observed instead of expected significances",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
			&cli.StringSliceFlag{
				Name:    "formats",
				Aliases: []string{"f"},
				Usage:   "plot output formats (png, pdf, svg, eps)",
			},
			&cli.StringFlag{
				Name:    "plots-dir",
				Value:   defaults.PlotsDir,
				Usage:   "directory the plots are written to",
				Sources: config.Sources("plots_dir", &cfgPath),
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "significance cache root",
				Sources: config.Sources("cache_dir", &cfgPath, "SIGSCAN_CACHE_DIR"),
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "concurrent workspace evaluations (0: one per mass point)",
				Sources: config.Sources("workers", &cfgPath),
			},
			&cli.BoolFlag{
				Name:  "allow-partial",
				Usage: "keep going when some mass points have no significance",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "plot title",
			},
			&cli.StringFlag{
				Name:        "config",
				Value:       cfgPath,
				Usage:       "configuration file (default $SIGSCAN_CONFIG, then the user config directory)",
				Destination: &cfgPath,
			},
			&cli.BoolFlag{
				Name:  "profile",
				Usage: "write a CPU profile to the working directory",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, masses.Masses)
		},
	}
}

func run(ctx context.Context, cmd *cli.Command, masses []scan.MassPoint) error {
	mylog.InitLogger(cmd.Bool("verbose"))

	if cmd.NArg() != 1 {
		return errors.New("expected exactly one workspace directory")
	}
	dir := cmd.Args().First()

	if cmd.Bool("profile") {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	cfg, err := config.Load(config.Explicit(cmd, "config"))
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}
	if cfg.Source != "" {
		log.Debugf("configuration from %s", cfg.Source)
	}

	// Scalar settings arrive through the flags' config sources; the format
	// list is a YAML sequence and comes from the loaded file.
	basename := cmd.String("basename")
	workers := int(cmd.Int("workers"))
	plotsDir := cmd.String("plots-dir")
	formats := cfg.Formats
	if cmd.IsSet("formats") {
		formats = cmd.StringSlice("formats")
	}
	cacheRoot := cmd.String("cache-dir")
	if cacheRoot == "" {
		if cacheRoot, err = cfg.CacheRoot(); err != nil {
			return err
		}
	}
	unblind := cmd.Bool("unblind")

	driver := scan.New(
		scan.Config{CacheRoot: cacheRoot, Workers: workers, Logger: log.Log},
		&scan.WorkspaceEvaluator{Unblind: unblind, Logger: log.Log},
	)
	rep, err := driver.Run(ctx, scan.Request{
		Directory:    dir,
		Basename:     basename,
		Masses:       masses,
		Force:        cmd.Bool("force-pickle"),
		FixedLayout:  cmd.Bool("use-fixed-workspace"),
		Unblind:      unblind,
		AllowPartial: cmd.Bool("allow-partial"),
	})
	if err != nil {
		return err
	}

	if err := sigscan.WriteTable(os.Stdout, rep.Record); err != nil {
		return err
	}

	p, err := sigscan.PValuePlot(rep.Record, sigscan.PlotOptions{
		Title:   cmd.String("title"),
		Unblind: unblind,
	})
	if err != nil {
		return err
	}
	files, err := sigscan.SavePlot(p, plotsDir, sigscan.PlotName(dir, basename, unblind), formats)
	for _, f := range files {
		log.Infof("wrote %s", f)
	}
	return err
}

