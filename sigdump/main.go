package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/decibelcooper/sigscan"
	"github.com/decibelcooper/sigscan/internal/config"
	mylog "github.com/decibelcooper/sigscan/internal/log"
	"github.com/decibelcooper/sigscan/scan"
)

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("sigdump failed")
	}
}

func newCommand(w io.Writer) *cli.Command {
	cfgPath := config.Path("")

	return &cli.Command{
		Name:      "sigdump",
		Usage:     "print a cached significance scan",
		ArgsUsage: "[<cache-file> | <workspace-dir>]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "basename",
				Aliases: []string{"b"},
				Value:   config.Defaults().Basename,
				Usage:   "workspace basename, when given a workspace directory",
				Sources: config.Sources("basename", &cfgPath),
			},
			&cli.BoolFlag{
				Name:  "unblind",
				Usage: "show the unblinded scan",
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "significance cache root",
				Sources: config.Sources("cache_dir", &cfgPath, "SIGSCAN_CACHE_DIR"),
			},
			&cli.StringFlag{
				Name:        "config",
				Value:       cfgPath,
				Usage:       "configuration file (default $SIGSCAN_CONFIG, then the user config directory)",
				Destination: &cfgPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mylog.InitLogger(false)
			if cmd.NArg() != 1 {
				return errors.New("expected a cache file or a workspace directory")
			}
			path, err := resolve(cmd)
			if err != nil {
				return err
			}
			return dump(w, path)
		},
	}
}

// resolve maps the argument to a cache file. A regular file is used as is;
// anything else is taken as the workspace directory of a scan.
func resolve(cmd *cli.Command) (string, error) {
	arg := cmd.Args().First()
	if info, err := os.Stat(arg); err == nil && info.Mode().IsRegular() {
		return arg, nil
	}

	cfg, err := config.Load(config.Explicit(cmd, "config"))
	if err != nil {
		return "", err
	}
	root := cmd.String("cache-dir")
	if root == "" {
		if root, err = cfg.CacheRoot(); err != nil {
			return "", err
		}
	}
	return scan.CachePath(root, arg, cmd.String("basename"), cmd.Bool("unblind")), nil
}

func dump(w io.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	snap, err := scan.ReadCache(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%s, modified %s)\n", path, humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
	fmt.Fprintf(w, "directory: %s\nbasename:  %s\nlayout:    %s\nunblind:   %t\n",
		snap.Directory, snap.Basename, snap.Layout, snap.Unblind)
	if !snap.Created.IsZero() {
		fmt.Fprintf(w, "created:   %s\n", humanize.Time(snap.Created))
	}
	if len(snap.Missing) > 0 {
		fmt.Fprintf(w, "missing:   %v\n", snap.Missing)
	}
	fmt.Fprintln(w)
	return sigscan.WriteTable(w, snap.Significances)
}
