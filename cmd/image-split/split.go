package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-split-mcp/internal/export"
	"github.com/ironsheep/image-split-mcp/internal/imaging"
	"github.com/ironsheep/image-split-mcp/internal/session"
)

func newSplitCmd(a *app) *cobra.Command {
	var (
		modeName string
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "split <image>",
		Short: "Split an image file and write the four slices as PNG files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if modeName == "" {
				modeName = a.cfg.Partition.DefaultMode
			}
			mode, err := imaging.ParseMode(modeName)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.cfg.Output.Dir
			}

			cache := imaging.NewImageCache(a.cfg.Cache.TTL, a.cfg.Cache.CleanupInterval)
			src, err := cache.Load(args[0])
			if err != nil {
				return err
			}

			partitioner := imaging.NewPartitioner(
				imaging.WithSurfacePool(imaging.NewSurfacePool(a.cfg.Partition.MaxSurfacePixels)),
				imaging.WithFilenamePrefix(a.cfg.Output.FilenamePrefix),
			)
			result, err := session.New(partitioner, session.WithLogger(a.logger)).LoadWithMode(src, mode)
			if err != nil {
				return err
			}

			paths, err := export.NewWriter(outDir, a.logger).WriteAll(result)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeName, "mode", "m", "", "partition mode: horizontal or grid (default from configuration)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from configuration)")
	return cmd
}
