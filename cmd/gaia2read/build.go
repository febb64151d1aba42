package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/jkim117/gaia2read"
	"github.com/jkim117/gaia2read/codec"
	"github.com/jkim117/gaia2read/internal/config"
	"github.com/jkim117/gaia2read/internal/output"
	"github.com/jkim117/gaia2read/model"
	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		in      []string
		crossID []string
		to      string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "build --in GLOB [--crossid GLOB] --to ROOT",
		Short: "Build a catalog from raw record files",
		Long: `Build writes the zone files, the source_id partitions and the
cross-identifier tables of a catalog. Input record files hold packed
278-byte records in any order; cross-ID files hold 24-byte (Gaia, 2MASS,
HAT) entries. Inputs ending in .zst or .lz4 are decompressed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files, err := expand(in)
			if err != nil {
				return err
			}
			var stars []model.Star
			for _, f := range files {
				if err := readRecords(f, codec.RecordSize, func(rec []byte) error {
					var s model.Star
					if err := codec.DecodeStar(rec, &s); err != nil {
						return err
					}
					stars = append(stars, s)
					return nil
				}); err != nil {
					return err
				}
			}

			files, err = expand(crossID)
			if err != nil {
				return err
			}
			var xids []model.CrossIDEntry
			for _, f := range files {
				if err := readRecords(f, codec.CrossIDEntrySize, func(rec []byte) error {
					e, err := codec.DecodeCrossIDEntry(rec)
					if err != nil {
						return err
					}
					xids = append(xids, e)
					return nil
				}); err != nil {
					return err
				}
			}

			loc, err := config.ParseLocation(to)
			if err != nil {
				return err
			}
			if loc.Kind == config.KindLocal {
				if err := mkdirAll(loc.Path); err != nil {
					return err
				}
			}
			store, err := config.OpenStore(ctx, loc)
			if err != nil {
				return err
			}

			a.logger.InfoContext(ctx, "building catalog", "stars", len(stars), "cross_ids", len(xids), "to", loc.String())
			return gaia2read.Build(ctx, store, stars, xids, gaia2read.BuildOptions{
				Parallelism: workers,
				Logger:      a.logger,
			})
		},
	}
	cmd.Flags().StringSliceVar(&in, "in", nil, "record files or globs")
	cmd.Flags().StringSliceVar(&crossID, "crossid", nil, "cross-ID files or globs")
	cmd.Flags().StringVar(&to, "to", "", "catalog root to write")
	cmd.Flags().IntVar(&workers, "workers", 4, "zone files written at once")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func expand(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		m, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(m) == 0 {
			return nil, fmt.Errorf("no files match %q", p)
		}
		files = append(files, m...)
	}
	return files, nil
}

// readRecords calls fn for each size-byte record of path.
func readRecords(path string, size int, fn func([]byte) error) error {
	r, err := output.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	buf := make([]byte, size)
	for n := 0; ; n++ {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: record %d: %w", path, n, err)
		}
		if err := fn(buf); err != nil {
			return fmt.Errorf("%s: record %d: %w", path, n, err)
		}
	}
}
