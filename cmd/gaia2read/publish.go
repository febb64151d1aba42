package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// catalogPrefixes are the directories a catalog consists of.
var catalogPrefixes = []string{"Gaia2Bin/", "Gaia2Mass/"}

func mkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func newPublishCmd(a *app) *cobra.Command {
	var (
		to      string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "publish --to ROOT",
		Short: "Copy the catalog to another location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			srcRoot, _ := config.ResolveRoot(a.catalog)
			srcLoc, err := config.ParseLocation(srcRoot)
			if err != nil {
				return err
			}
			src, err := config.OpenStore(ctx, srcLoc)
			if err != nil {
				return err
			}

			dstLoc, err := config.ParseLocation(to)
			if err != nil {
				return err
			}
			if dstLoc.Kind == config.KindLocal {
				if err := mkdirAll(dstLoc.Path); err != nil {
					return err
				}
			}
			dst, err := config.OpenStore(ctx, dstLoc)
			if err != nil {
				return err
			}

			var names []string
			for _, p := range catalogPrefixes {
				n, err := src.List(ctx, p)
				if err != nil {
					return fmt.Errorf("list %s: %w", p, err)
				}
				names = append(names, n...)
			}
			if len(names) == 0 {
				return fmt.Errorf("no catalog files under %s", srcLoc)
			}

			var bytes atomic.Int64
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(workers)
			for _, name := range names {
				g.Go(func() error {
					n, err := copyBlob(gctx, src, dst, name)
					bytes.Add(n)
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			a.logger.InfoContext(ctx, "catalog published", "files", len(names), "bytes", bytes.Load(), "to", dstLoc.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination catalog root")
	cmd.Flags().IntVar(&workers, "workers", 4, "files copied at once")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// copyBlob copies one blob and returns its size.
func copyBlob(ctx context.Context, src blobstore.BlobStore, dst blobstore.WritableStore, name string) (int64, error) {
	b, err := src.Open(ctx, name)
	if err != nil {
		return 0, err
	}
	defer b.Close()

	data := make([]byte, b.Size())
	if err := blobstore.ReadFull(ctx, b, data, 0); err != nil {
		return 0, fmt.Errorf("read %s: %w", name, err)
	}
	if err := dst.Put(ctx, name, data); err != nil {
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	return int64(len(data)), nil
}
