package main

import (
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leadscope-jp/shop-resolver/internal/roster"
)

var (
	batchFile        string
	batchSheet       string
	batchSkipRows    int
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Resolve every shop in an XLSX roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		shops, err := roster.ReadShops(batchFile, roster.Options{
			SheetName: batchSheet,
			SkipRows:  batchSkipRows,
		})
		if err != nil {
			return err
		}
		if len(shops) == 0 {
			return eris.New("batch: roster has no usable rows")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore(st)
		if st != nil {
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
		}

		resolver, err := buildResolver("", "")
		if err != nil {
			return err
		}

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrentShops
		}
		if concurrency <= 0 {
			concurrency = 1
		}

		zap.L().Info("batch starting",
			zap.Int("shops", len(shops)),
			zap.Int("concurrency", concurrency),
		)

		// Rows are independent runs; failures are logged per row and
		// never stop the batch.
		var resolved, failed atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for _, shop := range shops {
			g.Go(func() error {
				result, err := resolveAndRecord(gctx, st, resolver, shop)
				if err != nil {
					failed.Add(1)
					zap.L().Error("batch row failed",
						zap.String("shop", shop.Name),
						zap.Error(err),
					)
					return nil
				}
				resolved.Add(1)
				zap.L().Info("batch row resolved",
					zap.String("shop", shop.Name),
					zap.String("route", string(result.Route)),
					zap.String("representative", result.Representative),
				)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch")
		}

		zap.L().Info("batch complete",
			zap.Int64("resolved", resolved.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "XLSX roster path (required)")
	batchCmd.Flags().StringVar(&batchSheet, "sheet", "", "sheet name (default first sheet)")
	batchCmd.Flags().IntVar(&batchSkipRows, "skip-rows", 1, "header rows to skip")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent shops (default from config)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
