package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/model"
)

var (
	resolveName    string
	resolveAddress string
	resolveAPIKey  string
	resolveModel   string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a single shop's representative and operating company",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

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

		resolver, err := buildResolver(resolveAPIKey, resolveModel)
		if err != nil {
			return err
		}

		query := model.ShopQuery{Name: resolveName, Address: resolveAddress}
		result, err := resolveAndRecord(ctx, st, resolver, query)
		if err != nil {
			return eris.Wrap(err, "resolve")
		}

		zap.L().Info("resolution complete",
			zap.String("shop", query.Name),
			zap.String("route", string(result.Route)),
			zap.String("representative", result.Representative),
			zap.String("company", result.CompanyName),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveName, "name", "", "shop name (required)")
	resolveCmd.Flags().StringVar(&resolveAddress, "address", "", "shop address (required)")
	resolveCmd.Flags().StringVar(&resolveAPIKey, "api-key", "", "oracle API key (default from config)")
	resolveCmd.Flags().StringVar(&resolveModel, "model", "", "oracle model (default from config)")
	_ = resolveCmd.MarkFlagRequired("name")
	_ = resolveCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(resolveCmd)
}
