// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/hybridrec/internal/cache"
	"github.com/tomtom215/hybridrec/internal/database"
	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/validation"
)

// queryFlags are the options shared by the query commands.
type queryFlags struct {
	UserID    int     `validate:"gte=0"`
	ProductID int     `validate:"gte=0"`
	Category  string  `validate:"max=100"`
	TopN      int     `validate:"gte=0"`
	Diversity float64 `validate:"gte=0,lte=1"`
}

func (f *queryFlags) validate() error {
	if verr := validation.ValidateStruct(f); verr != nil {
		return fmt.Errorf("invalid flags: %w", verr)
	}
	return nil
}

// recommendOutput is what the recommend command prints.
type recommendOutput struct {
	*recommend.Response
	Products []recommend.Product `json:"products"`
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the catalog and interaction log with demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.New(&cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			resultCache, err := cache.New(cfg.CacheOptions(), logging.WithComponent("cache"))
			if err != nil {
				return fmt.Errorf("create cache: %w", err)
			}
			defer resultCache.Close()

			summary, err := seedCatalog(cmd.Context(), db, resultCache)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
}

func newTrainCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the model once and print the training status",
		Example: `  hybridrec train
  hybridrec train --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.engine.Fit(ctx, force); err != nil {
					return fmt.Errorf("train: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), a.engine.Status())
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Retrain even if the model is fresh")
	return cmd
}

func newRecommendCmd() *cobra.Command {
	flags := queryFlags{
		TopN:      recommend.PersonalizedTopN,
		Diversity: recommend.PersonalizedDiversity,
	}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank products for a user, a seed product, or both",
		Example: `  hybridrec recommend --user 2
  hybridrec recommend --product 7 --top-n 5 --diversity 0
  hybridrec recommend --user 1 --category Electronics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				trainForQuery(ctx, a)

				resp, err := a.engine.Recommend(ctx, recommend.Query{
					UserID:          flags.UserID,
					ProductID:       flags.ProductID,
					Category:        flags.Category,
					TopN:            flags.TopN,
					DiversityFactor: flags.Diversity,
				})
				if err != nil {
					return fmt.Errorf("recommend: %w", err)
				}

				products, err := orderedProducts(ctx, a.db, resp.ProductIDs)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), recommendOutput{Response: resp, Products: products})
			})
		},
	}

	cmd.Flags().IntVarP(&flags.UserID, "user", "u", 0, "User id to personalize for")
	cmd.Flags().IntVarP(&flags.ProductID, "product", "p", 0, "Seed product id for content similarity")
	cmd.Flags().StringVar(&flags.Category, "category", "", "Restrict results to a category")
	cmd.Flags().IntVarP(&flags.TopN, "top-n", "n", flags.TopN, "Number of products to return")
	cmd.Flags().Float64VarP(&flags.Diversity, "diversity", "d", flags.Diversity, "MMR diversity factor in [0,1], 0 disables re-ranking")
	return cmd
}

func newSimilarCmd() *cobra.Command {
	topN := recommend.SimilarTopN

	cmd := &cobra.Command{
		Use:   "similar <product-id>",
		Short: "Print the precomputed similarity list of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.Atoi(args[0])
			if err != nil || productID <= 0 {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			flags := queryFlags{ProductID: productID, TopN: topN}
			if err := flags.validate(); err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				trainForQuery(ctx, a)

				similar, err := a.engine.SimilarProducts(ctx, productID, topN)
				if err != nil {
					return fmt.Errorf("similar products: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), similar)
			})
		},
	}

	cmd.Flags().IntVarP(&topN, "top-n", "n", topN, "Number of products to return")
	return cmd
}

func newTrendingCmd() *cobra.Command {
	flags := queryFlags{TopN: recommend.TrendingTopN}

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Print the fastest growing products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				resp, err := a.engine.GetTrending(ctx, flags.Category, flags.TopN)
				if err != nil {
					return fmt.Errorf("trending: %w", err)
				}

				products, err := orderedProducts(ctx, a.db, resp.ProductIDs)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), recommendOutput{Response: resp, Products: products})
			})
		},
	}

	cmd.Flags().StringVar(&flags.Category, "category", "", "Restrict results to a category")
	cmd.Flags().IntVarP(&flags.TopN, "top-n", "n", flags.TopN, "Number of products to return")
	return cmd
}

// withApp loads configuration, builds the app, runs fn and closes the app.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Warn().Err(err).Msg("error closing resources")
		}
	}()
	return fn(ctx, a)
}

// trainForQuery trains the in-process model before a one-shot query. On
// failure the engine answers from its popularity fallback.
func trainForQuery(ctx context.Context, a *app) {
	if err := a.engine.Fit(ctx, false); err != nil && !errors.Is(err, recommend.ErrTrainingInProgress) {
		logging.Warn().Err(err).Msg("training failed, serving fallback results")
	}
}

// orderedProducts loads products and returns them in the order of ids.
func orderedProducts(ctx context.Context, reader recommend.ProductReader, ids []int) ([]recommend.Product, error) {
	products, err := reader.ProductsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[int]recommend.Product, len(products))
	for i := range products {
		byID[products[i].ID] = products[i]
	}
	out := make([]recommend.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
