package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/idea-observation-api/internal/catalog"
	"github.com/noah-isme/idea-observation-api/internal/repository"
	"github.com/noah-isme/idea-observation-api/internal/service"
	"github.com/noah-isme/idea-observation-api/pkg/cache"
)

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the reference catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Upsert the IDEA and behavior categories shipped with the binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			c, err := catalog.Load()
			if err != nil {
				return err
			}

			redisClient, err := cache.NewRedis(ctx, a.cfg.Redis, a.cfg.Cache.Enabled)
			if err != nil {
				a.logger.Warn("redis unavailable, cached lists will expire on their own", zap.Error(err))
			}
			if redisClient != nil {
				defer redisClient.Close()
			}

			metrics := service.NewMetricsService()
			cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, "reference"), metrics, a.cfg.Cache.ReferenceTTL, a.logger, a.cfg.Cache.Enabled && redisClient != nil)
			reference := service.NewReferenceService(repository.NewReferenceRepository(a.db), cacheSvc, a.logger)

			result, err := reference.Sync(ctx, c)
			if err != nil {
				return err
			}
			cmd.Printf("synced %d IDEA categories and %d behavior categories\n", result.IdeaCategories, result.BehaviorCategories)
			return nil
		},
	})

	return cmd
}
