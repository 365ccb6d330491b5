package cli

import (
	"github.com/spf13/cobra"

	"github.com/OpenLiberty/open-liberty-sub391/internal/server"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/cache"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	cfg := server.DefaultConfig()
	var redisURL, redisPrefix string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ordering API over HTTP",
		Long: `Serve the ordering API over HTTP.

Results are cached in Redis when --redis-url is set, in the local cache
directory otherwise. Flags default to FRAGORDER_ADDR and FRAGORDER_REDIS_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var backend cache.Cache
			switch {
			case c.NoCache:
				backend = cache.NewNullCache()
			case redisURL != "":
				rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: redisURL, Prefix: redisPrefix})
				if err != nil {
					return err
				}
				c.Logger.Info("using redis cache", "prefix", redisPrefix)
				backend = rc
			default:
				fc, err := newCache(false)
				if err != nil {
					return err
				}
				backend = fc
			}

			runner := pipeline.NewRunner(backend, cache.NewScopedKeyer(nil, "api:"), c.Logger)
			defer runner.Close()

			return server.New(runner, c.Logger, cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", envOr("ADDR", cfg.Addr), "listen address")
	cmd.Flags().StringVar(&redisURL, "redis-url", envOr("REDIS_URL", ""), "Redis URL for the shared result cache")
	cmd.Flags().StringVar(&redisPrefix, "redis-prefix", "fragorder:", "key prefix in Redis")
	cmd.Flags().Int64Var(&cfg.MaxBodyBytes, "max-body", cfg.MaxBodyBytes, "maximum manifest size in bytes")

	return cmd
}
