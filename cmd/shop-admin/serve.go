package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/shop-admin/internal/config"
	"github.com/Sternrassler/shop-admin/internal/web"
	"github.com/Sternrassler/shop-admin/pkg/logging"
	"github.com/Sternrassler/shop-admin/pkg/session"
	"github.com/Sternrassler/shop-admin/pkg/theme"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, v)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.String("redis-addr", "localhost:6379", "Redis address for session queries")
	flags.Bool("session", true, "restore each admin's last query per screen from Redis")
	flags.String("theme", string(theme.Light), "default theme: light or dark")

	bindFlag(v, cmd, config.KeyServerAddr, "addr")
	bindFlag(v, cmd, config.KeyRedisAddr, "redis-addr")
	bindFlag(v, cmd, config.KeySessionEnabled, "session")
	bindFlag(v, cmd, config.KeyThemeDefault, "theme")

	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	cfg, api, err := setup(v)
	if err != nil {
		return err
	}

	logger := logging.NewLogger("serve")

	opts := web.Options{
		API:        api,
		Theme:      theme.NewProvider(cfg.Theme),
		SessionTTL: cfg.Session.TTL,
	}

	if cfg.Session.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
			return fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")

		opts.Store = session.NewStore(redisClient, cfg.Session.TTL, log.Logger)
	}

	logger.Info().
		Str("api", cfg.API.BaseURL).
		Bool("authenticated", api.Authenticated()).
		Bool("session_restore", cfg.Session.Enabled).
		Msg("Dashboard configured")

	return web.New(opts).Run(ctx, cfg.Server.Addr)
}
