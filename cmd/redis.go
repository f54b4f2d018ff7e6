package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"musiclib/cache"
	"musiclib/logger"

	"github.com/spf13/cobra"
)

var redisFlush bool

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis entry cache",
	Long:  `Ping the configured Redis server. With --flush, drop every cached music entry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if !cfg.CacheEnabled() {
			return errors.New("REDIS_HOST is not set")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Redis: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		client, err := cache.ConnectRedis(cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		fmt.Fprintln(out, "PING ok")

		if !redisFlush {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := cache.NewRedisEntryCache(client, cfg.CacheTTL).Flush(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "removed %d cached entries\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
	redisCmd.Flags().BoolVar(&redisFlush, "flush", false, "delete all cached music entries")
}
