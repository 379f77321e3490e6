package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cactus/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ch, err := c.newCache(ctx)
			if err != nil {
				return err
			}
			defer ch.Close()

			switch ch := ch.(type) {
			case *cache.FileCache:
				if _, err := os.Stat(ch.Dir()); os.IsNotExist(err) {
					printInfo("Cache is empty")
					return nil
				}
				n, err := ch.Clear()
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", n)
				printDetail("Directory: %s", ch.Dir())
			case *cache.RedisCache:
				n, err := ch.Clear(ctx)
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", n)
				printDetail("Redis: %s", c.cfg().Cache.Redis.Addr)
			default:
				printInfo("Caching is disabled")
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.cfg().Cache
			switch strings.ToLower(cc.Backend) {
			case backendRedis:
				fmt.Println("redis://" + cc.Redis.Addr)
			case backendNone:
				printInfo("Caching is disabled")
			default:
				dir := cc.Dir
				if dir == "" {
					d, err := cacheDir()
					if err != nil {
						return fmt.Errorf("get cache dir: %w", err)
					}
					dir = d
				}
				fmt.Println(dir)
			}
			return nil
		},
	}
}
