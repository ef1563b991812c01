package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chanroute/pkg/cache"
	errs "github.com/matzehuels/chanroute/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// localCacheDir returns the directory of the file cache. Other backends
// are managed with their own tools.
func (c *CLI) localCacheDir() (string, error) {
	if c.Config.Cache.Backend != backendFile {
		return "", errs.New(errs.ErrCodeUnsupported, "cache backend %q is not a local directory", c.Config.Cache.Backend)
	}
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}

// openFileCache opens the file cache, or returns nil when it was never created.
func (c *CLI) openFileCache() (*cache.FileCache, error) {
	dir, err := c.localCacheDir()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	return cache.NewFileCache(dir)
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo(out, "Cache is empty")
				return nil
			}

			count, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess(out, "Cleared %d cached entries", count)
			printDetail(out, "Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo(out, "Cache is empty")
				return nil
			}

			count, err := fc.Prune()
			if err != nil {
				return err
			}
			printSuccess(out, "Pruned %d expired entries", count)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.localCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
