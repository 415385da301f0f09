package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crystal/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local frame and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// localCacheDir returns the directory of the file cache, or false when the
// configured backend is not file based.
func (c *CLI) localCacheDir() (string, bool, error) {
	opts := c.Config.Cache
	if opts.Backend != "" && opts.Backend != cache.BackendFile {
		return "", false, nil
	}
	if opts.Dir != "" {
		return opts.Dir, true, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", false, fmt.Errorf("get cache dir: %w", err)
	}
	return dir, true, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached frames and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok, err := c.localCacheDir()
			if err != nil {
				return err
			}
			if !ok {
				printWarning("The %s cache is shared; entries expire on their own", c.Config.Cache.Backend)
				return nil
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
				if err == nil && !d.IsDir() {
					count++
				}
				return nil
			})

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok, err := c.localCacheDir()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("the %s cache backend has no local directory", c.Config.Cache.Backend)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
