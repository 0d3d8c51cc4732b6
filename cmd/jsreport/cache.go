package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jsreport/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the lint result cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached lint result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cache.Open("jsreport")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if err := c.DropAll(); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}
		quiet, err := quietFlag(cmd)
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", c.Dir())
		}
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cache.Open("jsreport")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCmd.AddCommand(cachePathCmd)
}
