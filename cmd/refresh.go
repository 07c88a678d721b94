package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syllascope/syllascope/internal/utils"
	"github.com/syllascope/syllascope/pkg/cache"
	"github.com/syllascope/syllascope/pkg/dataset"
)

// refreshCmd performs one explicit network fetch and reports whether the
// remote content differs from the cached copy.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the dataset from the network and update the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := datasetURL(cmd)
		if err != nil {
			return err
		}
		store, err := cache.Open(cachePath(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		loader := dataset.New(store, url, utils.Log)

		rec, err := store.Get(ctx)
		if err != nil {
			utils.Log.Warnf("cache read failed: %v", err)
		}

		res, err := loader.FetchFresh(ctx)
		if err != nil {
			return err
		}

		if rec != nil && rec.ContentHash == res.Hash && rec.VersionTag == loader.Version {
			fmt.Printf("Dataset unchanged (%d courses, hash %s)\n", len(res.Courses), res.Hash)
			return nil
		}

		if err := store.Put(ctx, res.Raw, loader.Version, res.Hash); err != nil {
			return err
		}
		fmt.Printf("Dataset updated (%d courses, hash %s)\n", len(res.Courses), res.Hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
