package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/syllascope/syllascope/internal/utils"
	"github.com/syllascope/syllascope/pkg/cache"
	"github.com/syllascope/syllascope/pkg/dataset"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-semester and per-type course counts",
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

		loader := dataset.New(store, url, utils.Log)
		res, err := loader.Load(cmd.Context(), false)
		if err != nil {
			return err
		}

		bySemester := make(map[string]int)
		byType := make(map[string]int)
		for _, c := range res.Courses {
			bySemester[c.Semester]++
			if c.CourseType != "" {
				byType[c.CourseType]++
			}
		}

		fmt.Printf("Courses: %d\n\n", len(res.Courses))
		fmt.Println("By semester:")
		for _, k := range sortedKeys(bySemester) {
			fmt.Printf("  %-10s %d\n", k, bySemester[k])
		}
		if len(byType) > 0 {
			fmt.Println("\nBy course type:")
			for _, k := range sortedKeys(byType) {
				fmt.Printf("  %-10s %d\n", k, byType[k])
			}
		}
		return nil
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
