package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syllascope/syllascope/internal/utils"
	"github.com/syllascope/syllascope/pkg/cache"
	"github.com/syllascope/syllascope/pkg/course"
	"github.com/syllascope/syllascope/pkg/dataset"
	"github.com/syllascope/syllascope/pkg/filtersort"
)

// browseCmd implements: syllascope browse
//
//	--force             Bypass the cache and fetch from the network
//	--semester string   Exact semester match (e.g. S3)
//	--credits string    Exact credits match (e.g. 4)
//	--search string     Full-text filter over all course fields
//	--module-search     Filter scoped to module content only
//	--sort / --dir      Sort key (code, title, semester, credits) and direction
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List courses from the dataset, filtered and sorted",
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

		force, _ := cmd.Flags().GetBool("force")
		loader := dataset.New(store, url, utils.Log)
		res, err := loader.Load(cmd.Context(), force)
		if err != nil {
			return err
		}
		if res.FromCache {
			utils.Log.Debugf("dataset served from cache (hash %s)", res.Hash)
		} else {
			utils.Log.Debugf("dataset fetched from network (hash %s)", res.Hash)
		}

		st := filtersort.DefaultState()
		st.Semester, _ = cmd.Flags().GetString("semester")
		st.Credits, _ = cmd.Flags().GetString("credits")
		st.Search, _ = cmd.Flags().GetString("search")
		st.ModuleSearch, _ = cmd.Flags().GetString("module-search")
		sortBy, _ := cmd.Flags().GetString("sort")
		if sortBy != "" {
			st.SortBy = filtersort.SortKey(sortBy)
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir == string(filtersort.Descending) {
			st.SortDir = filtersort.Descending
		}

		visible := filtersort.Apply(res.Courses, st)

		outputFlags, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		for _, c := range visible {
			fmt.Println(formatCourse(c, outputFlags, delimiter))
		}
		utils.Log.Infof("%d of %d courses shown", len(visible), len(res.Courses))
		return nil
	},
}

// formatCourse renders one line per the output flag string: c (code),
// t (title), s (semester), r (credits), y (course type), g (group).
func formatCourse(c course.Course, outputFlags, delimiter string) string {
	var parts []string
	for _, f := range outputFlags {
		switch f {
		case 'c':
			parts = append(parts, c.Code)
		case 't':
			parts = append(parts, c.Title)
		case 's':
			parts = append(parts, c.Semester)
		case 'r':
			parts = append(parts, fmt.Sprintf("%g", c.Credits))
		case 'y':
			parts = append(parts, c.CourseType)
		case 'g':
			parts = append(parts, c.Group)
		}
	}
	return strings.Join(parts, delimiter)
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().Bool("force", false, "Bypass the cache and fetch fresh data")
	browseCmd.Flags().String("semester", "", "Filter by exact semester (e.g. S3)")
	browseCmd.Flags().String("credits", "", "Filter by exact credits (e.g. 4)")
	browseCmd.Flags().String("search", "", "Full-text filter over all course fields")
	browseCmd.Flags().String("module-search", "", "Filter scoped to module content only")
	browseCmd.Flags().String("sort", "code", "Sort key: code, title, semester, credits")
	browseCmd.Flags().String("dir", "asc", "Sort direction: asc or desc")
	browseCmd.Flags().StringP("output", "o", "cts", "Output flags. Supported: c (code), t (title), s (semester), r (credits), y (course type), g (group). Can be combined. Example: -o ctr")
	browseCmd.Flags().StringP("delimiter", "d", " ", "Delimiter character to use for txt output format")
}
