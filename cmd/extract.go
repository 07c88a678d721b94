package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syllascope/syllascope/pkg/extract"
)

// extractCmd turns a raw curriculum text dump into the JSON document the
// loader expects: syllascope extract data.txt -o syllabus_data.json
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract a syllabus dataset from raw curriculum text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		doc, err := extract.Parse(in)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			fmt.Println(string(out))
			return nil
		}
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return err
		}
		fmt.Printf("Extracted %d courses to %s\n", len(doc.Courses), outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
}
