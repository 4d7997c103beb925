package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attachx/pdfxml2csv/internal/mapping"
)

var processCmd = &cobra.Command{
	Use:   "process [pdf...]",
	Short: "Extract, archive and generate the CSV for a batch of PDFs",
	Long: `Process runs the full pipeline over the given PDFs: extract their
attachments, archive the raw XML into a timestamped folder, build CSV
rows through the mapping, and write one CSV file for the whole batch.

A tag that repeats inside one XML document expands into extra rows,
with the other mapped values duplicated alongside. The mapping file
must have at least one entry with a column header; unreadable PDFs and
malformed XML attachments are skipped with a notice while the rest of
the batch proceeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		dir, _ := cmd.Flags().GetString("dir")
		paths, err := collectPDFPaths(a, args, dir)
		if err != nil {
			return err
		}

		m, err := mapping.Load(a.cfg.MappingFile)
		if err != nil {
			return err
		}

		result, err := a.runner.Process(paths, m)
		if err != nil {
			return err
		}
		printSkips(result.Skips)

		fmt.Printf("Processed %d PDF(s): %d XML document(s), %d row(s)\n",
			result.PDFsProcessed, result.XMLDocuments, result.Rows)
		fmt.Printf("CSV:     %s\n", result.CSVPath)
		fmt.Printf("Archive: %s\n", result.ArchiveDir)
		if len(result.Skips) > 0 {
			fmt.Printf("Skipped: %d (see notices above)\n", len(result.Skips))
		}
		return nil
	},
}

func init() {
	processCmd.Flags().String("dir", "", "process every PDF in this directory")

	rootCmd.AddCommand(processCmd)
}
