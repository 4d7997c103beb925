package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attachx/pdfxml2csv/internal/pdf"
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "List the PDF files in a directory",
	Long: `Scan lists the PDF files under a directory, with size and modification
time. Only files that pass the basic checks (PDF extension, non-empty,
under the size limit) are listed, so the result is the batch a
processing run would accept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		recursive, _ := cmd.Flags().GetBool("recursive")

		result, err := a.service.PDFScanDirectory(pdf.PDFScanDirectoryRequest{
			Directory: args[0],
			Recursive: recursive,
		})
		if err != nil {
			return err
		}

		if result.TotalCount == 0 {
			fmt.Printf("No PDF files found in %s\n", result.Directory)
			return nil
		}

		for _, f := range result.Files {
			fmt.Printf("%-12d  %s  %s\n", f.Size, f.ModifiedTime, f.Path)
		}
		fmt.Printf("\n%d PDF file(s) in %s\n", result.TotalCount, result.Directory)
		return nil
	},
}

func init() {
	scanCmd.Flags().Bool("recursive", false, "also walk subdirectories (hidden directories are skipped)")

	rootCmd.AddCommand(scanCmd)
}
