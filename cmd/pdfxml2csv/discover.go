package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attachx/pdfxml2csv/internal/mapping"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [pdf...]",
	Short: "Discover the XML tag names across PDF attachments",
	Long: `Discover extracts the attachments of the given PDFs in memory, parses
the XML ones, and prints the sorted union of every element tag name
found. Nothing is written to disk, so discovery is safe to run against
any batch.

With --save-mapping, tags not yet present in the mapping file are
appended as placeholder entries with an empty column header. Existing
entries keep their headers and positions; edit the placeholders to turn
them into CSV columns.`,
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

		result, err := a.runner.Discover(paths)
		if err != nil {
			return err
		}
		printSkips(result.Skips)

		if len(result.Tags) == 0 {
			fmt.Printf("No XML tags found across %d PDF(s).\n", result.PDFsScanned)
			return nil
		}

		for _, tag := range result.Tags {
			fmt.Println(tag)
		}
		fmt.Printf("\n%d tag(s) across %d XML document(s) in %d PDF(s)\n",
			len(result.Tags), result.XMLDocuments, result.PDFsScanned)

		saveMapping, _ := cmd.Flags().GetBool("save-mapping")
		if !saveMapping {
			return nil
		}

		m, err := mapping.Load(a.cfg.MappingFile)
		if err != nil {
			return err
		}
		added := m.Merge(result.Tags)
		if added == 0 {
			fmt.Printf("Mapping %s already covers every discovered tag.\n", a.cfg.MappingFile)
			return nil
		}
		if err := m.Save(a.cfg.MappingFile); err != nil {
			return err
		}
		fmt.Printf("Added %d placeholder tag(s) to %s\n", added, a.cfg.MappingFile)
		return nil
	},
}

func init() {
	discoverCmd.Flags().String("dir", "", "discover across every PDF in this directory")
	discoverCmd.Flags().Bool("save-mapping", false, "append newly discovered tags to the mapping file as placeholders")

	rootCmd.AddCommand(discoverCmd)
}
