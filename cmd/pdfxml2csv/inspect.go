package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attachx/pdfxml2csv/internal/pdf"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <pdf>",
	Short: "Show metadata and the attachment listing of one PDF",
	Long: `Inspect opens a single PDF and prints its page count, document
information, and every attachment it carries: name, size, whether it
sits in the document-level embedded files or behind a page annotation,
and whether it counts as XML. The XML flag uses the same classification
as processing, so the listing predicts exactly what a run would pick
up. Nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.service.PDFInspectFile(pdf.PDFInspectFileRequest{Path: args[0]})
		if err != nil {
			return err
		}

		fmt.Printf("File:     %s\n", result.Path)
		fmt.Printf("Size:     %d bytes\n", result.Size)
		fmt.Printf("Pages:    %d\n", result.Pages)
		fmt.Printf("Modified: %s\n", result.ModifiedDate)
		if result.Title != "" {
			fmt.Printf("Title:    %s\n", result.Title)
		}
		if result.Author != "" {
			fmt.Printf("Author:   %s\n", result.Author)
		}
		if result.Subject != "" {
			fmt.Printf("Subject:  %s\n", result.Subject)
		}
		if result.Producer != "" {
			fmt.Printf("Producer: %s\n", result.Producer)
		}
		if result.CreatedDate != "" {
			fmt.Printf("Created:  %s\n", result.CreatedDate)
		}

		if len(result.Attachments) == 0 {
			fmt.Println("\nNo attachments.")
			return nil
		}

		fmt.Printf("\nAttachments (%d):\n", len(result.Attachments))
		for i, att := range result.Attachments {
			origin := "embedded file"
			if att.Origin == pdf.OriginAnnotation {
				origin = fmt.Sprintf("page %d annotation", att.Page)
			}
			kind := ""
			if att.XML {
				kind = "  [xml]"
			}
			fmt.Printf("%2d. %s  (%d bytes, %s)%s\n", i+1, att.Name, att.Size, origin, kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
