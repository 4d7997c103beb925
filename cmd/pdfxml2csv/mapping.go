package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/attachx/pdfxml2csv/internal/mapping"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Work with the tag to column mapping file",
	Long: `Mapping manages the file that associates XML tag names with CSV column
headers. The file is a flat key-value document (JSON by default, YAML
by extension) meant to be edited by hand; entry order decides the CSV
column order.`,
}

// --- show subcommand ---

var mappingShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the mapping entries in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		m, err := mapping.Load(a.cfg.MappingFile)
		if err != nil {
			return err
		}

		if m.Len() == 0 {
			fmt.Printf("Mapping %s is empty. Run discover --save-mapping to pre-populate it.\n", a.cfg.MappingFile)
			return nil
		}

		for _, e := range m.Entries() {
			if e.Header == "" {
				fmt.Printf("%-30s  (unmapped)\n", e.Tag)
			} else {
				fmt.Printf("%-30s  %s\n", e.Tag, e.Header)
			}
		}

		active := len(m.Active())
		fmt.Printf("\n%d entr%s, %d active\n", m.Len(), plural(m.Len(), "y", "ies"), active)
		return nil
	},
}

// --- init subcommand ---

var mappingInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty mapping file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if _, err := os.Stat(a.cfg.MappingFile); err == nil {
			return fmt.Errorf("mapping file already exists: %s", a.cfg.MappingFile)
		}

		if err := mapping.New().Save(a.cfg.MappingFile); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", a.cfg.MappingFile)
		return nil
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	mappingCmd.AddCommand(mappingShowCmd)
	mappingCmd.AddCommand(mappingInitCmd)

	rootCmd.AddCommand(mappingCmd)
}
