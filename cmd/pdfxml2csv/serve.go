package main

import (
	"github.com/spf13/cobra"

	"github.com/attachx/pdfxml2csv/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction tools over MCP stdio",
	Long: `Serve runs an MCP (Model Context Protocol) server on stdin/stdout,
exposing the scan, validate, inspect, discover and generate operations
as tools. Logs go to stderr so stdout stays clean for the protocol; the
parent process owns the lifecycle and the server exits when stdin
closes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		server, err := mcp.NewServer(a.cfg, a.service, a.runner, a.logger)
		if err != nil {
			return err
		}
		return server.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
