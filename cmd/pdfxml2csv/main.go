// Package main is the entry point for the pdfxml2csv CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/attachx/pdfxml2csv/internal/config"
	"github.com/attachx/pdfxml2csv/internal/logging"
	"github.com/attachx/pdfxml2csv/internal/pdf"
	"github.com/attachx/pdfxml2csv/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// rootCmd is the base command for the pdfxml2csv CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfxml2csv",
	Short: "Extract XML attachments from PDF files into CSV",
	Long: `pdfxml2csv pulls the XML file attachments out of PDF documents (such as
e-invoices), discovers the element tags they carry, and turns the tag
values into CSV rows through a user-maintained tag to column mapping.

A processing run archives the raw XML of every attachment into a
timestamped folder and writes one CSV file, expanding repeated tags
into extra rows. Use discover to see the available tags, edit the
mapping file to pick the columns, then process to generate the CSV.`,
}

// app bundles the configured components a subcommand works with.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *pdf.Service
	runner  *pipeline.Runner
}

func newApp() (*app, error) {
	cfg, err := config.Load(version)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	service := pdf.NewService(cfg.MaxFileSize)
	return &app{
		cfg:     cfg,
		logger:  logger,
		service: service,
		runner:  pipeline.NewRunner(cfg, service, logger),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// collectPDFPaths resolves the positional arguments plus the --dir flag
// into the list of PDFs for a run, in selection order.
func collectPDFPaths(a *app, args []string, dir string) ([]string, error) {
	paths := append([]string(nil), args...)

	if dir != "" {
		files, err := a.service.FindPDFsInDirectory(dir)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no PDF files found in directory: %s", dir)
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no PDF files given: pass paths as arguments or use --dir")
	}
	return paths, nil
}

// printSkips surfaces every skipped unit of a run as a notice on
// stderr. Nothing is silently swallowed.
func printSkips(skips []pipeline.Skip) {
	for _, skip := range skips {
		if skip.Attachment != "" {
			fmt.Fprintf(os.Stderr, "notice: skipped attachment %s in %s: %s\n", skip.Attachment, skip.PDFPath, skip.Reason)
		} else {
			fmt.Fprintf(os.Stderr, "notice: skipped %s: %s\n", skip.PDFPath, skip.Reason)
		}
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfxml2csv.yaml or ~/.config/pdfxml2csv/pdfxml2csv.yaml)")
	rootCmd.PersistentFlags().String("mapping", "", "mapping file, XML tag to CSV column header (default mapping_config.json)")
	rootCmd.PersistentFlags().String("output-dir", "", "directory the CSV and archive are written under (default: working directory)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	_ = viper.BindPFlag("mapping", rootCmd.PersistentFlags().Lookup("mapping"))
	_ = viper.BindPFlag("outputdir", rootCmd.PersistentFlags().Lookup("output-dir"))
	_ = viper.BindPFlag("loglevel", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// .env values surface through viper's AutomaticEnv; a missing .env
	// file is the normal case.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	cobra.CheckErr(config.Setup(cfgFile))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
