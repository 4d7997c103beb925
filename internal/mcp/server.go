package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/attachx/pdfxml2csv/internal/config"
	"github.com/attachx/pdfxml2csv/internal/descriptions"
	"github.com/attachx/pdfxml2csv/internal/mapping"
	"github.com/attachx/pdfxml2csv/internal/pdf"
	"github.com/attachx/pdfxml2csv/internal/pipeline"
)

// Server exposes the PDF and CSV operations as MCP tools over stdio.
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	runner     *pipeline.Runner
	logger     *zap.Logger
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, runner *pipeline.Runner, logger *zap.Logger) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if runner == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		runner:     runner,
		logger:     logger,
		mcpServer:  mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pdfScanDirectoryTool := mcp.NewTool(
		"pdf_scan_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_scan_directory")),
		mcp.WithString("directory",
			mcp.Required(),
			mcp.Description("Directory to scan for PDF files"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Also walk subdirectories (hidden directories are always skipped)"),
		),
	)
	s.mcpServer.AddTool(pdfScanDirectoryTool, s.handlePDFScanDirectory)

	pdfValidateFileTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfValidateFileTool, s.handlePDFValidateFile)

	pdfInspectFileTool := mcp.NewTool(
		"pdf_inspect_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_inspect_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfInspectFileTool, s.handlePDFInspectFile)

	xmlDiscoverTagsTool := mcp.NewTool(
		"xml_discover_tags",
		mcp.WithDescription(descriptions.GetToolDescription("xml_discover_tags")),
		mcp.WithString("path",
			mcp.Description("Path to a single PDF file"),
		),
		mcp.WithString("directory",
			mcp.Description("Directory whose PDF files are all scanned"),
		),
	)
	s.mcpServer.AddTool(xmlDiscoverTagsTool, s.handleXMLDiscoverTags)

	csvGenerateTool := mcp.NewTool(
		"csv_generate",
		mcp.WithDescription(descriptions.GetToolDescription("csv_generate")),
		mcp.WithString("path",
			mcp.Description("Path to a single PDF file"),
		),
		mcp.WithString("directory",
			mcp.Description("Directory whose PDF files are all processed"),
		),
		mcp.WithString("mapping",
			mcp.Description("Mapping file to use instead of the configured one"),
		),
	)
	s.mcpServer.AddTool(csvGenerateTool, s.handleCSVGenerate)
}

// Handler functions
func (s *Server) handlePDFScanDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory, err := request.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	recursive := false
	if r, ok := request.GetArguments()["recursive"].(bool); ok {
		recursive = r
	}

	req := pdf.PDFScanDirectoryRequest{Directory: directory, Recursive: recursive}
	result, err := s.pdfService.PDFScanDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatPDFScanDirectoryResult(result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.PDFValidateFileRequest{Path: path}
	result, err := s.pdfService.PDFValidateFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFInspectFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.PDFInspectFileRequest{Path: path}
	result, err := s.pdfService.PDFInspectFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatPDFInspectFileResult(result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleXMLDiscoverTags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths, err := s.resolvePDFPaths(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.runner.Discover(paths)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatDiscoverResult(result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleCSVGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths, err := s.resolvePDFPaths(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mappingFile := s.config.MappingFile
	if mf, ok := request.GetArguments()["mapping"].(string); ok && mf != "" {
		mappingFile = mf
	}

	m, err := mapping.Load(mappingFile)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.runner.Process(paths, m)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatProcessResult(result)
	return mcp.NewToolResultText(responseText), nil
}

// resolvePDFPaths turns the path/directory arguments of a tool call
// into the list of PDFs to run over. A directory expands to its scan
// result; at least one of the two arguments must be given.
func (s *Server) resolvePDFPaths(request mcp.CallToolRequest) ([]string, error) {
	args := request.GetArguments()

	var paths []string
	if p, ok := args["path"].(string); ok && p != "" {
		paths = append(paths, p)
	}
	if dir, ok := args["directory"].(string); ok && dir != "" {
		files, err := s.pdfService.FindPDFsInDirectory(dir)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no PDF files found in directory: %s", dir)
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("provide a path or a directory argument")
	}
	return paths, nil
}

// Formatting methods
func (s *Server) formatPDFScanDirectoryResult(result *pdf.PDFScanDirectoryResult) string {
	if result.TotalCount == 0 {
		return fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
	}

	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatPDFInspectFileResult(result *pdf.PDFInspectFileResult) string {
	text := "PDF File Details\n"
	text += fmt.Sprintf("File: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Modified: %s\n", result.ModifiedDate)

	if result.Title != "" {
		text += fmt.Sprintf("Title: %s\n", result.Title)
	}
	if result.Author != "" {
		text += fmt.Sprintf("Author: %s\n", result.Author)
	}
	if result.Subject != "" {
		text += fmt.Sprintf("Subject: %s\n", result.Subject)
	}
	if result.Producer != "" {
		text += fmt.Sprintf("Producer: %s\n", result.Producer)
	}
	if result.CreatedDate != "" {
		text += fmt.Sprintf("Created: %s\n", result.CreatedDate)
	}

	if len(result.Attachments) == 0 {
		text += "\nNo attachments.\n"
		return text
	}

	text += fmt.Sprintf("\nAttachments (%d):\n", len(result.Attachments))
	for i, att := range result.Attachments {
		text += fmt.Sprintf("%d. %s (%d bytes", i+1, att.Name, att.Size)
		if att.Origin == pdf.OriginAnnotation {
			text += fmt.Sprintf(", page %d annotation", att.Page)
		} else {
			text += ", embedded file"
		}
		if att.XML {
			text += ", XML"
		}
		text += ")\n"
	}

	return text
}

func (s *Server) formatDiscoverResult(result *pipeline.DiscoverResult) string {
	text := "XML Tag Discovery\n"
	text += fmt.Sprintf("PDFs scanned: %d\n", result.PDFsScanned)
	text += fmt.Sprintf("PDFs with XML: %d\n", result.PDFsWithXML)
	text += fmt.Sprintf("Attachments seen: %d\n", result.AttachmentsSeen)
	text += fmt.Sprintf("XML documents parsed: %d\n", result.XMLDocuments)

	if len(result.Tags) == 0 {
		text += "\nNo XML tags found.\n"
	} else {
		text += fmt.Sprintf("\nTags (%d):\n", len(result.Tags))
		for _, tag := range result.Tags {
			text += fmt.Sprintf("  %s\n", tag)
		}
	}

	text += s.formatSkips(result.Skips)
	return text
}

func (s *Server) formatProcessResult(result *pipeline.ProcessResult) string {
	text := "CSV Generation Complete\n"
	text += fmt.Sprintf("PDFs processed: %d\n", result.PDFsProcessed)
	text += fmt.Sprintf("Attachments seen: %d\n", result.AttachmentsSeen)
	text += fmt.Sprintf("XML documents: %d\n", result.XMLDocuments)
	text += fmt.Sprintf("Rows written: %d\n", result.Rows)
	text += fmt.Sprintf("CSV file: %s\n", result.CSVPath)
	text += fmt.Sprintf("Archive directory: %s\n", result.ArchiveDir)

	text += s.formatSkips(result.Skips)
	return text
}

func (s *Server) formatSkips(skips []pipeline.Skip) string {
	if len(skips) == 0 {
		return ""
	}

	text := fmt.Sprintf("\nSkipped (%d):\n", len(skips))
	for _, skip := range skips {
		if skip.Attachment != "" {
			text += fmt.Sprintf("  %s: attachment %s: %s\n", skip.PDFPath, skip.Attachment, skip.Reason)
		} else {
			text += fmt.Sprintf("  %s: %s\n", skip.PDFPath, skip.Reason)
		}
	}
	return text
}

// Run serves the MCP tools over stdio. The parent process owns the
// lifecycle: Run returns when stdin closes or the transport fails.
func (s *Server) Run(_ context.Context) error {
	s.logger.Debug("starting MCP server on stdio",
		zap.String("name", s.config.ServerName),
		zap.String("version", s.config.Version))

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
