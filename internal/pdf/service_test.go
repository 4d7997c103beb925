package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/attachx/pdfxml2csv/internal/pdf/pdftest"
)

func TestNewService(t *testing.T) {
	maxFileSize := int64(1024 * 1024) // 1MB
	service := NewService(maxFileSize)

	if service == nil {
		t.Fatal("NewService returned nil")
	}

	if service.maxFileSize != maxFileSize {
		t.Errorf("Expected maxFileSize to be %d, got %d", maxFileSize, service.maxFileSize)
	}

	// Verify all components are initialized
	if service.validator == nil {
		t.Error("validator component should not be nil")
	}
	if service.scanner == nil {
		t.Error("scanner component should not be nil")
	}
	if service.inspector == nil {
		t.Error("inspector component should not be nil")
	}
	if service.extractor == nil {
		t.Error("extractor component should not be nil")
	}
}

func TestService_GetMaxFileSize(t *testing.T) {
	maxFileSize := int64(2 * 1024 * 1024) // 2MB
	service := NewService(maxFileSize)

	if service.GetMaxFileSize() != maxFileSize {
		t.Errorf("Expected %d, got %d", maxFileSize, service.GetMaxFileSize())
	}
}

func TestService_EndToEnd(t *testing.T) {
	service := NewService(1024 * 1024)

	tempDir, err := os.MkdirTemp("", "pdf_service_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := pdftest.Doc{
		Info: pdftest.Info{Title: "Service Test"},
		Attachments: []pdftest.Attachment{
			{Name: "data.xml", Data: []byte("<data><v>1</v></data>")},
		},
	}.WriteFile(t, filepath.Join(tempDir, "doc.pdf"))

	// Validation
	validated, err := service.PDFValidateFile(PDFValidateFileRequest{Path: path})
	if err != nil {
		t.Fatalf("PDFValidateFile: %v", err)
	}
	if !validated.Valid {
		t.Errorf("expected valid PDF, got message: %s", validated.Message)
	}
	if !service.IsValidPDF(path) {
		t.Error("IsValidPDF should report true")
	}

	// Directory scan
	scanned, err := service.PDFScanDirectory(PDFScanDirectoryRequest{Directory: tempDir})
	if err != nil {
		t.Fatalf("PDFScanDirectory: %v", err)
	}
	if scanned.TotalCount != 1 {
		t.Errorf("expected 1 PDF in scan, got %d", scanned.TotalCount)
	}

	count, err := service.CountPDFsInDirectory(tempDir)
	if err != nil || count != 1 {
		t.Errorf("expected count 1, got %d (err: %v)", count, err)
	}

	files, err := service.FindPDFsInDirectory(tempDir)
	if err != nil || len(files) != 1 {
		t.Fatalf("expected 1 file from FindPDFsInDirectory, got %d (err: %v)", len(files), err)
	}
	if files[0].Path != path {
		t.Errorf("expected path %s, got %s", path, files[0].Path)
	}

	// Inspection
	inspected, err := service.PDFInspectFile(PDFInspectFileRequest{Path: path})
	if err != nil {
		t.Fatalf("PDFInspectFile: %v", err)
	}
	if inspected.Title != "Service Test" {
		t.Errorf("expected title 'Service Test', got %q", inspected.Title)
	}
	if len(inspected.Attachments) != 1 || !inspected.Attachments[0].XML {
		t.Errorf("expected one XML attachment, got %+v", inspected.Attachments)
	}

	// Extraction
	extracted, err := service.PDFExtractAttachments(PDFExtractAttachmentsRequest{Path: path})
	if err != nil {
		t.Fatalf("PDFExtractAttachments: %v", err)
	}
	if extracted.TotalCount != 1 || extracted.Attachments[0].Name != "data.xml" {
		t.Errorf("unexpected extraction result: %+v", extracted)
	}
}
