package pdf

// Service handles PDF file operations by orchestrating the individual components
type Service struct {
	maxFileSize int64
	validator   *Validator
	scanner     *Scanner
	inspector   *Inspector
	extractor   *Extractor
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64) *Service {
	return &Service{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
		scanner:     NewScanner(maxFileSize),
		inspector:   NewInspector(maxFileSize),
		extractor:   NewExtractor(maxFileSize),
	}
}

// PDFScanDirectory lists the PDF files in a directory
func (s *Service) PDFScanDirectory(req PDFScanDirectoryRequest) (*PDFScanDirectoryResult, error) {
	return s.scanner.ScanDirectory(req)
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	return s.validator.ValidateFile(req)
}

// PDFInspectFile returns detailed information about a single PDF file,
// attachments included
func (s *Service) PDFInspectFile(req PDFInspectFileRequest) (*PDFInspectFileResult, error) {
	return s.inspector.InspectFile(req)
}

// PDFExtractAttachments extracts the file attachments of a PDF
func (s *Service) PDFExtractAttachments(req PDFExtractAttachmentsRequest) (*PDFExtractAttachmentsResult, error) {
	return s.extractor.ExtractAttachments(req)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// CountPDFsInDirectory counts the number of valid PDF files directly under a directory
func (s *Service) CountPDFsInDirectory(directory string) (int, error) {
	return s.scanner.CountPDFsInDirectory(directory)
}

// FindPDFsInDirectory lists the PDF files directly under a directory
func (s *Service) FindPDFsInDirectory(directory string) ([]FileInfo, error) {
	return s.scanner.FindPDFsInDirectory(directory)
}
