package pdf

// Attachment origins.
const (
	OriginEmbeddedFile = "embedded_file"
	OriginAnnotation   = "annotation"
)

// FileInfo represents information about a PDF file found on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Attachment represents one file embedded in a PDF, either in the
// document-level EmbeddedFiles name tree or behind a page-level
// FileAttachment annotation.
type Attachment struct {
	PDFPath string `json:"pdf_path"`
	Name    string `json:"name"`
	Origin  string `json:"origin"`         // "embedded_file" or "annotation"
	Page    int    `json:"page,omitempty"` // 1-based, annotations only
	Data    []byte `json:"-"`
}

// AttachmentInfo represents an attachment listing entry without the
// payload bytes, as shown by the inspect operation.
type AttachmentInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Origin string `json:"origin"`
	Page   int    `json:"page,omitempty"`
	XML    bool   `json:"xml"`
}

// Request Types

// PDFScanDirectoryRequest represents a request to scan a directory for PDF files
type PDFScanDirectoryRequest struct {
	Directory string `json:"directory"`
	Recursive bool   `json:"recursive"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFInspectFileRequest represents a request to inspect a PDF file
type PDFInspectFileRequest struct {
	Path string `json:"path"`
}

// PDFExtractAttachmentsRequest represents a request to extract the
// embedded file attachments of a PDF
type PDFExtractAttachmentsRequest struct {
	Path string `json:"path"`
}

// Response Types

// PDFScanDirectoryResult represents the result of a directory scan
type PDFScanDirectoryResult struct {
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	Directory  string     `json:"directory"`
	Recursive  bool       `json:"recursive"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// PDFInspectFileResult represents the result of a PDF inspect operation
type PDFInspectFileResult struct {
	Path         string           `json:"path"`
	Size         int64            `json:"size"`
	Pages        int              `json:"pages"`
	ModifiedDate string           `json:"modified_date"`
	CreatedDate  string           `json:"created_date,omitempty"`
	Title        string           `json:"title,omitempty"`
	Author       string           `json:"author,omitempty"`
	Subject      string           `json:"subject,omitempty"`
	Producer     string           `json:"producer,omitempty"`
	Attachments  []AttachmentInfo `json:"attachments"`
}

// PDFExtractAttachmentsResult represents the result of an attachment
// extraction operation
type PDFExtractAttachmentsResult struct {
	Path        string       `json:"path"`
	Attachments []Attachment `json:"attachments"`
	TotalCount  int          `json:"total_count"`
}
