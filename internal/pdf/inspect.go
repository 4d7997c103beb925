package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/attachx/pdfxml2csv/internal/xmldoc"
)

// Inspector handles PDF inspection operations: page count, document
// information and the attachment listing.
type Inspector struct {
	maxFileSize int64
	validator   *Validator
	extractor   *Extractor
}

// NewInspector creates a new PDF inspector with the specified constraints
func NewInspector(maxFileSize int64) *Inspector {
	return &Inspector{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
		extractor:   NewExtractor(maxFileSize),
	}
}

// InspectFile returns detailed information about a single PDF file,
// including every attachment it carries and whether each one counts
// as XML.
func (i *Inspector) InspectFile(req PDFInspectFileRequest) (*PDFInspectFileResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	// Check if file exists and get basic info
	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	// Validate file
	if err := i.validator.ValidateFileInfo(req.Path, fileInfo); err != nil {
		return nil, err
	}

	// Open and parse PDF for metadata
	f, r, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	result := &PDFInspectFileResult{
		Path:         req.Path,
		Size:         fileInfo.Size(),
		Pages:        r.NumPage(),
		ModifiedDate: fileInfo.ModTime().Format("2006-01-02 15:04:05"),
	}

	// Extract metadata if available
	i.extractMetadata(r, result)

	extracted, err := i.extractor.ExtractAttachments(PDFExtractAttachmentsRequest{Path: req.Path})
	if err != nil {
		return nil, err
	}
	result.Attachments = make([]AttachmentInfo, 0, len(extracted.Attachments))
	for _, a := range extracted.Attachments {
		result.Attachments = append(result.Attachments, AttachmentInfo{
			Name:   a.Name,
			Size:   int64(len(a.Data)),
			Origin: a.Origin,
			Page:   a.Page,
			XML:    xmldoc.IsXML(a.Name, a.Data),
		})
	}

	return result, nil
}

// extractMetadata safely extracts document information from the PDF reader
func (i *Inspector) extractMetadata(r *pdf.Reader, result *PDFInspectFileResult) {
	defer func() {
		// Recover from any panics during metadata extraction
		if recover() != nil {
			// Metadata extraction failed, but the basic result is still usable
		}
	}()

	trailer := r.Trailer()
	if trailer.IsNull() {
		return
	}

	info := trailer.Key("Info")
	if info.IsNull() {
		return
	}

	if title := info.Key("Title"); !title.IsNull() {
		result.Title = strings.TrimSpace(title.Text())
	}

	if author := info.Key("Author"); !author.IsNull() {
		result.Author = strings.TrimSpace(author.Text())
	}

	if subject := info.Key("Subject"); !subject.IsNull() {
		result.Subject = strings.TrimSpace(subject.Text())
	}

	if producer := info.Key("Producer"); !producer.IsNull() {
		result.Producer = strings.TrimSpace(producer.Text())
	}

	if creationDate := info.Key("CreationDate"); !creationDate.IsNull() {
		result.CreatedDate = strings.TrimSpace(creationDate.Text())
	}
}
