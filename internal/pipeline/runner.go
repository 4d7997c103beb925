// Package pipeline orchestrates runs over a batch of PDFs: tag
// discovery across their XML attachments, and the processing pass that
// archives attachment bytes and generates the CSV.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/attachx/pdfxml2csv/internal/config"
	"github.com/attachx/pdfxml2csv/internal/mapping"
	"github.com/attachx/pdfxml2csv/internal/output"
	"github.com/attachx/pdfxml2csv/internal/pdf"
	"github.com/attachx/pdfxml2csv/internal/tabulate"
	"github.com/attachx/pdfxml2csv/internal/xmldoc"
)

// Skip records one unit a run left out: either a whole PDF or a single
// attachment, with the reason shown to the user.
type Skip struct {
	PDFPath    string `json:"pdf_path"`
	Attachment string `json:"attachment,omitempty"`
	Reason     string `json:"reason"`
}

// DiscoverResult is the outcome of a discovery pass.
type DiscoverResult struct {
	Tags            []string `json:"tags"`
	PDFsScanned     int      `json:"pdfs_scanned"`
	PDFsWithXML     int      `json:"pdfs_with_xml"`
	AttachmentsSeen int      `json:"attachments_seen"`
	XMLDocuments    int      `json:"xml_documents"`
	Skips           []Skip   `json:"skips,omitempty"`
}

// ProcessResult is the outcome of a full processing run.
type ProcessResult struct {
	PDFsProcessed   int    `json:"pdfs_processed"`
	AttachmentsSeen int    `json:"attachments_seen"`
	XMLDocuments    int    `json:"xml_documents"`
	Rows            int    `json:"rows"`
	CSVPath         string `json:"csv_path"`
	ArchiveDir      string `json:"archive_dir"`
	Skips           []Skip `json:"skips,omitempty"`
}

// Runner drives discovery and processing over a list of PDF paths, one
// document at a time, in the order given.
type Runner struct {
	cfg     *config.Config
	service *pdf.Service
	logger  *zap.Logger
}

// NewRunner creates a runner on top of the PDF service.
func NewRunner(cfg *config.Config, service *pdf.Service, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		service: service,
		logger:  logger,
	}
}

// Discover extracts the attachments of every given PDF in memory and
// returns the union of XML tag names, sorted and duplicate-free.
// Nothing is written to disk. Unreadable PDFs and malformed XML
// attachments are skipped with a notice.
func (r *Runner) Discover(pdfPaths []string) (*DiscoverResult, error) {
	result := &DiscoverResult{}
	var docs []*xmldoc.Document

	for _, pdfPath := range pdfPaths {
		extracted, err := r.service.PDFExtractAttachments(pdf.PDFExtractAttachmentsRequest{Path: pdfPath})
		if err != nil {
			result.Skips = append(result.Skips, r.skipPDF(pdfPath, err))
			continue
		}
		result.PDFsScanned++

		sawXML := false
		for _, att := range extracted.Attachments {
			result.AttachmentsSeen++
			doc, skip := r.parseAttachment(att)
			if skip != nil {
				result.Skips = append(result.Skips, *skip)
				continue
			}
			if doc == nil {
				continue
			}
			result.XMLDocuments++
			sawXML = true
			docs = append(docs, doc)
		}
		if sawXML {
			result.PDFsWithXML++
		}
	}

	result.Tags = xmldoc.UnionTags(docs)

	r.logger.Info("discovery complete",
		zap.Int("pdfs_scanned", result.PDFsScanned),
		zap.Int("xml_documents", result.XMLDocuments),
		zap.Int("tags", len(result.Tags)),
		zap.Int("skips", len(result.Skips)))

	return result, nil
}

// Process runs the full pipeline: per PDF, extract attachments,
// archive the raw bytes of every valid XML attachment and build CSV
// rows, then write the CSV. The mapping must have at least one active
// entry; write failures abort the run.
func (r *Runner) Process(pdfPaths []string, m *mapping.Mapping) (*ProcessResult, error) {
	if len(m.Active()) == 0 {
		return nil, fmt.Errorf("mapping has no active entries: map at least one tag to a column header")
	}

	stamp := time.Now().Format(output.StampLayout)

	archive := output.NewArchive(filepath.Join(r.cfg.ArchiveRoot(), stamp))
	if err := archive.Ensure(); err != nil {
		return nil, err
	}

	result := &ProcessResult{ArchiveDir: archive.Dir()}
	var rows [][]string

	for _, pdfPath := range pdfPaths {
		extracted, err := r.service.PDFExtractAttachments(pdf.PDFExtractAttachmentsRequest{Path: pdfPath})
		if err != nil {
			result.Skips = append(result.Skips, r.skipPDF(pdfPath, err))
			continue
		}
		result.PDFsProcessed++

		for _, att := range extracted.Attachments {
			result.AttachmentsSeen++
			doc, skip := r.parseAttachment(att)
			if skip != nil {
				result.Skips = append(result.Skips, *skip)
				continue
			}
			if doc == nil {
				continue
			}

			dest, err := archive.WriteAttachment(att.PDFPath, att.Name, att.Data)
			if err != nil {
				return nil, err
			}
			r.logger.Debug("archived attachment",
				zap.String("pdf", att.PDFPath),
				zap.String("attachment", att.Name),
				zap.String("dest", dest))

			result.XMLDocuments++
			rows = append(rows, tabulate.BuildRows(doc, m)...)
		}
	}

	csvPath := filepath.Join(r.cfg.OutputDir, output.CSVFileName(stamp))
	if err := output.WriteCSV(csvPath, m.Headers(), rows); err != nil {
		return nil, err
	}

	result.Rows = len(rows)
	result.CSVPath = csvPath

	r.logger.Info("run complete",
		zap.Int("pdfs_processed", result.PDFsProcessed),
		zap.Int("xml_documents", result.XMLDocuments),
		zap.Int("rows", result.Rows),
		zap.String("csv", csvPath),
		zap.Int("skips", len(result.Skips)))

	return result, nil
}

// parseAttachment classifies one attachment. It returns the parsed
// document for XML attachments, a skip notice for attachments that
// claim XML by name but do not parse, and (nil, nil) for everything
// else.
func (r *Runner) parseAttachment(att pdf.Attachment) (*xmldoc.Document, *Skip) {
	doc, err := xmldoc.Parse(att.Name, att.Data)
	if err == nil {
		return doc, nil
	}
	if !xmldoc.HasXMLName(att.Name) {
		// Not XML by name and not XML by content: simply not ours.
		return nil, nil
	}

	r.logger.Warn("skipping malformed xml attachment",
		zap.String("pdf", att.PDFPath),
		zap.String("attachment", att.Name),
		zap.Error(err))

	return nil, &Skip{
		PDFPath:    att.PDFPath,
		Attachment: att.Name,
		Reason:     skipReason(err),
	}
}

// skipPDF records one whole PDF being dropped from the run.
func (r *Runner) skipPDF(pdfPath string, err error) Skip {
	r.logger.Warn("skipping unreadable pdf",
		zap.String("pdf", pdfPath),
		zap.Error(err))
	return Skip{PDFPath: pdfPath, Reason: skipReason(err)}
}

// skipReason flattens the known error kinds into the short reason
// surfaced in results.
func skipReason(err error) string {
	var unreadable *pdf.UnreadableDocumentError
	if errors.As(err, &unreadable) {
		return fmt.Sprintf("unreadable document: %v", unreadable.Err)
	}
	var malformed *xmldoc.MalformedXMLError
	if errors.As(err, &malformed) {
		return fmt.Sprintf("malformed xml: %v", malformed.Err)
	}
	return err.Error()
}
