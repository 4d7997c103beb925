package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Discovery Tools
	PDFScanDirectoryDescription = `Find the PDF files in a directory before extracting anything from them.

**When to use:** Need to know which PDFs exist in a folder, build a processing batch, or verify a drop directory before a run.

**Why it's useful:** Lists only files that pass the basic checks (PDF extension, non-empty, under the size limit) so later steps work from a clean batch, with sizes and modification times included.

**Examples:**
• Batch preparation: "Scan /invoices/ to see which PDFs arrived today"
• Drop folder check: "List PDFs under /incoming/ including subfolders"
• Inventory: "Count the PDFs in /archive/2024/ before planning a run"

**Common workflows:**
1. Batch Processing: Scan directory → Review file list → Generate CSV from the batch
2. Monitoring: Scan drop folder → Compare counts → Alert on unexpected files
3. Cleanup: Scan → Identify oversized or empty files → Fix before processing

**Best practices:** Use recursive mode for nested folder structures; hidden directories are always skipped.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before attempting to extract attachments from any PDF file, especially in automated workflows or when handling user uploads.

**Why it's useful:** Prevents processing errors, identifies corrupted files early, and ensures compatibility with the extraction tools.

**Examples:**
• Batch processing safety: "Validate all PDFs in /invoices/ before bulk extraction"
• Upload verification: "Check user-uploaded contract.pdf is valid before processing"
• Quality control: "Verify exported-report.pdf is readable before archiving"

**Common workflows:**
1. Automated Processing: Validate → Process if valid → Handle errors gracefully
2. File Quality Check: Validate → Report issues → Fix or reject bad files
3. Pre-processing Pipeline: Validate → Route to extraction → Archive results

**Best practices:** Always run this first in automated workflows, essential for production systems handling unknown PDFs.`

	PDFInspectFileDescription = `Get metadata and the full attachment listing of a PDF document.

**When to use:** Need page count, document properties, or to see which attachments a PDF carries and which of them are XML, before committing to a run.

**Why it's useful:** Shows both document-level embedded files and page-level annotation attachments with sizes and an XML classification, so you know what a processing run would pick up.

**Examples:**
• Attachment audit: "Inspect e-invoice.pdf to confirm it carries the XML payload"
• Document management: "Get creation date and author from contract.pdf for filing"
• Troubleshooting: "Check whether report.pdf carries any XML attachments at all"

**Common workflows:**
1. Pre-run Audit: Inspect file → Confirm XML attachments present → Process the batch
2. Debugging: Inspect → Compare attachment names against expectations → Fix upstream export
3. Cataloging: Inspect → Store metadata → Index for search

**Best practices:** The XML flag uses the same classification as processing (name ends in .xml or the bytes parse), so the listing predicts run behavior exactly.`

	// Extraction Tools
	XMLDiscoverTagsDescription = `Discover the XML tag names available across PDF attachments.

**When to use:** Setting up or extending the tag-to-column mapping, or exploring what data a new batch of e-invoice PDFs actually contains.

**Why it's useful:** Returns the sorted union of every element name found in the XML attachments of one PDF or a whole directory, so the mapping can be edited against real data instead of guesswork.

**Examples:**
• Mapping setup: "Discover tags in /invoices/ to decide which become CSV columns"
• Format change detection: "Discover tags in the new supplier's sample.pdf and compare with the current mapping"
• Exploration: "What fields does e-factura.pdf carry?"

**Common workflows:**
1. Initial Setup: Discover tags → Edit mapping file with column headers → Generate CSV
2. Format Migration: Discover tags on new samples → Merge new tags into mapping → Review placeholders
3. Quality Check: Discover → Verify expected tags present → Investigate gaps

**Best practices:** Discovery is read-only and touches nothing on disk; malformed XML attachments are reported but never abort the scan.`

	CSVGenerateDescription = `Run the full extraction: archive XML attachments and generate the CSV.

**When to use:** The mapping file has its column headers filled in and a batch of PDFs is ready to be turned into a spreadsheet.

**Why it's useful:** One call does the whole run: extracts attachments, archives the raw XML per run for traceability, expands repeated tags into extra rows, and writes a timestamped CSV.

**Examples:**
• Monthly batch: "Generate the CSV for every PDF in /invoices/march/"
• Single document: "Process e-invoice-0042.pdf into rows"
• Re-run after mapping edit: "Regenerate with the updated column mapping"

**Common workflows:**
1. Standard Run: Discover tags → Edit mapping → Generate CSV → Import into spreadsheet
2. Audit Trail: Generate CSV → Keep the timestamped raw XML archive → Trace any row to its source
3. Incremental: Process new PDFs → Append results downstream → Archive folders accumulate per run

**Best practices:** Requires at least one mapped (non-placeholder) entry in the mapping file; unreadable PDFs and malformed XML attachments are skipped with notices instead of failing the whole run.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"pdf_scan_directory": PDFScanDirectoryDescription,
	"pdf_validate_file":  PDFValidateFileDescription,
	"pdf_inspect_file":   PDFInspectFileDescription,
	"xml_discover_tags":  XMLDiscoverTagsDescription,
	"csv_generate":       CSVGenerateDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
