package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/attachx/pdfxml2csv/internal/config"
	"github.com/attachx/pdfxml2csv/internal/mapping"
	"github.com/attachx/pdfxml2csv/internal/output"
	"github.com/attachx/pdfxml2csv/internal/pdf"
	"github.com/attachx/pdfxml2csv/internal/pdf/pdftest"
)

func newTestRunner(t *testing.T) (*Runner, *config.Config, string) {
	t.Helper()

	outDir := t.TempDir()
	cfg := &config.Config{
		MappingFile:    filepath.Join(outDir, "mapping_config.json"),
		OutputDir:      outDir,
		ArchiveDirName: "extracted_xml",
		LogLevel:       "info",
		MaxFileSize:    10 * 1024 * 1024,
	}
	runner := NewRunner(cfg, pdf.NewService(cfg.MaxFileSize), zap.NewNop())
	return runner, cfg, outDir
}

func activeMapping(pairs ...string) *mapping.Mapping {
	m := mapping.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func readFileString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestDiscoverUnionsTagsAcrossPDFs(t *testing.T) {
	runner, cfg, _ := newTestRunner(t)
	docsDir := t.TempDir()

	first := pdftest.Doc{
		Attachments: []pdftest.Attachment{
			{Name: "invoice.xml", Data: []byte(`<Invoice><Nume>Ion</Nume><Suma>10</Suma></Invoice>`)},
			{Name: "readme.txt", Data: []byte("no xml at all, honestly }{")},
		},
	}.WriteFile(t, filepath.Join(docsDir, "first.pdf"))

	second := pdftest.Doc{
		Attachments: []pdftest.Attachment{
			{Name: "note.xml", Data: []byte(`<Invoice><Data>2024</Data></Invoice>`), Annot: true},
		},
	}.WriteFile(t, filepath.Join(docsDir, "second.pdf"))

	result, err := runner.Discover([]string{first, second})
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Invoice", "Nume", "Suma"}, result.Tags)
	assert.Equal(t, 2, result.PDFsScanned)
	assert.Equal(t, 2, result.PDFsWithXML)
	assert.Equal(t, 3, result.AttachmentsSeen)
	assert.Equal(t, 2, result.XMLDocuments)
	assert.Empty(t, result.Skips)

	// Discovery must not touch the output directory.
	_, err = os.Stat(cfg.ArchiveRoot())
	assert.True(t, os.IsNotExist(err))
}

func TestDiscoverNoAttachments(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	docsDir := t.TempDir()

	path := pdftest.Doc{}.WriteFile(t, filepath.Join(docsDir, "bare.pdf"))

	result, err := runner.Discover([]string{path})
	require.NoError(t, err)

	assert.Empty(t, result.Tags)
	assert.Equal(t, 1, result.PDFsScanned)
	assert.Equal(t, 0, result.PDFsWithXML)
	assert.Empty(t, result.Skips)
}

func TestDiscoverSkipsUnreadablePDF(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	docsDir := t.TempDir()

	garbage := filepath.Join(docsDir, "broken.pdf")
	require.NoError(t, os.WriteFile(garbage, []byte("%PDF-1.7 not really"), 0o644))

	good := pdftest.Doc{
		Attachments: []pdftest.Attachment{
			{Name: "a.xml", Data: []byte(`<a><b>1</b></a>`)},
		},
	}.WriteFile(t, filepath.Join(docsDir, "good.pdf"))

	result, err := runner.Discover([]string{garbage, good})
	require.NoError(t, err)

	assert.Equal(t, 1, result.PDFsScanned)
	assert.Equal(t, []string{"a", "b"}, result.Tags)
	require.Len(t, result.Skips, 1)
	assert.Equal(t, garbage, result.Skips[0].PDFPath)
	assert.Empty(t, result.Skips[0].Attachment)
	assert.Contains(t, result.Skips[0].Reason, "unreadable document")
}

func TestDiscoverSkipsMalformedXMLOnlyWhenNameClaimsXML(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	docsDir := t.TempDir()

	path := pdftest.Doc{
		Attachments: []pdftest.Attachment{
			{Name: "broken.xml", Data: []byte("<broken><unclosed>")},
			{Name: "binary.dat", Data: []byte{0x01, 0x02, 0x03}},
			{Name: "fine.xml", Data: []byte("<fine><x>1</x></fine>")},
		},
	}.WriteFile(t, filepath.Join(docsDir, "mixed.pdf"))

	result, err := runner.Discover([]string{path})
	require.NoError(t, err)

	assert.Equal(t, []string{"fine", "x"}, result.Tags)
	assert.Equal(t, 3, result.AttachmentsSeen)
	assert.Equal(t, 1, result.XMLDocuments)

	// binary.dat fails the sniff silently; only broken.xml is a notice.
	require.Len(t, result.Skips, 1)
	assert.Equal(t, "broken.xml", result.Skips[0].Attachment)
	assert.Contains(t, result.Skips[0].Reason, "malformed xml")
}

func TestProcessWritesCSVAndArchive(t *testing.T) {
	runner, _, outDir := newTestRunner(t)
	docsDir := t.TempDir()

	path := pdftest.Doc{
		Attachments: []pdftest.Attachment{
			{Name: "order.xml", Data: []byte(`<order><id>7</id><item>a</item><item>b</item></order>`)},
		},
	}.WriteFile(t, filepath.Join(docsDir, "orders.pdf"))

	m := activeMapping("id", "ID", "item", "Item")

	result, err := runner.Process([]string{path}, m)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PDFsProcessed)
	assert.Equal(t, 1, result.AttachmentsSeen)
	assert.Equal(t, 1, result.XMLDocuments)
	assert.Equal(t, 2, result.Rows)
	assert.Empty(t, result.Skips)

	// CSV: header plus expanded rows, CRLF line ends.
	assert.True(t, strings.HasPrefix(filepath.Base(result.CSVPath), "output_"))
	assert.Equal(t, outDir, filepath.Dir(result.CSVPath))
	csvContent := readFileString(t, result.CSVPath)
	assert.Equal(t, "ID,Item\r\n7,a\r\n7,b\r\n", csvContent)

	// Archive: raw bytes under <output>/extracted_xml/<stamp>/.
	assert.Equal(t, filepath.Join(outDir, "extracted_xml"), filepath.Dir(result.ArchiveDir))
	archived := readFileString(t, filepath.Join(result.ArchiveDir, "orders_order.xml"))
	assert.Equal(t, `<order><id>7</id><item>a</item><item>b</item></order>`, archived)
}

func TestProcessAccumulatesRowsAcrossDocuments(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	docsDir := t.TempDir()

	first := pdftest.Doc{
		Attachments: []pdftest.Attachment{
			{Name: "a.xml", Data: []byte(`<r><id>1</id></r>`)},
			{Name: "b.xml", Data: []byte(`<r><id>2</id><id>3</id></r>`)},
		},
	}.WriteFile(t, filepath.Join(docsDir, "first.pdf"))

	second := pdftest.Doc{
		Attachments: []pdftest.Attachment{
			{Name: "c.xml", Data: []byte(`<r><id>4</id></r>`), Annot: true},
		},
	}.WriteFile(t, filepath.Join(docsDir, "second.pdf"))

	result, err := runner.Process([]string{first, second}, activeMapping("id", "ID"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.PDFsProcessed)
	assert.Equal(t, 3, result.XMLDocuments)
	assert.Equal(t, 4, result.Rows)

	csvContent := readFileString(t, result.CSVPath)
	assert.Equal(t, "ID\r\n1\r\n2\r\n3\r\n4\r\n", csvContent)
}

func TestProcessRequiresActiveMapping(t *testing.T) {
	runner, cfg, _ := newTestRunner(t)

	tests := []struct {
		name string
		m    *mapping.Mapping
	}{
		{name: "empty mapping", m: mapping.New()},
		{name: "placeholders only", m: func() *mapping.Mapping {
			m := mapping.New()
			m.Merge([]string{"tag_a", "tag_b"})
			return m
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Process([]string{"whatever.pdf"}, tt.m)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "no active entries")

			// Nothing may be created before the precondition passes.
			_, statErr := os.Stat(cfg.ArchiveRoot())
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestProcessHeaderOnlyCSVWhenNoXML(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	docsDir := t.TempDir()

	path := pdftest.Doc{
		Attachments: []pdftest.Attachment{
			{Name: "readme.txt", Data: []byte("nothing to see")},
		},
	}.WriteFile(t, filepath.Join(docsDir, "plain.pdf"))

	result, err := runner.Process([]string{path}, activeMapping("id", "ID"))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Rows)
	assert.Equal(t, 0, result.XMLDocuments)
	csvContent := readFileString(t, result.CSVPath)
	assert.Equal(t, "ID\r\n", csvContent)
}

func TestProcessContinuesPastUnreadablePDF(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	docsDir := t.TempDir()

	garbage := filepath.Join(docsDir, "bad.pdf")
	require.NoError(t, os.WriteFile(garbage, []byte("%PDF-1.7 nope"), 0o644))

	good := pdftest.Doc{
		Attachments: []pdftest.Attachment{
			{Name: "d.xml", Data: []byte(`<d><v>ok</v></d>`)},
		},
	}.WriteFile(t, filepath.Join(docsDir, "good.pdf"))

	result, err := runner.Process([]string{garbage, good}, activeMapping("v", "Value"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.PDFsProcessed)
	assert.Equal(t, 1, result.Rows)
	require.Len(t, result.Skips, 1)
	assert.Equal(t, garbage, result.Skips[0].PDFPath)

	csvContent := readFileString(t, result.CSVPath)
	assert.Equal(t, "Value\r\nok\r\n", csvContent)
}

func TestProcessDoesNotArchiveMalformedOrNonXML(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	docsDir := t.TempDir()

	path := pdftest.Doc{
		Attachments: []pdftest.Attachment{
			{Name: "broken.xml", Data: []byte("<broken")},
			{Name: "blob.bin", Data: []byte{0xde, 0xad}},
			{Name: "good.xml", Data: []byte(`<g><v>1</v></g>`)},
		},
	}.WriteFile(t, filepath.Join(docsDir, "mixed.pdf"))

	result, err := runner.Process([]string{path}, activeMapping("v", "V"))
	require.NoError(t, err)

	entries, err := os.ReadDir(result.ArchiveDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mixed_good.xml", entries[0].Name())

	require.Len(t, result.Skips, 1)
	assert.Equal(t, "broken.xml", result.Skips[0].Attachment)

	// The valid attachment's rows still make the CSV.
	assert.Equal(t, "V\r\n1\r\n", readFileString(t, result.CSVPath))
}

func TestProcessAbortsOnWriteFailure(t *testing.T) {
	runner, cfg, outDir := newTestRunner(t)

	// A file where the archive root's parent should be makes every
	// directory creation under it fail.
	blocked := filepath.Join(outDir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))
	cfg.OutputDir = blocked

	_, err := runner.Process([]string{"whatever.pdf"}, activeMapping("v", "V"))
	require.Error(t, err)

	var writeErr *output.WriteError
	require.ErrorAs(t, err, &writeErr)
}
