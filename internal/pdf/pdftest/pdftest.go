// Package pdftest builds small but structurally complete PDF files for
// tests: a correct cross-reference table, a single page, optional
// document information and any number of attachments carried either in
// the document-level EmbeddedFiles name tree or behind page-level
// FileAttachment annotations.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

// Attachment describes one file to embed in a generated PDF.
type Attachment struct {
	Name string
	Data []byte

	// Annot attaches the file through a page-level FileAttachment
	// annotation instead of the EmbeddedFiles name tree.
	Annot bool

	// NoName omits the filespec's F and UF entries so readers must
	// fall back to a generated attachment name.
	NoName bool

	// NoPayload omits the filespec's EF entry, producing a filespec
	// that references no embedded bytes at all.
	NoPayload bool
}

// Info describes the document information entries of a generated PDF.
type Info struct {
	Title        string
	Author       string
	Subject      string
	Producer     string
	CreationDate string
}

// Doc describes one PDF to generate.
type Doc struct {
	Info        Info
	Attachments []Attachment

	// SplitNameTree routes the embedded-file names through an
	// intermediate Kids node instead of a single flat leaf node.
	SplitNameTree bool
}

// WriteFile generates the PDF and writes it to path, failing the test
// on error. It returns path for convenience.
func (d Doc) WriteFile(t testing.TB, path string) string {
	t.Helper()
	if err := os.WriteFile(path, d.Bytes(), 0o600); err != nil {
		t.Fatalf("writing test PDF %s: %v", path, err)
	}
	return path
}

// Bytes generates the raw PDF bytes.
//
// Object numbering is fixed: 1 catalog, 2 page tree root, 3 page,
// 4 content stream, 5 info dict, then one filespec and one embedded
// file stream per attachment, then the FileAttachment annotations,
// then the optional split name tree nodes.
func (d Doc) Bytes() []byte {
	n := len(d.Attachments)

	fsNum := func(i int) int { return 6 + 2*i }
	efNum := func(i int) int { return 7 + 2*i }

	var annotIdx []int
	for i, a := range d.Attachments {
		if a.Annot {
			annotIdx = append(annotIdx, i)
		}
	}
	annotBase := 6 + 2*n
	treeBase := annotBase + len(annotIdx)

	total := 5 + 2*n + len(annotIdx)
	if d.SplitNameTree {
		total += 2
	}

	bodies := make([]string, total+1)

	var namePairs []string
	for i, a := range d.Attachments {
		if a.Annot {
			continue
		}
		namePairs = append(namePairs, fmt.Sprintf("(%s) %d 0 R", escape(a.Name), fsNum(i)))
	}

	catalog := "<< /Type /Catalog /Pages 2 0 R"
	if len(namePairs) > 0 {
		if d.SplitNameTree {
			catalog += fmt.Sprintf(" /Names << /EmbeddedFiles %d 0 R >>", treeBase)
		} else {
			catalog += fmt.Sprintf(" /Names << /EmbeddedFiles << /Names [ %s ] >> >>", strings.Join(namePairs, " "))
		}
	}
	catalog += " >>"
	bodies[1] = catalog

	bodies[2] = "<< /Type /Pages /Kids [ 3 0 R ] /Count 1 >>"

	page := "<< /Type /Page /Parent 2 0 R /MediaBox [ 0 0 612 792 ] /Resources << >> /Contents 4 0 R"
	if len(annotIdx) > 0 {
		refs := make([]string, len(annotIdx))
		for j := range annotIdx {
			refs[j] = fmt.Sprintf("%d 0 R", annotBase+j)
		}
		page += fmt.Sprintf(" /Annots [ %s ]", strings.Join(refs, " "))
	}
	page += " >>"
	bodies[3] = page

	content := "q Q"
	bodies[4] = fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content)

	info := "<<"
	for _, kv := range [][2]string{
		{"Title", d.Info.Title},
		{"Author", d.Info.Author},
		{"Subject", d.Info.Subject},
		{"Producer", d.Info.Producer},
		{"CreationDate", d.Info.CreationDate},
	} {
		if kv[1] != "" {
			info += fmt.Sprintf(" /%s (%s)", kv[0], escape(kv[1]))
		}
	}
	info += " >>"
	bodies[5] = info

	for i, a := range d.Attachments {
		fs := "<< /Type /Filespec"
		if !a.NoName {
			fs += fmt.Sprintf(" /F (%s) /UF (%s)", escape(a.Name), escape(a.Name))
		}
		if !a.NoPayload {
			fs += fmt.Sprintf(" /EF << /F %d 0 R >>", efNum(i))
		}
		fs += " >>"
		bodies[fsNum(i)] = fs

		bodies[efNum(i)] = fmt.Sprintf("<< /Type /EmbeddedFile /Length %d >>\nstream\n%s\nendstream", len(a.Data), a.Data)
	}

	for j, i := range annotIdx {
		bodies[annotBase+j] = fmt.Sprintf("<< /Type /Annot /Subtype /FileAttachment /Rect [ 10 10 30 30 ] /FS %d 0 R >>", fsNum(i))
	}

	if d.SplitNameTree {
		bodies[treeBase] = fmt.Sprintf("<< /Kids [ %d 0 R ] >>", treeBase+1)
		bodies[treeBase+1] = fmt.Sprintf("<< /Names [ %s ] >>", strings.Join(namePairs, " "))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	buf.Write([]byte{'%', 0xe2, 0xe3, 0xcf, 0xd3, '\n'})

	offsets := make([]int, total+1)
	for num := 1; num <= total; num++ {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, bodies[num])
	}

	// Classic cross-reference table with the fixed 20-byte entries.
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", total+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= total; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 5 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, xref)

	return buf.Bytes()
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// escape protects the characters with meaning inside PDF literal strings.
func escape(s string) string {
	return stringEscaper.Replace(s)
}
