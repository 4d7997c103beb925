// Package output writes the products of a processing run: the
// timestamped archive of raw XML attachments and the final CSV file.
package output

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// StampLayout formats the run timestamp used in archive directory and
// CSV file names.
const StampLayout = "20060102150405"

// Runs of characters that are unsafe in filenames on common
// filesystems collapse to a single underscore.
var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|` + "\r\n" + `]+`)

// SanitizeFilename replaces every run of filesystem-unsafe characters
// in name with one underscore.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// Archive is the per-run directory holding the raw XML attachments.
type Archive struct {
	dir string
}

// NewArchive returns an archive rooted at dir. Nothing is created until
// Ensure is called.
func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

// Dir returns the archive directory path.
func (a *Archive) Dir() string {
	return a.dir
}

// Ensure creates the archive directory.
func (a *Archive) Ensure() error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return newWriteError("create archive directory", a.dir, err)
	}
	return nil
}

// WriteAttachment stores one attachment's raw bytes under the archive
// directory and returns the written path. The file is named
// <pdfBase>_<attachmentName> after sanitizing both parts, with a .xml
// suffix appended when the attachment name does not already carry one.
// An existing file with the same name is overwritten.
func (a *Archive) WriteAttachment(pdfPath, attachmentName string, data []byte) (string, error) {
	path := filepath.Join(a.dir, attachmentFileName(pdfPath, attachmentName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", newWriteError("write attachment", path, err)
	}
	return path, nil
}

func attachmentFileName(pdfPath, attachmentName string) string {
	base := filepath.Base(pdfPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	name := SanitizeFilename(base) + "_" + SanitizeFilename(attachmentName)
	if !strings.HasSuffix(strings.ToLower(name), ".xml") {
		name += ".xml"
	}
	return name
}
