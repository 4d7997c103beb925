package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Scanner handles PDF discovery on the filesystem
type Scanner struct {
	maxFileSize int64
	validator   *Validator
}

// NewScanner creates a new PDF scanner with the specified constraints
func NewScanner(maxFileSize int64) *Scanner {
	return &Scanner{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// ScanDirectory lists the PDF files in a directory. Only files that
// pass the basic validation checks (extension, non-empty, size limit)
// are listed. With Recursive set, subdirectories are walked too;
// hidden directories are always skipped.
func (s *Scanner) ScanDirectory(req PDFScanDirectoryRequest) (*PDFScanDirectoryResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(req.Directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}

	absDirectory, err := filepath.Abs(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	var pdfFiles []FileInfo

	err = filepath.WalkDir(absDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Continue walking even if a specific entry errors out
			return nil //nolint:nilerr // Intentionally continue on file errors
		}

		if d.IsDir() {
			if path == absDirectory {
				return nil
			}
			if !req.Recursive || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !isPDFFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // Entry vanished mid-walk, skip it
		}

		// Quick validation without opening the file
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil //nolint:nilerr // Intentionally continue on validation errors
		}

		pdfFiles = append(pdfFiles, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	return &PDFScanDirectoryResult{
		Files:      pdfFiles,
		TotalCount: len(pdfFiles),
		Directory:  absDirectory,
		Recursive:  req.Recursive,
	}, nil
}

// FindPDFsInDirectory lists the PDF files directly under a directory
func (s *Scanner) FindPDFsInDirectory(directory string) ([]FileInfo, error) {
	result, err := s.ScanDirectory(PDFScanDirectoryRequest{Directory: directory})
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}

// CountPDFsInDirectory counts the PDF files directly under a directory
func (s *Scanner) CountPDFsInDirectory(directory string) (int, error) {
	files, err := s.FindPDFsInDirectory(directory)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// isPDFFile checks if a file has a PDF extension
func isPDFFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}
