package pdf

import "fmt"

// UnreadableDocumentError reports a PDF that cannot be processed at
// all: the file is missing, fails the validation checks, or its
// document structure cannot be parsed. Batch processing skips the
// document and continues with the next one.
type UnreadableDocumentError struct {
	Path string
	Err  error
}

func (e *UnreadableDocumentError) Error() string {
	return fmt.Sprintf("unreadable document %s: %v", e.Path, e.Err)
}

func (e *UnreadableDocumentError) Unwrap() error {
	return e.Err
}

func newUnreadableDocumentError(path string, err error) *UnreadableDocumentError {
	return &UnreadableDocumentError{Path: path, Err: err}
}
