package output

import "fmt"

// WriteError reports a failure to create or write run output (the
// archive directory, an archived attachment, or the CSV file). Unlike
// per-document skips, a WriteError aborts the whole run.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func newWriteError(op, path string, err error) *WriteError {
	return &WriteError{Op: op, Path: path, Err: err}
}
