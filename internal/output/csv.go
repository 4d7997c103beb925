package output

import (
	"encoding/csv"
	"os"
)

// WriteCSV writes the header and all accumulated rows to path as
// comma-delimited UTF-8 with CRLF record ends. The header is written
// even when there are no rows, so an empty run still produces a valid
// CSV.
func WriteCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return newWriteError("create csv", path, err)
	}

	w := csv.NewWriter(f)
	w.UseCRLF = true

	if err := w.Write(header); err != nil {
		f.Close()
		return newWriteError("write csv", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return newWriteError("write csv", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return newWriteError("write csv", path, err)
	}
	if err := f.Close(); err != nil {
		return newWriteError("write csv", path, err)
	}
	return nil
}

// CSVFileName returns the per-run CSV file name for a timestamp.
func CSVFileName(stamp string) string {
	return "output_" + stamp + ".csv"
}
