// Package export writes query results to CSV files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"git-issue/internal/query"
)

// WriteCSV writes a header line with the column names followed by one line
// per row, using sep as the field separator.
func WriteCSV(w io.Writer, sep rune, result *query.Result) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(result.Columns); err != nil {
		return err
	}
	for _, row := range result.Rows {
		if err := cw.Write(row.Values); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName returns the export file name for a point in time. Colons are
// replaced so the name is valid on every file system.
func FileName(now time.Time) string {
	return strings.ReplaceAll(now.UTC().Format("2006-01-02T15:04:05Z"), ":", "-") + ".csv"
}

// ToFile writes result as CSV into dir, creating it if needed, and returns
// the path of the new file.
func ToFile(dir string, sep rune, now time.Time, result *query.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sep, result); err != nil {
		return "", fmt.Errorf("encoding csv: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	if err := atomic.WriteFile(path, &buf); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
