package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes the records as a formatted JSON array to the writer.
// Uses flat array format (not wrapped with metadata) for simpler CI integration.
func WriteJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes the records as CSV to the writer.
// Always includes a header row, even if there are no records.
// Column order: file, url, status, reason, error_type
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	header := []string{"file", "url", "status", "reason", "error_type"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.File,
			rec.URL,
			rec.Status,
			rec.Reason,
			string(rec.Category),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv record for %s: %w", rec.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}
