package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// Register is the per-student attendance table rendered for download.
type Register struct {
	Subject string
	Batch   string
	Rows    []RegisterRow
}

// RegisterRow holds one roster member's day counts bucketed by status.
type RegisterRow struct {
	Student string
	Present int
	Absent  int
	Late    int
}

// Total is the number of marked days across all statuses.
func (r RegisterRow) Total() int {
	return r.Present + r.Absent + r.Late
}

var registerHeaders = []string{"Student", "Present", "Absent", "Late", "Total"}

// CSVExporter renders attendance registers as CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces the CSV register, one row per student under a fixed header.
func (e *CSVExporter) Render(register Register) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(registerHeaders); err != nil {
		return nil, fmt.Errorf("write register header: %w", err)
	}
	for _, row := range register.Rows {
		record := []string{
			row.Student,
			strconv.Itoa(row.Present),
			strconv.Itoa(row.Absent),
			strconv.Itoa(row.Late),
			strconv.Itoa(row.Total()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write register row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush register: %w", err)
	}
	return buf.Bytes(), nil
}
