// Package store reads and writes per-profile outreach state in an Excel
// workbook. The workbook is the sole durable state: it is read once at the
// start of a run and rewritten in full after every row update, so a crash
// loses at most the update in flight. No locking is done; a concurrent
// external writer is undefined behavior.
package store

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"linkreach/internal/profile"
)

// Column names the workbook must carry. Status and Delivered are the only
// columns this system writes.
const (
	ColName      = "Name"
	ColURL       = "Linkedin URL"
	ColCompany   = "Company Name"
	ColStatus    = "Status"
	ColDelivered = "Delivered"
)

var requiredColumns = []string{ColName, ColURL, ColCompany, ColStatus, ColDelivered}

// WorkItem is one unsent profile normalized for the orchestrator. Row is the
// sheet row number (header is row 1, data starts at row 2), stable across one
// load→persist cycle and used for the later in-place update.
type WorkItem struct {
	Name    string
	Handle  string
	Company string
	Row     int
}

// Workbook is an open record store. It keeps the parsed workbook in memory;
// Persist mutates a single cell pair and rewrites the whole file.
type Workbook struct {
	path  string
	sheet string
	f     *excelize.File
	cols  map[string]int // header name -> 1-based column index
	rows  int            // data row count (excluding header)
}

// Open reads the workbook at path and validates the column contract. A
// missing file or missing required column is fatal to the run.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		f.Close()
		return nil, fmt.Errorf("workbook %s: sheet %s has no header row", path, sheet)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.TrimSpace(name)] = i + 1
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			f.Close()
			return nil, fmt.Errorf("workbook %s: missing required column %q", path, name)
		}
	}

	return &Workbook{
		path:  path,
		sheet: sheet,
		f:     f,
		cols:  cols,
		rows:  len(rows) - 1,
	}, nil
}

// Close releases the underlying file handle.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Rows returns the number of data rows in the workbook.
func (w *Workbook) Rows() int {
	return w.rows
}

// Load selects the first limit rows whose Status is empty, in store order,
// and normalizes each into a WorkItem. Rows with no extractable profile
// handle are dropped from the work set but left untouched in the workbook;
// their count is returned so the operator can notice them piling up.
func (w *Workbook) Load(limit int) (items []WorkItem, dropped int, err error) {
	rows, err := w.f.GetRows(w.sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %s: %w", w.sheet, err)
	}

	selected := 0
	for i, row := range rows[1:] {
		if selected >= limit {
			break
		}
		if strings.TrimSpace(w.cell(row, ColStatus)) != "" {
			continue
		}
		selected++

		handle, ok := profile.ExtractHandle(w.cell(row, ColURL))
		if !ok {
			dropped++
			continue
		}

		name := strings.TrimSpace(w.cell(row, ColName))
		if name == "" {
			name = "Unknown"
		}
		items = append(items, WorkItem{
			Name:    name,
			Handle:  handle,
			Company: w.cell(row, ColCompany),
			Row:     i + 2,
		})
	}
	return items, dropped, nil
}

// Persist writes status (always) and delivered (only if non-empty) into the
// given sheet row, then rewrites the whole workbook. Last write wins on a
// row; an unwritable destination is fatal to the run.
func (w *Workbook) Persist(row int, status, delivered string) error {
	cell, err := excelize.CoordinatesToCellName(w.cols[ColStatus], row)
	if err != nil {
		return fmt.Errorf("status cell for row %d: %w", row, err)
	}
	if err := w.f.SetCellValue(w.sheet, cell, status); err != nil {
		return fmt.Errorf("set status for row %d: %w", row, err)
	}

	if delivered != "" {
		cell, err = excelize.CoordinatesToCellName(w.cols[ColDelivered], row)
		if err != nil {
			return fmt.Errorf("delivered cell for row %d: %w", row, err)
		}
		if err := w.f.SetCellValue(w.sheet, cell, delivered); err != nil {
			return fmt.Errorf("set delivered for row %d: %w", row, err)
		}
	}

	if err := w.f.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	return nil
}

// cell fetches a value from a parsed row by column name. GetRows returns
// ragged rows, so a short row reads as empty.
func (w *Workbook) cell(row []string, col string) string {
	idx := w.cols[col] - 1
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
