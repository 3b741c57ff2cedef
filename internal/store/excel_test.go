package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds a test workbook with the standard column layout.
// Each row is [name, url, company, status, delivered].
func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []any{ColName, ColURL, ColCompany, ColStatus, ColDelivered}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &vals))
	}

	path := filepath.Join(t.TempDir(), "outreach.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestOpen_MissingColumn(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []any{ColName, ColURL, ColCompany} // no Status, no Delivered
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := Open(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Status")
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
}

func TestLoad_FiltersAndLimits(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Alice", "https://linkedin.com/in/alice", "Acme", "", ""},
		{"Bob", "https://linkedin.com/in/bob", "Beta", "sent", "pending"},
		{"Carol", "https://linkedin.com/in/carol/", "Gamma", "", ""},
		{"Dave", "https://linkedin.com/in/dave?trk=x", "Delta", "", ""},
	})

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	items, dropped, err := w.Load(2)
	require.NoError(t, err)
	require.Zero(t, dropped)
	require.Equal(t, 4, w.Rows())

	// Bob has a non-empty status and is never re-selected; the limit then
	// admits Alice and Carol in store order.
	require.Len(t, items, 2)
	require.Equal(t, "alice", items[0].Handle)
	require.Equal(t, 2, items[0].Row)
	require.Equal(t, "carol", items[1].Handle)
	require.Equal(t, 4, items[1].Row)
}

func TestLoad_DropsRowsWithoutIdentity(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Alice", "not a url", "Acme", "", ""},
		{"", "https://linkedin.com/in/bob", "Beta", "", ""},
	})

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	items, dropped, err := w.Load(20)
	require.NoError(t, err)
	require.Equal(t, 1, dropped)
	require.Len(t, items, 1)
	require.Equal(t, "bob", items[0].Handle)
	require.Equal(t, "Unknown", items[0].Name)

	// The identity-less row stays in the workbook untouched.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(f.GetSheetName(0), "D2")
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestPersist_WritesOneRowAndRewrites(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Alice", "https://linkedin.com/in/alice", "Acme", "", ""},
		{"Bob", "https://linkedin.com/in/bob", "Beta", "", ""},
		{"Carol", "https://linkedin.com/in/carol", "Gamma", "", ""},
	})

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	items, _, err := w.Load(2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NoError(t, w.Persist(items[0].Row, "sent", "pending"))
	require.NoError(t, w.Persist(items[1].Row, "not_found", ""))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetName(0)

	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}
	require.Equal(t, "sent", get("D2"))
	require.Equal(t, "pending", get("E2"))
	require.Equal(t, "not_found", get("D3"))
	require.Empty(t, get("E3"))
	// Third unsent row untouched by persist.
	require.Empty(t, get("D4"))
}

func TestPersist_Idempotent(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Alice", "https://linkedin.com/in/alice", "Acme", "", ""},
	})

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Persist(2, "sent", "pending"))
	require.NoError(t, w.Persist(2, "sent", "pending"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(f.GetSheetName(0), "D2")
	require.NoError(t, err)
	require.Equal(t, "sent", v)
}

func TestPersist_KeepsDeliveredWhenEmpty(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Alice", "https://linkedin.com/in/alice", "Acme", "", "stale"},
	})

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Persist(2, "already_connected", ""))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(f.GetSheetName(0), "E2")
	require.NoError(t, err)
	require.Equal(t, "stale", v)
}
