package sheets

import (
	"errors"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// Book is a workbook that behaves like the remote spreadsheet: tables are
// found by case-insensitive name, values that look like dates are stored as
// native date cells, and clock columns are pinned to the text format.
type Book struct {
	mu   sync.RWMutex
	file *excelize.File
	path string
	loc  *time.Location

	dateStyle int
	textStyle int
}

var (
	excelEpoch  = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	exactDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateFormats = regexp.MustCompile(`(?i)(yy|dd|mmm|h{1,2}:mm|am/pm)`)
)

// NewBook returns an empty in-memory workbook. Naive date cells are read as
// wall clock time in loc.
func NewBook(loc *time.Location) (*Book, error) {
	b := &Book{file: excelize.NewFile(), loc: loc}
	if err := b.prepareStyles(); err != nil {
		return nil, err
	}
	return b, nil
}

// OpenBook opens the workbook at path, starting an empty one when the file
// does not exist yet. Save writes back to the same path.
func OpenBook(path string, loc *time.Location) (*Book, error) {
	b := &Book{path: path, loc: loc}
	if err := b.load(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Book) load() error {
	f, err := excelize.OpenFile(b.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f = excelize.NewFile()
	case err != nil:
		return err
	}
	if b.file != nil {
		_ = b.file.Close()
	}
	b.file = f
	return b.prepareStyles()
}

func (b *Book) prepareStyles() error {
	var err error
	// 14: m/d/yyyy, 49: text
	if b.dateStyle, err = b.file.NewStyle(&excelize.Style{NumFmt: 14}); err != nil {
		return err
	}
	if b.textStyle, err = b.file.NewStyle(&excelize.Style{NumFmt: 49}); err != nil {
		return err
	}
	return nil
}

// Reload discards the in-memory state and reads the file again.
func (b *Book) Reload() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.path == "" {
		return nil
	}
	return b.load()
}

func (b *Book) Save() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.save()
}

func (b *Book) save() error {
	if b.path == "" {
		return nil
	}
	return b.file.SaveAs(b.path)
}

func (b *Book) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}

// Lookup resolves a table name case-insensitively to the sheet's actual name.
func (b *Book) Lookup(name string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lookup(name)
}

func (b *Book) lookup(name string) (string, bool) {
	for _, s := range b.file.GetSheetList() {
		if SameSheet(s, name) {
			return s, true
		}
	}
	return "", false
}

// WriteDataset overwrites every table with the matching collection and saves
// the workbook. A collection missing from ds leaves its table with only the
// header row.
func (b *Book) WriteDataset(ds Dataset) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range Tables {
		if err := b.writeTable(t, ds[t.Field]); err != nil {
			return err
		}
	}
	return b.save()
}

// WriteTable clears the table, header included, then writes the header and
// one row per record.
func (b *Book) WriteTable(t Table, records []Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writeTable(t, records)
}

func (b *Book) writeTable(t Table, records []Record) error {
	name, ok := b.lookup(t.Sheet)
	if ok {
		if err := b.clear(name); err != nil {
			return err
		}
	} else {
		name = t.Sheet
		if _, err := b.file.NewSheet(name); err != nil {
			return err
		}
	}

	header := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := b.file.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	for i, rec := range records {
		for j, col := range t.Columns {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := b.setCell(name, cell, col, ToRemote(col, rec[col])); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Book) clear(name string) error {
	rows, err := b.file.GetRows(name)
	if err != nil {
		return err
	}
	for i := len(rows); i >= 1; i-- {
		if err := b.file.RemoveRow(name, i); err != nil {
			return err
		}
	}
	return nil
}

func (b *Book) setCell(sheet, cell, col, text string) error {
	switch {
	case text == "":
		return nil
	case IsTimeColumn(col):
		if err := b.file.SetCellStyle(sheet, cell, cell, b.textStyle); err != nil {
			return err
		}
		return b.file.SetCellStr(sheet, cell, text)
	case IsNumericColumn(col):
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return b.file.SetCellValue(sheet, cell, n)
		}
		return b.file.SetCellStr(sheet, cell, text)
	case exactDate.MatchString(text):
		d, err := time.Parse("2006-01-02", text)
		if err != nil {
			return b.file.SetCellStr(sheet, cell, text)
		}
		if err := b.file.SetCellFloat(sheet, cell, toSerial(d), -1, 64); err != nil {
			return err
		}
		return b.file.SetCellStyle(sheet, cell, cell, b.dateStyle)
	default:
		return b.file.SetCellStr(sheet, cell, text)
	}
}

// ReadDataset reads all eight tables.
func (b *Book) ReadDataset() (Dataset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ds := NewDataset()
	for _, t := range Tables {
		records, err := b.readTable(t)
		if err != nil {
			return nil, err
		}
		ds[t.Field] = records
	}
	return ds, nil
}

// ReadTable reads a table by header name. An absent table reads as empty.
func (b *Book) ReadTable(t Table) ([]Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readTable(t)
}

func (b *Book) readTable(t Table) ([]Record, error) {
	records := []Record{}
	name, ok := b.lookup(t.Sheet)
	if !ok {
		return records, nil
	}

	rows, err := b.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return records, nil
	}

	for r := 1; r < len(rows); r++ {
		row := make([]any, len(rows[r]))
		for c, raw := range rows[r] {
			row[c] = raw
			if raw == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if !b.isDateCell(name, cell) {
				continue
			}
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				row[c] = b.fromSerial(f)
			}
		}
		if rec, ok := RowRecord(rows[0], row, t.Columns); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (b *Book) isDateCell(sheet, cell string) bool {
	id, err := b.file.GetCellStyle(sheet, cell)
	if err != nil || id == 0 {
		return false
	}
	style, err := b.file.GetStyle(id)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return dateFormats.MatchString(*style.CustomNumFmt)
	}
	return isDateNumFmt(style.NumFmt)
}

// isDateNumFmt reports built-in number formats that display a date or time.
func isDateNumFmt(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

// fromSerial turns a spreadsheet serial into wall clock time in the book's
// location, rounded to the second.
func (b *Book) fromSerial(f float64) time.Time {
	naive := excelEpoch.Add(time.Duration(math.Round(f*86400)) * time.Second)
	loc := b.loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(naive.Year(), naive.Month(), naive.Day(), naive.Hour(), naive.Minute(), naive.Second(), 0, loc)
}

func toSerial(t time.Time) float64 {
	naive := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return naive.Sub(excelEpoch).Seconds() / 86400
}

// SheetNames lists the workbook's tables in order.
func (b *Book) SheetNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.file.GetSheetList()...)
}

// RowCount returns the number of non-empty rows in the named table, header
// included, or 0 when the table does not exist.
func (b *Book) RowCount(name string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	sheet, ok := b.lookup(name)
	if !ok {
		return 0, nil
	}
	rows, err := b.file.GetRows(sheet)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) != "" {
			n++
		}
	}
	return n, nil
}
