// Package tabular decodes uploaded spreadsheets into a plain header + rows
// table of strings. It knows nothing about what the columns mean.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Table struct {
	Headers []string
	Rows    [][]string
}

// IOError means the upload could not be decoded at all. The whole operation
// stops and the message goes back to the caller as is.
type IOError struct {
	Name string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("read %s: %v", e.Name, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

var ErrNoHeader = errors.New("no header row")

// Read picks a decoder from the file extension. Some customs systems export
// HTML tables with a .xls name, so .xls is sniffed instead of trusted.
func Read(name string, r io.Reader) (Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Table{}, &IOError{Name: name, Err: err}
	}
	var t Table
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt":
		t, err = readCSV(raw)
	case ".xlsx", ".xlsm":
		t, err = readXLSX(raw)
	case ".html", ".htm":
		t, err = readHTML(raw)
	case ".xls":
		if looksLikeHTML(raw) {
			t, err = readHTML(raw)
		} else {
			err = fmt.Errorf("legacy .xls is not supported, save as .xlsx")
		}
	default:
		err = fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return Table{}, &IOError{Name: name, Err: err}
	}
	return t, nil
}

func readCSV(raw []byte) (Table, error) {
	// UTF-8 with or without BOM, UTF-16 with BOM
	dec := transform.NewReader(bytes.NewReader(raw), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	text, err := io.ReadAll(dec)
	if err != nil {
		return Table{}, err
	}
	cr := csv.NewReader(bytes.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffDelimiter(text)
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, err
	}
	return build(records)
}

// sniffDelimiter looks at the first line only; Excel in some locales writes ';'.
func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	best, n := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if c := bytes.Count(line, []byte(string(d))); c > n {
			best, n = d, c
		}
	}
	return best
}

func readXLSX(raw []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return Table{}, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("no sheets found")
	}
	// raw values keep date cells as serial numbers
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return build(rows)
}

func readHTML(raw []byte) (Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return Table{}, err
	}
	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return Table{}, fmt.Errorf("no <table> found")
	}
	var records [][]string
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var rec []string
		tr.Find("th,td").Each(func(_ int, td *goquery.Selection) {
			rec = append(rec, strings.TrimSpace(td.Text()))
		})
		records = append(records, rec)
	})
	return build(records)
}

func looksLikeHTML(raw []byte) bool {
	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	s := strings.ToLower(string(head))
	return strings.Contains(s, "<table") || strings.Contains(s, "<html")
}

// build takes the first non-blank record as the header and drops blank rows.
func build(records [][]string) (Table, error) {
	var t Table
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		if t.Headers == nil {
			t.Headers = rec
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	if t.Headers == nil {
		return Table{}, ErrNoHeader
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
