package usecase

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/lead-console/internal/entity"
)

const MaxImportSize int64 = 5 * 1024 * 1024

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ImportFile is a candidate lead file. Size may be -1 when unknown; the content is
// then measured while reading.
type ImportFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

func importFormat(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", &FileTypeError{Name: name}
}

// DecodeImportFile checks the file preconditions, parses the content and validates
// every record.
func DecodeImportFile(f ImportFile) ([]entity.Lead, error) {
	format, err := importFormat(f.Name)
	if err != nil {
		return nil, err
	}
	if f.Size > MaxImportSize {
		return nil, &FileSizeError{Size: f.Size, Limit: MaxImportSize}
	}
	if f.Content == nil {
		return nil, &ParseError{Format: format, Err: errors.New("empty file")}
	}

	body, err := io.ReadAll(io.LimitReader(f.Content, MaxImportSize+1))
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	if int64(len(body)) > MaxImportSize {
		return nil, &FileSizeError{Size: int64(len(body)), Limit: MaxImportSize}
	}

	var raw any
	switch format {
	case FormatJSON:
		raw, err = decodeJSON(body)
	case FormatCSV:
		raw, err = decodeCSV(body)
	case FormatXLSX:
		raw, err = decodeXLSX(body)
	}
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}

	return ParseLeads(raw)
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return raw, nil
}

func decodeCSV(body []byte) (any, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return rowsToRecords(rows)
}

// decodeXLSX reads the first sheet of the workbook.
func decodeXLSX(body []byte) (any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return rowsToRecords(rows)
}

// rowsToRecords maps tabular rows onto records keyed by lead field name. The first
// row is the header; headers match field names ignoring case, spaces and
// underscores ("Created At", "created_at" and "createdAt" are the same column).
func rowsToRecords(rows [][]string) (any, error) {
	if len(rows) == 0 {
		return nil, errors.New("missing header row")
	}

	columns := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		columns[i] = canonicalField(h)
	}

	records := make([]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(map[string]any, len(columns))
		for i, col := range columns {
			if col == "" || i >= len(row) {
				continue
			}
			rec[col] = strings.TrimSpace(row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

func canonicalField(header string) string {
	key := strings.ToLower(strings.NewReplacer("_", "", " ", "", "-", "").Replace(strings.TrimSpace(header)))
	for _, f := range leadFields {
		if strings.ToLower(f) == key {
			return f
		}
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
