package usecase

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/lead-console/internal/entity"
)

func TestDecodeImportFileJSON(t *testing.T) {
	want := []entity.Lead{
		newLead("1", "Bob", "Acme", 60, entity.LeadStatusNew),
		newLead("2", "Alice", "Globex", 90, entity.LeadStatusContacted),
	}

	got, err := DecodeImportFile(leadsFile(t, want...))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeImportFileFileType(t *testing.T) {
	for _, name := range []string{"leads.txt", "leads", "leads.json.bak", "leads.xls"} {
		_, err := DecodeImportFile(ImportFile{Name: name, Size: 2, Content: strings.NewReader("[]")})
		var fte *FileTypeError
		assert.ErrorAs(t, err, &fte, name)
	}

	_, err := DecodeImportFile(ImportFile{Name: "LEADS.JSON", Size: 2, Content: strings.NewReader("[]")})
	assert.NoError(t, err, "extension match ignores case")
}

func TestDecodeImportFileSize(t *testing.T) {
	_, err := DecodeImportFile(ImportFile{Name: "leads.json", Size: MaxImportSize + 1, Content: strings.NewReader("[]")})
	var fse *FileSizeError
	require.ErrorAs(t, err, &fse)
	assert.Equal(t, MaxImportSize, fse.Limit)

	// unknown size is measured while reading
	big := bytes.Repeat([]byte(" "), int(MaxImportSize)+1)
	_, err = DecodeImportFile(ImportFile{Name: "leads.json", Size: -1, Content: bytes.NewReader(big)})
	assert.ErrorAs(t, err, &fse)

	// exactly at the limit is accepted
	atLimit := append([]byte("[]"), bytes.Repeat([]byte(" "), int(MaxImportSize)-2)...)
	_, err = DecodeImportFile(ImportFile{Name: "leads.json", Size: MaxImportSize, Content: bytes.NewReader(atLimit)})
	assert.NoError(t, err)
}

func TestDecodeImportFileParseError(t *testing.T) {
	for _, body := range []string{"", "{", "[1,", "[] []", "not json"} {
		_, err := DecodeImportFile(ImportFile{Name: "leads.json", Size: int64(len(body)), Content: strings.NewReader(body)})
		var pe *ParseError
		require.ErrorAs(t, err, &pe, body)
		assert.Equal(t, FormatJSON, pe.Format)
	}

	_, err := DecodeImportFile(ImportFile{Name: "leads.json", Size: 0})
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestDecodeImportFileObjectRoot(t *testing.T) {
	_, err := DecodeImportFile(jsonFile(t, map[string]any{"leads": []any{}}))
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestDecodeImportFileCSV(t *testing.T) {
	body := "ID,Name,Company,Email,Source,Score,Status,Created At,Notes\n" +
		"1,Bob,Acme,bob@acme.com,Website,60,new,2024-01-15T10:00:00Z,call back\n" +
		",,,,,,,,\n" +
		"2, Alice ,Globex,alice@globex.com,Referral,90,qualified,2024-02-01,\n"

	leads, err := DecodeImportFile(ImportFile{Name: "leads.csv", Size: int64(len(body)), Content: strings.NewReader(body)})
	require.NoError(t, err)
	require.Len(t, leads, 2)

	assert.Equal(t, entity.Lead{
		ID: "1", Name: "Bob", Company: "Acme", Email: "bob@acme.com", Source: "Website",
		Score: 60, Status: entity.LeadStatusNew, CreatedAt: "2024-01-15T10:00:00Z",
	}, leads[0])
	assert.Equal(t, "Alice", leads[1].Name)
	assert.Equal(t, "2024-02-01", leads[1].CreatedAt)
}

func TestDecodeImportFileCSVRowErrorsUseRecordIndex(t *testing.T) {
	body := "id,name,company,email,source,score,status,createdAt\n" +
		"1,Bob,Acme,bob@acme.com,Website,60,new,2024-01-15\n" +
		"2,Alice,Globex,alice@globex.com,Referral,150,new,2024-01-15\n"

	_, err := DecodeImportFile(ImportFile{Name: "leads.csv", Size: int64(len(body)), Content: strings.NewReader(body)})
	var ise *InvalidScoreError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 1, ise.Index)
	assert.Equal(t, "150", ise.Value)
}

func TestDecodeImportFileCSVMissingColumn(t *testing.T) {
	body := "id,name,company,email,score,status,createdAt\n1,Bob,Acme,bob@acme.com,60,new,2024-01-15\n"

	_, err := DecodeImportFile(ImportFile{Name: "leads.csv", Size: int64(len(body)), Content: strings.NewReader(body)})
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "source", mfe.Field)
}

func TestDecodeImportFileCSVEmpty(t *testing.T) {
	_, err := DecodeImportFile(ImportFile{Name: "leads.csv", Size: 0, Content: strings.NewReader("")})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, FormatCSV, pe.Format)
}

func TestDecodeImportFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"id", "name", "company", "email", "source", "score", "status", "created_at"},
		{"1", "Bob", "Acme", "bob@acme.com", "Website", 60, "new", "2024-01-15T10:00:00Z"},
		{"2", "Alice", "Globex", "alice@globex.com", "Referral", 90, "contacted", "2024-02-01T10:00:00Z"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	leads, err := DecodeImportFile(ImportFile{Name: "leads.xlsx", Size: int64(buf.Len()), Content: &buf})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, 60, leads[0].Score)
	assert.Equal(t, entity.LeadStatusContacted, leads[1].Status)
	assert.Equal(t, "2024-02-01T10:00:00Z", leads[1].CreatedAt)
}

func TestDecodeImportFileXLSXCorrupt(t *testing.T) {
	_, err := DecodeImportFile(ImportFile{Name: "leads.xlsx", Size: 4, Content: strings.NewReader("nope")})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, FormatXLSX, pe.Format)
}

func TestCanonicalField(t *testing.T) {
	assert.Equal(t, "createdAt", canonicalField("Created At"))
	assert.Equal(t, "createdAt", canonicalField("created_at"))
	assert.Equal(t, "createdAt", canonicalField("CREATED-AT"))
	assert.Equal(t, "id", canonicalField(" ID "))
	assert.Empty(t, canonicalField("notes"))
}
