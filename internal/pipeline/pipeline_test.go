package pipeline

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/frankban/quicktest"
	"github.com/xuri/excelize/v2"

	"github.com/tablekit/tablemerge/internal/csvparser"
	"github.com/tablekit/tablemerge/internal/table"
	"github.com/tablekit/tablemerge/internal/validation"
	"github.com/tablekit/tablemerge/internal/xlsxparser"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(c *quicktest.C, dir, name, content string) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	c.Assert(err, quicktest.IsNil)
	return path
}

func writeWorkbook(c *quicktest.C, dir, name string, rows [][]interface{}) string {
	path := filepath.Join(dir, name)
	f := excelize.NewFile()
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			c.Assert(err, quicktest.IsNil)
			c.Assert(f.SetCellValue("Sheet1", cell, value), quicktest.IsNil)
		}
	}
	c.Assert(f.SaveAs(path), quicktest.IsNil)
	c.Assert(f.Close(), quicktest.IsNil)
	return path
}

func TestRun_MergeSelectRenameRequired(t *testing.T) {
	c := quicktest.New(t)
	dir := c.TB.TempDir()

	a := writeFile(c, dir, "a.csv", "id,name,amount\n1,alice,10\n2,bob,20\n3,carol,30\n")
	b := writeFile(c, dir, "b.csv", "id,name,amount\n4,dave,40\n5,erin,50\n6,frank,60\n")
	out := filepath.Join(dir, "merged.csv")

	p := New(Options{
		Inputs:   []string{a, b},
		Select:   []string{"id", "name", "amount"},
		Rename:   map[string]string{"name": "client", "amount": "value"},
		Required: []string{"id", "client"},
		Output:   out,
	}, discardLogger())

	result, err := p.Run()
	c.Assert(err, quicktest.IsNil)
	c.Assert(result.Written, quicktest.IsTrue)
	c.Assert(result.InputFiles, quicktest.Equals, 2)
	c.Assert(result.Rows, quicktest.Equals, 6)
	c.Assert(result.Columns, quicktest.Equals, 3)
	c.Assert(result.Header, quicktest.DeepEquals, []string{"id", "client", "value"})
	c.Assert(result.Output, quicktest.Equals, out)

	got, err := csvparser.Parse(out)
	c.Assert(err, quicktest.IsNil)
	c.Assert(got.Columns, quicktest.DeepEquals, []string{"id", "client", "value"})
	c.Assert(got.Rows, quicktest.HasLen, 6)
	c.Assert(got.Rows[0], quicktest.DeepEquals, table.Row{"id": "1", "client": "alice", "value": "10"})
	c.Assert(got.Rows[5], quicktest.DeepEquals, table.Row{"id": "6", "client": "frank", "value": "60"})
}

func TestRun_MixedFormatsUnionColumns(t *testing.T) {
	c := quicktest.New(t)
	dir := c.TB.TempDir()

	a := writeFile(c, dir, "a.csv", "id,name\n1,alice\n")
	b := writeWorkbook(c, dir, "b.xlsx", [][]interface{}{
		{"id", "amount"},
		{2, 9.5},
	})
	out := filepath.Join(dir, "merged.xlsx")

	p := New(Options{Inputs: []string{a, b}, Output: out}, discardLogger())
	result, err := p.Run()
	c.Assert(err, quicktest.IsNil)
	c.Assert(result.Header, quicktest.DeepEquals, []string{"id", "name", "amount"})
	c.Assert(result.Rows, quicktest.Equals, 2)

	got, err := xlsxparser.Parse(out)
	c.Assert(err, quicktest.IsNil)
	c.Assert(got.Columns, quicktest.DeepEquals, []string{"id", "name", "amount"})
	c.Assert(got.Rows, quicktest.HasLen, 2)
	c.Assert(got.Rows[0], quicktest.DeepEquals, table.Row{"id": "1", "name": "alice", "amount": ""})
	c.Assert(got.Rows[1], quicktest.DeepEquals, table.Row{"id": "2", "name": "", "amount": "9.5"})
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	c := quicktest.New(t)
	dir := c.TB.TempDir()

	a := writeFile(c, dir, "a.csv", "id,name\n1,alice\n")
	out := filepath.Join(dir, "never.csv")

	p := New(Options{Inputs: []string{a}, Output: out, DryRun: true}, discardLogger())
	result, err := p.Run()
	c.Assert(err, quicktest.IsNil)
	c.Assert(result.Written, quicktest.IsFalse)
	c.Assert(result.Rows, quicktest.Equals, 1)
	c.Assert(result.Header, quicktest.DeepEquals, []string{"id", "name"})

	_, err = os.Stat(out)
	c.Assert(errors.Is(err, fs.ErrNotExist), quicktest.IsTrue)
}

func TestRun_UnknownSelectColumnAbortsBeforeWrite(t *testing.T) {
	c := quicktest.New(t)
	dir := c.TB.TempDir()

	a := writeFile(c, dir, "a.csv", "id,name\n1,alice\n")
	out := filepath.Join(dir, "merged.csv")

	p := New(Options{
		Inputs: []string{a},
		Select: []string{"id", "nope"},
		Output: out,
	}, discardLogger())

	_, err := p.Run()
	var notFound *table.ColumnNotFoundError
	c.Assert(errors.As(err, &notFound), quicktest.IsTrue)
	c.Assert(notFound.Column, quicktest.Equals, "nope")

	_, err = os.Stat(out)
	c.Assert(errors.Is(err, fs.ErrNotExist), quicktest.IsTrue)
}

func TestRun_MissingRequiredColumnsAbortsBeforeWrite(t *testing.T) {
	c := quicktest.New(t)
	dir := c.TB.TempDir()

	a := writeFile(c, dir, "a.csv", "id,name\n1,alice\n")
	out := filepath.Join(dir, "merged.csv")

	p := New(Options{
		Inputs:   []string{a},
		Required: []string{"id", "client"},
		Output:   out,
	}, discardLogger())

	_, err := p.Run()
	var missing *validation.MissingColumnsError
	c.Assert(errors.As(err, &missing), quicktest.IsTrue)
	c.Assert(missing.Missing, quicktest.DeepEquals, []string{"client"})

	_, err = os.Stat(out)
	c.Assert(errors.Is(err, fs.ErrNotExist), quicktest.IsTrue)
}

func TestRun_NoInputs(t *testing.T) {
	c := quicktest.New(t)

	p := New(Options{Output: "out.csv"}, discardLogger())
	_, err := p.Run()
	c.Assert(err, quicktest.ErrorMatches, "no input files to merge")
}

func TestReadTable_DispatchesOnExtension(t *testing.T) {
	c := quicktest.New(t)
	dir := c.TB.TempDir()

	csvPath := writeFile(c, dir, "data.CSV", "id\n1\n")
	got, err := ReadTable(csvPath, discardLogger())
	c.Assert(err, quicktest.IsNil)
	c.Assert(got.Columns, quicktest.DeepEquals, []string{"id"})

	xlsxPath := writeWorkbook(c, dir, "data.xlsx", [][]interface{}{{"id"}, {1}})
	got, err = ReadTable(xlsxPath, discardLogger())
	c.Assert(err, quicktest.IsNil)
	c.Assert(got.Rows, quicktest.HasLen, 1)
}

func TestReadTable_LegacyXLS(t *testing.T) {
	c := quicktest.New(t)

	_, err := ReadTable("old/book.xls", discardLogger())
	var unsupported *table.UnsupportedFormatError
	c.Assert(errors.As(err, &unsupported), quicktest.IsTrue)
	c.Assert(unsupported.Ext, quicktest.Equals, ".xls")
	c.Assert(err, quicktest.ErrorMatches, `.*convert the workbook to \.xlsx first.*`)
}

func TestReadTable_UnknownExtension(t *testing.T) {
	c := quicktest.New(t)

	_, err := ReadTable("notes.json", discardLogger())
	var unsupported *table.UnsupportedFormatError
	c.Assert(errors.As(err, &unsupported), quicktest.IsTrue)
	c.Assert(unsupported.Ext, quicktest.Equals, ".json")
}
