package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/frankban/quicktest"

	"github.com/tablekit/tablemerge/internal/config"
	"github.com/tablekit/tablemerge/internal/table"
	"github.com/tablekit/tablemerge/internal/validation"
)

func TestExitCode(t *testing.T) {
	c := quicktest.New(t)

	tests := []struct {
		err  error
		want int
	}{
		{&config.UsageError{Msg: "bad flag"}, 2},
		{&table.ColumnNotFoundError{Column: "x"}, 2},
		{&table.DuplicateColumnError{Column: "x"}, 2},
		{&table.RenameError{Target: "x", Detail: "taken"}, 2},
		{&table.UnsupportedFormatError{Path: "a.xls", Ext: ".xls"}, 2},
		{&validation.MissingColumnsError{Missing: []string{"id"}}, 2},
		{fmt.Errorf("resolve options: %w", &config.UsageError{Msg: "bad"}), 2},
		{&table.ParseError{Path: "a.csv", Err: errors.New("boom")}, 1},
		{fs.ErrNotExist, 1},
		{errors.New("boom"), 1},
	}

	for _, test := range tests {
		c.Assert(exitCode(test.err), quicktest.Equals, test.want,
			quicktest.Commentf("error %v", test.err))
	}
}

func TestLoadJob_ExplicitFile(t *testing.T) {
	c := quicktest.New(t)
	dir := c.TB.TempDir()

	path := filepath.Join(dir, "job.yaml")
	err := os.WriteFile(path, []byte("select: [id]\n"), 0644)
	c.Assert(err, quicktest.IsNil)

	cfgFile = path
	defer func() { cfgFile = "" }()

	job, err := loadJob()
	c.Assert(err, quicktest.IsNil)
	c.Assert(job.Select, quicktest.DeepEquals, []string{"id"})
}

func TestLoadJob_ExplicitFileMissing(t *testing.T) {
	c := quicktest.New(t)

	cfgFile = filepath.Join(c.TB.TempDir(), "nope.yaml")
	defer func() { cfgFile = "" }()

	_, err := loadJob()
	c.Assert(errors.Is(err, fs.ErrNotExist), quicktest.IsTrue)
}

func TestLoadJob_DefaultsWhenNoFile(t *testing.T) {
	c := quicktest.New(t)

	cfgFile = ""
	job, err := loadJob()
	c.Assert(err, quicktest.IsNil)
	c.Assert(job.LogLevel, quicktest.Equals, "info")
	c.Assert(job.Inputs, quicktest.HasLen, 0)
}
