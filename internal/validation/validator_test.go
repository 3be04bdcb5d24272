package validation

import (
	"errors"
	"testing"

	"github.com/frankban/quicktest"

	"github.com/tablekit/tablemerge/internal/table"
)

func TestRequired_AllPresent(t *testing.T) {
	c := quicktest.New(t)

	tab := table.New([]string{"id", "client", "value"})
	c.Assert(Required(tab, []string{"id", "client"}), quicktest.IsNil)
}

func TestRequired_EmptyRequirementPasses(t *testing.T) {
	c := quicktest.New(t)

	tab := table.New([]string{"id"})
	c.Assert(Required(tab, nil), quicktest.IsNil)
}

func TestRequired_ReportsEveryMissingColumn(t *testing.T) {
	c := quicktest.New(t)

	tab := table.New([]string{"id"})
	err := Required(tab, []string{"id", "client", "value"})

	var missErr *MissingColumnsError
	c.Assert(errors.As(err, &missErr), quicktest.IsTrue)
	c.Assert(missErr.Missing, quicktest.DeepEquals, []string{"client", "value"})
	c.Assert(missErr.Available, quicktest.DeepEquals, []string{"id"})
	c.Assert(err, quicktest.ErrorMatches, `missing required columns: client, value \(available: id\)`)
}

func TestRequired_ZeroRowTableWithHeaderIsValid(t *testing.T) {
	c := quicktest.New(t)

	tab := table.New([]string{"id", "client"})
	c.Assert(Required(tab, []string{"id", "client"}), quicktest.IsNil)
}
