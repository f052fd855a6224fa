package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinline/internal/annotation"
	"thinline/internal/domain"
	"thinline/internal/registry"
)

func TestCollector_Collect(t *testing.T) {
	c := NewCollector(nil, "", 2, nil)
	res, err := c.Collect(context.Background(), []string{"testdata"}, "")
	require.NoError(t, err)

	assert.Len(t, res.Files, 3)
	// src1.py: 3, math.c: add_ints + empty_fct, shapes.hpp: area
	assert.Equal(t, 6, res.Registry.CaseCount())

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, "add_ptr", d.Function.Name)
	assert.True(t, errors.Is(d, annotation.ErrArgumentMismatch))
	parseErrs := d.ParseErrors()
	require.Len(t, parseErrs, 1)
	assert.Equal(t, "add_ptr::wrong_params", parseErrs[0].CaseID)
	assert.Contains(t, d.Error(), "math.c:17 add_ptr")
}

func TestCollector_CollectFilePattern(t *testing.T) {
	c := NewCollector(nil, domain.LanguagePython, 1, nil)
	res, err := c.Collect(context.Background(), []string{"testdata"}, "*.py")
	require.NoError(t, err)

	assert.Len(t, res.Files, 1)
	assert.Equal(t, 3, res.Functions)
	assert.Equal(t, 3, res.Registry.Len())
	assert.Empty(t, res.Diagnostics)
}

func TestCollector_MissingRoot(t *testing.T) {
	c := NewCollector(nil, "", 1, nil)
	_, err := c.Collect(context.Background(), []string{"testdata/none"}, "")
	assert.Error(t, err)
}

func TestRegister_DuplicateAndBrokenBlocks(t *testing.T) {
	doc := `#TL_TESTCASE(math::sum)
    #TL_EQ[TL_FCT(a: 1) => 1]
#!TL_TESTCASE`
	broken := `#TL_TESTCASE(math::broken)
    #TL_EQ[TL_FCT(a: 1) 1]
#!TL_TESTCASE
#TL_TESTCASE(math::ok)
    #TL_EQ[TL_FCT(a: 2) => 2]
#!TL_TESTCASE`

	fns := []domain.Function{
		{File: "a.py", Name: "id", Parameters: []string{"a"}, Doc: doc},
		{File: "b.py", Name: "id", Parameters: []string{"a"}, Doc: doc},
		{File: "c.py", Name: "other", Parameters: []string{"a"}, Doc: broken},
		{File: "d.py", Name: "plain", Doc: "no annotations here"},
	}
	res := Register(fns)

	assert.Equal(t, 4, res.Functions)
	assert.Equal(t, 2, res.Registry.CaseCount())
	require.Len(t, res.Diagnostics, 2)
	assert.ErrorIs(t, res.Diagnostics[0], registry.ErrDuplicateCase)
	assert.ErrorIs(t, res.Diagnostics[1], annotation.ErrMalformedExpectation)

	entry, ok := res.Registry.Lookup("c.py:other")
	require.True(t, ok)
	require.Len(t, entry.Cases, 1)
	assert.Equal(t, "math::ok", entry.Cases[0].ID())
}

func TestRegister_SameCaseIDTwiceOnOneFunction(t *testing.T) {
	doc := `#TL_TESTCASE(g::same)
    #TL_EQ[TL_FCT(a: 1) => 1]
#!TL_TESTCASE
#TL_TESTCASE(g::same)
    #TL_EQ[TL_FCT(a: 2) => 2]
#!TL_TESTCASE`

	res := Register([]domain.Function{{File: "a.py", Name: "id", Parameters: []string{"a"}, Doc: doc}})

	assert.Equal(t, 1, res.Registry.CaseCount())
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0], registry.ErrDuplicateCase)
	assert.Equal(t, "id", res.Diagnostics[0].Function.Name)
}
