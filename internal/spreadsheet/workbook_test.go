package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readBack(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	for i := range rows {
		for len(rows[i]) < Columns {
			rows[i] = append(rows[i], "")
		}
	}
	return rows
}

func TestBuild(t *testing.T) {
	data, err := Build(sampleSlides(t))
	require.NoError(t, err)

	rows := readBack(t, data)
	require.Len(t, rows, Pages+1)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, Rows(sampleSlides(t)), rows[1:])
}

func TestBuild_PageIsNumeric(t *testing.T) {
	data, err := Build(sampleSlides(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	typ, err := f.GetCellType(SheetName, "A11")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
	assert.NotEqual(t, excelize.CellTypeInlineString, typ)
}

func TestBuild_SameBytesForSameInput(t *testing.T) {
	a, err := Build(sampleSlides(t))
	require.NoError(t, err)
	b, err := Build(sampleSlides(t))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestBuild_Empty(t *testing.T) {
	data, err := Build(nil)
	require.NoError(t, err)
	rows := readBack(t, data)
	require.Len(t, rows, Pages+1)
	assert.Equal(t, "10", rows[Pages][0])
}
