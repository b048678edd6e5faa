package spreadsheet

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundle(t *testing.T) {
	data, err := Bundle([]File{
		{Name: "Carrousel_A.xlsx", Data: []byte("a")},
		{Name: "Carrousel_B.xlsx", Data: []byte("b")},
		{Name: "Carrousel_A.xlsx", Data: []byte("a2")},
		{Name: "Carrousel_A_2.xlsx", Data: []byte("a3")},
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	got := map[string]string{}
	var order []string
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		got[f.Name] = string(b)
		order = append(order, f.Name)
	}

	assert.Equal(t, []string{"Carrousel_A.xlsx", "Carrousel_B.xlsx", "Carrousel_A_2.xlsx", "Carrousel_A_2_2.xlsx"}, order)
	assert.Equal(t, "a2", got["Carrousel_A_2.xlsx"])
	assert.Equal(t, "a3", got["Carrousel_A_2_2.xlsx"])
}

func TestBundle_Empty(t *testing.T) {
	data, err := Bundle(nil)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}
