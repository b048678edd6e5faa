package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCfgPath(t *testing.T) {
	assert.Panics(t, func() { GetCfgPath("") })

	abs := "/tmp/apiserver.yaml"
	assert.Equal(t, abs, GetCfgPath(abs))

	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })
	tmp := t.TempDir()
	require.NoError(t, os.Chdir(tmp))

	name := "apiserver.yaml"
	require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
	assertSamePath(t, filepath.Join(tmp, name), GetCfgPath(name))

	require.NoError(t, os.Remove(name))
	require.NoError(t, os.MkdirAll("configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", name), []byte("x"), 0o644))
	assertSamePath(t, filepath.Join(tmp, "configs", name), GetCfgPath(name))

	require.NoError(t, os.Remove(filepath.Join("configs", name)))
	assert.Equal(t, filepath.Join(SystemConfigDir, name), GetCfgPath(name))
}

func assertSamePath(t *testing.T, want, got string) {
	t.Helper()
	w, _ := filepath.EvalSymlinks(want)
	g, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, w, g)
}
