package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/rowmark/internal/config"
)

func TestLoadContainerSample(t *testing.T) {
	c, err := loadContainer(context.Background(), config.SourceConfig{})
	require.NoError(t, err)
	require.Equal(t, 6, c.Len())
	require.Equal(t, []string{"name", "kind", "size"}, c.Header)
}

func TestLoadContainerCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n3,4\n"), 0o644))

	c, err := loadContainer(context.Background(), config.SourceConfig{CSV: path, CSVHeader: true})
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	require.Equal(t, []string{"a", "b"}, c.Header)
}

func TestLoadContainerMissingCSV(t *testing.T) {
	_, err := loadContainer(context.Background(), config.SourceConfig{CSV: filepath.Join(t.TempDir(), "nope.csv")})
	require.Error(t, err)
}
