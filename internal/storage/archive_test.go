package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportArchiveSaveReplaces(t *testing.T) {
	root := t.TempDir()
	archive, err := NewReportArchive(root)
	require.NoError(t, err)

	key := ReportKey("donors", time.Date(2024, 7, 1, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "donors/2024-07-01.json", key)

	path, err := archive.Save(context.Background(), key, []byte(`{"v":1}`))
	require.NoError(t, err)
	_, err = archive.Save(context.Background(), key, []byte(`{"v":2}`))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(data))

	entries, err := os.ReadDir(filepath.Join(root, "donors"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestReportArchiveRejectsEscapingKeys(t *testing.T) {
	archive, err := NewReportArchive(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../outside.json", "a/../../b.json", "."} {
		_, err := archive.Save(context.Background(), key, []byte("{}"))
		assert.Error(t, err, "key %q", key)
	}
}

func TestReportArchiveHonoursCancelledContext(t *testing.T) {
	archive, err := NewReportArchive(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = archive.Save(ctx, "donors/x.json", []byte("{}"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewReportArchiveRequiresRoot(t *testing.T) {
	_, err := NewReportArchive("  ")
	assert.Error(t, err)
}
