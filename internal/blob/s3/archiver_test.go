package s3blob

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	putKey         string
	putContentType string
	putBytes       int64

	multipartKey      string
	multipartPartSize int64
	multipartBytes    int64
}

func (w *recordingWriter) Put(ctx context.Context, path string, data io.Reader, contentType string) error {
	w.putKey = path
	w.putContentType = contentType
	n, err := io.Copy(io.Discard, data)
	w.putBytes = n
	return err
}

func (w *recordingWriter) PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error {
	w.multipartKey = path
	w.multipartPartSize = partSize
	n, err := io.Copy(io.Discard, data)
	w.multipartBytes = n
	return err
}

func writeExport(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0o644))
	return path
}

func TestArchiveExportSmallFileUsesPut(t *testing.T) {
	w := &recordingWriter{}
	path := writeExport(t, "flipping_results_20260831_143000.csv", 128)

	key, err := NewExportArchiver(w).ArchiveExport(context.Background(), "run-1", path)
	require.NoError(t, err)

	assert.Equal(t, key, w.putKey)
	assert.True(t, strings.HasPrefix(key, "exports/"))
	assert.True(t, strings.HasSuffix(key, "/run-1/flipping_results_20260831_143000.csv"))
	assert.Equal(t, "text/csv", w.putContentType)
	assert.Equal(t, int64(128), w.putBytes)
	assert.Empty(t, w.multipartKey)
}

func TestArchiveExportLargeFileUsesMultipart(t *testing.T) {
	w := &recordingWriter{}
	path := writeExport(t, "flipping_results_20260831_143000.xlsx", int(multipartThreshold))

	key, err := NewExportArchiver(w).ArchiveExport(context.Background(), "run-1", path)
	require.NoError(t, err)

	assert.Equal(t, key, w.multipartKey)
	assert.Equal(t, minPartSize, w.multipartPartSize)
	assert.Equal(t, multipartThreshold, w.multipartBytes)
	assert.Empty(t, w.putKey)
}

func TestArchiveExportUnknownExtension(t *testing.T) {
	w := &recordingWriter{}
	path := writeExport(t, "export.bin", 16)

	_, err := NewExportArchiver(w).ArchiveExport(context.Background(), "run-1", path)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", w.putContentType)
}

func TestArchiveExportMissingFile(t *testing.T) {
	w := &recordingWriter{}

	_, err := NewExportArchiver(w).ArchiveExport(context.Background(), "run-1", filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open export")
}
