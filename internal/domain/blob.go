package domain

import (
	"context"
	"io"
)

// BlobWriter uploads data to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error
}

// ExportArchiver copies a finished export file into cold storage.
type ExportArchiver interface {
	ArchiveExport(ctx context.Context, runID, filePath string) (string, error)
}
