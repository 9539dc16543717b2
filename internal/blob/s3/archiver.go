package s3blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"albionflip/internal/domain"
)

// contentTypes maps export file extensions to upload content types.
var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
}

// multipartThreshold is the file size, in bytes, at which uploads switch from
// a single PutObject to the multipart path. Exports for wide item lists can
// cross it; typical runs stay well under.
const multipartThreshold int64 = 8 * 1024 * 1024

// ExportArchiver implements domain.ExportArchiver: it copies a finished
// export file into the archive bucket. The local file stays in place; the
// archive is a secondary copy, and a failed upload never fails a run.
type ExportArchiver struct {
	writer domain.BlobWriter
}

// NewExportArchiver creates a new ExportArchiver.
func NewExportArchiver(writer domain.BlobWriter) *ExportArchiver {
	return &ExportArchiver{writer: writer}
}

// ArchiveExport uploads the file at filePath under
// exports/<yyyy-mm-dd>/<runID>/<filename> and returns the object key. Files
// at or above multipartThreshold go through the multipart uploader.
func (a *ExportArchiver) ArchiveExport(ctx context.Context, runID, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("s3blob: open export: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("s3blob: stat export: %w", err)
	}

	name := filepath.Base(filePath)
	contentType := contentTypes[strings.ToLower(filepath.Ext(name))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("exports/%s/%s/%s", time.Now().UTC().Format("2006-01-02"), runID, name)

	if info.Size() >= multipartThreshold {
		err = a.writer.PutMultipart(ctx, key, f, minPartSize)
	} else {
		err = a.writer.Put(ctx, key, f, contentType)
	}
	if err != nil {
		return "", err
	}
	return key, nil
}
