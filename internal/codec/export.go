package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
)

// ExportExt is the extension of export files.
const ExportExt = ".json.gz"

// Export encodes the board as gzip-compressed, pretty-printed JSON.
func Export(b domain.Board) ([]byte, error) {
	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal board: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Import decodes an export file. Anything that fails to decompress, fails to
// parse, or lacks any of columns, tasks and tags is rejected with an
// *ImportError. The result is migrated.
func Import(data []byte) (domain.Board, error) {
	raw, err := gunzip(data)
	if err != nil {
		return domain.Board{}, &ImportError{Err: fmt.Errorf("%w: %w", ErrImportDecompress, err)}
	}

	b, keys, err := decodeJSON(raw)
	if err != nil {
		return domain.Board{}, &ImportError{Err: fmt.Errorf("%w: %v", ErrImportParse, err)}
	}
	if !keys.Complete() {
		return domain.Board{}, &ImportError{Err: fmt.Errorf("%w: %s", ErrImportMissingField, strings.Join(keys.Missing(), ", "))}
	}
	return Migrate(b), nil
}

// ExportFileName returns "<name>.json.gz", or "taskboard-YYYY-MM-DD.json.gz"
// when name is empty. An existing extension on name is not repeated.
func ExportFileName(name string, now time.Time) string {
	if name == "" {
		return domain.AppDirName + "-" + now.Format(time.DateOnly) + ExportExt
	}
	if strings.HasSuffix(name, ExportExt) {
		return name
	}
	return strings.TrimSuffix(name, ".json") + ExportExt
}
