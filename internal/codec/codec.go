// Package codec converts boards to and from their persisted forms.
//
// A persisted payload is one of:
//
//	(a) base64(gzip(JSON))  the normal wire form
//	(b) JSON                written when compression fails, and by old versions
//	(c) an in-memory value  only through Decode
//
// Base64 output never contains '{', so a payload whose first non-space byte is
// '{' is always form (b).
package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/runoshun/taskboard/internal/domain"
)

// Top-level keys of an encoded board.
const (
	KeyColumns = "columns"
	KeyTasks   = "tasks"
	KeyTags    = "tags"
)

// Payload forms.
const (
	FormCompressed = "compressed"
	FormRaw        = "raw"
	FormValue      = "value"
)

// compress is replaced in tests to simulate compressor failures.
var compress = gzipBase64

// Keys records which top-level board keys a payload carried.
type Keys struct {
	Columns bool
	Tasks   bool
	Tags    bool
}

// Complete returns true if all of columns, tasks and tags were present.
func (k Keys) Complete() bool {
	return k.Columns && k.Tasks && k.Tags
}

// Missing returns the names of absent keys.
func (k Keys) Missing() []string {
	var missing []string
	if !k.Columns {
		missing = append(missing, KeyColumns)
	}
	if !k.Tasks {
		missing = append(missing, KeyTasks)
	}
	if !k.Tags {
		missing = append(missing, KeyTags)
	}
	return missing
}

// Serialize encodes the board in the compressed wire form. If compression
// fails, the plain JSON text is returned instead.
func Serialize(b domain.Board) ([]byte, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal board: %w", err)
	}
	out, err := compress(raw)
	if err != nil {
		return raw, nil
	}
	return out, nil
}

// Deserialize decodes a compressed or raw payload and migrates the result.
// A payload must carry the columns and tasks keys; a missing tags key is
// filled in by Migrate.
func Deserialize(payload []byte) (domain.Board, error) {
	b, keys, err := DecodeRaw(payload)
	if err != nil {
		return domain.Board{}, err
	}
	if !keys.Columns || !keys.Tasks {
		return domain.Board{}, &DecodeError{Form: detectForm(payload), Err: missingFieldErr(keys)}
	}
	return Migrate(b), nil
}

// DecodeRaw decodes a compressed or raw payload without migrating it and
// reports which top-level keys were present.
func DecodeRaw(payload []byte) (domain.Board, Keys, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return domain.Board{}, Keys{}, &DecodeError{Form: FormRaw, Err: fmt.Errorf("%w: empty payload", ErrCorruptPayload)}
	}

	if trimmed[0] == '{' {
		b, keys, err := decodeJSON(trimmed)
		if err != nil {
			return domain.Board{}, Keys{}, &DecodeError{Form: FormRaw, Err: err}
		}
		return b, keys, nil
	}

	raw, err := gunzipBase64(trimmed)
	if err != nil {
		return domain.Board{}, Keys{}, &DecodeError{Form: FormCompressed, Err: err}
	}
	b, keys, err := decodeJSON(raw)
	if err != nil {
		return domain.Board{}, Keys{}, &DecodeError{Form: FormCompressed, Err: err}
	}
	return b, keys, nil
}

// Decode accepts any supported form: a compressed or raw payload as string
// or []byte, or an already-decoded Board, *Board or generic JSON object.
// The result is migrated.
func Decode(v any) (domain.Board, error) {
	switch val := v.(type) {
	case []byte:
		return Deserialize(val)
	case string:
		return Deserialize([]byte(val))
	case json.RawMessage:
		return Deserialize(val)
	case domain.Board:
		return Migrate(val), nil
	case *domain.Board:
		if val == nil {
			return domain.Board{}, &DecodeError{Form: FormValue, Err: fmt.Errorf("%w: nil board", ErrCorruptPayload)}
		}
		return Migrate(*val), nil
	case map[string]any:
		raw, err := json.Marshal(val)
		if err != nil {
			return domain.Board{}, &DecodeError{Form: FormValue, Err: fmt.Errorf("%w: %v", ErrCorruptPayload, err)}
		}
		b, keys, err := decodeJSON(raw)
		if err != nil {
			return domain.Board{}, &DecodeError{Form: FormValue, Err: err}
		}
		if !keys.Columns || !keys.Tasks {
			return domain.Board{}, &DecodeError{Form: FormValue, Err: missingFieldErr(keys)}
		}
		return Migrate(b), nil
	default:
		return domain.Board{}, &DecodeError{Form: FormValue, Err: fmt.Errorf("%w: %T", ErrUnsupportedEncoding, v)}
	}
}

// DecodeOrDefault decodes the payload, falling back to defaults() on any
// failure.
func DecodeOrDefault(payload []byte, defaults func() domain.Board) domain.Board {
	b, err := Deserialize(payload)
	if err != nil {
		return defaults()
	}
	return b
}

// Migrate fills fields introduced by later schema revisions. It is
// idempotent and returns a new board.
func Migrate(b domain.Board) domain.Board {
	next := b.Clone()
	if next.Columns == nil {
		next.Columns = []domain.Column{}
	}
	if next.Tasks == nil {
		next.Tasks = []domain.Task{}
	}
	if next.Tags == nil {
		next.Tags = domain.DefaultTags()
	}
	for i := range next.Tasks {
		t := &next.Tasks[i]
		if t.Status == "" {
			t.Status = domain.StatusNotStarted
		}
		if t.Subtasks == nil {
			t.Subtasks = []domain.Subtask{}
		}
		if t.Notes == nil {
			t.Notes = []domain.Note{}
		}
		if t.Attachments == nil {
			t.Attachments = []domain.Attachment{}
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
	}
	return next
}

func detectForm(payload []byte) string {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormRaw
	}
	return FormCompressed
}

func missingFieldErr(keys Keys) error {
	return fmt.Errorf("%w: %v", ErrMissingField, keys.Missing())
}

// decodeJSON parses a JSON board object, recording which keys were present.
func decodeJSON(raw []byte) (domain.Board, Keys, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.Board{}, Keys{}, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if fields == nil {
		return domain.Board{}, Keys{}, fmt.Errorf("%w: not an object", ErrCorruptPayload)
	}
	_, hasColumns := fields[KeyColumns]
	_, hasTasks := fields[KeyTasks]
	_, hasTags := fields[KeyTags]

	var b domain.Board
	if err := json.Unmarshal(raw, &b); err != nil {
		return domain.Board{}, Keys{}, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	return b, Keys{Columns: hasColumns, Tasks: hasTasks, Tags: hasTags}, nil
}

func gzipBase64(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(buf.Len()))
	base64.StdEncoding.Encode(out, buf.Bytes())
	return out, nil
}

func gunzipBase64(payload []byte) ([]byte, error) {
	compressed := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
	n, err := base64.StdEncoding.Decode(compressed, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrUnsupportedEncoding, err)
	}
	return gunzip(compressed[:n])
}

// maxDecompressedSize bounds what gunzip inflates a payload to.
var maxDecompressedSize int64 = 64 << 20

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrCorruptPayload, err)
	}
	defer func() { _ = zr.Close() }()
	out, err := io.ReadAll(io.LimitReader(zr, maxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrCorruptPayload, err)
	}
	if int64(len(out)) > maxDecompressedSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrPayloadTooLarge, maxDecompressedSize)
	}
	return out, nil
}
