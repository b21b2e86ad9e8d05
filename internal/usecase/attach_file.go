package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase/shared"
)

// MaxAttachmentSize is the largest file embedded as an attachment.
// Embedded files travel inside every snapshot and backup.
const MaxAttachmentSize = 1 << 20

// AttachFileInput contains the parameters for attaching a local file.
type AttachFileInput struct {
	TaskID string // Task ID or ID prefix
	Path   string // File to embed
	Name   string // Display name (empty = file base name)
}

// AttachFile is the use case for embedding a file as a data URL attachment.
type AttachFile struct {
	store BoardStore
}

// NewAttachFile creates a new AttachFile use case.
func NewAttachFile(store BoardStore) *AttachFile {
	return &AttachFile{store: store}
}

// Execute reads the file, detects its type and attaches it. Images become
// image attachments, everything else a file attachment.
func (uc *AttachFile) Execute(_ context.Context, in AttachFileInput) (domain.Attachment, error) {
	board, err := uc.store.Board()
	if err != nil {
		return domain.Attachment{}, err
	}
	task, err := shared.ResolveTask(board, in.TaskID)
	if err != nil {
		return domain.Attachment{}, err
	}

	info, err := os.Stat(in.Path)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.Size() > MaxAttachmentSize {
		return domain.Attachment{}, fmt.Errorf("%s is %d bytes (max %d): %w", in.Path, info.Size(), MaxAttachmentSize, domain.ErrPayloadTooLarge)
	}
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("read attachment: %w", err)
	}

	mime := http.DetectContentType(data)
	kind := domain.AttachmentFile
	if strings.HasPrefix(mime, "image/") {
		kind = domain.AttachmentImage
	}
	name := in.Name
	if name == "" {
		name = filepath.Base(in.Path)
	}

	return uc.store.AddAttachment(task.ID, domain.Attachment{
		Type:     kind,
		Name:     name,
		URL:      dataURL(mime, data),
		MimeType: mime,
		Size:     int64(len(data)),
	})
}

// dataURL encodes data as an RFC 2397 base64 data URL.
func dataURL(mime string, data []byte) string {
	return "data:" + strings.ReplaceAll(mime, " ", "") + ";base64," + base64.StdEncoding.EncodeToString(data)
}
