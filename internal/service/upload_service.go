package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"astra/internal/models"
	"astra/internal/observability"

	"github.com/google/uuid"
)

const (
	DefaultUploadDir  = "./uploads"
	MaxUploadFiles    = 10
	MaxUploadFileSize = 50 * 1024 * 1024 // 50MB per file
)

// UploadedFile describes one stored file in an upload response.
type UploadedFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type UploadService struct {
	uploadDir string
}

func NewUploadService(uploadDir string) *UploadService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &UploadService{uploadDir: uploadDir}
}

// SaveAll validates every file in the batch before writing any of them, so
// a rejected file never leaves partial state on disk.
func (s *UploadService) SaveAll(files []*multipart.FileHeader) ([]UploadedFile, error) {
	if len(files) == 0 {
		return nil, models.NewValidationError("At least one file is required")
	}
	if len(files) > MaxUploadFiles {
		return nil, models.NewValidationError(fmt.Sprintf("Too many files (max %d)", MaxUploadFiles))
	}

	for _, f := range files {
		if f.Size > MaxUploadFileSize {
			return nil, models.NewValidationError(fmt.Sprintf("File %s exceeds the 50MB size limit", f.Filename))
		}
		if mediaKind(f.Header.Get("Content-Type")) == "" {
			return nil, models.NewValidationError(fmt.Sprintf("File %s has unsupported type %s", f.Filename, f.Header.Get("Content-Type")))
		}
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, models.NewInternalError(err)
	}

	saved := make([]UploadedFile, 0, len(files))
	for _, f := range files {
		name := uniqueFilename(f.Filename)
		if err := s.saveOne(f, filepath.Join(s.uploadDir, name)); err != nil {
			return nil, models.NewInternalError(err)
		}
		observability.UploadsAccepted.WithLabelValues(mediaKind(f.Header.Get("Content-Type"))).Inc()
		saved = append(saved, UploadedFile{
			URL:      "/uploads/" + name,
			Filename: name,
		})
	}

	return saved, nil
}

func (s *UploadService) saveOne(f *multipart.FileHeader, dst string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

// mediaKind returns "image" or "video" for accepted content types, empty
// string otherwise.
func mediaKind(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	default:
		return ""
	}
}

// uniqueFilename builds <unix-ms>-<uuid8>-<sanitized-base><ext> so
// concurrent uploads of the same file never collide.
func uniqueFilename(original string) string {
	rawExt := filepath.Ext(original)
	base := sanitizeBase(strings.TrimSuffix(filepath.Base(original), rawExt))
	return fmt.Sprintf("%d-%s-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], base, sanitizeExt(rawExt))
}

// sanitizeExt keeps only alphanumeric characters of the extension; anything
// else in a client-supplied extension is dropped.
func sanitizeExt(ext string) string {
	var b strings.Builder
	for _, r := range strings.TrimPrefix(ext, ".") {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}

func sanitizeBase(base string) string {
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
