package filestore

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urbexlog/places-service/internal/config"
	"github.com/urbexlog/places-service/internal/domain/repository"
	"github.com/urbexlog/places-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// allowedExtensions limits uploads to common image formats.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type fileStore struct {
	dir        string
	publicPath string
	fieldName  string
	maxBytes   int64
	logger     *zap.Logger
}

// New creates the upload directory if needed and returns the disk-backed sink.
func New(cfg *config.UploadConfig, logger *zap.Logger) (repository.FileRepository, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", cfg.Dir, err)
	}

	return &fileStore{
		dir:        cfg.Dir,
		publicPath: strings.TrimRight(cfg.PublicPath, "/"),
		fieldName:  cfg.FieldName,
		maxBytes:   cfg.MaxSizeMB << 20,
		logger:     logger,
	}, nil
}

// Save validates the upload and writes it under a collision-resistant name:
// <field>-<unix nanos>-<uuid suffix><ext>. Concurrent uploads never collide.
func (s *fileStore) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxBytes {
		return "", errors.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", errors.ErrInvalidFileType
	}

	src, err := header.Open()
	if err != nil {
		s.logger.Error("Failed to open uploaded file", zap.Error(err))
		return "", errors.ErrUploadFailed
	}
	defer src.Close()

	if err := sniffImage(src); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%d-%s%s",
		s.fieldName,
		time.Now().UnixNano(),
		uuid.NewString()[:8],
		ext,
	)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		s.logger.Error("Failed to create file", zap.String("name", name), zap.Error(err))
		return "", errors.ErrUploadFailed
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		s.logger.Error("Failed to write file", zap.String("name", name), zap.Error(err))
		os.Remove(dst.Name())
		return "", errors.ErrUploadFailed
	}

	s.logger.Info("Stored upload",
		zap.String("name", name),
		zap.Int64("bytes", written),
	)

	return path.Join(s.publicPath, name), nil
}

// sniffImage checks the leading bytes really are an image, then rewinds.
func sniffImage(src multipart.File) error {
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return errors.ErrUploadFailed
	}

	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return errors.ErrInvalidFileType
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return errors.ErrUploadFailed
	}
	return nil
}
