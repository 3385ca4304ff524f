package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tieubaoca/doc2cal/types"
	"github.com/tieubaoca/doc2cal/utils"
)

var (
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge       = errors.New("uploaded file is too large")
)

// FileService stores uploads for the lifetime of one request.
type FileService struct {
	uploadDir string
	maxBytes  int64
	logger    *zap.Logger
}

func NewFileService(uploadDir string, maxUploadMB int64, logger *zap.Logger) (*FileService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{
		uploadDir: uploadDir,
		maxBytes:  maxUploadMB << 20,
		logger:    logger.With(zap.String("module", "upload")),
	}, nil
}

func (s *FileService) Save(file *multipart.FileHeader) (*types.UploadedDocument, error) {
	kind, ok := types.KindFromFilename(file.Filename)
	if !ok {
		return nil, ErrFileTypeNotAllowed
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := utils.TimestampedFilename(file.Filename, uuid.NewString()[:8], time.Now())
	path := filepath.Join(s.uploadDir, filename)
	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}

	return &types.UploadedDocument{
		Path:     path,
		Filename: file.Filename,
		Kind:     kind,
	}, nil
}

func (s *FileService) Remove(doc *types.UploadedDocument) {
	if doc == nil {
		return
	}
	if err := os.Remove(doc.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Failed to remove upload", zap.String("path", doc.Path), zap.Error(err))
	}
}
