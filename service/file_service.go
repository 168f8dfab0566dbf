package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"juspatria-backend/models"
	"juspatria-backend/repository"
	"juspatria-backend/storage"

	"github.com/google/uuid"
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrFileTooLarge       = errors.New("file exceeds the upload limit")
	ErrUnsupportedFile    = errors.New("file type not allowed")
	ErrFileServiceMissing = errors.New("file service not configured")
)

// DefaultMaxUploadBytes caps uploads at 10MB
const DefaultMaxUploadBytes int64 = 10 * 1024 * 1024

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
	"text/markdown":   true,
}

var allowedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// FileRecords stores upload metadata
type FileRecords interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FileService accepts documents for later interpretation
type FileService struct {
	records  FileRecords
	storage  storage.Storage
	maxBytes int64
}

// NewFileService creates a new file service
func NewFileService(records FileRecords, store storage.Storage, maxBytes int64) *FileService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &FileService{records: records, storage: store, maxBytes: maxBytes}
}

// MaxBytes returns the upload limit
func (s *FileService) MaxBytes() int64 { return s.maxBytes }

// UploadRequest is one incoming document
type UploadRequest struct {
	Filename string
	MimeType string
	Size     int64
	Data     io.Reader
}

// Upload validates the document, stores its bytes and records its metadata
func (s *FileService) Upload(ctx context.Context, req UploadRequest) (*models.File, error) {
	if req.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	mimeType, err := ResolveMimeType(req.Filename, req.MimeType)
	if err != nil {
		return nil, err
	}

	fileID := uuid.New()
	storagePath, err := s.storage.Upload(ctx, fileID, req.Filename, io.LimitReader(req.Data, s.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	file := &models.File{
		ID:          fileID,
		Filename:    filepath.Base(req.Filename),
		MimeType:    mimeType,
		Size:        req.Size,
		StoragePath: storagePath,
	}
	if err := s.records.Create(ctx, file); err != nil {
		_ = s.storage.Delete(ctx, storagePath)
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	return file, nil
}

// Get returns the metadata of an upload
func (s *FileService) Get(ctx context.Context, id uuid.UUID) (*models.File, error) {
	file, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to load file record: %w", err)
	}
	return file, nil
}

// Open returns the upload metadata and a reader over its bytes
func (s *FileService) Open(ctx context.Context, id uuid.UUID) (*models.File, io.ReadCloser, error) {
	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}
	return file, r, nil
}

// Attachment loads an upload as an inline payload for the generation backend
func (s *FileService) Attachment(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := storage.ReadAll(ctx, s.storage, file.StoragePath, s.maxBytes)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrFileNotFound
		case errors.Is(err, storage.ErrTooLarge):
			return nil, ErrFileTooLarge
		}
		return nil, err
	}
	return &models.Attachment{Name: file.Filename, MimeType: file.MimeType, Data: data}, nil
}

// ResolveMimeType checks the document type, inferring it from the extension
// when the client sent none or a generic one.
func ResolveMimeType(filename, declared string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	declared = strings.TrimSpace(strings.SplitN(declared, ";", 2)[0])

	if declared == "" || declared == "application/octet-stream" {
		if !allowedExtensions[ext] {
			return "", ErrUnsupportedFile
		}
		return storage.ContentTypeFor(filename), nil
	}

	if allowedMimeTypes[declared] {
		return declared, nil
	}
	// browsers report .md as text/x-markdown or plain text variants
	if strings.HasPrefix(declared, "text/") && allowedExtensions[ext] {
		return storage.ContentTypeFor(filename), nil
	}
	return "", ErrUnsupportedFile
}
