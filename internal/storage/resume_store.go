// Package storage keeps uploaded resumes on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
)

var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".rtf":  "application/rtf",
}

const defaultContentType = "application/octet-stream"

type ResumeStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

func NewResumeStore(dir string, maxBytes int64) (*ResumeStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ResumeStore{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

func (s *ResumeStore) Dir() string {
	return s.dir
}

// Validate checks type and size before anything touches the disk.
func (s *ResumeStore) Validate(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedUploadExtensions[ext] {
		return apperrors.ValidationFields("resume must be a PDF, DOC or DOCX file",
			map[string]string{"resume": "file type not allowed"})
	}
	if size > s.maxBytes {
		return apperrors.ValidationFields(
			fmt.Sprintf("resume must not exceed %d MB", s.maxBytes/(1024*1024)),
			map[string]string{"resume": "file too large"})
	}
	return nil
}

// Save writes r under a generated unique name and returns the stored path.
// Reads past the size limit are rejected and the partial file is removed.
func (s *ResumeStore) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(s.dir, s.uniqueName(ext))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperrors.Internal("failed to store resume", err)
	}

	written, copyErr := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if copyErr == nil && written > s.maxBytes {
		copyErr = apperrors.ValidationFields(
			fmt.Sprintf("resume must not exceed %d MB", s.maxBytes/(1024*1024)),
			map[string]string{"resume": "file too large"})
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(path)
		var appErr *apperrors.Error
		if errors.As(copyErr, &appErr) {
			return "", appErr
		}
		return "", apperrors.Internal("failed to store resume", copyErr)
	}
	return path, nil
}

// Remove deletes a stored file; a file that is already gone is not an error.
func (s *ResumeStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *ResumeStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// uniqueName follows the "resume-<millis>-<random><ext>" convention.
func (s *ResumeStore) uniqueName(ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("resume-%d-%s%s", s.now().UnixMilli(), suffix, ext)
}

// ContentType maps a stored file to the MIME type it is served with.
func ContentType(path string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return defaultContentType
}
