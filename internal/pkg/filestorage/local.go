package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/idms/ems/internal/pkg/logger"
)

// Storage abstracts photo file persistence so services can be tested
// without touching the filesystem.
type Storage interface {
	// Save persists an uploaded file and returns its stored reference
	// (e.g. "/uploads/1714399517000-photo.jpg").
	Save(fileHeader *multipart.FileHeader) (string, error)
	// Delete removes a previously stored file by its reference. Deleting
	// a missing file is not an error.
	Delete(storedPath string) error
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_.\-]`)

// SanitizeFilename collapses whitespace to underscores and strips
// everything outside [a-zA-Z0-9_.-] from an original filename.
func SanitizeFilename(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	return unsafeChars.ReplaceAllString(name, "")
}

// LocalStorage stores files on the local filesystem under basePath and
// exposes them under the "/uploads" URL path.
type LocalStorage struct {
	basePath string
	now      func() time.Time
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating
// the directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		now:      time.Now,
	}, nil
}

// Save writes the uploaded file with a timestamp-prefixed, sanitized
// filename and returns the "/uploads/..." reference stored on the record.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil // No file uploaded
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	safeName := SanitizeFilename(filepath.Base(fileHeader.Filename))
	storedName := fmt.Sprintf("%d-%s", ls.now().UnixMilli(), safeName)
	dstPath := filepath.Join(ls.basePath, storedName)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		// Attempt to remove the partially created file
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	storedPath := "/uploads/" + storedName
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", storedName).Msg("File saved")
	return storedPath, nil
}

// Delete removes a file from the storage filesystem. It accepts the path
// as stored on the record (e.g. "/uploads/filename.jpg"). Returns nil if
// deletion succeeds or if the file does not exist.
func (ls *LocalStorage) Delete(storedPath string) error {
	if storedPath == "" {
		return nil // Nothing to delete
	}

	filename := filepath.Base(storedPath)
	if filename == "" || filename == "." || filename == "/" || filename == "uploads" {
		return fmt.Errorf("invalid file path: %s", storedPath)
	}

	physicalPath := filepath.Join(ls.basePath, filename)

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}
