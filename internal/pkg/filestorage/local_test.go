package filestorage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"  spaced   name .png", "spaced_name_.png"},
		{"we!rd#ch@rs$.gif", "werdchrs.gif"},
		{"safe-name_01.jpeg", "safe-name_01.jpeg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), tt.in)
	}
}

// makeFileHeader builds a real multipart.FileHeader from an in-memory form
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(10 << 20)
	require.NoError(t, err)

	files := form.File["photo"]
	require.Len(t, files, 1)
	return files[0]
}

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()

	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)
	storage.now = func() time.Time { return time.UnixMilli(1714399517000) }

	header := makeFileHeader(t, "my photo!.jpg", []byte("jpeg-bytes"))

	storedPath, err := storage.Save(header)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1714399517000-my_photo.jpg", storedPath)

	content, err := os.ReadFile(filepath.Join(dir, "1714399517000-my_photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), content)

	require.NoError(t, storage.Delete(storedPath))
	_, err = os.Stat(filepath.Join(dir, "1714399517000-my_photo.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageSaveNilHeader(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	storedPath, err := storage.Save(nil)
	require.NoError(t, err)
	assert.Empty(t, storedPath)
}

func TestLocalStorageDeleteMissingFile(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, storage.Delete("/uploads/never-existed.jpg"))
	assert.NoError(t, storage.Delete(""))
}
