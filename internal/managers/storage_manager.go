package managers

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultMaxUploadSize = 10 * 1024 * 1024

// StoredFile describes an upload persisted to the local photo store.
type StoredFile struct {
	Filename string
	Path     string
	URL      string
	Size     int64
	MimeType string
}

// StorageMgr persists uploaded photos and their thumbnails on local disk.
type StorageMgr interface {
	SaveUpload(fileHeader *multipart.FileHeader) (*StoredFile, error)
	GenerateThumbnail(filename string) error
	RemoveFile(path string)
	RemoveThumbnail(filename string)
	UploadDir() string
	MaxUploadSize() int64
}

// StorageManager stores photos under an upload directory with a thumbnails
// subdirectory for the downscaled copies served in gallery views.
type StorageManager struct {
	uploadDir     string
	maxUploadSize int64
}

// NewStorageManager creates a StorageManager rooted at UPLOAD_DIR, creating
// the directory tree if needed.
func NewStorageManager() (StorageMgr, error) {
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	maxUploadSize := int64(defaultMaxUploadSize)
	if raw := os.Getenv("MAX_FILE_SIZE"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		maxUploadSize = parsed
	}

	if err := os.MkdirAll(filepath.Join(uploadDir, "thumbnails"), 0755); err != nil {
		return nil, err
	}

	return &StorageManager{
		uploadDir:     uploadDir,
		maxUploadSize: maxUploadSize,
	}, nil
}

// SaveUpload writes the uploaded file under a fresh UUID-based filename so
// concurrent uploads of identically named files never collide.
func (sm *StorageManager) SaveUpload(fileHeader *multipart.FileHeader) (*StoredFile, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	path := filepath.Join(sm.uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return &StoredFile{
		Filename: filename,
		Path:     path,
		URL:      "/uploads/" + filename,
		Size:     size,
		MimeType: fileHeader.Header.Get("Content-Type"),
	}, nil
}

// GenerateThumbnail writes a 320px-wide copy of the given photo into the
// thumbnails subdirectory, preserving aspect ratio.
func (sm *StorageManager) GenerateThumbnail(filename string) error {
	img, err := imaging.Open(filepath.Join(sm.uploadDir, filename))
	if err != nil {
		return err
	}

	thumbnail := imaging.Resize(img, 320, 0, imaging.Lanczos)
	return imaging.Save(thumbnail, filepath.Join(sm.uploadDir, "thumbnails", filename))
}

// RemoveFile deletes a stored file, tolerating files already gone.
func (sm *StorageManager) RemoveFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logrus.WithField("path", path).Warn("Failed to remove stored file: ", err)
	}
}

// RemoveThumbnail deletes the thumbnail for the given photo filename.
func (sm *StorageManager) RemoveThumbnail(filename string) {
	sm.RemoveFile(filepath.Join(sm.uploadDir, "thumbnails", filename))
}

// UploadDir returns the root directory photos are served from.
func (sm *StorageManager) UploadDir() string {
	return sm.uploadDir
}

// MaxUploadSize returns the cumulative size ceiling for one upload request.
func (sm *StorageManager) MaxUploadSize() int64 {
	return sm.maxUploadSize
}
