package utils

import (
	"archive/zip"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// ArchiveFile names one photo file queued for a backup archive.
// Name is the entry name inside the archive's photos/ prefix,
// Path is its location on disk.
type ArchiveFile struct {
	Name string
	Path string
}

// WriteBackupArchive streams a zip archive to w containing the metadata
// document as metadata.json and every listed photo file under photos/.
// Files missing on disk are skipped silently: a photo record may outlive its
// file and the export must not fail as a whole for that. Any other error
// aborts the archive.
func WriteBackupArchive(w io.Writer, metadata []byte, files []ArchiveFile) error {
	archive := zip.NewWriter(w)

	entry, err := archive.Create("metadata.json")
	if err != nil {
		return err
	}
	if _, err = entry.Write(metadata); err != nil {
		return err
	}

	for _, file := range files {
		src, err := os.Open(file.Path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Warn("Skipping missing photo file: ", file.Path)
				continue
			}
			return err
		}

		entry, err := archive.Create("photos/" + file.Name)
		if err != nil {
			src.Close()
			return err
		}
		if _, err = io.Copy(entry, src); err != nil {
			src.Close()
			return err
		}
		src.Close()
	}

	return archive.Close()
}
