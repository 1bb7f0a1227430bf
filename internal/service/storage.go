package service

import (
	"io"

	"github.com/bigkaa/certportal/internal/storage/filestore"
)

// FileStorage — хранилище PDF-файлов сертификатов.
// Реализуется *filestore.FileStore; в тестах подменяется фейком.
// Отсутствующий файл сообщается через filestore.ErrFileNotFound.
type FileStorage interface {
	Save(r io.Reader, ref string) (*filestore.SaveResult, error)
	Open(ref string) (io.ReadCloser, int64, error)
	Delete(ref string) error
	Rename(oldRef, newRef string) error
}

var _ FileStorage = (*filestore.FileStore)(nil)
