// Пакет filestore — хранение PDF-файлов сертификатов на диске.
// Запись идёт во временный файл с подсчётом SHA-256 на лету,
// затем fsync и атомарный rename, поэтому читатель никогда
// не видит частично записанный файл.
package filestore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrFileNotFound — файла с такой ссылкой нет в хранилище.
	ErrFileNotFound = errors.New("файл не найден")
	// ErrInvalidReference — ссылка не является простым именем файла.
	ErrInvalidReference = errors.New("недопустимая ссылка на файл")
)

// FileStore — управление файлами сертификатов в одной директории.
type FileStore struct {
	// dataDir — корневая директория хранения файлов (CP_DATA_DIR)
	dataDir string
}

// SaveResult — результат сохранения файла на диск.
type SaveResult struct {
	// Reference — ссылка на файл (имя в dataDir)
	Reference string
	// Size — размер записанных данных в байтах
	Size int64
	// Checksum — SHA-256 хэш содержимого файла
	Checksum string
}

// New создаёт новый FileStore. Проверяет и создаёт директорию
// если она не существует.
func New(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию данных %s: %w", dataDir, err)
	}

	return &FileStore{dataDir: dataDir}, nil
}

// path проверяет ссылку и возвращает полный путь к файлу.
// Допускаются только простые имена без разделителей пути.
func (s *FileStore) path(ref string) (string, error) {
	if ref == "" || ref == "." || ref == ".." ||
		strings.ContainsAny(ref, `/\`) || filepath.Base(ref) != ref {
		return "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	return filepath.Join(s.dataDir, ref), nil
}

// Save записывает данные из reader под именем ref.
// Существующий файл с тем же именем атомарно заменяется.
//
// Паттерн: temp файл → запись + SHA-256 → fsync → atomic rename.
// При ошибке temp файл удаляется.
func (s *FileStore) Save(reader io.Reader, ref string) (*SaveResult, error) {
	fullPath, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	// Уникальное временное имя: параллельные записи не мешают друг другу
	tmpPath := filepath.Join(s.dataDir, "."+ref+"."+uuid.NewString()[:8]+".tmp")

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	// Streaming запись с одновременным подсчётом SHA-256
	hasher := sha256.New()
	tee := io.TeeReader(reader, hasher)

	size, err := io.Copy(f, tee)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	// Атомарный rename
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return &SaveResult{
		Reference: ref,
		Size:      size,
		Checksum:  hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Open открывает файл для чтения и возвращает его размер.
// Вызывающий код обязан закрыть файл.
func (s *FileStore) Open(ref string) (io.ReadCloser, int64, error) {
	fullPath, err := s.path(ref)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", ErrFileNotFound, ref)
		}
		return nil, 0, fmt.Errorf("ошибка открытия файла %s: %w", ref, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("ошибка получения информации о файле %s: %w", ref, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, fmt.Errorf("%w: %s", ErrFileNotFound, ref)
	}

	return f, info.Size(), nil
}

// Delete удаляет файл с диска.
// Возвращает nil если файл уже не существует.
func (s *FileStore) Delete(ref string) error {
	fullPath, err := s.path(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ошибка удаления файла %s: %w", ref, err)
	}
	return nil
}

// Rename переименовывает файл oldRef в newRef.
// Уже открытые дескрипторы продолжают читать прежнее содержимое.
func (s *FileStore) Rename(oldRef, newRef string) error {
	oldPath, err := s.path(oldRef)
	if err != nil {
		return err
	}
	newPath, err := s.path(newRef)
	if err != nil {
		return err
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, oldRef)
		}
		return fmt.Errorf("ошибка переименования %s → %s: %w", oldRef, newRef, err)
	}
	return nil
}

// DataDir возвращает путь к директории данных.
func (s *FileStore) DataDir() string {
	return s.dataDir
}
