package filestore

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}
	return s
}

// fileExists проверяет наличие файла в директории хранилища.
func fileExists(s *FileStore, ref string) bool {
	info, err := os.Stat(filepath.Join(s.DataDir(), ref))
	return err == nil && !info.IsDir()
}

// TestNew_CreatesDirectory проверяет создание директории данных.
func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	if s.DataDir() != dir {
		t.Errorf("ожидался путь %s, получен %s", dir, s.DataDir())
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("директория не создана: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("путь не является директорией")
	}
}

// TestSave проверяет сохранение файла с подсчётом SHA-256.
func TestSave(t *testing.T) {
	s := newStore(t)

	content := []byte("%PDF-1.4 тестовый сертификат")
	result, err := s.Save(bytes.NewReader(content), "emp_101_Rohan_Das_3f2a9c1e.pdf")
	if err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	if result.Size != int64(len(content)) {
		t.Errorf("размер: ожидалось %d, получено %d", len(content), result.Size)
	}

	expectedHash := sha256.Sum256(content)
	if result.Checksum != hex.EncodeToString(expectedHash[:]) {
		t.Errorf("checksum: получено %s", result.Checksum)
	}

	data, err := os.ReadFile(filepath.Join(s.DataDir(), result.Reference))
	if err != nil {
		t.Fatalf("файл не найден на диске: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Error("содержимое файла не совпадает")
	}
}

// TestSave_NoTmpFile проверяет, что временные файлы не остаются после записи.
func TestSave_NoTmpFile(t *testing.T) {
	s := newStore(t)

	if _, err := s.Save(strings.NewReader("data"), "a.pdf"); err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	entries, _ := os.ReadDir(s.DataDir())
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("найден временный файл: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("ожидался 1 файл, найдено %d", len(entries))
	}
}

// failingReader возвращает ошибку после первой порции данных.
type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.sent {
		return 0, errors.New("обрыв соединения")
	}
	r.sent = true
	return copy(p, "partial"), nil
}

// TestSave_ReaderError проверяет, что при ошибке чтения прежний файл не затрагивается.
func TestSave_ReaderError(t *testing.T) {
	s := newStore(t)

	if _, err := s.Save(strings.NewReader("original"), "a.pdf"); err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}
	if _, err := s.Save(&failingReader{}, "a.pdf"); err == nil {
		t.Fatal("ожидалась ошибка записи")
	}

	data, _ := os.ReadFile(filepath.Join(s.DataDir(), "a.pdf"))
	if string(data) != "original" {
		t.Errorf("содержимое = %q, ожидалось original", data)
	}
	entries, _ := os.ReadDir(s.DataDir())
	if len(entries) != 1 {
		t.Errorf("ожидался 1 файл, найдено %d", len(entries))
	}
}

// TestSave_Replace проверяет атомарную замену существующего файла.
func TestSave_Replace(t *testing.T) {
	s := newStore(t)

	s.Save(strings.NewReader("v1"), "a.pdf")
	if _, err := s.Save(strings.NewReader("v2"), "a.pdf"); err != nil {
		t.Fatalf("ошибка замены: %v", err)
	}

	f, _, err := s.Open("a.pdf")
	if err != nil {
		t.Fatalf("ошибка открытия: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "v2" {
		t.Errorf("содержимое = %q, ожидалось v2", data)
	}
}

// TestOpen проверяет чтение файла и размер.
func TestOpen(t *testing.T) {
	s := newStore(t)

	content := []byte("read test data")
	if _, err := s.Save(bytes.NewReader(content), "read.pdf"); err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	f, size, err := s.Open("read.pdf")
	if err != nil {
		t.Fatalf("ошибка открытия для чтения: %v", err)
	}
	defer f.Close()

	if size != int64(len(content)) {
		t.Errorf("размер = %d, ожидалось %d", size, len(content))
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ошибка чтения: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Error("прочитанные данные не совпадают с записанными")
	}
}

// TestOpen_NotFound проверяет ErrFileNotFound для отсутствующего файла.
func TestOpen_NotFound(t *testing.T) {
	s := newStore(t)

	_, _, err := s.Open("nonexistent.pdf")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("ожидалась ErrFileNotFound, получено %v", err)
	}
}

// TestInvalidReference проверяет отказ для ссылок с компонентами пути.
func TestInvalidReference(t *testing.T) {
	s := newStore(t)

	refs := []string{"", ".", "..", "../etc/passwd", "sub/file.pdf", `..\file.pdf`, "/abs.pdf"}
	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			if _, _, err := s.Open(ref); !errors.Is(err, ErrInvalidReference) {
				t.Errorf("Open(%q): ожидалась ErrInvalidReference, получено %v", ref, err)
			}
			if _, err := s.Save(strings.NewReader("x"), ref); !errors.Is(err, ErrInvalidReference) {
				t.Errorf("Save(%q): ожидалась ErrInvalidReference, получено %v", ref, err)
			}
			if err := s.Delete(ref); !errors.Is(err, ErrInvalidReference) {
				t.Errorf("Delete(%q): ожидалась ErrInvalidReference, получено %v", ref, err)
			}
			if err := s.Rename(ref, "target.pdf"); !errors.Is(err, ErrInvalidReference) {
				t.Errorf("Rename(%q): ожидалась ErrInvalidReference, получено %v", ref, err)
			}
		})
	}
}

// TestDelete проверяет удаление файла и идемпотентность.
func TestDelete(t *testing.T) {
	s := newStore(t)

	s.Save(strings.NewReader("delete me"), "delete.pdf")
	if err := s.Delete("delete.pdf"); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}
	if fileExists(s, "delete.pdf") {
		t.Error("файл должен быть удалён")
	}
	if err := s.Delete("delete.pdf"); err != nil {
		t.Errorf("удаление несуществующего файла должно быть no-op: %v", err)
	}
}

// TestRename проверяет переименование файла.
func TestRename(t *testing.T) {
	s := newStore(t)

	s.Save(strings.NewReader("rename me"), "old.pdf")
	if err := s.Rename("old.pdf", "new.pdf"); err != nil {
		t.Fatalf("ошибка переименования: %v", err)
	}
	if fileExists(s, "old.pdf") || !fileExists(s, "new.pdf") {
		t.Error("после Rename ожидался только new.pdf")
	}

	if err := s.Rename("missing.pdf", "other.pdf"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("ожидалась ErrFileNotFound, получено %v", err)
	}
	if err := s.Rename("new.pdf", "../escape.pdf"); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("ожидалась ErrInvalidReference, получено %v", err)
	}
}

// TestRename_OpenHandleKeepsContent — открытый файл дочитывается после переименования.
func TestRename_OpenHandleKeepsContent(t *testing.T) {
	s := newStore(t)

	s.Save(strings.NewReader("in-flight"), "a.pdf")
	f, _, err := s.Open("a.pdf")
	if err != nil {
		t.Fatalf("ошибка открытия: %v", err)
	}
	defer f.Close()

	if err := s.Rename("a.pdf", "b.pdf"); err != nil {
		t.Fatalf("ошибка переименования: %v", err)
	}
	data, _ := io.ReadAll(f)
	if string(data) != "in-flight" {
		t.Errorf("прочитано %q, ожидалось in-flight", data)
	}
}
