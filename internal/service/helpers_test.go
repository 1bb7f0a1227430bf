package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/certportal/internal/domain/model"
	"github.com/bigkaa/certportal/internal/repository"
	"github.com/bigkaa/certportal/internal/storage/filestore"
)

// testPDF — минимальное содержимое, распознаваемое как application/pdf.
const testPDF = "%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\n%%EOF\n"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memFiles — FileStorage в памяти с подсчётом открытий.
type memFiles struct {
	mu    sync.Mutex
	data  map[string][]byte
	opens int
}

func newMemFiles() *memFiles {
	return &memFiles{data: make(map[string][]byte)}
}

func (m *memFiles) Save(r io.Reader, ref string) (*filestore.SaveResult, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи данных: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[ref] = b
	return &filestore.SaveResult{Reference: ref, Size: int64(len(b))}, nil
}

func (m *memFiles) Open(ref string) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opens++
	b, ok := m.data[ref]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", filestore.ErrFileNotFound, ref)
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), nil
}

func (m *memFiles) Delete(ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, ref)
	return nil
}

func (m *memFiles) Rename(oldRef, newRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[oldRef]
	if !ok {
		return fmt.Errorf("%w: %s", filestore.ErrFileNotFound, oldRef)
	}
	delete(m.data, oldRef)
	m.data[newRef] = b
	return nil
}

// exists сообщает, есть ли файл с такой ссылкой.
func (m *memFiles) exists(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[ref]
	return ok
}

func (m *memFiles) content(ref string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[ref]
	return string(b), ok
}

func (m *memFiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *memFiles) openCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// renameFailFiles — FileStorage, у которого Rename завершается ошибкой.
type renameFailFiles struct {
	*memFiles
	err error
}

func (f *renameFailFiles) Rename(_, _ string) error {
	return f.err
}

// seedCertificate создаёт запись напрямую в репозитории.
// withFile управляет наличием файла в хранилище.
func seedCertificate(t *testing.T, repo repository.CertificateRepository, files FileStorage, certID string, withFile bool) *model.Certificate {
	t.Helper()

	id := uuid.NewString()
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	c := &model.Certificate{
		ID:            id,
		CertificateID: certID,
		EmployeeID:    "emp-103",
		CandidateName: "Sarah Smith",
		Position:      "Intern",
		Department:    "Engineering",
		StartDate:     start,
		EndDate:       start.AddDate(0, 3, 0),
		FileName:      model.StorageFileName(id, "emp-103", "Sarah Smith"),
	}
	if withFile {
		if _, err := files.Save(bytes.NewReader([]byte(testPDF)), c.FileName); err != nil {
			t.Fatalf("ошибка записи файла: %v", err)
		}
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("ошибка создания записи: %v", err)
	}
	return c
}

// failingRepo подменяет отдельные операции репозитория ошибкой.
type failingRepo struct {
	repository.CertificateRepository
	markErr   error
	deleteErr error
}

func (f *failingRepo) MarkRedeemed(ctx context.Context, certificateID string) (*repository.RedeemResult, error) {
	if f.markErr != nil {
		return nil, f.markErr
	}
	return f.CertificateRepository.MarkRedeemed(ctx, certificateID)
}

func (f *failingRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.CertificateRepository.Delete(ctx, id)
}
