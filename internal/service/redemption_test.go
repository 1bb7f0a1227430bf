package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/bigkaa/certportal/internal/domain/model"
	"github.com/bigkaa/certportal/internal/repository"
	"github.com/bigkaa/certportal/internal/storage/filestore"
)

// TestRedeem_ThenAlreadyRedeemed — первое скачивание отдаёт файл,
// проверка показывает redeemed, второе скачивание отклоняется без открытия файла.
func TestRedeem_ThenAlreadyRedeemed(t *testing.T) {
	repo := repository.NewMemoryCertificateRepository()
	files := newMemFiles()
	seedCertificate(t, repo, files, "AB12CD34", true)

	redemption := NewRedemptionService(repo, files, testLogger())
	verification := NewVerificationService(repo)
	ctx := context.Background()

	view, err := verification.Lookup(ctx, "AB12CD34")
	if err != nil {
		t.Fatalf("Lookup() ошибка: %v", err)
	}
	if view.Redeemed {
		t.Fatal("до скачивания redeemed должен быть false")
	}

	dl, err := redemption.Redeem(ctx, "AB12CD34")
	if err != nil {
		t.Fatalf("Redeem() ошибка: %v", err)
	}
	data, err := io.ReadAll(dl.Content)
	dl.Content.Close()
	if err != nil {
		t.Fatalf("ошибка чтения: %v", err)
	}
	if string(data) != testPDF {
		t.Errorf("содержимое = %q", data)
	}
	if dl.Size != int64(len(testPDF)) {
		t.Errorf("Size = %d, ожидалось %d", dl.Size, len(testPDF))
	}
	if dl.ContentType != model.ContentTypePDF {
		t.Errorf("ContentType = %q", dl.ContentType)
	}
	if dl.Filename != "emp_103_Sarah_Smith.pdf" {
		t.Errorf("Filename = %q", dl.Filename)
	}
	if !dl.Record.Redeemed {
		t.Error("Record.Redeemed должен быть true")
	}

	view, _ = verification.Lookup(ctx, "AB12CD34")
	if !view.Redeemed {
		t.Error("после скачивания Lookup должен показывать redeemed = true")
	}

	if _, err := redemption.Redeem(ctx, "AB12CD34"); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Errorf("повторный Redeem: ожидали ErrAlreadyRedeemed, получили %v", err)
	}
	if files.openCount() != 1 {
		t.Errorf("файл открыт %d раз, ожидался 1", files.openCount())
	}
}

// TestRedeem_Unknown — неизвестный идентификатор на пустом хранилище.
func TestRedeem_Unknown(t *testing.T) {
	repo := repository.NewMemoryCertificateRepository()
	redemption := NewRedemptionService(repo, newMemFiles(), testLogger())
	verification := NewVerificationService(repo)

	if _, err := redemption.Redeem(context.Background(), "UNKNOWN"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Redeem(): ожидали ErrNotFound, получили %v", err)
	}
	if _, err := verification.Lookup(context.Background(), "UNKNOWN"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(): ожидали ErrNotFound, получили %v", err)
	}
}

// TestRedeem_FileMissing — файл отсутствует: ошибка целостности, флаг не откатывается.
func TestRedeem_FileMissing(t *testing.T) {
	repo := repository.NewMemoryCertificateRepository()
	files := newMemFiles()
	seedCertificate(t, repo, files, "NOFILE01", false)

	redemption := NewRedemptionService(repo, files, testLogger())
	ctx := context.Background()

	if _, err := redemption.Redeem(ctx, "NOFILE01"); !errors.Is(err, ErrFileMissing) {
		t.Fatalf("Redeem(): ожидали ErrFileMissing, получили %v", err)
	}

	view, err := NewVerificationService(repo).Lookup(ctx, "NOFILE01")
	if err != nil {
		t.Fatalf("Lookup() ошибка: %v", err)
	}
	if !view.Redeemed {
		t.Error("после FileMissing флаг должен остаться redeemed = true")
	}

	if _, err := redemption.Redeem(ctx, "NOFILE01"); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Errorf("повторный Redeem: ожидали ErrAlreadyRedeemed, получили %v", err)
	}
}

// TestRedeem_Concurrent — из множества параллельных вызовов файл получает ровно один.
func TestRedeem_Concurrent(t *testing.T) {
	const workers = 32

	repo := repository.NewMemoryCertificateRepository()
	files := newMemFiles()
	seedCertificate(t, repo, files, "RACE0001", true)
	redemption := NewRedemptionService(repo, files, testLogger())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		rejected int
	)
	start := make(chan struct{})
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			dl, err := redemption.Redeem(context.Background(), "RACE0001")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
				dl.Content.Close()
			case errors.Is(err, ErrAlreadyRedeemed):
				rejected++
			default:
				t.Errorf("неожиданная ошибка: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if success != 1 || rejected != workers-1 {
		t.Errorf("success=%d rejected=%d, ожидалось 1 и %d", success, rejected, workers-1)
	}
	if files.openCount() != 1 {
		t.Errorf("файл открыт %d раз, ожидался 1", files.openCount())
	}
}

// TestRedeem_AfterAdminReset — сброс разрешает ровно одно повторное скачивание.
func TestRedeem_AfterAdminReset(t *testing.T) {
	repo := repository.NewMemoryCertificateRepository()
	files := newMemFiles()
	c := seedCertificate(t, repo, files, "RESET001", true)

	redemption := NewRedemptionService(repo, files, testLogger())
	admin := NewCertificateService(repo, files, nil, 0, testLogger())
	ctx := context.Background()

	dl, err := redemption.Redeem(ctx, "RESET001")
	if err != nil {
		t.Fatalf("Redeem() ошибка: %v", err)
	}
	dl.Content.Close()

	reset, err := admin.ResetRedemption(ctx, c.ID)
	if err != nil {
		t.Fatalf("ResetRedemption() ошибка: %v", err)
	}
	if reset.Redeemed {
		t.Error("после сброса redeemed должен быть false")
	}

	dl, err = redemption.Redeem(ctx, "RESET001")
	if err != nil {
		t.Fatalf("Redeem() после сброса: %v", err)
	}
	dl.Content.Close()

	if _, err := redemption.Redeem(ctx, "RESET001"); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Errorf("ожидали ErrAlreadyRedeemed, получили %v", err)
	}
}

// TestRedeem_StoreError — сбой хранилища записей не маскируется под NotFound.
func TestRedeem_StoreError(t *testing.T) {
	storeErr := errors.New("соединение разорвано")
	repo := &failingRepo{
		CertificateRepository: repository.NewMemoryCertificateRepository(),
		markErr:               storeErr,
	}
	redemption := NewRedemptionService(repo, newMemFiles(), testLogger())

	_, err := redemption.Redeem(context.Background(), "ANY")
	if !errors.Is(err, storeErr) {
		t.Errorf("ожидали исходную ошибку, получили %v", err)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyRedeemed) {
		t.Errorf("ошибка хранилища не должна становиться доменной: %v", err)
	}
}

// TestRedeem_WithFileStore — погашение поверх файлового хранилища на диске.
func TestRedeem_WithFileStore(t *testing.T) {
	fs, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}
	repo := repository.NewMemoryCertificateRepository()
	c := seedCertificate(t, repo, fs, "DISK0001", true)
	redemption := NewRedemptionService(repo, fs, testLogger())

	dl, err := redemption.Redeem(context.Background(), "DISK0001")
	if err != nil {
		t.Fatalf("Redeem() ошибка: %v", err)
	}
	defer dl.Content.Close()

	data, _ := io.ReadAll(dl.Content)
	if string(data) != testPDF {
		t.Errorf("содержимое = %q", data)
	}

	// Удалённый с диска файл второго сертификата — FileMissing
	other := seedCertificate(t, repo, fs, "DISK0002", true)
	if err := fs.Delete(other.FileName); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}
	if _, err := redemption.Redeem(context.Background(), "DISK0002"); !errors.Is(err, ErrFileMissing) {
		t.Errorf("ожидали ErrFileMissing, получили %v", err)
	}
	if c.FileName == other.FileName {
		t.Error("ключи файлов разных записей должны различаться")
	}
}
