// certificates.go — административное управление сертификатами.
// Создание, редактирование, удаление, сброс погашения и смена публичного ID.
// Запись никогда не видна без файла: файл пишется до INSERT и удаляется,
// если INSERT не удался.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bigkaa/certportal/internal/domain/certid"
	"github.com/bigkaa/certportal/internal/domain/model"
	"github.com/bigkaa/certportal/internal/repository"
	"github.com/bigkaa/certportal/internal/storage/filestore"
)

// maxIDAttempts — число попыток генерации свободного публичного ID.
const maxIDAttempts = 5

// sniffLen — объём начала файла для определения типа по содержимому.
const sniffLen = 512

// ErrFileTooLarge — загружаемый файл больше допустимого размера.
var ErrFileTooLarge = errors.New("файл превышает допустимый размер")

// CertificateInput — метаданные сертификата от администратора.
type CertificateInput struct {
	EmployeeID    string    `json:"employee_id" validate:"required,max=128"`
	CandidateName string    `json:"candidate_name" validate:"required,max=255"`
	Position      string    `json:"position" validate:"required,max=255"`
	Department    string    `json:"department" validate:"required,max=255"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

// UpdateInput — изменение сертификата.
// Redeemed == nil оставляет флаг погашения без изменений.
type UpdateInput struct {
	CertificateInput
	Redeemed *bool `json:"redeemed"`
}

// CertificateService — административный сервис сертификатов.
type CertificateService struct {
	repo          repository.CertificateRepository
	files         FileStorage
	ids           certid.Generator
	validate      *validator.Validate
	maxUploadSize int64
	logger        *slog.Logger
}

// NewCertificateService создаёт административный сервис.
// maxUploadSize — предельный размер PDF в байтах.
func NewCertificateService(
	repo repository.CertificateRepository,
	files FileStorage,
	ids certid.Generator,
	maxUploadSize int64,
	logger *slog.Logger,
) *CertificateService {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В сообщениях об ошибках — имена полей API, а не Go
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &CertificateService{
		repo:          repo,
		files:         files,
		ids:           ids,
		validate:      v,
		maxUploadSize: maxUploadSize,
		logger:        logger.With(slog.String("component", "certificate_service")),
	}
}

// Create создаёт сертификат: проверка ввода → запись файла → INSERT.
func (s *CertificateService) Create(ctx context.Context, in CertificateInput, file io.Reader) (*model.Certificate, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file: required", ErrValidation)
	}
	content, err := s.checkUpload(file)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	rec := &model.Certificate{
		ID:            id,
		EmployeeID:    in.EmployeeID,
		CandidateName: in.CandidateName,
		Position:      in.Position,
		Department:    in.Department,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		FileName:      model.StorageFileName(id, in.EmployeeID, in.CandidateName),
	}

	saved, err := s.files.Save(content, rec.FileName)
	if err != nil {
		return nil, s.uploadError(err)
	}

	if err := s.insertWithFreshID(ctx, rec); err != nil {
		// Запись не создана — файл без записи не оставляем
		if delErr := s.files.Delete(rec.FileName); delErr != nil {
			s.logger.Error("Не удалось удалить файл после неудачного создания записи",
				slog.String("file_name", rec.FileName),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("Сертификат создан",
		slog.String("id", rec.ID),
		slog.String("certificate_id", rec.CertificateID),
		slog.String("employee_id", rec.EmployeeID),
		slog.Int64("size", saved.Size),
		slog.String("checksum", saved.Checksum),
	)
	return rec, nil
}

// insertWithFreshID вставляет запись, перегенерируя публичный ID при коллизии.
func (s *CertificateService) insertWithFreshID(ctx context.Context, rec *model.Certificate) error {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		certID, err := s.ids.New()
		if err != nil {
			return fmt.Errorf("генерация идентификатора: %w", err)
		}
		rec.CertificateID = certID

		err = s.repo.Create(ctx, rec)
		if err == nil {
			return nil
		}
		if !repository.IsCertificateIDConflict(err) {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%w: %v", ErrConflict, err)
			}
			return fmt.Errorf("создание записи: %w", err)
		}
		s.logger.Warn("Коллизия публичного идентификатора, повтор",
			slog.String("certificate_id", certID),
			slog.Int("attempt", attempt),
		)
	}
	return fmt.Errorf("%w: не удалось подобрать свободный идентификатор за %d попыток", ErrConflict, maxIDAttempts)
}

// Get возвращает сертификат по внутреннему ID.
func (s *CertificateService) Get(ctx context.Context, id string) (*model.Certificate, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение сертификата: %w", err)
	}
	return c, nil
}

// List возвращает страницу сертификатов и их общее количество.
func (s *CertificateService) List(ctx context.Context, limit, offset int) ([]*model.Certificate, int, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("получение списка: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("подсчёт сертификатов: %w", err)
	}
	return items, total, nil
}

// Update заменяет метаданные сертификата.
//
// Если file != nil, новый файл атомарно записывается под производным именем,
// прежний удаляется после успешного UPDATE. Если файл не передан, а производное
// имя изменилось, файл переименовывается; ошибка переименования прерывает
// Update до изменения записи. Redeemed != nil задаёт флаг погашения.
func (s *CertificateService) Update(ctx context.Context, id string, in UpdateInput, file io.Reader) (*model.Certificate, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(in.CertificateInput); err != nil {
		return nil, err
	}

	oldRef := existing.FileName
	newRef := model.StorageFileName(existing.ID, in.EmployeeID, in.CandidateName)

	var replaced, renamed bool
	switch {
	case file != nil:
		content, err := s.checkUpload(file)
		if err != nil {
			return nil, err
		}
		if _, err := s.files.Save(content, newRef); err != nil {
			return nil, s.uploadError(err)
		}
		replaced = true
	case newRef != oldRef:
		err := s.files.Rename(oldRef, newRef)
		switch {
		case err == nil:
			renamed = true
		case errors.Is(err, filestore.ErrFileNotFound):
			// Файла уже нет: правка метаданных не блокируется,
			// запись сохраняет прежнюю ссылку для ручного восстановления
			s.logger.Warn("Файл сертификата отсутствует, переименование пропущено",
				slog.String("id", id),
				slog.String("file_name", oldRef),
			)
			newRef = oldRef
		default:
			// Запись не должна ссылаться на имя, под которым файла нет
			return nil, fmt.Errorf("переименование файла %s → %s: %w", oldRef, newRef, err)
		}
	}

	rec := &model.Certificate{
		ID:            existing.ID,
		EmployeeID:    in.EmployeeID,
		CandidateName: in.CandidateName,
		Position:      in.Position,
		Department:    in.Department,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		FileName:      newRef,
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		s.rollbackFile(oldRef, newRef, replaced, renamed)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, fmt.Errorf("обновление записи: %w", err)
	}

	if replaced && newRef != oldRef {
		if err := s.files.Delete(oldRef); err != nil {
			s.logger.Error("Не удалось удалить прежний файл сертификата",
				slog.String("id", id),
				slog.String("file_name", oldRef),
				slog.String("error", err.Error()),
			)
		}
	}

	if in.Redeemed != nil && *in.Redeemed != rec.Redeemed {
		if *in.Redeemed {
			if _, err := s.repo.MarkRedeemed(ctx, rec.CertificateID); err != nil {
				return nil, fmt.Errorf("отметка погашения: %w", err)
			}
		} else {
			if _, err := s.repo.ResetRedemption(ctx, rec.ID); err != nil {
				return nil, fmt.Errorf("сброс погашения: %w", err)
			}
		}
	}

	s.logger.Info("Сертификат обновлён",
		slog.String("id", id),
		slog.String("certificate_id", rec.CertificateID),
		slog.Bool("file_replaced", replaced),
		slog.Bool("file_renamed", renamed),
	)
	return s.Get(ctx, id)
}

// rollbackFile возвращает файловое хранилище в состояние до Update.
// Заменённое под тем же именем содержимое не восстанавливается.
func (s *CertificateService) rollbackFile(oldRef, newRef string, replaced, renamed bool) {
	var err error
	switch {
	case replaced && newRef != oldRef:
		err = s.files.Delete(newRef)
	case renamed:
		err = s.files.Rename(newRef, oldRef)
	}
	if err != nil {
		s.logger.Error("Не удалось откатить изменения файла",
			slog.String("old_file_name", oldRef),
			slog.String("new_file_name", newRef),
			slog.String("error", err.Error()),
		)
	}
}

// Delete удаляет файл, затем запись.
// Если запись не удалилась после удаления файла, возвращается
// ErrRecordDeleteAfterFile, а ссылка на файл пишется в лог.
func (s *CertificateService) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.files.Delete(existing.FileName); err != nil {
		return fmt.Errorf("удаление файла: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("Файл удалён, но запись сертификата осталась",
			slog.String("id", id),
			slog.String("certificate_id", existing.CertificateID),
			slog.String("file_name", existing.FileName),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrRecordDeleteAfterFile, err)
	}

	s.logger.Info("Сертификат удалён",
		slog.String("id", id),
		slog.String("certificate_id", existing.CertificateID),
	)
	return nil
}

// ResetRedemption снова разрешает однократное скачивание.
func (s *CertificateService) ResetRedemption(ctx context.Context, id string) (*model.Certificate, error) {
	c, err := s.repo.ResetRedemption(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("сброс погашения: %w", err)
	}

	s.logger.Info("Погашение сертификата сброшено",
		slog.String("id", id),
		slog.String("certificate_id", c.CertificateID),
	)
	return c, nil
}

// RotateCertificateID выдаёт сертификату новый публичный идентификатор.
// Старый идентификатор перестаёт находиться, файл и флаг не меняются.
func (s *CertificateService) RotateCertificateID(ctx context.Context, id string) (*model.Certificate, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		certID, err := s.ids.New()
		if err != nil {
			return nil, fmt.Errorf("генерация идентификатора: %w", err)
		}

		c, err := s.repo.RotateCertificateID(ctx, id, certID)
		if err == nil {
			s.logger.Info("Публичный идентификатор сертификата изменён",
				slog.String("id", id),
				slog.String("certificate_id", c.CertificateID),
			)
			return c, nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if !repository.IsCertificateIDConflict(err) {
			return nil, fmt.Errorf("смена идентификатора: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: не удалось подобрать свободный идентификатор за %d попыток", ErrConflict, maxIDAttempts)
}

// validateInput проверяет метаданные через validator.
func (s *CertificateService) validateInput(in CertificateInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fe.Field()+": "+fe.Tag())
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, ", "))
}

// checkUpload определяет тип файла по первым байтам и ограничивает размер.
// Возвращает reader, отдающий файл целиком, включая прочитанное начало.
func (s *CertificateService) checkUpload(r io.Reader) (io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("чтение файла: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: file: пустой файл", ErrValidation)
	}

	mt := mimetype.Detect(head[:n])
	if !mt.Is(model.ContentTypePDF) {
		return nil, fmt.Errorf("%w: file: ожидается %s, получен %s", ErrValidation, model.ContentTypePDF, mt.String())
	}

	full := io.MultiReader(bytes.NewReader(head[:n]), r)
	if s.maxUploadSize <= 0 {
		return full, nil
	}
	return &limitedReader{r: full, remaining: s.maxUploadSize}, nil
}

// uploadError преобразует ошибку записи файла.
func (s *CertificateService) uploadError(err error) error {
	if errors.Is(err, ErrFileTooLarge) {
		return fmt.Errorf("%w: file: %w (%d байт)", ErrValidation, ErrFileTooLarge, s.maxUploadSize)
	}
	return fmt.Errorf("сохранение файла: %w", err)
}

// limitedReader возвращает ErrFileTooLarge, если данных больше remaining.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	// Читаем на байт больше лимита, чтобы отличить ровно лимит от превышения
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}
