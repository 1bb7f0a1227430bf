// redemption.go — однократная выдача PDF-файла сертификата.
// Pipeline: атомарный MarkRedeemed в хранилище записей → открытие файла.
// Блокировок в процессе нет: корректность обеспечивает условный UPDATE.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/certportal/internal/domain/model"
	"github.com/bigkaa/certportal/internal/repository"
	"github.com/bigkaa/certportal/internal/storage/filestore"
)

// Prometheus-метрики погашения.
var (
	redemptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cp_redemptions_total",
		Help: "Общее количество попыток скачивания сертификата (по результату).",
	}, []string{"result"})

	downloadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cp_download_bytes_total",
		Help: "Общее количество переданных байт PDF-файлов.",
	})

	activeDownloads = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cp_active_downloads",
		Help: "Количество открытых (in-progress) скачиваний.",
	})

	fileMissingTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cp_file_missing_total",
		Help: "Количество погашений, для которых файл отсутствовал в хранилище.",
	})
)

// Download — выданный файл сертификата.
// Вызывающий код обязан закрыть Content.
type Download struct {
	// Record — запись после погашения (Redeemed = true)
	Record *model.Certificate
	// Content — содержимое PDF
	Content io.ReadCloser
	// Size — размер файла в байтах
	Size int64
	// ContentType — всегда application/pdf
	ContentType string
	// Filename — имя файла, предлагаемое клиенту
	Filename string
}

// RedemptionService — выдача файла сертификата не более одного раза.
type RedemptionService struct {
	repo   repository.CertificateRepository
	files  FileStorage
	logger *slog.Logger
}

// NewRedemptionService создаёт сервис погашения.
func NewRedemptionService(
	repo repository.CertificateRepository,
	files FileStorage,
	logger *slog.Logger,
) *RedemptionService {
	return &RedemptionService{
		repo:   repo,
		files:  files,
		logger: logger.With(slog.String("component", "redemption_service")),
	}
}

// Redeem погашает сертификат и открывает его файл.
//
// Pipeline:
//  1. MarkRedeemed — атомарный переход redeemed false → true
//  2. Записи нет → ErrNotFound
//  3. Переход выполнил другой вызов → ErrAlreadyRedeemed, файл не открывается
//  4. Файла нет → ErrFileMissing; флаг не откатывается
//
// Повторов нет: сбой после перехода необратим для пользователя.
func (s *RedemptionService) Redeem(ctx context.Context, certificateID string) (*Download, error) {
	res, err := s.repo.MarkRedeemed(ctx, certificateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			redemptionsTotal.WithLabelValues("not_found").Inc()
			return nil, ErrNotFound
		}
		redemptionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("погашение сертификата %s: %w", certificateID, err)
	}

	if !res.Transitioned {
		redemptionsTotal.WithLabelValues("already_redeemed").Inc()
		s.logger.Info("Повторная попытка скачивания погашенного сертификата",
			slog.String("certificate_id", certificateID),
		)
		return nil, ErrAlreadyRedeemed
	}

	record := res.Record
	content, size, err := s.files.Open(record.FileName)
	if err != nil {
		if errors.Is(err, filestore.ErrFileNotFound) || errors.Is(err, filestore.ErrInvalidReference) {
			redemptionsTotal.WithLabelValues("file_missing").Inc()
			fileMissingTotal.Inc()
			s.logger.Error("Файл погашенного сертификата отсутствует в хранилище, требуется ручное восстановление",
				slog.String("certificate_id", certificateID),
				slog.String("id", record.ID),
				slog.String("file_name", record.FileName),
				slog.String("error", err.Error()),
			)
			return nil, ErrFileMissing
		}
		redemptionsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Ошибка открытия файла погашенного сертификата",
			slog.String("certificate_id", certificateID),
			slog.String("file_name", record.FileName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("открытие файла %s: %w", record.FileName, err)
	}

	redemptionsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Сертификат погашен",
		slog.String("certificate_id", certificateID),
		slog.String("id", record.ID),
		slog.Int64("size", size),
	)

	activeDownloads.Inc()
	return &Download{
		Record:      record,
		Content:     &meteredReader{rc: content},
		Size:        size,
		ContentType: model.ContentTypePDF,
		Filename:    record.DownloadName(),
	}, nil
}

// meteredReader учитывает переданные байты и активные скачивания.
type meteredReader struct {
	rc     io.ReadCloser
	closed bool
}

func (m *meteredReader) Read(p []byte) (int, error) {
	n, err := m.rc.Read(p)
	downloadBytesTotal.Add(float64(n))
	return n, err
}

func (m *meteredReader) Close() error {
	if !m.closed {
		m.closed = true
		activeDownloads.Dec()
	}
	return m.rc.Close()
}
