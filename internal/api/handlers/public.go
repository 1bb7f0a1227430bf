// public.go — публичные обработчики: проверка и однократное скачивание.
// Аутентификация не требуется, доступ определяется знанием публичного ID.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	apierrors "github.com/bigkaa/certportal/internal/api/errors"
	"github.com/bigkaa/certportal/internal/api/generated"
	"github.com/bigkaa/certportal/internal/domain/model"
	"github.com/bigkaa/certportal/internal/service"
)

// GetCertificate — GET /api/v1/certificates/{certificateId}.
// Метаданные для страницы проверки. Не меняет состояние.
func (h *APIHandler) GetCertificate(w http.ResponseWriter, r *http.Request, certificateId generated.CertificateId) {
	view, err := h.verification.Lookup(r.Context(), certificateId)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Сертификат не найден")
			return
		}
		h.logger.Error("Ошибка проверки сертификата",
			slog.String("certificate_id", certificateId),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Ошибка проверки сертификата")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, mapCertificateView(view))
}

// DownloadCertificate — GET /api/v1/certificates/{certificateId}/download.
// Погашает сертификат и отдаёт PDF. Повторный запрос получает 403.
func (h *APIHandler) DownloadCertificate(w http.ResponseWriter, r *http.Request, certificateId generated.CertificateId) {
	dl, err := h.redemption.Redeem(r.Context(), certificateId)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Сертификат не найден")
		case errors.Is(err, service.ErrAlreadyRedeemed):
			apierrors.AlreadyRedeemed(w, "Сертификат уже был скачан")
		case errors.Is(err, service.ErrFileMissing):
			apierrors.FileMissing(w, "Файл сертификата не найден, обратитесь к администратору")
		default:
			h.logger.Error("Ошибка скачивания сертификата",
				slog.String("certificate_id", certificateId),
				slog.String("error", err.Error()),
			)
			apierrors.InternalError(w, "Ошибка скачивания сертификата")
		}
		return
	}
	defer dl.Content.Close()

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(dl.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	// Флаг уже выставлен: обрыв передачи не возвращает право на скачивание.
	if n, err := io.Copy(w, dl.Content); err != nil {
		h.logger.Warn("Передача файла сертификата прервана",
			slog.String("certificate_id", certificateId),
			slog.Int64("sent", n),
			slog.Int64("size", dl.Size),
			slog.String("error", err.Error()),
		)
	}
}

// mapCertificateView конвертирует публичное представление в API-ответ.
func mapCertificateView(v *model.CertificateView) generated.CertificateView {
	return generated.CertificateView{
		CertificateId: v.CertificateID,
		CandidateName: v.CandidateName,
		EmployeeId:    v.EmployeeID,
		Position:      v.Position,
		Department:    v.Department,
		StartDate:     toDate(v.StartDate),
		EndDate:       toDate(v.EndDate),
		CreatedAt:     v.CreatedAt,
		Redeemed:      v.Redeemed,
	}
}
