// certificates.go — обработчики /api/v1/admin/certificates endpoints.
// Создание, список, изменение, удаление, сброс погашения и смена публичного ID.
// Чтение доступно ролям admin и readonly, изменения только admin.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	apierrors "github.com/bigkaa/certportal/internal/api/errors"
	"github.com/bigkaa/certportal/internal/api/generated"
	"github.com/bigkaa/certportal/internal/api/middleware"
	"github.com/bigkaa/certportal/internal/domain/model"
	"github.com/bigkaa/certportal/internal/domain/rbac"
	"github.com/bigkaa/certportal/internal/service"
)

const (
	// dateLayout — формат дат периода в форме (YYYY-MM-DD).
	dateLayout = "2006-01-02"
	// formOverhead — запас к лимиту файла на текстовые поля и заголовки multipart.
	formOverhead = 1 << 20
	// formMemory — часть multipart, хранимая в памяти; остальное во временных файлах.
	formMemory = 8 << 20
)

// ListCertificates — GET /api/v1/admin/certificates.
func (h *APIHandler) ListCertificates(w http.ResponseWriter, r *http.Request, params generated.ListCertificatesParams) {
	limit, offset := paginationDefaults(params.Limit, params.Offset)

	items, total, err := h.certificates.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Ошибка получения списка сертификатов", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Ошибка получения списка сертификатов")
		return
	}

	resp := generated.CertificateList{
		Items:  make([]generated.Certificate, 0, len(items)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, c := range items {
		resp.Items = append(resp.Items, mapCertificate(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateCertificate — POST /api/v1/admin/certificates.
// Multipart: поля метаданных и обязательный файл file.
func (h *APIHandler) CreateCertificate(w http.ResponseWriter, r *http.Request) {
	if !middleware.CheckRole(w, r, rbac.RoleAdmin) {
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // временные файлы формы

	in, err := certificateInputFromForm(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	file, ok := formFile(w, r)
	if !ok {
		return
	}
	var content io.Reader
	if file != nil {
		defer file.Close()
		content = file
	}

	c, err := h.certificates.Create(r.Context(), in, content)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка создания сертификата")
		return
	}

	h.logger.Info("Сертификат создан администратором",
		slog.String("id", c.ID),
		slog.String("certificate_id", c.CertificateID),
		slog.String("admin", middleware.SubjectFromContext(r.Context())),
	)
	writeJSON(w, http.StatusCreated, mapCertificate(c))
}

// GetAdminCertificate — GET /api/v1/admin/certificates/{id}.
func (h *APIHandler) GetAdminCertificate(w http.ResponseWriter, r *http.Request, id generated.Id) {
	c, err := h.certificates.Get(r.Context(), id.String())
	if err != nil {
		h.writeServiceError(w, err, "Ошибка получения сертификата")
		return
	}
	writeJSON(w, http.StatusOK, mapCertificate(c))
}

// UpdateCertificate — PUT /api/v1/admin/certificates/{id}.
// Multipart: поля метаданных, необязательные file и redeemed.
func (h *APIHandler) UpdateCertificate(w http.ResponseWriter, r *http.Request, id generated.Id) {
	if !middleware.CheckRole(w, r, rbac.RoleAdmin) {
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // временные файлы формы

	in, err := certificateInputFromForm(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	upd := service.UpdateInput{CertificateInput: in}
	if raw := strings.TrimSpace(r.FormValue("redeemed")); raw != "" {
		redeemed, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("redeemed: ожидается true или false, получено %q", raw))
			return
		}
		upd.Redeemed = &redeemed
	}

	file, ok := formFile(w, r)
	if !ok {
		return
	}
	var content io.Reader
	if file != nil {
		defer file.Close()
		content = file
	}

	c, err := h.certificates.Update(r.Context(), id.String(), upd, content)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка изменения сертификата")
		return
	}

	h.logger.Info("Сертификат изменён администратором",
		slog.String("id", c.ID),
		slog.Bool("file_replaced", file != nil),
		slog.String("admin", middleware.SubjectFromContext(r.Context())),
	)
	writeJSON(w, http.StatusOK, mapCertificate(c))
}

// DeleteCertificate — DELETE /api/v1/admin/certificates/{id}.
func (h *APIHandler) DeleteCertificate(w http.ResponseWriter, r *http.Request, id generated.Id) {
	if !middleware.CheckRole(w, r, rbac.RoleAdmin) {
		return
	}

	if err := h.certificates.Delete(r.Context(), id.String()); err != nil {
		h.writeServiceError(w, err, "Ошибка удаления сертификата")
		return
	}

	h.logger.Info("Сертификат удалён администратором",
		slog.String("id", id.String()),
		slog.String("admin", middleware.SubjectFromContext(r.Context())),
	)
	w.WriteHeader(http.StatusNoContent)
}

// ResetRedemption — POST /api/v1/admin/certificates/{id}/reset-redemption.
func (h *APIHandler) ResetRedemption(w http.ResponseWriter, r *http.Request, id generated.Id) {
	if !middleware.CheckRole(w, r, rbac.RoleAdmin) {
		return
	}

	c, err := h.certificates.ResetRedemption(r.Context(), id.String())
	if err != nil {
		h.writeServiceError(w, err, "Ошибка сброса погашения")
		return
	}

	h.logger.Info("Погашение сброшено администратором",
		slog.String("id", c.ID),
		slog.String("admin", middleware.SubjectFromContext(r.Context())),
	)
	writeJSON(w, http.StatusOK, mapCertificate(c))
}

// RotateCertificateId — POST /api/v1/admin/certificates/{id}/rotate-id.
func (h *APIHandler) RotateCertificateId(w http.ResponseWriter, r *http.Request, id generated.Id) {
	if !middleware.CheckRole(w, r, rbac.RoleAdmin) {
		return
	}

	c, err := h.certificates.RotateCertificateID(r.Context(), id.String())
	if err != nil {
		h.writeServiceError(w, err, "Ошибка смены идентификатора")
		return
	}

	h.logger.Info("Публичный идентификатор изменён администратором",
		slog.String("id", c.ID),
		slog.String("admin", middleware.SubjectFromContext(r.Context())),
	)
	writeJSON(w, http.StatusOK, mapCertificate(c))
}

// --- Форма ---

// parseForm разбирает multipart с ограничением размера тела.
// При ошибке пишет ответ и возвращает false.
func (h *APIHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+formOverhead)
	}

	if err := r.ParseMultipartForm(formMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apierrors.PayloadTooLarge(w, fmt.Sprintf("Размер запроса превышает %d байт", maxErr.Limit))
			return false
		}
		apierrors.ValidationError(w, "Ошибка разбора multipart: "+err.Error())
		return false
	}
	return true
}

// certificateInputFromForm извлекает метаданные из разобранной формы.
func certificateInputFromForm(r *http.Request) (service.CertificateInput, error) {
	in := service.CertificateInput{
		EmployeeID:    strings.TrimSpace(r.FormValue("employee_id")),
		CandidateName: strings.TrimSpace(r.FormValue("candidate_name")),
		Position:      strings.TrimSpace(r.FormValue("position")),
		Department:    strings.TrimSpace(r.FormValue("department")),
	}

	var err error
	if in.StartDate, err = parseFormDate(r, "start_date"); err != nil {
		return in, err
	}
	if in.EndDate, err = parseFormDate(r, "end_date"); err != nil {
		return in, err
	}
	return in, nil
}

// parseFormDate разбирает дату YYYY-MM-DD. Пустое поле даёт нулевое время,
// обязательность проверяет сервис.
func parseFormDate(r *http.Request, field string) (time.Time, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: ожидается дата в формате YYYY-MM-DD, получено %q", field, raw)
	}
	return t, nil
}

// formFile возвращает файл из поля file или nil, если поле не передано.
func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	file, _, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		apierrors.ValidationError(w, "Ошибка чтения файла: "+err.Error())
		return nil, false
	}
	return file, true
}

// writeServiceError маппит ошибки сервисного слоя в HTTP-ответы.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Сертификат не найден")
	case errors.Is(err, service.ErrFileTooLarge):
		apierrors.PayloadTooLarge(w, err.Error())
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, err.Error())
	case errors.Is(err, service.ErrRecordDeleteAfterFile):
		apierrors.InternalError(w, "Файл сертификата удалён, запись требует ручного удаления")
	default:
		h.logger.Error(message, slog.String("error", err.Error()))
		apierrors.InternalError(w, message)
	}
}

// --- Маппинг ---

// mapCertificate конвертирует доменную модель в API-ответ.
func mapCertificate(c *model.Certificate) generated.Certificate {
	id, _ := uuid.Parse(c.ID)
	return generated.Certificate{
		Id:            id,
		CertificateId: c.CertificateID,
		EmployeeId:    c.EmployeeID,
		CandidateName: c.CandidateName,
		Position:      c.Position,
		Department:    c.Department,
		StartDate:     toDate(c.StartDate),
		EndDate:       toDate(c.EndDate),
		FileName:      c.FileName,
		DownloadName:  c.DownloadName(),
		Redeemed:      c.Redeemed,
		RedeemedAt:    c.RedeemedAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// toDate отбрасывает время, оставляя календарную дату.
func toDate(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: t}
}
