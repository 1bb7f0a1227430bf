// Пакет model — доменные модели Certificate Portal.
package model

import (
	"regexp"
	"strings"
	"time"
)

// ContentTypePDF — MIME-тип отдаваемых сертификатов.
const ContentTypePDF = "application/pdf"

// Certificate — сертификат стажёра/сотрудника.
// Хранится в таблице certificates.
type Certificate struct {
	// ID — внутренний UUID записи (первичный ключ, неизменяемый)
	ID string
	// CertificateID — публичный идентификатор для проверки и скачивания
	CertificateID string
	// EmployeeID — табельный номер владельца
	EmployeeID string
	// CandidateName — ФИО кандидата
	CandidateName string
	// Position — должность
	Position string
	// Department — подразделение
	Department string
	// StartDate — начало периода
	StartDate time.Time
	// EndDate — окончание периода
	EndDate time.Time
	// FileName — ключ PDF-файла в хранилище
	FileName string
	// Redeemed — файл уже был выдан (однократное скачивание)
	Redeemed bool
	// RedeemedAt — время выдачи файла (nil, если не выдан)
	RedeemedAt *time.Time
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// DownloadName возвращает имя файла, предлагаемое клиенту при скачивании.
// Формат: {employee_id}_{safe_name}.pdf
func (c *Certificate) DownloadName() string {
	return DisplayFileName(c.EmployeeID, c.CandidateName)
}

// View формирует публичное представление для страницы проверки.
func (c *Certificate) View() *CertificateView {
	return &CertificateView{
		CertificateID: c.CertificateID,
		CandidateName: c.CandidateName,
		EmployeeID:    c.EmployeeID,
		Position:      c.Position,
		Department:    c.Department,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		CreatedAt:     c.CreatedAt,
		Redeemed:      c.Redeemed,
	}
}

// CertificateView — публичные метаданные сертификата без служебных полей.
type CertificateView struct {
	CertificateID string
	CandidateName string
	EmployeeID    string
	Position      string
	Department    string
	StartDate     time.Time
	EndDate       time.Time
	CreatedAt     time.Time
	Redeemed      bool
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Предельные длины частей имени файла в байтах. Самый длинный ключ
// хранилища вместе с обрамлением временного файла Save (".", "." + 8
// символов + ".tmp") укладывается в 255 байт, допустимые для имени в ФС.
const (
	maxEmployeeIDPart = 64
	maxNamePart       = 128
)

// SafeName заменяет все символы, кроме латиницы и цифр, на '_'.
func SafeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// safePart — SafeName, обрезанный до limit байт.
// Результат SafeName состоит только из ASCII, поэтому обрезка по байтам безопасна.
func safePart(s string, limit int) string {
	safe := SafeName(s)
	if len(safe) > limit {
		return safe[:limit]
	}
	return safe
}

// DisplayFileName — имя файла сертификата, выводимое из метаданных.
func DisplayFileName(employeeID, candidateName string) string {
	return safePart(employeeID, maxEmployeeIDPart) + "_" + safePart(candidateName, maxNamePart) + ".pdf"
}

// StorageFileName — ключ файла в хранилище.
// К отображаемому имени добавляется префикс внутреннего UUID, чтобы записи
// с одинаковыми метаданными не перезаписывали файлы друг друга.
func StorageFileName(id, employeeID, candidateName string) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return safePart(employeeID, maxEmployeeIDPart) + "_" + safePart(candidateName, maxNamePart) + "_" + short + ".pdf"
}
