// Пакет repository — слой доступа к данным PostgreSQL.
// Все запросы — чистый SQL через pgx, без ORM.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — конфликт уникальности (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — запись уже существует")
)

// Имена ограничений уникальности таблицы certificates.
const (
	ConstraintCertificateID = "certificates_certificate_id_key"
	ConstraintFileName      = "certificates_file_name_key"
)

// ConflictError — нарушение уникальности с именем ограничения.
// errors.Is(err, ErrConflict) для него истинно.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return ErrConflict.Error() + ": " + e.Constraint
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// IsCertificateIDConflict сообщает, что публичный идентификатор уже занят.
func IsCertificateIDConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.Constraint == ConstraintCertificateID
}

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникальности PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// conflictFromPg преобразует unique_violation в *ConflictError.
func conflictFromPg(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &ConflictError{Constraint: pgErr.ConstraintName}
	}
	return &ConflictError{}
}
