package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/certportal/internal/domain/model"
)

// RedeemResult — результат атомарного погашения сертификата.
type RedeemResult struct {
	// Transitioned — именно этот вызов перевёл флаг redeemed из false в true
	Transitioned bool
	// Record — состояние записи после операции
	Record *model.Certificate
}

// CertificateRepository — интерфейс хранилища записей сертификатов.
type CertificateRepository interface {
	// GetByCertificateID возвращает запись по публичному идентификатору.
	GetByCertificateID(ctx context.Context, certificateID string) (*model.Certificate, error)
	// GetByID возвращает запись по внутреннему UUID.
	GetByID(ctx context.Context, id string) (*model.Certificate, error)
	// Create создаёт запись. ErrConflict при дублировании certificate_id или file_name.
	Create(ctx context.Context, c *model.Certificate) error
	// Update обновляет метаданные и ссылку на файл. Флаг redeemed не затрагивается.
	Update(ctx context.Context, c *model.Certificate) error
	// Delete удаляет запись по внутреннему UUID.
	Delete(ctx context.Context, id string) error
	// MarkRedeemed атомарно выставляет redeemed = true одним SQL-запросом.
	MarkRedeemed(ctx context.Context, certificateID string) (*RedeemResult, error)
	// ResetRedemption сбрасывает флаг redeemed (административное действие).
	ResetRedemption(ctx context.Context, id string) (*model.Certificate, error)
	// RotateCertificateID заменяет публичный идентификатор.
	RotateCertificateID(ctx context.Context, id, newCertificateID string) (*model.Certificate, error)
	// List возвращает записи, отсортированные по created_at DESC.
	List(ctx context.Context, limit, offset int) ([]*model.Certificate, error)
	// Count возвращает общее количество записей.
	Count(ctx context.Context) (int, error)
}

// certificateColumns — порядок колонок для scanCertificate.
const certificateColumns = `id, certificate_id, employee_id, candidate_name, position, department,
	start_date, end_date, file_name, redeemed, redeemed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row rowScanner, extra ...any) (*model.Certificate, error) {
	c := &model.Certificate{}
	dest := []any{
		&c.ID, &c.CertificateID, &c.EmployeeID, &c.CandidateName, &c.Position, &c.Department,
		&c.StartDate, &c.EndDate, &c.FileName, &c.Redeemed, &c.RedeemedAt, &c.CreatedAt, &c.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return c, nil
}

// certificateRepo — реализация CertificateRepository поверх PostgreSQL.
type certificateRepo struct {
	db DBTX
}

// NewCertificateRepository создаёт репозиторий сертификатов.
func NewCertificateRepository(db DBTX) CertificateRepository {
	return &certificateRepo{db: db}
}

func (r *certificateRepo) GetByCertificateID(ctx context.Context, certificateID string) (*model.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE certificate_id = $1`

	c, err := scanCertificate(r.db.QueryRow(ctx, query, certificateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения сертификата: %w", err)
	}
	return c, nil
}

func (r *certificateRepo) GetByID(ctx context.Context, id string) (*model.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`

	c, err := scanCertificate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения сертификата: %w", err)
	}
	return c, nil
}

func (r *certificateRepo) Create(ctx context.Context, c *model.Certificate) error {
	query := `
		INSERT INTO certificates (id, certificate_id, employee_id, candidate_name, position,
			department, start_date, end_date, file_name, redeemed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING redeemed_at, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		c.ID, c.CertificateID, c.EmployeeID, c.CandidateName, c.Position,
		c.Department, c.StartDate, c.EndDate, c.FileName, c.Redeemed,
	).Scan(&c.RedeemedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return conflictFromPg(err)
		}
		return fmt.Errorf("ошибка создания сертификата: %w", err)
	}
	return nil
}

func (r *certificateRepo) Update(ctx context.Context, c *model.Certificate) error {
	query := `
		UPDATE certificates
		SET employee_id = $2, candidate_name = $3, position = $4, department = $5,
			start_date = $6, end_date = $7, file_name = $8
		WHERE id = $1
		RETURNING ` + certificateColumns

	updated, err := scanCertificate(r.db.QueryRow(ctx, query,
		c.ID, c.EmployeeID, c.CandidateName, c.Position, c.Department,
		c.StartDate, c.EndDate, c.FileName,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return conflictFromPg(err)
		}
		return fmt.Errorf("ошибка обновления сертификата: %w", err)
	}
	*c = *updated
	return nil
}

func (r *certificateRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления сертификата: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkRedeemed выполняет условное обновление и, если оно ничего не изменило,
// возвращает текущую строку в том же запросе. Конкурирующие вызовы
// сериализуются блокировкой строки: UPDATE второго вызова перепроверяет
// условие redeemed = FALSE после коммита первого и не находит строку.
func (r *certificateRepo) MarkRedeemed(ctx context.Context, certificateID string) (*RedeemResult, error) {
	query := `
		WITH upd AS (
			UPDATE certificates
			SET redeemed = TRUE, redeemed_at = now()
			WHERE certificate_id = $1 AND redeemed = FALSE
			RETURNING ` + certificateColumns + `
		)
		SELECT ` + certificateColumns + `, TRUE FROM upd
		UNION ALL
		SELECT ` + certificateColumns + `, FALSE FROM certificates
		WHERE certificate_id = $1 AND NOT EXISTS (SELECT 1 FROM upd)`

	var transitioned bool
	c, err := scanCertificate(r.db.QueryRow(ctx, query, certificateID), &transitioned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка погашения сертификата: %w", err)
	}

	// Ветка без перехода читает снимок на начало запроса: при гонке
	// он может содержать redeemed = false, хотя строку уже погасил соседний вызов.
	// Тот же снимок при параллельном RotateCertificateID может вернуть строку
	// со старым certificate_id: UPDATE не находит её по коду, SELECT находит.
	// Непогашенный сертификат тогда получает ответ «уже погашен», файл не
	// выдаётся и флаг в БД не меняется, следующий запрос по новому коду
	// проходит штатно.
	if !transitioned {
		c.Redeemed = true
	}
	return &RedeemResult{Transitioned: transitioned, Record: c}, nil
}

func (r *certificateRepo) ResetRedemption(ctx context.Context, id string) (*model.Certificate, error) {
	query := `
		UPDATE certificates
		SET redeemed = FALSE, redeemed_at = NULL
		WHERE id = $1
		RETURNING ` + certificateColumns

	c, err := scanCertificate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сброса погашения: %w", err)
	}
	return c, nil
}

func (r *certificateRepo) RotateCertificateID(ctx context.Context, id, newCertificateID string) (*model.Certificate, error) {
	query := `
		UPDATE certificates
		SET certificate_id = $2
		WHERE id = $1
		RETURNING ` + certificateColumns

	c, err := scanCertificate(r.db.QueryRow(ctx, query, id, newCertificateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, conflictFromPg(err)
		}
		return nil, fmt.Errorf("ошибка смены идентификатора: %w", err)
	}
	return c, nil
}

func (r *certificateRepo) List(ctx context.Context, limit, offset int) ([]*model.Certificate, error) {
	query := `SELECT ` + certificateColumns + `
		FROM certificates
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка сертификатов: %w", err)
	}
	defer rows.Close()

	var result []*model.Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования сертификата: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *certificateRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM certificates`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта сертификатов: %w", err)
	}
	return count, nil
}
