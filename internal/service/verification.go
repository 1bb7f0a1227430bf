// verification.go — публичная проверка сертификата.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bigkaa/certportal/internal/domain/model"
	"github.com/bigkaa/certportal/internal/repository"
)

// VerificationService — чтение метаданных сертификата без побочных эффектов.
// Каждый вызов читает хранилище записей: кэша нет, поэтому после
// погашения страница проверки не может показать redeemed = false.
type VerificationService struct {
	repo repository.CertificateRepository
}

// NewVerificationService создаёт сервис проверки.
func NewVerificationService(repo repository.CertificateRepository) *VerificationService {
	return &VerificationService{repo: repo}
}

// Lookup возвращает публичное представление сертификата.
func (s *VerificationService) Lookup(ctx context.Context, certificateID string) (*model.CertificateView, error) {
	c, err := s.repo.GetByCertificateID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение сертификата %s: %w", certificateID, err)
	}
	return c.View(), nil
}
