package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bigkaa/certportal/internal/domain/model"
)

// memoryCertificateRepo — CertificateRepository в памяти процесса.
// Все операции, включая MarkRedeemed, выполняются под одним мьютексом.
type memoryCertificateRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Certificate
	now  func() time.Time
}

// NewMemoryCertificateRepository создаёт репозиторий в памяти.
// Используется в тестах сервисов и обработчиков.
func NewMemoryCertificateRepository() CertificateRepository {
	return &memoryCertificateRepo{
		byID: make(map[string]*model.Certificate),
		now:  time.Now,
	}
}

// clone возвращает независимую копию записи.
func clone(c *model.Certificate) *model.Certificate {
	cp := *c
	if c.RedeemedAt != nil {
		t := *c.RedeemedAt
		cp.RedeemedAt = &t
	}
	return &cp
}

func (r *memoryCertificateRepo) findByCertificateID(certificateID string) *model.Certificate {
	for _, c := range r.byID {
		if c.CertificateID == certificateID {
			return c
		}
	}
	return nil
}

// checkUnique проверяет уникальность certificate_id и file_name для записи с id.
func (r *memoryCertificateRepo) checkUnique(id, certificateID, fileName string) error {
	for _, c := range r.byID {
		if c.ID == id {
			continue
		}
		if c.CertificateID == certificateID {
			return &ConflictError{Constraint: ConstraintCertificateID}
		}
		if c.FileName == fileName {
			return &ConflictError{Constraint: ConstraintFileName}
		}
	}
	return nil
}

func (r *memoryCertificateRepo) GetByCertificateID(_ context.Context, certificateID string) (*model.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.findByCertificateID(certificateID)
	if c == nil {
		return nil, ErrNotFound
	}
	return clone(c), nil
}

func (r *memoryCertificateRepo) GetByID(_ context.Context, id string) (*model.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(c), nil
}

func (r *memoryCertificateRepo) Create(_ context.Context, c *model.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[c.ID]; ok {
		return &ConflictError{Constraint: "certificates_pkey"}
	}
	if err := r.checkUnique(c.ID, c.CertificateID, c.FileName); err != nil {
		return err
	}

	now := r.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Redeemed {
		c.RedeemedAt = &now
	} else {
		c.RedeemedAt = nil
	}
	r.byID[c.ID] = clone(c)
	return nil
}

func (r *memoryCertificateRepo) Update(_ context.Context, c *model.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[c.ID]
	if !ok {
		return ErrNotFound
	}
	if err := r.checkUnique(c.ID, stored.CertificateID, c.FileName); err != nil {
		return err
	}

	stored.EmployeeID = c.EmployeeID
	stored.CandidateName = c.CandidateName
	stored.Position = c.Position
	stored.Department = c.Department
	stored.StartDate = c.StartDate
	stored.EndDate = c.EndDate
	stored.FileName = c.FileName
	stored.UpdatedAt = r.now()

	*c = *clone(stored)
	return nil
}

func (r *memoryCertificateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memoryCertificateRepo) MarkRedeemed(_ context.Context, certificateID string) (*RedeemResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.findByCertificateID(certificateID)
	if c == nil {
		return nil, ErrNotFound
	}
	if c.Redeemed {
		return &RedeemResult{Transitioned: false, Record: clone(c)}, nil
	}

	now := r.now()
	c.Redeemed = true
	c.RedeemedAt = &now
	c.UpdatedAt = now
	return &RedeemResult{Transitioned: true, Record: clone(c)}, nil
}

func (r *memoryCertificateRepo) ResetRedemption(_ context.Context, id string) (*model.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Redeemed = false
	c.RedeemedAt = nil
	c.UpdatedAt = r.now()
	return clone(c), nil
}

func (r *memoryCertificateRepo) RotateCertificateID(_ context.Context, id, newCertificateID string) (*model.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := r.checkUnique(id, newCertificateID, c.FileName); err != nil {
		return nil, err
	}
	c.CertificateID = newCertificateID
	c.UpdatedAt = r.now()
	return clone(c), nil
}

func (r *memoryCertificateRepo) List(_ context.Context, limit, offset int) ([]*model.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*model.Certificate, 0, len(r.byID))
	for _, c := range r.byID {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))

	result := make([]*model.Certificate, 0, end-offset)
	for _, c := range all[offset:end] {
		result = append(result, clone(c))
	}
	return result, nil
}

func (r *memoryCertificateRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}
