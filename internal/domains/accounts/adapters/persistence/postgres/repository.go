// Package postgres persists accounts using GORM.
package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&accountRecord{})
	}
	return repo
}

type accountRecord struct {
	ID               string    `gorm:"primaryKey;column:id;size:64"`
	Name             string    `gorm:"column:name"`
	Email            string    `gorm:"column:email;index"`
	Phone            string    `gorm:"column:phone"`
	Role             string    `gorm:"column:role;type:varchar(16);index"`
	PerPageRateCents int64     `gorm:"column:per_page_rate_cents"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (accountRecord) TableName() string { return "accounts" }

func (r *Repository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("account is nil")
	}
	record := toRecord(account)
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record accountRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Account, error) {
	return r.list(ctx, nil)
}

func (r *Repository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB { return q.Where("role = ?", string(role)) })
}

func (r *Repository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("name asc")
	if scope != nil {
		query = scope(query)
	}
	var records []accountRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(records))
	for i := range records {
		accounts = append(accounts, records[i].toDomain())
	}
	return accounts, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres accounts repository not configured")
	}
	return nil
}

func toRecord(account *domain.Account) accountRecord {
	return accountRecord{
		ID:               account.ID,
		Name:             account.Name,
		Email:            account.Email,
		Phone:            account.Phone,
		Role:             string(account.Role),
		PerPageRateCents: account.PerPageRateCents,
		CreatedAt:        account.CreatedAt,
	}
}

func (r accountRecord) toDomain() *domain.Account {
	return &domain.Account{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		Role:             domain.Role(r.Role),
		PerPageRateCents: r.PerPageRateCents,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
