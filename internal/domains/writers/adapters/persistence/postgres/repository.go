// Package postgres persists writer payouts using GORM. The unique index on
// order_id is what makes payout booking once-per-order under concurrency.
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-letters/fulfillment/internal/domains/writers/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/writers/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&payoutRecord{})
	}
	return repo
}

type payoutRecord struct {
	ID          string    `gorm:"primaryKey;column:id;size:64"`
	WriterID    string    `gorm:"column:writer_id;size:64;index"`
	OrderID     string    `gorm:"column:order_id;size:64;uniqueIndex"`
	Pages       int       `gorm:"column:pages"`
	RateCents   int64     `gorm:"column:rate_cents"`
	AmountCents int64     `gorm:"column:amount_cents"`
	BookedAt    time.Time `gorm:"column:booked_at"`
}

func (payoutRecord) TableName() string { return "writer_payouts" }

func (r *Repository) Save(ctx context.Context, payout *domain.Payout) (*domain.Payout, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, errors.New("payout is nil")
	}
	record := payoutRecord{
		ID:          payout.ID,
		WriterID:    payout.WriterID,
		OrderID:     payout.OrderID,
		Pages:       payout.Pages,
		RateCents:   payout.RateCents,
		AmountCents: payout.AmountCents,
		BookedAt:    payout.BookedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ports.ErrDuplicatePayout
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByOrder(ctx context.Context, orderID string) (*domain.Payout, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record payoutRecord
	if err := r.db.WithContext(ctx).First(&record, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByWriter(ctx context.Context, writerID string) ([]*domain.Payout, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []payoutRecord
	if err := r.db.WithContext(ctx).Where("writer_id = ?", writerID).Order("booked_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	payouts := make([]*domain.Payout, 0, len(records))
	for i := range records {
		payouts = append(payouts, records[i].toDomain())
	}
	return payouts, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres payout repository not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

func (r payoutRecord) toDomain() *domain.Payout {
	return &domain.Payout{
		ID:          r.ID,
		WriterID:    r.WriterID,
		OrderID:     r.OrderID,
		Pages:       r.Pages,
		RateCents:   r.RateCents,
		AmountCents: r.AmountCents,
		BookedAt:    r.BookedAt,
	}
}
