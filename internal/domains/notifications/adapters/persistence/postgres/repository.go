// Package postgres persists the notification log using GORM. Attempted
// channels are stored as a native text[] column via lib/pq.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&notificationRecord{})
	}
	return repo
}

type notificationRecord struct {
	ID          string         `gorm:"primaryKey;column:id;size:64"`
	EventName   string         `gorm:"column:event_name;size:64;index"`
	OrderID     string         `gorm:"column:order_id;size:64;index"`
	RecipientID string         `gorm:"column:recipient_id;size:64;index"`
	Title       string         `gorm:"column:title"`
	Body        string         `gorm:"column:body"`
	Channels    pq.StringArray `gorm:"column:channels;type:text[]"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
}

func (notificationRecord) TableName() string { return "notifications" }

func (r *Repository) Save(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, errors.New("notification is nil")
	}
	record := toRecord(notification)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []notificationRecord
	if err := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []notificationRecord
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres notification repository not configured")
	}
	return nil
}

func toRecord(notification *domain.Notification) notificationRecord {
	channels := make(pq.StringArray, 0, len(notification.Channels))
	for _, channel := range notification.Channels {
		channels = append(channels, string(channel))
	}
	createdAt := notification.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return notificationRecord{
		ID:          notification.ID,
		EventName:   notification.EventName,
		OrderID:     notification.OrderID,
		RecipientID: notification.RecipientID,
		Title:       notification.Title,
		Body:        notification.Body,
		Channels:    channels,
		CreatedAt:   createdAt,
	}
}

func toDomainList(records []notificationRecord) []*domain.Notification {
	list := make([]*domain.Notification, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list
}

func (r notificationRecord) toDomain() *domain.Notification {
	channels := make([]domain.Channel, 0, len(r.Channels))
	for _, channel := range r.Channels {
		channels = append(channels, domain.Channel(channel))
	}
	return &domain.Notification{
		ID:          r.ID,
		EventName:   r.EventName,
		OrderID:     r.OrderID,
		RecipientID: r.RecipientID,
		Title:       r.Title,
		Body:        r.Body,
		Channels:    channels,
		CreatedAt:   r.CreatedAt,
	}
}
