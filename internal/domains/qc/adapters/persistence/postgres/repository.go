// Package postgres persists QC reviews using GORM.
package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-letters/fulfillment/internal/domains/qc/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/qc/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&reviewRecord{})
	}
	return repo
}

type reviewRecord struct {
	ID                 string    `gorm:"primaryKey;column:id;size:64"`
	OrderID            string    `gorm:"column:order_id;size:64;index"`
	ReviewerID         string    `gorm:"column:reviewer_id;size:64;index"`
	Outcome            string    `gorm:"column:outcome;type:varchar(32)"`
	Feedback           string    `gorm:"column:feedback"`
	SubmissionURL      string    `gorm:"column:submission_url"`
	HandwritingLegible bool      `gorm:"column:handwriting_legible"`
	MatchesBrief       bool      `gorm:"column:matches_brief"`
	StationeryCorrect  bool      `gorm:"column:stationery_correct"`
	NoSmudges          bool      `gorm:"column:no_smudges"`
	CreatedAt          time.Time `gorm:"column:created_at;index"`
}

func (reviewRecord) TableName() string { return "qc_reviews" }

func (r *Repository) Save(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if review == nil {
		return nil, errors.New("review is nil")
	}
	record := toRecord(review)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]*domain.Review, error) {
	return r.list(ctx, "order_id = ?", orderID)
}

func (r *Repository) ListByReviewer(ctx context.Context, reviewerID string) ([]*domain.Review, error) {
	return r.list(ctx, "reviewer_id = ?", reviewerID)
}

func (r *Repository) list(ctx context.Context, query string, arg any) ([]*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []reviewRecord
	if err := r.db.WithContext(ctx).Where(query, arg).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	reviews := make([]*domain.Review, 0, len(records))
	for i := range records {
		reviews = append(reviews, records[i].toDomain())
	}
	return reviews, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres review repository not configured")
	}
	return nil
}

func toRecord(review *domain.Review) reviewRecord {
	return reviewRecord{
		ID:                 review.ID,
		OrderID:            review.OrderID,
		ReviewerID:         review.ReviewerID,
		Outcome:            string(review.Outcome),
		Feedback:           review.Feedback,
		SubmissionURL:      review.SubmissionURL,
		HandwritingLegible: review.Checklist.HandwritingLegible,
		MatchesBrief:       review.Checklist.MatchesBrief,
		StationeryCorrect:  review.Checklist.StationeryCorrect,
		NoSmudges:          review.Checklist.NoSmudges,
		CreatedAt:          review.CreatedAt,
	}
}

func (r reviewRecord) toDomain() *domain.Review {
	return &domain.Review{
		ID:            r.ID,
		OrderID:       r.OrderID,
		ReviewerID:    r.ReviewerID,
		Outcome:       domain.Outcome(r.Outcome),
		Feedback:      r.Feedback,
		SubmissionURL: r.SubmissionURL,
		Checklist: domain.Checklist{
			HandwritingLegible: r.HandwritingLegible,
			MatchesBrief:       r.MatchesBrief,
			StationeryCorrect:  r.StationeryCorrect,
			NoSmudges:          r.NoSmudges,
		},
		CreatedAt: r.CreatedAt,
	}
}
