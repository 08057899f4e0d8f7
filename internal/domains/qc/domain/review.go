// Package domain holds the quality-control review model.
package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyOrder    = errors.New("review order id is required")
	ErrEmptyReviewer = errors.New("review reviewer id is required")
	ErrEmptyFeedback = errors.New("rejection feedback is required")
	ErrBadOutcome    = errors.New("review outcome is invalid")
)

// Outcome is the review verdict.
type Outcome string

const (
	OutcomeApproved         Outcome = "approved"
	OutcomeChangesRequested Outcome = "changes_requested"
)

// Checklist captures what the reviewer verified on the physical letter.
type Checklist struct {
	HandwritingLegible bool
	MatchesBrief       bool
	StationeryCorrect  bool
	NoSmudges          bool
}

// Review is an immutable record of one QC verdict on one draft. Rejections
// carry the feedback that goes back to the writer; SubmissionURL pins the
// exact draft the verdict was given on.
type Review struct {
	ID            string
	OrderID       string
	ReviewerID    string
	Outcome       Outcome
	Feedback      string
	SubmissionURL string
	Checklist     Checklist
	CreatedAt     time.Time
}

// NewReview validates and stamps a review. Rejections must explain what to
// change.
func NewReview(id, orderID, reviewerID string, outcome Outcome, feedback string, checklist Checklist) (*Review, error) {
	switch {
	case orderID == "":
		return nil, ErrEmptyOrder
	case reviewerID == "":
		return nil, ErrEmptyReviewer
	}
	switch outcome {
	case OutcomeApproved:
	case OutcomeChangesRequested:
		if feedback == "" {
			return nil, ErrEmptyFeedback
		}
	default:
		return nil, ErrBadOutcome
	}
	return &Review{
		ID:         id,
		OrderID:    orderID,
		ReviewerID: reviewerID,
		Outcome:    outcome,
		Feedback:   feedback,
		Checklist:  checklist,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
