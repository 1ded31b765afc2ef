package store

import (
	"context"
	"errors"
	"fmt"

	"feedback-tool-backend/model"

	"gorm.io/gorm"
)

type gormFeedbackStore struct {
	db *gorm.DB
}

// NewFeedbackStore returns a FeedbackStore backed by db.
func NewFeedbackStore(db *gorm.DB) FeedbackStore {
	return &gormFeedbackStore{db: db}
}

func (s *gormFeedbackStore) ListForUser(ctx context.Context, userID string) ([]model.Feedback, error) {
	var feedbacks []model.Feedback

	if err := s.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&feedbacks).Error; err != nil {
		return nil, fmt.Errorf("failed to query feedback for user: %w", err)
	}

	return feedbacks, nil
}

func (s *gormFeedbackStore) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	var feedback model.Feedback

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&feedback).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return &feedback, nil
}

func (s *gormFeedbackStore) Create(ctx context.Context, feedback *model.Feedback) error {
	if err := s.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}
