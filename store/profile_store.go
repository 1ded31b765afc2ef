package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"feedback-tool-backend/model"

	"gorm.io/gorm"
)

type gormProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) ProfileStore {
	return &gormProfileStore{db: db}
}

func (s *gormProfileStore) FindByIDs(ctx context.Context, ids []string) ([]model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var profiles []model.Profile
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	return profiles, nil
}

func (s *gormProfileStore) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *gormProfileStore) FindByFullName(ctx context.Context, fullName string) (*model.Profile, error) {
	return s.first(ctx, "full_name = ?", fullName)
}

func (s *gormProfileStore) first(ctx context.Context, query string, arg interface{}) (*model.Profile, error) {
	var profile model.Profile
	err := s.db.WithContext(ctx).Where(query, arg).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (s *gormProfileStore) Search(ctx context.Context, query string) ([]model.Profile, error) {
	tx := s.db.WithContext(ctx).Model(&model.Profile{})

	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(full_name) LIKE ? OR LOWER(role) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern, pattern)
	}

	var profiles []model.Profile
	if err := tx.Order("full_name").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	return profiles, nil
}

func (s *gormProfileStore) UpdateMetadata(ctx context.Context, id string, meta model.UserMetadata) error {
	updates := map[string]interface{}{
		"role":      nullable(meta.Role),
		"location":  nullable(meta.Location),
		"full_name": nullable(meta.FullName),
	}

	if err := s.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type gormAuthUserStore struct {
	db *gorm.DB
}

// NewAuthUserStore reads auth.users directly; it needs a role allowed to see that schema.
func NewAuthUserStore(db *gorm.DB) AuthUserStore {
	return &gormAuthUserStore{db: db}
}

func (s *gormAuthUserStore) ListAuthUsers(ctx context.Context) ([]model.AuthUser, error) {
	var users []model.AuthUser
	if err := s.db.WithContext(ctx).Select("id", "email", "raw_user_meta_data").Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list auth users: %w", err)
	}
	return users, nil
}
