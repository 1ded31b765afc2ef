package service

import (
	"context"
	"errors"
	"fmt"

	"feedback-tool-backend/model"
	"feedback-tool-backend/store"

	log "github.com/sirupsen/logrus"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	profiles store.ProfileStore
}

func NewProfileService(profiles store.ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Search lists colleagues matching query. Store errors are logged and produce an
// empty result.
func (s *ProfileService) Search(ctx context.Context, query string) []model.Profile {
	profiles, err := s.profiles.Search(ctx, query)
	if err != nil {
		log.WithError(err).WithField("query", query).Error("Error fetching profiles")
		return []model.Profile{}
	}
	return profiles
}

func (s *ProfileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.WithError(err).WithField("profile_id", id).Error("Error fetching profile")
		}
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return profile, nil
}

// CurrentUser combines the session identity with its profile, when one exists.
func (s *ProfileService) CurrentUser(ctx context.Context, id, email string) model.CurrentUser {
	user := model.CurrentUser{ID: id, Email: email}
	if profile, err := s.Get(ctx, id); err == nil {
		user.Profile = profile
	}
	return user
}
