// Package store is the data access layer over the profiles and feedback tables.
package store

import (
	"context"
	"errors"

	"feedback-tool-backend/model"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// FeedbackStore reads and writes feedback records.
type FeedbackStore interface {
	// ListForUser returns every record the user sent or received, newest first.
	ListForUser(ctx context.Context, userID string) ([]model.Feedback, error)

	// FindByID returns ErrNotFound when no record has the id.
	FindByID(ctx context.Context, id string) (*model.Feedback, error)

	Create(ctx context.Context, feedback *model.Feedback) error
}

// ProfileStore reads and repairs user profiles.
type ProfileStore interface {
	// FindByIDs resolves a set of ids in one round-trip. Ids without a row are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []string) ([]model.Profile, error)

	// FindByID returns ErrNotFound when no profile has the id.
	FindByID(ctx context.Context, id string) (*model.Profile, error)

	FindByFullName(ctx context.Context, fullName string) (*model.Profile, error)

	// Search matches name, role and location case-insensitively. An empty query
	// returns all profiles.
	Search(ctx context.Context, query string) ([]model.Profile, error)

	UpdateMetadata(ctx context.Context, id string, meta model.UserMetadata) error
}

// AuthUserStore lists accounts of the managed auth service.
type AuthUserStore interface {
	ListAuthUsers(ctx context.Context) ([]model.AuthUser, error)
}
