package service

import (
	"context"
	"errors"
	"fmt"

	"feedback-tool-backend/model"
	"feedback-tool-backend/store"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type seedUser struct {
	Email    string
	Password string
	FullName string
	Role     string
	Location string
}

var seedUsers = []seedUser{
	{Email: "alex@example.com", Password: "password123", FullName: "Alex Johnson", Role: "Product Manager", Location: "New York"},
	{Email: "sarah@example.com", Password: "password123", FullName: "Sarah Miller", Role: "UX Designer", Location: "San Francisco"},
	{Email: "michael@example.com", Password: "password123", FullName: "Michael Chen", Role: "Developer", Location: "Toronto"},
	{Email: "emily@example.com", Password: "password123", FullName: "Emily Wilson", Role: "Marketing", Location: "London"},
}

var seedFeedback = []model.CreateFeedbackRequest{
	{
		Title: "Great collaboration on the Q1 project",
		Content: "I wanted to give you some feedback on how we worked together on the Q1 project.\n\n" +
			"You kept everyone informed and raised risks early, which let us deal with them before they turned into problems.\n\n" +
			"Your proposal for the integration issue fixed the immediate bug and left the architecture in better shape.\n\n" +
			"Documentation is the one area to push on. The code reads well, but newcomers would ramp up faster with more written context.\n\n" +
			"Looking forward to the next project together!",
	},
	{
		Title: "Feedback on your presentation skills",
		Content: "Some notes on your presentation at the last team meeting.\n\n" +
			"You explained complex ideas in a way that non-technical colleagues could follow, and the depth of your knowledge showed.\n\n" +
			"Starting from the problem and walking through the approach step by step worked well, and the visuals helped.\n\n" +
			"Next time, leave a little more room for questions. A few had to be picked up after the meeting.\n\n" +
			"Overall an excellent presentation.",
	},
	{
		Title: "Request for feedback on my design collaboration",
		Content: "I would appreciate your feedback on how I have been working with you on recent design projects.\n\n" +
			"In particular:\n\n" +
			"1. Are my requirements for design tasks clear and timely?\n2. Is my feedback on your designs constructive?\n3. How could I support you better during the design process?\n4. What would you change about how we communicate?\n\n" +
			"Thanks for taking the time!",
		IsWish: true,
	},
}

// SeedResult lists the colleague profiles that exist after seeding.
type SeedResult struct {
	Users    []model.Profile `json:"users"`
	Feedback int             `json:"feedback"`
}

// SeedService fills a development database with colleagues and sample feedback.
type SeedService struct {
	db       *gorm.DB
	profiles store.ProfileStore
	feedback *FeedbackService
	// createUser creates an account and its profile, returning the new user ID.
	createUser func(ctx context.Context, u seedUser) (string, error)
}

func NewSeedService(db *gorm.DB, profiles store.ProfileStore, feedback *FeedbackService) *SeedService {
	s := &SeedService{db: db, profiles: profiles, feedback: feedback}
	s.createUser = s.createUserWithProfile
	return s
}

// Seed creates the test colleagues through create_user_with_profile, skipping
// names that already have a profile, then exchanges sample feedback between
// currentUserID and the first two colleagues.
func (s *SeedService) Seed(ctx context.Context, currentUserID string) (*SeedResult, error) {
	result := &SeedResult{}
	for _, u := range seedUsers {
		profile, err := s.ensureUser(ctx, u)
		if errors.Is(err, ErrUnsupportedDialect) {
			return nil, fmt.Errorf("seed: %w", err)
		}
		if err != nil {
			log.WithError(err).WithField("email", u.Email).Error("Error creating user")
			continue
		}
		result.Users = append(result.Users, *profile)
	}

	if len(result.Users) < 2 {
		return result, nil
	}

	first, second := result.Users[0].ID, result.Users[1].ID
	plan := []struct {
		sender, receiver string
		req              model.CreateFeedbackRequest
	}{
		{currentUserID, first, seedFeedback[0]},
		{first, currentUserID, seedFeedback[1]},
		{currentUserID, second, seedFeedback[2]},
	}
	for _, p := range plan {
		req := p.req
		req.ReceiverID = p.receiver
		if _, err := s.feedback.CreateFeedback(ctx, p.sender, req); err != nil {
			return result, err
		}
		result.Feedback++
	}
	return result, nil
}

func (s *SeedService) ensureUser(ctx context.Context, u seedUser) (*model.Profile, error) {
	existing, err := s.profiles.FindByFullName(ctx, u.FullName)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	id, err := s.createUser(ctx, u)
	if err != nil {
		return nil, err
	}
	return s.profiles.FindByID(ctx, id)
}

func (s *SeedService) createUserWithProfile(ctx context.Context, u seedUser) (string, error) {
	if s.db.Dialector.Name() != "postgres" {
		return "", ErrUnsupportedDialect
	}

	var id string
	if err := s.db.WithContext(ctx).
		Raw("SELECT create_user_with_profile(?, ?, ?, ?, ?)", u.Email, u.Password, u.FullName, u.Role, u.Location).
		Scan(&id).Error; err != nil {
		return "", fmt.Errorf("failed to create user %s: %w", u.Email, err)
	}
	return id, nil
}
