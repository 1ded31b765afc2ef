package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedback-tool-backend/metrics"
	"feedback-tool-backend/model"
	"feedback-tool-backend/store"

	log "github.com/sirupsen/logrus"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrSubmissionFailed = errors.New("failed to create feedback")
	ErrMissingReceiver  = errors.New("receiver is required")
)

// DateLayout renders creation dates as e.g. "January 5, 2024".
const DateLayout = "January 2, 2006"

type FeedbackService struct {
	feedback store.FeedbackStore
	profiles store.ProfileStore
	loc      *time.Location
}

// NewFeedbackService formats dates in loc; a nil loc means UTC.
func NewFeedbackService(feedback store.FeedbackStore, profiles store.ProfileStore, loc *time.Location) *FeedbackService {
	if loc == nil {
		loc = time.UTC
	}
	return &FeedbackService{feedback: feedback, profiles: profiles, loc: loc}
}

// ListForUser builds the timeline of everything userID sent or received, newest
// first. It never fails: a broken feedback query yields an empty list marked
// Unavailable, and unresolved counterparts are shown as model.UnknownPerson.
func (s *FeedbackService) ListForUser(ctx context.Context, userID string) model.FeedbackList {
	records, err := s.feedback.ListForUser(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Error fetching feedback")
		metrics.StoreFailures.WithLabelValues(metrics.StageFeedback).Inc()
		return model.FeedbackList{Entries: []model.FeedbackListEntry{}, Unavailable: true}
	}

	entries := make([]model.FeedbackListEntry, 0, len(records))
	if len(records) > 0 {
		profiles := s.resolveProfiles(ctx, participantIDs(records))
		for _, r := range records {
			entries = append(entries, s.toEntry(userID, r, profiles))
		}
	}

	metrics.ListedEntries.Observe(float64(len(entries)))
	return model.FeedbackList{Entries: entries}
}

// GetFeedback loads one record with both participants resolved.
func (s *FeedbackService) GetFeedback(ctx context.Context, id string) (*model.FeedbackDetail, error) {
	record, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.WithError(err).WithField("feedback_id", id).Error("Error fetching feedback")
			metrics.StoreFailures.WithLabelValues(metrics.StageDetail).Inc()
		}
		return nil, fmt.Errorf("%w: %s", ErrFeedbackNotFound, id)
	}

	profiles := s.resolveProfiles(ctx, participantIDs([]model.Feedback{*record}))

	return &model.FeedbackDetail{
		ID:           record.ID,
		Sender:       participant(record.SenderID, profiles),
		Receiver:     participant(record.ReceiverID, profiles),
		Title:        record.Title,
		Content:      record.Content,
		IsWish:       record.IsWish,
		IsSelfReport: record.IsSelfReport,
		CreatedAt:    s.formatDate(record.CreatedAt),
	}, nil
}

// GetWish is GetFeedback restricted to wishes.
func (s *FeedbackService) GetWish(ctx context.Context, id string) (*model.FeedbackDetail, error) {
	detail, err := s.GetFeedback(ctx, id)
	if err != nil {
		return nil, err
	}
	if !detail.IsWish {
		return nil, fmt.Errorf("%w: %s is not a wish", ErrFeedbackNotFound, id)
	}
	return detail, nil
}

// CreateFeedback stores a record sent by senderID. Self-reports are always
// addressed to the sender.
func (s *FeedbackService) CreateFeedback(ctx context.Context, senderID string, req model.CreateFeedbackRequest) (*model.Feedback, error) {
	receiverID := req.ReceiverID
	if req.IsSelfReport {
		receiverID = senderID
	}
	if receiverID == "" {
		return nil, ErrMissingReceiver
	}

	feedback := &model.Feedback{
		SenderID:     senderID,
		ReceiverID:   receiverID,
		Title:        req.Title,
		Content:      req.Content,
		IsWish:       req.IsWish,
		IsSelfReport: req.IsSelfReport,
	}

	if err := s.feedback.Create(ctx, feedback); err != nil {
		log.WithError(err).WithField("user_id", senderID).Error("Error creating feedback")
		metrics.Submissions.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	metrics.Submissions.WithLabelValues("created").Inc()
	return feedback, nil
}

// Classify assigns the category of r as seen by userID. The sender side wins,
// so self-reports count as sent.
func Classify(userID string, r model.Feedback) model.FeedbackStatus {
	isSender := r.SenderID == userID
	switch {
	case isSender && r.IsWish:
		return model.StatusWishSent
	case isSender:
		return model.StatusSent
	case r.IsWish:
		return model.StatusWishReceived
	default:
		return model.StatusReceived
	}
}

func (s *FeedbackService) toEntry(userID string, r model.Feedback, profiles map[string]*model.Profile) model.FeedbackListEntry {
	status := Classify(userID, r)

	counterpartID := r.SenderID
	if r.SenderID == userID {
		counterpartID = r.ReceiverID
	}
	counterpart, ok := profiles[counterpartID]
	if !ok {
		metrics.UnknownCounterparts.Inc()
	}

	entry := model.FeedbackListEntry{
		ID:       r.ID,
		Person:   counterpart.DisplayName(),
		PersonID: counterpartID,
		Type:     status.Label(),
		Date:     s.formatDate(r.CreatedAt),
		Status:   status,
	}
	if r.IsSelfReport {
		entry.Title = r.Title
		entry.Content = r.Content
	}
	return entry
}

// resolveProfiles performs the single batch lookup for ids. A failed lookup is
// logged and leaves every reference unresolved.
func (s *FeedbackService) resolveProfiles(ctx context.Context, ids []string) map[string]*model.Profile {
	index := make(map[string]*model.Profile, len(ids))

	profiles, err := s.profiles.FindByIDs(ctx, ids)
	if err != nil {
		log.WithError(err).WithField("profile_count", len(ids)).Error("Error fetching profiles")
		metrics.StoreFailures.WithLabelValues(metrics.StageProfiles).Inc()
		return index
	}

	for i := range profiles {
		index[profiles[i].ID] = &profiles[i]
	}
	return index
}

func (s *FeedbackService) formatDate(t time.Time) string {
	return t.In(s.loc).Format(DateLayout)
}

// participantIDs returns the distinct sender and receiver ids in first-seen order.
func participantIDs(records []model.Feedback) []string {
	seen := make(map[string]struct{}, len(records)*2)
	ids := make([]string, 0, len(records)*2)
	for _, r := range records {
		for _, id := range [2]string{r.SenderID, r.ReceiverID} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

func participant(id string, profiles map[string]*model.Profile) model.Participant {
	p := profiles[id]
	return model.Participant{
		ID:       id,
		Name:     p.DisplayName(),
		Role:     p.RoleName(),
		Location: p.LocationName(),
	}
}
