package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"feedback-tool-backend/model"
	"feedback-tool-backend/store"
)

var errStoreDown = errors.New("connection refused")

type fakeFeedbackStore struct {
	records   []model.Feedback
	listErr   error
	findErr   error
	createErr error
	created   []model.Feedback
}

func (f *fakeFeedbackStore) ListForUser(_ context.Context, userID string) ([]model.Feedback, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Feedback
	for _, r := range f.records {
		if r.SenderID == userID || r.ReceiverID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeFeedbackStore) FindByID(_ context.Context, id string) (*model.Feedback, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, r := range f.records {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeFeedbackStore) Create(_ context.Context, fb *model.Feedback) error {
	if f.createErr != nil {
		return f.createErr
	}
	if fb.ID == "" {
		fb.ID = "generated"
	}
	f.created = append(f.created, *fb)
	return nil
}

type fakeProfileStore struct {
	mu          sync.Mutex
	profiles    map[string]model.Profile
	err         error
	updateErr   map[string]error
	batchCalls  int
	batchSizes  []int
	updatedMeta map[string]model.UserMetadata
}

func newFakeProfileStore(profiles ...model.Profile) *fakeProfileStore {
	f := &fakeProfileStore{profiles: map[string]model.Profile{}, updatedMeta: map[string]model.UserMetadata{}}
	for _, p := range profiles {
		f.profiles[p.ID] = p
	}
	return f
}

func (f *fakeProfileStore) FindByIDs(_ context.Context, ids []string) ([]model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	f.batchSizes = append(f.batchSizes, len(ids))
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfileStore) FindByID(_ context.Context, id string) (*model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfileStore) FindByFullName(_ context.Context, name string) (*model.Profile, error) {
	for _, p := range f.profiles {
		if p.FullName != nil && *p.FullName == name {
			p := p
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeProfileStore) Search(_ context.Context, query string) ([]model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Profile
	for _, p := range f.profiles {
		if query == "" || strings.Contains(strings.ToLower(p.DisplayName()), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfileStore) UpdateMetadata(_ context.Context, id string, meta model.UserMetadata) error {
	if err := f.updateErr[id]; err != nil {
		return err
	}
	f.updatedMeta[id] = meta
	return nil
}

type fakeAuthUserStore struct {
	users []model.AuthUser
	err   error
}

func (f *fakeAuthUserStore) ListAuthUsers(context.Context) ([]model.AuthUser, error) {
	return f.users, f.err
}

type memoryRevocationList struct {
	tokens map[string]time.Duration
	err    error
}

func (m *memoryRevocationList) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if m.tokens == nil {
		m.tokens = map[string]time.Duration{}
	}
	m.tokens[token] = ttl
	return nil
}

func (m *memoryRevocationList) IsRevoked(_ context.Context, token string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.tokens[token]
	return ok, nil
}

func profile(id, name, role, location string) model.Profile {
	return model.Profile{ID: id, FullName: &name, Role: &role, Location: &location}
}
