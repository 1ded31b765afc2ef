package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"feedback-tool-backend/handler"
	"feedback-tool-backend/limit"
	"feedback-tool-backend/model"
	"feedback-tool-backend/service"
	"feedback-tool-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret = "router-test-secret-router-test-secret"
	testCookie = "sb-access-token"
	testAPIKey = "maintenance-key"
)

type memoryRevocations struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func (m *memoryRevocations) Revoke(_ context.Context, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = true
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[token], nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func strPtr(s string) *string { return &s }

// newTestEnv builds the full router over an in-memory database. A submitPerMinute
// of 0 disables submission limiting; otherwise the burst is 1.
func newTestEnv(t *testing.T, submitPerMinute int) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	profileStore := store.NewProfileStore(db)
	maintenanceService := service.NewMaintenanceService(db, store.NewAuthUserStore(db), profileStore)
	require.NoError(t, maintenanceService.Migrate())

	require.NoError(t, db.Create(&[]model.Profile{
		{ID: "u1", FullName: strPtr("Alex Johnson"), Role: strPtr("Product Manager"), Location: strPtr("New York")},
		{ID: "u2", FullName: strPtr("Sarah Miller"), Role: strPtr("UX Designer"), Location: strPtr("San Francisco")},
		{ID: "u3", FullName: strPtr("Michael Chen"), Role: strPtr("Developer"), Location: strPtr("Toronto")},
	}).Error)
	require.NoError(t, db.Create(&[]model.Feedback{
		{ID: "f1", SenderID: "u1", ReceiverID: "u2", Title: "Great presentation", Content: "Clear slides.\n\nGood pacing.", CreatedAt: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{ID: "f2", SenderID: "u1", ReceiverID: "u3", Title: "Review my design doc", Content: "Anything unclear?", IsWish: true, CreatedAt: time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)},
		{ID: "f3", SenderID: "u2", ReceiverID: "u1", Title: "Thanks for the roadmap", Content: "Very helpful.", CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}).Error)

	sessions, err := service.NewSessionService(context.Background(), testSecret, "", &memoryRevocations{tokens: map[string]bool{}})
	require.NoError(t, err)

	profileService := service.NewProfileService(profileStore)
	feedbackService := service.NewFeedbackService(store.NewFeedbackStore(db), profileStore, time.UTC)

	r := gin.New()
	require.NoError(t, SetupRoutes(r, Dependencies{
		Feedback:          handler.NewFeedbackHandler(feedbackService, profileService, limit.NewSubmissionLimiter(submitPerMinute, 1)),
		Profiles:          handler.NewProfileHandler(profileService),
		Auth:              handler.NewAuthHandler(sessions, testCookie, false),
		Maintenance:       handler.NewMaintenanceHandler(maintenanceService, profileService),
		Health:            handler.NewHealthHandler(db, nil),
		Sessions:          sessions,
		SessionCookie:     testCookie,
		MaintenanceAPIKey: testAPIKey,
		AllowedOrigins:    []string{"http://localhost:3000"},
	}))

	return &testEnv{router: r, db: db}
}

func token(t *testing.T, userID string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": userID + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

type request struct {
	method string
	path   string
	token  string
	bearer bool
	form   url.Values
	json   string
	header map[string]string
}

func (e *testEnv) do(req request) *httptest.ResponseRecorder {
	var body *strings.Reader
	switch {
	case req.form != nil:
		body = strings.NewReader(req.form.Encode())
	case req.json != "":
		body = strings.NewReader(req.json)
	default:
		body = strings.NewReader("")
	}

	method := req.method
	if method == "" {
		method = http.MethodGet
	}
	r := httptest.NewRequest(method, req.path, body)
	if req.form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if req.json != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		if req.bearer {
			r.Header.Set("Authorization", "Bearer "+req.token)
		} else {
			r.AddCookie(&http.Cookie{Name: testCookie, Value: req.token})
		}
	}
	for k, v := range req.header {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func TestHomeRequiresSession(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(request{path: "/"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth", w.Header().Get("Location"))
}

func TestHome(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(request{path: "/", token: token(t, "u1")})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	body := w.Body.String()
	assert.Contains(t, body, "Alex Johnson")
	assert.Contains(t, body, `href="/feedback/received/f3"`)
	assert.Contains(t, body, `href="/wish-feedback/sent/f2"`)
	assert.Contains(t, body, `href="/feedback/sent/f1"`)
	assert.Contains(t, body, "February 14, 2024")
	assert.Less(t, strings.Index(body, "/feedback/received/f3"), strings.Index(body, "/feedback/sent/f1"))
}

func TestHomeFilter(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(request{path: "/?hide=sent&hide=wish-sent", token: token(t, "u1")})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "/feedback/sent/f1")
	assert.NotContains(t, w.Body.String(), "/wish-feedback/sent/f2")
	assert.Contains(t, w.Body.String(), "/feedback/received/f3")
}

func TestDetailPages(t *testing.T) {
	env := newTestEnv(t, 0)
	tok := token(t, "u1")

	w := env.do(request{path: "/feedback/sent/f1", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<p>Clear slides.</p>")
	assert.Contains(t, w.Body.String(), "<p>Good pacing.</p>")
	assert.Contains(t, w.Body.String(), "Sarah Miller")

	w = env.do(request{path: "/feedback/received/f3", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sarah Miller")

	w = env.do(request{path: "/wish-feedback/sent/f2", token: tok})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(request{path: "/wish-feedback/sent/f1", token: tok})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(request{path: "/feedback/sent/missing", token: tok})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestColleagueSearchAndForms(t *testing.T) {
	env := newTestEnv(t, 0)
	tok := token(t, "u1")

	w := env.do(request{path: "/give-feedback?q=toronto", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/give-feedback/u3"`)
	assert.NotContains(t, w.Body.String(), `href="/give-feedback/u2"`)

	w = env.do(request{path: "/wish-feedback", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/wish-feedback/u2"`)
	assert.NotContains(t, w.Body.String(), `href="/wish-feedback/u1"`)

	w = env.do(request{path: "/give-feedback/u2", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="receiverId" value="u2"`)

	w = env.do(request{path: "/wish-feedback/u3", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="isWish" value="true"`)

	w = env.do(request{path: "/give-feedback/self-report", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="isSelfReport" value="true"`)

	w = env.do(request{path: "/give-feedback/ghost", token: tok})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitFeedback(t *testing.T) {
	env := newTestEnv(t, 0)
	tok := token(t, "u1")

	w := env.do(request{method: http.MethodPost, path: "/feedback", token: tok, form: url.Values{
		"title":      {"Solid sprint"},
		"content":    {"Kept scope tight."},
		"receiverId": {"u3"},
	}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var saved model.Feedback
	require.NoError(t, env.db.Where("title = ?", "Solid sprint").First(&saved).Error)
	assert.Equal(t, "u1", saved.SenderID)
	assert.Equal(t, "u3", saved.ReceiverID)

	w = env.do(request{method: http.MethodPost, path: "/feedback", token: tok, form: url.Values{
		"title":        {"My quarter"},
		"content":      {"Shipped two features."},
		"isSelfReport": {"true"},
	}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	var selfReport model.Feedback
	require.NoError(t, env.db.Where("title = ?", "My quarter").First(&selfReport).Error)
	assert.Equal(t, "u1", selfReport.ReceiverID)
	assert.True(t, selfReport.IsSelfReport)
}

func TestSubmitFeedbackValidation(t *testing.T) {
	env := newTestEnv(t, 0)
	tok := token(t, "u1")

	w := env.do(request{method: http.MethodPost, path: "/feedback", token: tok, form: url.Values{
		"title":      {"   "},
		"content":    {"Body"},
		"receiverId": {"u2"},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title and content are required.")

	w = env.do(request{method: http.MethodPost, path: "/feedback", token: tok, form: url.Values{
		"title":   {"No receiver"},
		"content": {"Body"},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	env.db.Model(&model.Feedback{}).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestSubmitFeedbackRateLimited(t *testing.T) {
	env := newTestEnv(t, 1)
	tok := token(t, "u1")
	form := url.Values{"title": {"Hello"}, "content": {"World"}, "receiverId": {"u2"}}

	w := env.do(request{method: http.MethodPost, path: "/feedback", token: tok, form: form})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = env.do(request{method: http.MethodPost, path: "/feedback", token: tok, form: form})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestFeedbackAPI(t *testing.T) {
	env := newTestEnv(t, 0)
	tok := token(t, "u2")

	w := env.do(request{path: "/api/feedback"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(request{path: "/api/feedback", token: tok, bearer: true})
	require.Equal(t, http.StatusOK, w.Code)
	var list model.FeedbackList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Entries, 2)
	assert.False(t, list.Unavailable)
	assert.Equal(t, model.StatusSent, list.Entries[0].Status)
	assert.Equal(t, "Alex Johnson", list.Entries[0].Person)
	assert.Equal(t, model.StatusReceived, list.Entries[1].Status)
	assert.Equal(t, "January 5, 2024", list.Entries[1].Date)

	w = env.do(request{method: http.MethodPost, path: "/api/feedback", token: tok, bearer: true,
		json: `{"title":"Thanks","content":"For the help","receiver_id":"u3"}`})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(request{method: http.MethodPost, path: "/api/feedback", token: tok, bearer: true, json: `{"title":""}`})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(request{path: "/api/feedback/f1", token: tok, bearer: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alex Johnson"`)

	w = env.do(request{path: "/api/feedback/missing", token: tok, bearer: true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Feedback not found"}`, w.Body.String())
}

func TestProfileAPI(t *testing.T) {
	env := newTestEnv(t, 0)
	tok := token(t, "u1")

	w := env.do(request{path: "/api/profiles?q=designer", token: tok, bearer: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sarah Miller")
	assert.NotContains(t, w.Body.String(), "Michael Chen")

	w = env.do(request{path: "/api/me", token: tok, bearer: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alex Johnson"`)
}

func TestSignInAndOut(t *testing.T) {
	env := newTestEnv(t, 0)
	tok := token(t, "u1")

	w := env.do(request{path: "/auth"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(request{path: "/auth", token: tok})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = env.do(request{method: http.MethodPost, path: "/auth/session", form: url.Values{"access_token": {"garbage"}}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(request{method: http.MethodPost, path: "/auth/session", form: url.Values{"access_token": {tok}}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), testCookie+"="+tok)

	w = env.do(request{method: http.MethodPost, path: "/signout", token: tok})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth", w.Header().Get("Location"))

	w = env.do(request{path: "/", token: tok})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth", w.Header().Get("Location"))
}

func TestMaintenanceEndpoints(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(request{path: "/api/setup-triggers"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(request{path: "/api/setup-triggers", header: map[string]string{"Authorization": "Apikey " + testAPIKey}})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Contains(t, w.Body.String(), "postgres")
}

func TestFixProfilesPage(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(request{path: "/admin/fix-profiles"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth", w.Header().Get("Location"))

	w = env.do(request{path: "/admin/fix-profiles", token: token(t, "u1")})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/admin/fix-profiles"`)

	// The sqlite database has no auth.users table, so the repair fails.
	w = env.do(request{method: http.MethodPost, path: "/admin/fix-profiles", token: token(t, "u1")})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
	assert.Contains(t, w.Body.String(), "Profiles could not be repaired")
	assert.NotContains(t, w.Body.String(), "Updated:")
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(request{path: "/health"})
	require.Equal(t, http.StatusOK, w.Code)
	var health handler.HealthCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Services["database"].Status)
	assert.Equal(t, "disabled", health.Services["redis"].Status)

	w = env.do(request{path: "/metrics"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "feedback_tool_http_request_duration_seconds")
}
