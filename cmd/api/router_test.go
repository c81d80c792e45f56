package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	authdomain "rec-webapp-backend/internal/auth/domain"
	authUsecase "rec-webapp-backend/internal/auth/usecase"
	"rec-webapp-backend/internal/httperr"
	notificationdomain "rec-webapp-backend/internal/notification/domain"
	notificationRepo "rec-webapp-backend/internal/notification/repository"
	notificationUsecase "rec-webapp-backend/internal/notification/usecase"
	overviewUsecase "rec-webapp-backend/internal/overview/usecase"
	settingsdomain "rec-webapp-backend/internal/settings/domain"
	settingsUsecase "rec-webapp-backend/internal/settings/usecase"
	"rec-webapp-backend/pkg/config"
)

// In-memory repositories so the scenario runs the real usecases end to end.

type memUserRepo struct {
	users map[string]*authdomain.User
}

func (m *memUserRepo) FindBySub(sub string) (*authdomain.User, error) {
	return m.users[sub], nil
}

func (m *memUserRepo) EnsureUser(identity *authdomain.Identity) (*authdomain.User, error) {
	if existing := m.users[identity.Sub]; existing != nil {
		return existing, nil
	}
	user := &authdomain.User{ID: identity.Sub, Sub: identity.Sub, Email: identity.Email, Name: identity.Name}
	m.users[identity.Sub] = user
	return user, nil
}

type memPolicyRepo struct {
	rows []authdomain.PolicyAcceptance
}

func (m *memPolicyRepo) AcceptedVersion(sub string) (string, error) {
	version := ""
	var latest time.Time
	for _, row := range m.rows {
		if row.UserSub == sub && !row.AcceptedAt.Before(latest) {
			latest = row.AcceptedAt
			version = row.PolicyVersion
		}
	}
	return version, nil
}

func (m *memPolicyRepo) Accept(sub, version, ip string, now time.Time) error {
	for _, row := range m.rows {
		if row.UserSub == sub && row.PolicyVersion == version {
			return nil
		}
	}
	m.rows = append(m.rows, authdomain.PolicyAcceptance{
		UserSub: sub, PolicyVersion: version, AcceptedFromIP: ip, AcceptedAt: now,
	})
	return nil
}

type memSettingsRepo struct {
	rows map[string]*settingsdomain.Settings
}

func (m *memSettingsRepo) Load(sub string) (*settingsdomain.Settings, error) {
	if row, ok := m.rows[sub]; ok {
		copied := *row
		return &copied, nil
	}
	row := settingsdomain.Defaults(sub)
	m.rows[sub] = row
	copied := *row
	return &copied, nil
}

func (m *memSettingsRepo) Save(settings *settingsdomain.Settings) error {
	copied := *settings
	m.rows[settings.UserSub] = &copied
	return nil
}

type memNotificationRepo struct {
	mu   sync.Mutex
	rows []notificationdomain.Notification
}

func (m *memNotificationRepo) ListRecent(sub string) ([]notificationdomain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []notificationdomain.Notification
	for _, n := range m.rows {
		if n.UserSub == sub {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotificationRepo) ListUnread(sub string) ([]notificationdomain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []notificationdomain.Notification
	for _, n := range m.rows {
		if n.UserSub == sub && n.ReadAt == nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotificationRepo) MarkRead(sub, id string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		n := &m.rows[i]
		if n.ID == id && n.UserSub == sub {
			if n.ReadAt == nil {
				stamp := now
				n.ReadAt = &stamp
			}
			return nil
		}
	}
	return httperr.ErrNotFound
}

func (m *memNotificationRepo) Create(n *notificationdomain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = "generated"
	}
	m.rows = append(m.rows, *n)
	return nil
}

type memWebPushRepo struct {
	rows map[string]datatypes.JSON
}

func (m *memWebPushRepo) Upsert(sub, endpoint string, payload datatypes.JSON) error {
	m.rows[endpoint] = payload
	return nil
}

func (m *memWebPushRepo) Delete(sub, endpoint string) error {
	delete(m.rows, endpoint)
	return nil
}

func (m *memWebPushRepo) ListBySub(sub string) ([]notificationdomain.WebPushSubscription, error) {
	return nil, nil
}

type testApp struct {
	engine *gin.Engine
	token  string
}

func newTestApp(t *testing.T, vapidKey string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AuthHeaderName: "x-auth-request-access-token",
		PolicyVersion:  "2024-01-01",
		VapidPublicKey: vapidKey,
		AllowedOrigins: []string{"http://localhost:5173"},
	}

	notifications := &memNotificationRepo{}
	authUc := authUsecase.NewAuthUsecase(&memUserRepo{users: map[string]*authdomain.User{}}, &memPolicyRepo{}, cfg.PolicyVersion)
	authUc.SetWelcomeSeeder(notificationRepo.NewWelcomeSeeder(notifications))
	settingsUc := settingsUsecase.NewSettingsUsecase(&memSettingsRepo{rows: map[string]*settingsdomain.Settings{}})
	notificationSvc := notificationUsecase.NewLocalService(notifications, &memWebPushRepo{rows: map[string]datatypes.JSON{}}, settingsUc)
	overviewUc := overviewUsecase.NewOverviewUsecase(nil)

	handler := NewHandler(authUc, settingsUc, notificationSvc, overviewUc, cfg)

	header, _ := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT"})
	payload, _ := json.Marshal(map[string]string{
		"sub":   "user-1",
		"email": "alex@example.org",
		"name":  "Alex",
	})
	token := base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString([]byte("signature"))

	return &testApp{engine: handler.engine, token: token}
}

func (a *testApp) request(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("x-auth-request-access-token", a.token)
	}

	recorder := httptest.NewRecorder()
	a.engine.ServeHTTP(recorder, req)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
	return out
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	app := newTestApp(t, "")

	assert.Equal(t, http.StatusUnauthorized, app.request(t, http.MethodGet, "/api/me", nil, false).Code)
	assert.Equal(t, http.StatusUnauthorized, app.request(t, http.MethodGet, "/api/overview", nil, false).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("x-auth-request-access-token", "not-a-jwt")
	recorder := httptest.NewRecorder()
	app.engine.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHealthNeedsNoAuth(t *testing.T) {
	app := newTestApp(t, "")
	assert.Equal(t, http.StatusOK, app.request(t, http.MethodGet, "/api/health", nil, false).Code)
}

func TestMeAndTermsFlow(t *testing.T) {
	app := newTestApp(t, "")

	recorder := app.request(t, http.MethodGet, "/api/me", nil, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decode(t, recorder)
	assert.Equal(t, true, body["terms_required"])
	assert.Equal(t, "2024-01-01", body["policy_version"])
	assert.Nil(t, body["accepted_policy_version"])
	assert.Equal(t, false, body["simple_mode"])
	assert.Equal(t, 1.0, body["font_scale"])
	assert.Equal(t, "default", body["notification_permission"])

	recorder = app.request(t, http.MethodPost, "/api/terms/accept", gin.H{"accept": false}, true)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = app.request(t, http.MethodPost, "/api/terms/accept", gin.H{"accept": true}, true)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = app.request(t, http.MethodGet, "/api/me", nil, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	body = decode(t, recorder)
	assert.Equal(t, false, body["terms_required"])
	assert.Equal(t, "2024-01-01", body["accepted_policy_version"])
}

func TestSettingsRoundTrip(t *testing.T) {
	app := newTestApp(t, "")

	recorder := app.request(t, http.MethodPut, "/api/settings", gin.H{
		"simple_mode": true,
		"font_scale":  1.2,
		"notifications": gin.H{
			"email_enabled": true,
		},
	}, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decode(t, recorder)
	assert.Equal(t, true, body["simple_mode"])
	assert.Equal(t, 1.2, body["font_scale"])
	notifications := body["notifications"].(map[string]interface{})
	assert.Equal(t, true, notifications["email_enabled"])
	assert.Equal(t, false, notifications["webpush_enabled"])

	recorder = app.request(t, http.MethodPut, "/api/settings", gin.H{"font_scale": 1.4}, true)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// The rejected update must not have clobbered anything.
	recorder = app.request(t, http.MethodGet, "/api/settings", nil, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	body = decode(t, recorder)
	assert.Equal(t, 1.2, body["font_scale"])
	assert.Equal(t, true, body["simple_mode"])
}

func TestOverviewAlwaysHasSevenTrendEntries(t *testing.T) {
	app := newTestApp(t, "")

	recorder := app.request(t, http.MethodGet, "/api/overview", nil, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decode(t, recorder)

	trend := body["trend"].([]interface{})
	require.Len(t, trend, 7)
	last := trend[6].(map[string]interface{})
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), last["date"])
}

func TestNotificationFlow(t *testing.T) {
	app := newTestApp(t, "")

	// First authenticated contact seeds the welcome notification.
	require.Equal(t, http.StatusOK, app.request(t, http.MethodGet, "/api/me", nil, true).Code)

	recorder := app.request(t, http.MethodGet, "/api/notifications", nil, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "info", items[0]["severity"])
	assert.Nil(t, items[0]["read_at"])
	id := items[0]["id"].(string)

	// "read-all" is a literal route, not a notification id.
	require.Equal(t, http.StatusOK, app.request(t, http.MethodPost, "/api/notifications/read-all", nil, true).Code)

	recorder = app.request(t, http.MethodGet, "/api/notifications", nil, true)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.NotNil(t, items[0]["read_at"])

	// Re-marking is idempotent; unknown ids are 404.
	assert.Equal(t, http.StatusOK, app.request(t, http.MethodPost, "/api/notifications/"+id+"/read", nil, true).Code)
	assert.Equal(t, http.StatusNotFound, app.request(t, http.MethodPost, "/api/notifications/missing/read", nil, true).Code)
}

func TestEmailNotificationToggles(t *testing.T) {
	app := newTestApp(t, "")

	require.Equal(t, http.StatusOK, app.request(t, http.MethodPost, "/api/notifications/enable", nil, true).Code)

	recorder := app.request(t, http.MethodGet, "/api/settings", nil, true)
	body := decode(t, recorder)
	assert.Equal(t, true, body["notifications"].(map[string]interface{})["email_enabled"])

	require.Equal(t, http.StatusOK, app.request(t, http.MethodPost, "/api/notifications/disable", nil, true).Code)

	recorder = app.request(t, http.MethodGet, "/api/settings", nil, true)
	body = decode(t, recorder)
	assert.Equal(t, false, body["notifications"].(map[string]interface{})["email_enabled"])
}

func TestWebPushLifecycle(t *testing.T) {
	app := newTestApp(t, "test-vapid-key")

	recorder := app.request(t, http.MethodGet, "/api/notifications/webpush/vapid-public-key", nil, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "test-vapid-key", decode(t, recorder)["public_key"])

	subscription := gin.H{
		"endpoint": "https://push.example.org/sub-1",
		"keys":     gin.H{"p256dh": "key", "auth": "secret"},
	}
	require.Equal(t, http.StatusOK, app.request(t, http.MethodPost, "/api/notifications/webpush/subscribe", subscription, true).Code)

	recorder = app.request(t, http.MethodGet, "/api/me", nil, true)
	assert.Equal(t, true, decode(t, recorder)["webpush_configured"])

	// Missing endpoint is a validation failure.
	assert.Equal(t, http.StatusBadRequest,
		app.request(t, http.MethodPost, "/api/notifications/webpush/subscribe", gin.H{"keys": gin.H{}}, true).Code)

	require.Equal(t, http.StatusOK, app.request(t, http.MethodPost, "/api/notifications/webpush/unsubscribe",
		gin.H{"endpoint": "https://push.example.org/sub-1"}, true).Code)

	recorder = app.request(t, http.MethodGet, "/api/me", nil, true)
	assert.Equal(t, false, decode(t, recorder)["webpush_configured"])
}

func TestVapidKeyUnconfiguredIs503(t *testing.T) {
	app := newTestApp(t, "")

	recorder := app.request(t, http.MethodGet, "/api/notifications/webpush/vapid-public-key", nil, true)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}
