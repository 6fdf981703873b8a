package settings

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/souls-console/souls-console/internal/config"
	"github.com/souls-console/souls-console/internal/db/controller/setting"
	"github.com/souls-console/souls-console/internal/db/models"
	"github.com/souls-console/souls-console/internal/rbac"
	websess "github.com/souls-console/souls-console/internal/web/session"
)

type stubViews struct{}

func (stubViews) Load() error { return nil }

func (stubViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	_, _ = io.WriteString(w, name)

	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["Title"]; exists {
			if title, isString := v.(string); isString {
				_, _ = io.WriteString(w, " title: "+title)
			}
		}
	}

	return nil
}

type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func newTestHandler(t *testing.T) (*fiber.App, *gorm.DB, string) {
	t.Helper()

	websess.Init(&testStorage{data: make(map[string][]byte)})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Setting{}))

	app := fiber.New(fiber.Config{Views: stubViews{}})

	svc := Service{}
	svc.Init(app, &config.Config{Title: "Souls Console"}, db, rbac.DefaultTable())

	admin := models.User{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "x",
		Active:   true,
		Role:     "Admin",
	}
	require.NoError(t, db.Create(&admin).Error)

	sessionID := websess.GenerateSessionID()
	data := &websess.Data{User: admin}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return app, db, sessionID
}

func TestGetShowsConfiguredTitle(t *testing.T) {
	app, db, sessionID := newTestHandler(t)

	require.NoError(t, setting.SetString(db, setting.NameConsoleTitle, "Night Shift Console"))

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), TemplateName)
	assert.Contains(t, string(body), "Night Shift Console")
}

func TestPostStoresSettings(t *testing.T) {
	app, db, sessionID := newTestHandler(t)

	form := url.Values{
		"title":           {"Night Shift Console"},
		"chat_greeting":   {"Welcome back, %s is listening."},
		"queue_page_size": {"40"},
	}

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	assert.Equal(t, "Night Shift Console", setting.GetString(db, setting.NameConsoleTitle, ""))
	assert.Equal(t, "Welcome back, %s is listening.", setting.GetString(db, setting.NameChatGreeting, ""))
	assert.Equal(t, "40", setting.GetString(db, setting.NameQueuePageSize, ""))
}

func TestPostRejectsBadQueuePageSize(t *testing.T) {
	app, _, sessionID := newTestHandler(t)

	for _, size := range []string{"zero", "0", "101", "-5"} {
		form := url.Values{"queue_page_size": {size}}

		req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "size %q", size)
	}
}

func TestNonAdminDenied(t *testing.T) {
	app, db, _ := newTestHandler(t)

	counselor := models.User{
		Username: "cora",
		Email:    "cora@example.com",
		Password: "x",
		Active:   true,
		Role:     "Counselor",
	}
	require.NoError(t, db.Create(&counselor).Error)

	sessionID := websess.GenerateSessionID()
	data := &websess.Data{User: counselor}
	require.NoError(t, data.Write(sessionID, time.Minute))

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
