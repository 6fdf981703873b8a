package soul

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
	"github.com/souls-console/souls-console/internal/db/models"
	"github.com/souls-console/souls-console/internal/rbac"
	websess "github.com/souls-console/souls-console/internal/web/session"
)

type stubViews struct{}

func (stubViews) Load() error { return nil }

func (stubViews) Render(w io.Writer, name string, _ interface{}, _ ...string) error {
	_, _ = io.WriteString(w, name)

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
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Soul{}))

	app := fiber.New(fiber.Config{Views: stubViews{}})

	svc := Service{}
	svc.Init(app, &config.Config{}, db, rbac.DefaultTable())

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

func postForm(t *testing.T, app *fiber.App, target, sessionID string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestCreateSoul(t *testing.T) {
	app, db, sessionID := newTestHandler(t)

	form := url.Values{
		"name":        {"Aurora"},
		"archetype":   {"mentor"},
		"temperament": {"calm"},
		"status":      {"active"},
	}

	resp := postForm(t, app, Path, sessionID, form)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var created models.Soul
	require.NoError(t, db.Where("name = ?", "Aurora").First(&created).Error)
	assert.Equal(t, "mentor", created.Archetype)
	assert.Equal(t, models.SoulStatusActive, created.Status)
}

func TestCreateSoulValidation(t *testing.T) {
	app, db, sessionID := newTestHandler(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{
			name: "name too short",
			form: url.Values{"name": {"A"}, "archetype": {"mentor"}, "status": {"active"}},
		},
		{
			name: "missing archetype",
			form: url.Values{"name": {"Aurora"}, "status": {"active"}},
		},
		{
			name: "unknown status",
			form: url.Values{"name": {"Aurora"}, "archetype": {"mentor"}, "status": {"sleeping"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postForm(t, app, Path, sessionID, tt.form)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Soul{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRetireSoul(t *testing.T) {
	app, db, sessionID := newTestHandler(t)

	soul := models.Soul{Name: "Aurora", Archetype: "mentor", Status: models.SoulStatusActive}
	require.NoError(t, db.Create(&soul).Error)

	resp := postForm(t, app, Path+"/1/retire", sessionID, url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var updated models.Soul
	require.NoError(t, db.First(&updated, soul.ID).Error)
	assert.Equal(t, models.SoulStatusRetired, updated.Status)
}

func TestSoulRoutesRequireManageSouls(t *testing.T) {
	app, db, _ := newTestHandler(t)

	trainer := models.User{
		Username: "tracy",
		Email:    "tracy@example.com",
		Password: "x",
		Active:   true,
		Role:     "Trainer",
	}
	require.NoError(t, db.Create(&trainer).Error)

	sessionID := websess.GenerateSessionID()
	data := &websess.Data{User: trainer}
	require.NoError(t, data.Write(sessionID, time.Minute))

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
