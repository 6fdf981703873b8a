package login

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

	authpkg "github.com/souls-console/souls-console/internal/auth"
	"github.com/souls-console/souls-console/internal/config"
	"github.com/souls-console/souls-console/internal/db/models"
	websess "github.com/souls-console/souls-console/internal/web/session"
)

type stubViews struct{}

func (stubViews) Load() error { return nil }

func (stubViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	_, _ = io.WriteString(w, name)

	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists {
			if msg, isString := v.(string); isString && msg != "" {
				_, _ = io.WriteString(w, " error: "+msg)
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

func newTestHandler(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	websess.Init(&testStorage{data: make(map[string][]byte)})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	app := fiber.New(fiber.Config{Views: stubViews{}})

	cfg := &config.Config{
		Title:   "Souls Console",
		DevMode: true,
	}
	cfg.Webserver.Session.ExpiryTime = time.Hour

	svc := Service{}
	require.NoError(t, svc.Init(app, cfg, db))

	return app, db
}

func createAccount(t *testing.T, db *gorm.DB, active bool) {
	t.Helper()

	provider := authpkg.NewLocalProvider(db)

	_, err := provider.CreateUser("tracy", "tracy@example.com", "s3cret-pass", "Tracy", "Trainer")
	require.NoError(t, err)

	if !active {
		require.NoError(t, db.Model(&models.User{}).Where("username = ?", "tracy").Update("active", false).Error)
	}
}

func postLogin(t *testing.T, app *fiber.App, username, password string) *http.Response {
	t.Helper()

	form := url.Values{
		"username": {username},
		"password": {password},
	}

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(body)
}

func TestGetRendersLoginPage(t *testing.T) {
	app, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, Path, nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), TemplateName)
}

func TestPostValidCredentials(t *testing.T) {
	app, db := newTestHandler(t)
	createAccount(t, db, true)

	resp := postLogin(t, app, "tracy", "s3cret-pass")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	// session cookie points at a stored session holding the user
	var sessionID string

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "session" {
			sessionID = cookie.Value
		}
	}

	require.NotEmpty(t, sessionID)

	data := new(websess.Data)
	require.NoError(t, data.Read(sessionID))
	assert.Equal(t, "tracy", data.User.Username)
	assert.Equal(t, "Trainer", data.User.Role)
}

func TestPostWrongPassword(t *testing.T) {
	app, db := newTestHandler(t)
	createAccount(t, db, true)

	resp := postLogin(t, app, "tracy", "wrong")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Invalid username or password")
}

func TestPostUnknownUser(t *testing.T) {
	app, _ := newTestHandler(t)

	resp := postLogin(t, app, "nobody", "whatever")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Invalid username or password")
}

func TestPostDisabledAccount(t *testing.T) {
	app, db := newTestHandler(t)
	createAccount(t, db, false)

	resp := postLogin(t, app, "tracy", "s3cret-pass")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Account is disabled")
}
