package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jimmbo89/api-sweetspot/internal/handler"
	"github.com/jimmbo89/api-sweetspot/internal/model"
	"github.com/jimmbo89/api-sweetspot/internal/router"
	"github.com/jimmbo89/api-sweetspot/pkg/config"
	"github.com/jimmbo89/api-sweetspot/pkg/database"
	"github.com/jimmbo89/api-sweetspot/pkg/imagestore"
	"github.com/jimmbo89/api-sweetspot/pkg/jwtutil"
	"github.com/jimmbo89/api-sweetspot/pkg/logger"
	"github.com/jimmbo89/api-sweetspot/pkg/mailer"
)

// recordingSender captures outbound mail instead of delivering it and
// can be flipped into a failure mode.
type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	fail bool
}

func (s *recordingSender) Send(msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp: authentication failed")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

// setupTestApp wires the whole application against a throwaway sqlite
// file, the same way main does against postgres.
func setupTestApp(t *testing.T) (*echo.Echo, *recordingSender) {
	t.Helper()

	cfg := &config.Config{
		ServiceName: "api-sweetspot-test",
		DB: config.DBConfig{
			Driver:          "sqlite",
			SQLitePath:      filepath.Join(t.TempDir(), "sweetspot-test.db"),
			MaxIdleConns:    1,
			MaxOpenConns:    1,
			ConnMaxLifetime: time.Hour,
			LogLevel:        gormlogger.Silent,
		},
		Server: config.ServerConfig{
			Port:    "0",
			Env:     "test",
			BaseURL: "http://127.0.0.1:8003/api/",
		},
		JWT: config.JWTConfig{
			SigningKey:      "test-signing-key",
			ExpirationHours: 1,
		},
		Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost},
		Upload: config.UploadConfig{
			Dir: t.TempDir(),
		},
		Log: config.LogConfig{Level: "error"},
	}

	logger.InitLogger(cfg)

	if _, err := database.InitDB(&cfg.DB); err != nil {
		t.Fatalf("init database: %v", err)
	}
	if err := database.MigrateModels(model.All()...); err != nil {
		t.Fatalf("migrate models: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.GetDB().DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	jwtutil.Initialize(&cfg.JWT)
	imagestore.Init(cfg.Upload.Dir)

	sender := &recordingSender{}
	handler.Init(cfg, sender)

	return router.New(logger.GetLogger()), sender
}

func doJSON(t *testing.T, e *echo.Echo, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

// registerAndLogin creates a verified account and returns its session
// token plus the person id issued at registration.
func registerAndLogin(t *testing.T, e *echo.Echo, email, cpf string) (token string, personID uint) {
	t.Helper()

	rec := doJSON(t, e, http.MethodPost, "/api/register", map[string]interface{}{
		"name":     "Test Person",
		"email":    email,
		"password": "secret123",
		"cpf":      cpf,
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	user := body["user"].(map[string]interface{})
	userID := uint(user["id"].(float64))
	personID = uint(user["personId"].(float64))

	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/verify-email/%d", userID), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify email: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodPost, "/api/login", map[string]interface{}{
		"email":    email,
		"password": "secret123",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("login %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	return body["token"].(string), personID
}

// createBusiness inserts a business through the API and returns its id.
func createBusiness(t *testing.T, e *echo.Echo, token, name, cnpj string) uint {
	t.Helper()

	rec := doJSON(t, e, http.MethodPost, "/api/business", map[string]interface{}{
		"name": name,
		"cnpj": cnpj,
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create business %s: status %d body %s", name, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	business := body["business"].(map[string]interface{})
	return uint(business["id"].(float64))
}

func createRole(t *testing.T, e *echo.Echo, token, name string) uint {
	t.Helper()

	rec := doJSON(t, e, http.MethodPost, "/api/role", map[string]interface{}{
		"name":        name,
		"description": "created in tests",
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create role %s: status %d body %s", name, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	role := body["role"].(map[string]interface{})
	return uint(role["id"].(float64))
}
