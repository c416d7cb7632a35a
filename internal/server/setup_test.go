package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"weave/internal/cache"
	"weave/internal/config"
	"weave/internal/database"
	"weave/internal/middleware"
	"weave/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type testServer struct {
	app *fiber.App
	srv *Server
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Env:       "test",
		JWTSecret: testJWTSecret,
		Port:      "8080",
	}
	middleware.InitMiddleware(cfg)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(redisClient)
	t.Cleanup(func() { cache.SetClient(nil) })

	srv, err := NewServerWithDeps(cfg, db, redisClient)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{AppName: "Weave Graph API"})
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	return &testServer{app: app, srv: srv}
}

func bearerToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (ts *testServer) request(t *testing.T, method, path string, body any, userID uint) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("Authorization", bearerToken(t, userID))
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (ts *testServer) requestWithAuth(t *testing.T, method, path, authHeader string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", authHeader)
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (ts *testServer) createUser(t *testing.T, name string) models.User {
	t.Helper()
	resp := ts.request(t, http.MethodPost, "/api/users", fiber.Map{
		"username": name,
		"email":    fmt.Sprintf("%s@example.com", name),
	}, 0)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[models.User](t, resp)
}
