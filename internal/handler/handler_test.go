package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"messagely/internal/middleware"
	"messagely/internal/services"
	"messagely/internal/transport/httpdto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router *gin.Engine
	auth   *services.AuthService
	store  *memStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := newMemStore()
	users, messages := memUsers{store}, memMessages{store}

	auth, err := services.NewAuthService(users, nil, services.AuthConfig{
		Secret:     []byte("test-secret"),
		WorkFactor: bcrypt.MinCost,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(auth.Wait)

	authH := NewAuthHandler(auth)
	userH := NewUserHandler(services.NewUserService(users, messages, nil, nil))
	msgH := NewMessageHandler(services.NewMessageService(messages))

	r := gin.New()
	r.Use(middleware.ErrorHandler(nil), middleware.Authenticate(auth))
	r.POST("/auth/login", authH.Login)
	r.POST("/auth/register", authH.Register)
	r.GET("/users", middleware.EnsureLoggedIn(), userH.List)
	r.GET("/users/:username", middleware.EnsureCorrectUser(), userH.Get)
	r.GET("/users/:username/to", middleware.EnsureCorrectUser(), userH.MessagesTo)
	r.GET("/users/:username/from", middleware.EnsureCorrectUser(), userH.MessagesFrom)
	r.POST("/messages", middleware.EnsureLoggedIn(), msgH.Send)
	r.GET("/messages/:id", middleware.EnsureLoggedIn(), msgH.Get)
	r.POST("/messages/:id/read", middleware.EnsureLoggedIn(), msgH.MarkRead)

	return &testAPI{router: r, auth: auth, store: store}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) register(t *testing.T, username, password string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username, "password": password,
		"first_name": username, "last_name": "L", "phone": "555-0000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (a *testAPI) token(t *testing.T, username string) string {
	t.Helper()
	token, err := a.auth.IssueToken(username)
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) httpdto.ErrorBody {
	t.Helper()
	return decode[httpdto.ErrorResponse](t, w).Error
}
