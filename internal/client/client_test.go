package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/taskboard/internal/auth"
	"github.com/redmonkez12/taskboard/internal/config"
	httpServer "github.com/redmonkez12/taskboard/internal/http"
	"github.com/redmonkez12/taskboard/internal/httputil"
	"github.com/redmonkez12/taskboard/internal/logging"
	"github.com/redmonkez12/taskboard/internal/task"
	"github.com/redmonkez12/taskboard/internal/user"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Server:  config.ServerConfig{Env: "prod"},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
	}
	logger := logging.NewLoggerWithWriter(io.Discard, false)

	tokens, err := auth.NewJWTService([]byte("client-test-secret"))
	require.NoError(t, err)

	users := user.NewMemoryRepository()
	authService := auth.NewService(users, tokens, auth.NewBcryptHasher(bcrypt.MinCost), logger, time.Hour)
	taskService := task.NewService(task.NewMemoryRepository(), users)

	router := httpServer.NewRouter(cfg, auth.NewHandler(authService), task.NewHandler(taskService), auth.NewGuard(authService), logger)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FullSession(t *testing.T) {
	ctx := context.Background()
	c := New(newTestServer(t).URL)

	token, err := c.Signup(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, token, c.Token())

	profile, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", profile.Email)

	created, err := c.CreateTask(ctx, "Buy milk", "")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)

	title := "Buy oat milk"
	updated, err := c.UpdateTask(ctx, created.ID, &title, nil)
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)

	require.NoError(t, c.DeleteTask(ctx, created.ID))

	err = c.DeleteTask(ctx, created.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, httputil.CodeTaskNotFound, apiErr.Code)

	tasks, err = c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestClient_Login(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)

	_, err := New(srv.URL).Signup(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	c := New(srv.URL)
	_, err = c.Login(ctx, "a@x.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.Empty(t, c.Token())

	_, err = c.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Token())
}

func TestClient_RequiresToken(t *testing.T) {
	c := New("http://127.0.0.1:0")

	_, err := c.ListTasks(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	err = c.DeleteTask(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestClient_ForbiddenToken(t *testing.T) {
	c := New(newTestServer(t).URL)
	c.SetToken("forged")

	_, err := c.Profile(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, httputil.CodeInvalidToken, apiErr.Code)
}

func TestAPIError_Message(t *testing.T) {
	assert.Equal(t, "task not found (status 404)", (&APIError{Status: 404, Message: "task not found"}).Error())
	assert.Equal(t, "server returned status 502", (&APIError{Status: 502}).Error())
}
