package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
	"github.com/RinkiBai/portfolio-backend/internal/contact/guard"
	"github.com/RinkiBai/portfolio-backend/internal/contact/repository"
	"github.com/RinkiBai/portfolio-backend/internal/contact/service"
	"github.com/RinkiBai/portfolio-backend/internal/contact/validate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubNotifier struct {
	mu   sync.Mutex
	got  []*domain.Submission
	fail bool
}

func (n *stubNotifier) Enqueue(s *domain.Submission) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, s)
	if n.fail {
		return fmt.Errorf("%w: queue full", domain.ErrNotification)
	}
	return nil
}

type env struct {
	router   *gin.Engine
	store    *repository.MemoryRepository
	notifier *stubNotifier
}

func newEnv(t *testing.T, limit int, store service.Store) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := repository.NewMemoryRepository()
	if store == nil {
		store = mem
	}
	notifier := &stubNotifier{}
	svc := service.NewContactService(validate.New(), nil, store, notifier, zap.NewNop())
	h := NewHandler(svc, zap.NewNop(), true)

	r := gin.New()
	limiter := guard.NewMemoryLimiter(limit, 15*time.Minute)
	h.Register(r.Group("/api/contact"), []gin.HandlerFunc{guard.Middleware(limiter, zap.NewNop())}, nil)

	return &env{router: r, store: mem, notifier: notifier}
}

func (e *env) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:41000"
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestPing(t *testing.T) {
	e := newEnv(t, 5, nil)
	rr := e.do(http.MethodGet, "/api/contact", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Contact route is reachable!")
}

func TestSubmit_Success(t *testing.T) {
	e := newEnv(t, 5, nil)

	rr := e.do(http.MethodPost, "/api/contact", map[string]string{
		"name": "Jo", "email": "jo@x.com", "message": "Hello there, this is a test.",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decode[submitResponse](t, rr)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.ID)
	assert.WithinDuration(t, time.Now(), resp.Data.Timestamp, 5*time.Second)

	list := decode[listResponse](t, e.do(http.MethodGet, "/api/contact/all", nil))
	require.NotEmpty(t, list.Data)
	assert.Equal(t, resp.Data.ID, list.Data[0].ID)
	assert.Len(t, e.notifier.got, 1)
}

func TestSubmit_ValidationFailure(t *testing.T) {
	e := newEnv(t, 5, nil)

	rr := e.do(http.MethodPost, "/api/contact", map[string]string{
		"name": "J", "email": "bad", "message": "hi",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decode[errorResponse](t, rr)
	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 3)

	fields := []string{resp.Errors[0].Field, resp.Errors[1].Field, resp.Errors[2].Field}
	assert.ElementsMatch(t, []string{"name", "email", "message"}, fields)
	assert.Zero(t, e.store.Count())
	assert.Empty(t, e.notifier.got)
}

func TestSubmit_MarkupDoesNotCountTowardLength(t *testing.T) {
	e := newEnv(t, 5, nil)

	rr := e.do(http.MethodPost, "/api/contact", map[string]string{
		"name": "<b>J</b>", "email": "jo@x.com", "message": "<i>hi</i><i></i>",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decode[errorResponse](t, rr)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "name", resp.Errors[0].Field)
	assert.Equal(t, "message", resp.Errors[1].Field)
	assert.Zero(t, e.store.Count())
	assert.Empty(t, e.notifier.got)
}

func TestList_ReturnsUnescapedText(t *testing.T) {
	e := newEnv(t, 5, nil)
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/contact", map[string]string{
		"name": "Tom & Jerry's", "email": "tom@x.com", "message": `Fish & chips, "quoted" text.`,
	}).Code)

	list := decode[listResponse](t, e.do(http.MethodGet, "/api/contact/all", nil))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Tom & Jerry's", list.Data[0].Name)
	assert.Equal(t, `Fish & chips, "quoted" text.`, list.Data[0].Message)
}

func TestSubmit_MalformedBody(t *testing.T) {
	e := newEnv(t, 5, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, e.store.Count())
}

func TestSubmit_RateLimited(t *testing.T) {
	e := newEnv(t, 2, nil)
	body := map[string]string{"name": "Jo", "email": "jo@x.com", "message": "Hello there, this is a test."}

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/contact", body).Code)
	}

	rr := e.do(http.MethodPost, "/api/contact", body)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Equal(t, 2, e.store.Count())
	assert.Len(t, e.notifier.got, 2)
}

func TestSubmit_NotificationFailureStillSucceeds(t *testing.T) {
	e := newEnv(t, 5, nil)
	e.notifier.fail = true

	rr := e.do(http.MethodPost, "/api/contact", map[string]string{
		"name": "Jo", "email": "jo@x.com", "message": "Hello there, this is a test.",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, e.store.Count())
}

type brokenStore struct{}

func (brokenStore) Create(_ context.Context, _ domain.Fields) (*domain.Submission, error) {
	return nil, fmt.Errorf("%w: insert: connection refused", domain.ErrPersistence)
}

func (brokenStore) List(_ context.Context, _, _ int) (*domain.Page, error) {
	return nil, fmt.Errorf("%w: select: connection refused", domain.ErrPersistence)
}

func (brokenStore) DeleteByID(_ context.Context, _ string) (bool, error) {
	return false, errors.New("unreachable")
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	e := newEnv(t, 5, brokenStore{})

	rr := e.do(http.MethodPost, "/api/contact", map[string]string{
		"name": "Jo", "email": "jo@x.com", "message": "Hello there, this is a test.",
	})
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	resp := decode[errorResponse](t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, "Server error. Please try again later.", resp.Message)
	assert.Contains(t, resp.Error, "connection refused")
	assert.Empty(t, e.notifier.got)
}

func TestList_Pagination(t *testing.T) {
	e := newEnv(t, 100, nil)
	for i := 0; i < 5; i++ {
		rr := e.do(http.MethodPost, "/api/contact", map[string]string{
			"name": "Jo", "email": "jo@x.com", "message": fmt.Sprintf("Message number %d here", i),
		})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	list := decode[listResponse](t, e.do(http.MethodGet, "/api/contact/all?page=2&limit=2", nil))
	assert.True(t, list.Success)
	assert.Equal(t, 5, list.Total)
	assert.Equal(t, 3, list.TotalPages)
	assert.Equal(t, 2, list.CurrentPage)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "Message number 2 here", list.Data[0].Message)
}

func TestDelete(t *testing.T) {
	e := newEnv(t, 5, nil)
	created := decode[submitResponse](t, e.do(http.MethodPost, "/api/contact", map[string]string{
		"name": "Jo", "email": "jo@x.com", "message": "Hello there, this is a test.",
	}))

	rr := e.do(http.MethodDelete, "/api/contact/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, e.store.Count())

	rr = e.do(http.MethodDelete, "/api/contact/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Contact not found.", decode[errorResponse](t, rr).Message)
}

func TestRegister_OperatorAuthGuardsAdminRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewContactService(validate.New(), nil, repository.NewMemoryRepository(), &stubNotifier{}, zap.NewNop())
	h := NewHandler(svc, zap.NewNop(), false)

	r := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	h.Register(r.Group("/api/contact"), nil, deny)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/contact/all"},
		{http.MethodDelete, "/api/contact/abc"},
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, tc.path)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
