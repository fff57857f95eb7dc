package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"phonenumber_validator/internal/batches/repository"
	"phonenumber_validator/internal/batches/service"
	"phonenumber_validator/internal/batches/transport"
	"phonenumber_validator/internal/countries"
	"phonenumber_validator/internal/validation/locales"
	validationservice "phonenumber_validator/internal/validation/service"
	"phonenumber_validator/platform/apperr"
	"phonenumber_validator/platform/config"
	"phonenumber_validator/platform/httpkit"
	"phonenumber_validator/platform/i18n"
	"phonenumber_validator/platform/logger"
	"phonenumber_validator/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	mu      sync.Mutex
	batches map[uuid.UUID]repository.Batch
	values  map[uuid.UUID][]string
}

func (s *stubStore) Create(_ context.Context, b repository.Batch, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = b
	s.values[b.ID] = values
	return nil
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (repository.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	if !ok {
		return repository.Batch{}, apperr.NotFound("batch not found")
	}
	return b, nil
}

func (s *stubStore) ListItems(_ context.Context, id uuid.UUID) ([]repository.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]repository.Item, 0, len(s.values[id]))
	for i, v := range s.values[id] {
		items = append(items, repository.Item{Position: i, Value: v})
	}
	return items, nil
}

func (s *stubStore) Complete(context.Context, uuid.UUID, []repository.ItemResult) error { return nil }
func (s *stubStore) Fail(context.Context, uuid.UUID, string) error                      { return nil }

type stubQueue struct{}

func (stubQueue) EnqueueValidateBatch(context.Context, uuid.UUID) error { return nil }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg, err := countries.NewStatic([]countries.Entry{
		{ID: "GB", Pattern: `^0\d{10}$`},
	})
	require.NoError(t, err)
	translator, err := i18n.NewFromFS(locales.FS, "en")
	require.NoError(t, err)
	log := logger.NewWithWriter("production", io.Discard)
	rules, err := validationservice.New(reg, &config.Config{DefaultCountries: "all", DefaultInternationalFormat: "ITU"}, translator, log)
	require.NoError(t, err)

	store := &stubStore{batches: map[uuid.UUID]repository.Batch{}, values: map[uuid.UUID][]string{}}
	h := New(service.New(store, stubQueue{}, rules, nil, log), validator.New())

	engine := gin.New()
	authed := engine.Group("", func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set(httpkit.ContextUserIDKey, user)
		}
		c.Next()
	})
	authed.POST("/batches", h.Submit)
	authed.GET("/batches/:id", h.Get)
	return engine
}

func do(engine *gin.Engine, method, target, body, user string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSubmitAndGet(t *testing.T) {
	engine := newTestEngine(t)

	rec := do(engine, http.MethodPost, "/batches", `{"values":["02087712924","x"],"countries":"gb"}`, "user-1")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var submitted transport.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.Equal(t, repository.StatusPending, submitted.Status)
	assert.Equal(t, 2, submitted.Total)

	rec = do(engine, http.MethodGet, "/batches/"+submitted.ID.String(), "", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var batch transport.BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.Equal(t, submitted.ID, batch.ID)
	require.Len(t, batch.Items, 2)
	assert.Equal(t, "x", batch.Items[1].Value)
	assert.Nil(t, batch.Items[1].Valid)

	rec = do(engine, http.MethodGet, "/batches/"+submitted.ID.String(), "", "user-2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name   string
		body   string
		user   string
		status int
	}{
		{name: "malformed", body: `{"values":`, user: "user-1", status: http.StatusBadRequest},
		{name: "no values", body: `{"values":[]}`, user: "user-1", status: http.StatusBadRequest},
		{name: "value too long", body: `{"values":["` + strings.Repeat("1", 65) + `"]}`, user: "user-1", status: http.StatusBadRequest},
		{name: "unknown country", body: `{"values":["1"],"countries":["XX"]}`, user: "user-1", status: http.StatusUnprocessableEntity},
		{name: "anonymous", body: `{"values":["1"]}`, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(engine, http.MethodPost, "/batches", tt.body, tt.user)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestGetRejectsBadID(t *testing.T) {
	engine := newTestEngine(t)

	rec := do(engine, http.MethodGet, "/batches/not-a-uuid", "", "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(engine, http.MethodGet, "/batches/"+uuid.NewString(), "", "user-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
