package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"phonenumber_validator/internal/batches/repository"
	"phonenumber_validator/internal/batches/transport"
	"phonenumber_validator/internal/countries"
	"phonenumber_validator/internal/events"
	"phonenumber_validator/internal/validation/locales"
	validationservice "phonenumber_validator/internal/validation/service"
	validationtransport "phonenumber_validator/internal/validation/transport"
	"phonenumber_validator/platform/apperr"
	"phonenumber_validator/platform/config"
	"phonenumber_validator/platform/i18n"
	"phonenumber_validator/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	batches map[uuid.UUID]repository.Batch
	items   map[uuid.UUID][]repository.Item
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		batches: map[uuid.UUID]repository.Batch{},
		items:   map[uuid.UUID][]repository.Item{},
	}
}

func (m *memoryStore) Create(_ context.Context, b repository.Batch, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[b.ID] = b
	items := make([]repository.Item, len(values))
	for i, v := range values {
		items[i] = repository.Item{Position: i, Value: v, Failures: json.RawMessage("[]")}
	}
	m.items[b.ID] = items
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id uuid.UUID) (repository.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[id]
	if !ok {
		return repository.Batch{}, apperr.NotFound("batch not found")
	}
	return b, nil
}

func (m *memoryStore) ListItems(_ context.Context, id uuid.UUID) ([]repository.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repository.Item(nil), m.items[id]...), nil
}

func (m *memoryStore) Complete(_ context.Context, id uuid.UUID, results []repository.ItemResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	invalid := 0
	for _, res := range results {
		valid := res.Valid
		m.items[id][res.Position].Valid = &valid
		m.items[id][res.Position].Failures = res.Failures
		if !valid {
			invalid++
		}
	}
	b := m.batches[id]
	b.Status = repository.StatusCompleted
	b.InvalidCount = invalid
	m.batches[id] = b
	return nil
}

func (m *memoryStore) Fail(_ context.Context, id uuid.UUID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.batches[id]
	b.Status = repository.StatusFailed
	b.Error = &reason
	m.batches[id] = b
	return nil
}

type fakeQueue struct {
	enqueued []uuid.UUID
	err      error
}

func (q *fakeQueue) EnqueueValidateBatch(_ context.Context, id uuid.UUID) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, id)
	return nil
}

type fixture struct {
	svc   *Service
	store *memoryStore
	queue *fakeQueue
	bus   *events.InMemoryBus
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg, err := countries.NewStatic([]countries.Entry{
		{ID: "GB", Pattern: `^\(?0\d{2,4}\)?[ ]?\d{3,4}[ ]?\d{3,4}$`},
		{ID: "US", Pattern: `^\(?[2-9]\d{2}\)?[-. ]?\d{3}[-. ]?\d{4}$`},
	})
	require.NoError(t, err)
	translator, err := i18n.NewFromFS(locales.FS, "en")
	require.NoError(t, err)

	log := logger.NewWithWriter("production", io.Discard)
	rules, err := validationservice.New(reg, &config.Config{DefaultCountries: "all", DefaultInternationalFormat: "ITU"}, translator, log)
	require.NoError(t, err)

	store := newMemoryStore()
	queue := &fakeQueue{}
	bus := events.NewInMemoryBus(log)
	return fixture{svc: New(store, queue, rules, bus, log), store: store, queue: queue, bus: bus}
}

func submitRequest(values ...string) transport.SubmitRequest {
	return transport.SubmitRequest{
		Values:        values,
		Countries:     validationtransport.ParseCountriesParam("GB"),
		International: validationtransport.ParseInternationalParam("EPP"),
	}
}

func TestSubmitStoresAndEnqueues(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Submit(context.Background(), "user-1", submitRequest("020 8771 2924", "nope"), []string{"pl"})
	require.NoError(t, err)

	assert.Equal(t, repository.StatusPending, resp.Status)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, []uuid.UUID{resp.ID}, f.queue.enqueued)

	stored := f.store.batches[resp.ID]
	assert.Equal(t, "user-1", stored.OwnerID)
	assert.Equal(t, "pl", stored.Locale)
	assert.JSONEq(t, `{"countries":["GB"],"international":"EPP"}`, string(stored.RuleSpec))
}

func TestSubmitRejectsBadRuleBeforeStoring(t *testing.T) {
	f := newFixture(t)

	req := submitRequest("1")
	req.Countries = validationtransport.ParseCountriesParam("XX")
	_, err := f.svc.Submit(context.Background(), "user-1", req, nil)

	assert.True(t, apperr.Is(err, apperr.KindConfig))
	assert.Empty(t, f.store.batches)
	assert.Empty(t, f.queue.enqueued)
}

func TestSubmitMarksBatchFailedWhenQueueIsDown(t *testing.T) {
	f := newFixture(t)
	f.queue.err = errors.New("redis down")

	_, err := f.svc.Submit(context.Background(), "user-1", submitRequest("1"), nil)
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))

	require.Len(t, f.store.batches, 1)
	for _, b := range f.store.batches {
		assert.Equal(t, repository.StatusFailed, b.Status)
	}
}

func TestSubmitWithoutQueue(t *testing.T) {
	f := newFixture(t)
	f.svc.queue = nil

	_, err := f.svc.Submit(context.Background(), "user-1", submitRequest("1"), nil)
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
}

func TestProcessValidatesItemsAndPublishes(t *testing.T) {
	f := newFixture(t)

	completed := make(chan events.BatchCompleted, 1)
	f.bus.Subscribe(events.BatchCompleted{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		completed <- e.(events.BatchCompleted)
		return nil
	}))

	values := make([]string, 0, 50)
	for i := 0; i < 25; i++ {
		values = append(values, "020 8771 2924", fmt.Sprintf("bad-%d", i))
	}
	resp, err := f.svc.Submit(context.Background(), "user-1", submitRequest(values...), []string{"pl"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Process(context.Background(), resp.ID))
	f.bus.Wait()

	event := <-completed
	assert.Equal(t, resp.ID, event.BatchID)
	assert.Equal(t, 50, event.Total)
	assert.Equal(t, 25, event.Invalid)

	batch, err := f.svc.Get(context.Background(), "user-1", resp.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusCompleted, batch.Status)
	assert.Equal(t, 25, batch.Invalid)
	require.Len(t, batch.Items, 50)

	first, second := batch.Items[0], batch.Items[1]
	require.NotNil(t, first.Valid)
	assert.True(t, *first.Valid)
	assert.Empty(t, first.Errors)

	require.NotNil(t, second.Valid)
	assert.False(t, *second.Valid)
	require.Len(t, second.Errors, 2)
	assert.Equal(t, "national", second.Errors[0].Scope)
	assert.Equal(t, "international", second.Errors[1].Scope)
	assert.Equal(t, "bad-0 nie jest prawidłowym krajowym numerem telefonu.", second.Errors[0].Message)
}

func TestProcessSkipsFinishedBatches(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Submit(context.Background(), "user-1", submitRequest("nope"), nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.Process(context.Background(), resp.ID))
	f.store.items[resp.ID][0].Valid = nil

	require.NoError(t, f.svc.Process(context.Background(), resp.ID))
	assert.Nil(t, f.store.items[resp.ID][0].Valid)
}

func TestProcessFailsBatchWithBrokenRule(t *testing.T) {
	f := newFixture(t)

	id := uuid.New()
	require.NoError(t, f.store.Create(context.Background(), repository.Batch{
		ID:       id,
		OwnerID:  "user-1",
		Status:   repository.StatusPending,
		RuleSpec: json.RawMessage(`{"countries":["XX"],"international":null}`),
		Locale:   "en",
		Total:    1,
	}, []string{"1"}))

	require.NoError(t, f.svc.Process(context.Background(), id))
	assert.Equal(t, repository.StatusFailed, f.store.batches[id].Status)
	require.NotNil(t, f.store.batches[id].Error)
	assert.Contains(t, *f.store.batches[id].Error, `"XX" is not a valid country`)
}

func TestProcessUnknownBatch(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Process(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGetHidesOtherOwners(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Submit(context.Background(), "user-1", submitRequest("1"), nil)
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), "user-2", resp.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	batch, err := f.svc.Get(context.Background(), "user-1", resp.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusPending, batch.Status)
	require.Len(t, batch.Items, 1)
	assert.Nil(t, batch.Items[0].Valid)
	assert.Empty(t, batch.Items[0].Errors)
}
