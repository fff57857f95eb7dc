package scheduler

import (
	"context"
	"errors"
	"testing"

	"phonenumber_validator/platform/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueValidateBatch(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{RedisURL: "redis://" + mr.Addr(), AsynqQueueName: "phonenumbers"}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	batchID := uuid.New()
	require.NoError(t, client.EnqueueValidateBatch(context.Background(), batchID))

	err = client.EnqueueValidateBatch(context.Background(), batchID)
	assert.ErrorIs(t, err, asynq.ErrTaskIDConflict)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = inspector.Close() })

	tasks, err := inspector.ListPendingTasks("phonenumbers")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskValidateBatch, tasks[0].Type)

	payload, err := ParseValidateBatchPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	require.NoError(t, err)
	assert.Equal(t, batchID.String(), payload.BatchID)
}

func TestNewClientRequiresRedis(t *testing.T) {
	_, err := NewClient(&config.Config{})
	assert.Error(t, err)

	_, err = NewClient(&config.Config{RedisURL: "::not a url"})
	assert.Error(t, err)
}

func TestRedisClientOptTLS(t *testing.T) {
	opt, err := redisClientOpt("rediss://user:pw@localhost:6380/2", true)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 2, opt.DB)
	require.NotNil(t, opt.TLSConfig)
	assert.True(t, opt.TLSConfig.InsecureSkipVerify)

	opt, err = redisClientOpt("redis://localhost:6379", false)
	require.NoError(t, err)
	assert.Nil(t, opt.TLSConfig)
}

type recordingProcessor struct {
	got []uuid.UUID
	err error
}

func (p *recordingProcessor) Process(_ context.Context, id uuid.UUID) error {
	p.got = append(p.got, id)
	return p.err
}

func TestHandleValidateBatch(t *testing.T) {
	processor := &recordingProcessor{}
	w := &Worker{processor: processor}

	id := uuid.New()
	task, err := NewValidateBatchTask(ValidateBatchPayload{BatchID: id.String()})
	require.NoError(t, err)
	require.NoError(t, w.handleValidateBatch(context.Background(), task))
	assert.Equal(t, []uuid.UUID{id}, processor.got)

	err = w.handleValidateBatch(context.Background(), asynq.NewTask(TaskValidateBatch, []byte(`{"batchId":"nope"}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = w.handleValidateBatch(context.Background(), asynq.NewTask(TaskValidateBatch, []byte(`{`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	processor.err = errors.New("db down")
	err = w.handleValidateBatch(context.Background(), task)
	assert.EqualError(t, err, "db down")
}
