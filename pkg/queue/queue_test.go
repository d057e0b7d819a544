package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLists implements the list commands the queue issues.
type memLists struct {
	redis.Cmdable
	lists map[string][]string
}

func newMemLists() *memLists {
	return &memLists{lists: map[string][]string{}}
}

func (m *memLists) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "rpush", key)
	for _, v := range values {
		switch b := v.(type) {
		case []byte:
			m.lists[key] = append(m.lists[key], string(b))
		case string:
			m.lists[key] = append(m.lists[key], b)
		}
	}
	cmd.SetVal(int64(len(m.lists[key])))
	return cmd
}

func (m *memLists) BLPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	cmd := redis.NewStringSliceCmd(ctx, "blpop")
	for _, k := range keys {
		if l := m.lists[k]; len(l) > 0 {
			m.lists[k] = l[1:]
			cmd.SetVal([]string{k, l[0]})
			return cmd
		}
	}
	cmd.SetErr(redis.Nil)
	return cmd
}

func TestEnqueueDequeue(t *testing.T) {
	ctx := context.Background()
	rdb := newMemLists()
	q := NewQueue(rdb, nil)

	in := RegistrationPayload{RegistrationID: "r-1", EventName: "RHYTHM RIOT", Email: "asha@example.com"}
	require.NoError(t, q.Enqueue(ctx, JobTypeRegistrationAlert, in))
	require.Len(t, rdb.lists[QueueNotifications], 1)

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, JobTypeRegistrationAlert, job.Type)
	assert.Equal(t, 0, job.Attempt)

	var out RegistrationPayload
	require.NoError(t, job.Decode(&out))
	assert.Equal(t, in, out)
}

func TestDequeue_emptyAndInvalid(t *testing.T) {
	ctx := context.Background()
	rdb := newMemLists()
	q := NewQueue(rdb, nil)

	job, err := q.Dequeue(ctx)
	assert.NoError(t, err)
	assert.Nil(t, job)

	rdb.lists[QueueNotifications] = []string{"{broken"}
	job, err = q.Dequeue(ctx)
	assert.NoError(t, err)
	assert.Nil(t, job)
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name        string
		attempt     int
		wantAttempt int
		wantList    string
	}{
		{"first failure requeues", 0, 1, QueueNotifications},
		{"second failure requeues", 1, 2, QueueNotifications},
		{"third failure dead-letters", 2, 3, QueueDLQ},
		{"already exhausted dead-letters", 3, 4, QueueDLQ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := newMemLists()
			q := NewQueue(rdb, nil)
			job := &Job{ID: "j-1", Type: JobTypeSheetsAppend, Payload: json.RawMessage(`{}`), Attempt: tt.attempt}

			require.NoError(t, q.Retry(context.Background(), job))
			assert.Equal(t, tt.wantAttempt, job.Attempt)
			require.Len(t, rdb.lists[tt.wantList], 1)

			var stored Job
			require.NoError(t, json.Unmarshal([]byte(rdb.lists[tt.wantList][0]), &stored))
			assert.Equal(t, tt.wantAttempt, stored.Attempt)
			other := QueueDLQ
			if tt.wantList == QueueDLQ {
				other = QueueNotifications
			}
			assert.Empty(t, rdb.lists[other])
		})
	}
}

func TestJobDecode_error(t *testing.T) {
	job := &Job{Type: JobTypeVerifiedEmail, Payload: json.RawMessage(`[1,2]`)}
	var p RegistrationPayload
	assert.ErrorContains(t, job.Decode(&p), string(JobTypeVerifiedEmail))
}
